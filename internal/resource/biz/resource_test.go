package biz

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/studyshare/studyshare-backend/internal/pkg/errors"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
)

type fakeRepo struct {
	mu        sync.Mutex
	resources map[string]*Resource
	nextID    int
	failNext  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{resources: make(map[string]*Resource)}
}

func (r *fakeRepo) Create(ctx context.Context, res *Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return fmt.Errorf("insert failed")
	}
	r.nextID++
	res.ID = fmt.Sprintf("res-%d", r.nextID)
	clone := *res
	r.resources[res.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrResourceNotFound)
	}
	clone := *res
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Resource, 0, len(r.resources))
	for _, res := range r.resources {
		clone := *res
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRepo) ListByUploader(ctx context.Context, uploaderID string) ([]*Resource, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, res := range all {
		if res.UploaderID == uploaderID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeRepo) IncrementDownloadCount(ctx context.Context, id string) (*Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrResourceNotFound)
	}
	res.DownloadCount++
	clone := *res
	return &clone, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[id]; !ok {
		return apperrors.New(apperrors.ErrResourceNotFound)
	}
	delete(r.resources, id)
	return nil
}

type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	nextID     int
	failUpload bool
	failDelete bool
	uploads    int
	deletes    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, req *UploadRequest) (*StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.failUpload {
		return nil, fmt.Errorf("storage unavailable")
	}
	s.nextID++
	id := fmt.Sprintf("obj-%d", s.nextID)
	s.objects[id] = req.Data
	return &StoredObject{
		URL:       "https://res.cloudinary.com/demo/raw/upload/v1/" + id,
		StorageID: id,
		Bytes:     int64(len(req.Data)),
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.failDelete {
		return fmt.Errorf("storage unavailable")
	}
	delete(s.objects, storageID)
	return nil
}

func (s *fakeStorage) has(storageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[storageID]
	return ok
}

func testUseCase(t *testing.T, repo *fakeRepo, storage *fakeStorage) *ResourceUseCase {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)
	return NewResourceUseCase(repo, storage, UploadPolicy{
		MaxSize:      5 * 1024 * 1024,
		AllowedTypes: []string{"application/pdf", "image/png"},
	}, log)
}

func pdfUpload() *UploadRequest {
	return &UploadRequest{
		FileName:    "calc-notes.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	}
}

func TestUploadSuccess(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1", Name: "Ada"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Calc Notes", view.Title)
	assert.Contains(t, view.FileURL, "cloudinary.com")

	stored, err := repo.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, CategoryNotes, stored.Category) // defaulted
	assert.Equal(t, "u1", stored.UploaderID)
	assert.Equal(t, "Ada", stored.UploaderName)
	assert.Equal(t, int64(0), stored.DownloadCount)
}

func TestUploadNoFile(t *testing.T) {
	storage := newFakeStorage()
	uc := testUseCase(t, newFakeRepo(), storage)

	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNoFile))
	assert.Equal(t, 0, storage.uploads)
}

func TestUploadDisallowedType(t *testing.T) {
	storage := newFakeStorage()
	uc := testUseCase(t, newFakeRepo(), storage)

	file := pdfUpload()
	file.ContentType = "application/x-msdownload"
	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    file,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceInvalidFileType))
	assert.Equal(t, 0, storage.uploads)
}

func TestUploadTooLargeRejectedBeforeStorage(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)
	uc := NewResourceUseCase(repo, storage, UploadPolicy{MaxSize: 4}, log)

	_, err = uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceFileTooLarge))
	assert.Equal(t, 0, storage.uploads)
}

func TestUploadMissingTitleCleansUpStoredObject(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Subject: "Math",
		File:    pdfUpload(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceMissingFields))

	// the object reached storage and was removed again
	assert.Equal(t, 1, storage.uploads)
	assert.Equal(t, 1, storage.deletes)
	assert.Empty(t, storage.objects)

	all, _ := repo.List(context.Background())
	assert.Empty(t, all)
}

func TestUploadUnknownCategoryCleansUp(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:    "Calc Notes",
		Subject:  "Math",
		Category: "memes",
		File:     pdfUpload(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceInvalidCategory))
	assert.Empty(t, storage.objects)
}

func TestUploadMetadataFailureCleansUp(t *testing.T) {
	repo := newFakeRepo()
	repo.failNext = true
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceUploadFailed))
	assert.Empty(t, storage.objects)
}

func TestUploadCleanupFailureDoesNotMaskError(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	storage.failDelete = true
	uc := testUseCase(t, repo, storage)

	_, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Subject: "Math",
		File:    pdfUpload(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceMissingFields))
}

func TestRecordDownloadConcurrent(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordDownload(context.Background(), view.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := uc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), res.DownloadCount)
}

func TestRecordDownloadNotFound(t *testing.T) {
	uc := testUseCase(t, newFakeRepo(), newFakeStorage())
	_, err := uc.RecordDownload(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
}

func TestResolveDownloadURL(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)

	target, err := uc.ResolveDownloadURL(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Contains(t, target.DownloadURL, "/upload/fl_attachment/")
	assert.Equal(t, "calc-notes.pdf", target.FileName)
	assert.Equal(t, "application/pdf", target.FileType)
}

func TestDeleteByNonOwner(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), view.ID, "u2")
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotOwner))

	// both the record and the stored object survive
	res, err := uc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, storage.has(res.StorageID))
}

func TestDeleteByOwner(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), view.ID, "u1"))

	_, err = uc.Get(context.Background(), view.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
	assert.Empty(t, storage.objects)
}

func TestDeleteSurvivesStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	uc := testUseCase(t, repo, storage)

	view, err := uc.Upload(context.Background(), Uploader{ID: "u1"}, &CreateResourceRequest{
		Title:   "Calc Notes",
		Subject: "Math",
		File:    pdfUpload(),
	})
	require.NoError(t, err)

	storage.failDelete = true
	require.NoError(t, uc.Delete(context.Background(), view.ID, "u1"))

	_, err = uc.Get(context.Background(), view.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
}

func TestDeleteMissingResource(t *testing.T) {
	uc := testUseCase(t, newFakeRepo(), newFakeStorage())
	err := uc.Delete(context.Background(), "missing", "u1")
	assert.True(t, apperrors.Is(err, apperrors.ErrResourceNotFound))
}

func TestUploadPolicyAllows(t *testing.T) {
	open := UploadPolicy{}
	assert.True(t, open.Allows("anything/at-all"))

	strict := UploadPolicy{AllowedTypes: []string{"application/pdf"}}
	assert.True(t, strict.Allows("application/pdf"))
	assert.False(t, strict.Allows("image/png"))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{
		CategoryNotes, CategoryAssignment, CategoryProject,
		CategoryPastPaper, CategoryBook, CategoryCheatsheet, CategoryOther,
	} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("memes").Valid())
	assert.False(t, Category("").Valid())
}
