package biz

import (
	"context"
	"time"

	"github.com/studyshare/studyshare-backend/internal/pkg/cloudinary"
	apperrors "github.com/studyshare/studyshare-backend/internal/pkg/errors"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Category classifies a shared resource
type Category string

const (
	CategoryNotes      Category = "notes"
	CategoryAssignment Category = "assignment"
	CategoryProject    Category = "project"
	CategoryPastPaper  Category = "past-paper"
	CategoryBook       Category = "book"
	CategoryCheatsheet Category = "cheatsheet"
	CategoryOther      Category = "other"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryNotes, CategoryAssignment, CategoryProject,
		CategoryPastPaper, CategoryBook, CategoryCheatsheet, CategoryOther:
		return true
	}
	return false
}

// Resource is one shared study resource: an uploaded file plus the
// descriptive fields shown in the catalog.
type Resource struct {
	ID          string
	Title       string
	Description string
	Subject     string
	Category    Category

	FileURL   string
	FileName  string
	FileType  string
	FileSize  int64
	StorageID string // opaque handle used to delete the stored object; may be empty

	UploaderID   string
	UploaderName string

	DownloadCount int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceRepo is the metadata store
type ResourceRepo interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	// List returns all resources newest first
	List(ctx context.Context) ([]*Resource, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]*Resource, error)
	// IncrementDownloadCount atomically bumps the counter and returns the
	// updated resource
	IncrementDownloadCount(ctx context.Context, id string) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

// UploadRequest is one file handed to the storage backend
type UploadRequest struct {
	FileName    string
	ContentType string
	Data        []byte
}

// StoredObject describes a file the storage backend accepted
type StoredObject struct {
	// URL is the retrieval URL for the stored bytes
	URL string
	// StorageID is the opaque id used for later deletion
	StorageID string
	// Bytes is the stored size as reported by the backend
	Bytes int64
}

// StorageService is the object storage backend files are written to
type StorageService interface {
	Upload(ctx context.Context, req *UploadRequest) (*StoredObject, error)
	Delete(ctx context.Context, storageID string) error
}

// UploadPolicy bounds what callers may upload
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

// Allows reports whether the MIME type is on the allowlist. An empty
// allowlist accepts everything.
func (p *UploadPolicy) Allows(contentType string) bool {
	if len(p.AllowedTypes) == 0 {
		return true
	}
	for _, t := range p.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// Uploader is the verified identity a new resource is attributed to
type Uploader struct {
	ID   string
	Name string
}

// CreateResourceRequest carries the upload form fields plus the file
type CreateResourceRequest struct {
	Title       string
	Description string
	Subject     string
	Category    string

	File *UploadRequest
}

// ResourceView is the trimmed projection returned after a successful upload
type ResourceView struct {
	ID        string
	Title     string
	FileURL   string
	CreatedAt time.Time
}

// DownloadTarget is what a client needs to run a forced-download flow
type DownloadTarget struct {
	DownloadURL string
	FileName    string
	FileType    string
}

// ResourceUseCase implements the resource lifecycle
type ResourceUseCase struct {
	repo    ResourceRepo
	storage StorageService
	policy  UploadPolicy
	log     *logger.Logger
}

// NewResourceUseCase creates a resource use case
func NewResourceUseCase(repo ResourceRepo, storage StorageService, policy UploadPolicy, log *logger.Logger) *ResourceUseCase {
	return &ResourceUseCase{
		repo:    repo,
		storage: storage,
		policy:  policy,
		log:     log,
	}
}

// Upload runs the upload pipeline: file checks, storage write, field
// validation, metadata write. The storage write always precedes the metadata
// write so failures after it can clean up the orphaned object.
func (uc *ResourceUseCase) Upload(ctx context.Context, uploader Uploader, req *CreateResourceRequest) (*ResourceView, error) {
	// file checks run before any storage traffic
	if req.File == nil || len(req.File.Data) == 0 {
		return nil, apperrors.New(apperrors.ErrResourceNoFile)
	}
	if !uc.policy.Allows(req.File.ContentType) {
		return nil, apperrors.New(apperrors.ErrResourceInvalidFileType, req.File.ContentType)
	}
	if uc.policy.MaxSize > 0 && int64(len(req.File.Data)) > uc.policy.MaxSize {
		return nil, apperrors.New(apperrors.ErrResourceFileTooLarge)
	}

	stored, err := uc.storage.Upload(ctx, req.File)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrResourceUploadFailed)
	}

	// field validation happens after the storage write, so a failure here
	// must remove the object again
	if err := uc.validateFields(req); err != nil {
		uc.cleanupStoredObject(ctx, stored.StorageID)
		return nil, err
	}

	category := Category(req.Category)
	if req.Category == "" {
		category = CategoryNotes
	}

	size := stored.Bytes
	if size == 0 {
		size = int64(len(req.File.Data))
	}

	resource := &Resource{
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Category:     category,
		FileURL:      stored.URL,
		FileName:     req.File.FileName,
		FileType:     req.File.ContentType,
		FileSize:     size,
		StorageID:    stored.StorageID,
		UploaderID:   uploader.ID,
		UploaderName: uploader.Name,
	}

	if err := uc.repo.Create(ctx, resource); err != nil {
		uc.cleanupStoredObject(ctx, stored.StorageID)
		return nil, apperrors.Wrap(err, apperrors.ErrResourceUploadFailed)
	}

	uc.log.Info("resource uploaded",
		zap.String("resource_id", resource.ID),
		zap.String("uploader_id", uploader.ID),
		zap.Int64("size", resource.FileSize))

	return &ResourceView{
		ID:        resource.ID,
		Title:     resource.Title,
		FileURL:   resource.FileURL,
		CreatedAt: resource.CreatedAt,
	}, nil
}

func (uc *ResourceUseCase) validateFields(req *CreateResourceRequest) error {
	if req.Title == "" || req.Subject == "" {
		return apperrors.New(apperrors.ErrResourceMissingFields)
	}
	if req.Category != "" && !Category(req.Category).Valid() {
		return apperrors.New(apperrors.ErrResourceInvalidCategory, req.Category)
	}
	return nil
}

// cleanupStoredObject removes an orphaned storage object. Failures are
// logged, never propagated: cleanup is advisory and must not mask the
// primary error.
func (uc *ResourceUseCase) cleanupStoredObject(ctx context.Context, storageID string) {
	if storageID == "" {
		return
	}
	if err := uc.storage.Delete(ctx, storageID); err != nil {
		uc.log.Error("storage cleanup failed, object orphaned",
			zap.String("storage_id", storageID),
			zap.Error(err))
	}
}

// List returns the full catalog, newest first
func (uc *ResourceUseCase) List(ctx context.Context) ([]*Resource, error) {
	resources, err := uc.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return resources, nil
}

// ListByUploader returns the caller's own uploads, newest first
func (uc *ResourceUseCase) ListByUploader(ctx context.Context, uploaderID string) ([]*Resource, error) {
	resources, err := uc.repo.ListByUploader(ctx, uploaderID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return resources, nil
}

// Get returns one resource by id
func (uc *ResourceUseCase) Get(ctx context.Context, id string) (*Resource, error) {
	resource, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// RecordDownload atomically increments the download counter and returns the
// updated resource
func (uc *ResourceUseCase) RecordDownload(ctx context.Context, id string) (*Resource, error) {
	resource, err := uc.repo.IncrementDownloadCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// ResolveDownloadURL looks up a resource and returns its forced-attachment
// download URL plus the metadata a client needs to save the file.
func (uc *ResourceUseCase) ResolveDownloadURL(ctx context.Context, id string) (*DownloadTarget, error) {
	resource, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DownloadTarget{
		DownloadURL: cloudinary.AttachmentURL(resource.FileURL),
		FileName:    resource.FileName,
		FileType:    resource.FileType,
	}, nil
}

// Delete removes a resource owned by the caller. The stored object is
// deleted best-effort first; a storage failure is logged as an inconsistency
// but never blocks removal of the metadata record.
func (uc *ResourceUseCase) Delete(ctx context.Context, id string, callerID string) error {
	resource, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if resource.UploaderID != callerID {
		return apperrors.New(apperrors.ErrResourceNotOwner)
	}

	if resource.StorageID != "" {
		if err := uc.storage.Delete(ctx, resource.StorageID); err != nil {
			uc.log.Error("storage delete failed, stored object may be orphaned",
				zap.String("resource_id", resource.ID),
				zap.String("storage_id", resource.StorageID),
				zap.Error(err))
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Info("resource deleted",
		zap.String("resource_id", id),
		zap.String("uploader_id", callerID))

	return nil
}
