package data

import (
	"context"
	"path"

	"github.com/google/uuid"
	"github.com/studyshare/studyshare-backend/internal/pkg/minio"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
)

// MinIOStorage stores files in a self-hosted S3-compatible bucket. The
// storage id is the object key.
type MinIOStorage struct {
	client *minio.Client
}

// NewMinIOStorage creates the MinIO-backed storage service
func NewMinIOStorage(client *minio.Client) biz.StorageService {
	return &MinIOStorage{client: client}
}

func (s *MinIOStorage) Upload(ctx context.Context, req *biz.UploadRequest) (*biz.StoredObject, error) {
	// random key so uploads with the same filename never collide
	objectKey := "resources/" + uuid.New().String() + path.Ext(req.FileName)

	if err := s.client.PutObject(ctx, objectKey, req.Data, req.ContentType); err != nil {
		return nil, err
	}

	return &biz.StoredObject{
		URL:       s.client.ObjectURL(objectKey),
		StorageID: objectKey,
		Bytes:     int64(len(req.Data)),
	}, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, storageID string) error {
	return s.client.RemoveObject(ctx, storageID)
}
