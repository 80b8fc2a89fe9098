package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyshare/studyshare-backend/internal/pkg/cloudinary"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
)

// CloudinaryStorage stores files through the Cloudinary upload API.
//
// The storage id encodes both the resource type and the public id
// ("raw:folder/name") because the destroy endpoint needs the resource type
// the object was uploaded under.
type CloudinaryStorage struct {
	client *cloudinary.Client
}

// NewCloudinaryStorage creates the Cloudinary-backed storage service
func NewCloudinaryStorage(client *cloudinary.Client) biz.StorageService {
	return &CloudinaryStorage{client: client}
}

func (s *CloudinaryStorage) Upload(ctx context.Context, req *biz.UploadRequest) (*biz.StoredObject, error) {
	result, err := s.client.Upload(ctx, &cloudinary.UploadParams{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Data:        req.Data,
	})
	if err != nil {
		return nil, err
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}

	return &biz.StoredObject{
		URL:       url,
		StorageID: encodeStorageID(result.ResourceType, result.PublicID),
		Bytes:     result.Bytes,
	}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, storageID string) error {
	resourceType, publicID, err := decodeStorageID(storageID)
	if err != nil {
		return err
	}
	return s.client.Destroy(ctx, resourceType, publicID)
}

func encodeStorageID(resourceType, publicID string) string {
	return resourceType + ":" + publicID
}

func decodeStorageID(storageID string) (resourceType, publicID string, err error) {
	resourceType, publicID, ok := strings.Cut(storageID, ":")
	if !ok || resourceType == "" || publicID == "" {
		return "", "", fmt.Errorf("malformed storage id %q", storageID)
	}
	return resourceType, publicID, nil
}
