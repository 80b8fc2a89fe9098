package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// PutObject uploads an object to the configured bucket
func (c *Client) PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error {
	if objectKey == "" {
		return ErrInvalidArgument
	}

	_, err := c.client.PutObject(ctx, c.config.Bucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return wrapError("PutObject", err, c.config.Bucket, objectKey)
	}

	c.logger.Debug("object stored",
		zap.String("bucket", c.config.Bucket),
		zap.String("object", objectKey),
		zap.Int("size", len(data)),
	)

	return nil
}

// RemoveObject deletes an object from the configured bucket
func (c *Client) RemoveObject(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return ErrInvalidArgument
	}

	err := c.client.RemoveObject(ctx, c.config.Bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return wrapError("RemoveObject", err, c.config.Bucket, objectKey)
	}

	return nil
}

// StatObject returns metadata for an object, or ErrObjectNotFound
func (c *Client) StatObject(ctx context.Context, objectKey string) (minio.ObjectInfo, error) {
	info, err := c.client.StatObject(ctx, c.config.Bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if IsNotFound(err) {
			return minio.ObjectInfo{}, ErrObjectNotFound
		}
		return minio.ObjectInfo{}, wrapError("StatObject", err, c.config.Bucket, objectKey)
	}

	return info, nil
}
