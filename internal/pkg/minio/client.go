package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Client wraps the MinIO client for a single bucket
type Client struct {
	client *minio.Client
	config *Config
	logger *logger.Logger
}

// NewClient creates a new MinIO client
func NewClient(cfg *Config, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	}
	if cfg.Region != "" {
		opts.Region = cfg.Region
	}

	minioClient, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, wrapError("NewClient", err, "", "")
	}

	log.Info("minio client initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	return &Client{
		client: minioClient,
		config: cfg,
		logger: log,
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return wrapError("EnsureBucket", err, c.config.Bucket, "")
	}

	if !exists {
		if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return wrapError("EnsureBucket", err, c.config.Bucket, "")
		}
		c.logger.Info("created bucket", zap.String("bucket", c.config.Bucket))
	}

	return nil
}

// Ping checks if the MinIO server is accessible
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.ListBuckets(ctx); err != nil {
		return wrapError("Ping", err, "", "")
	}
	return nil
}

// Bucket returns the configured bucket name
func (c *Client) Bucket() string {
	return c.config.Bucket
}

// ObjectURL returns the externally reachable URL for an object key
func (c *Client) ObjectURL(objectKey string) string {
	return c.config.PublicURL(objectKey)
}
