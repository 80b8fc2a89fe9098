package data

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/studyshare/studyshare-backend/internal/conf"
	"github.com/studyshare/studyshare-backend/internal/pkg/cloudinary"
	"github.com/studyshare/studyshare-backend/internal/pkg/database"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/minio"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
	rdata "github.com/studyshare/studyshare-backend/internal/resource/data"
)

// Data holds the shared infrastructure clients
type Data struct {
	DB      *database.DB
	Redis   *goredis.Client
	Storage biz.StorageService
}

// NewData connects the database, redis, and the configured storage backend.
// The returned cleanup closes everything in reverse order.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := db.AutoMigrate(&rdata.ResourcePO{}); err != nil {
		db.Close()
		return nil, nil, err
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     config.Redis.Addr(),
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	storage, err := newStorage(config, log)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, nil, err
	}

	d := &Data{
		DB:      db,
		Redis:   redisClient,
		Storage: storage,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		redisClient.Close()
		db.Close()
	}

	return d, cleanup, nil
}

func newStorage(config *conf.Config, log *logger.Logger) (biz.StorageService, error) {
	switch config.Storage.Provider {
	case conf.StorageProviderCloudinary:
		client, err := cloudinary.New(&config.Storage.Cloudinary, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init cloudinary: %w", err)
		}
		return rdata.NewCloudinaryStorage(client), nil

	case conf.StorageProviderMinIO:
		client, err := minio.NewClient(&config.Storage.MinIO, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio: %w", err)
		}
		if err := client.EnsureBucket(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		return rdata.NewMinIOStorage(client), nil

	default:
		return nil, fmt.Errorf("unknown storage provider %q", config.Storage.Provider)
	}
}
