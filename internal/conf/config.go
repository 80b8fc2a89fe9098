package conf

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/studyshare/studyshare-backend/internal/pkg/cloudinary"
	"github.com/studyshare/studyshare-backend/internal/pkg/database"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/minio"
)

const (
	StorageProviderCloudinary = "cloudinary"
	StorageProviderMinIO      = "minio"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Redis    RedisConfig     `mapstructure:"redis"`
	Storage  StorageConfig   `mapstructure:"storage"`
	Upload   UploadConfig    `mapstructure:"upload"`
	Auth     AuthConfig      `mapstructure:"auth"`
	CORS     CORSConfig      `mapstructure:"cors"`
	Log      logger.Config   `mapstructure:"log"`
	Worker   WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects the object storage backend files are uploaded to.
// Provider is "cloudinary" (default) or "minio".
type StorageConfig struct {
	Provider   string            `mapstructure:"provider"`
	Cloudinary cloudinary.Config `mapstructure:"cloudinary"`
	MinIO      minio.Config      `mapstructure:"minio"`
}

func (c *StorageConfig) Validate() error {
	switch c.Provider {
	case StorageProviderCloudinary:
		return c.Cloudinary.Validate()
	case StorageProviderMinIO:
		return c.MinIO.Validate()
	default:
		return fmt.Errorf("unknown storage provider %q", c.Provider)
	}
}

// UploadConfig bounds what callers may upload
type UploadConfig struct {
	MaxSizeMB    int      `mapstructure:"max_size_mb"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// MaxSizeBytes returns the upload size limit in bytes
func (c *UploadConfig) MaxSizeBytes() int64 {
	return int64(c.MaxSizeMB) * 1024 * 1024
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type WorkerConfig struct {
	Workers int `mapstructure:"workers"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("STUDYSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Storage.Cloudinary.SetDefaults()
	config.Storage.MinIO.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("storage.provider", StorageProviderCloudinary)

	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.allowed_types", []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"image/jpeg",
		"image/png",
		"text/plain",
	})

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")

	v.SetDefault("worker.workers", 16)
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload.max_size_mb must be positive")
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	return nil
}
