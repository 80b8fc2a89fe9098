package minio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "access",
		SecretAccessKey: "secret",
		Bucket:          "studyshare",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }, true},
		{"missing access key", func(c *Config) { c.AccessKeyID = "" }, true},
		{"missing secret key", func(c *Config) { c.SecretAccessKey = "" }, true},
		{"missing bucket", func(c *Config) { c.Bucket = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestPublicURL(t *testing.T) {
	cfg := Config{
		Endpoint: "minio.internal:9000",
		Bucket:   "studyshare",
	}
	assert.Equal(t,
		"http://minio.internal:9000/studyshare/resources/a.pdf",
		cfg.PublicURL("resources/a.pdf"))

	cfg.UseSSL = true
	assert.Equal(t,
		"https://minio.internal:9000/studyshare/resources/a.pdf",
		cfg.PublicURL("resources/a.pdf"))
}
