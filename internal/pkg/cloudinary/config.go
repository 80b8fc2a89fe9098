package cloudinary

import (
	"errors"
	"time"
)

// Config represents the configuration for the Cloudinary client
type Config struct {
	// CloudName is the Cloudinary cloud identifier
	CloudName string `mapstructure:"cloud_name"`

	// APIKey is the API key for authentication
	APIKey string `mapstructure:"api_key"`

	// APISecret is the API secret used to sign requests
	APISecret string `mapstructure:"api_secret"`

	// Folder is the folder all uploads are placed under (optional)
	Folder string `mapstructure:"folder"`

	// BaseURL is the API endpoint, overridable for testing
	// Default: https://api.cloudinary.com
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the timeout for individual requests
	// Default: 60 seconds
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CloudName == "" {
		return errors.New("cloudinary: cloud name is required")
	}
	if c.APIKey == "" {
		return errors.New("cloudinary: api key is required")
	}
	if c.APISecret == "" {
		return errors.New("cloudinary: api secret is required")
	}
	return nil
}

// SetDefaults sets default values for unspecified configuration fields
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.cloudinary.com"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}
