package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Client is an HTTP client for the Cloudinary upload API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *logger.Logger
}

// New creates a new Cloudinary client
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}, nil
}

// Upload stores a file and returns its delivery URL and public ID.
// The resource type is derived from the content type; documents go through
// the raw pipeline, images through the image pipeline.
func (c *Client) Upload(ctx context.Context, params *UploadParams) (*UploadResult, error) {
	if params == nil || len(params.Data) == 0 {
		return nil, ErrInvalidArgument
	}

	resourceType := ResourceTypeFor(params.ContentType)
	publicID := PublicIDFor(params.FileName)

	fields := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		"public_id": publicID,
	}
	if c.config.Folder != "" {
		fields["folder"] = c.config.Folder
	}
	fields["signature"] = SignParams(fields, c.config.APISecret)
	fields["api_key"] = c.config.APIKey

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", params.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(params.Data); err != nil {
		return nil, fmt.Errorf("write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	c.logger.Debug("cloudinary upload",
		zap.String("resource_type", resourceType),
		zap.String("public_id", publicID),
		zap.Int("size", len(params.Data)),
	)

	var result UploadResult
	if err := c.doRequest(ctx, "upload", resourceType, writer.FormDataContentType(), body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Destroy deletes a stored object by resource type and public ID
func (c *Client) Destroy(ctx context.Context, resourceType, publicID string) error {
	if publicID == "" {
		return ErrInvalidArgument
	}
	if resourceType == "" {
		resourceType = ResourceTypeImage
	}

	fields := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		"public_id": publicID,
	}
	fields["signature"] = SignParams(fields, c.config.APISecret)
	fields["api_key"] = c.config.APIKey

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	c.logger.Debug("cloudinary destroy",
		zap.String("resource_type", resourceType),
		zap.String("public_id", publicID),
	)

	var result DestroyResult
	err := c.doRequest(ctx, "destroy", resourceType, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), &result)
	if err != nil {
		return err
	}

	if result.Result == "not found" {
		return ErrObjectNotFound
	}

	return nil
}

// doRequest executes one API call and decodes the response
func (c *Client) doRequest(ctx context.Context, action, resourceType, contentType string, body io.Reader, result interface{}) error {
	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/%s", c.config.BaseURL, c.config.CloudName, resourceType, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("cloudinary request failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return &Error{Op: action, Err: err}
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(respData, &apiErr)
		return &Error{
			Op:         action,
			StatusCode: resp.StatusCode,
			Message:    apiErr.Error.Message,
		}
	}

	if err := json.Unmarshal(respData, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// SignParams computes the request signature: the SHA-1 hex digest of the
// sorted key=value parameter string concatenated with the API secret.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
