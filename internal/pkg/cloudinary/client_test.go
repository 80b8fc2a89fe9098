package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	log, err := logger.New(&logger.Config{
		Level:  "debug",
		Format: "json",
		Output: "console",
	})
	require.NoError(t, err)
	return log
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				CloudName: "demo",
				APIKey:    "key",
				APISecret: "secret",
			},
			wantErr: false,
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "missing cloud name",
			config: &Config{
				APIKey:    "key",
				APISecret: "secret",
			},
			wantErr: true,
		},
		{
			name: "missing api secret",
			config: &Config{
				CloudName: "demo",
				APIKey:    "key",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config, testLogger(t))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestSignParams(t *testing.T) {
	// SHA-1 of "public_id=sample&timestamp=1315060510" + "abcd"
	sig := SignParams(map[string]string{
		"timestamp": "1315060510",
		"public_id": "sample",
	}, "abcd")

	assert.Equal(t, "c3470533147774275dd37996cc4d0e68fd03cd4f", sig)

	// Parameter order must not matter
	sig2 := SignParams(map[string]string{
		"public_id": "sample",
		"timestamp": "1315060510",
	}, "abcd")
	assert.Equal(t, sig, sig2)
}

func TestUpload(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.NotEmpty(t, r.FormValue("signature"))
		assert.NotEmpty(t, r.FormValue("timestamp"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "calc-notes", r.FormValue("public_id"))

		json.NewEncoder(w).Encode(UploadResult{
			PublicID:     "resources/calc-notes",
			ResourceType: "raw",
			SecureURL:    "https://res.cloudinary.com/demo/raw/upload/v1/resources/calc-notes.pdf",
			Bytes:        4,
		})
	}))
	defer server.Close()

	client, err := New(&Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "resources",
		BaseURL:   server.URL,
	}, testLogger(t))
	require.NoError(t, err)

	result, err := client.Upload(context.Background(), &UploadParams{
		FileName:    "calc-notes.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/demo/raw/upload", gotPath)
	assert.Equal(t, "resources/calc-notes", result.PublicID)
	assert.Contains(t, result.SecureURL, "cloudinary.com")
}

func TestUploadAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer server.Close()

	client, err := New(&Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   server.URL,
	}, testLogger(t))
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), &UploadParams{
		FileName:    "broken.png",
		ContentType: "image/png",
		Data:        []byte("not a png"),
	})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid image file")
}

func TestDestroy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/raw/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "resources/calc-notes", r.FormValue("public_id"))

		json.NewEncoder(w).Encode(DestroyResult{Result: "ok"})
	}))
	defer server.Close()

	client, err := New(&Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   server.URL,
	}, testLogger(t))
	require.NoError(t, err)

	assert.NoError(t, client.Destroy(context.Background(), ResourceTypeRaw, "resources/calc-notes"))
}

func TestDestroyNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DestroyResult{Result: "not found"})
	}))
	defer server.Close()

	client, err := New(&Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   server.URL,
	}, testLogger(t))
	require.NoError(t, err)

	err = client.Destroy(context.Background(), ResourceTypeRaw, "resources/missing")
	assert.True(t, IsNotFound(err))
}

func TestResourceTypeFor(t *testing.T) {
	assert.Equal(t, ResourceTypeImage, ResourceTypeFor("image/png"))
	assert.Equal(t, ResourceTypeImage, ResourceTypeFor("image/jpeg"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("application/pdf"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("text/plain"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("application/zip"))
}

func TestPublicIDFor(t *testing.T) {
	assert.Equal(t, "calc-notes", PublicIDFor("calc-notes.pdf"))
	assert.Equal(t, "archive.tar", PublicIDFor("archive.tar.gz"))
	assert.Equal(t, "README", PublicIDFor("README"))
	assert.Equal(t, ".env", PublicIDFor(".env"))
}
