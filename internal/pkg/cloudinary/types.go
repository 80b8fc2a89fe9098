package cloudinary

import "strings"

// Resource types understood by the upload and destroy endpoints.
const (
	ResourceTypeImage = "image"
	ResourceTypeRaw   = "raw"
)

// UploadParams describes one file upload
type UploadParams struct {
	// FileName is the original client filename, used to derive the public ID
	FileName string

	// ContentType is the MIME type of the file
	ContentType string

	// Data is the file content
	Data []byte
}

// UploadResult is the subset of the upload response the application uses
type UploadResult struct {
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	SecureURL    string `json:"secure_url"`
	URL          string `json:"url"`
	Bytes        int64  `json:"bytes"`
	Format       string `json:"format"`
	Version      int64  `json:"version"`
}

// DestroyResult is the response of a destroy call
type DestroyResult struct {
	Result string `json:"result"` // "ok" or "not found"
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ResourceTypeFor maps a MIME type to the delivery pipeline it is stored
// under. Documents and archives go through the raw pipeline so they are
// served verbatim; everything else is treated as an image.
func ResourceTypeFor(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return ResourceTypeImage
	}
	return ResourceTypeRaw
}

// PublicIDFor derives the public ID for a filename: the extension is
// dropped so delivery URLs stay clean.
func PublicIDFor(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}
