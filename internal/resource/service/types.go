package service

import (
	"time"

	"github.com/studyshare/studyshare-backend/internal/resource/biz"
)

// ResourceResponse is the catalog projection of one resource. The storage
// id stays internal.
type ResourceResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Subject       string `json:"subject"`
	Category      string `json:"category"`
	FileURL       string `json:"fileUrl"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
	FileSize      int64  `json:"fileSize"`
	UploaderID    string `json:"uploaderId"`
	UploaderName  string `json:"uploaderName"`
	DownloadCount int64  `json:"downloadCount"`
	CreatedAt     string `json:"createdAt"`
}

func toResourceResponse(r *biz.Resource) ResourceResponse {
	return ResourceResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Subject:       r.Subject,
		Category:      string(r.Category),
		FileURL:       r.FileURL,
		FileName:      r.FileName,
		FileType:      r.FileType,
		FileSize:      r.FileSize,
		UploaderID:    r.UploaderID,
		UploaderName:  r.UploaderName,
		DownloadCount: r.DownloadCount,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func toResourceResponses(resources []*biz.Resource) []ResourceResponse {
	out := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		out[i] = toResourceResponse(r)
	}
	return out
}
