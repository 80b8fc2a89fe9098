package service

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyshare/studyshare-backend/internal/auth/middleware"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/response"
	"github.com/studyshare/studyshare-backend/internal/pkg/workerpool"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
	"go.uber.org/zap"
)

// ResourceService is the HTTP surface of the resource lifecycle
type ResourceService struct {
	useCase *biz.ResourceUseCase
	pool    *workerpool.Pool
	logger  *logger.Logger
}

// NewResourceService creates a resource service
func NewResourceService(useCase *biz.ResourceUseCase, pool *workerpool.Pool, log *logger.Logger) *ResourceService {
	return &ResourceService{
		useCase: useCase,
		pool:    pool,
		logger:  log,
	}
}

// RouteLimits carries the optional per-route throttles. Nil entries are
// skipped, so tests can run without redis.
type RouteLimits struct {
	Upload   gin.HandlerFunc
	Download gin.HandlerFunc
}

// RegisterRoutes mounts the resource routes on the API group. Routes that
// mutate state or expose download URLs sit behind the auth middleware.
func (s *ResourceService) RegisterRoutes(api *gin.RouterGroup, authRequired gin.HandlerFunc, limits RouteLimits) {
	resources := api.Group("/resources")
	{
		resources.GET("", s.ListResources)
		resources.GET("/:id", s.GetResource)
		resources.PUT("/:id/download", handlers(limits.Download, s.RecordDownload)...)

		resources.POST("/upload", handlers(authRequired, limits.Upload, s.UploadResource)...)
		resources.GET("/:id/download-url", handlers(authRequired, limits.Download, s.GetDownloadURL)...)
		resources.DELETE("/:id", authRequired, s.DeleteResource)
	}

	// the caller's own uploads; a sibling of /resources so the listing does
	// not collide with the /resources/:id parameter route
	api.GET("/uploads", authRequired, s.ListMyUploads)
}

func handlers(h ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(h))
	for _, fn := range h {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// UploadResource handles POST /resources/upload
func (s *ResourceService) UploadResource(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "no file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "unable to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	view, err := s.useCase.Upload(c.Request.Context(), biz.Uploader{
		ID:   identity.ID,
		Name: identity.DisplayName(),
	}, &biz.CreateResourceRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Subject:     c.PostForm("subject"),
		Category:    c.PostForm("category"),
		File: &biz.UploadRequest{
			FileName:    fileHeader.Filename,
			ContentType: contentType,
			Data:        data,
		},
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, gin.H{
		"id":        view.ID,
		"title":     view.Title,
		"fileUrl":   view.FileURL,
		"createdAt": view.CreatedAt.Format(time.RFC3339),
	})
}

// ListResources handles GET /resources
func (s *ResourceService) ListResources(c *gin.Context) {
	resources, err := s.useCase.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, gin.H{
		"count":     len(resources),
		"resources": toResourceResponses(resources),
	})
}

// ListMyUploads handles GET /uploads
func (s *ResourceService) ListMyUploads(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	resources, err := s.useCase.ListByUploader(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, gin.H{
		"count":     len(resources),
		"resources": toResourceResponses(resources),
	})
}

// GetResource handles GET /resources/:id
func (s *ResourceService) GetResource(c *gin.Context) {
	resource, err := s.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, gin.H{"resource": toResourceResponse(resource)})
}

// RecordDownload handles PUT /resources/:id/download: the explicit
// accounting endpoint where increment failures propagate to the caller.
func (s *ResourceService) RecordDownload(c *gin.Context) {
	resource, err := s.useCase.RecordDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, gin.H{
		"downloadCount": resource.DownloadCount,
		"resource":      toResourceResponse(resource),
	})
}

// GetDownloadURL handles GET /resources/:id/download-url. The download
// counter is bumped off the request path; a failed increment never stops
// the caller from getting their file.
func (s *ResourceService) GetDownloadURL(c *gin.Context) {
	id := c.Param("id")

	target, err := s.useCase.ResolveDownloadURL(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := s.pool.SubmitWithTimeout(10*time.Second, func(ctx context.Context) {
		if _, err := s.useCase.RecordDownload(ctx, id); err != nil {
			s.logger.Warn("background download count failed",
				zap.String("resource_id", id),
				zap.Error(err))
		}
	}); err != nil {
		s.logger.Warn("could not schedule download count",
			zap.String("resource_id", id),
			zap.Error(err))
	}

	response.OK(c, gin.H{
		"downloadUrl": target.DownloadURL,
		"fileName":    target.FileName,
		"fileType":    target.FileType,
	})
}

// DeleteResource handles DELETE /resources/:id
func (s *ResourceService) DeleteResource(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := s.useCase.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "resource deleted"})
}
