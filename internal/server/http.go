package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyshare/studyshare-backend/internal/auth"
	"github.com/studyshare/studyshare-backend/internal/auth/middleware"
	"github.com/studyshare/studyshare-backend/internal/conf"
	"github.com/studyshare/studyshare-backend/internal/data"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/response"
	rservice "github.com/studyshare/studyshare-backend/internal/resource/service"
	"go.uber.org/zap"
)

// HTTPServer is the HTTP front of the application
type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer builds the router and wires the resource routes behind
// auth and rate limiting.
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	d *data.Data,
	resourceService *rservice.ResourceService,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK
		if err := d.DB.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	verifier := auth.NewVerifier(config.Auth.JWTSecret, config.Auth.JWTIssuer)
	authRequired := middleware.RequireAuth(verifier, log)

	api := router.Group("/api/v1")
	api.Use(middleware.APIRateLimiter(d.Redis, log))
	resourceService.RegisterRoutes(api, authRequired, rservice.RouteLimits{
		Upload:   middleware.UploadRateLimiter(d.Redis, log),
		Download: middleware.DownloadRateLimiter(d.Redis, log),
	})

	return &HTTPServer{
		server: &http.Server{
			Addr:    config.Server.Addr(),
			Handler: router,
		},
		logger: log,
	}
}

// Start runs the server until it is shut down
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully shuts the server down
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// LoggerMiddleware logs one line per request
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
