package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyshare/studyshare-backend/internal/conf"
	"github.com/studyshare/studyshare-backend/internal/data"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/workerpool"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
	rdata "github.com/studyshare/studyshare-backend/internal/resource/data"
	rservice "github.com/studyshare/studyshare-backend/internal/resource/service"
	"github.com/studyshare/studyshare-backend/internal/server"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	pool, err := workerpool.New(&workerpool.Config{Workers: config.Worker.Workers}, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize worker pool", zap.Error(err))
	}
	defer pool.Shutdown()

	resourceRepo := rdata.NewResourceRepo(d.DB)
	resourceUseCase := biz.NewResourceUseCase(resourceRepo, d.Storage, biz.UploadPolicy{
		MaxSize:      config.Upload.MaxSizeBytes(),
		AllowedTypes: config.Upload.AllowedTypes,
	}, log)
	resourceService := rservice.NewResourceService(resourceUseCase, pool, log)

	httpServer := server.NewHTTPServer(config, log, d, resourceService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
