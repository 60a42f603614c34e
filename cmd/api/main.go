package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/queue"
	"server/internal/service"
	"server/internal/storage"
	"server/internal/transcode"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewS3Store(ctx, storage.Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		UsePathStyle:    cfg.S3UsePathStyle,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object storage")
	}

	mediaRepo := repo.NewMediaRepository(dbpool)
	engine := transcode.NewEngine(store, logger)

	// One in-process queue, one consumer: transcoding is CPU-bound and jobs
	// are processed strictly in confirmation order.
	jobs := queue.New()
	worker := queue.NewWorker(jobs, mediaRepo, store, engine, logger)
	worker.Start()

	mediaService := service.NewMediaService(mediaRepo, store, engine, jobs, cfg.PresignExpiry, logger)

	app := handlers.NewApp(
		mediaService,
		repo.NewPostRepository(dbpool),
		repo.NewCategoryRepository(dbpool),
		repo.NewGalleryRepository(dbpool),
		repo.NewHomePageRepository(dbpool),
		logger,
	)

	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins, cfg.UploadRateLimitPerMin)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Queued jobs are abandoned on shutdown by design.
	jobs.Close()
	logger.Info().Msg("server stopped")
}
