package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lexmerge/internal/config"
	"lexmerge/internal/docmerge"
	"lexmerge/internal/handler"
	"lexmerge/internal/middleware"
	"lexmerge/internal/parser"
	_ "lexmerge/internal/parser/claude"
	_ "lexmerge/internal/parser/gemini"
	_ "lexmerge/internal/parser/openai"
	"lexmerge/internal/port"
	"lexmerge/internal/repository/memory"
	"lexmerge/internal/router"
	"lexmerge/internal/service"
	s3storage "lexmerge/internal/storage/s3"
	"lexmerge/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize extraction provider(s)
	docParser, err := parser.Build(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize parser: %w", err)
	}
	log.Printf("Parser initialized (mode=%s, provider=%s)", cfg.Parser.Mode, cfg.Parser.PrimaryConfig().Provider)

	// Initialize template storage
	var storage port.ObjectStorage
	if cfg.Storage.Enabled() {
		storage, err = s3storage.NewS3Client(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("Template storage enabled (bucket=%s)", cfg.Storage.Bucket)
	} else {
		log.Printf("Template storage disabled")
	}

	engine := docmerge.NewEngine(docmerge.Options{
		Strict:       cfg.Merge.Strict,
		OutputPrefix: cfg.Merge.OutputPrefix,
		MaxPartBytes: cfg.Merge.MaxPartSizeMB * 1024 * 1024,
	})
	sessionStore := memory.NewSessionRepo()
	limits := service.UploadLimits{MaxFileBytes: cfg.Upload.MaxFileBytes(), MaxFiles: cfg.Upload.MaxFiles}

	// Initialize services
	sessionSvc := service.NewSessionService(sessionStore, engine, limits)
	extractionSvc := service.NewExtractionService(sessionStore, docParser, cfg.Parser.MaxConcurrent)
	templateSvc := service.NewTemplateService(storage, engine, &cfg.Storage)
	mergeSvc := service.NewMergeService(sessionStore, templateSvc, engine)
	exportSvc := service.NewExportService(sessionStore, cfg.Merge.ExportFileBase)
	reviewSvc := service.NewReviewService(sessionStore, validator.NewEngine(validator.DefaultRegistry()))

	// Background workers
	sweeper := service.NewSessionSweeper(sessionStore, cfg.Session.TTL, cfg.Session.SweepInterval)
	go sweeper.Start(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Every, cfg.RateLimit.Burst)
	go pruneLimiter(ctx, limiter, cfg.Session.SweepInterval)

	// Initialize handlers
	uploadLimits := handler.UploadLimits{MaxFileBytes: limits.MaxFileBytes, MaxFiles: limits.MaxFiles}
	r := router.Setup(router.Handlers{
		Health:     handler.NewHealthHandler(templateSvc.Enabled(), cfg.Parser.Mode),
		Session:    handler.NewSessionHandler(sessionSvc, uploadLimits),
		Extraction: handler.NewExtractionHandler(extractionSvc, uploadLimits),
		Merge:      handler.NewMergeHandler(mergeSvc, uploadLimits),
		Export:     handler.NewExportHandler(exportSvc),
		Template:   handler.NewTemplateHandler(templateSvc, uploadLimits),
		Review:     handler.NewReviewHandler(reviewSvc),
	}, cfg.CORS.AllowedOrigins, limiter)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Printf("Server stopped")
	return nil
}

// pruneLimiter drops rate limit state for clients idle longer than interval.
func pruneLimiter(ctx context.Context, limiter *middleware.RateLimiter, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(interval); n > 0 {
				log.Printf("rateLimiter: pruned %d idle client(s)", n)
			}
		}
	}
}
