// Package main initializes and starts the portfolio API server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and the background asset reaper.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/db"
	"github.com/atinyakov/baristafolio/internal/imagehost"
	"github.com/atinyakov/baristafolio/internal/logger"
	"github.com/atinyakov/baristafolio/internal/mailer"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/repository"
	"github.com/atinyakov/baristafolio/internal/server/handler/http"
	"github.com/atinyakov/baristafolio/internal/service"
	"github.com/atinyakov/baristafolio/internal/session"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	shutdownTimeout = 10 * time.Second
	reaperBatch     = 50
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	sessions, err := session.NewManager(options.Session.Secret, options.Session.TTL)
	if err != nil {
		zapLogger.Fatal("cannot init sessions", zap.Error(err))
	}

	images := newImageHost(ctx, options.Storage, zapLogger)

	mail, err := mailer.New(options.SMTP, options.Site, mailer.NewSMTPTransport(options.SMTP), zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init mailer", zap.Error(err))
	}
	if options.SMTP.User == "" {
		zapLogger.Warn("SMTP_USER not set, reply emails will be recorded as failed")
	}

	// Start retrying image deletions that failed during replacements.
	db.StartAssetReaper(ctx, postgresDB, images, options.AssetReaperInterval, reaperBatch, zapLogger)

	// Initialize repositories.
	assetQueue := repository.NewPostgresAssetQueue(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(repository.NewPostgresAdminRepository(postgresDB), sessions, options.Admin, zapLogger)
	certificateService := service.NewCertificateService(repository.NewPostgresCertificateRepository(postgresDB), images, assetQueue, zapLogger)
	galleryService := service.NewGalleryService(repository.NewPostgresGalleryRepository(postgresDB), images, assetQueue, zapLogger)
	messageService := service.NewMessageService(repository.NewPostgresMessageRepository(postgresDB), mail, zapLogger)
	analyticsService := service.NewAnalyticsService(repository.NewPostgresAnalyticsRepository(postgresDB))

	// Create HTTP handlers.
	handlers := http.Handlers{
		Skills: &http.ContentHandler[models.Skill, models.SkillPatch]{
			Service: service.NewSkillService(repository.NewPostgresSkillRepository(postgresDB)),
			Labels:  http.Labels{Singular: "skill", Plural: "skills", Title: "Skill"},
			Log:     zapLogger,
		},
		Courses: &http.ContentHandler[models.Course, models.CoursePatch]{
			Service: service.NewCourseService(repository.NewPostgresCourseRepository(postgresDB)),
			Labels:  http.Labels{Singular: "course", Plural: "courses", Title: "Course"},
			Log:     zapLogger,
		},
		Career: &http.ContentHandler[models.Career, models.CareerPatch]{
			Service: service.NewCareerService(repository.NewPostgresCareerRepository(postgresDB)),
			Labels:  http.Labels{Singular: "career item", Plural: "career", Title: "Career item"},
			Log:     zapLogger,
		},
		Videos: &http.ContentHandler[models.Video, models.VideoPatch]{
			Service: service.NewVideoService(repository.NewPostgresVideoRepository(postgresDB)),
			Labels:  http.Labels{Singular: "video", Plural: "videos", Title: "Video"},
			Log:     zapLogger,
		},
		Certificates: &http.CertificateHandler{Service: certificateService, MaxUploadBytes: options.MaxUploadBytes, Log: zapLogger},
		Gallery:      &http.GalleryHandler{Service: galleryService, MaxUploadBytes: options.MaxUploadBytes, Log: zapLogger},
		Messages:     &http.MessageHandler{Service: messageService, Log: zapLogger},
		Analytics:    &http.AnalyticsHandler{Service: analyticsService, Log: zapLogger},
		Auth:         &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Health:       http.Health(postgresDB, zapLogger),
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(handlers, sessions, http.RouterOptions{
		AllowedOrigins:   options.AllowedOrigins,
		ContactRateLimit: options.ContactRateLimit,
		TrustProxy:       options.TrustProxy,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", options.TLSCertFile != ""))
		if options.TLSCertFile != "" {
			errCh <- server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newImageHost connects to the object store, or returns a host that
// rejects every call when storage is not configured.
func newImageHost(ctx context.Context, cfg config.StorageOptions, log *zap.Logger) imagehost.Host {
	if cfg.Endpoint == "" {
		log.Warn("STORAGE_ENDPOINT not set, image uploads are disabled")
		return imagehost.Unconfigured{}
	}
	host, client, err := imagehost.NewMinio(cfg)
	if err != nil {
		log.Fatal("cannot init image storage", zap.Error(err))
	}
	if err := imagehost.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		log.Fatal("cannot prepare image bucket", zap.Error(err))
	}
	return imagehost.NewGuarded(host, log)
}
