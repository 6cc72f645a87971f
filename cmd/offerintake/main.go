package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/apelng/offerintake/internal/api"
	"github.com/apelng/offerintake/internal/assets"
	"github.com/apelng/offerintake/internal/config"
	"github.com/apelng/offerintake/internal/mailer"
	"github.com/apelng/offerintake/internal/render"
	"github.com/apelng/offerintake/internal/store"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 15 * time.Second

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zapCfg.Build()
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting public-offer intake service",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("addr", cfg.Address()))

	templateBytes, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		logger.Fatal("reading offer form template", zap.Error(err))
	}
	// Load once at startup so a broken template fails fast instead of on
	// the first submission.
	if _, err := render.LoadTemplate(templateBytes); err != nil {
		logger.Fatal("offer form template is not usable", zap.Error(err))
	}

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}

	renderer := render.NewRenderer(templateBytes, render.NewHTTPFetcher(render.DefaultFetchTimeout), logger)

	var uploader api.Uploader
	if cfg.UploaderConfigured() {
		client, err := assets.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			logger.Fatal("configuring asset uploads", zap.Error(err))
		}
		uploader = client
	} else {
		logger.Warn("cloudinary not configured, artifacts stay inline")
	}

	var notifier api.Notifier
	if cfg.MailerConfigured() {
		admins := mailer.ParseRecipients(cfg.AdminEmails, cfg.ExtraAdminEmails)
		support := mailer.SupportContacts{Email: cfg.SupportEmail, Phone: cfg.SupportPhone}
		m, err := mailer.New(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender,
			admins, support, cfg.AdminDashboardURL, logger)
		if err != nil {
			logger.Fatal("configuring mailer", zap.Error(err))
		}
		notifier = m
	} else {
		logger.Warn("mailgun not configured, submission emails disabled")
	}

	server := api.New(api.Options{
		Applications: store.NewApplications(db),
		Brokers:      store.NewStockbrokers(db),
		Admins:       store.NewAdmins(db),
		Renderer:     renderer,
		Uploader:     uploader,
		Notifier:     notifier,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOriginList(),
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- httpServer.ListenAndServe()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
