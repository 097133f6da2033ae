package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/cms"
	"github.com/Yosolita1978/Nouvie-web/internal/handlers"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/config"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/observability"
	"github.com/Yosolita1978/Nouvie-web/internal/pricing"
	"github.com/Yosolita1978/Nouvie-web/internal/products"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("web")
	if err := run(cfg, logger); err != nil {
		logger.Fatal("web server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := observability.WithLogger(context.Background(), logger)

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, closeStore, err := pricing.Open(ctx, cfg, logger.Named("pricing"))
	if err != nil {
		return fmt.Errorf("open pricing store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("pricing store close error", zap.Error(err))
		}
	}()

	views, err := newRenderer(cfg.Server.TemplatesDir, cfg.Server.DevMode)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	contentTTL := cfg.Server.ContentTTL
	if cfg.Server.DevMode {
		contentTTL = 0
	}

	a := &app{
		site: handlers.NewSite(cfg.Site, time.Now()),
		products: products.NewService(cat, store,
			products.WithLogger(logger.Named("products")),
			products.WithPricingTimeout(cfg.Pricing.Timeout),
			products.WithFuzzyMatch(cfg.Pricing.FuzzyMatch),
		),
		content:   cms.NewClient(cfg.Server.ContentDir, cms.WithCacheTTL(contentTTL)),
		views:     views,
		publicDir: cfg.Server.PublicDir,
		now:       time.Now,
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newRouter(a, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	serveErr := make(chan error, 1)
	go func() {
		serverLogger.Info("nouvie web listening",
			zap.Bool("dev_mode", cfg.Server.DevMode),
			zap.String("pricing_driver", cfg.Pricing.Driver),
			zap.Int("products", cat.Len()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-shutdown:
	}
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
