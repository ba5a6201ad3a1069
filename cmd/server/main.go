package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/relink-dev/relink/internal/analytics"
	"github.com/relink-dev/relink/internal/cache"
	"github.com/relink-dev/relink/internal/config"
	"github.com/relink-dev/relink/internal/db"
	"github.com/relink-dev/relink/internal/geo"
	"github.com/relink-dev/relink/internal/handlers"
	"github.com/relink-dev/relink/internal/rate"
	"github.com/relink-dev/relink/internal/shortener"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	resolver, err := geo.NewResolver(cfg.GeoIPPath, cfg.LookupURL, cfg.LookupTimeout)
	if err != nil {
		logger.Warn("geoip database unavailable, using network lookup only", zap.Error(err))
		resolver, _ = geo.NewResolver("", cfg.LookupURL, cfg.LookupTimeout)
	}
	defer resolver.Close()

	linkCache, err := cache.New(cfg.CacheSize)
	if err != nil {
		logger.Fatal("cache", zap.Error(err))
	}

	collector := analytics.NewCollector(database, resolver, logger, cfg.BufferSize)
	limiter := rate.NewLimiter(cfg.RateLimit, cfg.RateWindow)
	svc := shortener.New(database, cfg.BaseURL)

	linkHandler := &handlers.LinkHandler{Svc: svc, Log: logger}
	redirectHandler := &handlers.RedirectHandler{
		Svc:       svc,
		Cache:     linkCache,
		Collector: collector,
		Log:       logger,
	}

	router := handlers.Router(linkHandler, redirectHandler, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: chimiddleware.Logger(chimiddleware.Recoverer(router)),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}

	collector.Shutdown()
	logger.Info("goodbye")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
