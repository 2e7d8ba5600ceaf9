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

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/juris-cloud/lexidex/internal/config"
	dbRedis "github.com/juris-cloud/lexidex/internal/db/redis"
	logpkg "github.com/juris-cloud/lexidex/internal/logger"
	"github.com/juris-cloud/lexidex/internal/metrics"
	analyticsrepo "github.com/juris-cloud/lexidex/internal/repository/analytics"
	documentrepo "github.com/juris-cloud/lexidex/internal/repository/document"
	searchrepo "github.com/juris-cloud/lexidex/internal/repository/search"
	telemetryrepo "github.com/juris-cloud/lexidex/internal/repository/telemetry"
	chiTransport "github.com/juris-cloud/lexidex/internal/transport/chi"
	openaiEmb "github.com/juris-cloud/lexidex/internal/transport/openai"
	analyticsuc "github.com/juris-cloud/lexidex/internal/usecase/analytics"
	searchuc "github.com/juris-cloud/lexidex/internal/usecase/search"
	telemetryuc "github.com/juris-cloud/lexidex/internal/usecase/telemetry"
	"github.com/juris-cloud/lexidex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lexidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("telemetry_db_logging", cfg.Telemetry.EnableDBLogging),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	readyCtx := context.Background()
	readyTimeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(readyCtx, readyTimeout); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	pool, err := ants.NewPool(cfg.Telemetry.WorkerPoolSize)
	if err != nil {
		logger.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	prefix := cfg.Database.KeyPrefix
	backends := searchrepo.New(store, prefix)
	telemetryRepo := telemetryrepo.New(store, prefix)
	analyticsRepo := analyticsrepo.New(store, prefix)
	documentRepo := documentrepo.New(store, prefix)

	recorder := telemetryuc.New(telemetryRepo, pool, logger, cfg.Telemetry.EnableDBLogging)
	analyticsSvc := analyticsuc.New(analyticsRepo, documentRepo, pool, logger)
	searchSvc := searchuc.New(backends, backends, embedder, recorder, analyticsSvc, searchuc.Options{
		SemanticThreshold: cfg.Search.SemanticThreshold,
		HybridThreshold:   cfg.Search.HybridThreshold,
		DefaultWeight:     cfg.Search.SemanticWeight,
		DefaultLimit:      cfg.Search.DefaultLimit,
		MaxLimit:          cfg.Search.MaxLimit,
	})

	server := chiTransport.NewServer(searchSvc, recorder, analyticsSvc, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second,
	)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
