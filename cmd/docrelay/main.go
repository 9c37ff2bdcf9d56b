package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/config"
	"github.com/kailas-cloud/docrelay/internal/db"
	dbRedis "github.com/kailas-cloud/docrelay/internal/db/redis"
	logpkg "github.com/kailas-cloud/docrelay/internal/logger"
	"github.com/kailas-cloud/docrelay/internal/metrics"
	"github.com/kailas-cloud/docrelay/internal/repository/respcache"
	"github.com/kailas-cloud/docrelay/internal/repository/weaviate"
	chiTransport "github.com/kailas-cloud/docrelay/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/docrelay/internal/transport/openai"
	healthuc "github.com/kailas-cloud/docrelay/internal/usecase/health"
	relayuc "github.com/kailas-cloud/docrelay/internal/usecase/relay"
	"github.com/kailas-cloud/docrelay/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docrelay API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("vector_store", cfg.VectorStore.Endpoint),
		zap.String("class", cfg.VectorStore.Class),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register relay metrics explicitly (no init())
	metrics.RegisterRelayMetrics()

	// Vector store client
	store := weaviate.NewClient(&weaviate.Config{
		Endpoint: cfg.VectorStore.Endpoint,
		APIKey:   cfg.VectorStore.APIKey,
		Timeout:  time.Duration(cfg.VectorStore.TimeoutSec) * time.Second,
		Logger:   logger,
	})

	// Optional response cache backed by Redis
	var cacheStore db.Store
	if cfg.Cache.Enabled {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cacheStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to response cache")
	}

	// Relay service — composition root
	relaySvc := relayuc.New(store, cfg.VectorStore.Class, cfg.Generative.Template)

	if cacheStore != nil {
		cache := respcache.New(
			cacheStore,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.ResponseCacheTotal,
			logger,
		)
		relaySvc = relaySvc.WithCache(cache)
	}

	// Relay-side generation only for the openai provider; the weaviate
	// provider keeps generation inside the GraphQL query.
	if cfg.Generative.Provider == "openai" {
		gen := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:  cfg.Generative.APIKey,
			BaseURL: cfg.Generative.BaseURL,
			Model:   cfg.Generative.Model,
			Logger:  logger,
		})
		relaySvc = relaySvc.WithGenerator(gen)
		logger.Info("Relay-side generator created", zap.String("model", cfg.Generative.Model))
	}

	// Health service
	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(cachePinger, store)

	// Create chi server
	server := chiTransport.NewServer(relaySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Post("/search", server.Search)
	r.Get("/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
						"kind":  "InternalError",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
