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

	"github.com/bayoudata/houston-intel/internal/config"
	openaiEnr "github.com/bayoudata/houston-intel/internal/enrichment/openai"
	logpkg "github.com/bayoudata/houston-intel/internal/logger"
	"github.com/bayoudata/houston-intel/internal/metrics"
	"github.com/bayoudata/houston-intel/internal/repository/knowledge"
	"github.com/bayoudata/houston-intel/internal/repository/respcache"
	chiTransport "github.com/bayoudata/houston-intel/internal/transport/chi"
	analyzeuc "github.com/bayoudata/houston-intel/internal/usecase/analyze"
	healthuc "github.com/bayoudata/houston-intel/internal/usecase/health"
	searchuc "github.com/bayoudata/houston-intel/internal/usecase/search"
	"github.com/bayoudata/houston-intel/internal/version"
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

	logger.Info("Starting houston-intel API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("knowledge_base_path", cfg.Knowledge.BasePath),
	)

	// Register collectors explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterKnowledgeMetrics()

	store := knowledge.New(knowledge.Config{
		BasePath:      cfg.Knowledge.BasePath,
		CacheTTL:      time.Duration(cfg.Knowledge.CacheTTLSec) * time.Second,
		VocabularyCap: cfg.Search.VocabularyCap,
	}, logger)

	searchSvc := searchuc.New(store, logger).WithMinRelevance(cfg.Search.MinRelevance)
	analyzer := analyzeuc.New(searchSvc, logger).WithTopK(cfg.Search.DefaultTopK)

	// Optional AI enrichment — the analysis is complete without it.
	if cfg.Enrichment.APIKey != "" {
		enricher := openaiEnr.New(&openaiEnr.Config{
			APIKey:      cfg.Enrichment.APIKey,
			BaseURL:     cfg.Enrichment.BaseURL,
			Model:       cfg.Enrichment.Model,
			Provider:    cfg.Enrichment.Provider,
			MaxInsights: cfg.Enrichment.MaxInsights,
			Logger:      logger,
		})
		analyzer = analyzer.WithEnrichers(enricher)
		logger.Info("Enrichment enabled", zap.String("model", cfg.Enrichment.Model))
	}

	// Optional Redis response cache.
	// Pass nil interface (not typed nil pointer!) when the cache is off.
	var respCacheIface chiTransport.ResponseCache
	var cachePinger healthuc.CachePinger
	if len(cfg.Cache.Addrs) > 0 {
		cache, cerr := respcache.New(
			cfg.Cache.Addrs, cfg.Cache.Password,
			time.Duration(cfg.Cache.TTLSec)*time.Second, logger,
		)
		if cerr != nil {
			logger.Fatal("Failed to create response cache", zap.Error(cerr))
		}
		defer cache.Close()
		respCacheIface = cache
		cachePinger = cache
		logger.Info("Response cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	healthSvc := healthuc.New(store, cachePinger)

	// Warm the knowledge caches so the first query does not pay the load.
	go func() {
		ctx := logpkg.ContextWithLogger(context.Background(), logger)
		for _, d := range store.Domains() {
			records := store.LoadDomain(ctx, d, false)
			logger.Info("Domain warmed", zap.String("domain", d), zap.Int("records", len(records)))
		}
	}()

	server := chiTransport.NewServer(
		analyzer, searchSvc, store, respCacheIface, healthSvc, logger,
		cfg.Search.DefaultTopK, cfg.Search.MaxTopK,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
						"code":    "internal_error",
						"message": "internal error",
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
