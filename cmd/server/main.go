package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/a2a"
	"github.com/BerylCAtieno/event-ideas-agent/internal/catalog"
	"github.com/BerylCAtieno/event-ideas-agent/internal/config"
	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/logger"
	"github.com/BerylCAtieno/event-ideas-agent/internal/observability"
	"github.com/BerylCAtieno/event-ideas-agent/internal/ratelimit"
	"github.com/BerylCAtieno/event-ideas-agent/internal/web"
	"github.com/BerylCAtieno/event-ideas-agent/internal/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file (default: ./config.yaml or ./configs/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal("product catalog unavailable", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	log.Info("product catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("products", cat.Len()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geminiClient, err := llm.NewGeminiClient(ctx, llm.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		SearchModel: cfg.Gemini.SearchModel,
	})
	if err != nil {
		log.Fatal("failed to create Gemini client", zap.Error(err))
	}
	defer geminiClient.Close()

	metrics := observability.New()

	opts := []workflow.Option{
		workflow.WithLogger(log),
		workflow.WithMetrics(metrics),
		workflow.WithLinkConcurrency(cfg.Workflow.LinkConcurrency),
	}
	if cfg.Workflow.Seed != 0 {
		opts = append(opts, workflow.WithSeed(cfg.Workflow.Seed))
	}
	orchestrator := workflow.New(cat, geminiClient, opts...)

	a2aHandler := a2a.NewA2AHandler(orchestrator, log)
	webHandler := web.NewHandler(orchestrator, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), a2a.RequestLoggingMiddleware(log.Named("http")), corsMiddleware(cfg.Server.CORSOrigins))
	router.SetHTMLTemplate(web.Templates())

	// Endpoints
	router.GET("/.well-known/agent.json", a2aHandler.ServeAgentCard)
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	webHandler.RegisterIndex(router)

	generate := router.Group("/", requestTimeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiting will let requests through until it recovers",
				zap.String("addr", cfg.RateLimit.RedisAddr), zap.Error(err))
		}
		limiter := ratelimit.New(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		generate.Use(ratelimit.Middleware(limiter, metrics, log.Named("ratelimit")))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window))
	}
	webHandler.RegisterSubmit(generate)
	generate.POST("/a2a/ideas", a2aHandler.HandleIdeas)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Event Ideas Agent starting", zap.String("port", cfg.Server.Port))
		log.Info("Agent card available", zap.String("url", fmt.Sprintf("http://localhost:%s/.well-known/agent.json", cfg.Server.Port)))
		log.Info("A2A endpoint available", zap.String("url", fmt.Sprintf("http://localhost:%s/a2a/ideas", cfg.Server.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// requestTimeout bounds each workflow run. Cancellation reaches every model
// call through the request context.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// corsMiddleware lets browser-based A2A clients reach the agent. "*" allows
// any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
