package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	_ "go.uber.org/automaxprocs"

	"github.com/demoforge/demo-orchestrator/internal/auth"
	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/deploy"
	"github.com/demoforge/demo-orchestrator/internal/deps"
	"github.com/demoforge/demo-orchestrator/internal/gateway"
	"github.com/demoforge/demo-orchestrator/internal/metrics"
	"github.com/demoforge/demo-orchestrator/internal/orchestration"
	"github.com/demoforge/demo-orchestrator/internal/provider"
	"github.com/demoforge/demo-orchestrator/internal/store"

	_ "github.com/demoforge/demo-orchestrator/docs" // swagger docs
)

// @title Demo Orchestrator API
// @version 1.0
// @description AI-powered demo generation pipeline.
// @description
// @description Turns a short use-case description into a deployed interactive demo:
// @description narrative enhancement, UI component generation, dependency install and
// @description deployment into a target project, with offline fallback when providers
// @description are unavailable.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	demoStore, err := store.Open(ctx, cfg.StoreDSN)
	if err != nil {
		log.Fatalf("Failed to open demo store: %v", err)
	}
	defer demoStore.Close()

	pipelineMetrics, err := metrics.NewPipelineMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	enhancer := provider.NewEnhancer(cfg)
	generator := provider.NewComponentGenerator(cfg)
	log.Printf(`{"level":"info","message":"Providers selected","enhancer":"%s","generator":"%s"}`, enhancer.Name(), generator.Name())

	resolver := deps.NewResolver(cfg.InstallTimeout)
	deployer := deploy.NewDeployer(cfg.TargetProjectDir)

	service := orchestration.NewService(demoStore, enhancer, generator, resolver, deployer, pipelineMetrics, cfg.TargetProjectDir)

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize JWT manager: %v", err)
	}

	handler := gateway.NewHandler(service, demoStore, jwtManager, cfg.OperatorEmail, cfg.OperatorPasswordHash, cfg.ReleaseMode)
	streamer := gateway.NewProgressStreamer(service)
	limiter := gateway.NewRateLimiter(cfg.GeneralRateLimit, cfg.GenerationRateLimit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(structuredLoggingMiddleware())
	router.Use(limiter.Middleware())

	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.POST("/auth/token", handler.IssueToken)

	// Generation routes accept an optional bearer token to stamp ownership.
	generation := router.Group("")
	generation.Use(auth.OptionalAuth(jwtManager))
	generation.POST("/generate-demo-enhanced", handler.GenerateDemoEnhanced)
	generation.POST("/generate-demo", handler.GenerateDemo)
	generation.POST("/preview-ai-enhancements", handler.PreviewEnhancements)

	router.GET("/demos/:demoId", handler.GetDemo)
	router.GET("/demos/:demoId/progress", handler.GetProgress)
	router.GET("/demos/:demoId/stream", streamer.StreamProgress)

	// Operator routes require a bearer token.
	operator := router.Group("")
	operator.Use(auth.RequireAuth(jwtManager))
	operator.GET("/costs", handler.GetCosts)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // synchronous pipeline runs include npm install
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Demo Orchestrator API server on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let in-flight async pipelines reach a terminal state.
	if err := service.Drain(shutdownCtx); err != nil {
		log.Printf(`{"level":"warn","message":"Drain timed out","error":"%v"}`, err)
	}

	log.Println("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}

// structuredLoggingMiddleware provides structured JSON logging for all requests
func structuredLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		userID, _ := c.Get("user_id")

		logEntry := map[string]interface{}{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if userID != nil {
			logEntry["user_id"] = userID
		}

		if len(c.Errors) > 0 {
			logEntry["errors"] = c.Errors.String()
		}

		logJSON, _ := json.Marshal(logEntry)
		log.Println(string(logJSON))
	}
}
