package helpers

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/demoforge/demo-orchestrator/internal/auth"
	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/deploy"
	"github.com/demoforge/demo-orchestrator/internal/deps"
	"github.com/demoforge/demo-orchestrator/internal/gateway"
	"github.com/demoforge/demo-orchestrator/internal/metrics"
	"github.com/demoforge/demo-orchestrator/internal/orchestration"
	"github.com/demoforge/demo-orchestrator/internal/provider"
	"github.com/demoforge/demo-orchestrator/internal/store"
)

// OperatorEmail and OperatorPassword are the test operator credential.
const (
	OperatorEmail    = "ops@example.com"
	OperatorPassword = "test-password-123"
)

// TestEnvironment wires the full service stack against an isolated in-memory
// store, offline providers, and a scaffolded target project.
type TestEnvironment struct {
	Router     *gin.Engine
	Service    *orchestration.Service
	Store      store.DemoStore
	JWTManager *auth.JWTManager
	TargetDir  string
}

// NewTestEnvironment builds the stack the way cmd/api does, minus rate
// limiting so tests are not budget-sensitive.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	gin.SetMode(gin.TestMode)

	targetDir := ScaffoldTargetProject(t)

	demoStore, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = demoStore.Close() })

	cfg := &config.Config{FallbackEnabled: true}
	enhancer := provider.NewEnhancer(cfg)
	generator := provider.NewComponentGenerator(cfg)

	pm, err := metrics.NewPipelineMetrics()
	require.NoError(t, err)

	service := orchestration.NewService(
		demoStore,
		enhancer,
		generator,
		deps.NewResolver(0),
		deploy.NewDeployer(targetDir),
		pm,
		targetDir,
	)

	jwtManager, err := auth.NewJWTManager("integration-test-secret")
	require.NoError(t, err)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(OperatorPassword), bcrypt.MinCost)
	require.NoError(t, err)

	handler := gateway.NewHandler(service, demoStore, jwtManager, OperatorEmail, string(passwordHash), false)
	streamer := gateway.NewProgressStreamer(service)

	router := gin.New()
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.POST("/auth/token", handler.IssueToken)

	generation := router.Group("")
	generation.Use(auth.OptionalAuth(jwtManager))
	generation.POST("/generate-demo-enhanced", handler.GenerateDemoEnhanced)
	generation.POST("/generate-demo", handler.GenerateDemo)
	generation.POST("/preview-ai-enhancements", handler.PreviewEnhancements)

	router.GET("/demos/:demoId", handler.GetDemo)
	router.GET("/demos/:demoId/progress", handler.GetProgress)
	router.GET("/demos/:demoId/stream", streamer.StreamProgress)

	operator := router.Group("")
	operator.Use(auth.RequireAuth(jwtManager))
	operator.GET("/costs", handler.GetCosts)

	return &TestEnvironment{
		Router:     router,
		Service:    service,
		Store:      demoStore,
		JWTManager: jwtManager,
		TargetDir:  targetDir,
	}
}
