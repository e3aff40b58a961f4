package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/demoforge/demo-orchestrator/internal/auth"
	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/deploy"
	"github.com/demoforge/demo-orchestrator/internal/deps"
	"github.com/demoforge/demo-orchestrator/internal/models"
	"github.com/demoforge/demo-orchestrator/internal/orchestration"
	"github.com/demoforge/demo-orchestrator/internal/provider"
	"github.com/demoforge/demo-orchestrator/internal/store"
)

const (
	testOperatorEmail    = "ops@example.com"
	testOperatorPassword = "test-password-123"
)

var validUseCase = models.UseCaseInput{
	Title:        "AI-Powered Customer Support",
	Capabilities: []string{"Natural language processing", "Automated routing"},
}

func newTestHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	targetDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, "components", "generated"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, "app"), 0o755))

	demoStore, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = demoStore.Close() })

	cfg := &config.Config{FallbackEnabled: true}
	service := orchestration.NewService(
		demoStore,
		provider.NewEnhancer(cfg),
		provider.NewComponentGenerator(cfg),
		deps.NewResolver(0),
		deploy.NewDeployer(targetDir),
		nil,
		targetDir,
	)

	jwtManager, err := auth.NewJWTManager("handler-test-secret")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorPassword), bcrypt.MinCost)
	require.NoError(t, err)

	handler := NewHandler(service, demoStore, jwtManager, testOperatorEmail, string(hash), false)

	router := gin.New()
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.POST("/auth/token", handler.IssueToken)
	router.POST("/generate-demo-enhanced", handler.GenerateDemoEnhanced)
	router.POST("/generate-demo", handler.GenerateDemo)
	router.POST("/preview-ai-enhancements", handler.PreviewEnhancements)
	router.GET("/demos/:demoId", handler.GetDemo)
	router.GET("/demos/:demoId/progress", handler.GetProgress)

	return handler, router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_GenerateDemoEnhanced(t *testing.T) {
	_, router := newTestHandler(t)

	t.Run("valid_input", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/generate-demo-enhanced", validUseCase)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp GenerateDemoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Data)
		assert.Equal(t, models.StatusCompleted, resp.Data.Status)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, resp.Data.ID)
	})

	t.Run("schema_violation", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/generate-demo-enhanced", models.UseCaseInput{Title: "Hi"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid input", resp["error"])
	})

	t.Run("malformed_body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/generate-demo-enhanced", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid input")
	})
}

func TestHandler_GenerateDemoLegacy(t *testing.T) {
	handler, router := newTestHandler(t)

	w := performJSON(router, http.MethodPost, "/generate-demo", validUseCase)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp GenerateDemoLegacyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.DemoID)
	assert.Equal(t, models.StatusPending, resp.Status)

	require.NoError(t, handler.service.Drain(context.Background()))
	demo, err := handler.service.GetDemo(context.Background(), resp.DemoID)
	require.NoError(t, err)
	assert.True(t, demo.Status.Terminal())
}

func TestHandler_GetDemo(t *testing.T) {
	_, router := newTestHandler(t)

	t.Run("unknown_demo", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/demos/unknown", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.ErrCodeNotFound, resp.Code)
		assert.NotEmpty(t, resp.Timestamp)
	})

	t.Run("progress_for_unknown_demo", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/demos/unknown/progress", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_PreviewEnhancements(t *testing.T) {
	_, router := newTestHandler(t)

	w := performJSON(router, http.MethodPost, "/preview-ai-enhancements", validUseCase)
	require.Equal(t, http.StatusOK, w.Code)

	var enhanced models.EnhancedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enhanced))
	assert.NotEmpty(t, enhanced.ExecutiveSummary)
	assert.Greater(t, enhanced.Confidence, 0.0)
}

func TestHandler_IssueToken(t *testing.T) {
	_, router := newTestHandler(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid_credential",
			body:           map[string]string{"email": testOperatorEmail, "password": testOperatorPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong_password",
			body:           map[string]string{"email": testOperatorEmail, "password": "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown_email",
			body:           map[string]string{"email": "nobody@example.com", "password": testOperatorPassword},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing_fields",
			body:           map[string]string{"email": testOperatorEmail},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/auth/token", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandler_HealthAndReady(t *testing.T) {
	_, router := newTestHandler(t)

	w := performJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = performJSON(router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}
