package gateway

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/demoforge/demo-orchestrator/internal/auth"
	"github.com/demoforge/demo-orchestrator/internal/models"
	"github.com/demoforge/demo-orchestrator/internal/orchestration"
	"github.com/demoforge/demo-orchestrator/internal/store"
)

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	service    *orchestration.Service
	demoStore  store.DemoStore
	jwtManager *auth.JWTManager

	operatorEmail        string
	operatorPasswordHash string

	// releaseMode suppresses internal error details in responses.
	releaseMode bool
	startedAt   time.Time
}

// NewHandler creates a new gateway handler
func NewHandler(service *orchestration.Service, demoStore store.DemoStore, jwtManager *auth.JWTManager, operatorEmail, operatorPasswordHash string, releaseMode bool) *Handler {
	return &Handler{
		service:              service,
		demoStore:            demoStore,
		jwtManager:           jwtManager,
		operatorEmail:        operatorEmail,
		operatorPasswordHash: operatorPasswordHash,
		releaseMode:          releaseMode,
		startedAt:            time.Now().UTC(),
	}
}

// GenerateDemoResponse wraps the demo record for the enhanced endpoint
type GenerateDemoResponse struct {
	Success bool         `json:"success"`
	Data    *models.Demo `json:"data"`
}

// GenerateDemoLegacyResponse is the reduced shape of the legacy endpoint
type GenerateDemoLegacyResponse struct {
	Success bool              `json:"success"`
	DemoID  string            `json:"demoId"`
	Status  models.DemoStatus `json:"status"`
}

// GenerateDemoEnhanced godoc
// @Summary Generate a demo through the full pipeline
// @Description Validate the use case, run enhancement, component generation, dependency install and deployment, and return the terminal demo record
// @Tags demos
// @Accept json
// @Produce json
// @Param request body models.UseCaseInput true "Use case description"
// @Success 200 {object} GenerateDemoResponse
// @Failure 400 {object} map[string]string
// @Router /generate-demo-enhanced [post]
func (h *Handler) GenerateDemoEnhanced(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	demo, err := h.service.Generate(c.Request.Context(), input, orchestration.GenerateOptions{
		OwnerID: userIDFromContext(c),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateDemoResponse{Success: true, Data: demo})
}

// GenerateDemo godoc
// @Summary Generate a demo (legacy)
// @Description Validate the use case and start the pipeline in the background, returning the accepted record identifier
// @Tags demos
// @Accept json
// @Produce json
// @Param request body models.UseCaseInput true "Use case description"
// @Success 202 {object} GenerateDemoLegacyResponse
// @Failure 400 {object} map[string]string
// @Router /generate-demo [post]
func (h *Handler) GenerateDemo(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	demo, err := h.service.Generate(c.Request.Context(), input, orchestration.GenerateOptions{
		Async:          true,
		OwnerID:        userIDFromContext(c),
		SkipDeployment: true,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, GenerateDemoLegacyResponse{
		Success: true,
		DemoID:  demo.ID,
		Status:  demo.Status,
	})
}

// PreviewEnhancements godoc
// @Summary Preview narrative enhancements
// @Description Run only the narrative-enhancement stage; nothing is persisted or deployed
// @Tags demos
// @Accept json
// @Produce json
// @Param request body models.UseCaseInput true "Use case description"
// @Success 200 {object} models.EnhancedContent
// @Failure 400 {object} map[string]string
// @Router /preview-ai-enhancements [post]
func (h *Handler) PreviewEnhancements(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	enhanced, err := h.service.Preview(c.Request.Context(), input)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enhanced)
}

// GetDemo godoc
// @Summary Fetch a demo record
// @Tags demos
// @Produce json
// @Param demoId path string true "Demo ID"
// @Success 200 {object} models.Demo
// @Failure 404 {object} models.ErrorResponse
// @Router /demos/{demoId} [get]
func (h *Handler) GetDemo(c *gin.Context) {
	demo, err := h.service.GetDemo(c.Request.Context(), c.Param("demoId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, demo)
}

// GetProgress godoc
// @Summary Fetch the derived pipeline progress for a demo
// @Tags demos
// @Produce json
// @Param demoId path string true "Demo ID"
// @Success 200 {object} orchestration.PipelineProgress
// @Failure 404 {object} models.ErrorResponse
// @Router /demos/{demoId}/progress [get]
func (h *Handler) GetProgress(c *gin.Context) {
	demo, err := h.service.GetDemo(c.Request.Context(), c.Param("demoId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, orchestration.Progress(demo.Status))
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "demo-orchestrator",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description Reports ready only when the demo store answers a ping
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if err := h.demoStore.Ping(c.Request.Context()); err != nil {
		log.Printf(`{"level":"error","message":"Store ping failed","error":"%v"}`, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetCosts godoc
// @Summary Accumulated provider usage totals
// @Description Operator-only view of process-wide token and cost totals
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CostRecord
// @Failure 401 {object} map[string]string
// @Router /costs [get]
func (h *Handler) GetCosts(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Costs())
}

// TokenRequest is the operator credential exchange request
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// IssueToken godoc
// @Summary Exchange the operator credential for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Operator credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/token [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if h.operatorEmail == "" || req.Email != h.operatorEmail {
		log.Printf(`{"level":"warn","message":"Unknown operator","email":"%s"}`, req.Email)
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.ErrCodeUnauthorized, "invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.operatorPasswordHash), []byte(req.Password)); err != nil {
		log.Printf(`{"level":"warn","message":"Invalid operator password","email":"%s"}`, req.Email)
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.ErrCodeUnauthorized, "invalid email or password"))
		return
	}

	const tokenTTL = 24 * time.Hour
	token, err := h.jwtManager.GenerateToken(c.Request.Context(), "operator", req.Email, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrCodeInternalError, "failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresIn: int(tokenTTL.Seconds())})
}

// bindInput decodes and pre-validates the use-case body. It writes the 400
// response itself so callers can just return on !ok.
func (h *Handler) bindInput(c *gin.Context) (models.UseCaseInput, bool) {
	var input models.UseCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return input, false
	}
	if err := input.Validate(); err != nil {
		log.Printf(`{"level":"warn","message":"Rejected use case input","error":"%v"}`, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return input, false
	}
	return input, true
}

// writeServiceError maps orchestration errors onto stable HTTP responses.
// Internal detail is withheld in release mode.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, models.NewErrorResponse(models.ErrCodeNotFound, err.Error()))
	default:
		log.Printf(`{"level":"error","message":"Request failed","error":"%v"}`, err)
		msg := err.Error()
		if h.releaseMode {
			msg = "internal error"
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrCodeInternalError, msg))
	}
}

func userIDFromContext(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
