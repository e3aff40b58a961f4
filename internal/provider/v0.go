package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/models"
)

const (
	v0Model             = "v0-1.5-md"
	v0CostPer1KTokens   = 0.0015
	componentPromptHead = "Generate a single self-contained React component in TypeScript using Tailwind CSS for the following product demo. Return only the component source."
)

// V0Client is the component-generation provider
type V0Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
}

// NewV0Client creates the component-generation client.
func NewV0Client(cfg config.ProviderConfig) *V0Client {
	settings := gobreaker.Settings{
		Name:        "v0",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &V0Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer:  otel.Tracer("v0-client"),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *V0Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *V0Client) Name() string { return "v0" }

// GenerateComponent asks the upstream generator for UI component source. The
// prompt is derived deterministically from the (possibly enhanced) use case.
func (c *V0Client) GenerateComponent(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error) {
	ctx, span := c.tracer.Start(ctx, "v0.generate_component")
	defer span.End()

	span.SetAttributes(attribute.String("use_case.title", input.Title))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generateInternal(ctx, input, enhancement)
	})
	if err != nil {
		span.RecordError(err)
		return nil, &models.ProviderError{Provider: c.Name(), Err: err}
	}

	return result.(*models.GenerationResult), nil
}

func (c *V0Client) generateInternal(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error) {
	reqBody := chatRequest{
		Model: v0Model,
		Messages: []chatMessage{
			{Role: "user", Content: ComponentPrompt(input, enhancement)},
		},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("v0 returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("v0 returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &models.GenerationResult{
		UseCase:     input.Title,
		Provider:    c.Name(),
		GeneratedAt: time.Now().UTC(),
		Usage: models.CostRecord{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
			CostUSD:          float64(chatResp.Usage.TotalTokens) / 1000 * v0CostPer1KTokens,
			Provider:         c.Name(),
		},
	}

	for _, choice := range chatResp.Choices {
		variant := models.ComponentVariant{
			ID:        uuid.New().String(),
			Framework: "react",
			Styling:   "tailwind",
		}
		source := strings.TrimSpace(choice.Message.Content)
		if source == "" {
			variant.Status = models.VariantError
			variant.Error = "empty component source"
		} else {
			variant.Status = models.VariantSuccess
			variant.Source = source
		}
		result.Variants = append(result.Variants, variant)
	}

	if len(result.Variants) == 0 {
		return nil, fmt.Errorf("v0 returned no choices")
	}

	return result, nil
}

// ComponentPrompt derives the generation prompt deterministically from the
// use case and any prior narrative enhancement.
func ComponentPrompt(input models.UseCaseInput, enhancement *models.EnhancedContent) string {
	var b strings.Builder
	b.WriteString(componentPromptHead)
	b.WriteString("\n\n")
	b.WriteString(EnhancementPrompt(input))
	if enhancement != nil && enhancement.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", enhancement.ExecutiveSummary)
	}
	return b.String()
}
