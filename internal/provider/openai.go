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

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/models"
)

// Cost per 1K tokens for the default narrative model.
const (
	openaiPromptCostPer1K     = 0.00015
	openaiCompletionCostPer1K = 0.0006
)

// OpenAIClient is the primary narrative-enhancement provider
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// enhancementPayload is the JSON document the model is instructed to return
type enhancementPayload struct {
	ExecutiveSummary string         `json:"executiveSummary"`
	BusinessValue    []string       `json:"businessValue"`
	SampleData       map[string]any `json:"sampleData"`
	Confidence       float64        `json:"confidence"`
}

// NewOpenAIClient creates the narrative-enhancement client with a circuit
// breaker around upstream calls.
func NewOpenAIClient(cfg config.ProviderConfig) *OpenAIClient {
	settings := gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &OpenAIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer:  otel.Tracer("openai-client"),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *OpenAIClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *OpenAIClient) Name() string { return "openai" }

// EnhanceUseCase asks the model for structured narrative enhancement of the
// use case.
func (c *OpenAIClient) EnhanceUseCase(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	ctx, span := c.tracer.Start(ctx, "openai.enhance_use_case")
	defer span.End()

	span.SetAttributes(
		attribute.String("use_case.title", input.Title),
		attribute.Int("use_case.capabilities", len(input.Capabilities)),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.enhanceInternal(ctx, input)
	})
	if err != nil {
		span.RecordError(err)
		return nil, &models.ProviderError{Provider: c.Name(), Err: err}
	}

	return result.(*models.EnhancedContent), nil
}

func (c *OpenAIClient) enhanceInternal(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: enhancementSystemPrompt},
			{Role: "user", Content: EnhancementPrompt(input)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.2,
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
			return nil, fmt.Errorf("openai returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var payload enhancementPayload
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse enhancement payload: %w", err)
	}

	return &models.EnhancedContent{
		ExecutiveSummary: payload.ExecutiveSummary,
		BusinessValue:    payload.BusinessValue,
		SampleData:       payload.SampleData,
		Confidence:       payload.Confidence,
		Provider:         c.Name(),
		Usage: models.CostRecord{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
			CostUSD: float64(chatResp.Usage.PromptTokens)/1000*openaiPromptCostPer1K +
				float64(chatResp.Usage.CompletionTokens)/1000*openaiCompletionCostPer1K,
			Provider: c.Name(),
		},
	}, nil
}

const enhancementSystemPrompt = `You are a product demo strategist. Given an AI product use case, respond with a JSON object containing: executiveSummary (string), businessValue (array of strings), sampleData (object with realistic sample records for the demo), confidence (number between 0 and 1).`

// EnhancementPrompt derives the user prompt deterministically from the use
// case so identical inputs produce identical upstream requests.
func EnhancementPrompt(input models.UseCaseInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Use case: %s\n", strings.TrimSpace(input.Title))
	fmt.Fprintf(&b, "Capabilities: %s\n", strings.Join(input.Capabilities, "; "))
	if input.TargetAudience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", input.TargetAudience)
	}
	if input.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", input.Industry)
	}
	if input.StylePreferences != "" {
		fmt.Fprintf(&b, "Style preferences: %s\n", input.StylePreferences)
	}
	return b.String()
}
