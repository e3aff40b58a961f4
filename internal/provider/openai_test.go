package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/models"
)

var testInput = models.UseCaseInput{
	Title:        "AI-Powered Customer Support",
	Capabilities: []string{"Natural language processing", "Automated routing"},
}

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Enabled: true,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

func TestOpenAIClient_EnhanceUseCase(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		check          func(t *testing.T, enhanced *models.EnhancedContent)
	}{
		{
			name: "successful_enhancement",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req chatRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "gpt-4o-mini", req.Model)
				require.Len(t, req.Messages, 2)
				assert.Contains(t, req.Messages[1].Content, "AI-Powered Customer Support")
				require.NotNil(t, req.ResponseFormat)
				assert.Equal(t, "json_object", req.ResponseFormat.Type)

				payload := `{"executiveSummary":"A support demo.","businessValue":["Faster responses"],"sampleData":{"tickets":3},"confidence":0.9}`
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{"message": map[string]string{"role": "assistant", "content": payload}},
					},
					"usage": map[string]int64{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
				})
			},
			check: func(t *testing.T, enhanced *models.EnhancedContent) {
				assert.Equal(t, "A support demo.", enhanced.ExecutiveSummary)
				assert.Equal(t, []string{"Faster responses"}, enhanced.BusinessValue)
				assert.Equal(t, 0.9, enhanced.Confidence)
				assert.Equal(t, "openai", enhanced.Provider)
				assert.Equal(t, int64(150), enhanced.Usage.TotalTokens)
				assert.InDelta(t, 100.0/1000*openaiPromptCostPer1K+50.0/1000*openaiCompletionCostPer1K, enhanced.Usage.CostUSD, 1e-9)
			},
		},
		{
			name: "server_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("upstream exploded"))
			},
			expectedError: "openai returned status 500",
		},
		{
			name: "no_choices",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[]}`))
			},
			expectedError: "no choices",
		},
		{
			name: "non_json_payload",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{"message": map[string]string{"role": "assistant", "content": "not json"}},
					},
				})
			},
			expectedError: "failed to parse enhancement payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewOpenAIClient(testProviderConfig())
			client.SetBaseURL(server.URL)

			enhanced, err := client.EnhanceUseCase(context.Background(), testInput)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)

				var pErr *models.ProviderError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, "openai", pErr.Provider)
				return
			}

			require.NoError(t, err)
			tt.check(t, enhanced)
		})
	}
}

func TestOpenAIClient_CircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOpenAIClient(testProviderConfig())
	client.SetBaseURL(server.URL)

	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = client.EnhanceUseCase(context.Background(), testInput)
		require.Error(t, lastErr)
	}
	assert.Contains(t, lastErr.Error(), "circuit breaker is open")
}

func TestEnhancementPrompt_Deterministic(t *testing.T) {
	input := testInput
	input.TargetAudience = "Support managers"
	input.Industry = "SaaS"

	first := EnhancementPrompt(input)
	second := EnhancementPrompt(input)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Use case: AI-Powered Customer Support")
	assert.Contains(t, first, "Natural language processing; Automated routing")
	assert.Contains(t, first, "Target audience: Support managers")
	assert.Contains(t, first, "Industry: SaaS")
	assert.NotContains(t, first, "Style preferences:")
}
