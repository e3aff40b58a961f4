package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

func TestV0Client_GenerateComponent(t *testing.T) {
	componentSource := `export default function Demo() {
  return <div>demo</div>
}`

	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		check          func(t *testing.T, result *models.GenerationResult)
	}{
		{
			name: "successful_generation",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/completions", r.URL.Path)

				var req chatRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, v0Model, req.Model)
				require.Len(t, req.Messages, 1)
				assert.Contains(t, req.Messages[0].Content, "AI-Powered Customer Support")

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{"message": map[string]string{"role": "assistant", "content": componentSource}},
					},
					"usage": map[string]int64{"prompt_tokens": 200, "completion_tokens": 300, "total_tokens": 500},
				})
			},
			check: func(t *testing.T, result *models.GenerationResult) {
				require.Len(t, result.Variants, 1)
				variant := result.FirstSuccess()
				require.NotNil(t, variant)
				assert.Equal(t, componentSource, variant.Source)
				assert.Equal(t, "react", variant.Framework)
				assert.Equal(t, "tailwind", variant.Styling)
				assert.NotEmpty(t, variant.ID)

				assert.Equal(t, "v0", result.Provider)
				assert.Equal(t, int64(500), result.Usage.TotalTokens)
				assert.InDelta(t, 500.0/1000*v0CostPer1KTokens, result.Usage.CostUSD, 1e-9)
			},
		},
		{
			name: "empty_source_becomes_error_variant",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{"message": map[string]string{"role": "assistant", "content": "   "}},
					},
				})
			},
			check: func(t *testing.T, result *models.GenerationResult) {
				require.Len(t, result.Variants, 1)
				assert.Nil(t, result.FirstSuccess())
				assert.Equal(t, models.VariantError, result.Variants[0].Status)
				assert.Equal(t, "empty component source", result.Variants[0].Error)
			},
		},
		{
			name: "server_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte("rate limited"))
			},
			expectedError: "v0 returned status 429",
		},
		{
			name: "no_choices",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[]}`))
			},
			expectedError: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewV0Client(testProviderConfig())
			client.SetBaseURL(server.URL)

			result, err := client.GenerateComponent(context.Background(), testInput, nil)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)

				var pErr *models.ProviderError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, "v0", pErr.Provider)
				return
			}

			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestComponentPrompt_IncludesEnhancementSummary(t *testing.T) {
	enhancement := &models.EnhancedContent{ExecutiveSummary: "A support demo."}

	withEnhancement := ComponentPrompt(testInput, enhancement)
	without := ComponentPrompt(testInput, nil)

	assert.Contains(t, withEnhancement, "Summary: A support demo.")
	assert.NotContains(t, without, "Summary:")
	assert.Equal(t, ComponentPrompt(testInput, enhancement), withEnhancement)
}
