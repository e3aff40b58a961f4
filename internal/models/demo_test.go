package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCaseInput_Validate(t *testing.T) {
	valid := UseCaseInput{
		Title:        "AI-Powered Customer Support",
		Capabilities: []string{"Natural language processing", "Automated routing"},
	}

	tests := []struct {
		name          string
		mutate        func(in *UseCaseInput)
		expectedField string
	}{
		{
			name:   "valid_input",
			mutate: func(in *UseCaseInput) {},
		},
		{
			name:   "title_with_allowed_punctuation",
			mutate: func(in *UseCaseInput) { in.Title = "Q&A Bot (v2) - Ops/Support, really!" },
		},
		{
			name:          "title_too_short",
			mutate:        func(in *UseCaseInput) { in.Title = "Hi" },
			expectedField: "title",
		},
		{
			name:          "title_too_long",
			mutate:        func(in *UseCaseInput) { in.Title = strings.Repeat("a", 201) },
			expectedField: "title",
		},
		{
			name:          "title_with_forbidden_characters",
			mutate:        func(in *UseCaseInput) { in.Title = "Support <script>" },
			expectedField: "title",
		},
		{
			name:          "no_capabilities",
			mutate:        func(in *UseCaseInput) { in.Capabilities = nil },
			expectedField: "capabilities",
		},
		{
			name: "too_many_capabilities",
			mutate: func(in *UseCaseInput) {
				in.Capabilities = make([]string, 11)
				for i := range in.Capabilities {
					in.Capabilities[i] = "a capability"
				}
			},
			expectedField: "capabilities",
		},
		{
			name:          "capability_too_short",
			mutate:        func(in *UseCaseInput) { in.Capabilities = []string{"x"} },
			expectedField: "capabilities",
		},
		{
			name:          "capability_too_long",
			mutate:        func(in *UseCaseInput) { in.Capabilities = []string{strings.Repeat("b", 101)} },
			expectedField: "capabilities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.Capabilities = append([]string(nil), valid.Capabilities...)
			tt.mutate(&in)

			err := in.Validate()
			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.expectedField, vErr.Field)
		})
	}
}

func TestDemoStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from    DemoStatus
		to      DemoStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusFailed, true},
		{StatusProcessing, StatusAIEnhancing, true},
		{StatusAIEnhancing, StatusV0Generating, true},
		{StatusV0Generating, StatusCompleted, true},
		{StatusV0Generating, StatusFailed, true},

		// No going backwards.
		{StatusProcessing, StatusPending, false},
		{StatusAIEnhancing, StatusProcessing, false},
		{StatusV0Generating, StatusAIEnhancing, false},

		// Terminal states have no successors.
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
		{StatusFailed, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestDemoStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusAIEnhancing.Terminal())
	assert.False(t, StatusV0Generating.Terminal())
}
