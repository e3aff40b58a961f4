// Package provider implements the generation capability providers: real
// clients for the narrative-enhancement and component-generation services, a
// deterministic offline stand-in, and the fallback policy that substitutes
// offline output when a real call fails.
package provider

import (
	"context"

	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/models"
)

// Enhancer produces enhanced narrative content from a use-case description.
type Enhancer interface {
	Name() string
	EnhanceUseCase(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error)
}

// ComponentGenerator produces UI component source from a use-case
// description, optionally informed by prior narrative enhancement.
type ComponentGenerator interface {
	Name() string
	GenerateComponent(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error)
}

// NewEnhancer selects the narrative provider from configuration: offline when
// the primary is disabled, otherwise the primary wrapped with fallback when
// fallback-on-error is enabled.
func NewEnhancer(cfg *config.Config) Enhancer {
	offline := NewOfflineProvider()
	if !cfg.OpenAI.Enabled {
		return offline
	}
	primary := NewOpenAIClient(cfg.OpenAI)
	if !cfg.FallbackEnabled {
		return primary
	}
	return &FallbackEnhancer{Primary: primary, Offline: offline}
}

// NewComponentGenerator selects the component provider from configuration
// using the same policy as NewEnhancer.
func NewComponentGenerator(cfg *config.Config) ComponentGenerator {
	offline := NewOfflineProvider()
	if !cfg.V0.Enabled {
		return offline
	}
	primary := NewV0Client(cfg.V0)
	if !cfg.FallbackEnabled {
		return primary
	}
	return &FallbackGenerator{Primary: primary, Offline: offline}
}
