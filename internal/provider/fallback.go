package provider

import (
	"context"
	"log"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// FallbackEnhancer substitutes offline output when the primary enhancer
// fails. No retries at this layer; the substituted result is tagged with a
// "<name>-fallback" provenance marker so callers can detect degradation
// without inspecting error logs.
type FallbackEnhancer struct {
	Primary Enhancer
	Offline *OfflineProvider
}

func (f *FallbackEnhancer) Name() string { return f.Primary.Name() }

func (f *FallbackEnhancer) EnhanceUseCase(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	content, err := f.Primary.EnhanceUseCase(ctx, input)
	if err == nil {
		return content, nil
	}

	log.Printf(`{"level":"warn","message":"Enhancement provider failed, using offline fallback","provider":"%s","error":"%v"}`, f.Primary.Name(), err)

	content, fallbackErr := f.Offline.EnhanceUseCase(ctx, input)
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	content.Provider = f.Primary.Name() + "-fallback"
	return content, nil
}

// FallbackGenerator applies the same policy to component generation.
type FallbackGenerator struct {
	Primary ComponentGenerator
	Offline *OfflineProvider
}

func (f *FallbackGenerator) Name() string { return f.Primary.Name() }

func (f *FallbackGenerator) GenerateComponent(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error) {
	result, err := f.Primary.GenerateComponent(ctx, input, enhancement)
	if err == nil {
		return result, nil
	}

	log.Printf(`{"level":"warn","message":"Component provider failed, using offline fallback","provider":"%s","error":"%v"}`, f.Primary.Name(), err)

	result, fallbackErr := f.Offline.GenerateComponent(ctx, input, enhancement)
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	result.Provider = f.Primary.Name() + "-fallback"
	return result, nil
}
