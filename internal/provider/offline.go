package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// OfflineProvider produces deterministic, side-effect-free synthetic output.
// Used when a real provider is disabled by configuration or as fallback when
// a real call fails.
type OfflineProvider struct{}

// NewOfflineProvider creates the offline provider.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Name() string { return "offline" }

// EnhanceUseCase builds synthetic narrative content from the input alone.
func (p *OfflineProvider) EnhanceUseCase(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	title := strings.TrimSpace(input.Title)

	value := make([]string, 0, len(input.Capabilities))
	for _, c := range input.Capabilities {
		value = append(value, fmt.Sprintf("Delivers %s out of the box", strings.ToLower(strings.TrimSpace(c))))
	}

	return &models.EnhancedContent{
		ExecutiveSummary: fmt.Sprintf("%s is an interactive demo showcasing %s.", title, strings.Join(input.Capabilities, ", ")),
		BusinessValue:    value,
		SampleData: map[string]any{
			"metrics": []map[string]any{
				{"label": "Requests handled", "value": 1284},
				{"label": "Avg. response time", "value": "320ms"},
				{"label": "Satisfaction", "value": "94%"},
			},
		},
		Confidence: 0.5,
		Provider:   p.Name(),
	}, nil
}

// GenerateComponent builds a synthetic React component from the input alone.
func (p *OfflineProvider) GenerateComponent(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error) {
	title := strings.TrimSpace(input.Title)

	summary := ""
	if enhancement != nil {
		summary = enhancement.ExecutiveSummary
	}
	if summary == "" {
		summary = fmt.Sprintf("A demo of %s.", title)
	}

	var items strings.Builder
	for _, c := range input.Capabilities {
		fmt.Fprintf(&items, "        <li className=\"rounded border p-3\">%s</li>\n", strings.TrimSpace(c))
	}

	source := fmt.Sprintf(`"use client"

import React from "react"

export default function Demo() {
  return (
    <main className="mx-auto max-w-3xl p-8">
      <h1 className="text-3xl font-bold">%s</h1>
      <p className="mt-2 text-gray-600">%s</p>
      <ul className="mt-6 grid gap-3">
%s      </ul>
    </main>
  )
}
`, title, summary, items.String())

	return &models.GenerationResult{
		Variants: []models.ComponentVariant{
			{
				ID:        "offline-1",
				Source:    source,
				Framework: "react",
				Styling:   "tailwind",
				Status:    models.VariantSuccess,
			},
		},
		UseCase:  title,
		Provider: p.Name(),
	}, nil
}
