package orchestration

import (
	"fmt"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// Merge combines narrative enhancement with the chosen component variant
// into one demo payload. Pure: no I/O, deterministic given identical inputs.
//
// Variant selection picks the first success variant in original order. When
// no variant succeeded the first variant's error is surfaced as a merge
// failure.
func Merge(narrative *models.EnhancedContent, component *models.GenerationResult) (*models.EnhancedDemoPayload, error) {
	if component == nil || len(component.Variants) == 0 {
		return nil, fmt.Errorf("component generation produced no variants")
	}

	variant := component.FirstSuccess()
	if variant == nil {
		reason := component.Variants[0].Error
		if reason == "" {
			reason = "unknown generation error"
		}
		return nil, fmt.Errorf("no component variant succeeded: %s", reason)
	}

	payload := &models.EnhancedDemoPayload{
		ComponentCode: variant.Source,
		Framework:     variant.Framework,
		Styling:       variant.Styling,
		Cost:          component.Usage,
	}

	if narrative != nil {
		payload.ExecutiveSummary = narrative.ExecutiveSummary
		payload.BusinessValue = narrative.BusinessValue
		payload.SampleData = narrative.SampleData
		payload.Cost.Add(narrative.Usage)
	}

	return payload, nil
}
