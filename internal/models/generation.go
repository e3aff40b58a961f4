package models

import "time"

// VariantStatus is the outcome of generating a single component variant
type VariantStatus string

const (
	VariantSuccess VariantStatus = "success"
	VariantError   VariantStatus = "error"
)

// ComponentVariant is one generated UI component candidate
type ComponentVariant struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Framework string        `json:"framework,omitempty"`
	Styling   string        `json:"styling,omitempty"`
	Status    VariantStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
}

// GenerationResult is the output of a component-generation provider call
type GenerationResult struct {
	Variants    []ComponentVariant `json:"variants"`
	HTML        string             `json:"html,omitempty"`
	CSS         string             `json:"css,omitempty"`
	Script      string             `json:"script,omitempty"`
	UseCase     string             `json:"useCase"`
	Provider    string             `json:"provider"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Usage       CostRecord         `json:"usage"`
}

// FirstSuccess returns the first variant with status success in original
// order, or nil when no variant succeeded.
func (r *GenerationResult) FirstSuccess() *ComponentVariant {
	for i := range r.Variants {
		if r.Variants[i].Status == VariantSuccess {
			return &r.Variants[i]
		}
	}
	return nil
}

// EnhancedContent is the output of the narrative-enhancement provider
type EnhancedContent struct {
	ExecutiveSummary string         `json:"executiveSummary"`
	BusinessValue    []string       `json:"businessValue"`
	SampleData       map[string]any `json:"sampleData,omitempty"`
	Confidence       float64        `json:"confidence"`
	Provider         string         `json:"provider"`
	Usage            CostRecord     `json:"usage"`
}

// EnhancedDemoPayload is the merged output of narrative enhancement and
// component generation, ready for deployment
type EnhancedDemoPayload struct {
	ExecutiveSummary string         `json:"executiveSummary"`
	BusinessValue    []string       `json:"businessValue"`
	SampleData       map[string]any `json:"sampleData,omitempty"`
	ComponentCode    string         `json:"componentCode"`
	Framework        string         `json:"framework,omitempty"`
	Styling          string         `json:"styling,omitempty"`
	Cost             CostRecord     `json:"cost"`
}
