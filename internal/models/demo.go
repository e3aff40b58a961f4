package models

import (
	"regexp"
	"strings"
	"time"
)

// DemoStatus represents the lifecycle state of a demo generation request
type DemoStatus string

const (
	StatusPending      DemoStatus = "pending"
	StatusProcessing   DemoStatus = "processing"
	StatusAIEnhancing  DemoStatus = "ai_enhancing"
	StatusV0Generating DemoStatus = "v0_generating"
	StatusCompleted    DemoStatus = "completed"
	StatusFailed       DemoStatus = "failed"
)

// validTransitions encodes the forward-only status machine. Terminal states
// have no successors.
var validTransitions = map[DemoStatus][]DemoStatus{
	StatusPending:      {StatusProcessing, StatusFailed},
	StatusProcessing:   {StatusAIEnhancing, StatusV0Generating, StatusCompleted, StatusFailed},
	StatusAIEnhancing:  {StatusV0Generating, StatusCompleted, StatusFailed},
	StatusV0Generating: {StatusCompleted, StatusFailed},
	StatusCompleted:    {},
	StatusFailed:       {},
}

// CanTransition reports whether moving from the current status to next is a
// legal forward transition.
func (s DemoStatus) CanTransition(next DemoStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is a terminal state.
func (s DemoStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Demo is the persisted record tracking one generation request end-to-end
type Demo struct {
	ID            string            `json:"demoId"`
	Title         string            `json:"title"`
	Capabilities  []string          `json:"capabilities"`
	Status        DemoStatus        `json:"status"`
	ComponentCode *string           `json:"componentCode,omitempty"`
	SampleData    map[string]any    `json:"sampleData,omitempty"`
	Enhancement   *EnhancedContent  `json:"enhancement,omitempty"`
	Dependencies  *DependencyInstallResult `json:"dependencies,omitempty"`
	Deployment    *DeploymentResult        `json:"deployment,omitempty"`
	Cost          CostRecord        `json:"cost"`
	Error         string            `json:"error,omitempty"`
	OwnerID       string            `json:"ownerId,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// UseCaseInput is the user-supplied description of the demo to generate.
// Immutable once accepted by validation.
type UseCaseInput struct {
	Title            string   `json:"title"`
	Capabilities     []string `json:"capabilities"`
	TargetAudience   string   `json:"targetAudience,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	StylePreferences string   `json:"stylePreferences,omitempty"`
}

var titleCharset = regexp.MustCompile(`^[A-Za-z0-9 .,!?()&'/-]+$`)

// Validate checks the input against the schema constraints. It returns a
// *ValidationError naming the first offending field.
func (in UseCaseInput) Validate() error {
	title := strings.TrimSpace(in.Title)
	if len(title) < 3 || len(title) > 200 {
		return &ValidationError{Field: "title", Message: "title must be between 3 and 200 characters"}
	}
	if !titleCharset.MatchString(title) {
		return &ValidationError{Field: "title", Message: "title contains unsupported characters"}
	}

	if len(in.Capabilities) < 1 || len(in.Capabilities) > 10 {
		return &ValidationError{Field: "capabilities", Message: "between 1 and 10 capabilities are required"}
	}
	for _, c := range in.Capabilities {
		c = strings.TrimSpace(c)
		if len(c) < 2 || len(c) > 100 {
			return &ValidationError{Field: "capabilities", Message: "each capability must be between 2 and 100 characters"}
		}
	}

	return nil
}
