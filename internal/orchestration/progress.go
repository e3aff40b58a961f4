package orchestration

import "github.com/demoforge/demo-orchestrator/internal/models"

// StepState is the derived state of one pipeline step
type StepState string

const (
	StepPending    StepState = "pending"
	StepProcessing StepState = "processing"
	StepCompleted  StepState = "completed"
)

// PipelineProgress is a snapshot of pipeline progress, derived purely from
// the demo's status so there is no separate counter to keep in sync.
type PipelineProgress struct {
	Status     models.DemoStatus    `json:"status"`
	Percentage int                  `json:"percentage"`
	Steps      map[string]StepState `json:"steps"`
}

// statusPercent maps each status to a monotonically increasing completion
// percentage.
var statusPercent = map[models.DemoStatus]int{
	models.StatusPending:      5,
	models.StatusProcessing:   15,
	models.StatusAIEnhancing:  40,
	models.StatusV0Generating: 75,
	models.StatusCompleted:    100,
	models.StatusFailed:       100,
}

// Progress derives the progress snapshot for a status.
func Progress(status models.DemoStatus) PipelineProgress {
	steps := map[string]StepState{
		"validation":  StepCompleted,
		"enhancement": StepPending,
		"generation":  StepPending,
		"deployment":  StepPending,
	}

	switch status {
	case models.StatusPending, models.StatusProcessing:
		// Record accepted, long-running work not started.
	case models.StatusAIEnhancing:
		steps["enhancement"] = StepProcessing
	case models.StatusV0Generating:
		steps["enhancement"] = StepCompleted
		steps["generation"] = StepProcessing
	case models.StatusCompleted:
		steps["enhancement"] = StepCompleted
		steps["generation"] = StepCompleted
		steps["deployment"] = StepCompleted
	case models.StatusFailed:
		// Terminal without claiming unfinished steps completed.
	}

	return PipelineProgress{
		Status:     status,
		Percentage: statusPercent[status],
		Steps:      steps,
	}
}
