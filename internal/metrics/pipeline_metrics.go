package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("pipeline-metrics")

// PipelineMetrics provides metrics collection for demo generation pipelines
type PipelineMetrics struct {
	demosCreatedCounter      metric.Int64Counter
	demosCompletedCounter    metric.Int64Counter
	demosFailedCounter       metric.Int64Counter
	pipelineDurationHistogram metric.Float64Histogram
	pipelinesActiveGauge     metric.Int64UpDownCounter
	tokensUsedCounter        metric.Int64Counter
}

// NewPipelineMetrics creates a new pipeline metrics collector
func NewPipelineMetrics() (*PipelineMetrics, error) {
	demosCreatedCounter, err := meter.Int64Counter(
		"demoforge.demos.created",
		metric.WithDescription("Total number of demo generation requests accepted"),
		metric.WithUnit("{demo}"),
	)
	if err != nil {
		return nil, err
	}

	demosCompletedCounter, err := meter.Int64Counter(
		"demoforge.demos.completed",
		metric.WithDescription("Total number of demos generated successfully"),
		metric.WithUnit("{demo}"),
	)
	if err != nil {
		return nil, err
	}

	demosFailedCounter, err := meter.Int64Counter(
		"demoforge.demos.failed",
		metric.WithDescription("Total number of demo pipelines that failed"),
		metric.WithUnit("{demo}"),
	)
	if err != nil {
		return nil, err
	}

	pipelineDurationHistogram, err := meter.Float64Histogram(
		"demoforge.pipeline.duration",
		metric.WithDescription("Duration of pipeline execution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pipelinesActiveGauge, err := meter.Int64UpDownCounter(
		"demoforge.pipelines.active",
		metric.WithDescription("Number of currently running pipelines"),
		metric.WithUnit("{pipeline}"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsedCounter, err := meter.Int64Counter(
		"demoforge.tokens.used",
		metric.WithDescription("Total generation tokens billed"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		demosCreatedCounter:       demosCreatedCounter,
		demosCompletedCounter:     demosCompletedCounter,
		demosFailedCounter:        demosFailedCounter,
		pipelineDurationHistogram: pipelineDurationHistogram,
		pipelinesActiveGauge:      pipelinesActiveGauge,
		tokensUsedCounter:         tokensUsedCounter,
	}, nil
}

// RecordDemoCreated records acceptance of a new generation request
func (pm *PipelineMetrics) RecordDemoCreated(ctx context.Context, demoID string) {
	pm.demosCreatedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("demo.id", demoID),
		),
	)
	pm.pipelinesActiveGauge.Add(ctx, 1)
}

// RecordDemoCompleted records a successful pipeline run
func (pm *PipelineMetrics) RecordDemoCompleted(ctx context.Context, demoID, provider string, duration time.Duration) {
	pm.demosCompletedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("demo.id", demoID),
			attribute.String("provider", provider),
			attribute.String("status", "completed"),
		),
	)
	pm.pipelineDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", "completed"),
		),
	)
	pm.pipelinesActiveGauge.Add(ctx, -1)
}

// RecordDemoFailed records a failed pipeline run
func (pm *PipelineMetrics) RecordDemoFailed(ctx context.Context, demoID, failedStep string, duration time.Duration) {
	pm.demosFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("demo.id", demoID),
			attribute.String("step", failedStep),
			attribute.String("status", "failed"),
		),
	)
	pm.pipelineDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", "failed"),
		),
	)
	pm.pipelinesActiveGauge.Add(ctx, -1)
}

// RecordTokensUsed records billable token usage for one provider call
func (pm *PipelineMetrics) RecordTokensUsed(ctx context.Context, provider string, tokens int64) {
	if tokens <= 0 {
		return
	}
	pm.tokensUsedCounter.Add(ctx, tokens,
		metric.WithAttributes(
			attribute.String("provider", provider),
		),
	)
}
