package orchestration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/demoforge/demo-orchestrator/internal/deploy"
	"github.com/demoforge/demo-orchestrator/internal/deps"
	"github.com/demoforge/demo-orchestrator/internal/metrics"
	"github.com/demoforge/demo-orchestrator/internal/models"
	"github.com/demoforge/demo-orchestrator/internal/provider"
	"github.com/demoforge/demo-orchestrator/internal/store"
)

// GenerateOptions controls one pipeline execution
type GenerateOptions struct {
	// Async returns the demo once it is persisted in pending instead of
	// blocking until a terminal state.
	Async bool
	// OwnerID stamps the caller identity on the record when known.
	OwnerID string
	// SkipDeployment stops the pipeline after merge (legacy endpoint).
	SkipDeployment bool
}

// Service drives the demo generation pipeline: it owns the demo record,
// applies the fallback policy, and is the single point deciding whether a
// stage failure degrades or terminates.
type Service struct {
	store     store.DemoStore
	enhancer  provider.Enhancer
	generator provider.ComponentGenerator
	resolver  *deps.Resolver
	deployer  *deploy.Deployer
	metrics   *metrics.PipelineMetrics
	costs     *CostTracker
	targetDir string

	wg sync.WaitGroup
}

// NewService creates the pipeline orchestrator.
func NewService(demoStore store.DemoStore, enhancer provider.Enhancer, generator provider.ComponentGenerator, resolver *deps.Resolver, deployer *deploy.Deployer, pm *metrics.PipelineMetrics, targetDir string) *Service {
	return &Service{
		store:     demoStore,
		enhancer:  enhancer,
		generator: generator,
		resolver:  resolver,
		deployer:  deployer,
		metrics:   pm,
		costs:     NewCostTracker(),
		targetDir: targetDir,
	}
}

// Costs exposes the process-wide usage totals.
func (s *Service) Costs() models.CostRecord {
	return s.costs.Totals()
}

// Generate validates the input, creates the demo record, and runs the
// pipeline. With opts.Async the record is returned in pending and the
// pipeline continues in the background; otherwise the returned demo is in a
// terminal state.
//
// Validation failures are reported before any record is created.
func (s *Service) Generate(ctx context.Context, input models.UseCaseInput, opts GenerateOptions) (*models.Demo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	demo := &models.Demo{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Capabilities: append([]string(nil), input.Capabilities...),
		Status:       models.StatusPending,
		OwnerID:      opts.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, demo); err != nil {
		return nil, fmt.Errorf("failed to create demo record: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDemoCreated(ctx, demo.ID)
	}

	if opts.Async {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// The pipeline outlives the HTTP request that started it.
			s.run(context.Background(), demo, input, opts)
		}()
		return demo, nil
	}

	s.run(ctx, demo, input, opts)
	return demo, nil
}

// Preview runs only the narrative-enhancement stage. No record is persisted
// and nothing is deployed.
func (s *Service) Preview(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	content, err := s.enhancer.EnhanceUseCase(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, content.Usage)
	return content, nil
}

// GetDemo retrieves a stored demo by identifier.
func (s *Service) GetDemo(ctx context.Context, id string) (*models.Demo, error) {
	return s.store.Get(ctx, id)
}

// Drain waits for in-flight asynchronous pipelines to finish, bounded by the
// context.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes the pipeline stages in order, stopping at the first failed
// stage. Partial results accumulated before the failure stay on the record.
func (s *Service) run(ctx context.Context, demo *models.Demo, input models.UseCaseInput, opts GenerateOptions) {
	start := time.Now()

	if !s.transition(ctx, demo, models.StatusProcessing) {
		return
	}

	// Stage: narrative enhancement. Provider failures surfacing here mean
	// fallback was disabled or exhausted; they fail the step.
	if !s.transition(ctx, demo, models.StatusAIEnhancing) {
		return
	}
	enhancement, err := s.enhancer.EnhanceUseCase(ctx, input)
	if err != nil {
		s.fail(ctx, demo, "enhancement", err, start)
		return
	}
	s.recordUsage(ctx, enhancement.Usage)
	demo.Enhancement = enhancement
	demo.Cost.Add(enhancement.Usage)
	s.persist(ctx, demo)

	// Stage: component generation.
	if !s.transition(ctx, demo, models.StatusV0Generating) {
		return
	}
	generation, err := s.generator.GenerateComponent(ctx, input, enhancement)
	if err != nil {
		s.fail(ctx, demo, "generation", err, start)
		return
	}
	s.recordUsage(ctx, generation.Usage)
	demo.Cost.Add(generation.Usage)

	// Finalization: merge, resolve dependencies, deploy.
	payload, err := Merge(enhancement, generation)
	if err != nil {
		s.fail(ctx, demo, "merge", err, start)
		return
	}
	demo.ComponentCode = &payload.ComponentCode
	demo.SampleData = payload.SampleData

	if !opts.SkipDeployment {
		inferred := deps.DetectPackages(payload.ComponentCode)
		installResult := s.resolver.Resolve(ctx, s.targetDir, inferred)
		demo.Dependencies = installResult
		if len(installResult.Failed) > 0 {
			// Generated source is retained so the caller can self-install.
			s.fail(ctx, demo, "dependencies", fmt.Errorf("%s", installResult.Error), start)
			return
		}

		deployment := s.deployer.Deploy(demo)
		demo.Deployment = deployment
		if !deployment.Success {
			s.fail(ctx, demo, "deployment", fmt.Errorf("%s", deployment.Error), start)
			return
		}
	}

	if !s.transition(ctx, demo, models.StatusCompleted) {
		return
	}

	if s.metrics != nil {
		s.metrics.RecordDemoCompleted(ctx, demo.ID, generation.Provider, time.Since(start))
	}
	log.Printf(`{"level":"info","message":"Demo generation completed","demo_id":"%s","provider":"%s","duration_ms":%d}`,
		demo.ID, generation.Provider, time.Since(start).Milliseconds())
}

// transition advances the demo's status, enforcing the forward-only state
// machine, and persists the record.
func (s *Service) transition(ctx context.Context, demo *models.Demo, next models.DemoStatus) bool {
	if !demo.Status.CanTransition(next) {
		log.Printf(`{"level":"error","message":"Illegal status transition","demo_id":"%s","from":"%s","to":"%s"}`,
			demo.ID, demo.Status, next)
		return false
	}
	demo.Status = next
	s.persist(ctx, demo)
	return true
}

// fail marks the demo failed with the failing step's error, keeping any
// partial results already attached to the record.
func (s *Service) fail(ctx context.Context, demo *models.Demo, step string, err error, start time.Time) {
	demo.Status = models.StatusFailed
	demo.Error = fmt.Sprintf("%s: %v", step, err)
	s.persist(ctx, demo)

	if s.metrics != nil {
		s.metrics.RecordDemoFailed(ctx, demo.ID, step, time.Since(start))
	}
	log.Printf(`{"level":"error","message":"Demo generation failed","demo_id":"%s","step":"%s","error":"%v"}`,
		demo.ID, step, err)
}

func (s *Service) persist(ctx context.Context, demo *models.Demo) {
	demo.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, demo); err != nil {
		log.Printf(`{"level":"error","message":"Failed to persist demo","demo_id":"%s","error":"%v"}`, demo.ID, err)
	}
}

func (s *Service) recordUsage(ctx context.Context, usage models.CostRecord) {
	s.costs.Record(usage)
	if s.metrics != nil {
		s.metrics.RecordTokensUsed(ctx, usage.Provider, usage.TotalTokens)
	}
}
