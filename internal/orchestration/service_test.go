package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforge/demo-orchestrator/internal/deploy"
	"github.com/demoforge/demo-orchestrator/internal/deps"
	"github.com/demoforge/demo-orchestrator/internal/models"
	"github.com/demoforge/demo-orchestrator/internal/provider"
	"github.com/demoforge/demo-orchestrator/internal/store"
)

var validInput = models.UseCaseInput{
	Title:        "AI-Powered Customer Support",
	Capabilities: []string{"Natural language processing", "Automated routing"},
}

// countingStore wraps a DemoStore to observe record creation.
type countingStore struct {
	store.DemoStore
	creates int
}

func (c *countingStore) Create(ctx context.Context, demo *models.Demo) error {
	c.creates++
	return c.DemoStore.Create(ctx, demo)
}

type failingEnhancer struct{ err error }

func (f *failingEnhancer) Name() string { return "openai" }
func (f *failingEnhancer) EnhanceUseCase(ctx context.Context, input models.UseCaseInput) (*models.EnhancedContent, error) {
	return nil, f.err
}

type stubGenerator struct {
	result *models.GenerationResult
	err    error
}

func (g *stubGenerator) Name() string { return "v0" }
func (g *stubGenerator) GenerateComponent(ctx context.Context, input models.UseCaseInput, enhancement *models.EnhancedContent) (*models.GenerationResult, error) {
	return g.result, g.err
}

func scaffoldTarget(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "components", "generated"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"react":"^18.0.0"}}`), 0o644))
	return dir
}

func newTestService(t *testing.T, enhancer provider.Enhancer, generator provider.ComponentGenerator, targetDir string) (*Service, *countingStore) {
	t.Helper()

	memStore, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = memStore.Close() })

	counting := &countingStore{DemoStore: memStore}
	svc := NewService(counting, enhancer, generator, deps.NewResolver(time.Second), deploy.NewDeployer(targetDir), nil, targetDir)
	return svc, counting
}

func TestService_Generate_Completes(t *testing.T) {
	offline := provider.NewOfflineProvider()
	targetDir := scaffoldTarget(t)
	svc, counting := newTestService(t, offline, offline, targetDir)

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{OwnerID: "operator"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, demo.Status)
	assert.Equal(t, "operator", demo.OwnerID)
	assert.Equal(t, 1, counting.creates)

	require.NotNil(t, demo.Enhancement)
	assert.Equal(t, "offline", demo.Enhancement.Provider)
	require.NotNil(t, demo.ComponentCode)
	assert.NotEmpty(t, *demo.ComponentCode)
	assert.NotNil(t, demo.SampleData)

	require.NotNil(t, demo.Deployment)
	assert.True(t, demo.Deployment.Success)
	_, err = os.Stat(demo.Deployment.FilePath)
	assert.NoError(t, err)

	stored, err := svc.GetDemo(context.Background(), demo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestService_Generate_ValidationFailureCreatesNoRecord(t *testing.T) {
	offline := provider.NewOfflineProvider()
	svc, counting := newTestService(t, offline, offline, scaffoldTarget(t))

	_, err := svc.Generate(context.Background(), models.UseCaseInput{Title: "Hi"}, GenerateOptions{})
	require.Error(t, err)

	var vErr *models.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Zero(t, counting.creates)
}

func TestService_Generate_EnhancementFailure(t *testing.T) {
	offline := provider.NewOfflineProvider()
	svc, _ := newTestService(t, &failingEnhancer{err: errors.New("connection refused")}, offline, scaffoldTarget(t))

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, demo.Status)
	assert.Contains(t, demo.Error, "enhancement:")
	assert.Nil(t, demo.ComponentCode)

	stored, err := svc.GetDemo(context.Background(), demo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
}

func TestService_Generate_GenerationFailureRetainsEnhancement(t *testing.T) {
	offline := provider.NewOfflineProvider()
	svc, _ := newTestService(t, offline, &stubGenerator{err: errors.New("timeout")}, scaffoldTarget(t))

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, demo.Status)
	assert.Contains(t, demo.Error, "generation:")
	assert.NotNil(t, demo.Enhancement)
	assert.Nil(t, demo.ComponentCode)
}

func TestService_Generate_DependencyFailureRetainsSource(t *testing.T) {
	offline := provider.NewOfflineProvider()

	// Component importing a catalogued package against a target with no
	// manifest: resolution fails before any install runs.
	generator := &stubGenerator{result: &models.GenerationResult{
		Variants: []models.ComponentVariant{{
			ID:     "v-1",
			Source: "import { LineChart } from \"recharts\"\n\nexport default function Demo() {}\n",
			Status: models.VariantSuccess,
		}},
		Provider: "v0",
	}}

	targetDir := t.TempDir()
	svc, _ := newTestService(t, offline, generator, targetDir)

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, demo.Status)
	assert.Contains(t, demo.Error, "dependencies:")

	require.NotNil(t, demo.Dependencies)
	assert.Equal(t, []string{"recharts"}, demo.Dependencies.Failed)

	// The caller can still take the source and install by hand.
	require.NotNil(t, demo.ComponentCode)
	assert.Contains(t, *demo.ComponentCode, "recharts")
	assert.Nil(t, demo.Deployment)
}

func TestService_Generate_DeploymentPreconditionFailure(t *testing.T) {
	offline := provider.NewOfflineProvider()

	// Manifest present but the component directories are missing.
	targetDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "package.json"), []byte(`{}`), 0o644))

	svc, _ := newTestService(t, offline, offline, targetDir)

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, demo.Status)
	assert.Contains(t, demo.Error, "deployment:")
	require.NotNil(t, demo.Deployment)
	assert.False(t, demo.Deployment.Success)
	assert.Contains(t, demo.Deployment.Error, filepath.Join(targetDir, "components", "generated"))
}

func TestService_Generate_AsyncReachesTerminalState(t *testing.T) {
	offline := provider.NewOfflineProvider()
	svc, _ := newTestService(t, offline, offline, scaffoldTarget(t))

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{Async: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, demo.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Drain(ctx))

	stored, err := svc.GetDemo(context.Background(), demo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestService_Generate_SkipDeployment(t *testing.T) {
	offline := provider.NewOfflineProvider()
	// No target scaffold at all; deployment is skipped so it must not matter.
	svc, _ := newTestService(t, offline, offline, t.TempDir())

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{SkipDeployment: true})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, demo.Status)
	assert.NotNil(t, demo.ComponentCode)
	assert.Nil(t, demo.Deployment)
	assert.Nil(t, demo.Dependencies)
}

func TestService_Preview_DoesNotPersist(t *testing.T) {
	offline := provider.NewOfflineProvider()
	svc, counting := newTestService(t, offline, offline, scaffoldTarget(t))

	content, err := svc.Preview(context.Background(), validInput)
	require.NoError(t, err)
	assert.NotEmpty(t, content.ExecutiveSummary)
	assert.Zero(t, counting.creates)
}

func TestService_Costs_Accumulate(t *testing.T) {
	offline := provider.NewOfflineProvider()

	generator := &stubGenerator{result: &models.GenerationResult{
		Variants: []models.ComponentVariant{{ID: "v-1", Source: "export default function Demo() {}", Status: models.VariantSuccess}},
		Provider: "v0",
		Usage:    models.CostRecord{TotalTokens: 500, CostUSD: 0.05, Provider: "v0"},
	}}

	svc, _ := newTestService(t, offline, generator, scaffoldTarget(t))

	demo, err := svc.Generate(context.Background(), validInput, GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, demo.Status)

	assert.Equal(t, int64(500), demo.Cost.TotalTokens)
	assert.Equal(t, int64(500), svc.Costs().TotalTokens)
	assert.InDelta(t, 0.05, svc.Costs().CostUSD, 1e-9)
}
