package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// Default test fixtures
var (
	DefaultUseCase = models.UseCaseInput{
		Title: "AI-Powered Customer Support",
		Capabilities: []string{
			"Natural language processing",
			"Automated routing",
		},
		TargetAudience: "Support managers",
		Industry:       "SaaS",
	}

	InvalidUseCase = models.UseCaseInput{
		Title:        "Hi",
		Capabilities: []string{},
	}
)

// ScaffoldTargetProject creates a throwaway Next.js-shaped project directory
// satisfying the deployer's preconditions.
func ScaffoldTargetProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "components", "generated"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app"), 0o755))

	manifest := `{
  "name": "target-app",
  "dependencies": {
    "react": "^18.2.0",
    "next": "^14.0.0"
  }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644))
	return dir
}
