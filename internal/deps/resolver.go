package deps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// DefaultInstallTimeout bounds the batch install operation.
const DefaultInstallTimeout = 120 * time.Second

// packageManifest is the subset of package.json the resolver reads.
type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Resolver installs inferred packages into a target project. Concurrent
// installs against the same project are serialized to avoid interleaved
// writes to the manifest and lockfile.
type Resolver struct {
	installTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// runInstall is swapped out in tests.
	runInstall func(ctx context.Context, projectDir string, packages []string) error
}

// NewResolver creates a resolver with the given install timeout (zero means
// DefaultInstallTimeout).
func NewResolver(installTimeout time.Duration) *Resolver {
	if installTimeout <= 0 {
		installTimeout = DefaultInstallTimeout
	}
	r := &Resolver{
		installTimeout: installTimeout,
		locks:          make(map[string]*sync.Mutex),
	}
	r.runInstall = r.npmInstall
	return r
}

// Resolve partitions the inferred packages into already-declared vs. missing
// and installs the missing set in one batch. A failure of the batch marks
// every package in it as failed; no partial success is inferred from a
// combined install error.
func (r *Resolver) Resolve(ctx context.Context, projectDir string, packages []string) *models.DependencyInstallResult {
	start := time.Now()
	result := &models.DependencyInstallResult{}

	if len(packages) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	declared, err := r.declaredPackages(projectDir)
	if err != nil {
		result.Failed = append(result.Failed, packages...)
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	var missing []string
	for _, pkg := range packages {
		if declared[pkg] {
			result.AlreadyInstalled = append(result.AlreadyInstalled, pkg)
		} else {
			missing = append(missing, pkg)
		}
	}

	if len(missing) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	lock := r.projectLock(projectDir)
	lock.Lock()
	defer lock.Unlock()

	installCtx, cancel := context.WithTimeout(ctx, r.installTimeout)
	defer cancel()

	if err := r.runInstall(installCtx, projectDir, missing); err != nil {
		log.Printf(`{"level":"error","message":"Batch install failed","packages":%d,"error":"%v"}`, len(missing), err)
		result.Failed = append(result.Failed, missing...)
		result.Error = (&models.DependencyResolutionError{Packages: missing, Err: err}).Error()
		result.Duration = time.Since(start)
		return result
	}

	result.Installed = append(result.Installed, missing...)
	result.Duration = time.Since(start)
	return result
}

// declaredPackages reads the target manifest's dependency sections.
func (r *Resolver) declaredPackages(projectDir string) (map[string]bool, error) {
	manifestPath := filepath.Join(projectDir, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}

	declared := make(map[string]bool, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for pkg := range manifest.Dependencies {
		declared[pkg] = true
	}
	for pkg := range manifest.DevDependencies {
		declared[pkg] = true
	}
	return declared, nil
}

// npmInstall runs one batch install against the target project.
func (r *Resolver) npmInstall(ctx context.Context, projectDir string, packages []string) error {
	args := append([]string{"install", "--save"}, packages...)
	cmd := exec.CommandContext(ctx, "npm", args...)
	cmd.Dir = projectDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("npm install timed out after %s", r.installTimeout)
		}
		return fmt.Errorf("npm install failed: %w: %s", err, stderr.String())
	}
	return nil
}

// projectLock returns the mutex serializing installs for one project.
func (r *Resolver) projectLock(projectDir string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	lock, ok := r.locks[projectDir]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[projectDir] = lock
	}
	return lock
}
