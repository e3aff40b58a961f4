// Package deploy materializes a demo's generated component into the target
// application's source tree and rewires its entry page.
package deploy

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// DefaultComponentName is used when title derivation yields nothing.
const DefaultComponentName = "GeneratedDemo"

const (
	componentsSubdir = "components/generated"
	appSubdir        = "app"
	entryPageName    = "page.tsx"
)

// Deployer writes generated components into a target Next.js-style project.
type Deployer struct {
	targetDir string
}

// NewDeployer creates a deployer for the given target project root.
func NewDeployer(targetDir string) *Deployer {
	return &Deployer{targetDir: targetDir}
}

// Deploy writes the demo's component source into the target project and
// overwrites the entry page to render it. Missing target directories are a
// fatal precondition error; nothing is written in that case.
func (d *Deployer) Deploy(demo *models.Demo) *models.DeploymentResult {
	start := time.Now()
	result := &models.DeploymentResult{DeployedAt: start.UTC()}

	componentsDir := filepath.Join(d.targetDir, componentsSubdir)
	appDir := filepath.Join(d.targetDir, appSubdir)
	for _, dir := range []string{componentsDir, appDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			precondition := &models.DeploymentPreconditionError{MissingPath: dir}
			result.Error = precondition.Error()
			result.Duration = time.Since(start)
			return result
		}
	}

	if demo.ComponentCode == nil || strings.TrimSpace(*demo.ComponentCode) == "" {
		result.Error = "demo has no component source to deploy"
		result.Duration = time.Since(start)
		return result
	}

	name := ComponentName(demo.Title)
	source := StripCodeFences(*demo.ComponentCode)
	source = EnsureRuntimeImports(source)

	componentPath := filepath.Join(componentsDir, name+".tsx")
	if err := os.WriteFile(componentPath, []byte(source), 0o644); err != nil {
		result.Error = fmt.Sprintf("failed to write component: %v", err)
		result.Duration = time.Since(start)
		return result
	}
	result.ComponentName = name
	result.FilePath = componentPath

	entryPath := filepath.Join(appDir, entryPageName)
	if err := os.WriteFile(entryPath, []byte(entryPage(name)), 0o644); err != nil {
		result.Error = fmt.Sprintf("failed to rewrite entry page: %v", err)
		result.Duration = time.Since(start)
		return result
	}
	result.EntryRewired = true
	result.Success = true
	result.Duration = time.Since(start)

	log.Printf(`{"level":"info","message":"Component deployed","component":"%s","path":"%s"}`, name, componentPath)
	return result
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9 ]+`)

// ComponentName derives a valid PascalCase component identifier from the
// use-case title. Deterministic; collisions overwrite the previous file.
func ComponentName(title string) string {
	cleaned := nonAlphanumeric.ReplaceAllString(title, " ")

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(word[:1]))
		if len(word) > 1 {
			b.WriteString(strings.ToLower(word[1:]))
		}
	}

	if b.Len() == 0 {
		return DefaultComponentName
	}
	return b.String()
}

var codeFence = regexp.MustCompile("^```[a-zA-Z]*\\s*\n")

// StripCodeFences removes surrounding markdown code-fence markers from
// generated source if present.
func StripCodeFences(source string) string {
	trimmed := strings.TrimSpace(source)
	if !strings.HasPrefix(trimmed, "```") {
		return source
	}
	trimmed = codeFence.ReplaceAllString(trimmed, "")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed) + "\n"
}

var reactImport = regexp.MustCompile(`(?m)^import\s+(?:\* as\s+)?React\b`)

// EnsureRuntimeImports injects the client directive and React import the
// written source needs at runtime, without duplicating ones already present.
// The directive must stay the first statement, so an import injected into
// source that already carries the directive goes after it.
func EnsureRuntimeImports(source string) string {
	hasDirective := strings.Contains(source, `"use client"`) || strings.Contains(source, "'use client'")
	hasReact := reactImport.MatchString(source)

	const importStmt = "import React from \"react\"\n"

	switch {
	case !hasDirective && !hasReact:
		return "\"use client\"\n\n" + importStmt + "\n" + source
	case !hasDirective:
		return "\"use client\"\n\n" + source
	case !hasReact:
		return insertAfterDirective(source, importStmt)
	default:
		return source
	}
}

// insertAfterDirective places stmt on the line following the client
// directive.
func insertAfterDirective(source, stmt string) string {
	lines := strings.SplitAfter(source, "\n")
	for i, line := range lines {
		if strings.Contains(line, `"use client"`) || strings.Contains(line, "'use client'") {
			head := strings.Join(lines[:i+1], "")
			tail := strings.Join(lines[i+1:], "")
			if !strings.HasSuffix(head, "\n") {
				head += "\n"
			}
			return head + "\n" + stmt + strings.TrimPrefix(tail, "\n")
		}
	}
	return stmt + "\n" + source
}

// entryPage renders the single-component entry point. Prior entry content is
// not preserved.
func entryPage(name string) string {
	return fmt.Sprintf(`import %s from "@/components/generated/%s"

export default function Page() {
  return <%s />
}
`, name, name, name)
}
