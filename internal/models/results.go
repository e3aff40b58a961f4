package models

import "time"

// DependencyInstallResult is the outcome of resolving one set of inferred
// packages against a target project's manifest
type DependencyInstallResult struct {
	Installed        []string      `json:"installed"`
	AlreadyInstalled []string      `json:"alreadyInstalled"`
	Failed           []string      `json:"failed"`
	Duration         time.Duration `json:"duration"`
	Error            string        `json:"error,omitempty"`
}

// DeploymentResult is the outcome of writing a demo's component into the
// target project
type DeploymentResult struct {
	Success       bool          `json:"success"`
	ComponentName string        `json:"componentName,omitempty"`
	FilePath      string        `json:"filePath,omitempty"`
	EntryRewired  bool          `json:"entryRewired"`
	Error         string        `json:"error,omitempty"`
	DeployedAt    time.Time     `json:"deployedAt"`
	Duration      time.Duration `json:"duration"`
}
