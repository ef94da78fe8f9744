// Package stack detects a repository's language stack from marker files and
// resolves its CI commands from the tooling matrix.
package stack

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// lockPath is the explicit stack lock, relative to the repo root. When
// present it overrides marker detection entirely.
const lockPath = "tools/stack.yml"

type lockFile struct {
	Stack string `yaml:"stack"`
}

// markers map well-known files to stack names. Order matters: the first
// match wins, so more specific markers come first.
var markers = []struct {
	file  string
	stack string
}{
	{"uv.lock", "python-uv"},
	{"pyproject.toml", "python"},
	{"setup.py", "python"},
	{"requirements.txt", "python"},
	{"package.json", "node"},
	{"go.mod", "go"},
	{"pom.xml", "java"},
	{"build.gradle", "java"},
}

// Detect returns the stack name for repoRoot: the lock file wins, then
// marker files in priority order, else "none".
func Detect(repoRoot string) (string, error) {
	lockData, err := os.ReadFile(filepath.Join(repoRoot, lockPath))
	if err == nil {
		var lock lockFile
		if err := yaml.Unmarshal(lockData, &lock); err != nil {
			return "", fmt.Errorf("parsing %s: %w", lockPath, err)
		}
		if lock.Stack != "" {
			return lock.Stack, nil
		}
		return "none", nil
	}

	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(repoRoot, m.file)); err == nil {
			return m.stack, nil
		}
	}
	return "none", nil
}

// Config describes one stack entry in the tooling matrix.
type Config struct {
	SetupAction    string            `yaml:"setup_action" json:"setup_action"`
	DefaultVersion string            `yaml:"default_version" json:"default_version"`
	Markers        []string          `yaml:"markers" json:"-"`
	Commands       map[string]string `yaml:"commands" json:"commands"`
}

// Matrix is the parsed tooling matrix.
type Matrix struct {
	Stacks map[string]Config `yaml:"stacks"`
}

// LoadMatrix reads and parses the tooling matrix YAML.
func LoadMatrix(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matrix{}, fmt.Errorf("reading tooling matrix: %w", err)
	}
	var m Matrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Matrix{}, fmt.Errorf("parsing tooling matrix: %w", err)
	}
	return m, nil
}

// Selection is the resolved CI configuration for a stack.
type Selection struct {
	Stack  string `json:"stack"`
	SkipCI bool   `json:"skip_ci"`
	Config
}

// Select resolves the CI commands for a stack, falling back to the "none"
// entry for unknown stacks. CI is skipped when no setup action applies.
func Select(m Matrix, stackName string) Selection {
	cfg, ok := m.Stacks[stackName]
	if !ok {
		cfg = m.Stacks["none"]
		stackName = "none"
	}

	return Selection{
		Stack:  stackName,
		SkipCI: stackName == "none" || cfg.SetupAction == "none",
		Config: cfg,
	}
}
