package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the tools read from the environment. Required
// identifiers are validated by the Require* helpers, not at load time, so
// commands that don't need a PR number don't demand one.
type Config struct {
	Repo     string // "owner/name"
	PRNumber int

	Model string

	// Summary limits: overall diff ceiling and per-file excerpt cap used
	// when the full rendering is over budget.
	MaxDiffBytes    int
	MaxPatchPerFile int

	// Test-draft limits: per-file patch context and the overall context
	// ceiling forwarded to the model.
	MaxPatchContext int
	MaxContextBytes int

	MaxCommits int // release-notes commit cap

	PromptDir    string // optional prompt template override directory
	ArtifactPath string
	GoldenFile   string
	LogLevel     string

	Include []string // testdraft file filters
	Exclude []string
}

// Default returns the built-in limits.
func Default() Config {
	return Config{
		Model:           "gpt-4o-mini",
		MaxDiffBytes:    50000,
		MaxPatchPerFile: 500,
		MaxPatchContext: 2000,
		MaxContextBytes: 30000,
		MaxCommits:      50,
		ArtifactPath:    "artifacts/draft_tests.md",
		GoldenFile:      "evals/golden_intent.json",
		LogLevel:        "info",
		Exclude: []string{
			"**/vendor/**",
			"**/testdata/**",
			"**/*_test.go",
			"**/test_*.py",
			"**/tests/**",
			"**/*.lock",
			"**/*.md",
		},
	}
}

// Load builds the effective config: defaults overlaid with environment
// variables. Missing required identifiers surface later via Require*.
func Load() Config {
	cfg := Default()

	cfg.Repo = os.Getenv("REPO")
	if v := os.Getenv("PR_NUMBER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PRNumber = n
		}
	}

	if v := os.Getenv("PRMATE_MODEL"); v != "" {
		cfg.Model = v
	}
	setIntEnv("PRMATE_MAX_DIFF_BYTES", &cfg.MaxDiffBytes)
	setIntEnv("PRMATE_MAX_PATCH_PER_FILE", &cfg.MaxPatchPerFile)
	setIntEnv("PRMATE_MAX_PATCH_CONTEXT", &cfg.MaxPatchContext)
	setIntEnv("PRMATE_MAX_CONTEXT_BYTES", &cfg.MaxContextBytes)
	setIntEnv("PRMATE_MAX_COMMITS", &cfg.MaxCommits)
	if v := os.Getenv("PRMATE_PROMPT_DIR"); v != "" {
		cfg.PromptDir = v
	}
	if v := os.Getenv("PRMATE_ARTIFACT_PATH"); v != "" {
		cfg.ArtifactPath = v
	}
	if v := os.Getenv("PRMATE_GOLDEN_FILE"); v != "" {
		cfg.GoldenFile = v
	}
	if v := os.Getenv("PRMATE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PRMATE_INCLUDE"); v != "" {
		cfg.Include = splitList(v)
	}
	if v := os.Getenv("PRMATE_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}

	return cfg
}

func setIntEnv(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MissingEnvError is a fatal configuration error: a required identifier is
// absent. It is reported before any network call is made.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variable: %s", e.Name)
}

// RequireRepo validates the identifiers every GitHub-touching command needs.
func (c Config) RequireRepo() error {
	if os.Getenv("GITHUB_TOKEN") == "" {
		return &MissingEnvError{Name: "GITHUB_TOKEN"}
	}
	if c.Repo == "" {
		return &MissingEnvError{Name: "REPO"}
	}
	return nil
}

// RequirePR validates repo identifiers plus the PR number.
func (c Config) RequirePR() error {
	if err := c.RequireRepo(); err != nil {
		return err
	}
	if c.PRNumber == 0 {
		return &MissingEnvError{Name: "PR_NUMBER"}
	}
	return nil
}

// HasOpenAIKey reports whether an API credential is configured. Its absence
// is a deliberate skip, not an error.
func HasOpenAIKey() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}
