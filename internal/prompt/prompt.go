// Package prompt holds the system prompts and user-prompt templates. Embedded
// templates ship with the binary; a repo can override any of them by name.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed templates/*.md
var builtin embed.FS

// System prompts for the three tools.
const (
	SummarySystem = "You are a helpful code review assistant. Provide concise, actionable PR summaries."

	TestDraftSystem = "You are an expert testing assistant. Generate high-quality, practical draft tests. " +
		"Focus on testing behavior, edge cases, and error handling. " +
		"Use clear test names following a test_<function>_<scenario> convention."

	ReleaseNotesSystem = "You are a release notes assistant. Produce clear, user-facing release notes."
)

// Template returns the named template ("pr_summary", "test_generation",
// "release_notes"). A file named <name>.md under overrideDir wins over the
// embedded default, so repos can tune prompts without rebuilding.
func Template(overrideDir, name string) string {
	if overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(overrideDir, name+".md")); err == nil {
			return string(data)
		}
	}
	data, err := builtin.ReadFile("templates/" + name + ".md")
	if err != nil {
		// Embedded templates are compiled in; a miss is a programmer error.
		panic(fmt.Sprintf("unknown prompt template %q", name))
	}
	return string(data)
}

// SummaryData fills the pr_summary template.
type SummaryData struct {
	Title       string
	Body        string
	FileCount   int
	FilesByArea string
	DiffContent string
}

// BuildSummary renders the PR-summary user prompt.
func BuildSummary(overrideDir string, d SummaryData) string {
	body := d.Body
	if body == "" {
		body = "(No description provided)"
	}
	return strings.NewReplacer(
		"{title}", d.Title,
		"{body}", body,
		"{file_count}", strconv.Itoa(d.FileCount),
		"{files_by_area}", d.FilesByArea,
		"{diff_content}", d.DiffContent,
	).Replace(Template(overrideDir, "pr_summary"))
}

// TestDraftData fills the test_generation template.
type TestDraftData struct {
	Title       string
	FileList    []string
	FileDetails string
}

// BuildTestDraft renders the draft-test user prompt.
func BuildTestDraft(overrideDir string, d TestDraftData) string {
	var list strings.Builder
	for _, f := range d.FileList {
		fmt.Fprintf(&list, "- `%s`\n", f)
	}
	return strings.NewReplacer(
		"{pr_title}", d.Title,
		"{file_count}", strconv.Itoa(len(d.FileList)),
		"{file_list}", strings.TrimRight(list.String(), "\n"),
		"{file_details}", d.FileDetails,
	).Replace(Template(overrideDir, "test_generation"))
}

// ReleaseNotesData fills the release_notes template.
type ReleaseNotesData struct {
	Tag         string
	PreviousTag string
	CommitCount int
	CommitLog   string
}

// BuildReleaseNotes renders the release-notes user prompt.
func BuildReleaseNotes(overrideDir string, d ReleaseNotesData) string {
	prev := d.PreviousTag
	if prev == "" {
		prev = "(first release)"
	}
	return strings.NewReplacer(
		"{tag}", d.Tag,
		"{previous_tag}", prev,
		"{commit_count}", strconv.Itoa(d.CommitCount),
		"{commit_log}", d.CommitLog,
	).Replace(Template(overrideDir, "release_notes"))
}

// Area names in display order.
var AreaOrder = []string{"Tests", "Configuration", "Documentation", "CI/CD", "Source", "Other"}

var configNames = map[string]bool{
	"go.mod":           true,
	"go.sum":           true,
	"Makefile":         true,
	".gitignore":       true,
	"Dockerfile":       true,
	"package.json":     true,
	"pyproject.toml":   true,
	"requirements.txt": true,
}

// GroupFilesByArea buckets changed paths by rough area. Empty areas are
// omitted from the returned map.
func GroupFilesByArea(paths []string) map[string][]string {
	areas := make(map[string][]string)
	add := func(area, path string) { areas[area] = append(areas[area], path) }

	for _, path := range paths {
		base := filepath.Base(path)
		switch {
		case strings.HasPrefix(path, "tests/") || strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.go"):
			add("Tests", path)
		case strings.HasPrefix(path, ".github/"):
			add("CI/CD", path)
		case strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".rst") || strings.HasSuffix(path, ".txt"):
			add("Documentation", path)
		case configNames[base] ||
			strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") ||
			strings.HasSuffix(path, ".toml") || strings.HasSuffix(path, ".ini") ||
			strings.HasSuffix(path, ".cfg"):
			add("Configuration", path)
		case strings.HasPrefix(path, "src/") || strings.HasPrefix(path, "internal/") || strings.HasPrefix(path, "cmd/") ||
			strings.HasSuffix(path, ".go") || strings.HasSuffix(path, ".py") || strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".ts"):
			add("Source", path)
		default:
			add("Other", path)
		}
	}
	return areas
}

// FormatFilesByArea renders the grouped listing for the summary prompt.
func FormatFilesByArea(paths []string) string {
	areas := GroupFilesByArea(paths)
	var b strings.Builder
	for _, area := range AreaOrder {
		files := areas[area]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n", area)
		for _, f := range files {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
