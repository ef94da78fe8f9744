package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is where the CI workflow expects the draft-tests artifact.
const DefaultPath = "artifacts/draft_tests.md"

const footer = "*Generated by AI Test Draft Bot. These are suggestions only - review and adapt before use.*"

// WriteDraftTests writes the full model output as a Markdown artifact:
// header, files-analyzed list, the body between horizontal rules, and a
// fixed disclaimer footer. The document is for humans; nothing re-parses it.
func WriteDraftTests(path, prTitle string, files []string, body string) error {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	var list strings.Builder
	for _, f := range files {
		fmt.Fprintf(&list, "- `%s`\n", f)
	}

	content := fmt.Sprintf(`# Draft Test Suggestions

## PR: %s

**Files analyzed:** %d

### Files Touched
%s
---

%s

---

%s
`, prTitle, len(files), list.String(), body, footer)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// BuildCommentSummary condenses the full model output into a PR comment:
// the file list (capped at ten) plus up to two sample code blocks, long
// blocks truncated. The complete output lives in the artifact.
func BuildCommentSummary(prTitle string, files []string, body string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Draft Test Suggestions\n\n")
	fmt.Fprintf(&b, "**PR:** %s\n", prTitle)
	fmt.Fprintf(&b, "**Files analyzed:** %d\n\n", len(files))
	b.WriteString("### Files Covered\n")

	for i, f := range files {
		if i == 10 {
			fmt.Fprintf(&b, "- ... and %d more\n", len(files)-10)
			break
		}
		fmt.Fprintf(&b, "- `%s`\n", f)
	}

	b.WriteString("\n### Sample Test Suggestions\n\n")

	blocks := extractCodeBlocks(body)
	if len(blocks) == 0 {
		b.WriteString("See the workflow artifact for the full suggestions.\n")
		return b.String()
	}

	for i, block := range blocks {
		if i == 2 {
			break
		}
		b.WriteString(truncateBlock(block))
		b.WriteString("\n\n")
	}

	b.WriteString("_Full suggestions are attached as a workflow artifact._\n")
	return b.String()
}

// extractCodeBlocks pulls fenced code blocks with a language tag out of
// markdown text.
func extractCodeBlocks(text string) []string {
	var blocks []string
	var current []string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case !inBlock && strings.HasPrefix(stripped, "```") && len(stripped) > 3:
			inBlock = true
			current = []string{line}
		case inBlock && stripped == "```":
			current = append(current, line)
			blocks = append(blocks, strings.Join(current, "\n"))
			inBlock = false
			current = nil
		case inBlock:
			current = append(current, line)
		}
	}
	return blocks
}

func truncateBlock(block string) string {
	if len(block) <= 800 {
		return block
	}
	lines := strings.Split(block, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "```") {
		out += "\n// ... (truncated)\n```"
	}
	return out
}
