package budget

import (
	"fmt"
	"strings"
)

// FileChange describes one changed file from a pull-request file listing.
// Patch is empty when the source had none (binary or oversized file).
type FileChange struct {
	Path      string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

const noPatchNote = "*(no patch available; possibly binary or too large)*"

// RenderDiff renders the full patch of every file in order. If the total
// exceeds maxTotal the full rendering is discarded and replaced with a
// compact per-file rendering: a summary line plus a patch excerpt capped at
// perFileCap, under the same overall budget. The bool reports whether the
// compact path was taken.
//
// Notice lines (the leading truncation note and the trailing omitted-files
// note) are fixed-size bookkeeping and are not counted against the budget.
// Neither are the single newline separators joining the blocks.
func RenderDiff(files []FileChange, maxTotal, perFileCap int) (string, bool) {
	var full []string
	for _, f := range files {
		if f.Patch != "" {
			full = append(full, fmt.Sprintf("### %s\n```diff\n%s\n```\n", f.Path, f.Patch))
		} else {
			full = append(full, fmt.Sprintf("### %s\n%s\n", f.Path, noPatchNote))
		}
	}

	rendered := strings.Join(full, "\n")
	if len(rendered) <= maxTotal {
		return rendered, false
	}

	parts := []string{"**Note: Diff truncated due to size.**\n"}
	total := 0
	for i, f := range files {
		var block string
		if f.Patch != "" {
			excerpt := f.Patch
			if len(excerpt) > perFileCap {
				excerpt = excerpt[:perFileCap] + "\n... (truncated)"
			}
			block = fmt.Sprintf("- `%s` (%s: +%d/-%d)\n```diff\n%s\n```\n",
				f.Path, f.Status, f.Additions, f.Deletions, excerpt)
		} else {
			block = fmt.Sprintf("- `%s` (%s: +%d/-%d) %s\n",
				f.Path, f.Status, f.Additions, f.Deletions, noPatchNote)
		}

		if total+len(block) > maxTotal {
			parts = append(parts, fmt.Sprintf("\n**Note:** %d additional files omitted due to size constraints.\n", len(files)-i))
			break
		}
		parts = append(parts, block)
		total += len(block)
	}

	return strings.Join(parts, "\n"), true
}

// RenderFileContext walks files in order, rendering each with a patch
// excerpt capped at perFileCap and accumulating toward maxTotal. The moment
// the next block would exceed the budget it appends a note counting the
// omitted files and stops; blocks already accepted are never re-trimmed.
// Only block bytes count toward the budget, not the joining newlines or the
// trailing note. The returned slice lists the paths that made it in, in
// input order.
func RenderFileContext(files []FileChange, perFileCap, maxTotal int) (string, []string) {
	var parts []string
	var included []string
	total := 0

	for i, f := range files {
		var b strings.Builder
		fmt.Fprintf(&b, "### %s\n", f.Path)
		fmt.Fprintf(&b, "**Status**: %s (+%d/-%d)\n\n", f.Status, f.Additions, f.Deletions)

		if f.Patch != "" {
			excerpt := f.Patch
			if len(excerpt) > perFileCap {
				excerpt = excerpt[:perFileCap] + "\n... (truncated)"
			}
			fmt.Fprintf(&b, "```diff\n%s\n```\n", excerpt)
		} else {
			b.WriteString(noPatchNote + "\n")
		}

		block := b.String()
		if total+len(block) > maxTotal {
			parts = append(parts, fmt.Sprintf("\n**Note:** %d additional files omitted due to size constraints.\n", len(files)-i))
			break
		}

		parts = append(parts, block)
		included = append(included, f.Path)
		total += len(block)
	}

	return strings.Join(parts, "\n"), included
}
