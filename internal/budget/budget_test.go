package budget

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkFiles(n, patchLen int) []FileChange {
	files := make([]FileChange, n)
	for i := range files {
		files[i] = FileChange{
			Path:      fmt.Sprintf("pkg/file%d.go", i),
			Status:    "modified",
			Additions: i + 1,
			Deletions: i,
			Patch:     strings.Repeat("x", patchLen),
		}
	}
	return files
}

func TestRenderDiff_FitsWithinLimit(t *testing.T) {
	files := mkFiles(2, 50)

	out, truncated := RenderDiff(files, 10000, 500)
	assert.False(t, truncated)
	assert.Contains(t, out, "### pkg/file0.go")
	assert.Contains(t, out, "### pkg/file1.go")
	assert.NotContains(t, out, "truncated")
}

func TestRenderDiff_TruncationFlagIffOverLimit(t *testing.T) {
	files := mkFiles(3, 200)

	full, truncated := RenderDiff(files, 1000000, 500)
	require.False(t, truncated)

	// Shrink the limit to just under the full rendering: flag must flip.
	_, truncated = RenderDiff(files, len(full)-1, 500)
	assert.True(t, truncated)

	_, truncated = RenderDiff(files, len(full), 500)
	assert.False(t, truncated)
}

func TestRenderDiff_CompactModeCapsExcerpts(t *testing.T) {
	files := mkFiles(2, 800)

	out, truncated := RenderDiff(files, 300, 50)
	require.True(t, truncated)
	assert.Contains(t, out, "**Note: Diff truncated due to size.**")
	assert.Contains(t, out, "... (truncated)")
	assert.Contains(t, out, "- `pkg/file0.go` (modified: +1/-0)")
}

func TestRenderDiff_NoPatchRenderedAsNote(t *testing.T) {
	files := []FileChange{{Path: "image.png", Status: "added", Additions: 0, Deletions: 0}}

	out, truncated := RenderDiff(files, 10000, 500)
	assert.False(t, truncated)
	assert.Contains(t, out, "### image.png")
	assert.Contains(t, out, "no patch available")
}

func TestRenderDiff_OrderPreserved(t *testing.T) {
	files := []FileChange{
		{Path: "z.go", Status: "modified", Patch: "zz"},
		{Path: "a.go", Status: "modified", Patch: "aa"},
		{Path: "m.go", Status: "modified", Patch: "mm"},
	}

	out, _ := RenderDiff(files, 10000, 500)
	zi := strings.Index(out, "z.go")
	ai := strings.Index(out, "a.go")
	mi := strings.Index(out, "m.go")
	require.True(t, zi >= 0 && ai >= 0 && mi >= 0)
	assert.True(t, zi < ai && ai < mi, "input order not preserved: %d %d %d", zi, ai, mi)
}

func TestRenderDiff_CompactModeAccountsForEveryFile(t *testing.T) {
	files := mkFiles(10, 400)

	out, truncated := RenderDiff(files, 600, 100)
	require.True(t, truncated)

	listed := strings.Count(out, "- `pkg/file")
	if listed < 10 {
		assert.Contains(t, out, fmt.Sprintf("**Note:** %d additional files omitted", 10-listed))
	}
}

func TestRenderFileContext_StopsAtBudget(t *testing.T) {
	files := mkFiles(5, 200)

	out, included := RenderFileContext(files, 1000, 500)
	require.Less(t, len(included), 5)
	assert.Contains(t, out, fmt.Sprintf("**Note:** %d additional files omitted due to size constraints.", 5-len(included)))

	// Included files keep input order from the front of the sequence.
	for i, path := range included {
		assert.Equal(t, fmt.Sprintf("pkg/file%d.go", i), path)
	}
}

func TestRenderFileContext_AllFitNoNote(t *testing.T) {
	files := mkFiles(3, 50)

	out, included := RenderFileContext(files, 500, 100000)
	assert.Len(t, included, 3)
	assert.NotContains(t, out, "omitted")
}

func TestRenderFileContext_PerFileCap(t *testing.T) {
	files := mkFiles(1, 5000)

	out, included := RenderFileContext(files, 100, 100000)
	require.Len(t, included, 1)
	assert.Contains(t, out, "... (truncated)")
	assert.NotContains(t, out, strings.Repeat("x", 200))
}

func TestRenderFileContext_Deterministic(t *testing.T) {
	files := mkFiles(7, 333)

	a, incA := RenderFileContext(files, 250, 1200)
	b, incB := RenderFileContext(files, 250, 1200)
	assert.Equal(t, a, b)
	assert.Equal(t, incA, incB)
}

func TestRenderFileContext_NoPatchPlaceholder(t *testing.T) {
	files := []FileChange{{Path: "bin.dat", Status: "added"}}

	out, included := RenderFileContext(files, 100, 10000)
	assert.Equal(t, []string{"bin.dat"}, included)
	assert.Contains(t, out, "no patch available")
}
