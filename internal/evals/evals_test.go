package evals

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGolden(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden_intent.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGolden(t *testing.T) {
	path := writeGolden(t, `[
		{"id": "q1", "input_text": "what is this?", "expected_intent": "QUESTION"},
		{"id": "r1", "input_text": "please restart it", "expected_intent": "REQUEST"}
	]`)

	cases, err := LoadGolden(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "q1", cases[0].ID)
	assert.Equal(t, "QUESTION", cases[0].ExpectedIntent)
}

func TestLoadGolden_Missing(t *testing.T) {
	_, err := LoadGolden(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadGolden_Empty(t *testing.T) {
	path := writeGolden(t, `[]`)
	_, err := LoadGolden(path)
	assert.ErrorContains(t, err, "empty")
}

func TestRunner_AllPass(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{
		Classify: func(_ context.Context, text string) (string, error) {
			if text == "hello?" {
				return "QUESTION", nil
			}
			return "OTHER", nil
		},
		Out: &out,
	}

	rep := r.Run(context.Background(), []Case{
		{ID: "a", InputText: "hello?", ExpectedIntent: "QUESTION"},
		{ID: "b", InputText: "whatever", ExpectedIntent: "OTHER"},
	})

	assert.True(t, rep.Ok())
	assert.Equal(t, 2, rep.Passed)
	assert.Equal(t, 0, rep.Failed)
	assert.NotEmpty(t, rep.RunID)
	assert.Contains(t, out.String(), "a: QUESTION == QUESTION")
}

func TestRunner_FailureRecorded(t *testing.T) {
	r := &Runner{
		Classify: func(_ context.Context, _ string) (string, error) { return "OTHER", nil },
	}

	rep := r.Run(context.Background(), []Case{
		{ID: "a", InputText: "hello?", ExpectedIntent: "QUESTION"},
	})

	assert.False(t, rep.Ok())
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "OTHER", rep.Results[0].Actual)
}

func TestRunner_ClassifierErrorIsFailure(t *testing.T) {
	r := &Runner{
		Classify: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("model unreachable")
		},
	}

	rep := r.Run(context.Background(), []Case{{ID: "a", InputText: "x", ExpectedIntent: "OTHER"}})

	assert.Equal(t, 1, rep.Failed)
	assert.Contains(t, rep.Results[0].Actual, "ERROR:")
}

func TestRunner_PerTestDeadline(t *testing.T) {
	r := &Runner{
		PerTestTimeout: 20 * time.Millisecond,
		Classify: func(ctx context.Context, _ string) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
				return "OTHER", nil
			}
		},
	}

	start := time.Now()
	rep := r.Run(context.Background(), []Case{{ID: "slow", InputText: "x", ExpectedIntent: "OTHER"}})

	assert.Less(t, time.Since(start), 500*time.Millisecond, "per-test deadline did not fire")
	assert.Equal(t, 1, rep.Failed)
	assert.Contains(t, rep.Results[0].Actual, "TIMEOUT")
}

func TestRunner_CumulativeBudgetAbortsRemainder(t *testing.T) {
	r := &Runner{
		TotalTimeout: 30 * time.Millisecond,
		Classify: func(_ context.Context, _ string) (string, error) {
			time.Sleep(25 * time.Millisecond)
			return "OTHER", nil
		},
	}

	cases := make([]Case, 5)
	for i := range cases {
		cases[i] = Case{ID: "c", InputText: "x", ExpectedIntent: "OTHER"}
	}

	rep := r.Run(context.Background(), cases)

	assert.True(t, rep.TimedOut)
	assert.False(t, rep.Ok())
	assert.Greater(t, rep.Skipped, 0)
	assert.Less(t, len(rep.Results), 5)
	// Already-dispatched cases keep their results.
	assert.Equal(t, rep.Passed, len(rep.Results))
}
