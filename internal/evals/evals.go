package evals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Defaults mirror the CI configuration: generous per test, five minutes for
// the whole run.
const (
	DefaultPerTestTimeout = 30 * time.Second
	DefaultTotalTimeout   = 5 * time.Minute
)

// Case is one golden record.
type Case struct {
	ID             string `json:"id"`
	InputText      string `json:"input_text"`
	ExpectedIntent string `json:"expected_intent"`
}

// LoadGolden reads the golden file. A missing or empty file is an error:
// an eval run that silently checks nothing is worse than a failing one.
func LoadGolden(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading golden file: %w", err)
	}

	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parsing golden file: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("golden file %s is empty", path)
	}
	return cases, nil
}

// Classifier is the unit of work under evaluation. It must honor ctx
// cancellation; the runner imposes the per-test deadline through it.
type Classifier func(ctx context.Context, text string) (string, error)

// Result records the outcome of one case.
type Result struct {
	ID       string
	Passed   bool
	Actual   string
	Expected string
}

// Report summarizes a full run.
type Report struct {
	RunID    string
	Results  []Result
	Passed   int
	Failed   int
	Skipped  int // cases never started because the total budget ran out
	TimedOut bool
	Elapsed  time.Duration
}

// Runner drives the golden set against a classifier under two independent
// deadlines: a per-test deadline passed into each unit of work via context,
// and a cumulative wall-clock budget checked before dispatching each case.
// Cancellation is time-based only; there is no signal handling.
type Runner struct {
	PerTestTimeout time.Duration
	TotalTimeout   time.Duration
	Classify       Classifier
	Out            io.Writer
}

var (
	passTag = color.New(color.FgGreen).Sprint("[PASS]")
	failTag = color.New(color.FgRed).Sprint("[FAIL]")
)

// Run executes every case in order, printing one line per case. It never
// returns an error: failures and timeouts are reported in the Report and
// the caller decides the exit code.
func (r *Runner) Run(ctx context.Context, cases []Case) Report {
	perTest := r.PerTestTimeout
	if perTest <= 0 {
		perTest = DefaultPerTestTimeout
	}
	total := r.TotalTimeout
	if total <= 0 {
		total = DefaultTotalTimeout
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	report := Report{RunID: uuid.NewString()}
	start := time.Now()

	for i, c := range cases {
		if time.Since(start) > total {
			report.TimedOut = true
			report.Skipped = len(cases) - i
			fmt.Fprintf(out, "total timeout exceeded (%s), aborting %d remaining case(s)\n", total, report.Skipped)
			break
		}

		res := r.runOne(ctx, perTest, c)
		report.Results = append(report.Results, res)
		if res.Passed {
			report.Passed++
			fmt.Fprintf(out, "%s %s: %s == %s\n", passTag, res.ID, res.Actual, res.Expected)
		} else {
			report.Failed++
			fmt.Fprintf(out, "%s %s: got %s, expected %s\n", failTag, res.ID, res.Actual, res.Expected)
		}
	}

	report.Elapsed = time.Since(start)
	return report
}

func (r *Runner) runOne(ctx context.Context, perTest time.Duration, c Case) Result {
	testCtx, cancel := context.WithTimeout(ctx, perTest)
	defer cancel()

	actual, err := r.Classify(testCtx, c.InputText)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		actual = fmt.Sprintf("TIMEOUT (>%s)", perTest)
	case err != nil:
		actual = fmt.Sprintf("ERROR: %v", err)
	}

	return Result{
		ID:       c.ID,
		Passed:   err == nil && actual == c.ExpectedIntent,
		Actual:   actual,
		Expected: c.ExpectedIntent,
	}
}

// Ok reports whether the run completed within budget with every case passing.
func (rep Report) Ok() bool {
	return !rep.TimedOut && rep.Failed == 0
}
