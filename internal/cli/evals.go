package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prmatehq/prmate/internal/config"
	"github.com/prmatehq/prmate/internal/evals"
	"github.com/prmatehq/prmate/internal/intent"
	"github.com/prmatehq/prmate/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagGoldenFile     string
	flagPerTestTimeout time.Duration
	flagTotalTimeout   time.Duration
)

var evalsCmd = &cobra.Command{
	Use:   "evals",
	Short: "Run the intent classifier against the golden set",
	Long: "Evals replays the golden cases through the live intent classifier. Each\n" +
		"case runs under a per-test deadline and the whole run under a total\n" +
		"budget; a failed or timed-out run exits 1.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if flagGoldenFile != "" {
			cfg.GoldenFile = flagGoldenFile
		}
		if !config.HasOpenAIKey() {
			actionsNotice("OPENAI_API_KEY not set; skipping intent evals.")
			return nil
		}
		exitCode = runEvals(cfg)
		return nil
	},
}

func init() {
	evalsCmd.Flags().StringVar(&flagModel, "model", "", "Model name (default: $PRMATE_MODEL or gpt-4o-mini)")
	evalsCmd.Flags().StringVar(&flagGoldenFile, "golden", "", "Golden cases file (default: evals/golden_intent.json)")
	evalsCmd.Flags().DurationVar(&flagPerTestTimeout, "per-test-timeout", evals.DefaultPerTestTimeout, "Deadline for each case")
	evalsCmd.Flags().DurationVar(&flagTotalTimeout, "total-timeout", evals.DefaultTotalTimeout, "Budget for the whole run")
}

func runEvals(cfg config.Config) int {
	ctx := context.Background()
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	cases, err := evals.LoadGolden(cfg.GoldenFile)
	if err != nil {
		return failCode(err)
	}

	provider, err := llm.NewOpenAI(cfg.Model)
	if err != nil {
		return failCode(err)
	}

	runner := evals.Runner{
		PerTestTimeout: flagPerTestTimeout,
		TotalTimeout:   flagTotalTimeout,
		Out:            os.Stdout,
		Classify: func(ctx context.Context, text string) (string, error) {
			label, err := intent.Classify(ctx, provider, text)
			return string(label), err
		},
	}

	log.Info("starting eval run",
		zap.Int("cases", len(cases)),
		zap.String("model", cfg.Model))
	report := runner.Run(ctx, cases)

	fmt.Fprintf(os.Stdout, "\nrun %s: %d passed, %d failed, %d skipped in %.1fs\n",
		report.RunID, report.Passed, report.Failed, report.Skipped, report.Elapsed.Seconds())

	if !report.Ok() {
		if report.TimedOut {
			actionsError("Eval run exceeded the total time budget.")
		} else {
			actionsError("%d eval case(s) failed.", report.Failed)
		}
		return ExitEvalFailure
	}

	actionsNotice("All %d eval case(s) passed.", report.Passed)
	return ExitSuccess
}
