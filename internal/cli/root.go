package cli

import (
	"fmt"
	"os"

	"github.com/prmatehq/prmate/internal/config"
	"github.com/prmatehq/prmate/internal/ghapi"
	"github.com/prmatehq/prmate/internal/llm"
	"github.com/prmatehq/prmate/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.3.0"

// Exit codes. Skips (missing API key, nothing to do) are successes: the
// workflow must stay green when a tool deliberately stands down.
const (
	ExitSuccess      = 0
	ExitEvalFailure  = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "prmate",
	Short: "AI-assisted pull request automation for CI",
	Long: "Prmate runs inside CI workflows: it summarizes pull requests, drafts tests,\n" +
		"writes release notes, evaluates the intent classifier, and detects the repo's\n" +
		"tool stack. Secrets are redacted before anything reaches a model.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(testdraftCmd)
	rootCmd.AddCommand(relnotesCmd)
	rootCmd.AddCommand(evalsCmd)
	rootCmd.AddCommand(stackCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print prmate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "prmate version %s\n", version)
	},
}

// Shared identifier flags. Environment variables fill the defaults; flags
// override.
var (
	flagRepo  string
	flagPR    int
	flagModel string
)

func addGitHubFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repository in owner/name form (default: $REPO)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name (default: $PRMATE_MODEL or gpt-4o-mini)")
}

func addPRFlags(cmd *cobra.Command) {
	addGitHubFlags(cmd)
	cmd.Flags().IntVar(&flagPR, "pr", 0, "Pull request number (default: $PR_NUMBER)")
}

func loadConfig() config.Config {
	cfg := config.Load()
	if flagRepo != "" {
		cfg.Repo = flagRepo
	}
	if flagPR > 0 {
		cfg.PRNumber = flagPR
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	return cfg
}

func newLogger(cfg config.Config) *zap.Logger {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		log, _ = logging.New("info")
	}
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// actionsNotice and actionsError emit GitHub Actions workflow commands. They
// go to stderr so stdout stays machine-readable (stack JSON, eval tables);
// the Actions runner scans both streams for commands.
func actionsNotice(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "::notice::"+format+"\n", args...)
}

func actionsError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "::error::"+format+"\n", args...)
}

// usageErr reports a configuration error as a workflow annotation before
// handing it back to cobra for the usage exit path.
func usageErr(err error) error {
	actionsError("%v", err)
	return err
}

// failCode maps an error to an exit code, reporting it as a workflow
// annotation on the way out.
func failCode(err error) int {
	actionsError("%v", err)
	if ghapi.IsAuthError(err) || llm.IsAuthError(err) {
		return ExitAuthError
	}
	return ExitRuntimeError
}
