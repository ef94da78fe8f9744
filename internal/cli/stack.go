package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/prmatehq/prmate/internal/stack"
	"github.com/spf13/cobra"
)

var (
	flagStackRoot  string
	flagMatrixPath string
)

var stackCmd = &cobra.Command{
	Use:   "stack [dir]",
	Short: "Detect the repository's tool stack and resolve CI commands",
	Long: "Stack detects the language stack from marker files (or the tools/stack.yml\n" +
		"lock), resolves the CI commands from the tooling matrix, and prints the\n" +
		"selection as JSON. With GITHUB_OUTPUT set, stack and skip_ci are exported\n" +
		"as step outputs.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := flagStackRoot
		if len(args) == 1 {
			root = args[0]
		}
		exitCode = runStack(root)
		return nil
	},
}

func init() {
	stackCmd.Flags().StringVar(&flagStackRoot, "root", ".", "Repository root to inspect")
	stackCmd.Flags().StringVar(&flagMatrixPath, "matrix", "tools/tooling-matrix.yml", "Tooling matrix file")
}

func runStack(root string) int {
	name, err := stack.Detect(root)
	if err != nil {
		return failCode(err)
	}

	var sel stack.Selection
	matrix, err := stack.LoadMatrix(flagMatrixPath)
	switch {
	case err == nil:
		sel = stack.Select(matrix, name)
	case errors.Is(err, fs.ErrNotExist):
		// No matrix checked in: report detection only.
		sel = stack.Selection{Stack: name, SkipCI: name == "none"}
	default:
		return failCode(err)
	}

	out, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return failCode(err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	if err := writeStepOutputs(map[string]string{
		"stack":   sel.Stack,
		"skip_ci": fmt.Sprintf("%t", sel.SkipCI),
	}); err != nil {
		return failCode(err)
	}
	return ExitSuccess
}

// writeStepOutputs appends key=value lines to the GITHUB_OUTPUT file when
// running under Actions. Outside Actions it is a no-op.
func writeStepOutputs(outputs map[string]string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	for key, value := range outputs {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return fmt.Errorf("writing GITHUB_OUTPUT: %w", err)
		}
	}
	return nil
}
