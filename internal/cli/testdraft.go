package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prmatehq/prmate/internal/annotate"
	"github.com/prmatehq/prmate/internal/artifact"
	"github.com/prmatehq/prmate/internal/budget"
	"github.com/prmatehq/prmate/internal/config"
	"github.com/prmatehq/prmate/internal/ghapi"
	"github.com/prmatehq/prmate/internal/llm"
	"github.com/prmatehq/prmate/internal/prompt"
	"github.com/prmatehq/prmate/internal/redact"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagArtifactPath string

var testdraftCmd = &cobra.Command{
	Use:   "testdraft",
	Short: "Draft tests for a pull request's changed source files",
	Long: "Testdraft selects the source files a pull request changes, asks the model\n" +
		"for test suggestions, writes the full output to a workflow artifact, and\n" +
		"posts a condensed version as a managed PR comment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if flagArtifactPath != "" {
			cfg.ArtifactPath = flagArtifactPath
		}
		if err := cfg.RequirePR(); err != nil {
			return usageErr(err)
		}
		if !config.HasOpenAIKey() {
			actionsNotice("OPENAI_API_KEY not set; skipping test draft.")
			return nil
		}
		exitCode = runTestDraft(cfg)
		return nil
	},
}

func init() {
	addPRFlags(testdraftCmd)
	testdraftCmd.Flags().StringVar(&flagArtifactPath, "artifact", "", "Artifact output path (default: artifacts/draft_tests.md)")
}

func runTestDraft(cfg config.Config) int {
	ctx := context.Background()
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	gh, err := ghapi.NewClient(cfg.Repo)
	if err != nil {
		return failCode(err)
	}

	pr, err := gh.GetPR(ctx, cfg.PRNumber)
	if err != nil {
		return failCode(err)
	}
	files, err := gh.ListPRFiles(ctx, cfg.PRNumber)
	if err != nil {
		return failCode(err)
	}

	relevant := filterRelevant(files, cfg.Include, cfg.Exclude)
	log.Info("selected source files",
		zap.Int("changed", len(files)),
		zap.Int("relevant", len(relevant)))
	if len(relevant) == 0 {
		actionsNotice("No relevant source files changed; skipping test draft.")
		return ExitSuccess
	}

	details, included := budget.RenderFileContext(toFileChanges(relevant), cfg.MaxPatchContext, cfg.MaxContextBytes)

	userPrompt := prompt.BuildTestDraft(cfg.PromptDir, prompt.TestDraftData{
		Title:       pr.Title,
		FileList:    included,
		FileDetails: redact.Secrets(details),
	})

	provider, err := llm.NewOpenAI(cfg.Model)
	if err != nil {
		return failCode(err)
	}
	resp, err := provider.Complete(ctx, llm.Request{
		SystemPrompt: prompt.TestDraftSystem,
		UserPrompt:   userPrompt,
		MaxTokens:    2000,
	})
	if err != nil {
		return failCode(err)
	}
	log.Info("model responded",
		zap.String("provider", provider.Name()),
		zap.Int("tokens", resp.TokensUsed))

	if err := artifact.WriteDraftTests(cfg.ArtifactPath, pr.Title, included, resp.Content); err != nil {
		return failCode(err)
	}

	comment := artifact.BuildCommentSummary(pr.Title, included, resp.Content)
	if err := annotate.Reconcile(ctx, gh, cfg.PRNumber, annotate.TestDraftMarker, comment); err != nil {
		return failCode(err)
	}

	actionsNotice("Test draft posted for %d file(s).", len(included))
	return ExitSuccess
}

// sourceExts are the extensions treated as testable source when no include
// patterns are configured.
var sourceExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".tsx": true,
	".java": true, ".rb": true, ".rs": true, ".c": true, ".cc": true,
	".cpp": true, ".h": true, ".cs": true, ".kt": true,
}

// filterRelevant keeps the files worth drafting tests for: not removed,
// matching the include patterns (or a source extension when none are set),
// and not matching any exclude pattern.
func filterRelevant(files []ghapi.PRFile, include, exclude []string) []ghapi.PRFile {
	var out []ghapi.PRFile
	for _, f := range files {
		if f.Status == "removed" {
			continue
		}
		if len(include) > 0 {
			if !matchAny(include, f.Filename) {
				continue
			}
		} else if !sourceExts[filepath.Ext(f.Filename)] {
			continue
		}
		if matchAny(exclude, f.Filename) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchAny tests path against glob patterns. filepath.Match has no "**", so
// patterns with a "**/" prefix also match against the basename and every
// path suffix.
func matchAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		trimmed, hadPrefix := strings.CutPrefix(pat, "**/")
		if !hadPrefix {
			continue
		}
		if ok, _ := filepath.Match(trimmed, base); ok {
			return true
		}
		rest := path
		for {
			if ok, _ := filepath.Match(trimmed, rest); ok {
				return true
			}
			i := strings.Index(rest, "/")
			if i < 0 {
				break
			}
			rest = rest[i+1:]
		}
	}
	return false
}
