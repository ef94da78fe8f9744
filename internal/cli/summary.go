package cli

import (
	"context"

	"github.com/prmatehq/prmate/internal/annotate"
	"github.com/prmatehq/prmate/internal/budget"
	"github.com/prmatehq/prmate/internal/config"
	"github.com/prmatehq/prmate/internal/ghapi"
	"github.com/prmatehq/prmate/internal/llm"
	"github.com/prmatehq/prmate/internal/prompt"
	"github.com/prmatehq/prmate/internal/redact"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Post an AI summary comment on a pull request",
	Long: "Summary fetches the pull request's metadata and diff, redacts secrets,\n" +
		"asks the model for a summary, and posts it as a single managed comment\n" +
		"that later runs update in place.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.RequirePR(); err != nil {
			return usageErr(err)
		}
		if !config.HasOpenAIKey() {
			actionsNotice("OPENAI_API_KEY not set; skipping PR summary.")
			return nil
		}
		exitCode = runSummary(cfg)
		return nil
	},
}

func init() {
	addPRFlags(summaryCmd)
}

func runSummary(cfg config.Config) int {
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
	log.Info("fetched pull request",
		zap.String("repo", cfg.Repo),
		zap.Int("pr", cfg.PRNumber),
		zap.Int("files", len(files)))

	changes := toFileChanges(files)
	diff, truncated := budget.RenderDiff(changes, cfg.MaxDiffBytes, cfg.MaxPatchPerFile)
	if truncated {
		log.Info("diff over budget, using compact rendering",
			zap.Int("max_bytes", cfg.MaxDiffBytes))
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Filename
	}

	userPrompt := prompt.BuildSummary(cfg.PromptDir, prompt.SummaryData{
		Title:       pr.Title,
		Body:        redact.Secrets(pr.Body),
		FileCount:   len(files),
		FilesByArea: prompt.FormatFilesByArea(paths),
		DiffContent: redact.Secrets(diff),
	})

	provider, err := llm.NewOpenAI(cfg.Model)
	if err != nil {
		return failCode(err)
	}
	resp, err := provider.Complete(ctx, llm.Request{
		SystemPrompt: prompt.SummarySystem,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return failCode(err)
	}
	log.Info("model responded",
		zap.String("provider", provider.Name()),
		zap.Int("tokens", resp.TokensUsed))

	if err := annotate.Reconcile(ctx, gh, cfg.PRNumber, annotate.SummaryMarker, resp.Content); err != nil {
		return failCode(err)
	}

	actionsNotice("PR summary comment posted.")
	return ExitSuccess
}

func toFileChanges(files []ghapi.PRFile) []budget.FileChange {
	changes := make([]budget.FileChange, len(files))
	for i, f := range files {
		changes[i] = budget.FileChange{
			Path:      f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Patch:     f.Patch,
		}
	}
	return changes
}
