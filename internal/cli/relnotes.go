package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prmatehq/prmate/internal/config"
	"github.com/prmatehq/prmate/internal/ghapi"
	"github.com/prmatehq/prmate/internal/llm"
	"github.com/prmatehq/prmate/internal/prompt"
	"github.com/prmatehq/prmate/internal/redact"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var relnotesCmd = &cobra.Command{
	Use:   "relnotes [tag]",
	Short: "Draft release notes for a tag",
	Long: "Relnotes collects the commits since the previous tag, asks the model for\n" +
		"release notes, and saves them on a draft release for the tag. Re-running\n" +
		"updates the same draft. The tag defaults to $GITHUB_REF_NAME.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.RequireRepo(); err != nil {
			return usageErr(err)
		}

		tag := os.Getenv("GITHUB_REF_NAME")
		if len(args) == 1 {
			tag = args[0]
		}
		if tag == "" {
			return usageErr(fmt.Errorf("no tag given and GITHUB_REF_NAME is not set"))
		}

		if !config.HasOpenAIKey() {
			actionsNotice("OPENAI_API_KEY not set; skipping release notes.")
			return nil
		}
		exitCode = runRelnotes(cfg, tag)
		return nil
	},
}

func init() {
	addGitHubFlags(relnotesCmd)
}

func runRelnotes(cfg config.Config, tag string) int {
	ctx := context.Background()
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	gh, err := ghapi.NewClient(cfg.Repo)
	if err != nil {
		return failCode(err)
	}

	prev, err := gh.PreviousTag(ctx, tag)
	if err != nil {
		return failCode(err)
	}

	var commits []ghapi.Commit
	var total int
	if prev != "" {
		commits, total, err = gh.CompareCommits(ctx, prev, tag)
	} else {
		commits, err = gh.ListCommits(ctx, tag, cfg.MaxCommits)
		total = len(commits)
	}
	if err != nil {
		return failCode(err)
	}
	log.Info("collected commits",
		zap.String("tag", tag),
		zap.String("previous", prev),
		zap.Int("total", total))

	if len(commits) == 0 {
		actionsNotice("No commits found for %s; skipping release notes.", tag)
		return ExitSuccess
	}
	// Compare order is oldest first; keep the newest MaxCommits.
	if len(commits) > cfg.MaxCommits {
		commits = commits[len(commits)-cfg.MaxCommits:]
	}

	commitLog, err := buildCommitLog(ctx, gh, commits)
	if err != nil {
		return failCode(err)
	}

	userPrompt := prompt.BuildReleaseNotes(cfg.PromptDir, prompt.ReleaseNotesData{
		Tag:         tag,
		PreviousTag: prev,
		CommitCount: total,
		CommitLog:   redact.Secrets(commitLog),
	})

	provider, err := llm.NewOpenAI(cfg.Model)
	if err != nil {
		return failCode(err)
	}
	resp, err := provider.Complete(ctx, llm.Request{
		SystemPrompt: prompt.ReleaseNotesSystem,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return failCode(err)
	}
	log.Info("model responded",
		zap.String("provider", provider.Name()),
		zap.Int("tokens", resp.TokensUsed))

	existing, err := gh.FindReleaseByTag(ctx, tag)
	if err != nil {
		return failCode(err)
	}
	if existing != nil {
		if err := gh.UpdateRelease(ctx, existing.ID, tag, resp.Content); err != nil {
			return failCode(err)
		}
		actionsNotice("Release notes updated on existing release for %s.", tag)
		return ExitSuccess
	}
	if err := gh.CreateDraftRelease(ctx, tag, tag, resp.Content); err != nil {
		return failCode(err)
	}
	actionsNotice("Draft release created for %s.", tag)
	return ExitSuccess
}

// buildCommitLog renders one line per commit: short SHA, first message line,
// and the PR reference when the commit landed through one.
func buildCommitLog(ctx context.Context, gh *ghapi.Client, commits []ghapi.Commit) (string, error) {
	var b strings.Builder
	for _, c := range commits {
		subject, _, _ := strings.Cut(c.Commit.Message, "\n")
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}

		prs, err := gh.PullsForCommit(ctx, c.SHA)
		if err != nil {
			return "", err
		}
		if len(prs) > 0 {
			fmt.Fprintf(&b, "- %s %s (#%d)\n", sha, subject, prs[0].Number)
		} else {
			fmt.Fprintf(&b, "- %s %s\n", sha, subject)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
