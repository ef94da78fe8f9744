// Prmate is a CI-oriented CLI for AI-assisted pull request automation.
//
// It summarizes pull requests, drafts tests for changed source files, writes
// release notes for tags, replays the intent classifier against a golden set,
// and detects the repository's tool stack for workflow routing. Diffs and
// commit logs are redacted before they reach a model, and each tool posts at
// most one managed comment that later runs update in place.
//
// Usage:
//
//	prmate summary --pr 42            # post an AI summary comment
//	prmate testdraft --pr 42          # draft tests + workflow artifact
//	prmate relnotes v1.4.0            # draft release notes for a tag
//	prmate evals                      # run the intent classifier evals
//	prmate stack                      # detect the tool stack, emit JSON
//
// Identifiers default to the Actions environment: REPO, PR_NUMBER,
// GITHUB_TOKEN, GITHUB_REF_NAME, and OPENAI_API_KEY. A missing OPENAI_API_KEY
// is a deliberate skip with exit code 0, never a failure.
package main
