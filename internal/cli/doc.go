// Package cli wires the prmate subcommands: summary, testdraft, relnotes,
// evals, stack, and version. Handlers report failures as GitHub Actions
// workflow annotations and map them to deterministic exit codes.
package cli
