// Package config resolves runtime settings from built-in defaults and
// environment variables. GitHub identifiers (GITHUB_TOKEN, REPO, PR_NUMBER)
// come from the CI environment; PRMATE_* variables override tunables.
package config
