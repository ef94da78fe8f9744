package redact

import "regexp"

// A rule pairs a secret-shaped pattern with its replacement. Rules are
// applied in declaration order and each rule sees the output of the one
// before it, so a substring is claimed by the first rule that matches and
// its placeholder is never re-matched by a later, more specific rule.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules is the fixed redaction cascade. Order is part of the contract:
// reordering changes which category placeholder a given secret receives.
var rules = []rule{
	// AWS access key IDs (fixed AKIA prefix + 16 uppercase alphanumerics)
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "[REDACTED_AWS_KEY]"},
	// Generic key-like assignments: keyword, separator, then a long token.
	// The keyword and separator survive so a reviewer can see what was set.
	{regexp.MustCompile(`(?i)((?:api[_-]?key|secret|token|password|auth|credential|private[_-]?key)\s*[:=]\s*['"]?)([A-Za-z0-9_\-]{20,})`), "${1}[REDACTED]"},
	// Environment variable assignments with sensitive names; the whole
	// right-hand side goes, the NAME= stays.
	{regexp.MustCompile(`(?im)^(\s*(?:export\s+)?(?:API_KEY|SECRET|TOKEN|PASSWORD|AUTH|CREDENTIAL|PRIVATE_KEY|ACCESS_KEY|DATABASE_URL|DB_PASSWORD)[A-Z_]*\s*=\s*).+$`), "${1}[REDACTED]"},
	// Bearer authorization tokens
	{regexp.MustCompile(`(?i)(Bearer\s+)[A-Za-z0-9_\-.]{20,}`), "${1}[REDACTED]"},
	// GitHub tokens; the ghp_/ghs_ prefix stays so the token kind is visible
	{regexp.MustCompile(`(gh[ps]_)[A-Za-z0-9]{36,}`), "${1}[REDACTED]"},
	// Long quoted hex literals (40+ chars)
	{regexp.MustCompile(`['"][A-Fa-f0-9]{40,}['"]`), `"[REDACTED_HEX]"`},
	// sk- prefixed API keys (OpenAI, Stripe, ...), including the sk-proj-,
	// sk-live-, sk-test- variants
	{regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`), "[REDACTED_SK_KEY]"},
	// JWT-like tokens: three base64url segments, the first two carrying the
	// JSON header prefix. Segments must be 10+ chars to avoid false positives.
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`), "[REDACTED_JWT]"},
	// PEM private key blocks, matched non-greedily across lines
	{regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`), "[REDACTED_PEM_KEY]"},
}

// Secrets replaces secret-shaped substrings with category placeholders.
// It is pure and total: clean input comes back byte-identical, and the
// function is idempotent because no placeholder re-matches an earlier rule.
func Secrets(text string) string {
	out := text
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}
	return out
}
