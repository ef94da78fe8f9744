// Package redact masks secrets in text before it leaves the trust boundary,
// whether that is an LLM provider or a public pull-request comment.
//
// Detection is an ordered regex cascade covering common secret shapes: AWS
// access key IDs, key-like assignments, sensitive environment variables,
// bearer tokens, GitHub tokens, long quoted hex literals, sk- prefixed API
// keys, JWTs, and PEM private key blocks. Each category gets its own
// placeholder so reviewers can tell what kind of secret was caught without
// seeing its value.
//
// This is a heuristic filter, not a secret scanner: there is no entropy
// analysis and no guarantee of perfect detection.
package redact
