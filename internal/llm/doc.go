// Package llm abstracts the chat-completion provider behind the Completer
// interface. The OpenAI implementation handles transport concerns only:
// request shaping, typed auth errors, and bounded retry on rate limits.
// Validation of model output belongs to callers.
package llm
