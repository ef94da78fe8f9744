package llm

import "context"

// Request is one chat completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response is the raw model output.
type Response struct {
	Content    string
	TokensUsed int
}

// Completer is the provider abstraction. Complete blocks until the provider
// answers or the request times out; there is no streaming.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}
