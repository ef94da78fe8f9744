package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prmatehq/prmate/internal/llm"
)

// Label is one of the closed set of classification labels.
type Label string

const (
	Question  Label = "QUESTION"
	Request   Label = "REQUEST"
	Complaint Label = "COMPLAINT"
	Other     Label = "OTHER"
)

// Labels lists every valid label.
var Labels = []Label{Question, Request, Complaint, Other}

// Valid reports whether l is in the closed label set.
func (l Label) Valid() bool {
	for _, allowed := range Labels {
		if l == allowed {
			return true
		}
	}
	return false
}

const systemPrompt = `You are an intent classifier. Classify the user's message into exactly one of these categories:
- QUESTION: The user is asking a question or seeking information
- REQUEST: The user is asking for an action to be performed
- COMPLAINT: The user is expressing dissatisfaction or a problem
- OTHER: The message doesn't fit the above categories

Respond with ONLY the category name in uppercase (QUESTION, REQUEST, COMPLAINT, or OTHER).
Do not include any other text, punctuation, or explanation.`

// InvalidLabelError reports that the model answered with something outside
// the closed label set. It is distinct from transport failures so callers
// can tell "model produced invalid output" from "service unreachable".
type InvalidLabelError struct {
	Got string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid intent %q returned by model, expected one of %v", e.Got, Labels)
}

// IsInvalidLabel reports whether err is (or wraps) an InvalidLabelError.
func IsInvalidLabel(err error) bool {
	var ile *InvalidLabelError
	return errors.As(err, &ile)
}

// Classify asks the model for the intent of text. The response is upper
// cased, trimmed, and checked against the closed label set.
func Classify(ctx context.Context, c llm.Completer, text string) (Label, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("text cannot be empty")
	}

	resp, err := c.Complete(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   text,
		MaxTokens:    10,
	})
	if err != nil {
		return "", fmt.Errorf("classifying intent: %w", err)
	}

	label := Label(strings.ToUpper(strings.TrimSpace(resp.Content)))
	if !label.Valid() {
		return "", &InvalidLabelError{Got: resp.Content}
	}
	return label, nil
}
