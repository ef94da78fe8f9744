package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/prmatehq/prmate/internal/llm"
)

type fakeCompleter struct {
	content string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, _ llm.Request) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.content}, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func TestClassify_ValidLabel(t *testing.T) {
	got, err := Classify(context.Background(), &fakeCompleter{content: "QUESTION"}, "what time is it?")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if got != Question {
		t.Errorf("label = %q, want QUESTION", got)
	}
}

func TestClassify_NormalizesResponse(t *testing.T) {
	got, err := Classify(context.Background(), &fakeCompleter{content: "  request \n"}, "please do the thing")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if got != Request {
		t.Errorf("label = %q, want REQUEST", got)
	}
}

func TestClassify_InvalidLabel(t *testing.T) {
	_, err := Classify(context.Background(), &fakeCompleter{content: "BANANA"}, "hello")
	if err == nil {
		t.Fatal("expected error for invalid label")
	}
	if !IsInvalidLabel(err) {
		t.Errorf("IsInvalidLabel = false for %v", err)
	}
}

func TestClassify_TransportErrorIsNotValidationError(t *testing.T) {
	_, err := Classify(context.Background(), &fakeCompleter{err: errors.New("connection refused")}, "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsInvalidLabel(err) {
		t.Errorf("transport error misclassified as invalid label: %v", err)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	if _, err := Classify(context.Background(), &fakeCompleter{content: "OTHER"}, "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestLabelValid(t *testing.T) {
	for _, l := range Labels {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if Label("MAYBE").Valid() {
		t.Error("MAYBE should not be valid")
	}
}
