package annotate

import (
	"context"
	"fmt"
	"strings"
)

// Markers identifying the comment each tool owns on a pull request. The
// marker is the first line of the managed comment body, followed by a blank
// line, followed by the payload.
const (
	SummaryMarker   = "<!-- ai-pr-summary-bot -->"
	TestDraftMarker = "<!-- ai-test-draft-bot -->"
)

// Comment is a pull-request comment as reported by the host. Identity is
// assigned entirely by the host service.
type Comment struct {
	ID   int64
	Body string
}

// CommentService is the slice of the host API reconciliation needs. The
// listing must be fully assembled (all pages) and order preserving.
type CommentService interface {
	ListComments(ctx context.Context, issueNumber int) ([]Comment, error)
	CreateComment(ctx context.Context, issueNumber int, body string) error
	UpdateComment(ctx context.Context, commentID int64, body string) error
}

// FindManaged returns the ID of the first comment whose body contains
// marker, scanning in listing order.
func FindManaged(comments []Comment, marker string) (int64, bool) {
	for _, c := range comments {
		if strings.Contains(c.Body, marker) {
			return c.ID, true
		}
	}
	return 0, false
}

// Reconcile keeps exactly one marker-tagged comment on the pull request in
// sync with body: it updates the first existing comment carrying marker, or
// creates one when none is found. Repeated calls with the same marker are
// idempotent as long as they are serialized.
//
// There is no mutual exclusion across concurrent callers: two reconciles
// racing against the same empty comment list can both choose the create
// path and leave two managed comments behind. Workflow runs for a single PR
// are serialized in practice, so the race is accepted rather than locked
// around.
//
// Any listing, update, or create failure propagates unrecovered; no retries
// are attempted and the resource is left as the last successful operation
// left it.
func Reconcile(ctx context.Context, svc CommentService, issueNumber int, marker, body string) error {
	fullBody := marker + "\n\n" + body

	comments, err := svc.ListComments(ctx, issueNumber)
	if err != nil {
		return fmt.Errorf("listing comments: %w", err)
	}

	if id, ok := FindManaged(comments, marker); ok {
		if err := svc.UpdateComment(ctx, id, fullBody); err != nil {
			return fmt.Errorf("updating comment %d: %w", id, err)
		}
		return nil
	}

	if err := svc.CreateComment(ctx, issueNumber, fullBody); err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}
