package ghapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prmatehq/prmate/internal/annotate"
)

// PullRequest holds the PR metadata the tools consume.
type PullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PRFile is one entry from the PR file listing. Patch is empty for binary
// or oversized files.
type PRFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

// GetPR fetches pull-request metadata.
func (c *Client) GetPR(ctx context.Context, number int) (PullRequest, error) {
	var pr PullRequest
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/pulls/%d", c.repo, number), nil, &pr)
	if err != nil {
		return PullRequest{}, fmt.Errorf("fetching PR #%d: %w", number, err)
	}
	return pr, nil
}

// ListPRFiles fetches every changed file with its patch, walking the
// paginated listing to exhaustion. Listing order is preserved.
func (c *Client) ListPRFiles(ctx context.Context, number int) ([]PRFile, error) {
	p := c.newPager(fmt.Sprintf("/repos/%s/pulls/%d/files", c.repo, number))
	files, err := collect[PRFile](ctx, p)
	if err != nil {
		return nil, fmt.Errorf("listing PR #%d files: %w", number, err)
	}
	return files, nil
}

type issueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

type commentBody struct {
	Body string `json:"body"`
}

// ListComments fetches all issue comments on the PR in listing order,
// assembled across pages. Implements annotate.CommentService.
func (c *Client) ListComments(ctx context.Context, issueNumber int) ([]annotate.Comment, error) {
	p := c.newPager(fmt.Sprintf("/repos/%s/issues/%d/comments", c.repo, issueNumber))
	raw, err := collect[issueComment](ctx, p)
	if err != nil {
		return nil, fmt.Errorf("listing comments on #%d: %w", issueNumber, err)
	}

	comments := make([]annotate.Comment, len(raw))
	for i, rc := range raw {
		comments[i] = annotate.Comment{ID: rc.ID, Body: rc.Body}
	}
	return comments, nil
}

// CreateComment posts a new issue comment. Implements annotate.CommentService.
func (c *Client) CreateComment(ctx context.Context, issueNumber int, body string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/comments", c.repo, issueNumber)
	if err := c.do(ctx, http.MethodPost, path, commentBody{Body: body}, nil); err != nil {
		return fmt.Errorf("creating comment on #%d: %w", issueNumber, err)
	}
	return nil
}

// UpdateComment overwrites an existing issue comment's body. Implements
// annotate.CommentService.
func (c *Client) UpdateComment(ctx context.Context, commentID int64, body string) error {
	path := fmt.Sprintf("/repos/%s/issues/comments/%d", c.repo, commentID)
	if err := c.do(ctx, http.MethodPatch, path, commentBody{Body: body}, nil); err != nil {
		return fmt.Errorf("updating comment %d: %w", commentID, err)
	}
	return nil
}
