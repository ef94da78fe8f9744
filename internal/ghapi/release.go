package ghapi

import (
	"context"
	"fmt"
	"net/http"
)

// Tag is one repository tag, newest first in the listing.
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Commit is one commit from a compare or listing response.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

// Release is a GitHub release, draft or published.
type Release struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
	Draft   bool   `json:"draft"`
}

// PullRef names a pull request associated with a commit.
type PullRef struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// ListTags fetches the repository tags (first page, newest first).
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	path := fmt.Sprintf("/repos/%s/tags?per_page=%d", c.repo, perPage)
	if err := c.do(ctx, http.MethodGet, path, nil, &tags); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// PreviousTag returns the tag immediately before current in the listing,
// or "" when current is the oldest (or only) tag.
func (c *Client) PreviousTag(ctx context.Context, current string) (string, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return "", err
	}

	found := false
	for _, t := range tags {
		if t.Name == current {
			found = true
			continue
		}
		if found {
			return t.Name, nil
		}
	}
	return "", nil
}

type compareResponse struct {
	Commits      []Commit `json:"commits"`
	TotalCommits int      `json:"total_commits"`
}

// CompareCommits returns the commits between base and head plus the total
// count the API reports (the listing itself may be capped server-side).
func (c *Client) CompareCommits(ctx context.Context, base, head string) ([]Commit, int, error) {
	var resp compareResponse
	path := fmt.Sprintf("/repos/%s/compare/%s...%s", c.repo, base, head)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, fmt.Errorf("comparing %s...%s: %w", base, head, err)
	}
	total := resp.TotalCommits
	if total == 0 {
		total = len(resp.Commits)
	}
	return resp.Commits, total, nil
}

// ListCommits fetches up to limit commits reachable from sha, newest first.
func (c *Client) ListCommits(ctx context.Context, sha string, limit int) ([]Commit, error) {
	var commits []Commit
	path := fmt.Sprintf("/repos/%s/commits?sha=%s&per_page=%d", c.repo, sha, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &commits); err != nil {
		return nil, fmt.Errorf("listing commits from %s: %w", sha, err)
	}
	return commits, nil
}

// PullsForCommit returns the pull requests associated with a commit, most
// relevant first. An empty slice means the commit landed without a PR.
func (c *Client) PullsForCommit(ctx context.Context, sha string) ([]PullRef, error) {
	var prs []PullRef
	path := fmt.Sprintf("/repos/%s/commits/%s/pulls", c.repo, sha)
	if err := c.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, fmt.Errorf("looking up PRs for %s: %w", sha, err)
	}
	return prs, nil
}

// FindReleaseByTag scans the release listing for one matching tag, drafts
// included. GET /releases/tags/{tag} skips drafts, so the listing is the
// only way to find a draft created by an earlier run.
func (c *Client) FindReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	var releases []Release
	path := fmt.Sprintf("/repos/%s/releases?per_page=%d", c.repo, perPage)
	if err := c.do(ctx, http.MethodGet, path, nil, &releases); err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	for i := range releases {
		if releases[i].TagName == tag {
			return &releases[i], nil
		}
	}
	return nil, nil
}

type releasePayload struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
	Draft   bool   `json:"draft"`
}

// CreateDraftRelease creates a draft release for tag.
func (c *Client) CreateDraftRelease(ctx context.Context, tag, name, body string) error {
	path := fmt.Sprintf("/repos/%s/releases", c.repo)
	payload := releasePayload{TagName: tag, Name: name, Body: body, Draft: true}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("creating draft release for %s: %w", tag, err)
	}
	return nil
}

// UpdateRelease overwrites the name and body of an existing release.
func (c *Client) UpdateRelease(ctx context.Context, id int64, name, body string) error {
	path := fmt.Sprintf("/repos/%s/releases/%d", c.repo, id)
	payload := struct {
		Name string `json:"name"`
		Body string `json:"body"`
	}{Name: name, Body: body}
	if err := c.do(ctx, http.MethodPatch, path, payload, nil); err != nil {
		return fmt.Errorf("updating release %d: %w", id, err)
	}
	return nil
}
