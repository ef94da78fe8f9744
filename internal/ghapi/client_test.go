package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		token:   "test-token",
		apiURL:  server.URL,
		repo:    "owner/repo",
		httpCli: server.Client(),
	}
}

func TestDo_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("X-GitHub-Api-Version"); got != apiVersion {
			t.Errorf("X-GitHub-Api-Version = %q", got)
		}
		w.Write([]byte(`{"title":"t","body":"b"}`))
	}))
	defer server.Close()

	c := testClient(server)
	if _, err := c.GetPR(context.Background(), 1); err != nil {
		t.Fatalf("GetPR error: %v", err)
	}
}

func TestDo_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	c := testClient(server)
	_, err := c.GetPR(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError = false for %v", err)
	}
}

func TestDo_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer server.Close()

	c := testClient(server)
	_, err := c.GetPR(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if IsAuthError(err) {
		t.Errorf("500 misclassified as auth error")
	}
}

func TestPager_StopsOnEmptyPage(t *testing.T) {
	var pagesServed []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pagesServed = append(pagesServed, page)
		if page <= 2 {
			fmt.Fprintf(w, `[{"id":%d}]`, page)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := testClient(server)
	p := c.newPager("/repos/owner/repo/issues/1/comments")
	ctx := context.Background()

	var pages int
	for {
		batch, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		if batch == nil {
			break
		}
		pages++
	}

	if pages != 2 {
		t.Errorf("pages = %d, want 2", pages)
	}
	if len(pagesServed) != 3 {
		t.Errorf("requests = %v, want pages 1,2,3", pagesServed)
	}

	// Exhausted pager never hits the network again.
	batch, err := p.Next(ctx)
	if err != nil || batch != nil {
		t.Errorf("Next after exhaustion = (%v, %v), want (nil, nil)", batch, err)
	}
	if len(pagesServed) != 3 {
		t.Errorf("exhausted pager made a request: %v", pagesServed)
	}

	// Reset makes the sequence restartable.
	p.Reset()
	if batch, err = p.Next(ctx); err != nil || len(batch) != 1 {
		t.Errorf("Next after Reset = (%v, %v), want one item", batch, err)
	}
}

func TestListPRFiles_Paginated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42/files" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode([]PRFile{
				{Filename: "a.go", Status: "modified", Additions: 1, Patch: "+a"},
				{Filename: "b.go", Status: "added", Additions: 2, Patch: "+b"},
			})
		case "2":
			json.NewEncoder(w).Encode([]PRFile{
				{Filename: "c.png", Status: "added"},
			})
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	c := testClient(server)
	files, err := c.ListPRFiles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListPRFiles error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d, want 3", len(files))
	}
	if files[0].Filename != "a.go" || files[2].Filename != "c.png" {
		t.Errorf("order not preserved: %+v", files)
	}
	if files[2].Patch != "" {
		t.Errorf("binary file should have empty patch")
	}
}

func TestCommentRoundTrip(t *testing.T) {
	var created, updated string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET":
			json.NewEncoder(w).Encode([]issueComment{})
		case r.Method == "POST" && r.URL.Path == "/repos/owner/repo/issues/5/comments":
			var cb commentBody
			json.NewDecoder(r.Body).Decode(&cb)
			created = cb.Body
			w.WriteHeader(201)
			w.Write([]byte(`{"id":10}`))
		case r.Method == "PATCH" && r.URL.Path == "/repos/owner/repo/issues/comments/10":
			var cb commentBody
			json.NewDecoder(r.Body).Decode(&cb)
			updated = cb.Body
			w.Write([]byte(`{"id":10}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	c := testClient(server)
	ctx := context.Background()

	if err := c.CreateComment(ctx, 5, "hello"); err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if created != "hello" {
		t.Errorf("created body = %q", created)
	}

	if err := c.UpdateComment(ctx, 10, "hello again"); err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
	if updated != "hello again" {
		t.Errorf("updated body = %q", updated)
	}
}

func TestPreviousTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Tag{
			{Name: "v1.2.0"},
			{Name: "v1.1.0"},
			{Name: "v1.0.0"},
		})
	}))
	defer server.Close()

	c := testClient(server)
	ctx := context.Background()

	prev, err := c.PreviousTag(ctx, "v1.2.0")
	if err != nil {
		t.Fatalf("PreviousTag error: %v", err)
	}
	if prev != "v1.1.0" {
		t.Errorf("prev = %q, want v1.1.0", prev)
	}

	prev, err = c.PreviousTag(ctx, "v1.0.0")
	if err != nil {
		t.Fatalf("PreviousTag error: %v", err)
	}
	if prev != "" {
		t.Errorf("prev = %q, want empty for oldest tag", prev)
	}
}

func TestFindReleaseByTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Release{
			{ID: 1, TagName: "v1.1.0", Draft: false},
			{ID: 2, TagName: "v1.2.0", Draft: true},
		})
	}))
	defer server.Close()

	c := testClient(server)
	rel, err := c.FindReleaseByTag(context.Background(), "v1.2.0")
	if err != nil {
		t.Fatalf("FindReleaseByTag error: %v", err)
	}
	if rel == nil || rel.ID != 2 || !rel.Draft {
		t.Errorf("release = %+v", rel)
	}

	rel, err = c.FindReleaseByTag(context.Background(), "v9.9.9")
	if err != nil {
		t.Fatalf("FindReleaseByTag error: %v", err)
	}
	if rel != nil {
		t.Errorf("expected nil for unknown tag, got %+v", rel)
	}
}
