package placeholder_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
)

func newFakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	posts := []placeholder.Post{
		{ID: 1, UserID: 1, Title: "primero", Body: "cuerpo uno"},
		{ID: 2, UserID: 1, Title: "segundo", Body: "cuerpo dos"},
		{ID: 3, UserID: 99, Title: "huérfano", Body: "autor desconocido"},
	}
	users := []placeholder.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz"},
	}
	comments := map[string][]placeholder.Comment{
		"1": {
			{ID: 1, PostID: 1, Name: "c1", Email: "c1@example.com", Body: "uno"},
			{ID: 2, PostID: 1, Name: "c2", Email: "c2@example.com", Body: "dos"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		result := posts
		if r.URL.Query().Get("_limit") == "2" {
			result = posts[:2]
		}
		_ = json.NewEncoder(w).Encode(result)
	})
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range posts {
			if r.PathValue("id") == itoa(p.ID) {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		cs := comments[r.PathValue("id")]
		if cs == nil {
			cs = []placeholder.Comment{}
		}
		_ = json.NewEncoder(w).Encode(cs)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(users)
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, u := range users {
			if r.PathValue("id") == itoa(u.ID) {
				_ = json.NewEncoder(w).Encode(u)
				return
			}
		}
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func TestFetchPostDetails(t *testing.T) {
	srv := newFakeUpstream(t)
	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(0))

	details, err := client.FetchPostDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if details.Post.ID != 1 {
		t.Errorf("expected post 1, got %d", details.Post.ID)
	}
	if details.User.ID != 1 || details.User.Name != "Leanne Graham" {
		t.Errorf("expected user 1, got %+v", details.User)
	}
	if len(details.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(details.Comments))
	}
	for _, c := range details.Comments {
		if c.PostID != details.Post.ID {
			t.Errorf("comment %d belongs to post %d, want %d", c.ID, c.PostID, details.Post.ID)
		}
	}
}

func TestFetchPostDetailsPropagatesFailure(t *testing.T) {
	srv := newFakeUpstream(t)
	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(0))

	_, err := client.FetchPostDetails(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error for missing post")
	}

	var statusErr *placeholder.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.Code)
	}
}

func TestFetchPostsLimit(t *testing.T) {
	srv := newFakeUpstream(t)
	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(0))

	posts, err := client.FetchPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("expected 2 posts, got %d", len(posts))
	}
}

func TestFetchPostListingFallbackUser(t *testing.T) {
	srv := newFakeUpstream(t)
	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(0))

	listing, err := client.FetchPostListing(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listing) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(listing))
	}

	orphan := listing[2]
	if orphan.Post.ID != 3 {
		t.Fatalf("expected post 3 last, got %d", orphan.Post.ID)
	}
	if orphan.User.Name != "Usuario desconocido" {
		t.Errorf("expected fallback author, got %q", orphan.User.Name)
	}
	if orphan.User.ID != 99 {
		t.Errorf("fallback author keeps the referenced id, got %d", orphan.User.ID)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(placeholder.Post{ID: 1, UserID: 1})
	}))
	t.Cleanup(srv.Close)

	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(2))

	post, err := client.FetchPost(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if post.ID != 1 {
		t.Errorf("unexpected post: %+v", post)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := placeholder.NewClient(srv.URL, placeholder.WithMaxRetries(3))

	_, err := client.FetchPost(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx responses must not be retried, got %d calls", calls.Load())
	}
}
