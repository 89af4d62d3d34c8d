package placeholder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// detailCommentLimit bounds the comments fetched for a single detail view.
const detailCommentLimit = 4

// listingConcurrency bounds the per-post comment fan-out in FetchPostListing.
const listingConcurrency = 8

// ClientOption represents the options for the Client.
type ClientOption func(*Client)

// Client is a JSONPlaceholder API client. It carries the configured base URL,
// the HTTP client, and the retry budget for upstream calls; callers receive a
// constructed value instead of reaching for a package-level singleton.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *slog.Logger
}

// StatusError reports a non-2xx response from the upstream API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// NewClient creates a Client for the given base URL. The zero options give a
// 10s request timeout and two retries on transient failures.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxRetries sets how many times a failed upstream call is retried.
// Only transport errors and 5xx responses are retried.
func WithMaxRetries(n uint64) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithLogger sets the logger used for upstream call diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(100*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("upstream request failed", slog.String("url", u), slog.String("err", err.Error()))
			return retry.RetryableError(fmt.Errorf("failed to fetch %s: %w", u, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			sErr := &StatusError{Code: resp.StatusCode, URL: u}
			if resp.StatusCode >= 500 {
				c.logger.Warn("upstream server error", slog.String("url", u), slog.Int("status", resp.StatusCode))
				return retry.RetryableError(sErr)
			}
			return sErr
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", u, err)
		}
		return nil
	})
}

// FetchPost retrieves a single post by id.
func (c *Client) FetchPost(ctx context.Context, id int) (Post, error) {
	var post Post
	if err := c.get(ctx, "/posts/"+strconv.Itoa(id), nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// FetchPosts retrieves the post collection. A positive limit caps the result
// via the upstream _limit parameter; zero or negative fetches everything.
func (c *Client) FetchPosts(ctx context.Context, limit int) ([]Post, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("_limit", strconv.Itoa(limit))
	}
	var posts []Post
	if err := c.get(ctx, "/posts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchComments retrieves the comments of a post, capped at limit when positive.
func (c *Client) FetchComments(ctx context.Context, postID, limit int) ([]Comment, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("_limit", strconv.Itoa(limit))
	}
	var comments []Comment
	if err := c.get(ctx, "/posts/"+strconv.Itoa(postID)+"/comments", query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FetchUser retrieves a single user by id.
func (c *Client) FetchUser(ctx context.Context, id int) (User, error) {
	var user User
	if err := c.get(ctx, "/users/"+strconv.Itoa(id), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// FetchUsers retrieves the full user collection.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchPostDetails assembles the post/user/comments aggregate for one post.
// The comments fetch runs concurrently with the post fetch; the user fetch
// starts once the post reveals its author. A failure on any branch cancels
// the others.
func (c *Client) FetchPostDetails(ctx context.Context, postID int) (PostDetails, error) {
	var details PostDetails

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		post, err := c.FetchPost(ctx, postID)
		if err != nil {
			return err
		}
		details.Post = post

		user, err := c.FetchUser(ctx, post.UserID)
		if err != nil {
			return err
		}
		details.User = user
		return nil
	})

	g.Go(func() error {
		comments, err := c.FetchComments(ctx, postID, detailCommentLimit)
		if err != nil {
			return err
		}
		details.Comments = comments
		return nil
	})

	if err := g.Wait(); err != nil {
		return PostDetails{}, err
	}
	return details, nil
}

// FetchPostListing assembles the aggregate for the first limit posts. Posts
// and users are fetched concurrently, then the per-post comment fetches fan
// out with bounded concurrency. A post whose author is missing from the user
// collection gets a placeholder author instead of failing the whole listing.
func (c *Client) FetchPostListing(ctx context.Context, limit int) ([]PostDetails, error) {
	var (
		posts []Post
		users []User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = c.FetchPosts(gctx, limit)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = c.FetchUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	usersByID := make(map[int]User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	listing := make([]PostDetails, len(posts))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(listingConcurrency)
	for i, post := range posts {
		g.Go(func() error {
			comments, err := c.FetchComments(gctx, post.ID, 0)
			if err != nil {
				return err
			}

			user, ok := usersByID[post.UserID]
			if !ok {
				user = User{ID: post.UserID, Name: "Usuario desconocido", Email: "unknown@example.com"}
			}

			listing[i] = PostDetails{Post: post, User: user, Comments: comments}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return listing, nil
}
