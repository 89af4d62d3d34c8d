package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/tmaxmax/go-sse"

	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

// StreamMessage is one received frame kept in the ordered message log.
type StreamMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// State is the folded connection state of a resource stream. Every received
// frame is applied to the state and appended to Messages.
type State struct {
	Resource    *uires.UIResource
	IsConnected bool
	IsLoading   bool
	Err         string
	Messages    []StreamMessage
}

// ClientOption represents the options for the Client.
type ClientOption func(*Client)

// Client consumes a resource event stream and folds it into State snapshots.
// At most one stream is active per client; starting a new one tears down the
// previous connection first.
type Client struct {
	httpClient *http.Client
	streamURL  string
	logger     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// WithClientHTTPClient overrides the underlying HTTP client.
func WithClientHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a stream client for the given stream endpoint URL.
func NewClient(streamURL string, options ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		streamURL:  streamURL,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Stream connects to the event stream for the given post and mode and
// returns an iterator of state snapshots, one per received frame. Any
// previously active stream is cancelled before the new connection is made.
func (c *Client) Stream(ctx context.Context, postID int, mode uires.Mode) (iter.Seq[State], error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	query := url.Values{}
	query.Set("postId", strconv.Itoa(postID))
	query.Set("mode", string(mode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL+"?"+query.Encode(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return func(yield func(State) bool) {
		defer func() {
			resp.Body.Close()
			cancel()
		}()

		state := State{IsLoading: true}

		for ev, err := range sse.Read(resp.Body, nil) {
			if err != nil {
				if ctx.Err() == nil {
					c.logger.Error("failed to read stream event", "err", err)
				}
				return
			}

			state = applyFrame(state, ev.Type, []byte(ev.Data))
			if !yield(state) {
				return
			}
		}
	}, nil
}

// applyFrame folds one received frame into the state record.
func applyFrame(state State, event string, data json.RawMessage) State {
	switch event {
	case EventConnected:
		state.IsConnected = true
	case EventLoading:
		state.IsLoading = true
	case EventResource:
		var resource uires.UIResource
		if err := json.Unmarshal(data, &resource); err == nil {
			state.Resource = &resource
		}
		state.IsLoading = false
	case EventError:
		var body struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &body)
		state.Err = body.Message
		state.IsLoading = false
	case EventClose:
		state.IsConnected = false
	}

	messages := make([]StreamMessage, len(state.Messages), len(state.Messages)+1)
	copy(messages, state.Messages)
	state.Messages = append(messages, StreamMessage{Event: event, Data: data})

	return state
}
