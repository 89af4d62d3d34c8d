// Package stream turns a single resource-build operation into an ordered
// sequence of named server-push events, and folds such a sequence back into
// client-side connection state. The producer is a frame iterator; the HTTP
// transport only writes frames, it never decides the order.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

// Event names, in their only permitted orders:
//
//	success: connected, loading, resource, completed, close
//	failure: connected, loading, error, close
const (
	EventConnected = "connected"
	EventLoading   = "loading"
	EventResource  = "resource"
	EventError     = "error"
	EventCompleted = "completed"
	EventClose     = "close"
)

const (
	defaultSuccessCloseDelay = time.Second
	defaultErrorCloseDelay   = 500 * time.Millisecond
)

// errorBody is the wire shape of non-JSON-RPC error payloads.
const errorBody = "MCP_UI_RESOURCE_ERROR"

// Frame is one discrete server-push event: a name and a JSON payload.
type Frame struct {
	Event string
	Data  json.RawMessage
}

// SequencerOption represents the options for the Sequencer.
type SequencerOption func(*Sequencer)

// Sequencer produces the event sequence for one resource-build operation.
// The close event is always announced before the transport drops, after a
// delay that gives the client time to process the terminal event.
type Sequencer struct {
	fetcher *placeholder.Client
	logger  *slog.Logger

	successCloseDelay time.Duration
	errorCloseDelay   time.Duration
}

// WithCloseDelays overrides the delays between the terminal event and the
// close announcement, for the success and error branches respectively.
func WithCloseDelays(success, failure time.Duration) SequencerOption {
	return func(s *Sequencer) {
		if success > 0 {
			s.successCloseDelay = success
		}
		if failure > 0 {
			s.errorCloseDelay = failure
		}
	}
}

// WithLogger sets the sequencer logger.
func WithLogger(logger *slog.Logger) SequencerOption {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// NewSequencer creates a Sequencer backed by the given upstream client.
func NewSequencer(fetcher *placeholder.Client, options ...SequencerOption) *Sequencer {
	s := &Sequencer{
		fetcher:           fetcher,
		logger:            slog.Default(),
		successCloseDelay: defaultSuccessCloseDelay,
		errorCloseDelay:   defaultErrorCloseDelay,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Frames returns the ordered event sequence for building the requested
// resource. The iterator blocks on the upstream fetch and on the pre-close
// delay; cancelling ctx (the client went away) stops the sequence without
// emitting further frames and propagates into the fetch.
func (s *Sequencer) Frames(ctx context.Context, postID int, mode uires.Mode) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		if !yield(jsonFrame(EventConnected, map[string]any{
			"message":   "Conectado al servidor MCP",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})) {
			return
		}

		if !yield(jsonFrame(EventLoading, map[string]any{
			"message": fmt.Sprintf("Cargando datos del post %d...", postID),
			"postId":  postID,
		})) {
			return
		}

		details, err := s.fetcher.FetchPostDetails(ctx, postID)
		if err != nil {
			s.logger.Warn("resource build failed",
				slog.Int("postId", postID), slog.String("err", err.Error()))

			if !yield(jsonFrame(EventError, map[string]any{
				"error":     errorBody,
				"message":   err.Error(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})) {
				return
			}
			s.announceClose(ctx, s.errorCloseDelay, yield)
			return
		}

		resource := uires.Build(mode, details)
		resourceJSON, err := json.Marshal(resource)
		if err != nil {
			if !yield(jsonFrame(EventError, map[string]any{
				"error":     errorBody,
				"message":   fmt.Sprintf("failed to marshal resource: %v", err),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})) {
				return
			}
			s.announceClose(ctx, s.errorCloseDelay, yield)
			return
		}

		if !yield(Frame{Event: EventResource, Data: resourceJSON}) {
			return
		}

		if !yield(jsonFrame(EventCompleted, map[string]any{
			"message": "Recurso MCP generado exitosamente",
			"mode":    string(mode),
		})) {
			return
		}

		s.announceClose(ctx, s.successCloseDelay, yield)
	}
}

// announceClose waits out the delay and emits the close frame, unless the
// context is cancelled first, in which case the pending timer is released
// and nothing more is sent.
func (s *Sequencer) announceClose(ctx context.Context, delay time.Duration, yield func(Frame) bool) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	yield(jsonFrame(EventClose, map[string]any{"message": "Cerrando conexión"}))
}

func jsonFrame(event string, payload map[string]any) Frame {
	data, _ := json.Marshal(payload)
	return Frame{Event: event, Data: data}
}
