// Package httpapi exposes the three transports of the server: the REST-ish
// resource endpoint, the JSON-RPC endpoint, and the SSE streaming endpoint.
// Each handler is a thin adapter translating its wire format to and from the
// shared core; none of them carries protocol semantics of its own.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"

	"github.com/sebamar88/mcp-ui-poc/internal/mcp"
	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
	"github.com/sebamar88/mcp-ui-poc/internal/stream"
	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
	maxRequestBody   = 1 << 20
)

// resourceErrorCode is the error tag of non-JSON-RPC error bodies.
const resourceErrorCode = "MCP_UI_RESOURCE_ERROR"

// ServerOption represents the options for the Server.
type ServerOption func(*Server)

// Server wires the shared core into HTTP handlers.
type Server struct {
	fetcher    *placeholder.Client
	dispatcher *mcp.Dispatcher
	sequencer  *stream.Sequencer
	listLimit  int
	logger     *slog.Logger
}

// WithListLimit sets the default listing limit for the resource endpoint.
func WithListLimit(limit int) ServerOption {
	return func(s *Server) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the transport layer over the given core components.
func NewServer(
	fetcher *placeholder.Client,
	dispatcher *mcp.Dispatcher,
	sequencer *stream.Sequencer,
	options ...ServerOption,
) *Server {
	s := &Server{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		sequencer:  sequencer,
		listLimit:  defaultListLimit,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving all three endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/resource", s.handleResource)
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/sse", s.handleSSE)
	return s.withRequestLog(mux)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		next.ServeHTTP(w, r)

		s.logger.Info("request handled",
			slog.String("id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// handleResource serves GET /resource. With a usable postId it returns the
// single-post resource in the requested mode; otherwise it returns the
// aggregate listing bounded by limit.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	postID, ok := parsePostID(query.Get("postId"))
	mode := uires.ParseMode(query.Get("mode"))

	if !ok {
		limit := parseLimit(query.Get("limit"), s.listLimit)
		listing, err := s.fetcher.FetchPostListing(r.Context(), limit)
		if err != nil {
			s.writeResourceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, uires.BuildListing(listing))
		return
	}

	details, err := s.fetcher.FetchPostDetails(r.Context(), postID)
	if err != nil {
		s.writeResourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uires.Build(mode, details))
}

// handleMCP serves the JSON-RPC endpoint. POST carries an envelope; GET is a
// convenience alias equivalent to resources/list; OPTIONS answers CORS
// preflight; anything else is rejected.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
		result, err := s.dispatcher.ListResources(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, mcp.JSONRPCMessage{
				JSONRPC: mcp.JSONRPCVersion,
				ID:      json.RawMessage("1"),
				Error:   &mcp.JSONRPCError{Code: -32603, Message: err.Error()},
			})
			return
		}
		resultJSON, _ := json.Marshal(result)
		writeJSON(w, http.StatusOK, mcp.JSONRPCMessage{
			JSONRPC: mcp.JSONRPCVersion,
			ID:      json.RawMessage("1"),
			Result:  resultJSON,
		})
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, mcp.JSONRPCMessage{
			JSONRPC: mcp.JSONRPCVersion,
			ID:      json.RawMessage("null"),
			Error:   &mcp.JSONRPCError{Code: -32601, Message: "Method not allowed"},
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusOK, mcp.JSONRPCMessage{
			JSONRPC: mcp.JSONRPCVersion,
			ID:      json.RawMessage("null"),
			Error:   &mcp.JSONRPCError{Code: -32700, Message: "Parse error"},
		})
		return
	}

	resp := s.dispatcher.Handle(r.Context(), body)
	if resp == nil {
		// Notification; nothing goes back.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSSE serves the streaming endpoint. The sequencer decides the event
// order; this handler only upgrades the connection and writes frames.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	postID, ok := parsePostID(r.URL.Query().Get("postId"))
	if !ok {
		postID = 1
	}
	mode := uires.ParseMode(r.URL.Query().Get("mode"))

	sess, err := sse.Upgrade(w, r)
	if err != nil {
		s.logger.Error("failed to upgrade session", "err", err)
		http.Error(w, "failed to upgrade session", http.StatusInternalServerError)
		return
	}

	streamID := uuid.New().String()
	s.logger.Debug("stream opened",
		slog.String("stream", streamID), slog.Int("postId", postID), slog.String("mode", string(mode)))

	for frame := range s.sequencer.Frames(r.Context(), postID, mode) {
		msg := sse.Message{Type: sse.Type(frame.Event)}
		msg.AppendData(string(frame.Data))

		if err := sess.Send(&msg); err != nil {
			s.logger.Warn("failed to send frame",
				slog.String("stream", streamID), slog.String("err", err.Error()))
			return
		}
		if err := sess.Flush(); err != nil {
			s.logger.Warn("failed to flush frame",
				slog.String("stream", streamID), slog.String("err", err.Error()))
			return
		}
	}

	s.logger.Debug("stream closed", slog.String("stream", streamID))
}

func (s *Server) writeResourceError(w http.ResponseWriter, err error) {
	s.logger.Error("resource build failed", slog.String("err", err.Error()))
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   resourceErrorCode,
		"message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parsePostID parses a postId query value. The second return reports whether
// a usable positive id was present; callers choose their own fallback.
func parsePostID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseLimit clamps the listing limit to (0, maxListLimit].
func parseLimit(raw string, fallback int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxListLimit {
		return fallback
	}
	return limit
}
