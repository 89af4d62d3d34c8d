// Package mcp implements the Model Context Protocol resource/tool/prompt
// surface of the server as a transport-agnostic JSON-RPC 2.0 dispatcher.
// Transports hand it a raw request body and receive a response envelope; the
// dispatcher never panics out and never leaves an error unmapped.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

// defaultListLimit bounds the upstream fetch behind resources/list and the
// aggregate listing read.
const defaultListLimit = 10

var nullID = json.RawMessage("null")

// requestError is an error that maps to a specific JSON-RPC error code.
// Anything else surfacing from a handler becomes an internal error (-32603)
// carrying the underlying message.
type requestError struct {
	code    int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func invalidParamsError(message string) error {
	return &requestError{code: jsonRPCInvalidParamsCode, message: message}
}

// DispatcherOption represents the options for the Dispatcher.
type DispatcherOption func(*Dispatcher)

// Dispatcher routes JSON-RPC requests to their handlers. It is stateless
// across requests; every call assembles its own upstream aggregate.
type Dispatcher struct {
	fetcher   *placeholder.Client
	info      Info
	listLimit int
	logger    *slog.Logger

	toolSchemas map[string]*jsonschema.Schema
}

// WithListLimit bounds how many posts resources/list and the aggregate
// listing fetch from upstream.
func WithListLimit(limit int) DispatcherOption {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.listLimit = limit
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a Dispatcher backed by the given upstream client.
// The tool input schemas are compiled here so tools/call can validate
// arguments against the same documents tools/list serves.
func NewDispatcher(fetcher *placeholder.Client, info Info, options ...DispatcherOption) (*Dispatcher, error) {
	d := &Dispatcher{
		fetcher:   fetcher,
		info:      info,
		listLimit: defaultListLimit,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(d)
	}

	d.toolSchemas = make(map[string]*jsonschema.Schema, len(toolCatalog))
	compiler := jsonschema.NewCompiler()
	for _, tool := range toolCatalog {
		url := tool.Name + ".schema.json"
		if err := compiler.AddResource(url, strings.NewReader(string(tool.InputSchema))); err != nil {
			return nil, fmt.Errorf("failed to add schema for tool %s: %w", tool.Name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for tool %s: %w", tool.Name, err)
		}
		d.toolSchemas[tool.Name] = schema
	}

	return d, nil
}

// Handle processes one raw JSON-RPC request body and returns the response
// envelope. A nil return means the request was a notification and no
// response must be sent.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) *JSONRPCMessage {
	var req JSONRPCMessage
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Well-formed JSON with a malformed envelope, e.g. a non-string
			// method. The id cannot be trusted either, so it is not echoed.
			return errorMessage(nil, jsonRPCInvalidRequestCode, "Invalid Request")
		}
		return errorMessage(nil, jsonRPCParseErrorCode, "Parse error")
	}

	if req.JSONRPC != JSONRPCVersion {
		return errorMessage(req.ID, jsonRPCInvalidRequestCode, "Invalid Request")
	}
	if req.Method == "" {
		return errorMessage(req.ID, jsonRPCInvalidRequestCode, "Method is required")
	}

	d.logger.Debug("dispatching request", slog.String("method", req.Method))

	if req.Method == MethodNotificationsInitialized {
		if len(req.ID) == 0 {
			// A true notification; nothing goes back on the wire.
			return nil
		}
		return &JSONRPCMessage{JSONRPC: JSONRPCVersion, ID: req.ID}
	}

	result, err := d.dispatch(ctx, req)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			return errorMessage(req.ID, reqErr.code, reqErr.message)
		}
		d.logger.Error("request failed", slog.String("method", req.Method), slog.String("err", err.Error()))
		return errorMessage(req.ID, jsonRPCInternalErrorCode, err.Error())
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return errorMessage(req.ID, jsonRPCInternalErrorCode, fmt.Sprintf("failed to marshal result: %v", err))
	}

	id := req.ID
	if len(id) == 0 {
		id = nullID
	}
	return &JSONRPCMessage{JSONRPC: JSONRPCVersion, ID: id, Result: resultJSON}
}

func (d *Dispatcher) dispatch(ctx context.Context, req JSONRPCMessage) (any, error) {
	switch req.Method {
	case MethodInitialize:
		return d.initialize(), nil
	case MethodResourcesList:
		return d.ListResources(ctx)
	case MethodResourcesRead:
		return d.readResource(ctx, req.Params)
	case MethodPromptsList:
		return ListPromptsResult{Prompts: promptCatalog}, nil
	case MethodToolsList:
		return ListToolsResult{Tools: toolCatalog}, nil
	case MethodToolsCall:
		return d.callTool(ctx, req.Params)
	default:
		return nil, &requestError{
			code:    jsonRPCMethodNotFoundCode,
			message: "Method not found: " + req.Method,
		}
	}
}

func (d *Dispatcher) initialize() InitializeResult {
	return InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Resources: ResourcesCapability{Subscribe: false, ListChanged: false},
			Prompts:   PromptsCapability{ListChanged: false},
			Tools:     ToolsCapability{ListChanged: false},
		},
		ServerInfo: d.info,
	}
}

// ListResources recomputes the resource catalog from the upstream post
// collection. It also backs the GET convenience alias on the JSON-RPC
// endpoint, hence the exported form.
func (d *Dispatcher) ListResources(ctx context.Context) (ListResourcesResult, error) {
	posts, err := d.fetcher.FetchPosts(ctx, d.listLimit)
	if err != nil {
		return ListResourcesResult{}, fmt.Errorf("failed to fetch posts: %w", err)
	}

	resources := make([]Resource, 0, len(posts))
	for _, post := range posts {
		resources = append(resources, Resource{
			URI:         fmt.Sprintf("post://%d", post.ID),
			Name:        post.Title,
			Description: excerpt(post.Body, 100),
			MimeType:    uires.MimeHTML,
		})
	}
	return ListResourcesResult{Resources: resources}, nil
}

func (d *Dispatcher) readResource(ctx context.Context, params json.RawMessage) (ReadResourceResult, error) {
	var p ReadResourceParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return ReadResourceResult{}, invalidParamsError("Invalid params: " + err.Error())
		}
	}
	if p.URI == "" {
		return ReadResourceResult{}, invalidParamsError("Invalid params: uri required")
	}

	target, err := uires.Resolve(p.URI)
	if err != nil {
		return ReadResourceResult{}, invalidParamsError("Invalid URI format")
	}

	var built uires.UIResource
	switch target.Kind {
	case uires.KindList:
		listing, err := d.fetcher.FetchPostListing(ctx, d.listLimit)
		if err != nil {
			return ReadResourceResult{}, fmt.Errorf("failed to fetch post listing: %w", err)
		}
		built = uires.BuildListing(listing)
	case uires.KindRemoteDom:
		details, err := d.fetcher.FetchPostDetails(ctx, target.ID)
		if err != nil {
			return ReadResourceResult{}, fmt.Errorf("failed to fetch post %d: %w", target.ID, err)
		}
		built = uires.BuildRemoteDom(details)
	default:
		details, err := d.fetcher.FetchPostDetails(ctx, target.ID)
		if err != nil {
			return ReadResourceResult{}, fmt.Errorf("failed to fetch post %d: %w", target.ID, err)
		}
		built = uires.BuildSummary(details)
	}

	// The requested URI is echoed back; the builder-assigned canonical URI
	// stays inside the resource payload addressing.
	return ReadResourceResult{
		Contents: []ResourceContents{{
			URI:      p.URI,
			MimeType: built.Resource.MimeType,
			Text:     built.Resource.Text,
		}},
	}, nil
}

func errorMessage(id json.RawMessage, code int, message string) *JSONRPCMessage {
	if len(id) == 0 {
		id = nullID
	}
	return &JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	}
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s + "..."
}
