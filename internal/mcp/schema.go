package mcp

import "encoding/json"

// JSONRPCVersion specifies the JSON-RPC protocol version used for communication.
const JSONRPCVersion = "2.0"

// protocolVersion is the MCP protocol revision this server speaks.
const protocolVersion = "2024-11-05"

// JSONRPCMessage represents a JSON-RPC 2.0 message. It can represent either a
// request, response, or notification depending on which fields are populated:
//   - Request: JSONRPC, ID, Method, and Params are set
//   - Response: JSONRPC, ID, and either Result or Error are set
//   - Notification: JSONRPC and Method are set (no ID)
//
// ID is kept as raw JSON so a numeric request id is echoed back as a number
// and a string id as a string. A nil ID means the field was absent.
type JSONRPCMessage struct {
	// JSONRPC must always be "2.0" per the JSON-RPC specification
	JSONRPC string `json:"jsonrpc"`
	// ID uniquely identifies request-response pairs; string or number
	ID json.RawMessage `json:"id,omitempty"`
	// Method contains the RPC method name for requests and notifications
	Method string `json:"method,omitempty"`
	// Params contains the parameters for the method call as a raw JSON message
	Params json.RawMessage `json:"params,omitempty"`
	// Result contains the successful response data as a raw JSON message
	Result json.RawMessage `json:"result,omitempty"`
	// Error contains error details if the request failed
	Error *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError represents an error response in the JSON-RPC 2.0 protocol.
type JSONRPCError struct {
	// Code indicates the error type that occurred.
	Code int `json:"code"`
	// Message provides a short description of the error.
	Message string `json:"message"`
	// Data contains additional information about the error. Optional.
	Data map[string]any `json:"data,omitempty"`
}

func (e JSONRPCError) Error() string {
	return e.Message
}

// Supported method names.
const (
	// MethodInitialize is the method name for the initialization handshake.
	MethodInitialize = "initialize"
	// MethodNotificationsInitialized is the post-handshake client notification.
	MethodNotificationsInitialized = "notifications/initialized"
	// MethodResourcesList is the method name for listing available resources.
	MethodResourcesList = "resources/list"
	// MethodResourcesRead is the method name for reading a resource by URI.
	MethodResourcesRead = "resources/read"
	// MethodPromptsList is the method name for listing available prompts.
	MethodPromptsList = "prompts/list"
	// MethodToolsList is the method name for listing available tools.
	MethodToolsList = "tools/list"
	// MethodToolsCall is the method name for invoking a tool.
	MethodToolsCall = "tools/call"
)

// JSON-RPC 2.0 error codes. One consistent mapping across every transport:
// -32600 covers schema violations including a missing method, -32601 is
// strictly "unknown method on dispatch", -32602 bad params, -32603 internal
// failures including upstream fetch and tool execution errors.
const (
	jsonRPCParseErrorCode     = -32700
	jsonRPCInvalidRequestCode = -32600
	jsonRPCMethodNotFoundCode = -32601
	jsonRPCInvalidParamsCode  = -32602
	jsonRPCInternalErrorCode  = -32603
)

// Info contains metadata about the server instance.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities declares what this server supports. Subscription and
// list-change notifications are deliberately disabled and declared as such.
type ServerCapabilities struct {
	Resources ResourcesCapability `json:"resources"`
	Prompts   PromptsCapability   `json:"prompts"`
	Tools     ToolsCapability     `json:"tools"`
}

// ResourcesCapability represents resources-specific capabilities.
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

// PromptsCapability represents prompts-specific capabilities.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ToolsCapability represents tools-specific capabilities.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// InitializeResult is the handshake response payload.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Info               `json:"serverInfo"`
}

// Resource describes a listable resource entry.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult is the resources/list response payload.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceParams contains parameters for retrieving a specific resource.
type ReadResourceParams struct {
	// URI is the unique identifier of the resource to retrieve.
	URI string `json:"uri"`
}

// ResourceContents is one entry of a resources/read response.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ReadResourceResult is the resources/read response payload.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// Prompt describes a prompt template in the static catalog.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one argument of a prompt template.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ListPromptsResult is the prompts/list response payload.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// Tool describes a callable tool and its JSON-schema input contract. The
// schema document is served verbatim by tools/list and compiled at startup
// to validate tools/call arguments.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsResult is the tools/list response payload.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams contains parameters for executing a specific tool.
type CallToolParams struct {
	// Name is the unique identifier of the tool to execute
	Name string `json:"name"`
	// Arguments is a JSON object validated against the tool's InputSchema
	Arguments json.RawMessage `json:"arguments"`
}

// Content is one entry of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallToolResult represents the outcome of a tool invocation.
type CallToolResult struct {
	Content []Content `json:"content"`
}
