package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Version is the MCP protocol revision this server speaks when the client
// does not propose one.
const Version = "2025-06-18"

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeRateLimited    = -32029
)

// RequestID can be a string or number according to JSON-RPC 2.0 spec
type RequestID struct {
	value interface{}
}

// NewRequestID creates a new RequestID from a string
func NewRequestID(id string) RequestID {
	return RequestID{value: id}
}

// NewNumericRequestID creates a new RequestID from a number
func NewNumericRequestID(id float64) RequestID {
	return RequestID{value: id}
}

// String returns the string representation of the ID
func (id RequestID) String() string {
	switch v := id.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsNull reports whether the ID is absent or JSON null.
func (id RequestID) IsNull() bool {
	return id.value == nil
}

// UnmarshalJSON accepts a string, a number or null.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		id.value = nil
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		id.value = str
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		id.value = num
		return nil
	}

	return fmt.Errorf("invalid request ID: must be string, number, or null")
}

// MarshalJSON implements custom JSON marshaling
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// --- JSON-RPC envelope ---

// Request is a generic JSON-RPC 2.0 request object.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a generic JSON-RPC 2.0 response object.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC 2.0 error.
type ErrorObject struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *ErrorObject) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Notification is a generic JSON-RPC 2.0 notification object.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewResultResponse marshals result into a success response. A result that
// cannot be marshaled turns into an internal error response.
func NewResultResponse(id RequestID, result interface{}) *Response {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return NewErrorResponse(id, CodeInternalError, "Internal server error: failed to marshal result", err)
	}
	return &Response{JSONRPC: "2.0", ID: id, Result: resultBytes}
}

// NewErrorResponse builds an error response. data, when non-nil, is attached
// as the error's data member.
func NewErrorResponse(id RequestID, code int, message string, data error) *Response {
	errorObj := &ErrorObject{Code: code, Message: message}
	if data != nil {
		errorObj.Data = data.Error()
	}
	return &Response{JSONRPC: "2.0", ID: id, Error: errorObj}
}

// --- Lifecycle ---

// InitializeRequest represents the parameters for the "initialize" method.
// This is sent from the client to the server.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ClientInfo      ImplementationInfo `json:"clientInfo"`
	Capabilities    ClientCapabilities `json:"capabilities"`
}

// InitializeResult represents the successful result of an "initialize" request.
// This is sent from the server to the client.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      ImplementationInfo `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	Instructions    string             `json:"instructions,omitempty"`
}

// ImplementationInfo describes the client or server software.
type ImplementationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Title   string `json:"title,omitempty"`
}

// ClientCapabilities lists the features supported by the client.
type ClientCapabilities struct {
	Roots       *struct{} `json:"roots,omitempty"`
	Sampling    *struct{} `json:"sampling,omitempty"`
	Elicitation *struct{} `json:"elicitation,omitempty"`
}

// ServerCapabilities lists the features supported by the server.
type ServerCapabilities struct {
	Tools   *ServerToolCapabilities   `json:"tools,omitempty"`
	Prompts *ServerPromptCapabilities `json:"prompts,omitempty"`
	Logging *struct{}                 `json:"logging,omitempty"`
}

// ServerToolCapabilities specifies tool-related capabilities of the server.
type ServerToolCapabilities struct {
	// If true, the server can send "notifications/tools/list_changed".
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerPromptCapabilities specifies prompt-related capabilities.
type ServerPromptCapabilities struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// --- Tools ---

// Tool defines the structure for a tool that a client can call.
type Tool struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsResult is the response for a "tools/list" request.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolRequest represents the parameters for a "tools/call" request.
type CallToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// CallToolResult is the response from a tool call.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a piece of content in a tool's result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextContent wraps text in a single "text" content block.
func TextContent(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// --- Prompts ---

// Prompt describes a prompt template offered by the server.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one argument a prompt template accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ListPromptsResult is the response for a "prompts/list" request.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// GetPromptRequest represents the parameters for a "prompts/get" request.
type GetPromptRequest struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// GetPromptResult is the response for a "prompts/get" request.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// PromptMessage is one message of a rendered prompt.
type PromptMessage struct {
	Role    string       `json:"role"`
	Content ContentBlock `json:"content"`
}
