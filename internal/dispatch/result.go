package dispatch

import "simple-mcp-server/internal/tools"

// Result is the outcome of one dispatch: either Text or Err is meaningful.
type Result struct {
	Text string
	Err  *tools.ToolError
}

// Success wraps handler output.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure builds an error result.
func Failure(kind tools.ErrorKind, message string) Result {
	return Result{Err: &tools.ToolError{Kind: kind, Message: message}}
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Kind returns the error kind, or 0 on success.
func (r Result) Kind() tools.ErrorKind {
	if r.Err == nil {
		return 0
	}
	return r.Err.Kind
}

// Message returns the success text or the error message.
func (r Result) Message() string {
	if r.Err != nil {
		return r.Err.Message
	}
	return r.Text
}
