package tools

import "fmt"

// ErrorKind classifies a failed tool invocation.
type ErrorKind int

const (
	// InvalidArgument: a parameter is missing or malformed.
	InvalidArgument ErrorKind = iota + 1
	// UnknownTool: the requested name is not in the catalog.
	UnknownTool
	// InternalError: the handler failed unexpectedly.
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case UnknownTool:
		return "UnknownTool"
	case InternalError:
		return "InternalError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ToolError is the structured failure produced by handlers and the dispatcher.
type ToolError struct {
	Kind    ErrorKind
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// NewError returns a *ToolError of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) error {
	return &ToolError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...interface{}) error {
	return NewError(InvalidArgument, format, args...)
}
