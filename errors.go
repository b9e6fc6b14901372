package typeshape

import "fmt"

// ErrorKind classifies the failures reported through a Context.
type ErrorKind int

const (
	NoError ErrorKind = iota
	ValueError
	InvalidArgumentError
	LexError
	ParseError
	OSError
	MemoryError
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "Success"
	case ValueError:
		return "ValueError"
	case InvalidArgumentError:
		return "InvalidArgumentError"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case OSError:
		return "OSError"
	case MemoryError:
		return "MemoryError"
	default:
		return "UnknownError"
	}
}

// Error is the failure value held by a Context after an operation
// returns a nil tree.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Context is the caller-supplied error sink threaded through every
// public operation.  It holds at most one pending error per call: the
// first report wins and later reports in the same call are dropped.
// Reset it before reusing it for another call.
type Context struct {
	err *Error
}

func NewContext() *Context {
	return &Context{}
}

// Err returns the pending error, or nil if the last call succeeded.
func (c *Context) Err() *Error {
	if c == nil {
		return nil
	}
	return c.err
}

// Failed reports whether an error is pending.
func (c *Context) Failed() bool {
	return c != nil && c.err != nil
}

// Reset clears the pending error so the context can drive another call.
func (c *Context) Reset() {
	if c != nil {
		c.err = nil
	}
}

func (c *Context) report(kind ErrorKind, format string, args ...interface{}) {
	if c == nil || c.err != nil {
		return
	}
	c.err = &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (c *Context) pendingKind() ErrorKind {
	if c == nil || c.err == nil {
		return NoError
	}
	return c.err.Kind
}
