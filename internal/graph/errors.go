package graph

import (
	"errors"
	"fmt"
)

// Structural validation errors.
var (
	ErrEmptyID            = errors.New("node id is empty")
	ErrDuplicateNode      = errors.New("duplicate node id")
	ErrUnknownNode        = errors.New("connection references unknown node")
	ErrMissingInputName   = errors.New("connection has no target input")
	ErrConflictingInput   = errors.New("input bound by more than one connection")
	ErrInputNodeTarget    = errors.New("input node cannot be a connection target")
	ErrOutputArity        = errors.New("output node has more than one bound input")
	ErrDuplicateOutput    = errors.New("duplicate output key")
	ErrUnknownFunction    = errors.New("function not found in pool")
	ErrUnexpectedInput    = errors.New("input not declared by function")
	ErrUnresolvedVariable = errors.New("variable node was not resolved")
)

// StructuralError reports a malformed graph. It is fatal to compilation and
// never worth retrying with the same graph.
type StructuralError struct {
	// Err is one of the sentinel errors above.
	Err error
	// NodeID is the node the problem was found on, if any.
	NodeID string
	// Detail carries additional human-readable context.
	Detail string
}

func (e *StructuralError) Error() string {
	switch {
	case e.NodeID != "" && e.Detail != "":
		return fmt.Sprintf("structural error on node %q: %v: %s", e.NodeID, e.Err, e.Detail)
	case e.NodeID != "":
		return fmt.Sprintf("structural error on node %q: %v", e.NodeID, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("structural error: %v: %s", e.Err, e.Detail)
	default:
		return fmt.Sprintf("structural error: %v", e.Err)
	}
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// structural is a small constructor used by the validator.
func structural(err error, nodeID, format string, args ...any) *StructuralError {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &StructuralError{Err: err, NodeID: nodeID, Detail: detail}
}

// NewStructuralError creates a StructuralError for checks that live outside
// this package, such as function resolution at compile time.
func NewStructuralError(err error, nodeID, format string, args ...any) *StructuralError {
	return structural(err, nodeID, format, args...)
}
