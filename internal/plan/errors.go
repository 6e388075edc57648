package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrUnboundInput is the sentinel every UnboundInputError unwraps to.
	ErrUnboundInput = errors.New("unbound input")
	// ErrMissingInput is the sentinel every MissingExternalInputError unwraps to.
	ErrMissingInput = errors.New("missing external input")
	// ErrStaleManifest is returned by Restore when a manifest no longer fits
	// the graph it is restored against.
	ErrStaleManifest = errors.New("manifest does not match graph")
)

// UnboundInputError reports a required input of a live node that has no
// connection and no default. It is detected at compile time.
type UnboundInputError struct {
	NodeID string
	Input  string
}

func (e *UnboundInputError) Error() string {
	return fmt.Sprintf("%v %q on node %q", ErrUnboundInput, e.Input, e.NodeID)
}

func (e *UnboundInputError) Unwrap() error {
	return ErrUnboundInput
}

// MissingExternalInputError reports an `in` node whose key is absent from
// the external inputs and which declares no default.
type MissingExternalInputError struct {
	Key    string
	NodeID string
}

func (e *MissingExternalInputError) Error() string {
	return fmt.Sprintf("%v %q required by node %q", ErrMissingInput, e.Key, e.NodeID)
}

func (e *MissingExternalInputError) Unwrap() error {
	return ErrMissingInput
}

// NodeExecutionError wraps a failure raised while producing a node's value.
// Execution stops at the first one.
type NodeExecutionError struct {
	NodeID      string
	FunctionRef string
	Err         error
}

func (e *NodeExecutionError) Error() string {
	if e.FunctionRef == "" {
		return fmt.Sprintf("node %q failed: %v", e.NodeID, e.Err)
	}
	return fmt.Sprintf("node %q (%s) failed: %v", e.NodeID, e.FunctionRef, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// panicError carries a recovered panic value and the stack it was raised on.
type panicError struct {
	info  any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v\nstack: %s", p.info, p.stack)
}
