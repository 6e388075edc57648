package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel every CyclicGraphError unwraps to.
var ErrCycle = errors.New("dependency cycle detected")

// CyclicGraphError reports a dependency cycle. It is fatal to compilation.
type CyclicGraphError struct {
	// NodeID is a node that is part of the cycle.
	NodeID string
	// Path lists the cycle in data-flow order, starting and ending with the
	// same node. It is empty when only the offending node is known.
	Path []string
}

func (e *CyclicGraphError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%v involving node %q: %s", ErrCycle, e.NodeID, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("%v involving node %q", ErrCycle, e.NodeID)
}

func (e *CyclicGraphError) Unwrap() error {
	return ErrCycle
}
