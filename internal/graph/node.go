package graph

// Kind classifies a node. Any value other than the constants below denotes a
// compute node.
type Kind string

const (
	KindIn       Kind = "in"
	KindOut      Kind = "out"
	KindVariable Kind = "variable"
)

// Node is a single unit of computation or I/O boundary.
type Node struct {
	ID          string
	Kind        Kind
	FunctionRef string
	// Alias overrides the key under which an `out` node's value is returned.
	Alias string
	// Default is used by `in` nodes when the external input is absent.
	Default    any
	HasDefault bool
	// Config is the node's raw description, handed to node functions as-is.
	Config map[string]any
}

// IsCompute reports whether the node's value comes from the function pool.
func (n Node) IsCompute() bool {
	switch n.Kind {
	case KindIn, KindOut, KindVariable:
		return false
	}
	return true
}

// ExternalKey is the key an `in` node reads from the external inputs.
func (n Node) ExternalKey() string {
	if n.FunctionRef != "" {
		return n.FunctionRef
	}
	return n.ID
}

// OutputKey is the key an `out` node's value is returned under: its alias,
// else its function key, else its ID.
func (n Node) OutputKey() string {
	if n.Alias != "" {
		return n.Alias
	}
	if n.FunctionRef != "" {
		return n.FunctionRef
	}
	return n.ID
}

// Connection binds the output of Source to the TargetInput slot of Target.
// When SourceOutput is set, the source is expected to produce a
// map[string]any and only that entry is bound.
type Connection struct {
	Source       string
	SourceOutput string
	Target       string
	TargetInput  string
}
