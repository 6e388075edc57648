package registry

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

// Results is a read-only view of the values computed so far during a single
// execution, keyed by node ID.
type Results interface {
	Get(id string) (any, bool)
	IDs() []string
	Len() int
}

// Func computes the value of a node from its bound inputs. It receives the
// node itself (including its raw Config) and a view of the results computed
// earlier in the same execution.
type Func func(node graph.Node, inputs map[string]any, results Results) (any, error)

// Input declares one named input slot of a Function.
type Input struct {
	Name string
	// Type constrains the bound value. cty.NilType and cty.DynamicPseudoType
	// accept anything.
	Type       cty.Type
	Default    any
	HasDefault bool
	// Optional inputs without a default are omitted when unconnected.
	Optional bool
}

// Function is a registered node function. When Inputs is empty the
// function accepts whatever its node's connections provide.
type Function struct {
	Name        string
	Description string
	Fn          Func
	Inputs      []Input
}

// Input returns the declared input with the given name.
func (f *Function) Input(name string) (Input, bool) {
	for _, in := range f.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Module is the interface that all function modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps function references to Functions.
type Registry struct {
	functions map[string]*Function
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{functions: make(map[string]*Function)}
}

// FromFuncs builds a Registry from bare functions without declared inputs.
func FromFuncs(funcs map[string]Func) *Registry {
	r := New()
	for name, fn := range funcs {
		r.RegisterFunc(name, fn)
	}
	return r
}

// Register adds a function under name. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(name string, fn *Function) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	if fn.Name == "" {
		fn.Name = name
	}
	slog.Debug("Registering function.", "name", name, "inputs", len(fn.Inputs))
	r.functions[name] = fn
}

// RegisterFunc is a shorthand for registering a Func without declared inputs.
func (r *Registry) RegisterFunc(name string, fn Func) {
	r.Register(name, &Function{Name: name, Fn: fn})
}

// RegisterModules lets each module register its functions.
func (r *Registry) RegisterModules(modules ...Module) *Registry {
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.functions)
}
