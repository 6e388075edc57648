// Package arith provides elementwise arithmetic node functions. Every
// operand may be a scalar or a batch ([]float64 or []any of numbers); a
// scalar is broadcast against a batch, two batches must have equal length.
package arith

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ErrDivisionByZero is returned by divide.
var ErrDivisionByZero = errors.New("division by zero")

// operand is a scalar or a batch.
type operand struct {
	scalar  float64
	batch   []float64
	isBatch bool
}

func toOperand(v any) (operand, error) {
	switch t := v.(type) {
	case float64:
		return operand{scalar: t}, nil
	case int:
		return operand{scalar: float64(t)}, nil
	case []float64:
		return operand{batch: t, isBatch: true}, nil
	case []any:
		batch := make([]float64, len(t))
		for i, e := range t {
			switch n := e.(type) {
			case float64:
				batch[i] = n
			case int:
				batch[i] = float64(n)
			default:
				return operand{}, fmt.Errorf("element %d: expected a number, got %T", i, e)
			}
		}
		return operand{batch: batch, isBatch: true}, nil
	default:
		return operand{}, fmt.Errorf("expected a number or a batch of numbers, got %T", v)
	}
}

func (o operand) len() int {
	if o.isBatch {
		return len(o.batch)
	}
	return 1
}

func (o operand) at(i int) float64 {
	if o.isBatch {
		return o.batch[i]
	}
	return o.scalar
}

// broadcast applies op elementwise. The result is a float64 when both
// operands are scalars and a []float64 otherwise.
func broadcast(a, b any, op func(x, y float64) (float64, error)) (any, error) {
	x, err := toOperand(a)
	if err != nil {
		return nil, err
	}
	y, err := toOperand(b)
	if err != nil {
		return nil, err
	}

	if !x.isBatch && !y.isBatch {
		return op(x.scalar, y.scalar)
	}

	n := max(x.len(), y.len())
	if x.isBatch && y.isBatch && x.len() != y.len() {
		return nil, fmt.Errorf("batch length mismatch: %d and %d", x.len(), y.len())
	}
	out := make([]float64, n)
	for i := range out {
		if out[i], err = op(x.at(i), y.at(i)); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func binary(left, right string, op func(x, y float64) (float64, error)) registry.Func {
	return func(_ graph.Node, inputs map[string]any, _ registry.Results) (any, error) {
		return broadcast(inputs[left], inputs[right], op)
	}
}

func inputs(names ...string) []registry.Input {
	in := make([]registry.Input, len(names))
	for i, name := range names {
		in[i] = registry.Input{Name: name}
	}
	return in
}

// Register registers the arithmetic functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register("add", &registry.Function{
		Description: "a + b",
		Inputs:      inputs("a", "b"),
		Fn:          binary("a", "b", func(x, y float64) (float64, error) { return x + y, nil }),
	})
	r.Register("subtract", &registry.Function{
		Description: "a - b",
		Inputs:      inputs("a", "b"),
		Fn:          binary("a", "b", func(x, y float64) (float64, error) { return x - y, nil }),
	})
	r.Register("multiply", &registry.Function{
		Description: "x * y",
		Inputs:      inputs("x", "y"),
		Fn:          binary("x", "y", func(x, y float64) (float64, error) { return x * y, nil }),
	})
	r.Register("divide", &registry.Function{
		Description: "a / b",
		Inputs:      inputs("a", "b"),
		Fn: binary("a", "b", func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, ErrDivisionByZero
			}
			return x / y, nil
		}),
	})
	r.Register("negate", &registry.Function{
		Description: "-value",
		Inputs:      inputs("value"),
		Fn: func(_ graph.Node, in map[string]any, _ registry.Results) (any, error) {
			return broadcast(-1.0, in["value"], func(x, y float64) (float64, error) { return x * y, nil })
		},
	})
}
