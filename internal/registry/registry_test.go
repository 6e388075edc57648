package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

func identity(_ graph.Node, inputs map[string]any, _ Results) (any, error) {
	return inputs["value"], nil
}

type testModule struct{}

func (testModule) Register(r *Registry) {
	r.Register("double", &Function{
		Description: "Doubles a number.",
		Inputs:      []Input{{Name: "value", Type: cty.Number}},
		Fn: func(_ graph.Node, inputs map[string]any, _ Results) (any, error) {
			v, ok := inputs["value"].(float64)
			if !ok {
				return nil, errors.New("not a number")
			}
			return v * 2, nil
		},
	})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()
	r.RegisterFunc("identity", identity)
	r.RegisterModules(testModule{})

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"double", "identity"}, r.Names())

	fn, ok := r.Lookup("double")
	require.True(t, ok)
	assert.Equal(t, "double", fn.Name)
	in, ok := fn.Input("value")
	require.True(t, ok)
	assert.True(t, in.Type.Equals(cty.Number))
	_, ok = fn.Input("other")
	assert.False(t, ok)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterFunc("identity", identity)
	assert.PanicsWithValue(t, "function with name 'identity' already registered", func() {
		r.RegisterFunc("identity", identity)
	})
}

func TestFromFuncs(t *testing.T) {
	r := FromFuncs(map[string]Func{"a": identity, "b": identity})
	assert.Equal(t, []string{"a", "b"}, r.Names())
	require.NoError(t, r.Validate(context.Background()))
}

func TestValidate(t *testing.T) {
	r := New()
	r.Register("nofn", &Function{})
	r.Register("dupes", &Function{Fn: identity, Inputs: []Input{{Name: "x"}, {Name: "x"}, {}}})
	r.Register("baddefault", &Function{Fn: identity, Inputs: []Input{
		{Name: "n", Type: cty.Number, Default: "seven", HasDefault: true},
	}})
	r.Register("ok", &Function{Fn: identity, Inputs: []Input{
		{Name: "n", Type: cty.Number, Default: 7.0, HasDefault: true},
		{Name: "any", Type: cty.DynamicPseudoType, Default: "anything", HasDefault: true},
	}})

	err := r.Validate(context.Background())
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "function 'nofn': no Go implementation registered")
	assert.Contains(t, msg, "function 'dupes': input 'x' declared more than once")
	assert.Contains(t, msg, "function 'dupes': input at position 2 has no name")
	assert.Contains(t, msg, "function 'baddefault', input 'n': default does not match declared type")
	assert.NotContains(t, msg, "'ok'")
}

func TestCheckValue(t *testing.T) {
	assert.NoError(t, CheckValue(cty.NilType, struct{}{}))
	assert.NoError(t, CheckValue(cty.DynamicPseudoType, 1))
	assert.NoError(t, CheckValue(cty.Number, 2.5))
	assert.NoError(t, CheckValue(cty.String, "x"))
	assert.Error(t, CheckValue(cty.Number, "x"))
	assert.Error(t, CheckValue(cty.Bool, 1.0))
}
