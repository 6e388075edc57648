package values

import (
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`2`, 2.0},
		{`-1.5`, -1.5},
		{`"text"`, "text"},
		{`true`, true},
		{`null`, nil},
		{`[1, 2, 3]`, []any{1.0, 2.0, 3.0}},
		{`{ a = "x", b = [true] }`, map[string]any{"a": "x", "b": []any{true}}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := ParseLiteral(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseLiteral(`[1,`)
		assert.ErrorContains(t, err, "invalid literal")
		_, err = ParseLiteral(`some_var`)
		assert.ErrorContains(t, err, "invalid literal")
	})
}

func TestFromGo(t *testing.T) {
	v, err := FromGo(map[string]any{"n": 1, "xs": []float64{1, 2}, "s": "x", "nil": nil})
	require.NoError(t, err)
	require.True(t, v.Type().IsObjectType())
	assert.True(t, v.GetAttr("n").RawEquals(cty.NumberIntVal(1)))
	assert.True(t, v.GetAttr("xs").RawEquals(cty.ListVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2)})))
	assert.True(t, v.GetAttr("nil").IsNull())

	_, err = FromGo(make(chan int))
	assert.ErrorContains(t, err, "unsupported type")

	same := cty.StringVal("x")
	got, err := FromGo(same)
	require.NoError(t, err)
	assert.True(t, got.RawEquals(same))
}

func TestToGo_Collections(t *testing.T) {
	set := cty.SetVal([]cty.Value{cty.StringVal("a")})
	got, err := ToGo(set)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got)

	got, err = ToGo(cty.UnknownVal(cty.String))
	require.NoError(t, err)
	assert.Nil(t, got)

	m := cty.MapVal(map[string]cty.Value{"k": cty.NumberIntVal(3)})
	got, err = ToGo(m)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 3.0}, got)
}

func TestEncodeHCL(t *testing.T) {
	src, err := EncodeHCL(map[string]any{"result": 5.0, "label": "sum", "batch": []float64{1, 2}})
	require.NoError(t, err)

	f, diags := hclparse.NewParser().ParseHCL(src, "out.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	attrs, diags := f.Body.JustAttributes()
	require.False(t, diags.HasErrors(), diags.Error())

	got := make(map[string]any)
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		require.False(t, diags.HasErrors())
		got[name], err = ToGo(v)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]any{"result": 5.0, "label": "sum", "batch": []any{1.0, 2.0}}, got)

	_, err = EncodeHCL(map[string]any{"not valid": 1})
	assert.ErrorContains(t, err, "not a valid HCL identifier")
}
