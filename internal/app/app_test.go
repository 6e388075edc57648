package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/hub"
	"github.com/specialistvlad/graphcompiler/internal/plan"
)

const sumGraph = `{
  "nodes": [
    {"id": "a", "type": "in"},
    {"id": "b", "type": "in"},
    {"id": "sum", "type": "compute", "uid": "add"},
    {"id": "show", "type": "compute", "uid": "print"},
    {"id": "unused", "type": "compute", "uid": "negate"},
    {"id": "result", "type": "out"}
  ],
  "connections": [
    {"source": "a", "target": "sum", "targetInput": "a"},
    {"source": "b", "target": "sum", "targetInput": "b"},
    {"source": "sum", "target": "show", "targetInput": "value"},
    {"source": "a", "target": "unused", "targetInput": "value"},
    {"source": "show", "target": "result", "targetInput": "value"}
  ]
}`

func writeGraph(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{Mapping: config.DefaultFieldMapping()})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"bad format", Config{LogFormat: "xml"}, "invalid log format"},
		{"bad level", Config{LogLevel: "trace"}, "invalid log level"},
		{"negative port", Config{HealthcheckPort: -1}, "healthcheck port"},
		{"negative ttl", Config{CacheTTL: -1}, "cache TTL"},
		{"negative cache size", Config{CacheSize: -1}, "cache size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Mapping = config.DefaultFieldMapping()
			_, err := NewConfig(tc.cfg)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	t.Run("incomplete mapping", func(t *testing.T) {
		m := config.DefaultFieldMapping()
		m.Target = ""
		_, err := NewConfig(Config{Mapping: m})
		assert.ErrorContains(t, err, "target field name must not be empty")
	})
}

func TestNewLogger(t *testing.T) {
	buf := &SafeBuffer{}
	newLogger("warn", "json", buf).Info("hidden")
	newLogger("warn", "json", buf).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf = &SafeBuffer{}
	newLogger("bogus", "text", buf).Info("fallback")
	assert.Contains(t, buf.String(), "msg=fallback")
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a, _, logs := SetupAppTest(t)
	for _, name := range []string{"add", "subtract", "multiply", "divide", "negate", "constant", "env_vars", "print"} {
		_, ok := a.Registry().Lookup(name)
		assert.True(t, ok, "function %q should be registered", name)
	}
	assert.Contains(t, logs.String(), "Registry validation passed.")
}

func TestRun(t *testing.T) {
	a, out, _ := SetupAppTest(t)
	path := writeGraph(t, "sum.json", sumGraph)

	outputs, err := a.Run(context.Background(), path, map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": 5.0}, outputs)
	assert.Equal(t, "      show = 5\n", out.String())

	t.Run("missing input", func(t *testing.T) {
		_, err := a.Run(context.Background(), path, map[string]any{"a": 2.0})
		var missing *plan.MissingExternalInputError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "b", missing.Key)
	})
}

func TestCompile(t *testing.T) {
	a, _, _ := SetupAppTest(t)

	p, err := a.Compile(context.Background(), writeGraph(t, "sum.json", sumGraph))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "sum", "show", "result"}, p.Order())
	assert.Equal(t, []string{"a", "b"}, p.InputKeys())

	_, err = a.Compile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to load graph description")

	_, err = a.Compile(context.Background(), writeGraph(t, "graph.toml", ""))
	assert.ErrorContains(t, err, "unsupported description format")
}

func TestExport(t *testing.T) {
	a, _, _ := SetupAppTest(t)
	path := writeGraph(t, "sum.json", sumGraph)

	mermaid, err := a.Export(context.Background(), path, FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, string(mermaid), "graph LR")
	assert.NotContains(t, string(mermaid), "unused")

	doc, err := a.Export(context.Background(), path, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"order"`)
	assert.NotContains(t, string(doc), "unused")

	_, err = a.Export(context.Background(), path, "dot")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestHealthHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	// Disabled server is a no-op on both ends.
	a.healthCheckServer()
	assert.Nil(t, a.httpServer)
	assert.NoError(t, a.closeHealthCheckServer())
}

func TestAttach_DialFailure(t *testing.T) {
	a, _, _ := SetupAppTest(t)
	err := a.Attach(context.Background(), hub.Options{URL: "not a url"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
