package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/graphcompiler/internal/config"
)

const jsonDesc = `{
  "nodes": [
    {"id": "a", "type": "in", "uid": "a"},
    {"id": "b", "type": "in", "uid": "b", "default": 3},
    {"id": "add", "type": "compute", "uid": "add"},
    {"id": "result", "type": "out", "uid": "result"}
  ],
  "connections": [
    {"source": "a", "target": "add", "targetInput": "a"},
    {"source": "b", "target": "add", "targetInput": "b"},
    {"source": "add", "target": "result", "targetInput": "value"}
  ]
}`

const yamlDesc = `
nodes:
  - {id: a, type: in, uid: a}
  - {id: b, type: in, uid: b, default: 3}
  - {id: add, type: compute, uid: add}
  - {id: result, type: out, uid: result}
connections:
  - {source: a, target: add, targetInput: a}
  - {source: b, target: add, targetInput: b}
  - {source: add, target: result, targetInput: value}
`

const hclDesc = `
node "a" {
  type = "in"
  uid  = "a"
}
node "b" {
  type    = "in"
  uid     = "b"
  default = 3
}
node "add" {
  type = "compute"
  uid  = "add"
}
node "result" {
  type = "out"
  uid  = "result"
}

connection {
  source      = "a"
  target      = "add"
  targetInput = "a"
}
connection {
  source      = "b"
  target      = "add"
  targetInput = "b"
}
connection {
  source      = "add"
  target      = "result"
  targetInput = "value"
}
`

func want() *config.Description {
	return &config.Description{
		Nodes: []map[string]any{
			{"id": "a", "type": "in", "uid": "a"},
			{"id": "b", "type": "in", "uid": "b", "default": 3.0},
			{"id": "add", "type": "compute", "uid": "add"},
			{"id": "result", "type": "out", "uid": "result"},
		},
		Connections: []map[string]any{
			{"source": "a", "target": "add", "targetInput": "a"},
			{"source": "b", "target": "add", "targetInput": "b"},
			{"source": "add", "target": "result", "targetInput": "value"},
		},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"graph.json": jsonDesc,
		"graph.yaml": yamlDesc,
		"graph.yml":  yamlDesc,
		"graph.hcl":  hclDesc,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name, content)
			got, err := Load(context.Background(), path, config.DefaultFieldMapping())
			require.NoError(t, err)
			if diff := cmp.Diff(want(), got); diff != "" {
				t.Errorf("description mismatch (-want +got):\n%s", diff)
			}

			g, err := got.Graph(config.DefaultFieldMapping())
			require.NoError(t, err)
			assert.Equal(t, 4, g.Len())
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-nodes.hcl", `
node "x" {
  type = "in"
}
node "y" {
  type = "out"
  data = { label = "final", tags = ["a", "b"] }
}
`)
	writeFile(t, dir, "2-conns.json", `{"connections": [{"source": "x", "target": "y", "targetInput": "value"}]}`)
	writeFile(t, dir, "notes.txt", "ignored")

	d, err := Load(context.Background(), dir, config.DefaultFieldMapping())
	require.NoError(t, err)
	require.Len(t, d.Nodes, 2)
	require.Len(t, d.Connections, 1)
	assert.Equal(t, map[string]any{"label": "final", "tags": []any{"a", "b"}}, d.Nodes[1]["data"])

	_, err = d.Graph(config.DefaultFieldMapping())
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	m := config.DefaultFieldMapping()

	_, err := Load(context.Background(), writeFile(t, dir, "g.txt", ""), m)
	assert.ErrorContains(t, err, `unsupported description format ".txt"`)

	_, err = Load(context.Background(), writeFile(t, dir, "bad.json", `{"nodes": [`), m)
	assert.ErrorContains(t, err, "failed to decode JSON file")

	_, err = Load(context.Background(), writeFile(t, dir, "bad.yaml", "nodes: [\n"), m)
	assert.ErrorContains(t, err, "failed to decode YAML file")

	_, err = Load(context.Background(), writeFile(t, dir, "bad.hcl", `node "a" {`), m)
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(context.Background(), writeFile(t, dir, "unknown.hcl", `edge {}`), m)
	assert.ErrorContains(t, err, "failed to decode HCL file")

	_, err = Load(context.Background(), writeFile(t, dir, "var.hcl", "node \"a\" {\n  type = some.var\n}\n"), m)
	assert.ErrorContains(t, err, `node "a"`)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.json"), m)
	assert.Error(t, err)

	_, err = Load(context.Background(), t.TempDir(), m)
	assert.ErrorContains(t, err, "no graph description files found")
}

func TestHCL_IDField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "g.hcl", "node \"n1\" {\n  kind = \"in\"\n}\n")

	d, err := (&HCL{IDField: "key"}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"key": "n1", "kind": "in"}}, d.Nodes)
}
