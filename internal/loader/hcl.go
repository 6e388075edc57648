package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/values"
)

// HCL loads descriptions written as blocks:
//
//	node "add" {
//	  type = "compute"
//	  uid  = "add"
//	}
//
//	connection {
//	  source      = "a"
//	  target      = "add"
//	  targetInput = "a"
//	}
//
// Attribute names are copied verbatim into the records, so the usual field
// mapping applies. The node label is stored under IDField.
type HCL struct {
	IDField string
}

// fileRoot is a struct used to decode all top-level blocks of a file.
type fileRoot struct {
	Nodes       []*nodeBlock       `hcl:"node,block"`
	Connections []*connectionBlock `hcl:"connection,block"`
}

type nodeBlock struct {
	ID     string   `hcl:"id,label"`
	Remain hcl.Body `hcl:",remain"`
}

type connectionBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

func (l *HCL) Load(ctx context.Context, path string) (*config.Description, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	idField := l.IDField
	if idField == "" {
		idField = "id"
	}

	d := &config.Description{}
	for _, n := range root.Nodes {
		record, err := attributes(n.Remain)
		if err != nil {
			return nil, fmt.Errorf("node %q in %s: %w", n.ID, path, err)
		}
		record[idField] = n.ID
		d.Nodes = append(d.Nodes, record)
	}
	for i, c := range root.Connections {
		record, err := attributes(c.Remain)
		if err != nil {
			return nil, fmt.Errorf("connection %d in %s: %w", i, path, err)
		}
		d.Connections = append(d.Connections, record)
	}

	logger.Debug("Decoded HCL description.", "file", path, "nodes", len(d.Nodes), "connections", len(d.Connections))
	return d, nil
}

// attributes evaluates every attribute of body as a literal.
func attributes(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	record := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		v, err := values.ToGo(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		record[name] = v
	}
	return record, nil
}
