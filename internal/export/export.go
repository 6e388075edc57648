// Package export renders graphs for humans and other tools.
package export

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

// Mermaid exports the graph to Mermaid flowchart syntax. Input nodes are
// drawn as stadiums, output nodes as subroutines and compute nodes as
// rectangles labelled with their function; edges carry the target input
// name, prefixed by the source output when one is selected.
func Mermaid(g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("graph LR\n")

	ref := make(map[string]string, g.Len())
	for i, n := range g.Nodes() {
		id := fmt.Sprintf("n%d", i)
		ref[n.ID] = id

		label := escape(n.ID)
		switch n.Kind {
		case graph.KindIn:
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", id, label))
		case graph.KindOut:
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, label))
		case graph.KindVariable:
			sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", id, label))
		default:
			sb.WriteString(fmt.Sprintf("    %s[\"%s<br/>%s\"]\n", id, label, escape(n.FunctionRef)))
		}
	}

	for _, c := range g.Connections() {
		label := c.TargetInput
		if c.SourceOutput != "" {
			label = c.SourceOutput + ":" + label
		}
		sb.WriteString(fmt.Sprintf("    %s -->|\"%s\"| %s\n", ref[c.Source], escape(label), ref[c.Target]))
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// Document is the JSON shape of an exported graph.
type Document struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	// Order is the execution schedule, when known.
	Order []string `json:"order,omitempty"`
}

// Node is the JSON shape of a graph.Node.
type Node struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	FunctionRef string `json:"function,omitempty"`
	OutputKey   string `json:"output_key,omitempty"`
}

// Connection is the JSON shape of a graph.Connection.
type Connection struct {
	Source       string `json:"source"`
	SourceOutput string `json:"source_output,omitempty"`
	Target       string `json:"target"`
	TargetInput  string `json:"target_input"`
}

// NewDocument builds the exported form of g.
func NewDocument(g *graph.Graph, order []string) Document {
	doc := Document{
		Nodes:       make([]Node, 0, g.Len()),
		Connections: make([]Connection, 0, len(g.Connections())),
		Order:       order,
	}
	for _, n := range g.Nodes() {
		en := Node{ID: n.ID, Kind: string(n.Kind), FunctionRef: n.FunctionRef}
		if n.Kind == graph.KindOut {
			en.OutputKey = n.OutputKey()
		}
		doc.Nodes = append(doc.Nodes, en)
	}
	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, Connection(c))
	}
	return doc
}

// JSON exports the graph, and optionally its schedule, as indented JSON.
func JSON(g *graph.Graph, order []string) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(NewDocument(g, order), "", "  ")
}
