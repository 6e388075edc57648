// Package config defines the format-agnostic graph description: the raw
// node and connection records a graph editor produces, and the mapping from
// their field names onto graph.Node and graph.Connection.
//
// Concrete loaders for JSON, YAML and HCL live in the loader package; they
// all produce a *Description, which is then turned into a validated
// graph.Graph by Description.Graph.
package config
