// Package registry holds the function pool: the mapping from the function
// references used in graph descriptions (e.g. "add") to the Go functions
// that compute node values.
//
// A Registry is populated once at startup, usually by having each module
// register its functions, and is validated before any graph is compiled
// against it. After that it is only read, so a single Registry can back any
// number of compiled plans.
package registry
