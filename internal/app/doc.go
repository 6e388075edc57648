// Package app contains the core application logic. It wires the function
// pool, the plan cache and the loaders together and exposes the operations
// the CLI offers, decoupled from any specific entrypoint.
package app
