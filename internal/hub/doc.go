// Package hub attaches the compiler to a graph editor through a Socket.IO
// server. The editor emits an evaluate event carrying a graph description
// and input values; the hub compiles the graph (through the plan cache),
// executes it and emits a result event with the outputs or a classified
// error. Progress events are emitted while a plan runs.
package hub
