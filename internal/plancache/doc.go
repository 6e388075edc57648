// Package plancache avoids recompiling graphs that were compiled before.
//
// Descriptions are identified by a structural fingerprint. Compiled plans
// are kept in process in a bounded LRU keyed by fingerprint; their schedules
// (plan.Manifest) can additionally be shared through a Store, e.g. Redis, so
// that other processes only need to rebind a known schedule instead of
// analysing the graph again.
package plancache
