// Package ports defines the driven-side interfaces of the Tally engine.
//
// Adapters (CSV file, Redis, in-memory) implement these interfaces so the
// session controller stays decoupled from any particular storage backend.
package ports
