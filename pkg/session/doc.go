// Package session implements the deterministic visitation order and cursor
// of a labeling run.
//
// The order is a pure function of the row-identifier set and a seed, which
// is the resume mechanism: a new session recomputes the identical order and
// therefore the identical notion of "next". If the identifier set changes
// between sessions the order for unaffected rows may shift; this drift is
// accepted rather than guarded against.
package session
