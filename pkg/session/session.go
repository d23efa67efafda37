package session

import (
	"math/rand"
	"sort"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/google/uuid"
)

// DefaultSeed is the shuffle seed shared by all sessions. A fixed constant
// (not per-user) means every session over the same dataset snapshot sees
// the same presentation order, which is what makes resuming meaningful.
const DefaultSeed int64 = 42

// Session is the ephemeral state of one labeling run: the visitation order
// and the cursor. It holds nothing durable; labels live in the dataset
// store. Callers retain the session and pass it by reference into every
// controller operation.
type Session struct {
	// ID identifies the session in logs. It is never persisted.
	ID string

	// Order is a permutation of all row identifiers, fixed for the
	// session and reproducible across sessions (see DeriveOrder).
	Order []string

	// Cursor is the identifier of the row currently presented, or the
	// empty string when no unlabeled rows remain.
	Cursor string
}

// New creates a session over the given row identifiers. The cursor starts
// empty; call Advance with the current rows to position it.
func New(ids []string, seed int64) *Session {
	return &Session{
		ID:    uuid.NewString(),
		Order: DeriveOrder(ids, seed),
	}
}

// DeriveOrder produces a seeded pseudo-random permutation of the given
// identifiers. Same seed + same identifier set yields the same order,
// across process restarts and across machines: the input is sorted before
// shuffling so the result depends only on the set, not on file position.
func DeriveOrder(ids []string, seed int64) []string {
	order := append([]string(nil), ids...)
	sort.Strings(order)

	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// NextUnlabeled scans order and returns the first identifier whose row has
// no label, or the empty string if every row is labeled. A linear scan is
// fine here: datasets are small and the scan runs after mutations, not on
// every render.
func NextUnlabeled(order []string, rows domain.Dataset) string {
	for _, id := range order {
		if row := rows.Find(id); row != nil && !row.Label.IsSet() {
			return id
		}
	}
	return ""
}

// NextAfter returns the first unlabeled identifier in order that is not
// current, or the empty string if none exists. Used by Skip: the skipped
// row stays unlabeled and eligible.
func NextAfter(order []string, rows domain.Dataset, current string) string {
	for _, id := range order {
		if id == current {
			continue
		}
		if row := rows.Find(id); row != nil && !row.Label.IsSet() {
			return id
		}
	}
	return ""
}

// Advance repositions the cursor at the first unlabeled row in order.
func (s *Session) Advance(rows domain.Dataset) {
	s.Cursor = NextUnlabeled(s.Order, rows)
}

// Skip moves the cursor to the next unlabeled row that is not the current
// one and returns its identifier. If no such row exists the cursor is left
// unchanged and the empty string is returned. Skips are transient: nothing
// is reordered or persisted, so a restarted session presents from the
// first unlabeled row again.
func (s *Session) Skip(rows domain.Dataset) string {
	next := NextAfter(s.Order, rows, s.Cursor)
	if next != "" {
		s.Cursor = next
	}
	return next
}

// Restart places the cursor at the first identifier in order.
// Used after a reset, when every row is unlabeled again.
func (s *Session) Restart() {
	if len(s.Order) > 0 {
		s.Cursor = s.Order[0]
	} else {
		s.Cursor = ""
	}
}

// Exhausted reports whether no unlabeled row remains under the cursor.
func (s *Session) Exhausted() bool {
	return s.Cursor == ""
}
