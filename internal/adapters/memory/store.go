// Package memory provides an in-memory DatasetStore, used for tests and
// for embedding the controller without a backing file.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
)

// Store implements ports.DatasetStore over an in-memory row collection.
type Store struct {
	mu   sync.Mutex
	rows domain.Dataset
}

// New creates a Store seeded with a copy of the given rows.
// A nil dataset models an absent backing store: Load fails until seeded.
func New(rows domain.Dataset) *Store {
	s := &Store{}
	if rows != nil {
		s.rows = rows.Clone()
	}
	return s
}

// Load returns a copy of the collection, simulating a fresh file read.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows == nil {
		return nil, domain.ErrDatasetNotFound
	}
	return s.rows.Clone(), nil
}

// SetLabel mutates the label of the row with the given ID.
func (s *Store) SetLabel(ctx context.Context, id string, label domain.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows.Find(id)
	if row == nil {
		return fmt.Errorf("%w: %q", domain.ErrRowNotFound, id)
	}
	row.Label = label
	return nil
}

// ClearLabels resets every label to unset.
func (s *Store) ClearLabels(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		s.rows[i].Label = domain.LabelUnset
	}
	return nil
}
