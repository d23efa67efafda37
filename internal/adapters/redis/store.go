// Package redis implements ports.DatasetStore against a Redis value.
//
// The whole collection is stored as a single JSON value, mirroring the
// full-reload/full-rewrite contract of the CSV adapter: SET replaces the
// collection atomically, so a concurrent reader never observes a partial
// write. Useful when the dataset should live off the annotator's disk.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tally/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.DatasetStore using Redis.
type Store struct {
	client *backend.Client
	key    string
}

type Option func(*Store)

// WithKey sets the Redis key holding the collection.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    "tally:dataset",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// storedRow is the persisted shape of a row.
type storedRow struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	Label    string `json:"label"`
}

// Load retrieves the full collection.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: redis key %q", domain.ErrDatasetNotFound, s.key)
		}
		return nil, fmt.Errorf("failed to get dataset from redis: %w", err)
	}

	var stored []storedRow
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedData, err)
	}

	rows := make(domain.Dataset, 0, len(stored))
	for _, sr := range stored {
		label, err := domain.ParseLabel(sr.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q: %v", domain.ErrMalformedData, sr.ID, err)
		}
		rows = append(rows, domain.Row{
			ID:       sr.ID,
			Prompt:   sr.Prompt,
			Response: sr.Response,
			Label:    label,
		})
	}
	return rows, nil
}

// SetLabel performs the reload-mutate-rewrite cycle for a single row.
// Writes are not coordinated between concurrent sessions: the last full
// rewrite wins, same as the CSV adapter.
func (s *Store) SetLabel(ctx context.Context, id string, label domain.Label) error {
	rows, err := s.Load(ctx)
	if err != nil {
		return err
	}

	row := rows.Find(id)
	if row == nil {
		return fmt.Errorf("%w: %q", domain.ErrRowNotFound, id)
	}
	row.Label = label

	return s.write(ctx, rows)
}

// ClearLabels sets every row's label to unset and rewrites.
func (s *Store) ClearLabels(ctx context.Context) error {
	rows, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].Label = domain.LabelUnset
	}
	return s.write(ctx, rows)
}

// Init seeds the collection, replacing whatever is stored under the key.
// Intended for dataset import and tests.
func (s *Store) Init(ctx context.Context, rows domain.Dataset) error {
	return s.write(ctx, rows)
}

func (s *Store) write(ctx context.Context, rows domain.Dataset) error {
	stored := make([]storedRow, len(rows))
	for i, r := range rows {
		stored[i] = storedRow{ID: r.ID, Prompt: r.Prompt, Response: r.Response, Label: string(r.Label)}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrWriteFailed, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
