package tally

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/tally/internal/adapters/csvfile"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
)

// Controller is the high-level entry point for the Tally library.
// It owns the deterministic visitation order, cursor selection and progress
// accounting, and delegates all durable state to the dataset store. The
// in-memory dataset snapshot is refreshed after every mutation; labels are
// never served from a write-behind cache.
type Controller struct {
	store  ports.DatasetStore
	seed   int64
	logger *slog.Logger
	Name   string

	mu   sync.RWMutex
	rows domain.Dataset
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithStore injects a custom DatasetStore, bypassing the default CSV adapter.
func WithStore(store ports.DatasetStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithSeed overrides the shuffle seed. All sessions sharing a seed see the
// same presentation order for a given dataset snapshot.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.seed = seed
	}
}

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New initializes a new Controller.
// By default it uses a CSV store at the given path. If the WithStore option
// is provided, path can be empty and the CSV adapter is skipped.
func New(path string, opts ...Option) (*Controller, error) {
	c := &Controller{seed: session.DefaultSeed}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		if path == "" {
			return nil, fmt.Errorf("dataset path is required when no custom store is provided")
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		c.Name = filepath.Base(absPath)
		c.store = csvfile.New(absPath)
	} else if path != "" {
		c.Name = filepath.Base(path)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.Name != "" {
		c.logger = c.logger.With("dataset", c.Name)
	}

	return c, nil
}

// Start loads the dataset, validates its invariants, derives the visitation
// order and positions the cursor at the first unlabeled row. The returned
// session must be passed by reference into every subsequent operation.
func (c *Controller) Start(ctx context.Context) (*session.Session, error) {
	rows, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := rows.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rows = rows
	c.mu.Unlock()

	s := session.New(rows.IDs(), c.seed)
	s.Advance(rows)

	c.logger.Info("session started",
		"session_id", s.ID,
		"total", len(rows),
		"remaining", len(rows)-rows.Labeled(),
	)
	return s, nil
}

// Current returns the row under the session cursor, or nil when no
// unlabeled row remains.
func (c *Controller) Current(s *session.Session) *domain.Row {
	if s.Exhausted() {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rows.Find(s.Cursor)
}

// Label persists the given value for the row and advances the cursor to
// the next unlabeled row. On store failure the cursor is left unchanged
// and the error surfaces: the action is not applied and not retried.
func (c *Controller) Label(ctx context.Context, s *session.Session, id string, value domain.Label) error {
	if !value.IsSet() {
		return fmt.Errorf("%w: a label action requires a set value", domain.ErrInvalidLabel)
	}

	if err := c.store.SetLabel(ctx, id, value); err != nil {
		c.logger.Warn("label not applied", "session_id", s.ID, "row", id, "err", err)
		return err
	}

	rows, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rows = rows
	c.mu.Unlock()

	s.Advance(rows)
	c.logger.Debug("row labeled", "session_id", s.ID, "row", id, "value", string(value))
	return nil
}

// Skip advances the cursor to the next unlabeled row without writing
// anything, and returns its identifier. The empty string means there is no
// other unlabeled row to move to. Skips do not survive a session restart.
func (c *Controller) Skip(s *session.Session) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return s.Skip(c.rows)
}

// Reset clears every label and places the cursor at the first row in the
// visitation order.
func (c *Controller) Reset(ctx context.Context, s *session.Session) error {
	if err := c.store.ClearLabels(ctx); err != nil {
		return err
	}

	rows, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rows = rows
	c.mu.Unlock()

	s.Restart()
	c.logger.Info("labels cleared", "session_id", s.ID, "total", len(rows))
	return nil
}

// Progress returns the accounting of the current dataset snapshot.
func (c *Controller) Progress() domain.Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.NewProgress(c.rows)
}

// Store returns the underlying dataset store.
func (c *Controller) Store() ports.DatasetStore {
	return c.store
}
