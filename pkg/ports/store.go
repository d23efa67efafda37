package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// DatasetStore defines the interface for persisting the row collection.
// All reads and writes are whole-collection: a full reload or a full
// rewrite, never a partial patch. This keeps the durability contract
// simple: every successful mutation is visible to a subsequent Load.
type DatasetStore interface {
	// Load retrieves the full row collection.
	// Returns domain.ErrDatasetNotFound if the backing data is absent,
	// domain.ErrSchemaInvalid if required fields are missing, and
	// domain.ErrMalformedData if the data cannot be parsed.
	Load(ctx context.Context) (domain.Dataset, error)

	// SetLabel reloads the collection, sets the label of the row with the
	// given ID, and rewrites the collection. The rewrite is all-or-nothing:
	// on failure (domain.ErrWriteFailed) the prior contents remain intact.
	// Returns domain.ErrRowNotFound if the ID is absent at write time.
	SetLabel(ctx context.Context, id string, label domain.Label) error

	// ClearLabels sets every row's label to unset and rewrites.
	ClearLabels(ctx context.Context) error
}
