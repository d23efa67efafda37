// Package csvfile implements ports.DatasetStore against a CSV file on the
// local filesystem. It is the canonical backing store: one data row per
// item, header ID,Prompts,Responses,Label, full-file rewrite as the only
// write mode.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/tally/pkg/domain"
)

// Column names of the persisted file. Label is optional on first load and
// synthesized by a one-time schema upgrade rewrite.
const (
	colID       = "ID"
	colPrompt   = "Prompts"
	colResponse = "Responses"
	colLabel    = "Label"
)

// Store implements ports.DatasetStore using a CSV file.
type Store struct {
	Path string
}

// New creates a Store for the given file path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Load reads the full collection. If the Label column is absent it is
// synthesized as unset for every row and the file is rewritten, so
// subsequent loads see the column present.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, s.Path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedData, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", domain.ErrMalformedData)
	}

	cols := indexColumns(records[0])
	var missing []string
	for _, name := range []string{colID, colPrompt, colResponse} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %v", domain.ErrSchemaInvalid, missing)
	}

	labelIdx, hasLabel := cols[colLabel]

	rows := make(domain.Dataset, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := domain.Row{
			ID:       rec[cols[colID]],
			Prompt:   rec[cols[colPrompt]],
			Response: rec[cols[colResponse]],
		}
		if hasLabel {
			label, err := domain.ParseLabel(rec[labelIdx])
			if err != nil {
				return nil, fmt.Errorf("%w: row %q: %v", domain.ErrMalformedData, row.ID, err)
			}
			row.Label = label
		}
		rows = append(rows, row)
	}

	// Schema upgrade: persist the Label column so external readers of the
	// file see it from now on.
	if !hasLabel {
		if err := s.write(rows); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// SetLabel performs the reload-mutate-rewrite cycle for a single row.
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

	return s.write(rows)
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
	return s.write(rows)
}

// write rewrites the full collection atomically: temp file in the same
// directory (same filesystem, required for atomic rename), fsync, rename.
// On any failure the prior file remains intact and the caller sees
// domain.ErrWriteFailed.
func (s *Store) write(rows domain.Dataset) error {
	dir := filepath.Dir(s.Path)

	tmp, err := os.CreateTemp(dir, ".tally-*.csv")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{colID, colPrompt, colResponse, colLabel}); err != nil {
		return fmt.Errorf("%w: write header: %v", domain.ErrWriteFailed, err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.ID, row.Prompt, row.Response, string(row.Label)}); err != nil {
			return fmt.Errorf("%w: write row %q: %v", domain.ErrWriteFailed, row.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", domain.ErrWriteFailed, err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %v", domain.ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", domain.ErrWriteFailed, err)
	}

	// On Windows os.Rename fails if the destination exists. The tiny
	// delete-then-rename window is acceptable compared to a partial write.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("%w: remove existing file for overwrite: %v", domain.ErrWriteFailed, err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("%w: rename temp file: %v", domain.ErrWriteFailed, err)
	}

	return nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}
