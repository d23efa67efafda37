package domain

import "fmt"

// Label is the annotator's categorical judgment for a row.
// The wire tokens ("Yes"/"No") match the persisted CSV cells; an empty
// string means the row has not been judged yet.
type Label string

const (
	LabelUnset Label = ""
	LabelYes   Label = "Yes"
	LabelNo    Label = "No"
)

// IsSet reports whether the label has been assigned.
func (l Label) IsSet() bool {
	return l != LabelUnset
}

// ParseLabel converts a wire token into a Label.
// It accepts the empty string (unset) and the two known tokens.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelUnset, LabelYes, LabelNo:
		return Label(s), nil
	}
	return LabelUnset, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
}

// Row is one dataset record. ID, Prompt and Response are immutable;
// only Label is ever mutated.
type Row struct {
	ID       string
	Prompt   string
	Response string
	Label    Label
}

// Dataset is the full row collection. The row count is fixed for the
// lifetime of a session; operations mutate labels, never membership.
type Dataset []Row

// IDs returns the row identifiers in collection order.
func (d Dataset) IDs() []string {
	ids := make([]string, len(d))
	for i, r := range d {
		ids[i] = r.ID
	}
	return ids
}

// Find returns a pointer to the row with the given ID, or nil.
func (d Dataset) Find(id string) *Row {
	for i := range d {
		if d[i].ID == id {
			return &d[i]
		}
	}
	return nil
}

// Labeled returns the number of rows with an assigned label.
func (d Dataset) Labeled() int {
	n := 0
	for _, r := range d {
		if r.Label.IsSet() {
			n++
		}
	}
	return n
}

// Validate checks collection invariants: every row has a non-empty ID and
// IDs are unique. ID is the join key for all writes, so duplicates would
// make point mutations ambiguous.
func (d Dataset) Validate() error {
	seen := make(map[string]bool, len(d))
	for i, r := range d {
		if r.ID == "" {
			return fmt.Errorf("%w: row %d has an empty ID", ErrSchemaInvalid, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate row ID %q", ErrSchemaInvalid, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}
