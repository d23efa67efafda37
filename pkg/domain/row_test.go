package domain

import (
	"errors"
	"testing"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"", LabelUnset, false},
		{"Yes", LabelYes, false},
		{"No", LabelNo, false},
		{"Maybe", LabelUnset, true},
		{"yes", LabelUnset, true}, // tokens are case sensitive
	}

	for _, tc := range cases {
		got, err := ParseLabel(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidLabel) {
				t.Errorf("ParseLabel(%q): expected ErrInvalidLabel, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLabel(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDataset_Validate(t *testing.T) {
	valid := Dataset{
		{ID: "a", Prompt: "p1", Response: "r1"},
		{ID: "b", Prompt: "p2", Response: "r2"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid dataset rejected: %v", err)
	}

	dup := Dataset{
		{ID: "a"},
		{ID: "a"},
	}
	if err := dup.Validate(); !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("expected ErrSchemaInvalid for duplicate IDs, got %v", err)
	}

	empty := Dataset{
		{ID: ""},
	}
	if err := empty.Validate(); !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("expected ErrSchemaInvalid for empty ID, got %v", err)
	}
}

func TestDataset_Find(t *testing.T) {
	d := Dataset{
		{ID: "a", Label: LabelYes},
		{ID: "b"},
	}

	if row := d.Find("b"); row == nil || row.ID != "b" {
		t.Errorf("Find(b) = %v", row)
	}
	if row := d.Find("missing"); row != nil {
		t.Errorf("Find(missing) should be nil, got %v", row)
	}

	// Find must return a pointer into the collection, not a copy.
	d.Find("b").Label = LabelNo
	if d[1].Label != LabelNo {
		t.Error("Find returned a detached copy")
	}
}

func TestProgress(t *testing.T) {
	d := Dataset{
		{ID: "a", Label: LabelYes},
		{ID: "b", Label: LabelNo},
		{ID: "c"},
	}

	p := NewProgress(d)
	if p.Labeled != 2 || p.Remaining != 1 || p.Total != 3 {
		t.Errorf("unexpected progress: %+v", p)
	}
	if p.Labeled+p.Remaining != p.Total {
		t.Errorf("accounting invariant broken: %+v", p)
	}
	if p.Complete() {
		t.Error("incomplete dataset reported as complete")
	}

	d[2].Label = LabelYes
	if !NewProgress(d).Complete() {
		t.Error("fully labeled dataset not reported as complete")
	}

	if got := NewProgress(nil).Ratio(); got != 0 {
		t.Errorf("empty dataset ratio = %v, want 0", got)
	}
}
