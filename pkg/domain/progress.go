package domain

// Progress is the aggregate accounting of a dataset snapshot.
// Labeled + Remaining == Total always holds.
type Progress struct {
	Labeled   int
	Remaining int
	Total     int
}

// NewProgress computes the progress of a dataset snapshot.
func NewProgress(d Dataset) Progress {
	labeled := d.Labeled()
	return Progress{
		Labeled:   labeled,
		Remaining: len(d) - labeled,
		Total:     len(d),
	}
}

// Complete reports whether every row has been labeled.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Remaining == 0
}

// Ratio returns the labeled fraction in [0, 1]. Empty datasets report 0.
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Labeled) / float64(p.Total)
}
