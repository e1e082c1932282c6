package domain

import (
	"fmt"
)

// SourceFile is a handle to one acquisition session's container.
// Handles compare and sort by Path.
type SourceFile struct {
	Path string
}

func (f SourceFile) String() string {
	return f.Path
}

// Spectrum is a row-major table of channel-binned readings.
// Row i holds the counts of sample i.
type Spectrum struct {
	Rows int
	Cols int
	Data []float64
}

// NewSpectrum builds a table from equally sized rows
func NewSpectrum(rows [][]float64) (*Spectrum, error) {
	s := &Spectrum{Rows: len(rows)}
	if len(rows) == 0 {
		return s, nil
	}

	s.Cols = len(rows[0])
	s.Data = make([]float64, 0, len(rows)*s.Cols)
	for i, row := range rows {
		if len(row) != s.Cols {
			return nil, fmt.Errorf("%w: row %d has %d channels, want %d", ErrMalformedRecord, i, len(row), s.Cols)
		}
		s.Data = append(s.Data, row...)
	}

	return s, nil
}

// Row returns a view of row i. The slice shares storage with the table.
func (s *Spectrum) Row(i int) []float64 {
	return s.Data[i*s.Cols : (i+1)*s.Cols]
}

// Gather copies exactly the rows at indices, in the given order.
func (s *Spectrum) Gather(indices []int) (*Spectrum, error) {
	out := &Spectrum{
		Rows: len(indices),
		Cols: s.Cols,
		Data: make([]float64, 0, len(indices)*s.Cols),
	}
	for _, i := range indices {
		if i < 0 || i >= s.Rows {
			return nil, fmt.Errorf("%w: row index %d out of range [0, %d)", ErrMalformedRecord, i, s.Rows)
		}
		out.Data = append(out.Data, s.Row(i)...)
	}
	return out, nil
}

// Validate checks that Data matches the declared shape
func (s *Spectrum) Validate() error {
	if s.Rows < 0 || s.Cols < 0 {
		return fmt.Errorf("%w: negative shape %dx%d", ErrMalformedRecord, s.Rows, s.Cols)
	}
	if len(s.Data) != s.Rows*s.Cols {
		return fmt.Errorf("%w: %d values for shape %dx%d", ErrMalformedRecord, len(s.Data), s.Rows, s.Cols)
	}
	return nil
}

// DetectorRecord is the aligned (timestamps, spectrum) pair one file holds
// for one detector. Timestamps are Unix seconds and need not be sorted.
type DetectorRecord struct {
	Detector   string
	Timestamps []int64
	Spectrum   *Spectrum
}

// Validate enforces len(Timestamps) == Spectrum.Rows
func (r *DetectorRecord) Validate() error {
	if r.Spectrum == nil {
		return fmt.Errorf("%w: %s has no spectrum", ErrMalformedRecord, r.Detector)
	}
	if err := r.Spectrum.Validate(); err != nil {
		return err
	}
	if len(r.Timestamps) != r.Spectrum.Rows {
		return fmt.Errorf("%w: %s has %d timestamps but %d spectrum rows",
			ErrMalformedRecord, r.Detector, len(r.Timestamps), r.Spectrum.Rows)
	}
	return nil
}

// TimeExtent returns the smallest and largest timestamp.
// ok is false when the record is empty.
func TimeExtent(timestamps []int64) (min, max int64, ok bool) {
	if len(timestamps) == 0 {
		return 0, 0, false
	}

	min, max = timestamps[0], timestamps[0]
	for _, t := range timestamps[1:] {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	return min, max, true
}
