package query

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// FileContribution describes what one source file added to a result
type FileContribution struct {
	Path     string
	Found    bool // the file holds a record for the detector
	Samples  int  // samples the file holds for the detector
	Matched  int  // samples inside the window
	Channels int
}

// Result is the merged output of a range extraction.
// Row i of Spectrum was sampled at Timestamps[i].
type Result struct {
	Detector   string
	Window     domain.TimeWindow
	Spectrum   *mat.Dense
	Timestamps []int64
	Files      []FileContribution
	Skipped    []domain.SkippedFileWarning
}

// Rows returns the number of spectrum rows
func (r *Result) Rows() int {
	rows, _ := r.Spectrum.Dims()
	return rows
}

// Channels returns the number of spectrum columns
func (r *Result) Channels() int {
	_, cols := r.Spectrum.Dims()
	return cols
}

// Row returns a copy of spectrum row i
func (r *Result) Row(i int) []float64 {
	return mat.Row(nil, i, r.Spectrum)
}

// MeanSpectrum averages every row channel by channel
func (r *Result) MeanSpectrum() []float64 {
	rows, cols := r.Spectrum.Dims()
	mean := make([]float64, cols)
	for i := 0; i < rows; i++ {
		floats.Add(mean, r.Spectrum.RawRowView(i))
	}
	floats.Scale(1/float64(rows), mean)
	return mean
}

// TotalCounts sums every channel of every row
func (r *Result) TotalCounts() float64 {
	rows, _ := r.Spectrum.Dims()
	var total float64
	for i := 0; i < rows; i++ {
		total += floats.Sum(r.Spectrum.RawRowView(i))
	}
	return total
}

// TimeExtent returns the earliest and latest matched timestamp
func (r *Result) TimeExtent() (first, last int64) {
	first, last, _ = domain.TimeExtent(r.Timestamps)
	return first, last
}
