package domain

import (
	"errors"
	"testing"
)

func TestNewSpectrum(t *testing.T) {
	s, err := NewSpectrum([][]float64{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Rows != 3 || s.Cols != 2 {
		t.Fatalf("expected 3x2, got %dx%d", s.Rows, s.Cols)
	}
	if got := s.Row(1); got[0] != 3 || got[1] != 4 {
		t.Errorf("Row(1) = %v, want [3 4]", got)
	}

	if _, err := NewSpectrum([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord for ragged rows, got %v", err)
	}
}

func TestSpectrum_Gather(t *testing.T) {
	s, _ := NewSpectrum([][]float64{{0}, {10}, {20}, {30}, {40}})

	got, err := s.Gather([]int{3, 0, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rows != 3 {
		t.Fatalf("expected 3 rows, got %d", got.Rows)
	}
	for i, want := range []float64{30, 0, 40} {
		if got.Row(i)[0] != want {
			t.Errorf("row %d = %v, want %v", i, got.Row(i)[0], want)
		}
	}

	// gathered rows are copies
	got.Row(0)[0] = -1
	if s.Row(3)[0] != 30 {
		t.Error("Gather must not alias the source table")
	}

	if _, err := s.Gather([]int{5}); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord for out-of-range index, got %v", err)
	}
}

func TestDetectorRecord_Validate(t *testing.T) {
	spec, _ := NewSpectrum([][]float64{{1}, {2}})

	tests := []struct {
		name    string
		rec     DetectorRecord
		wantErr bool
	}{
		{
			name: "aligned",
			rec:  DetectorRecord{Detector: "D1", Timestamps: []int64{1, 2}, Spectrum: spec},
		},
		{
			name:    "fewer timestamps than rows",
			rec:     DetectorRecord{Detector: "D1", Timestamps: []int64{1}, Spectrum: spec},
			wantErr: true,
		},
		{
			name:    "missing spectrum",
			rec:     DetectorRecord{Detector: "D1", Timestamps: []int64{1}},
			wantErr: true,
		},
		{
			name:    "data does not match shape",
			rec:     DetectorRecord{Detector: "D1", Timestamps: []int64{1}, Spectrum: &Spectrum{Rows: 1, Cols: 3, Data: []float64{1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr && !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTimeExtent(t *testing.T) {
	min, max, ok := TimeExtent([]int64{30, 10, 20})
	if !ok || min != 10 || max != 30 {
		t.Errorf("TimeExtent() = (%d, %d, %v), want (10, 30, true)", min, max, ok)
	}

	if _, _, ok := TimeExtent(nil); ok {
		t.Error("expected ok=false for empty timestamps")
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input   string
		want    DetectorFamily
		wantErr bool
	}{
		{input: "", want: FamilyAll},
		{input: "ALL", want: FamilyAll},
		{input: "CsI", want: FamilyCsI},
		{input: "NaI", want: FamilyNaI},
		{input: "NsI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFamily(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFamily(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectorFamily_Matches(t *testing.T) {
	tests := []struct {
		family   DetectorFamily
		detector string
		want     bool
	}{
		{FamilyAll, "anything", true},
		{FamilyNaI, "digiBASE_3", true},
		{FamilyNaI, "D3S_1", false},
		{FamilyCsI, "D3S_1", true},
		{FamilyCsI, "digiBASE_3", false},
		{DetectorFamily("bogus"), "digiBASE_3", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+tt.detector, func(t *testing.T) {
			if got := tt.family.Matches(tt.detector); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateDetectorID(t *testing.T) {
	if err := ValidateDetectorID("digiBASE_3"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, id := range []string{"", "  ", SensorKey} {
		if err := ValidateDetectorID(id); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ValidateDetectorID(%q): expected ErrInvalidArgument, got %v", id, err)
		}
	}
}
