package pb

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ListDetectorsRequest asks for the detector catalog
type ListDetectorsRequest struct {
	Family        string // "all" | "csi" | "nai"
	RequireSensor bool
}

// ListDetectorsResponse carries sorted detector identifiers
type ListDetectorsResponse struct {
	Detectors []string
}

// ExtractRangeRequest selects one detector and optional DDMMYYYY bounds
type ExtractRangeRequest struct {
	Detector string
	Start    string
	Stop     string
}

// FileSummary reports one source file's contribution
type FileSummary struct {
	Path    string
	Found   bool
	Samples int
	Matched int
}

// SkippedFile reports a source file excluded because it could not be read
type SkippedFile struct {
	Path  string
	Error string
}

// ExtractRangeResponse carries the merged spectrum rows
type ExtractRangeResponse struct {
	Detector   string
	Channels   int
	Timestamps []int64
	Spectrum   [][]float64
	Files      []FileSummary
	Skipped    []SkippedFile
}

func (m *ListDetectorsRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"family":         m.Family,
		"require_sensor": m.RequireSensor,
	})
}

func ListDetectorsRequestFromStruct(s *structpb.Struct) *ListDetectorsRequest {
	f := s.GetFields()
	return &ListDetectorsRequest{
		Family:        f["family"].GetStringValue(),
		RequireSensor: f["require_sensor"].GetBoolValue(),
	}
}

func (m *ListDetectorsResponse) ToStruct() (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"detectors": stringList(m.Detectors),
	}}, nil
}

func ListDetectorsResponseFromStruct(s *structpb.Struct) (*ListDetectorsResponse, error) {
	detectors, err := stringsOf(s.GetFields()["detectors"])
	if err != nil {
		return nil, fmt.Errorf("detectors: %w", err)
	}
	return &ListDetectorsResponse{Detectors: detectors}, nil
}

func (m *ExtractRangeRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"detector": m.Detector,
		"start":    m.Start,
		"stop":     m.Stop,
	})
}

func ExtractRangeRequestFromStruct(s *structpb.Struct) *ExtractRangeRequest {
	f := s.GetFields()
	return &ExtractRangeRequest{
		Detector: f["detector"].GetStringValue(),
		Start:    f["start"].GetStringValue(),
		Stop:     f["stop"].GetStringValue(),
	}
}

func (m *ExtractRangeResponse) ToStruct() (*structpb.Struct, error) {
	times := make([]*structpb.Value, len(m.Timestamps))
	for i, t := range m.Timestamps {
		times[i] = structpb.NewNumberValue(float64(t))
	}

	rows := make([]*structpb.Value, len(m.Spectrum))
	for i, row := range m.Spectrum {
		if len(row) != m.Channels {
			return nil, fmt.Errorf("row %d has %d channels, want %d", i, len(row), m.Channels)
		}
		rows[i] = numberList(row)
	}

	files := make([]*structpb.Value, len(m.Files))
	for i, f := range m.Files {
		files[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"path":    structpb.NewStringValue(f.Path),
			"found":   structpb.NewBoolValue(f.Found),
			"samples": structpb.NewNumberValue(float64(f.Samples)),
			"matched": structpb.NewNumberValue(float64(f.Matched)),
		}})
	}

	skipped := make([]*structpb.Value, len(m.Skipped))
	for i, s := range m.Skipped {
		skipped[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"path":  structpb.NewStringValue(s.Path),
			"error": structpb.NewStringValue(s.Error),
		}})
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"detector":   structpb.NewStringValue(m.Detector),
		"channels":   structpb.NewNumberValue(float64(m.Channels)),
		"timestamps": structpb.NewListValue(&structpb.ListValue{Values: times}),
		"spectrum":   structpb.NewListValue(&structpb.ListValue{Values: rows}),
		"files":      structpb.NewListValue(&structpb.ListValue{Values: files}),
		"skipped":    structpb.NewListValue(&structpb.ListValue{Values: skipped}),
	}}, nil
}

func ExtractRangeResponseFromStruct(s *structpb.Struct) (*ExtractRangeResponse, error) {
	f := s.GetFields()
	m := &ExtractRangeResponse{
		Detector: f["detector"].GetStringValue(),
		Channels: int(f["channels"].GetNumberValue()),
	}

	for _, v := range f["timestamps"].GetListValue().GetValues() {
		m.Timestamps = append(m.Timestamps, int64(v.GetNumberValue()))
	}

	for i, v := range f["spectrum"].GetListValue().GetValues() {
		cells := v.GetListValue().GetValues()
		if len(cells) != m.Channels {
			return nil, fmt.Errorf("spectrum row %d has %d channels, want %d", i, len(cells), m.Channels)
		}
		row := make([]float64, len(cells))
		for j, c := range cells {
			row[j] = c.GetNumberValue()
		}
		m.Spectrum = append(m.Spectrum, row)
	}
	if len(m.Spectrum) != len(m.Timestamps) {
		return nil, fmt.Errorf("%d spectrum rows for %d timestamps", len(m.Spectrum), len(m.Timestamps))
	}

	for _, v := range f["files"].GetListValue().GetValues() {
		ff := v.GetStructValue().GetFields()
		m.Files = append(m.Files, FileSummary{
			Path:    ff["path"].GetStringValue(),
			Found:   ff["found"].GetBoolValue(),
			Samples: int(ff["samples"].GetNumberValue()),
			Matched: int(ff["matched"].GetNumberValue()),
		})
	}

	for _, v := range f["skipped"].GetListValue().GetValues() {
		sf := v.GetStructValue().GetFields()
		m.Skipped = append(m.Skipped, SkippedFile{
			Path:  sf["path"].GetStringValue(),
			Error: sf["error"].GetStringValue(),
		})
	}

	return m, nil
}

func stringList(ss []string) *structpb.Value {
	vals := make([]*structpb.Value, len(ss))
	for i, s := range ss {
		vals[i] = structpb.NewStringValue(s)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: vals})
}

func numberList(xs []float64) *structpb.Value {
	vals := make([]*structpb.Value, len(xs))
	for i, x := range xs {
		vals[i] = structpb.NewNumberValue(x)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: vals})
}

func stringsOf(v *structpb.Value) ([]string, error) {
	var out []string
	for i, item := range v.GetListValue().GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("item %d is not a string", i)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}
