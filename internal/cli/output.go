package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/query"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Outputter is implemented by command results with structured output
type Outputter interface {
	// ToJSON returns the data structure for JSON/YAML marshaling
	ToJSON() interface{}
	// ToText writes human-readable text format
	ToText(w io.Writer)
}

// csvOutputter is implemented by results that also have a tabular form
type csvOutputter interface {
	ToCSV(w io.Writer) error
}

// Output writes o to w in the requested format
func Output(w io.Writer, o Outputter, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(o.ToJSON(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(o.ToJSON())
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "csv":
		c, ok := o.(csvOutputter)
		if !ok {
			return fmt.Errorf("%w: csv output is not available here", domain.ErrInvalidArgument)
		}
		return c.ToCSV(w)
	default:
		o.ToText(w)
		return nil
	}
}

// setupFormatFlag adds --format and validates it before the command runs
func setupFormatFlag(cmd *cobra.Command, formatPtr *string, formats ...string) {
	cmd.Flags().StringVarP(formatPtr, "format", "f", "text", "Output format: "+strings.Join(formats, ", "))
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		*formatPtr = strings.ToLower(strings.TrimSpace(*formatPtr))
		for _, f := range formats {
			if *formatPtr == f {
				return nil
			}
		}
		return fmt.Errorf("%w: unknown output format %q (use %s)", domain.ErrInvalidArgument, *formatPtr, strings.Join(formats, ", "))
	}
}

// detectorList is the output of the detectors command
type detectorList struct {
	Family    domain.DetectorFamily
	Detectors []string
}

func (d detectorList) ToJSON() interface{} {
	return map[string]interface{}{
		"family":    string(d.Family),
		"detectors": d.Detectors,
	}
}

func (d detectorList) ToText(w io.Writer) {
	for _, name := range d.Detectors {
		fmt.Fprintln(w, name)
	}
}

// extraction is the output of the extract command
type extraction struct {
	res *query.Result
}

type extractionJSON struct {
	Detector   string        `json:"detector" yaml:"detector"`
	Start      string        `json:"start,omitempty" yaml:"start,omitempty"`
	Stop       string        `json:"stop,omitempty" yaml:"stop,omitempty"`
	Rows       int           `json:"rows" yaml:"rows"`
	Channels   int           `json:"channels" yaml:"channels"`
	Timestamps []int64       `json:"timestamps" yaml:"timestamps"`
	Spectrum   [][]float64   `json:"spectrum" yaml:"spectrum"`
	Files      []fileJSON    `json:"files" yaml:"files"`
	Skipped    []skippedJSON `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type fileJSON struct {
	Path    string `json:"path" yaml:"path"`
	Found   bool   `json:"found" yaml:"found"`
	Samples int    `json:"samples" yaml:"samples"`
	Matched int    `json:"matched" yaml:"matched"`
}

type skippedJSON struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

func (e extraction) ToJSON() interface{} {
	r := e.res
	out := extractionJSON{
		Detector:   r.Detector,
		Rows:       r.Rows(),
		Channels:   r.Channels(),
		Timestamps: r.Timestamps,
		Spectrum:   make([][]float64, r.Rows()),
	}
	if r.Window.Start.Set {
		out.Start = domain.FormatDate(r.Window.Start.Unix)
	}
	if r.Window.Stop.Set {
		out.Stop = domain.FormatDate(r.Window.Stop.Unix)
	}
	for i := range out.Spectrum {
		out.Spectrum[i] = r.Row(i)
	}
	for _, f := range r.Files {
		out.Files = append(out.Files, fileJSON{Path: f.Path, Found: f.Found, Samples: f.Samples, Matched: f.Matched})
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, skippedJSON{Path: s.Path, Error: s.Err.Error()})
	}
	return out
}

// ToText prints a summary rather than the full matrix
func (e extraction) ToText(w io.Writer) {
	r := e.res
	first, last := r.TimeExtent()

	fmt.Fprintln(w, titleStyle.Render(r.Detector))
	window := r.Window.String()
	if r.Window.IsUnbounded() {
		window = "all samples"
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("window:  "), window)
	fmt.Fprintf(w, "%s %d x %d\n", labelStyle.Render("rows:    "), r.Rows(), r.Channels())
	fmt.Fprintf(w, "%s %s .. %s\n", labelStyle.Render("samples: "), formatTime(first), formatTime(last))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("counts:  "), strconv.FormatFloat(r.TotalCounts(), 'f', -1, 64))

	mean := r.MeanSpectrum()
	peak := 0
	for ch, v := range mean {
		if v > mean[peak] {
			peak = ch
		}
	}
	fmt.Fprintf(w, "%s channel %d (mean %.2f)\n", labelStyle.Render("peak:    "), peak, mean[peak])

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("files"))
	for _, f := range r.Files {
		if !f.Found {
			fmt.Fprintf(w, "  %s  %s\n", f.Path, labelStyle.Render("no record"))
			continue
		}
		fmt.Fprintf(w, "  %s  %d/%d samples\n", f.Path, f.Matched, f.Samples)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "  %s  %s\n", s.Path, warnStyle.Render("skipped: "+s.Err.Error()))
	}
}

// ToCSV writes one row per sample: the timestamp then every channel
func (e extraction) ToCSV(w io.Writer) error {
	r := e.res
	cw := csv.NewWriter(w)

	header := make([]string, 0, r.Channels()+1)
	header = append(header, "timestamp")
	for ch := 0; ch < r.Channels(); ch++ {
		header = append(header, "ch"+strconv.Itoa(ch))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, r.Channels()+1)
	for i, ts := range r.Timestamps {
		record[0] = strconv.FormatInt(ts, 10)
		for ch, v := range r.Spectrum.RawRowView(i) {
			record[ch+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// seedReport is the output of the seed command
type seedReport struct {
	Dir      string
	Sessions []string
}

func (s seedReport) ToJSON() interface{} {
	return map[string]interface{}{
		"dir":      s.Dir,
		"sessions": s.Sessions,
	}
}

func (s seedReport) ToText(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("wrote sessions to"), s.Dir)
	for _, name := range s.Sessions {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
