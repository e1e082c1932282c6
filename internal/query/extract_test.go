package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/spectrum-reader/internal/adapters/memory"
	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// record builds a detector record whose single channel holds the timestamp,
// so result rows can be traced back to their samples.
func record(t *testing.T, detector string, times ...int64) *domain.DetectorRecord {
	t.Helper()
	rows := make([][]float64, len(times))
	for i, ts := range times {
		rows[i] = []float64{float64(ts)}
	}
	spec, err := domain.NewSpectrum(rows)
	require.NoError(t, err)
	return &domain.DetectorRecord{Detector: detector, Timestamps: times, Spectrum: spec}
}

func wideRecord(t *testing.T, detector string, channels int, times ...int64) *domain.DetectorRecord {
	t.Helper()
	rows := make([][]float64, len(times))
	for i, ts := range times {
		rows[i] = make([]float64, channels)
		rows[i][0] = float64(ts)
	}
	spec, err := domain.NewSpectrum(rows)
	require.NoError(t, err)
	return &domain.DetectorRecord{Detector: detector, Timestamps: times, Spectrum: spec}
}

func listFiles(t *testing.T, a *memory.Archive) []domain.SourceFile {
	t.Helper()
	files, err := a.ListSourceFiles(context.Background())
	require.NoError(t, err)
	return files
}

func firstChannel(r *Result) []float64 {
	out := make([]float64, r.Rows())
	for i := range out {
		out[i] = r.Spectrum.At(i, 0)
	}
	return out
}

func threeFileArchive(t *testing.T) *memory.Archive {
	a := memory.NewArchive()
	a.AddRecord("f1", record(t, "D1", 10, 20, 30))
	a.AddRecord("f2", record(t, "D1", 5, 25))
	a.AddRecord("f3", record(t, "D1", 40))
	return a
}

func TestExtract_ThreeFileExample(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)

	window, err := domain.NewTimeWindow(domain.At(15), domain.At(30))
	require.NoError(t, err)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", window)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows())
	assert.Equal(t, []int64{20, 30, 25}, res.Timestamps)
	assert.Equal(t, []float64{20, 30, 25}, firstChannel(res))

	require.Len(t, res.Files, 3)
	assert.Equal(t, 2, res.Files[0].Matched)
	assert.Equal(t, 1, res.Files[1].Matched)
	assert.Equal(t, 0, res.Files[2].Matched)
	assert.True(t, res.Files[2].Found)
	assert.Empty(t, res.Skipped)
}

func TestExtract_UnboundedReturnsEverySample(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Rows())
	assert.Equal(t, []int64{10, 20, 30, 5, 25, 40}, res.Timestamps)
	assert.Equal(t, []float64{10, 20, 30, 5, 25, 40}, firstChannel(res))
}

func TestExtract_UnsortedTimestampsGatherExactRows(t *testing.T) {
	a := memory.NewArchive()
	// matches sit at indices 0, 3 and 5; the rows in between are outside the window
	a.AddRecord("f1", record(t, "D1", 20, 100, 1, 25, 500, 30))
	svc := NewService(a, 1)

	window, err := domain.NewTimeWindow(domain.At(15), domain.At(30))
	require.NoError(t, err)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", window)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows(), "rows between the first and last match must not leak in")
	assert.Equal(t, []float64{20, 25, 30}, firstChannel(res))
	for _, ts := range res.Timestamps {
		assert.True(t, window.Contains(ts), "timestamp %d outside window", ts)
	}
}

func TestExtract_SingleMatchIsIncluded(t *testing.T) {
	a := memory.NewArchive()
	a.AddRecord("f1", record(t, "D1", 1, 2, 3))
	svc := NewService(a, 1)

	window, _ := domain.NewTimeWindow(domain.At(2), domain.At(2))
	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", window)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, res.Timestamps)
}

func TestExtract_DetectorMissingFromSomeFiles(t *testing.T) {
	a := memory.NewArchive()
	a.AddRecord("f1", record(t, "D1", 10))
	a.AddRecord("f2", record(t, "D2", 20))
	a.AddGroup("f2", domain.SensorKey)
	a.AddRecord("f3", record(t, "D1", 30))
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 30}, res.Timestamps)
	assert.False(t, res.Files[1].Found)
	assert.Empty(t, res.Skipped, "a missing detector is not a warning")
}

func TestExtract_DetectorAbsentEverywhere(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)

	_, err := svc.Extract(context.Background(), listFiles(t, a), "D9", domain.TimeWindow{})
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestExtract_WindowMatchesNothing(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)

	window, _ := domain.NewTimeWindow(domain.At(1000), domain.At(2000))
	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", window)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Nil(t, res)
}

func TestExtract_InconsistentSchema(t *testing.T) {
	a := memory.NewArchive()
	a.AddRecord("f1", wideRecord(t, "D1", 4, 10))
	a.AddRecord("f2", wideRecord(t, "D1", 8, 20))
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	assert.ErrorIs(t, err, domain.ErrInconsistentSchema)
	assert.Nil(t, res)
}

func TestExtract_SchemaOnlyCheckedForContributingFiles(t *testing.T) {
	a := memory.NewArchive()
	a.AddRecord("f1", wideRecord(t, "D1", 4, 10))
	a.AddRecord("f2", wideRecord(t, "D1", 8, 500))
	svc := NewService(a, 1)

	window, _ := domain.NewTimeWindow(domain.Unbounded(), domain.At(100))
	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", window)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Channels())
}

func TestExtract_UnreadableFileIsSkipped(t *testing.T) {
	a := threeFileArchive(t)
	a.FailOpen("f2", errors.New("corrupt header"))
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 20, 30, 40}, res.Timestamps)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "f2", res.Skipped[0].Path)
}

func TestExtract_MalformedRecordIsSkipped(t *testing.T) {
	a := threeFileArchive(t)
	bad := record(t, "D1", 1, 2)
	bad.Timestamps = append(bad.Timestamps, 3)
	a.AddRecord("f0", bad)
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0], domain.ErrMalformedRecord)
	assert.Equal(t, 6, res.Rows())
}

func TestExtract_EveryFileFailing(t *testing.T) {
	a := threeFileArchive(t)
	for _, f := range []string{"f1", "f2", "f3"} {
		a.FailOpen(f, errors.New("io error"))
	}
	svc := NewService(a, 1)

	_, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestExtract_InvalidArguments(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)
	files := listFiles(t, a)
	ctx := context.Background()

	_, err := svc.Extract(ctx, files, "", domain.TimeWindow{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Extract(ctx, nil, "D1", domain.TimeWindow{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	inverted := domain.TimeWindow{Start: domain.At(30), Stop: domain.At(10)}
	_, err = svc.Extract(ctx, files, "D1", inverted)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExtractDates(t *testing.T) {
	sept1, err := domain.ParseDate("01092018")
	require.NoError(t, err)
	sept2, err := domain.ParseDate("02092018")
	require.NoError(t, err)

	a := memory.NewArchive()
	a.AddRecord("f1", record(t, "digiBASE_3", sept1-1, sept1, sept1+3600, sept2, sept2+1))
	svc := NewService(a, 1)
	files := listFiles(t, a)

	res, err := svc.ExtractDates(context.Background(), files, "digiBASE_3", "01092018", "02092018")
	require.NoError(t, err)
	assert.Equal(t, []int64{sept1, sept1 + 3600, sept2}, res.Timestamps)

	res, err = svc.ExtractDates(context.Background(), files, "digiBASE_3", "", "01092018")
	require.NoError(t, err)
	assert.Equal(t, []int64{sept1 - 1, sept1}, res.Timestamps)

	_, err = svc.ExtractDates(context.Background(), files, "digiBASE_3", "2018-09-01", "")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestExtract_ParallelKeepsFileOrder(t *testing.T) {
	a := memory.NewArchive()
	var want []int64
	for i := 0; i < 20; i++ {
		ts := int64(100 - i)
		a.AddRecord(string(rune('a'+i)), record(t, "D1", ts, ts+1000))
		want = append(want, ts, ts+1000)
	}
	svc := NewService(a, 6)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)
	assert.Equal(t, want, res.Timestamps)
}

func TestExtract_CanceledContext(t *testing.T) {
	a := threeFileArchive(t)
	svc := NewService(a, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Extract(ctx, listFiles(t, a), "D1", domain.TimeWindow{})
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelOnOpen cancels the query when the n-th file is opened
type cancelOnOpen struct {
	domain.ContainerOpener
	mu     sync.Mutex
	opened int
	n      int
	cancel context.CancelFunc
}

func (o *cancelOnOpen) Open(ctx context.Context, file domain.SourceFile) (domain.Container, error) {
	o.mu.Lock()
	o.opened++
	if o.opened == o.n {
		o.cancel()
	}
	o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.ContainerOpener.Open(ctx, file)
}

func TestExtract_CanceledMidScanReturnsNoRows(t *testing.T) {
	for _, workers := range []int{1, 3} {
		a := threeFileArchive(t)
		ctx, cancel := context.WithCancel(context.Background())
		opener := &cancelOnOpen{ContainerOpener: a, n: 3, cancel: cancel}
		svc := NewService(opener, workers)

		res, err := svc.Extract(ctx, listFiles(t, a), "D1", domain.TimeWindow{})
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
		assert.Nil(t, res, "workers=%d", workers)
		cancel()
	}
}

func TestResult_Summary(t *testing.T) {
	a := memory.NewArchive()
	spec, err := domain.NewSpectrum([][]float64{{1, 2}, {3, 6}})
	require.NoError(t, err)
	a.AddRecord("f1", &domain.DetectorRecord{Detector: "D1", Timestamps: []int64{50, 10}, Spectrum: spec})
	svc := NewService(a, 1)

	res, err := svc.Extract(context.Background(), listFiles(t, a), "D1", domain.TimeWindow{})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 4}, res.MeanSpectrum())
	assert.Equal(t, 12.0, res.TotalCounts())
	assert.Equal(t, []float64{3, 6}, res.Row(1))

	first, last := res.TimeExtent()
	assert.Equal(t, int64(10), first)
	assert.Equal(t, int64(50), last)
}
