package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// fileScan is what one source file contributes to an extraction
type fileScan struct {
	contribution FileContribution
	timestamps   []int64
	rows         *domain.Spectrum
	skipped      *domain.SkippedFileWarning
}

// ExtractDates parses DDMMYYYY bounds and runs Extract. Empty strings leave
// that side of the window open.
func (s *Service) ExtractDates(ctx context.Context, files []domain.SourceFile, detector, start, stop string) (*Result, error) {
	window, err := domain.ParseWindow(start, stop)
	if err != nil {
		return nil, err
	}
	return s.Extract(ctx, files, detector, window)
}

// Extract gathers every spectrum row of detector whose timestamp lies in
// window, across files. Rows are ordered by file, then by position in the
// file. Files without the detector are skipped silently; unreadable files
// are skipped with a warning.
func (s *Service) Extract(ctx context.Context, files []domain.SourceFile, detector string, window domain.TimeWindow) (*Result, error) {
	if err := domain.ValidateDetectorID(detector); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no source files", domain.ErrInvalidArgument)
	}
	if _, err := domain.NewTimeWindow(window.Start, window.Stop); err != nil {
		return nil, err
	}

	log.Info().
		Str("detector", detector).
		Str("window", window.String()).
		Int("files", len(files)).
		Msg("extracting range")

	scans := make([]fileScan, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scans[i] = s.scanFile(gctx, file, detector, window)
			// a file that failed because the query was cancelled is not a skipped file
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return assemble(detector, window, scans)
}

// scanFile opens one file, selects the rows inside the window and closes it.
// It never fails: problems are reported on the returned scan.
func (s *Service) scanFile(ctx context.Context, file domain.SourceFile, detector string, window domain.TimeWindow) fileScan {
	scan := fileScan{contribution: FileContribution{Path: file.Path}}

	skip := func(err error) fileScan {
		log.Warn().Err(err).Str("file", file.Path).Str("detector", detector).Msg("skipping file")
		scan.skipped = &domain.SkippedFileWarning{Path: file.Path, Err: err}
		return scan
	}

	c, err := s.opener.Open(ctx, file)
	if err != nil {
		return skip(err)
	}
	defer c.Close()

	times, err := c.Timestamps(ctx, detector)
	if errors.Is(err, domain.ErrDetectorNotFound) {
		log.Debug().Str("file", file.Path).Str("detector", detector).Msg("detector not in file")
		return scan
	}
	if err != nil {
		return skip(err)
	}

	scan.contribution.Found = true
	scan.contribution.Samples = len(times)
	if min, max, ok := domain.TimeExtent(times); ok {
		log.Debug().
			Str("file", file.Path).
			Str("first", domain.FormatDate(min)).
			Int64("min_time", min).
			Str("last", domain.FormatDate(max)).
			Int64("max_time", max).
			Msg("file time extent")
	}

	idx := window.Match(times)
	if len(idx) == 0 {
		log.Debug().Str("file", file.Path).Msg("no samples inside window")
		return scan
	}

	spec, err := c.Spectrum(ctx, detector)
	if err != nil {
		return skip(err)
	}

	rec := domain.DetectorRecord{Detector: detector, Timestamps: times, Spectrum: spec}
	if err := rec.Validate(); err != nil {
		return skip(err)
	}
	if spec.Cols == 0 {
		return skip(fmt.Errorf("%w: %s has no channels", domain.ErrMalformedRecord, detector))
	}

	rows, err := spec.Gather(idx)
	if err != nil {
		return skip(err)
	}

	scan.rows = rows
	scan.timestamps = make([]int64, len(idx))
	for j, i := range idx {
		scan.timestamps[j] = times[i]
	}
	scan.contribution.Matched = len(idx)
	scan.contribution.Channels = spec.Cols

	log.Debug().
		Str("file", file.Path).
		Int("samples", len(times)).
		Int("matched", len(idx)).
		Msg("selected rows")

	return scan
}

// assemble concatenates scans in file order into one result
func assemble(detector string, window domain.TimeWindow, scans []fileScan) (*Result, error) {
	res := &Result{
		Detector: detector,
		Window:   window,
		Files:    make([]FileContribution, 0, len(scans)),
	}

	cols, total := 0, 0
	firstPath := ""
	for _, sc := range scans {
		res.Files = append(res.Files, sc.contribution)
		if sc.skipped != nil {
			res.Skipped = append(res.Skipped, *sc.skipped)
		}
		if sc.rows == nil {
			continue
		}

		if firstPath == "" {
			cols, firstPath = sc.rows.Cols, sc.contribution.Path
		} else if sc.rows.Cols != cols {
			return nil, fmt.Errorf("%w: %s has %d channels but %s has %d",
				domain.ErrInconsistentSchema, sc.contribution.Path, sc.rows.Cols, firstPath, cols)
		}
		total += sc.rows.Rows
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: no samples of %s in %s across %d files (%d skipped)",
			domain.ErrEmptyResult, detector, window, len(scans), len(res.Skipped))
	}

	data := make([]float64, 0, total*cols)
	res.Timestamps = make([]int64, 0, total)
	for _, sc := range scans {
		if sc.rows == nil {
			continue
		}
		data = append(data, sc.rows.Data...)
		res.Timestamps = append(res.Timestamps, sc.timestamps...)
	}
	res.Spectrum = mat.NewDense(total, cols, data)

	log.Info().
		Str("detector", detector).
		Int("rows", total).
		Int("channels", cols).
		Int("skipped", len(res.Skipped)).
		Msg("extracted range")

	return res, nil
}
