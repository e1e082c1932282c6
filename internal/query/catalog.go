package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// CatalogFilter narrows a detector listing
type CatalogFilter struct {
	Family domain.DetectorFamily

	// RequireSensor fails the listing with ErrMissingExpectedKey when no
	// file carries the housekeeping group
	RequireSensor bool
}

// ListDetectors returns the sorted, duplicate-free detector identifiers
// found across files. The housekeeping group is never listed. Files that
// cannot be opened are skipped with a warning.
func (s *Service) ListDetectors(ctx context.Context, files []domain.SourceFile, filter CatalogFilter) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no source files", domain.ErrInvalidArgument)
	}

	family := filter.Family
	if family == "" {
		family = domain.FamilyAll
	}
	if err := family.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keys, err := s.listKeys(ctx, file)
		if err != nil {
			log.Warn().Err(err).Str("file", file.Path).Msg("skipping file in detector listing")
			continue
		}
		for _, k := range keys {
			seen[k] = struct{}{}
		}
	}

	if _, ok := seen[domain.SensorKey]; !ok && filter.RequireSensor {
		return nil, fmt.Errorf("%w: no file holds %q", domain.ErrMissingExpectedKey, domain.SensorKey)
	}
	delete(seen, domain.SensorKey)

	detectors := make([]string, 0, len(seen))
	for k := range seen {
		if family.Matches(k) {
			detectors = append(detectors, k)
		}
	}
	sort.Strings(detectors)

	log.Info().
		Int("files", len(files)).
		Str("family", string(family)).
		Int("detectors", len(detectors)).
		Msg("listed detectors")

	return detectors, nil
}

func (s *Service) listKeys(ctx context.Context, file domain.SourceFile) ([]string, error) {
	c, err := s.opener.Open(ctx, file)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Keys(ctx)
}
