package cli

import (
	"errors"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// Exit codes returned by spectrumctl
const (
	exitOK           = 0
	exitFailure      = 1
	exitBadInput     = 2
	exitEmptyResult  = 3
	exitInconsistent = 4
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidDate):
		return exitBadInput
	case errors.Is(err, domain.ErrEmptyResult):
		return exitEmptyResult
	case errors.Is(err, domain.ErrInconsistentSchema), errors.Is(err, domain.ErrMissingExpectedKey):
		return exitInconsistent
	}
	return exitFailure
}
