package domain

import (
	"fmt"
	"strings"
)

// SensorKey names the housekeeping group every acquisition carries.
// It is never a detector.
const SensorKey = "Sensor"

// DetectorFamily selects detectors by scintillator type
type DetectorFamily string

const (
	FamilyAll DetectorFamily = "all"
	FamilyCsI DetectorFamily = "csi"
	FamilyNaI DetectorFamily = "nai"
)

// Substring markers embedded in detector identifiers
const (
	csiMarker = "D3"
	naiMarker = "digiBASE"
)

// ParseFamily accepts all, csi or nai in any case. An empty string means all.
func ParseFamily(s string) (DetectorFamily, error) {
	switch f := DetectorFamily(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FamilyAll:
		return FamilyAll, nil
	case FamilyCsI, FamilyNaI:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown detector family %q (want all, csi or nai)", ErrInvalidArgument, s)
	}
}

// Matches reports whether the detector identifier belongs to the family
func (f DetectorFamily) Matches(detector string) bool {
	switch f {
	case FamilyAll:
		return true
	case FamilyCsI:
		return strings.Contains(detector, csiMarker)
	case FamilyNaI:
		return strings.Contains(detector, naiMarker)
	}
	return false
}

// Validate rejects values not produced by ParseFamily
func (f DetectorFamily) Validate() error {
	switch f {
	case FamilyAll, FamilyCsI, FamilyNaI:
		return nil
	}
	return fmt.Errorf("%w: unknown detector family %q", ErrInvalidArgument, string(f))
}

// ValidateDetectorID rejects empty or reserved identifiers
func ValidateDetectorID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: detector id is required", ErrInvalidArgument)
	}
	if id == SensorKey {
		return fmt.Errorf("%w: %q is housekeeping data, not a detector", ErrInvalidArgument, id)
	}
	return nil
}
