package blanking

import "errors"

var (
	// ErrInvalidPFA is returned when the false-alarm probability is outside (0, 1).
	ErrInvalidPFA = errors.New("blanking: pfa must be in (0, 1)")
	// ErrInvalidLength is returned for a non-positive segment length.
	ErrInvalidLength = errors.New("blanking: segment length must be > 0")
	// ErrInvalidSegments is returned for negative learning or reset segment counts.
	ErrInvalidSegments = errors.New("blanking: segment counts must be >= 0")
)
