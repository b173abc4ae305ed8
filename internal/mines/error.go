package mines

import "errors"

var (
	// ErrInvalidConfiguration is returned when a field cannot be built from
	// the requested dimensions and mine count.
	ErrInvalidConfiguration = errors.New("invalid field configuration")

	// ErrOutOfBounds is returned for a cell outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
)
