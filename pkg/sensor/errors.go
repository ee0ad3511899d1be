package sensor

import "errors"

var (
	// ErrUnconfigured is returned when no range finder is wired up, or when
	// the device reports itself absent at runtime.
	ErrUnconfigured = errors.New("sensor: range finder not configured")

	// ErrNoData is returned while the sample window is still empty.
	ErrNoData = errors.New("sensor: no samples yet")
)
