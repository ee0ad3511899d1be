package gait

import "errors"

var (
	// ErrInvalidParameter is returned when an amplitude, trim, speed,
	// stroke or steering angle is outside its allowed range. The failing
	// call never mutates state.
	ErrInvalidParameter = errors.New("gait: invalid parameter")

	// ErrInvalidDirection is returned for an unrecognized steering token.
	ErrInvalidDirection = errors.New("gait: invalid steering direction")
)
