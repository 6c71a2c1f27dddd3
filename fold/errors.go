package fold

import "errors"

var (
	// ErrZeroLength is returned when a trajectory is built from coincident start and end points.
	ErrZeroLength = errors.New("fold line start and end coincide")

	// ErrVerticalAxis is returned when the fold axis has no horizontal component.
	ErrVerticalAxis = errors.New("fold axis is vertical")

	// ErrCompletionOutOfRange is returned when a completion value falls outside [0, 1].
	ErrCompletionOutOfRange = errors.New("completion must lie in [0, 1]")

	// ErrUnknownKind is returned for a trajectory kind outside the supported set.
	ErrUnknownKind = errors.New("unknown trajectory kind")

	// ErrTooFewWaypoints is returned when a path is requested with fewer than two samples.
	ErrTooFewWaypoints = errors.New("a path needs at least two waypoints")

	// ErrInvalidLimits is returned when speed or acceleration limits are not positive.
	ErrInvalidLimits = errors.New("speed and acceleration limits must be positive")
)
