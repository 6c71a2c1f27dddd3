package clothmanip

import "errors"

var (
	// ErrFoldUnreachable is returned when no arm can safely follow a whole fold.
	ErrFoldUnreachable = errors.New("fold could not be executed by either arm")

	// ErrNoKeypointSource is returned when a step needs towel corners but no source is configured.
	ErrNoKeypointSource = errors.New("no keypoint source configured")

	// ErrNoCamera is returned when a step needs camera images but the robot has no camera.
	ErrNoCamera = errors.New("no camera available")
)
