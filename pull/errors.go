package pull

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

var (
	// ErrCornerCount is returned when a towel is not described by exactly 4 corners.
	ErrCornerCount = errors.New("expected exactly 4 towel corners")

	// ErrNoSafeArm is returned when neither arm can safely reach a pull.
	ErrNoSafeArm = errors.New("pull could not be executed by either arm")

	// ErrDegenerateDirection is returned when an orientation is requested along a vertical or zero direction.
	ErrDegenerateDirection = errors.New("direction has no horizontal component")

	// ErrNoArm is returned when a pull has no arm and no rig to choose one from.
	ErrNoArm = errors.New("no arm available for pull")
)

// UnreachableError reports a pull that no arm of the rig can perform.
type UnreachableError struct {
	Start r3.Vector
	End   r3.Vector
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%v: start %v, end %v", ErrNoSafeArm, e.Start, e.End)
}

func (e *UnreachableError) Unwrap() error {
	return ErrNoSafeArm
}
