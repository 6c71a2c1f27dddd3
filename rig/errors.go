package rig

import "errors"

var (
	// ErrNilArm is returned when a dual-arm rig is built with a missing arm.
	ErrNilArm = errors.New("arm is nil")

	// ErrDuplicateArm is returned when both arms of a rig share a name.
	ErrDuplicateArm = errors.New("both arms have the same name")

	// ErrUnknownArm is returned when an arm is looked up by a name the rig does not have.
	ErrUnknownArm = errors.New("no arm with that name")

	// ErrUnsafePose is returned by arms that refuse to move to a pose their safety predicate rejects.
	ErrUnsafePose = errors.New("pose rejected by safety check")
)
