// Package rig describes the two-arm hardware the cloth planners drive: an
// abstract robot arm with a gripper and a safety predicate, the dual-arm
// container that fixes the arm preference order, and adapters for viam
// components and for dry runs.
package rig

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
)

// Default linear motion parameters, in m/s and m/s^2.
const (
	DefaultLinearSpeed        = 0.1
	DefaultLinearAcceleration = 0.4

	// CompliantGripperPosition leaves the fingers a little open so the tips
	// comply when they do not touch the table.
	CompliantGripperPosition = 0.8
)

// Gripper is the gripper mounted on an arm. Positions are normalized: 0 is
// fully open and 1 fully closed.
type Gripper interface {
	MoveToPosition(ctx context.Context, position float64) error
	Open(ctx context.Context) error
	Close(ctx context.Context) error
}

// Arm is a robot arm with a gripper. All poses are tool poses in the world
// frame, in meters. Motions block until the arm reports completion.
type Arm interface {
	Name() string
	// BasePose is the arm base in the world frame.
	BasePose() spatialmath.Pose
	// HomePose is a safe pose from which every task starts and ends.
	HomePose() spatialmath.Pose
	// IsPoseUnsafe reports whether the arm must not be sent to pose.
	IsPoseUnsafe(pose spatialmath.Pose) bool
	MoveTo(ctx context.Context, pose spatialmath.Pose) error
	MoveLinearTo(ctx context.Context, pose spatialmath.Pose, speed, acceleration float64) error
	Gripper() Gripper
}

// BaseLocation returns the position of the arm base in the world frame.
func BaseLocation(a Arm) r3.Vector {
	return a.BasePose().Point()
}

// SafeForAll reports whether every pose is safe for a.
func SafeForAll(a Arm, poses ...spatialmath.Pose) bool {
	for _, p := range poses {
		if a.IsPoseUnsafe(p) {
			return false
		}
	}
	return true
}

// DualArm holds the two arms of the rig. Arms returns them in preference
// order: left first.
type DualArm struct {
	Left  Arm
	Right Arm
}

// NewDualArm builds a rig from two distinct arms.
func NewDualArm(left, right Arm) (*DualArm, error) {
	if left == nil || right == nil {
		return nil, ErrNilArm
	}
	if left.Name() == right.Name() {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateArm, left.Name())
	}
	return &DualArm{Left: left, Right: right}, nil
}

// Arms returns both arms in preference order.
func (d *DualArm) Arms() []Arm {
	return []Arm{d.Left, d.Right}
}

// ByName returns the arm with the given name.
func (d *DualArm) ByName(name string) (Arm, error) {
	for _, a := range d.Arms() {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArm, name)
}
