package rig

import (
	"context"
	"fmt"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/services/motion"
	"go.viam.com/rdk/spatialmath"
)

const (
	// metersToMm converts the planner's meters to the millimeters viam expects.
	metersToMm = 1000.0

	worldFrame = referenceframe.World
)

// ViamArmConfig describes one arm of the rig as seen by viam.
type ViamArmConfig struct {
	// Name is the arm component name on the machine.
	Name string
	// GripperName is the gripper component name on the machine.
	GripperName string
	Base        spatialmath.Pose
	Home        spatialmath.Pose
	Workspace   Workspace

	// Linear constraint tolerances for MoveLinearTo.
	LineToleranceMm          float64
	OrientationToleranceDegs float64
}

// ViamArm adapts a viam arm, its gripper and the motion service to Arm.
// Poses cross the boundary in millimeters.
type ViamArm struct {
	cfg     ViamArmConfig
	arm     arm.Arm
	gripper *ViamGripper
	motion  motion.Service
	logger  logging.Logger
}

// NewViamArm wraps already resolved viam resources.
func NewViamArm(cfg ViamArmConfig, a arm.Arm, g gripper.Gripper, ms motion.Service, logger logging.Logger) (*ViamArm, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, ErrNilArm)
	}
	if ms == nil {
		return nil, fmt.Errorf("%s: motion service is nil", cfg.Name)
	}
	if cfg.LineToleranceMm <= 0 {
		cfg.LineToleranceMm = 1.0
	}
	if cfg.OrientationToleranceDegs <= 0 {
		cfg.OrientationToleranceDegs = 2.0
	}
	return &ViamArm{
		cfg:     cfg,
		arm:     a,
		gripper: &ViamGripper{gripper: g, logger: logger},
		motion:  ms,
		logger:  logger,
	}, nil
}

// Name implements Arm.
func (a *ViamArm) Name() string { return a.cfg.Name }

// BasePose implements Arm.
func (a *ViamArm) BasePose() spatialmath.Pose { return a.cfg.Base }

// HomePose implements Arm.
func (a *ViamArm) HomePose() spatialmath.Pose { return a.cfg.Home }

// IsPoseUnsafe implements Arm.
func (a *ViamArm) IsPoseUnsafe(pose spatialmath.Pose) bool {
	return a.cfg.Workspace.Unsafe(a.cfg.Base.Point(), pose)
}

// MoveTo moves the tool to pose with no path constraints. The motion
// planner chooses a collision-free path.
func (a *ViamArm) MoveTo(ctx context.Context, pose spatialmath.Pose) error {
	if a.IsPoseUnsafe(pose) {
		return fmt.Errorf("%s move to %v: %w", a.cfg.Name, pose.Point(), ErrUnsafePose)
	}
	_, err := a.motion.Move(ctx, motion.MoveReq{
		ComponentName: a.cfg.Name,
		Destination:   referenceframe.NewPoseInFrame(worldFrame, ToMillimeters(pose)),
	})
	if err != nil {
		return fmt.Errorf("%s move to %v: %w", a.cfg.Name, pose.Point(), err)
	}
	return nil
}

// MoveLinearTo moves the tool along a straight line to pose. Speed and
// acceleration are sent to the arm first; arms that do not support the
// command keep their configured limits.
func (a *ViamArm) MoveLinearTo(ctx context.Context, pose spatialmath.Pose, speed, acceleration float64) error {
	if a.IsPoseUnsafe(pose) {
		return fmt.Errorf("%s linear move to %v: %w", a.cfg.Name, pose.Point(), ErrUnsafePose)
	}
	if _, err := a.arm.DoCommand(ctx, map[string]interface{}{
		"set_speed":        speed * metersToMm,
		"set_acceleration": acceleration * metersToMm,
	}); err != nil {
		a.logger.Debugf("%s does not accept speed limits: %v", a.cfg.Name, err)
	}

	constraints := motionplan.NewConstraints(
		[]motionplan.LinearConstraint{{
			LineToleranceMm:          a.cfg.LineToleranceMm,
			OrientationToleranceDegs: a.cfg.OrientationToleranceDegs,
		}},
		nil, nil, nil,
	)
	_, err := a.motion.Move(ctx, motion.MoveReq{
		ComponentName: a.cfg.Name,
		Destination:   referenceframe.NewPoseInFrame(worldFrame, ToMillimeters(pose)),
		Constraints:   constraints,
	})
	if err != nil {
		return fmt.Errorf("%s linear move to %v: %w", a.cfg.Name, pose.Point(), err)
	}
	return nil
}

// CurrentPose reads the tool pose from the arm, in meters.
func (a *ViamArm) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	pose, err := a.arm.EndPosition(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s end position: %w", a.cfg.Name, err)
	}
	return FromMillimeters(pose), nil
}

// Gripper implements Arm.
func (a *ViamArm) Gripper() Gripper { return a.gripper }

// ViamGripper adapts a viam gripper. Intermediate positions go through
// DoCommand since the gripper API only knows open and grab.
type ViamGripper struct {
	gripper gripper.Gripper
	logger  logging.Logger
}

// MoveToPosition implements Gripper.
func (g *ViamGripper) MoveToPosition(ctx context.Context, position float64) error {
	if g.gripper == nil {
		g.logger.Warn("Gripper not available; skipping move")
		return nil
	}
	switch {
	case position <= 0:
		return g.Open(ctx)
	case position >= 1:
		return g.Close(ctx)
	}
	if _, err := g.gripper.DoCommand(ctx, map[string]interface{}{
		"move_to_position": position,
	}); err != nil {
		return fmt.Errorf("gripper to %.2f: %w", position, err)
	}
	return nil
}

// Open implements Gripper.
func (g *ViamGripper) Open(ctx context.Context) error {
	if g.gripper == nil {
		g.logger.Warn("Gripper not available; skipping open")
		return nil
	}
	if err := g.gripper.Open(ctx, nil); err != nil {
		return fmt.Errorf("open gripper: %w", err)
	}
	return nil
}

// Close implements Gripper.
func (g *ViamGripper) Close(ctx context.Context) error {
	if g.gripper == nil {
		g.logger.Warn("Gripper not available; skipping close")
		return nil
	}
	if _, err := g.gripper.Grab(ctx, nil); err != nil {
		return fmt.Errorf("close gripper: %w", err)
	}
	return nil
}

// ToMillimeters scales the position of a pose from meters to millimeters.
func ToMillimeters(p spatialmath.Pose) spatialmath.Pose {
	return spatialmath.NewPose(p.Point().Mul(metersToMm), p.Orientation())
}

// FromMillimeters scales the position of a pose from millimeters to meters.
func FromMillimeters(p spatialmath.Pose) spatialmath.Pose {
	return spatialmath.NewPose(p.Point().Mul(1/metersToMm), p.Orientation())
}
