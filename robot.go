package clothmanip

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/services/motion"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// Robot holds the rig, its camera and the configuration for the cloth
// pipeline.
type Robot struct {
	logger logging.Logger
	cfg    RigConfig

	dual   *rig.DualArm
	camera camera.Camera
	source KeypointSource

	// Scene, when set, receives each planned reorientation for 3D display.
	Scene SceneDrawer

	state *ReorientationState
}

// ReorientationState tracks the reorientation loop across cycles.
type ReorientationState struct {
	CycleID string
	Pulls   int
	Corners []r3.Vector
	Last    *pull.Reorientation
	// Errors holds the average corner error observed in each cycle.
	Errors []float64
	Done   bool
}

// NewRobot looks up both arms, their grippers, the motion service and the
// camera on the machine. The arms and the motion service are required; a
// missing gripper or camera is logged and tolerated.
func NewRobot(ctx context.Context, machine robot.Robot, cfg RigConfig, logger logging.Logger) (*Robot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	motionSvc, err := motion.FromProvider(machine, cfg.MotionService)
	if err != nil {
		return nil, fmt.Errorf("motion service: %w", err)
	}

	viamArm := func(ac ArmConfig) (*rig.ViamArm, error) {
		a, err := arm.FromProvider(machine, ac.Name)
		if err != nil {
			return nil, fmt.Errorf("arm %s: %w", ac.Name, err)
		}
		g, err := gripper.FromProvider(machine, ac.Gripper)
		if err != nil {
			logger.Warnf("Gripper %s not available: %v", ac.Gripper, err)
			g = nil
		}
		return rig.NewViamArm(rig.ViamArmConfig{
			Name:        ac.Name,
			GripperName: ac.Gripper,
			Base:        ac.Base,
			Home:        ac.Home,
			Workspace:   cfg.Workspace,
		}, a, g, motionSvc, logger)
	}
	left, err := viamArm(cfg.Left)
	if err != nil {
		return nil, err
	}
	right, err := viamArm(cfg.Right)
	if err != nil {
		return nil, err
	}

	r, err := NewRobotFromRig(left, right, cfg, logger)
	if err != nil {
		return nil, err
	}

	cam, err := camera.FromProvider(machine, cfg.Camera.Name)
	if err != nil {
		logger.Warnf("Camera %s not available: %v", cfg.Camera.Name, err)
	} else {
		r.camera = cam
	}
	return r, nil
}

// NewRobotFromRig builds a Robot around already constructed arms.
func NewRobotFromRig(left, right rig.Arm, cfg RigConfig, logger logging.Logger) (*Robot, error) {
	dual, err := rig.NewDualArm(left, right)
	if err != nil {
		return nil, err
	}
	return &Robot{
		logger: logger,
		cfg:    cfg,
		dual:   dual,
		state:  &ReorientationState{},
	}, nil
}

// NewDryRunRobot builds a Robot on fake arms that move instantly and record
// every command.
func NewDryRunRobot(cfg RigConfig, logger logging.Logger) (*Robot, *rig.Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	rec := &rig.Recorder{}
	left := rig.NewFakeArm(cfg.Left.Name, cfg.Left.Base, cfg.Left.Home, cfg.Workspace, rec)
	right := rig.NewFakeArm(cfg.Right.Name, cfg.Right.Base, cfg.Right.Home, cfg.Workspace, rec)
	r, err := NewRobotFromRig(left, right, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return r, rec, nil
}

// Rig returns the dual-arm rig.
func (r *Robot) Rig() *rig.DualArm {
	return r.dual
}

// Config returns the rig configuration.
func (r *Robot) Config() RigConfig {
	return r.cfg
}

// Camera returns the camera, which may be nil.
func (r *Robot) Camera() camera.Camera {
	return r.camera
}

// SetKeypointSource sets where towel corners come from.
func (r *Robot) SetKeypointSource(src KeypointSource) {
	r.source = src
}

// State returns the reorientation loop state.
func (r *Robot) State() *ReorientationState {
	return r.state
}

// ExecutePull runs p on the rig with the configured linear motion.
func (r *Robot) ExecutePull(ctx context.Context, p *pull.Pull) error {
	return ExecutePull(ctx, p, r.dual, r.cfg.Linear, r.logger)
}

// ExecuteFold runs tr on the rig with the configured fold sampling and limits.
func (r *Robot) ExecuteFold(ctx context.Context, tr *fold.Trajectory) error {
	lim := fold.Limits{Speed: r.cfg.Fold.Speed, Acceleration: r.cfg.Fold.Acceleration}
	return ExecuteFold(ctx, tr, r.dual, r.cfg.Fold.Waypoints, lim, r.cfg.Linear, r.logger)
}

// resetState starts a new reorientation run.
func (r *Robot) resetState() {
	r.state = &ReorientationState{}
}
