package clothmanip

import (
	"context"
	"fmt"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// minFoldSpeed keeps the first and last fold segments moving.
const minFoldSpeed = 0.01

// LinearMotion bounds straight-line tool moves, in m/s and m/s^2.
type LinearMotion struct {
	Speed        float64 `mapstructure:"speed"`
	Acceleration float64 `mapstructure:"acceleration"`
}

// DefaultLinearMotion returns the rig defaults.
func DefaultLinearMotion() LinearMotion {
	return LinearMotion{Speed: rig.DefaultLinearSpeed, Acceleration: rig.DefaultLinearAcceleration}
}

type motionStep struct {
	name string
	fn   func(context.Context) error
}

// runSteps runs each step in order, checking the context before each one.
// Steps themselves are not interrupted.
func runSteps(ctx context.Context, steps []motionStep, logger logging.Logger) error {
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		logger.Debugf("%s", step.name)
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// pullArm picks the arm for p: the arm it was assigned to, otherwise the left
// arm when start, end and retreat are all safe for it, otherwise the right.
func pullArm(p *pull.Pull, dual *rig.DualArm) (rig.Arm, error) {
	if p.Arm != nil {
		return p.Arm, nil
	}
	if dual == nil {
		return nil, pull.ErrNoArm
	}
	if rig.SafeForAll(dual.Left, p.StartPose(), p.EndPose(), p.RetreatPose()) {
		return dual.Left, nil
	}
	return dual.Right, nil
}

// ExecutePull drags the towel along p: gripper half closed, home, pregrasp,
// straight down to the start, straight along the table to the end, straight
// up to the retreat, open, home. Every motion blocks until it completes.
func ExecutePull(ctx context.Context, p *pull.Pull, dual *rig.DualArm, lin LinearMotion, logger logging.Logger) error {
	arm, err := pullArm(p, dual)
	if err != nil {
		return err
	}
	logger.Infof("Executing %v with %s", p, arm.Name())

	gripper := arm.Gripper()
	linear := func(pose spatialmath.Pose) func(context.Context) error {
		return func(ctx context.Context) error {
			return arm.MoveLinearTo(ctx, pose, lin.Speed, lin.Acceleration)
		}
	}
	free := func(pose spatialmath.Pose) func(context.Context) error {
		return func(ctx context.Context) error { return arm.MoveTo(ctx, pose) }
	}

	steps := []motionStep{
		{"compliant gripper", func(ctx context.Context) error {
			return gripper.MoveToPosition(ctx, rig.CompliantGripperPosition)
		}},
		{"home", free(arm.HomePose())},
		{"pregrasp", free(p.PregraspPose())},
		{"pull start", linear(p.StartPose())},
		{"pull end", linear(p.EndPose())},
		{"retreat", linear(p.RetreatPose())},
		{"open gripper", gripper.Open},
		{"home", free(arm.HomePose())},
	}
	if err := runSteps(ctx, steps, logger); err != nil {
		return fmt.Errorf("pull with %s: %w", arm.Name(), err)
	}
	logger.Infof("Pull complete (%.3f m)", p.Length())
	return nil
}

// foldArm returns the first arm, in preference order, for which every pose
// of the fold is safe.
func foldArm(dual *rig.DualArm, poses []spatialmath.Pose) (rig.Arm, error) {
	if dual == nil {
		return nil, pull.ErrNoArm
	}
	for _, arm := range dual.Arms() {
		if rig.SafeForAll(arm, poses...) {
			return arm, nil
		}
	}
	return nil, ErrFoldUnreachable
}

// ExecuteFold grasps the cloth at the start of tr and carries it through n
// sampled poses to the release: gripper half closed, home, pregrasp,
// straight to the grasp, close, each waypoint in a straight line at the
// speed of the timed profile, retreat, open, home.
func ExecuteFold(ctx context.Context, tr *fold.Trajectory, dual *rig.DualArm, n int, lim fold.Limits, lin LinearMotion, logger logging.Logger) error {
	path, err := tr.Path(n)
	if err != nil {
		return err
	}
	waypoints, err := fold.Timed(path, lim)
	if err != nil {
		return err
	}
	pregrasp, err := tr.PregraspPose(tr.ApproachOffset())
	if err != nil {
		return err
	}
	retreat, err := tr.RetreatPose()
	if err != nil {
		return err
	}

	all := append([]spatialmath.Pose{pregrasp, retreat}, path...)
	arm, err := foldArm(dual, all)
	if err != nil {
		return fmt.Errorf("%v fold %v -> %v: %w", tr.Kind(), tr.Start(), tr.End(), err)
	}
	total := waypoints[len(waypoints)-1]
	logger.Infof("Executing %v fold with %s: %d waypoints, %.3f m, ~%v",
		tr.Kind(), arm.Name(), n, total.Distance, total.Time)

	gripper := arm.Gripper()
	steps := []motionStep{
		{"compliant gripper", func(ctx context.Context) error {
			return gripper.MoveToPosition(ctx, rig.CompliantGripperPosition)
		}},
		{"home", func(ctx context.Context) error { return arm.MoveTo(ctx, arm.HomePose()) }},
		{"pregrasp", func(ctx context.Context) error { return arm.MoveTo(ctx, pregrasp) }},
		{"grasp", func(ctx context.Context) error {
			return arm.MoveLinearTo(ctx, path[0], lin.Speed, lin.Acceleration)
		}},
		{"close gripper", gripper.Close},
	}
	for i := 1; i < len(path); i++ {
		i := i
		steps = append(steps, motionStep{
			name: fmt.Sprintf("fold waypoint %d/%d", i, len(path)-1),
			fn: func(ctx context.Context) error {
				return arm.MoveLinearTo(ctx, path[i], fold.SegmentSpeed(waypoints, i, minFoldSpeed), lim.Acceleration)
			},
		})
	}
	steps = append(steps,
		motionStep{"retreat", func(ctx context.Context) error {
			return arm.MoveLinearTo(ctx, retreat, lin.Speed, lin.Acceleration)
		}},
		motionStep{"open gripper", gripper.Open},
		motionStep{"home", func(ctx context.Context) error { return arm.MoveTo(ctx, arm.HomePose()) }},
	)

	if err := runSteps(ctx, steps, logger); err != nil {
		return fmt.Errorf("fold with %s: %w", arm.Name(), err)
	}
	logger.Info("Fold complete")
	return nil
}
