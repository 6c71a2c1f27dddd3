package clothmanip

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

var pullOps = []string{
	rig.OpGripperMove, rig.OpMoveTo, rig.OpMoveTo,
	rig.OpMoveLinear, rig.OpMoveLinear, rig.OpMoveLinear,
	rig.OpGripperOpen, rig.OpMoveTo,
}

func TestExecutePullUsesLeftArmWhenSafe(t *testing.T) {
	r, rec := dryRunRobot(t, DefaultRigConfig(), nil)
	p := pull.NewPull(r3.Vector{X: 0.1, Y: -0.1}, r3.Vector{X: 0.1, Y: -0.3})

	test.That(t, r.ExecutePull(context.Background(), p), test.ShouldBeNil)
	test.That(t, rec.Ops(), test.ShouldResemble, pullOps)
	cmds := rec.Commands()
	for _, c := range cmds {
		test.That(t, c.Arm, test.ShouldEqual, "left-arm")
	}
	test.That(t, cmds[0].Value, test.ShouldEqual, rig.CompliantGripperPosition)
	test.That(t, spatialmath.PoseAlmostEqual(cmds[1].Pose, LeftHome), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(cmds[2].Pose, p.PregraspPose()), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(cmds[5].Pose, p.RetreatPose()), test.ShouldBeTrue)
	test.That(t, cmds[3].Value, test.ShouldEqual, rig.DefaultLinearSpeed)
}

func TestExecutePullFallsBackToRightArm(t *testing.T) {
	r, rec := dryRunRobot(t, DefaultRigConfig(), nil)
	// Out of reach of the left base.
	p := pull.NewPull(r3.Vector{X: 0.1, Y: 0.6}, r3.Vector{X: 0.1, Y: 0.5})

	test.That(t, r.ExecutePull(context.Background(), p), test.ShouldBeNil)
	for _, c := range rec.Commands() {
		test.That(t, c.Arm, test.ShouldEqual, "right-arm")
	}
}

func TestExecutePullKeepsAssignedArm(t *testing.T) {
	r, rec := dryRunRobot(t, DefaultRigConfig(), nil)
	p := pull.NewPull(r3.Vector{X: 0.1, Y: -0.1}, r3.Vector{X: 0.1, Y: -0.3})
	p.Arm = r.Rig().Right

	test.That(t, r.ExecutePull(context.Background(), p), test.ShouldBeNil)
	test.That(t, rec.Commands()[0].Arm, test.ShouldEqual, "right-arm")
}

func TestExecutePullCancelled(t *testing.T) {
	r, rec := dryRunRobot(t, DefaultRigConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.ExecutePull(ctx, pull.NewPull(r3.Vector{X: 0.1}, r3.Vector{X: 0.2}))
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, rec.Ops(), test.ShouldBeEmpty)
}

func TestExecutePullStepErrorNamesStep(t *testing.T) {
	cfg := DefaultRigConfig()
	left := rig.NewFakeArm(cfg.Left.Name, cfg.Left.Base, cfg.Left.Home, cfg.Workspace, nil)
	right := rig.NewFakeArm(cfg.Right.Name, cfg.Right.Base, cfg.Right.Home, cfg.Workspace, left.Recorder())
	left.RefuseUnsafe = true
	dual, err := rig.NewDualArm(left, right)
	test.That(t, err, test.ShouldBeNil)

	// The pull is assigned to the left arm even though its end is out of reach.
	p := pull.NewPull(r3.Vector{X: 0.1, Y: -0.1}, r3.Vector{X: 0.1, Y: 0.6})
	p.Arm = left
	err = ExecutePull(context.Background(), p, dual, DefaultLinearMotion(), logging.NewTestLogger(t))
	test.That(t, errors.Is(err, rig.ErrUnsafePose), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "pull end")
	test.That(t, left.Recorder().Ops(), test.ShouldResemble, pullOps[:4])
}

func TestExecuteFold(t *testing.T) {
	r, rec := dryRunRobot(t, DefaultRigConfig(), nil)
	tr, err := fold.New(fold.Circular, r3.Vector{X: 0.2, Y: -0.2}, r3.Vector{X: 0.2, Y: 0.2})
	test.That(t, err, test.ShouldBeNil)

	const n = 10
	err = ExecuteFold(context.Background(), tr, r.Rig(), n,
		fold.Limits{Speed: 0.2, Acceleration: 0.1}, DefaultLinearMotion(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	want := []string{rig.OpGripperMove, rig.OpMoveTo, rig.OpMoveTo, rig.OpMoveLinear, rig.OpGripperClose}
	for i := 1; i < n; i++ {
		want = append(want, rig.OpMoveLinear)
	}
	want = append(want, rig.OpMoveLinear, rig.OpGripperOpen, rig.OpMoveTo)
	test.That(t, rec.Ops(), test.ShouldResemble, want)

	path, err := tr.Path(n)
	test.That(t, err, test.ShouldBeNil)
	cmds := rec.Commands()
	test.That(t, spatialmath.PoseAlmostEqual(cmds[3].Pose, path[0]), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(cmds[5+n-2].Pose, path[n-1]), test.ShouldBeTrue)
	for _, c := range cmds[5 : 5+n-1] {
		test.That(t, c.Arm, test.ShouldEqual, "left-arm")
		test.That(t, c.Value, test.ShouldBeGreaterThanOrEqualTo, minFoldSpeed)
		test.That(t, c.Value, test.ShouldBeLessThanOrEqualTo, 0.2)
	}
}

func TestExecuteFoldUnreachable(t *testing.T) {
	cfg := DefaultRigConfig()
	left := rig.NewFakeArm(cfg.Left.Name, cfg.Left.Base, cfg.Left.Home, cfg.Workspace, nil)
	right := rig.NewFakeArm(cfg.Right.Name, cfg.Right.Base, cfg.Right.Home, cfg.Workspace, left.Recorder())
	// The top of the swing is out of reach for both arms.
	tooHigh := func(p spatialmath.Pose) bool { return p.Point().Z > 0.1 }
	left.Unsafe, right.Unsafe = tooHigh, tooHigh
	dual, err := rig.NewDualArm(left, right)
	test.That(t, err, test.ShouldBeNil)

	tr, err := fold.New(fold.Circular, r3.Vector{X: 0.2, Y: -0.2}, r3.Vector{X: 0.2, Y: 0.2})
	test.That(t, err, test.ShouldBeNil)
	err = ExecuteFold(context.Background(), tr, dual, 10,
		fold.Limits{Speed: 0.2, Acceleration: 0.1}, DefaultLinearMotion(), logging.NewTestLogger(t))
	test.That(t, errors.Is(err, ErrFoldUnreachable), test.ShouldBeTrue)
	test.That(t, left.Recorder().Ops(), test.ShouldBeEmpty)
}
