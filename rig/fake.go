package rig

import (
	"context"
	"fmt"
	"sync"

	"go.viam.com/rdk/spatialmath"
)

// Op names recorded by the fakes.
const (
	OpMoveTo       = "move_to"
	OpMoveLinear   = "move_linear"
	OpGripperMove  = "gripper_move"
	OpGripperOpen  = "gripper_open"
	OpGripperClose = "gripper_close"
)

// Command is one call made on a fake arm or its gripper.
type Command struct {
	Arm  string
	Op   string
	Pose spatialmath.Pose
	// Value holds the speed for linear moves and the position for gripper moves.
	Value float64
}

func (c Command) String() string {
	if c.Pose != nil {
		return fmt.Sprintf("%s %s %v", c.Arm, c.Op, c.Pose.Point())
	}
	return fmt.Sprintf("%s %s %.2f", c.Arm, c.Op, c.Value)
}

// Recorder collects commands from any number of fakes in call order.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

func (r *Recorder) add(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Ops returns only the op names, for compact assertions.
func (r *Recorder) Ops() []string {
	cmds := r.Commands()
	ops := make([]string, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	return ops
}

// FakeArm is an in-process Arm that moves instantly and records every
// command. It is used by tests and dry runs.
type FakeArm struct {
	name      string
	base      spatialmath.Pose
	home      spatialmath.Pose
	workspace Workspace
	gripper   *FakeGripper
	rec       *Recorder

	// Unsafe, when set, replaces the workspace check.
	Unsafe func(pose spatialmath.Pose) bool
	// RefuseUnsafe makes motions to unsafe poses fail with ErrUnsafePose.
	RefuseUnsafe bool

	current spatialmath.Pose
}

// NewFakeArm returns a fake arm whose safety predicate is ws. rec may be
// shared between arms to capture a global command order; nil allocates one.
func NewFakeArm(name string, base, home spatialmath.Pose, ws Workspace, rec *Recorder) *FakeArm {
	if rec == nil {
		rec = &Recorder{}
	}
	return &FakeArm{
		name:      name,
		base:      base,
		home:      home,
		workspace: ws,
		gripper:   &FakeGripper{arm: name, rec: rec},
		rec:       rec,
		current:   home,
	}
}

// Name implements Arm.
func (a *FakeArm) Name() string { return a.name }

// BasePose implements Arm.
func (a *FakeArm) BasePose() spatialmath.Pose { return a.base }

// HomePose implements Arm.
func (a *FakeArm) HomePose() spatialmath.Pose { return a.home }

// IsPoseUnsafe implements Arm.
func (a *FakeArm) IsPoseUnsafe(pose spatialmath.Pose) bool {
	if a.Unsafe != nil {
		return a.Unsafe(pose)
	}
	return a.workspace.Unsafe(a.base.Point(), pose)
}

// MoveTo implements Arm.
func (a *FakeArm) MoveTo(ctx context.Context, pose spatialmath.Pose) error {
	return a.move(ctx, Command{Arm: a.name, Op: OpMoveTo, Pose: pose})
}

// MoveLinearTo implements Arm.
func (a *FakeArm) MoveLinearTo(ctx context.Context, pose spatialmath.Pose, speed, _ float64) error {
	return a.move(ctx, Command{Arm: a.name, Op: OpMoveLinear, Pose: pose, Value: speed})
}

func (a *FakeArm) move(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.RefuseUnsafe && a.IsPoseUnsafe(c.Pose) {
		return fmt.Errorf("%s %s: %w", a.name, c.Op, ErrUnsafePose)
	}
	a.rec.add(c)
	a.current = c.Pose
	return nil
}

// Gripper implements Arm.
func (a *FakeArm) Gripper() Gripper { return a.gripper }

// FakeGripper returns the concrete gripper for inspection.
func (a *FakeArm) FakeGripper() *FakeGripper { return a.gripper }

// CurrentPose is the last pose the arm was sent to.
func (a *FakeArm) CurrentPose() spatialmath.Pose { return a.current }

// Recorder returns the command log this arm writes to.
func (a *FakeArm) Recorder() *Recorder { return a.rec }

// FakeGripper records gripper commands and tracks the last position.
type FakeGripper struct {
	arm      string
	rec      *Recorder
	position float64
}

// MoveToPosition implements Gripper.
func (g *FakeGripper) MoveToPosition(_ context.Context, position float64) error {
	g.position = position
	g.rec.add(Command{Arm: g.arm, Op: OpGripperMove, Value: position})
	return nil
}

// Open implements Gripper.
func (g *FakeGripper) Open(_ context.Context) error {
	g.position = 0
	g.rec.add(Command{Arm: g.arm, Op: OpGripperOpen})
	return nil
}

// Close implements Gripper.
func (g *FakeGripper) Close(_ context.Context) error {
	g.position = 1
	g.rec.add(Command{Arm: g.arm, Op: OpGripperClose, Value: 1})
	return nil
}

// Position is the last commanded position.
func (g *FakeGripper) Position() float64 { return g.position }
