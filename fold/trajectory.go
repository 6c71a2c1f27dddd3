// Package fold parameterizes fold and drag motions over a fold line as a
// continuous family of end-effector poses indexed by a completion value
// t in [0, 1], where t = 0 is the grasp and t = 1 the release.
package fold

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

const (
	// Swing radius clearance, tuned on cloth for grasp width vs. robustness
	// given the gripper fingers.
	radiusClearance = 0.015

	fingerLength     = 0.085
	fingerTipOffset  = 0.008
	complianceOffset = 0.008

	graspAngle          = math.Pi / 10
	minOrientationAngle = -math.Pi / 6

	retreatLift  = 0.05
	retreatShift = 0.01

	// DefaultCircularPregraspOffset is the approach distance along -y for circular folds.
	DefaultCircularPregraspOffset = 0.02
	// DefaultPregraspOffset is the approach height above the grasp for linear drags.
	DefaultPregraspOffset = 0.10
	// DefaultWaypoints is the default number of samples in a fold path.
	DefaultWaypoints = 50
)

// Trajectory is a fold or drag motion over the axis from start to end.
type Trajectory struct {
	kind  Kind
	start r3.Vector
	end   r3.Vector
	frame Frame
}

// New builds a trajectory of the given kind between start and end.
func New(kind Kind, start, end r3.Vector) (*Trajectory, error) {
	switch kind {
	case Circular, Linear:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	frame, err := NewFrame(start, end)
	if err != nil {
		return nil, err
	}
	return &Trajectory{kind: kind, start: start, end: end, frame: frame}, nil
}

// NewCircular builds a circular fold trajectory between start and end.
func NewCircular(start, end r3.Vector) (*Trajectory, error) {
	return New(Circular, start, end)
}

// Kind returns the trajectory shape.
func (tr *Trajectory) Kind() Kind { return tr.kind }

// Frame returns the local fold frame.
func (tr *Trajectory) Frame() Frame { return tr.frame }

// Start returns the start of the fold axis.
func (tr *Trajectory) Start() r3.Vector { return tr.start }

// End returns the end of the fold axis.
func (tr *Trajectory) End() r3.Vector { return tr.end }

// PoseAt returns the world-frame end-effector pose at completion t.
func (tr *Trajectory) PoseAt(t float64) (spatialmath.Pose, error) {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return nil, fmt.Errorf("%w: t=%v", ErrCompletionOutOfRange, t)
	}

	var position r3.Vector
	var orientationAngle float64
	switch tr.kind {
	case Circular:
		position, orientationAngle = tr.circular(t)
	case Linear:
		position, orientationAngle = tr.linear(t)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(tr.kind))
	}

	x := r3.Vector{X: math.Cos(orientationAngle), Z: math.Sin(orientationAngle)}.Normalize()
	y := r3.Vector{Y: -1}
	z := x.Cross(y)
	local, err := geometry.PoseFromAxes(position, x, y, z)
	if err != nil {
		return nil, err
	}
	return tr.frame.ToWorld(local), nil
}

// swingRadius is the radius of the circular fold, and the half length of the linear drag.
func (tr *Trajectory) swingRadius() float64 {
	return tr.frame.Length/2 - radiusClearance
}

// graspHeight brings the low finger tip down to the table and adds a little
// compliance for better grasping.
func graspHeight() float64 {
	return (fingerLength/2*math.Sin(graspAngle)-fingerTipOffset)*math.Cos(graspAngle) - complianceOffset
}

func (tr *Trajectory) circular(t float64) (r3.Vector, float64) {
	theta := math.Pi - t*math.Pi
	r := tr.swingRadius()
	position := r3.Vector{X: r * math.Cos(theta), Z: r*math.Sin(theta) + graspHeight()}
	return position, math.Max(graspAngle-t*2*graspAngle, minOrientationAngle)
}

func (tr *Trajectory) linear(t float64) (r3.Vector, float64) {
	r := tr.swingRadius()
	return r3.Vector{X: -r + 2*r*t, Z: graspHeight()}, graspAngle
}

// GraspPose is the pose at t = 0.
func (tr *Trajectory) GraspPose() (spatialmath.Pose, error) {
	return tr.PoseAt(0)
}

// PregraspPose offsets the grasp pose for a safe approach. Circular folds
// approach along +y, so the pregrasp sits offset behind the grasp in world y;
// linear drags approach from above.
func (tr *Trajectory) PregraspPose(offset float64) (spatialmath.Pose, error) {
	grasp, err := tr.GraspPose()
	if err != nil {
		return nil, err
	}
	switch tr.kind {
	case Circular:
		return geometry.Translate(grasp, r3.Vector{Y: -offset}), nil
	case Linear:
		return geometry.Translate(grasp, r3.Vector{Z: offset}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(tr.kind))
	}
}

// ApproachOffset returns the default pregrasp offset for this kind.
func (tr *Trajectory) ApproachOffset() float64 {
	if tr.kind == Circular {
		return DefaultCircularPregraspOffset
	}
	return DefaultPregraspOffset
}

// RetreatPose lifts clear of the cloth after release.
func (tr *Trajectory) RetreatPose() (spatialmath.Pose, error) {
	release, err := tr.PoseAt(1)
	if err != nil {
		return nil, err
	}
	return geometry.Translate(release, r3.Vector{Y: retreatShift, Z: retreatLift}), nil
}

// Path samples n poses uniformly in t from the grasp (t = 0) to the release (t = 1).
func (tr *Trajectory) Path(n int) ([]spatialmath.Pose, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, n)
	}
	poses := make([]spatialmath.Pose, n)
	for i := range poses {
		t := float64(i) / float64(n-1)
		if i == n-1 {
			t = 1
		}
		pose, err := tr.PoseAt(t)
		if err != nil {
			return nil, err
		}
		poses[i] = pose
	}
	return poses, nil
}
