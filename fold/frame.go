package fold

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

// Frame is the local fold frame: origin at the midpoint of the fold axis,
// x along the axis, z world-up and y = z cross x.
type Frame struct {
	Origin r3.Vector
	X, Y, Z r3.Vector
	Length  float64

	pose spatialmath.Pose
}

// NewFrame builds the fold frame for the axis from start to end. X is the
// projection of end-start onto the table plane, normalized, so it equals
// the axis direction only when start and end are at the same height. An
// axis with no planar component returns ErrVerticalAxis and coincident
// endpoints return ErrZeroLength.
func NewFrame(start, end r3.Vector) (Frame, error) {
	axis := end.Sub(start)
	length := axis.Norm()
	if length == 0 {
		return Frame{}, ErrZeroLength
	}
	planar := r3.Vector{X: axis.X, Y: axis.Y}
	if planar.Norm() < 1e-9 {
		return Frame{}, ErrVerticalAxis
	}

	f := Frame{
		Origin: geometry.Midpoint(start, end),
		X:      planar.Normalize(),
		Z:      geometry.WorldUp,
		Length: length,
	}
	f.Y = f.Z.Cross(f.X)

	pose, err := geometry.PoseFromAxes(f.Origin, f.X, f.Y, f.Z)
	if err != nil {
		return Frame{}, err
	}
	f.pose = pose
	return f, nil
}

// Pose returns the frame as a pose in the world frame.
func (f Frame) Pose() spatialmath.Pose {
	return f.pose
}

// ToWorld expresses a pose given in the fold frame in the world frame.
func (f Frame) ToWorld(local spatialmath.Pose) spatialmath.Pose {
	return spatialmath.Compose(f.pose, local)
}
