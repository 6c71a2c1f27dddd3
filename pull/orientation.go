package pull

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/rdk/utils"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

const horizontalEps = 1e-9

// TopDownOrientation returns a gripper orientation pointing straight down
// with the fingers opening along the horizontal part of openDirection:
// x = openDirection projected on the table, z = -world z, y = z cross x.
func TopDownOrientation(openDirection r3.Vector) (spatialmath.Orientation, error) {
	x, err := horizontal(openDirection)
	if err != nil {
		return nil, err
	}
	z := geometry.WorldUp.Mul(-1)
	return geometry.OrientationFromAxes(x, z.Cross(x), z)
}

// TiltedPullOrientation returns the top-down orientation for grasping at
// target with an arm based at base, tilted about the gripper y axis by
// cfg.TiltAngleDeg. Targets within cfg.CloseTargetDistance of the base are
// tilted the other way, toward the arm.
func TiltedPullOrientation(target, base r3.Vector, cfg Config) (spatialmath.Orientation, error) {
	baseToTarget := target.Sub(base)
	tilt := utils.DegToRad(cfg.TiltAngleDeg)
	if baseToTarget.Norm() < cfg.CloseTargetDistance {
		tilt = -tilt
	}

	topDown, err := TopDownOrientation(baseToTarget)
	if err != nil {
		return nil, err
	}
	x, y, z := geometry.Axes(topDown)
	var origin r3.Vector
	return geometry.OrientationFromAxes(
		geometry.RotatePoint(x, origin, y, tilt),
		y,
		geometry.RotatePoint(z, origin, y, tilt),
	)
}

func horizontal(v r3.Vector) (r3.Vector, error) {
	planar := r3.Vector{X: v.X, Y: v.Y}
	if planar.Norm() < horizontalEps {
		return r3.Vector{}, ErrDegenerateDirection
	}
	return planar.Normalize(), nil
}
