package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
)

// orthonormalEps is the tolerance used when validating rotation blocks.
const orthonormalEps = 1e-6

// OrientationFromAxes builds the orientation whose frame axes, expressed in
// the parent frame, are x, y and z. spatialmath stores a rotation matrix
// with the frame axes as its rows.
func OrientationFromAxes(x, y, z r3.Vector) (spatialmath.Orientation, error) {
	if err := CheckOrthonormal(x, y, z); err != nil {
		return nil, err
	}
	rm, err := spatialmath.NewRotationMatrix([]float64{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// PoseFromAxes builds a pose with the given position and frame axes.
func PoseFromAxes(position, x, y, z r3.Vector) (spatialmath.Pose, error) {
	o, err := OrientationFromAxes(x, y, z)
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(position, o), nil
}

// Axes returns the frame axes of o in the parent frame: the images of
// the unit x, y and z vectors.
func Axes(o spatialmath.Orientation) (x, y, z r3.Vector) {
	rm := o.RotationMatrix()
	return rm.Row(0), rm.Row(1), rm.Row(2)
}

// Rotate applies the rotation o to v.
func Rotate(o spatialmath.Orientation, v r3.Vector) r3.Vector {
	x, y, z := Axes(o)
	return x.Mul(v.X).Add(y.Mul(v.Y)).Add(z.Mul(v.Z))
}

// ComposeOrientations returns the orientation a*b.
func ComposeOrientations(a, b spatialmath.Orientation) spatialmath.Orientation {
	return spatialmath.Compose(
		spatialmath.NewPose(r3.Vector{}, a),
		spatialmath.NewPose(r3.Vector{}, b),
	).Orientation()
}

// Translate returns p shifted by offset in the world frame.
func Translate(p spatialmath.Pose, offset r3.Vector) spatialmath.Pose {
	return spatialmath.NewPose(p.Point().Add(offset), p.Orientation())
}

// CheckOrthonormal verifies that x, y, z are unit length, mutually
// orthogonal and right-handed.
func CheckOrthonormal(x, y, z r3.Vector) error {
	for _, v := range []r3.Vector{x, y, z} {
		if math.Abs(v.Norm()-1) > orthonormalEps {
			return ErrNotOrthonormal
		}
	}
	if math.Abs(x.Dot(y)) > orthonormalEps || math.Abs(y.Dot(z)) > orthonormalEps || math.Abs(x.Dot(z)) > orthonormalEps {
		return ErrNotOrthonormal
	}
	if x.Cross(y).Sub(z).Norm() > orthonormalEps {
		return ErrNotOrthonormal
	}
	return nil
}

// Homogeneous returns the 4x4 homogeneous transform of p, with the frame
// axes as the columns of the rotation block.
func Homogeneous(p spatialmath.Pose) *mat.Dense {
	x, y, z := Axes(p.Orientation())
	t := p.Point()
	return mat.NewDense(4, 4, []float64{
		x.X, y.X, z.X, t.X,
		x.Y, y.Y, z.Y, t.Y,
		x.Z, y.Z, z.Z, t.Z,
		0, 0, 0, 1,
	})
}

// PoseFromHomogeneous converts a 4x4 homogeneous transform into a pose. The
// rotation block must be orthonormal.
func PoseFromHomogeneous(m mat.Matrix) (spatialmath.Pose, error) {
	if r, c := m.Dims(); r != 4 || c != 4 {
		return nil, ErrBadTransformShape
	}
	col := func(j int) r3.Vector {
		return r3.Vector{X: m.At(0, j), Y: m.At(1, j), Z: m.At(2, j)}
	}
	return PoseFromAxes(col(3), col(0), col(1), col(2))
}

// Invert returns the inverse rigid transform of p.
func Invert(p spatialmath.Pose) spatialmath.Pose {
	return spatialmath.PoseInverse(p)
}
