package keypoints

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

const parallelEps = 1e-12

// Intrinsics is a 3x3 pinhole camera matrix.
type Intrinsics struct {
	k    *mat.Dense
	kInv *mat.Dense
}

// NewIntrinsics validates and inverts the camera matrix k.
func NewIntrinsics(k mat.Matrix) (*Intrinsics, error) {
	if r, c := k.Dims(); r != 3 || c != 3 {
		return nil, ErrBadIntrinsics
	}
	var inv mat.Dense
	if err := inv.Inverse(k); err != nil {
		return nil, ErrBadIntrinsics
	}
	return &Intrinsics{k: mat.DenseCopyOf(k), kInv: &inv}, nil
}

// PinholeIntrinsics builds the camera matrix from focal lengths and principal point.
func PinholeIntrinsics(fx, fy, cx, cy float64) (*Intrinsics, error) {
	return NewIntrinsics(mat.NewDense(3, 3, []float64{
		fx, 0, cx,
		0, fy, cy,
		0, 0, 1,
	}))
}

// Matrix returns a copy of the camera matrix.
func (in *Intrinsics) Matrix() *mat.Dense {
	return mat.DenseCopyOf(in.k)
}

// Ray returns the direction, in the camera frame, of the ray through px.
func (in *Intrinsics) Ray(px Pixel) r3.Vector {
	var d mat.VecDense
	d.MulVec(in.kInv, mat.NewVecDense(3, []float64{px.U, px.V, 1}))
	return r3.Vector{X: d.AtVec(0), Y: d.AtVec(1), Z: d.AtVec(2)}
}

// Project maps a point in the camera frame to its pixel.
func (in *Intrinsics) Project(p r3.Vector) (Pixel, error) {
	if p.Z <= 0 {
		return Pixel{}, ErrBehindCamera
	}
	var h mat.VecDense
	h.MulVec(in.k, mat.NewVecDense(3, []float64{p.X, p.Y, p.Z}))
	return Pixel{U: h.AtVec(0) / h.AtVec(2), V: h.AtVec(1) / h.AtVec(2)}, nil
}

// ProjectWorld maps a world point to its pixel given the pose of the world
// frame in the camera frame.
func (in *Intrinsics) ProjectWorld(p r3.Vector, worldInCamera spatialmath.Pose) (Pixel, error) {
	return in.Project(spatialmath.Compose(worldInCamera, spatialmath.NewPoseFromPoint(p)).Point())
}

// ReprojectToPlane intersects the ray through px with the z = 0 plane of the
// frame whose pose in the camera frame is planeInCamera, and returns the hit
// point in that frame.
func ReprojectToPlane(px Pixel, in *Intrinsics, planeInCamera spatialmath.Pose) (r3.Vector, error) {
	cameraInPlane := geometry.Invert(planeInCamera)
	origin := cameraInPlane.Point()
	along := spatialmath.Compose(cameraInPlane, spatialmath.NewPoseFromPoint(in.Ray(px))).Point()
	dir := along.Sub(origin)
	if math.Abs(dir.Z) < parallelEps {
		return r3.Vector{}, ErrRayParallel
	}
	t := -origin.Z / dir.Z
	if t < 0 {
		return r3.Vector{}, ErrBehindCamera
	}
	hit := origin.Add(dir.Mul(t))
	hit.Z = 0
	return hit, nil
}

// ReprojectAll reprojects every pixel and shifts the results by offset,
// the fixed translation from the plane frame to the world frame.
func ReprojectAll(pixels []Pixel, in *Intrinsics, planeInCamera spatialmath.Pose, offset r3.Vector) ([]r3.Vector, error) {
	out := make([]r3.Vector, len(pixels))
	for i, px := range pixels {
		p, err := ReprojectToPlane(px, in, planeInCamera)
		if err != nil {
			return nil, err
		}
		out[i] = p.Add(offset)
	}
	return out, nil
}
