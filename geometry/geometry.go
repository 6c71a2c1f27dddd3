// Package geometry holds the small table-plane utilities shared by the fold
// and pull planners: keypoint ordering, signed angles, edge classification
// and rotations about a pivot.
package geometry

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
)

// WorldUp is the fixed world z axis. The table plane is z = 0.
var WorldUp = r3.Vector{X: 0, Y: 0, Z: 1}

// Edge indexes two corners of an ordered quadrilateral.
type Edge [2]int

// QuadEdges are the edges of an ordered quadrilateral in winding order.
var QuadEdges = [4]Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}}

// Centroid returns the mean of the given points.
func Centroid(points []r3.Vector) (r3.Vector, error) {
	if len(points) == 0 {
		return r3.Vector{}, ErrEmptyPointSet
	}
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points))), nil
}

// Angle2D returns the signed angle in radians that rotates v0 onto v1 in the
// xy plane. Counter-clockwise is positive; the result lies in (-pi, pi].
func Angle2D(v0, v1 r3.Vector) float64 {
	dot := v0.X*v1.X + v0.Y*v1.Y
	det := v0.X*v1.Y - v0.Y*v1.X
	return math.Atan2(det, dot)
}

// OrderKeypoints returns the keypoints sorted counter-clockwise by their angle
// around the centroid, measured from the world +x axis in [0, 2pi). The
// result does not depend on the input order.
func OrderKeypoints(keypoints []r3.Vector) ([]r3.Vector, error) {
	center, err := Centroid(keypoints)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		point r3.Vector
		angle float64
	}
	xAxis := r3.Vector{X: 1}
	sorted := make([]keyed, len(keypoints))
	for i, p := range keypoints {
		angle := Angle2D(xAxis, p.Sub(center))
		if angle < 0 {
			angle += 2 * math.Pi
		}
		sorted[i] = keyed{point: p, angle: angle}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].angle < sorted[j].angle
	})

	ordered := make([]r3.Vector, len(sorted))
	for i, k := range sorted {
		ordered[i] = k.point
	}
	return ordered, nil
}

// EdgeLength returns the length of edge e of the ordered corners.
func EdgeLength(corners []r3.Vector, e Edge) float64 {
	return corners[e[0]].Sub(corners[e[1]]).Norm()
}

// ShortAndLongEdges splits the edges of an ordered quadrilateral into its two
// short and two long edges. Opposite edges are paired and compared by their
// summed length; on a tie the pair starting at edge 0 counts as short.
func ShortAndLongEdges(corners []r3.Vector) (short, long [2]Edge, err error) {
	if len(corners) != 4 {
		return short, long, ErrNotQuadrilateral
	}
	even := EdgeLength(corners, QuadEdges[0]) + EdgeLength(corners, QuadEdges[2])
	odd := EdgeLength(corners, QuadEdges[1]) + EdgeLength(corners, QuadEdges[3])

	evenPair := [2]Edge{QuadEdges[0], QuadEdges[2]}
	oddPair := [2]Edge{QuadEdges[1], QuadEdges[3]}
	if even <= odd {
		return evenPair, oddPair, nil
	}
	return oddPair, evenPair, nil
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r3.Vector) r3.Vector {
	return a.Add(b).Mul(0.5)
}

// RotatePoint rotates point by angle radians about the axis through pivot.
func RotatePoint(point, pivot, axis r3.Vector, angle float64) r3.Vector {
	unit := axis.Normalize()
	rotation := &spatialmath.R4AA{Theta: angle, RX: unit.X, RY: unit.Y, RZ: unit.Z}
	return Rotate(rotation, point.Sub(pivot)).Add(pivot)
}

// VectorCosine returns the cosine of the angle between v0 and v1.
func VectorCosine(v0, v1 r3.Vector) float64 {
	return v0.Dot(v1) / v0.Norm() / v1.Norm()
}

// ClosestPoint returns the candidate nearest to point and its index. The
// first candidate wins ties.
func ClosestPoint(point r3.Vector, candidates []r3.Vector) (r3.Vector, int) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if d := point.Distance(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return r3.Vector{}, -1
	}
	return candidates[best], best
}
