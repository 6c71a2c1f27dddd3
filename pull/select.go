package pull

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

// DesiredCorners computes where each ordered towel corner should end up.
// The towel is rotated about its centroid until the line through the
// midpoints of its short edges points along world +y, and recentred at the
// origin. Each centred corner is then matched to the nearest corner of the
// axis-aligned bounding box of the centred corners. The match is per corner,
// so two corners may share a target.
//
// The desired corners lie on z = 0 around the world origin. The centred
// corners are returned alongside.
func DesiredCorners(ordered []r3.Vector) (desired, centered []r3.Vector, err error) {
	if len(ordered) != 4 {
		return nil, nil, ErrCornerCount
	}
	short, _, err := geometry.ShortAndLongEdges(ordered)
	if err != nil {
		return nil, nil, err
	}
	middles := [2]r3.Vector{
		geometry.Midpoint(ordered[short[0][0]], ordered[short[0][1]]),
		geometry.Midpoint(ordered[short[1][0]], ordered[short[1][1]]),
	}
	if middles[0].Y < middles[1].Y {
		middles[0], middles[1] = middles[1], middles[0]
	}
	towelAxis := middles[0].Sub(middles[1])
	angle := geometry.Angle2D(towelAxis, r3.Vector{Y: 1})

	center, err := geometry.Centroid(ordered)
	if err != nil {
		return nil, nil, err
	}

	centered = make([]r3.Vector, len(ordered))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, c := range ordered {
		p := geometry.RotatePoint(c, center, geometry.WorldUp, angle).Sub(center)
		centered[i] = p
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	bbox := []r3.Vector{
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
	}
	desired = make([]r3.Vector, len(centered))
	for i, p := range centered {
		desired[i], _ = geometry.ClosestPoint(p, bbox)
	}
	return desired, centered, nil
}

// Score rates pulling corner to desired on a towel centred at center. It is
// the cosine between the outward radial direction of the corner and the pull
// direction, so pulls that spread the towel outward score highest. Pulls
// shorter than minDistance score -1.
func Score(corner, desired, center r3.Vector, minDistance float64) float64 {
	pull := desired.Sub(corner)
	if pull.Norm() < minDistance {
		return -1
	}
	return geometry.VectorCosine(corner.Sub(center), pull)
}

// SelectBestPull scores every corner against its desired position and
// returns the index of the best one together with all scores. The first
// corner wins ties.
func SelectBestPull(ordered, desired []r3.Vector, minDistance float64) (int, []float64, error) {
	if len(ordered) != 4 || len(desired) != 4 {
		return -1, nil, ErrCornerCount
	}
	center, err := geometry.Centroid(ordered)
	if err != nil {
		return -1, nil, err
	}
	scores := make([]float64, len(ordered))
	best := 0
	for i := range ordered {
		scores[i] = Score(ordered[i], desired[i], center, minDistance)
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best, scores, nil
}

// Inset moves start by cfg.Inset toward towelCenter and end by cfg.Inset
// toward desiredCenter, then lowers both by cfg.ComplianceDistance. A point
// that already coincides with its center only gets lowered.
func Inset(start, end, towelCenter, desiredCenter r3.Vector, cfg Config) (r3.Vector, r3.Vector) {
	lower := geometry.WorldUp.Mul(-cfg.ComplianceDistance)
	start = start.Add(towelCenter.Sub(start).Normalize().Mul(cfg.Inset)).Add(lower)
	end = end.Add(desiredCenter.Sub(end).Normalize().Mul(cfg.Inset)).Add(lower)
	return start, end
}
