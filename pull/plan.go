package pull

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// Reorientation is the outcome of planning one towel reorientation pull.
type Reorientation struct {
	Corners  []r3.Vector // as given
	Ordered  []r3.Vector
	Desired  []r3.Vector
	Centered []r3.Vector
	Scores   []float64
	Best     int

	// OriginalStart and OriginalEnd are the selected corner and its target
	// before the inset.
	OriginalStart r3.Vector
	OriginalEnd   r3.Vector

	// Pull is nil when no corner is far enough from its target.
	Pull *Pull

	minPullDistance float64
}

// Select runs the selection steps of Plan without assigning an arm: order
// the corners, compute their desired positions, score them and inset the
// winning pull. The returned pull has top-down orientations.
func Select(corners []r3.Vector, cfg Config) (*Reorientation, error) {
	if len(corners) != 4 {
		return nil, fmt.Errorf("got %d corners: %w", len(corners), ErrCornerCount)
	}
	ordered, err := geometry.OrderKeypoints(corners)
	if err != nil {
		return nil, err
	}
	desired, centered, err := DesiredCorners(ordered)
	if err != nil {
		return nil, err
	}
	best, scores, err := SelectBestPull(ordered, desired, cfg.MinPullDistance)
	if err != nil {
		return nil, err
	}

	r := &Reorientation{
		Corners:         corners,
		Ordered:         ordered,
		Desired:         desired,
		Centered:        centered,
		Scores:          scores,
		Best:            best,
		OriginalStart:   ordered[best],
		OriginalEnd:     desired[best],
		minPullDistance: cfg.MinPullDistance,
	}
	if r.NoPullNeeded() {
		return r, nil
	}

	towelCenter, err := geometry.Centroid(ordered)
	if err != nil {
		return nil, err
	}
	desiredCenter, err := geometry.Centroid(desired)
	if err != nil {
		return nil, err
	}
	start, end := Inset(r.OriginalStart, r.OriginalEnd, towelCenter, desiredCenter, cfg)
	r.Pull = NewPull(start, end)
	r.Pull.ApproachHeight = cfg.ApproachHeight
	return r, nil
}

// Plan selects the best reorientation pull for the detected towel corners
// and assigns it to an arm of dual. When every corner is already within
// cfg.MinPullDistance of its target the returned Reorientation has no Pull.
// When neither arm can reach the pull the error is an *UnreachableError.
func Plan(corners []r3.Vector, dual *rig.DualArm, cfg Config) (*Reorientation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := Select(corners, cfg)
	if err != nil {
		return nil, err
	}
	if r.Pull == nil {
		return r, nil
	}
	if _, err := AssignArm(r.Pull, dual, cfg); err != nil {
		return r, err
	}
	return r, nil
}

// NoPullNeeded reports whether every corner is within the minimum pull
// distance of its desired position.
func (r *Reorientation) NoPullNeeded() bool {
	for i := range r.Ordered {
		if r.Desired[i].Distance(r.Ordered[i]) >= r.minPullDistance {
			return false
		}
	}
	return true
}

// AverageCornerError is the mean distance between each ordered corner and
// its desired position.
func (r *Reorientation) AverageCornerError() float64 {
	if len(r.Ordered) == 0 {
		return 0
	}
	var sum float64
	for i := range r.Ordered {
		sum += r.Ordered[i].Distance(r.Desired[i])
	}
	return sum / float64(len(r.Ordered))
}
