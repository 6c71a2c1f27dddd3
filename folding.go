package clothmanip

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
)

// PlanFold plans a fold of the towel in half across its long axis: the
// midpoint of the short edge with the higher y is carried onto the midpoint
// of the opposite short edge.
func PlanFold(corners []r3.Vector, kind fold.Kind) (*fold.Trajectory, error) {
	if len(corners) != 4 {
		return nil, fmt.Errorf("got %d corners: %w", len(corners), pull.ErrCornerCount)
	}
	ordered, err := geometry.OrderKeypoints(corners)
	if err != nil {
		return nil, err
	}
	short, _, err := geometry.ShortAndLongEdges(ordered)
	if err != nil {
		return nil, err
	}
	start := geometry.Midpoint(ordered[short[0][0]], ordered[short[0][1]])
	end := geometry.Midpoint(ordered[short[1][0]], ordered[short[1][1]])
	if start.Y < end.Y {
		start, end = end, start
	}
	// Grasp on the table surface.
	start.Z, end.Z = 0, 0
	return fold.New(kind, start, end)
}

// Fold observes the towel and folds it in half with the configured
// trajectory kind.
func Fold(ctx context.Context, r *Robot) error {
	corners, err := Perceive(ctx, r)
	if err != nil {
		return err
	}
	tr, err := PlanFold(corners, r.cfg.Fold.Kind)
	if err != nil {
		return fmt.Errorf("plan fold: %w", err)
	}
	r.logger.Infof("Folding %s from %v to %v", tr.Kind(), tr.Start(), tr.End())
	if r.Scene != nil {
		if err := r.Scene.DrawFold(tr, r.cfg.Fold.Waypoints); err != nil {
			r.logger.Warnf("Scene not updated: %v", err)
		}
	}
	return r.ExecuteFold(ctx, tr)
}
