package clothmanip

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
)

// Run executes the reorientation loop: observe → plan → show → pull, until
// no pull is needed, the pull budget is spent or ctx is done. Both arms are
// sent home at the end. The last plan is returned.
func Run(ctx context.Context, r *Robot) (*pull.Reorientation, error) {
	r.logger.Info("Starting reorientation loop")
	r.resetState()

	for !r.state.Done {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down")
			return r.state.Last, ctx.Err()
		default:
		}
		if r.cfg.MaxPulls > 0 && r.state.Pulls >= r.cfg.MaxPulls {
			r.logger.Warnf("Stopping after %d pulls", r.state.Pulls)
			break
		}

		if err := runCycle(ctx, r); err != nil {
			r.logger.Errorf("Cycle %s failed: %v", r.state.CycleID, err)
			var unreachable *pull.UnreachableError
			if !errors.As(err, &unreachable) {
				// The cloth may still be held.
				if relErr := ReleaseGrippers(context.WithoutCancel(ctx), r); relErr != nil {
					r.logger.Warnf("Release after failure: %v", relErr)
				}
			}
			return r.state.Last, err
		}
	}

	if r.state.Done {
		r.logger.Infof("Towel reoriented after %d pulls", r.state.Pulls)
	}
	if err := Home(ctx, r); err != nil {
		return r.state.Last, err
	}
	return r.state.Last, nil
}

// runCycle executes a single observe-to-pull cycle.
func runCycle(ctx context.Context, r *Robot) error {
	r.state.CycleID = uuid.NewString()

	steps := []struct {
		name string
		fn   func(context.Context, *Robot) error
	}{
		{"Observe", Observe},
		{"PlanPull", PlanPull},
		{"Show", Show},
		{"Pull", Pull},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.logger.Infof("=== %s [%s] ===", step.name, r.state.CycleID)
		if err := step.fn(ctx, r); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// Observe clears the view and stores the towel corners.
func Observe(ctx context.Context, r *Robot) error {
	if r.state.CycleID == "" {
		r.state.CycleID = uuid.NewString()
	}
	corners, err := Perceive(ctx, r)
	if err != nil {
		return err
	}
	r.state.Corners = corners
	return nil
}

// PlanPull plans the next reorientation pull from the observed corners. The
// loop is marked done when no corner needs to move or the pull is shorter
// than the minimum pull distance.
func PlanPull(_ context.Context, r *Robot) error {
	re, err := pull.Plan(r.state.Corners, r.dual, r.cfg.Pull)
	if re != nil {
		r.state.Last = re
		avg := re.AverageCornerError()
		r.state.Errors = append(r.state.Errors, avg)
		r.logger.Infof("Average corner error %.4f m, scores %.3f", avg, re.Scores)
	}
	if err != nil {
		return err
	}

	switch {
	case re.NoPullNeeded():
		r.logger.Info("Every corner is at its target")
		r.state.Done = true
	case re.Pull.Length() < r.cfg.Pull.MinPullDistance:
		r.logger.Infof("Pull of %.3f m is below the minimum", re.Pull.Length())
		r.state.Done = true
	default:
		r.logger.Infof("Planned %v", re.Pull)
	}
	return nil
}

// Show draws the plan in the 3D scene and writes the overlay image. Display
// problems are logged and never stop the loop.
func Show(ctx context.Context, r *Robot) error {
	re := r.state.Last
	if re == nil {
		return nil
	}
	if r.Scene != nil {
		if err := r.Scene.DrawReorientation(re); err != nil {
			r.logger.Warnf("Scene not updated: %v", err)
		}
	}
	path, err := saveCycleView(ctx, r, re)
	if err != nil {
		r.logger.Warnf("Overlay not saved: %v", err)
	} else if path != "" {
		r.logger.Infof("Saved overlay to %s", path)
	}
	return nil
}

// Pull executes the planned pull unless the loop is done.
func Pull(ctx context.Context, r *Robot) error {
	re := r.state.Last
	if r.state.Done || re == nil || re.Pull == nil {
		return nil
	}
	if err := r.ExecutePull(ctx, re.Pull); err != nil {
		return err
	}
	r.state.Pulls++
	return nil
}
