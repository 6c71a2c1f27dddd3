package clothmanip

import (
	"context"
	"errors"
	"fmt"

	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// Home sends both arms to their home poses, left first.
func Home(ctx context.Context, r *Robot) error {
	for _, a := range r.dual.Arms() {
		r.logger.Infof("Moving %s home", a.Name())
		if err := a.MoveTo(ctx, a.HomePose()); err != nil {
			return fmt.Errorf("%s home: %w", a.Name(), err)
		}
	}
	return nil
}

// ClearView moves both arms home and then out of the camera view so the
// towel can be observed. Arms without an out-of-way pose stay home.
func ClearView(ctx context.Context, r *Robot) error {
	if err := Home(ctx, r); err != nil {
		return err
	}
	for _, a := range r.dual.Arms() {
		pose := r.outOfWayPose(a)
		if pose == nil {
			r.logger.Warnf("No out-of-way pose for %s; leaving it home", a.Name())
			continue
		}
		if err := a.MoveTo(ctx, pose); err != nil {
			return fmt.Errorf("%s out of way: %w", a.Name(), err)
		}
	}
	return nil
}

// ReleaseGrippers opens both grippers to leave the cloth free after an
// aborted motion. Both grippers are tried even when the first one fails.
func ReleaseGrippers(ctx context.Context, r *Robot) error {
	var errs []error
	for _, a := range r.dual.Arms() {
		if err := a.Gripper().Open(ctx); err != nil {
			r.logger.Warnf("Failed to open %s gripper: %v", a.Name(), err)
			errs = append(errs, fmt.Errorf("%s gripper: %w", a.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *Robot) outOfWayPose(a rig.Arm) spatialmath.Pose {
	switch a.Name() {
	case r.cfg.Left.Name:
		return r.cfg.Left.OutOfWay
	case r.cfg.Right.Name:
		return r.cfg.Right.OutOfWay
	}
	return nil
}
