package pull

import (
	"fmt"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// AssignArm tries the arms of dual in preference order and assigns the
// first one for which both the start and end poses, with tilted
// orientations computed from that arm's base, are safe. The pull is only
// modified on success.
func AssignArm(p *Pull, dual *rig.DualArm, cfg Config) (rig.Arm, error) {
	if dual == nil {
		return nil, ErrNoArm
	}
	for _, arm := range dual.Arms() {
		base := rig.BaseLocation(arm)
		startOrientation, err := TiltedPullOrientation(p.Start, base, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s start orientation: %w", arm.Name(), err)
		}
		endOrientation, err := TiltedPullOrientation(p.End, base, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s end orientation: %w", arm.Name(), err)
		}

		candidate := *p
		candidate.StartOrientation = startOrientation
		candidate.EndOrientation = endOrientation
		if arm.IsPoseUnsafe(candidate.StartPose()) || arm.IsPoseUnsafe(candidate.EndPose()) {
			continue
		}

		p.StartOrientation = startOrientation
		p.EndOrientation = endOrientation
		p.Arm = arm
		return arm, nil
	}
	return nil, &UnreachableError{Start: p.Start, End: p.End}
}
