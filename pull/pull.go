// Package pull selects and describes straight-line pulls that drag a towel
// corner over the table. The main entry point is Plan, which picks the
// corner whose pull best spreads the towel toward an axis-aligned target
// rectangle and assigns the arm that can safely perform it.
package pull

import (
	"fmt"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// Pull is a straight-line drag from Start to End with the gripper closed on
// the table. Poses are derived on demand from the positions, orientations
// and ApproachHeight.
type Pull struct {
	Start            r3.Vector
	End              r3.Vector
	StartOrientation spatialmath.Orientation
	EndOrientation   spatialmath.Orientation
	ApproachHeight   float64

	// Arm is set when the pull has been assigned to one arm of the rig.
	Arm rig.Arm
}

// NewPull returns a pull between two points with the plain top-down gripper
// orientation, fingers opening along world x.
func NewPull(start, end r3.Vector) *Pull {
	return &Pull{
		Start:            start,
		End:              end,
		StartOrientation: topDown(),
		EndOrientation:   topDown(),
		ApproachHeight:   DefaultConfig().ApproachHeight,
	}
}

// topDown is the rotation diag(-1, 1, -1).
func topDown() spatialmath.Orientation {
	o, err := spatialmath.NewRotationMatrix([]float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, -1,
	})
	if err != nil {
		panic(fmt.Sprintf("top-down rotation: %v", err))
	}
	return o
}

// StartPose is the pose in which the gripper closes on the towel.
func (p *Pull) StartPose() spatialmath.Pose {
	return spatialmath.NewPose(p.Start, p.StartOrientation)
}

// EndPose is the pose at which the drag ends.
func (p *Pull) EndPose() spatialmath.Pose {
	return spatialmath.NewPose(p.End, p.EndOrientation)
}

// PregraspPose is the start pose raised by ApproachHeight.
func (p *Pull) PregraspPose() spatialmath.Pose {
	return geometry.Translate(p.StartPose(), geometry.WorldUp.Mul(p.ApproachHeight))
}

// RetreatPose is the end pose raised by ApproachHeight.
func (p *Pull) RetreatPose() spatialmath.Pose {
	return geometry.Translate(p.EndPose(), geometry.WorldUp.Mul(p.ApproachHeight))
}

// Length is the distance covered by the drag.
func (p *Pull) Length() float64 {
	return p.End.Distance(p.Start)
}

func (p *Pull) String() string {
	arm := "unassigned"
	if p.Arm != nil {
		arm = p.Arm.Name()
	}
	return fmt.Sprintf("pull %v -> %v (%s)", p.Start, p.End, arm)
}
