package clothmanip

import (
	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// Default rig layout in the world frame, in meters. The world origin is the
// center of the table; the arms face each other across the y axis.
var (
	// LeftBase is the base of the left arm.
	LeftBase = spatialmath.NewPoseFromPoint(r3.Vector{X: 0, Y: -0.45, Z: 0})

	// RightBase is the base of the right arm, rotated to face the left one.
	RightBase = spatialmath.NewPose(
		r3.Vector{X: 0, Y: 0.45, Z: 0},
		&spatialmath.OrientationVectorDegrees{OZ: 1, Theta: 180},
	)

	// topDown points the tool straight at the table.
	topDown = &spatialmath.OrientationVectorDegrees{OZ: -1}

	// LeftHome is a safe pose above the table in front of the left arm.
	LeftHome = spatialmath.NewPose(r3.Vector{X: 0, Y: -0.2, Z: 0.3}, topDown)

	// RightHome is a safe pose above the table in front of the right arm.
	RightHome = spatialmath.NewPose(r3.Vector{X: 0, Y: 0.2, Z: 0.3}, topDown)

	// LeftOutOfWay keeps the left arm out of the camera view.
	LeftOutOfWay = spatialmath.NewPose(r3.Vector{X: -0.25, Y: -0.35, Z: 0.35}, topDown)

	// RightOutOfWay keeps the right arm out of the camera view.
	RightOutOfWay = spatialmath.NewPose(r3.Vector{X: -0.25, Y: 0.35, Z: 0.35}, topDown)

	// TableWorkspace bounds every tool pose and limits the reach of each arm.
	// The small negative floor leaves room for the compliance push into the
	// table.
	TableWorkspace = rig.Workspace{
		Min:   r3.Vector{X: -0.6, Y: -0.7, Z: -0.01},
		Max:   r3.Vector{X: 0.6, Y: 0.7, Z: 0.6},
		Reach: 0.85,
	}

	// MarkerToWorld is the fixed translation from the table marker to the
	// world origin.
	MarkerToWorld = r3.Vector{X: -0.004, Y: -0.23, Z: 0}
)
