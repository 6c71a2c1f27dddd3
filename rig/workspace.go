package rig

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
)

// Workspace is an axis-aligned box in the world frame that the tool must
// stay inside, optionally combined with a maximum reach from the arm base.
type Workspace struct {
	Min r3.Vector `mapstructure:"min"`
	Max r3.Vector `mapstructure:"max"`
	// Reach is the maximum distance from the base to the tool; zero disables the check.
	Reach float64 `mapstructure:"reach"`
}

// Contains reports whether p lies inside the box.
func (w Workspace) Contains(p r3.Vector) bool {
	return p.X >= w.Min.X && p.X <= w.Max.X &&
		p.Y >= w.Min.Y && p.Y <= w.Max.Y &&
		p.Z >= w.Min.Z && p.Z <= w.Max.Z
}

// Unsafe reports whether pose is outside the box or out of reach of an arm
// whose base sits at base.
func (w Workspace) Unsafe(base r3.Vector, pose spatialmath.Pose) bool {
	p := pose.Point()
	if !w.Contains(p) {
		return true
	}
	return w.Reach > 0 && p.Distance(base) > w.Reach
}
