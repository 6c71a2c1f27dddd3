package fold

import (
	"math"
	"time"

	"go.viam.com/rdk/spatialmath"
)

// Limits bounds the linear speed (m/s) and acceleration (m/s^2) of the tool
// along a path.
type Limits struct {
	Speed        float64
	Acceleration float64
}

// Waypoint is a sampled pose annotated with its arc length from the start of
// the path, the target tool speed when passing it, and the time at which it
// is reached.
type Waypoint struct {
	Pose     spatialmath.Pose
	Distance float64
	Speed    float64
	Time     time.Duration
}

// Timed assigns speeds and timestamps to a sampled path following a
// trapezoidal speed profile that starts and ends at rest. When the path is
// too short to reach lim.Speed the profile degrades to a triangle.
func Timed(path []spatialmath.Pose, lim Limits) ([]Waypoint, error) {
	if lim.Speed <= 0 || lim.Acceleration <= 0 {
		return nil, ErrInvalidLimits
	}
	if len(path) < 2 {
		return nil, ErrTooFewWaypoints
	}

	waypoints := make([]Waypoint, len(path))
	var total float64
	for i, pose := range path {
		if i > 0 {
			total += pose.Point().Distance(path[i-1].Point())
		}
		waypoints[i] = Waypoint{Pose: pose, Distance: total}
	}

	for i := range waypoints {
		s := waypoints[i].Distance
		v := math.Min(lim.Speed, math.Sqrt(2*lim.Acceleration*s))
		v = math.Min(v, math.Sqrt(2*lim.Acceleration*math.Max(total-s, 0)))
		waypoints[i].Speed = v
	}

	var elapsed float64
	for i := 1; i < len(waypoints); i++ {
		ds := waypoints[i].Distance - waypoints[i-1].Distance
		avg := (waypoints[i].Speed + waypoints[i-1].Speed) / 2
		if ds > 0 && avg > 0 {
			elapsed += ds / avg
		}
		waypoints[i].Time = time.Duration(elapsed * float64(time.Second))
	}
	return waypoints, nil
}

// SegmentSpeed is the speed to command when moving from waypoint i-1 to i.
// It never drops below floor so the first and last segments still move.
func SegmentSpeed(waypoints []Waypoint, i int, floor float64) float64 {
	if i <= 0 || i >= len(waypoints) {
		return floor
	}
	return math.Max((waypoints[i].Speed+waypoints[i-1].Speed)/2, floor)
}
