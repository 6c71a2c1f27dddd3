package fold

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"
)

func straightPath(length float64, n int) []spatialmath.Pose {
	path := make([]spatialmath.Pose, n)
	for i := range path {
		path[i] = spatialmath.NewPoseFromPoint(r3.Vector{X: length * float64(i) / float64(n-1)})
	}
	return path
}

func TestTimedTrapezoid(t *testing.T) {
	wps, err := Timed(straightPath(1, 201), Limits{Speed: 0.2, Acceleration: 0.1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(wps), test.ShouldEqual, 201)

	test.That(t, wps[0].Speed, test.ShouldEqual, 0.0)
	test.That(t, wps[200].Speed, test.ShouldAlmostEqual, 0.0)
	test.That(t, wps[100].Speed, test.ShouldAlmostEqual, 0.2)
	test.That(t, wps[200].Distance, test.ShouldAlmostEqual, 1.0)

	for i := 1; i < len(wps); i++ {
		test.That(t, wps[i].Time, test.ShouldBeGreaterThan, wps[i-1].Time)
		test.That(t, wps[i].Speed, test.ShouldBeLessThanOrEqualTo, 0.2+1e-12)
	}

	// 3s cruising plus 2s to accelerate and 2s to brake.
	total := wps[200].Time.Seconds()
	test.That(t, total, test.ShouldBeBetween, 6.8, 7.2)
}

func TestTimedTriangle(t *testing.T) {
	wps, err := Timed(straightPath(0.1, 101), Limits{Speed: 1, Acceleration: 0.1})
	test.That(t, err, test.ShouldBeNil)
	peak := 0.0
	for _, wp := range wps {
		if wp.Speed > peak {
			peak = wp.Speed
		}
	}
	// Never reaches the speed limit: peak is sqrt(a * d).
	test.That(t, peak, test.ShouldAlmostEqual, 0.1, 1e-9)
}

func TestTimedRejectsBadInput(t *testing.T) {
	_, err := Timed(straightPath(1, 5), Limits{Speed: 0, Acceleration: 1})
	test.That(t, errors.Is(err, ErrInvalidLimits), test.ShouldBeTrue)
	_, err = Timed(straightPath(1, 5)[:1], Limits{Speed: 1, Acceleration: 1})
	test.That(t, errors.Is(err, ErrTooFewWaypoints), test.ShouldBeTrue)
}

func TestTimedFoldPath(t *testing.T) {
	tr, err := NewCircular(r3.Vector{X: 0.2, Y: -0.2}, r3.Vector{X: 0.2, Y: 0.2})
	test.That(t, err, test.ShouldBeNil)
	path, err := tr.Path(DefaultWaypoints)
	test.That(t, err, test.ShouldBeNil)
	wps, err := Timed(path, Limits{Speed: 0.2, Acceleration: 0.4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wps[len(wps)-1].Time, test.ShouldBeGreaterThan, time.Duration(0))

	test.That(t, SegmentSpeed(wps, 0, 0.02), test.ShouldEqual, 0.02)
	test.That(t, SegmentSpeed(wps, 1, 0.02), test.ShouldBeGreaterThanOrEqualTo, 0.02)
}
