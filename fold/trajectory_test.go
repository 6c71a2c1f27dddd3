package fold

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
)

func near(a, b r3.Vector) bool {
	return a.Distance(b) < 1e-9
}

func samePose(t *testing.T, a, b spatialmath.Pose) {
	t.Helper()
	test.That(t, a.Point().Distance(b.Point()), test.ShouldBeLessThan, 1e-9)
	ax, ay, az := geometry.Axes(a.Orientation())
	bx, by, bz := geometry.Axes(b.Orientation())
	test.That(t, ax.Distance(bx)+ay.Distance(by)+az.Distance(bz), test.ShouldBeLessThan, 1e-9)
}

func TestFrameOrthonormal(t *testing.T) {
	cases := [][2]r3.Vector{
		{{X: 0.2, Y: -0.2, Z: 0.2}, {X: 0.2, Y: 0.2, Z: 0.2}},
		{{X: -0.3, Y: 0.1}, {X: 0.4, Y: 0.35}},
		{{X: 1, Y: 1, Z: 0}, {X: 0.5, Y: -2, Z: 0.3}},
		{{X: 0, Y: 0, Z: 0}, {X: -1e-3, Y: 0, Z: 0}},
	}
	for _, c := range cases {
		f, err := NewFrame(c[0], c[1])
		test.That(t, err, test.ShouldBeNil)
		test.That(t, geometry.CheckOrthonormal(f.X, f.Y, f.Z), test.ShouldBeNil)
		test.That(t, f.X.Dot(f.Y), test.ShouldAlmostEqual, 0.0)
		test.That(t, near(f.X.Cross(f.Y), f.Z), test.ShouldBeTrue)
		test.That(t, near(f.Origin, geometry.Midpoint(c[0], c[1])), test.ShouldBeTrue)
		test.That(t, f.Length, test.ShouldAlmostEqual, c[0].Distance(c[1]))
	}
}

func TestFrameToWorldFollowsAxis(t *testing.T) {
	cases := [][2]r3.Vector{
		{{X: 0.2, Y: -0.2, Z: 0.2}, {X: 0.2, Y: 0.2, Z: 0.2}},
		{{X: -0.3, Y: 0.1}, {X: 0.4, Y: 0.35}},
		{{X: 0.5, Y: 0.5, Z: 0.1}, {X: -0.1, Y: 0.2, Z: 0.1}},
	}
	for _, c := range cases {
		f, err := NewFrame(c[0], c[1])
		test.That(t, err, test.ShouldBeNil)
		want := c[1].Sub(c[0]).Normalize()

		tip := f.ToWorld(spatialmath.NewPoseFromPoint(r3.Vector{X: 1})).Point()
		test.That(t, near(tip.Sub(f.Origin), want), test.ShouldBeTrue)

		side := f.ToWorld(spatialmath.NewPoseFromPoint(r3.Vector{Y: 1})).Point()
		test.That(t, near(side.Sub(f.Origin), geometry.WorldUp.Cross(want)), test.ShouldBeTrue)

		x, _, _ := geometry.Axes(f.ToWorld(spatialmath.NewZeroPose()).Orientation())
		test.That(t, near(x, want), test.ShouldBeTrue)
	}

	// A sloped axis keeps only its planar direction.
	f, err := NewFrame(r3.Vector{}, r3.Vector{X: 0.3, Z: 0.4})
	test.That(t, err, test.ShouldBeNil)
	tip := f.ToWorld(spatialmath.NewPoseFromPoint(r3.Vector{X: 1})).Point()
	test.That(t, near(tip.Sub(f.Origin), r3.Vector{X: 1}), test.ShouldBeTrue)
}

func TestFramePreconditions(t *testing.T) {
	p := r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}
	_, err := NewFrame(p, p)
	test.That(t, errors.Is(err, ErrZeroLength), test.ShouldBeTrue)

	_, err = New(Circular, p, p)
	test.That(t, errors.Is(err, ErrZeroLength), test.ShouldBeTrue)

	_, err = NewFrame(p, p.Add(r3.Vector{Z: 0.1}))
	test.That(t, errors.Is(err, ErrVerticalAxis), test.ShouldBeTrue)

	_, err = New(Kind(7), p, r3.Vector{})
	test.That(t, errors.Is(err, ErrUnknownKind), test.ShouldBeTrue)
}

func TestCircularFoldPoses(t *testing.T) {
	start := r3.Vector{X: 0.2, Y: -0.2, Z: 0.2}
	end := r3.Vector{X: 0.2, Y: 0.2, Z: 0.2}
	tr, err := NewCircular(start, end)
	test.That(t, err, test.ShouldBeNil)

	r := 0.2 - radiusClearance
	h := graspHeight()

	grasp, err := tr.PoseAt(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(grasp.Point(), r3.Vector{X: 0.2, Y: -r, Z: 0.2 + h}), test.ShouldBeTrue)

	// At the grasp the gripper x axis is tilted up by the grasp angle along
	// the fold axis, and its y axis points against the frame y axis.
	gx, gy, _ := geometry.Axes(grasp.Orientation())
	test.That(t, near(gx, r3.Vector{Y: math.Cos(graspAngle), Z: math.Sin(graspAngle)}), test.ShouldBeTrue)
	test.That(t, near(gy, r3.Vector{X: 1}), test.ShouldBeTrue)

	top, err := tr.PoseAt(0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(top.Point(), r3.Vector{X: 0.2, Y: 0, Z: 0.2 + r + h}), test.ShouldBeTrue)

	release, err := tr.PoseAt(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(release.Point(), r3.Vector{X: 0.2, Y: r, Z: 0.2 + h}), test.ShouldBeTrue)
	rx, _, _ := geometry.Axes(release.Orientation())
	test.That(t, near(rx, r3.Vector{Y: math.Cos(-graspAngle), Z: math.Sin(-graspAngle)}), test.ShouldBeTrue)

	for _, c := range []float64{0, 0.1, 0.37, 0.5, 0.8, 1} {
		p, err := tr.PoseAt(c)
		test.That(t, err, test.ShouldBeNil)
		x, y, z := geometry.Axes(p.Orientation())
		test.That(t, geometry.CheckOrthonormal(x, y, z), test.ShouldBeNil)
	}
}

func TestGraspPoseMatchesPoseAtZero(t *testing.T) {
	for _, kind := range Kinds {
		tr, err := New(kind, r3.Vector{X: -0.3, Y: 0.1}, r3.Vector{X: 0.25, Y: 0.3})
		test.That(t, err, test.ShouldBeNil)
		p0, err := tr.PoseAt(0)
		test.That(t, err, test.ShouldBeNil)
		grasp, err := tr.GraspPose()
		test.That(t, err, test.ShouldBeNil)
		samePose(t, p0, grasp)
	}
}

func TestPoseAtRejectsOutOfRange(t *testing.T) {
	for _, kind := range Kinds {
		tr, err := New(kind, r3.Vector{X: -0.3}, r3.Vector{X: 0.3})
		test.That(t, err, test.ShouldBeNil)
		for _, c := range []float64{-0.01, 1.0001, math.NaN(), math.Inf(1)} {
			_, err := tr.PoseAt(c)
			test.That(t, errors.Is(err, ErrCompletionOutOfRange), test.ShouldBeTrue)
		}
	}
}

func TestPathEndpoints(t *testing.T) {
	for _, kind := range Kinds {
		tr, err := New(kind, r3.Vector{X: 0.1, Y: -0.25}, r3.Vector{X: 0.15, Y: 0.3})
		test.That(t, err, test.ShouldBeNil)
		for _, n := range []int{2, 3, 4, DefaultWaypoints} {
			path, err := tr.Path(n)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, len(path), test.ShouldEqual, n)

			first, _ := tr.PoseAt(0)
			last, _ := tr.PoseAt(1)
			samePose(t, path[0], first)
			samePose(t, path[n-1], last)
		}
		_, err = tr.Path(1)
		test.That(t, errors.Is(err, ErrTooFewWaypoints), test.ShouldBeTrue)
	}
}

func TestPregraspAndRetreat(t *testing.T) {
	start := r3.Vector{X: 0.2, Y: -0.2}
	end := r3.Vector{X: 0.2, Y: 0.2}

	circ, err := NewCircular(start, end)
	test.That(t, err, test.ShouldBeNil)
	grasp, _ := circ.GraspPose()
	pre, err := circ.PregraspPose(circ.ApproachOffset())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(pre.Point(), grasp.Point().Add(r3.Vector{Y: -DefaultCircularPregraspOffset})), test.ShouldBeTrue)

	release, _ := circ.PoseAt(1)
	retreat, err := circ.RetreatPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(retreat.Point(), release.Point().Add(r3.Vector{Y: 0.01, Z: 0.05})), test.ShouldBeTrue)

	// The derived poses do not disturb the trajectory itself.
	again, _ := circ.GraspPose()
	samePose(t, again, grasp)

	lin, err := New(Linear, start, end)
	test.That(t, err, test.ShouldBeNil)
	lgrasp, _ := lin.GraspPose()
	lpre, err := lin.PregraspPose(0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, near(lpre.Point(), lgrasp.Point().Add(r3.Vector{Z: 0.1})), test.ShouldBeTrue)
}

func TestLinearSharesEndpointsWithCircular(t *testing.T) {
	start := r3.Vector{X: -0.1, Y: 0.3, Z: 0.01}
	end := r3.Vector{X: 0.4, Y: 0.1, Z: 0.01}
	circ, err := New(Circular, start, end)
	test.That(t, err, test.ShouldBeNil)
	lin, err := New(Linear, start, end)
	test.That(t, err, test.ShouldBeNil)

	for _, c := range []float64{0, 1} {
		a, _ := circ.PoseAt(c)
		b, _ := lin.PoseAt(c)
		test.That(t, a.Point().Distance(b.Point()), test.ShouldBeLessThan, 1e-9)
	}

	// The drag stays at grasp height all the way.
	mid, _ := lin.PoseAt(0.5)
	test.That(t, mid.Point().Z, test.ShouldAlmostEqual, 0.01+graspHeight())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Circular")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, k, test.ShouldEqual, Circular)

	k, err = ParseKind("linear")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, k, test.ShouldEqual, Linear)

	_, err = ParseKind("spline")
	test.That(t, errors.Is(err, ErrUnknownKind), test.ShouldBeTrue)
	test.That(t, Kind(9).String(), test.ShouldEqual, "unknown")
}
