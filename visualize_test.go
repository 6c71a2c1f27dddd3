package clothmanip

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/keypoints"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
)

func plannedReorientation(t *testing.T) *pull.Reorientation {
	t.Helper()
	re, err := pull.Select(rotatedTowel(), pull.DefaultConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, re.Pull, test.ShouldNotBeNil)
	return re
}

func TestTableMapDrawsPull(t *testing.T) {
	re := plannedReorientation(t)
	img := TableMap(re, 320, 320)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 320, 320))

	// 200 px per meter around the center.
	x := int(160 + re.Pull.Start.X*200)
	y := int(160 - re.Pull.Start.Y*200)
	r, g, b, _ := img.At(x, y).RGBA()
	test.That(t, int(r>>8), test.ShouldBeLessThan, 50)
	test.That(t, int(g>>8), test.ShouldBeLessThan, 150)
	test.That(t, int(b>>8), test.ShouldBeGreaterThan, 200)

	empty := TableMap(nil, 100, 50)
	test.That(t, empty.Bounds().Dx(), test.ShouldEqual, 100)
}

func TestCycleViewWithoutCamera(t *testing.T) {
	fp, err := CycleView{Reorientation: plannedReorientation(t)}.Render()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fp.Image().Bounds(), test.ShouldResemble, image.Rect(0, 0, overlayWidth, overlayHeight))
}

func TestCycleViewWithCamera(t *testing.T) {
	in, err := keypoints.PinholeIntrinsics(500, 500, 320, 240)
	test.That(t, err, test.ShouldBeNil)
	// Camera 2 m above the origin looking down.
	cameraInWorld, err := geometry.PoseFromAxes(
		r3.Vector{Z: 2}, r3.Vector{X: 1}, r3.Vector{Y: -1}, r3.Vector{Z: -1})
	test.That(t, err, test.ShouldBeNil)

	view := CycleView{
		Frame:         image.NewRGBA(image.Rect(0, 0, 640, 480)),
		Intrinsics:    in,
		WorldInCamera: geometry.Invert(cameraInWorld),
		Reorientation: plannedReorientation(t),
	}
	fp, err := view.Render()
	test.That(t, err, test.ShouldBeNil)

	path := filepath.Join(t.TempDir(), "cycle.png")
	test.That(t, fp.Save(path), test.ShouldBeNil)
}

func TestPixelBounds(t *testing.T) {
	test.That(t, pixelBounds(nil, 5).Empty(), test.ShouldBeTrue)
	got := pixelBounds([]keypoints.Pixel{{U: 10, V: 40}, {U: 30, V: 20}}, 5)
	test.That(t, got, test.ShouldResemble, image.Rect(5, 15, 35, 45))
}
