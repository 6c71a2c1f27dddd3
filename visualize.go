package clothmanip

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/keypoints"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/overlay"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
)

const (
	overlayWidth  = 1280
	overlayHeight = 720

	// tableSpan is the width of table, in meters, shown on the map panel.
	tableSpan = 1.6
	// cropMargin pads the towel crop, in pixels.
	cropMargin = 40
)

var (
	mapBackground = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	blankFrame    = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// CycleView is everything shown for one reorientation cycle. Frame and the
// camera calibration are optional; without them only the table map is drawn.
type CycleView struct {
	Frame         image.Image
	Intrinsics    *keypoints.Intrinsics
	WorldInCamera spatialmath.Pose
	Reorientation *pull.Reorientation
}

// Render composes the four panels: the annotated frame top left, the
// planned pull over the frame top right, a top-down table map bottom left
// and the towel crop bottom right.
func (v CycleView) Render() (*overlay.FourPanels, error) {
	fp, err := overlay.NewFourPanels(overlayWidth, overlayHeight)
	if err != nil {
		return nil, err
	}

	var frame *image.RGBA
	if v.Frame != nil {
		frame = toRGBA(v.Frame)
	} else {
		frame = image.NewRGBA(image.Rect(0, 0, overlayWidth/2, overlayHeight/2))
		draw.Draw(frame, frame.Bounds(), image.NewUniform(blankFrame), image.Point{}, draw.Src)
	}
	calibrated := v.Frame != nil && v.Intrinsics != nil && v.WorldInCamera != nil

	axes := toRGBA(frame)
	overlay.DrawCenterCircle(axes)
	planned := toRGBA(frame)
	var crop image.Rectangle
	if calibrated {
		if err := overlay.DrawWorldAxes(axes, v.Intrinsics, v.WorldInCamera); err != nil {
			return nil, err
		}
		if crop, err = v.drawPlan(planned); err != nil {
			return nil, err
		}
		if !crop.Empty() {
			overlay.DrawRectangle(axes, crop)
		}
	}

	fp.TopLeft.Fill(axes, true)
	fp.TopRight.Fill(planned, true)
	fp.BottomLeft.Fill(TableMap(v.Reorientation, overlayWidth/2, overlayHeight/2), true)
	if !crop.Empty() {
		fp.BottomRight.Fill(imaging.Crop(planned, crop), true)
	} else {
		fp.BottomRight.Fill(frame, true)
	}
	return fp, nil
}

// drawPlan draws the observed corners and the pull on img and returns the
// region around the towel.
func (v CycleView) drawPlan(img *image.RGBA) (image.Rectangle, error) {
	re := v.Reorientation
	if re == nil {
		return image.Rectangle{}, nil
	}
	pixels := make([]keypoints.Pixel, len(re.Ordered))
	for i, c := range re.Ordered {
		px, err := v.Intrinsics.ProjectWorld(c, v.WorldInCamera)
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("project corner %d: %w", i, err)
		}
		pixels[i] = px
	}
	overlay.DrawKeypoints(img, pixels)
	if re.Pull != nil {
		if err := overlay.DrawPull(img, v.Intrinsics, v.WorldInCamera, re.Pull.Start, re.Pull.End); err != nil {
			return image.Rectangle{}, err
		}
	}
	return pixelBounds(pixels, cropMargin).Intersect(img.Bounds()), nil
}

// TableMap renders the towel seen from above: observed corners in orange,
// desired corners in green and the pull as a blue line. World +x points
// right and +y up.
func TableMap(re *pull.Reorientation, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(mapBackground)
	dc.Clear()

	scale := math.Min(float64(width), float64(height)) / tableSpan
	toPixel := func(p r3.Vector) (float64, float64) {
		return float64(width)/2 + p.X*scale, float64(height)/2 - p.Y*scale
	}

	dc.SetLineWidth(1)
	dc.SetRGB(0.6, 0.6, 0.6)
	ox, oy := toPixel(r3.Vector{})
	dc.DrawLine(0, oy, float64(width), oy)
	dc.DrawLine(ox, 0, ox, float64(height))
	dc.Stroke()
	if re == nil {
		return dc.Image()
	}

	polygon := func(corners []r3.Vector) {
		for i, c := range corners {
			x, y := toPixel(c)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}
	dc.SetLineWidth(2)
	dc.SetRGB(0.1, 0.7, 0.2)
	polygon(re.Desired)
	dc.SetRGB(1, 0.5, 0)
	polygon(re.Ordered)

	if re.Pull != nil {
		sx, sy := toPixel(re.Pull.Start)
		ex, ey := toPixel(re.Pull.End)
		dc.SetRGB(0, 0.4, 1)
		dc.DrawLine(sx, sy, ex, ey)
		dc.Stroke()
		dc.DrawCircle(sx, sy, 4)
		dc.Fill()
	}
	return dc.Image()
}

func pixelBounds(pixels []keypoints.Pixel, margin int) image.Rectangle {
	if len(pixels) == 0 {
		return image.Rectangle{}
	}
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for _, px := range pixels {
		minU, maxU = math.Min(minU, px.U), math.Max(maxU, px.U)
		minV, maxV = math.Min(minV, px.V), math.Max(maxV, px.V)
	}
	return image.Rect(int(minU)-margin, int(minV)-margin, int(maxU)+margin, int(maxV)+margin)
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// saveCycleView writes the overlay of the current cycle into the output
// directory. Missing camera frames are tolerated.
func saveCycleView(ctx context.Context, r *Robot, re *pull.Reorientation) (string, error) {
	if r.cfg.OutputDir == "" {
		return "", nil
	}
	view := CycleView{Reorientation: re}
	if r.camera != nil {
		frame, err := CameraImages{Camera: r.camera}.Image(ctx)
		if err != nil {
			r.logger.Warnf("No frame for the overlay: %v", err)
		} else {
			view.Frame = frame
			view.WorldInCamera = r.cfg.Camera.WorldInCamera()
			if in, err := r.cfg.Camera.Intrinsics(); err == nil {
				view.Intrinsics = in
			}
		}
	}
	fp, err := view.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("cycle-%02d-%s.png", r.state.Pulls, r.state.CycleID))
	if err := fp.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
