package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/keypoints"
)

var (
	centerColor   = color.RGBA{R: 255, B: 255, A: 255}
	cropColor     = color.RGBA{B: 255, A: 255}
	originColor   = color.RGBA{R: 255, G: 255, A: 255}
	xPosColor     = color.RGBA{R: 255, A: 255}
	xNegColor     = color.RGBA{R: 255, G: 100, B: 100, A: 255}
	yPosColor     = color.RGBA{G: 255, A: 255}
	yNegColor     = color.RGBA{R: 150, G: 255, B: 150, A: 255}
	zPosColor     = color.RGBA{B: 255, A: 255}
	keypointColor = color.RGBA{R: 255, G: 128, A: 255}
	pullColor     = color.RGBA{G: 200, B: 255, A: 255}
)

const lineWidth = 2

// DrawCenterCircle marks the image center.
func DrawCenterCircle(img *image.RGBA) {
	dc := gg.NewContextForRGBA(img)
	dc.DrawCircle(float64(img.Bounds().Dx()/2), float64(img.Bounds().Dy()/2), 1)
	dc.SetColor(centerColor)
	dc.SetLineWidth(lineWidth)
	dc.Stroke()
}

// DrawRectangle outlines r, typically the crop region of a cloth transform.
func DrawRectangle(img *image.RGBA, r image.Rectangle) {
	dc := gg.NewContextForRGBA(img)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.SetColor(cropColor)
	dc.SetLineWidth(lineWidth)
	dc.Stroke()
}

// InsertTransformed resizes transformed to r and pastes it into original.
func InsertTransformed(original *image.RGBA, transformed image.Image, r image.Rectangle) {
	resized := imaging.Resize(transformed, r.Dx(), r.Dy(), imaging.Linear)
	draw.Draw(original, r, resized, image.Point{}, draw.Src)
}

// DrawWorldAxes draws the world origin and 1 m axes: x red, y green, z
// blue, negative half-axes in lighter shades.
func DrawWorldAxes(img *image.RGBA, in *keypoints.Intrinsics, worldInCamera spatialmath.Pose) error {
	project := func(p r3.Vector) (keypoints.Pixel, error) {
		px, err := in.ProjectWorld(p, worldInCamera)
		if err != nil {
			return px, fmt.Errorf("project %v: %w", p, err)
		}
		return px, nil
	}
	origin, err := project(r3.Vector{})
	if err != nil {
		return err
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(lineWidth)
	dc.DrawCircle(origin.U, origin.V, 10)
	dc.SetColor(originColor)
	dc.Stroke()

	axes := []struct {
		end r3.Vector
		c   color.Color
	}{
		{r3.Vector{X: 1}, xPosColor},
		{r3.Vector{X: -1}, xNegColor},
		{r3.Vector{Y: 1}, yPosColor},
		{r3.Vector{Y: -1}, yNegColor},
		{r3.Vector{Z: 1}, zPosColor},
	}
	for _, a := range axes {
		end, err := project(a.end)
		if err != nil {
			return err
		}
		dc.DrawLine(end.U, end.V, origin.U, origin.V)
		dc.SetColor(a.c)
		dc.Stroke()
	}
	return nil
}

// DrawKeypoints circles and numbers each pixel.
func DrawKeypoints(img *image.RGBA, pixels []keypoints.Pixel) {
	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(lineWidth)
	dc.SetColor(keypointColor)
	for i, px := range pixels {
		dc.DrawCircle(px.U, px.V, 6)
		dc.Stroke()
		dc.DrawString(fmt.Sprint(i), px.U+8, px.V-8)
	}
}

// DrawPull draws a pull from start to end, given in the world frame, with
// a dot at the start.
func DrawPull(img *image.RGBA, in *keypoints.Intrinsics, worldInCamera spatialmath.Pose, start, end r3.Vector) error {
	s, err := in.ProjectWorld(start, worldInCamera)
	if err != nil {
		return fmt.Errorf("project pull start: %w", err)
	}
	e, err := in.ProjectWorld(end, worldInCamera)
	if err != nil {
		return fmt.Errorf("project pull end: %w", err)
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(pullColor)
	dc.SetLineWidth(lineWidth)
	dc.DrawLine(s.U, s.V, e.U, e.V)
	dc.Stroke()
	dc.DrawCircle(s.U, s.V, 4)
	dc.Fill()
	return nil
}
