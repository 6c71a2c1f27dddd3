// Package overlay composes camera views for the operator: one image buffer
// split into four panels, plus drawing helpers for keypoints, pulls and the
// world axes.
package overlay

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

const aspectEps = 1e-3

// ErrPanelSize is returned when a buffer is too small to split into four panels.
var ErrPanelSize = errors.New("four panels need at least 2x2 pixels")

// Panel is a rectangular view into a shared image buffer. Writes through a
// panel land in the buffer and never touch the other panels.
type Panel struct {
	view *image.RGBA
}

// Bounds returns the panel rectangle in buffer coordinates.
func (p *Panel) Bounds() image.Rectangle {
	return p.view.Bounds()
}

// Fill resizes img into the panel. With keepAspect, an image whose aspect
// ratio differs from the panel is scaled to fit and centred between black
// bars.
func (p *Panel) Fill(img image.Image, keepAspect bool) {
	b := p.view.Bounds()
	pw, ph := b.Dx(), b.Dy()
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return
	}
	panelAspect := float64(pw) / float64(ph)
	imageAspect := float64(iw) / float64(ih)

	if !keepAspect || math.Abs(panelAspect-imageAspect) < aspectEps {
		resized := imaging.Resize(img, pw, ph, imaging.Linear)
		draw.Draw(p.view, b, resized, image.Point{}, draw.Src)
		return
	}

	draw.Draw(p.view, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	var target image.Rectangle
	if imageAspect > panelAspect {
		h := int(float64(ih) * float64(pw) / float64(iw))
		top := (ph - h) / 2
		target = image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+top+h)
	} else {
		w := int(float64(iw) * float64(ph) / float64(ih))
		left := (pw - w) / 2
		target = image.Rect(b.Min.X+left, b.Min.Y, b.Min.X+left+w, b.Max.Y)
	}
	resized := imaging.Resize(img, target.Dx(), target.Dy(), imaging.Linear)
	draw.Draw(p.view, target, resized, image.Point{}, draw.Src)
}

// FourPanels owns one RGBA buffer split into four quadrants.
type FourPanels struct {
	buf *image.RGBA

	TopLeft     *Panel
	TopRight    *Panel
	BottomLeft  *Panel
	BottomRight *Panel
}

// NewFourPanels allocates a width x height buffer. The middle row and column
// belong to the bottom and right panels.
func NewFourPanels(width, height int) (*FourPanels, error) {
	if width < 2 || height < 2 {
		return nil, ErrPanelSize
	}
	buf := image.NewRGBA(image.Rect(0, 0, width, height))
	midX, midY := width/2, height/2
	sub := func(r image.Rectangle) *Panel {
		return &Panel{view: buf.SubImage(r).(*image.RGBA)}
	}
	return &FourPanels{
		buf:         buf,
		TopLeft:     sub(image.Rect(0, 0, midX, midY)),
		TopRight:    sub(image.Rect(midX, 0, width, midY)),
		BottomLeft:  sub(image.Rect(0, midY, midX, height)),
		BottomRight: sub(image.Rect(midX, midY, width, height)),
	}, nil
}

// Image returns the shared buffer.
func (f *FourPanels) Image() *image.RGBA {
	return f.buf
}

// Panels returns the panels in reading order.
func (f *FourPanels) Panels() []*Panel {
	return []*Panel{f.TopLeft, f.TopRight, f.BottomLeft, f.BottomRight}
}

// Save writes the buffer to path; the format follows the extension.
func (f *FourPanels) Save(path string) error {
	return Save(f.buf, path)
}

// Save writes img to path; the format follows the extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}
