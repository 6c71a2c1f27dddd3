// Package keypoints turns manual clicks on a camera image into towel
// corners on the table plane.
package keypoints

import (
	"context"
	"fmt"

	"go.viam.com/rdk/logging"
)

// Pixel is an image coordinate, u to the right and v down.
type Pixel struct {
	U float64
	V float64
}

// EventKind distinguishes the inputs a Collector understands.
type EventKind int

const (
	// DoubleClick marks a keypoint at the event pixel.
	DoubleClick EventKind = iota
	// Confirm is a key press asking the collector to check what has been clicked so far.
	Confirm
)

// Event is one user input.
type Event struct {
	Kind  EventKind
	Pixel Pixel
}

// Collector accumulates double clicks until exactly N are confirmed.
type Collector struct {
	n      int
	pixels []Pixel
	logger logging.Logger
}

// NewCollector returns a collector for n keypoints.
func NewCollector(n int, logger logging.Logger) *Collector {
	return &Collector{n: n, logger: logger}
}

// Handle processes one event. It returns true once exactly n keypoints have
// been confirmed, and ErrTooManyKeypoints if more were clicked.
func (c *Collector) Handle(ev Event) (bool, error) {
	switch ev.Kind {
	case DoubleClick:
		c.logger.Infof("Clicked on %.0f, %.0f", ev.Pixel.U, ev.Pixel.V)
		c.pixels = append(c.pixels, ev.Pixel)
		return false, nil
	case Confirm:
		switch {
		case len(c.pixels) > c.n:
			return false, fmt.Errorf("%d of %d: %w", len(c.pixels), c.n, ErrTooManyKeypoints)
		case len(c.pixels) == c.n:
			return true, nil
		}
		c.logger.Infof("Click the %d keypoints before confirming (%d so far)", c.n, len(c.pixels))
	}
	return false, nil
}

// Pixels returns the keypoints clicked so far.
func (c *Collector) Pixels() []Pixel {
	out := make([]Pixel, len(c.pixels))
	copy(out, c.pixels)
	return out
}

// Collect reads events until n keypoints are confirmed, the context is
// done, or the channel closes. The collector does not outlive the call.
func Collect(ctx context.Context, events <-chan Event, n int, logger logging.Logger) ([]Pixel, error) {
	c := NewCollector(n, logger)
	logger.Infof("Click the %d keypoints, then confirm", n)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil, fmt.Errorf("have %d of %d: %w", len(c.pixels), n, ErrIncomplete)
			}
			done, err := c.Handle(ev)
			if err != nil {
				return nil, err
			}
			if done {
				return c.Pixels(), nil
			}
		}
	}
}
