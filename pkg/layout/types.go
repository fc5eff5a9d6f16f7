package layout

import (
	"errors"
	"fmt"
)

// Polarity selects between the N-channel and P-channel layer sets
type Polarity int

const (
	PChannel Polarity = iota
	NChannel
)

// String returns "P" or "N"
func (p Polarity) String() string {
	if p == NChannel {
		return "N"
	}
	return "P"
}

// Spec describes one transistor as read from a netlist.
// Width and Length are physical sizes in micrometers.
type Spec struct {
	Width    float64
	Length   float64
	Fingers  int
	Polarity Polarity
	ESD      bool
}

// Kind returns the device category used in cell names (NMOS, PMOS, NESD, PESD)
func (s Spec) Kind() string {
	switch {
	case s.ESD && s.Polarity == NChannel:
		return "NESD"
	case s.ESD:
		return "PESD"
	case s.Polarity == NChannel:
		return "NMOS"
	default:
		return "PMOS"
	}
}

// Describe returns a human readable summary for diagnostics
func (s Spec) Describe() string {
	kind := s.Polarity.String() + "MOS device"
	if s.ESD {
		kind = s.Polarity.String() + "-channel ESD device"
	}
	return fmt.Sprintf("%s with parameters W= %g um, L= %g um, Fingers= %d", kind, s.Width, s.Length, s.Fingers)
}

// GridSpec is a Spec converted to integer grid units (lambda)
type GridSpec struct {
	Width    int
	Length   int
	Fingers  int
	Polarity Polarity
	ESD      bool
}

// ErrDegenerate is returned when a rectangle has zero width or height.
// Magic does not accept such rectangles.
var ErrDegenerate = errors.New("degenerate rectangle")

// Rect is an axis-aligned rectangle on one layer, in grid units.
// Coordinates are always stored sorted: X1 < X2 and Y1 < Y2.
type Rect struct {
	Layer  LayerTag
	X1, Y1 int
	X2, Y2 int
}

// NewRect builds a rectangle from two opposite corners in any order
func NewRect(layer LayerTag, x1, y1, x2, y2 int) (Rect, error) {
	if x1 == x2 {
		return Rect{}, fmt.Errorf("%w: %s rectangle with zero width at x=%d", ErrDegenerate, layer, x1)
	}
	if y1 == y2 {
		return Rect{}, fmt.Errorf("%w: %s rectangle with zero height at y=%d", ErrDegenerate, layer, y1)
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{Layer: layer, X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

// Width returns the horizontal extent
func (r Rect) Width() int {
	return r.X2 - r.X1
}

// Height returns the vertical extent
func (r Rect) Height() int {
	return r.Y2 - r.Y1
}

// Box returns the rectangle's bounds without its layer
func (r Rect) Box() BoundingBox {
	return BoundingBox{MinX: r.X1, MinY: r.Y1, MaxX: r.X2, MaxY: r.Y2}
}

func (r Rect) String() string {
	return fmt.Sprintf("%s(%d,%d)-(%d,%d)", r.Layer, r.X1, r.Y1, r.X2, r.Y2)
}
