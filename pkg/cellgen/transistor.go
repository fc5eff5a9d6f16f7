package cellgen

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

var (
	// ErrNoFingers is returned for devices with fewer than one finger
	ErrNoFingers = errors.New("finger count must be at least 1")

	// ErrTooShort is returned when the gate length is below one grid unit
	ErrTooShort = errors.New("gate length below one grid unit")
)

// Finger records where one gate and its channel ends were placed
type Finger struct {
	ContactX int // left edge of the contact site before this gate
	GateX    int // left edge of the gate
	Before   int // diffusion length between the contact site and the gate
	After    int // diffusion length between the gate and the next contact site
}

// Cell is one generated transistor layout
type Cell struct {
	Spec    layout.GridSpec
	Stream  *layout.Stream
	Fingers []Finger

	// ContactSites holds the left edge of every contact column
	ContactSites []int
	// ContactCuts is the number of cuts in each contact column
	ContactCuts int
	// Extent is the final cursor position, the active area spans [0, Extent)
	Extent     int
	Well       layout.BoundingBox
	Checkpaint layout.BoundingBox
}

// Transistor generates the layout of one transistor.
// The spec must already be in grid units (see ToGrid).
func Transistor(spec layout.GridSpec, r rules.DesignRuleSet) (*Cell, error) {
	if spec.Fingers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoFingers, spec.Fingers)
	}
	if spec.Length < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrTooShort, spec.Length)
	}
	if spec.Width < r.MinWidth() {
		return nil, &RejectError{GridWidth: spec.Width, MinWidth: r.MinWidth()}
	}

	g := &transistorGen{
		builder: newBuilder(r),
		spec:    spec,
		layers:  layout.LayersFor(spec.Polarity),
		cell:    &Cell{Spec: spec},
	}
	g.generate()
	if g.err != nil {
		return nil, fmt.Errorf("generating %s W=%d L=%d F=%d: %w",
			layout.Spec{Polarity: spec.Polarity, ESD: spec.ESD}.Kind(),
			spec.Width, spec.Length, spec.Fingers, g.err)
	}
	g.cell.Stream = g.stream
	return g.cell, nil
}

type transistorGen struct {
	*builder
	spec   layout.GridSpec
	layers layout.LayerSet
	cell   *Cell
	offset int
}

func (g *transistorGen) generate() {
	r := g.rules
	w, l := g.spec.Width, g.spec.Length

	// initial spacer
	g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ContactToDiffEdge, w)
	g.offset += r.ContactToDiffEdge

	for i := 1; i <= g.spec.Fingers; i++ {
		f := Finger{ContactX: g.offset}

		g.contactSite()
		g.rect(layout.Metal, g.offset, 0, g.offset+r.ContactToDiffEdge, w)

		// drains sit before even fingers
		start := g.offset
		g.channelEnd(i%2 == 0, false)
		f.Before = g.offset - start

		f.GateX = g.offset
		g.rect(layout.Poly, g.offset, -r.PolyOverlap, g.offset+l, 0)
		g.rect(g.layers.Transistor, g.offset, 0, g.offset+l, w)
		g.rect(layout.Poly, g.offset, w, g.offset+l, w+r.PolyOverlap)
		g.offset += l

		start = g.offset
		g.channelEnd(i%2 == 1, true)
		f.After = g.offset - start

		g.cell.Fingers = append(g.cell.Fingers, f)
	}

	// terminal contact and trailing spacer
	g.contactSite()
	g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ContactToDiffEdge, w)
	g.rect(layout.Metal, g.offset, 0, g.offset+r.ContactToDiffEdge, w)
	g.offset += r.ContactToDiffEdge
	g.cell.Extent = g.offset

	active := layout.BoundingBox{MinX: 0, MinY: 0, MaxX: g.offset, MaxY: w}
	well := active.Grow(r.WellClearance, r.PolyOverlap+r.WellClearance)
	g.rect(g.layers.Well, well.MinX, well.MinY, well.MaxX, well.MaxY)
	g.cell.Well = well

	// forces a DRC of a cell generated outside magic
	check := well.Grow(1, 1)
	g.rect(layout.Checkpaint, check.MinX, check.MinY, check.MaxX, check.MaxY)
	g.cell.Checkpaint = check
}

// contactSite draws the metal strap over the preceding spacer and a contact
// column, and advances the cursor past the column.
func (g *transistorGen) contactSite() {
	r := g.rules
	g.rect(layout.Metal, g.offset-r.ContactToDiffEdge, 0, g.offset, g.spec.Width)
	g.cell.ContactSites = append(g.cell.ContactSites, g.offset)
	g.cell.ContactCuts = g.contactArray(g.spec.Width, g.layers, g.offset)
	g.offset += r.ContactSize
}

// channelEnd draws the diffusion between a contact column and a gate.
// drain selects the ESD drain extension, afterGate mirrors its segments.
func (g *transistorGen) channelEnd(drain, afterGate bool) {
	r := g.rules
	w := g.spec.Width

	if !g.spec.ESD || !drain {
		g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ContactToChannel, w)
		g.offset += r.ContactToChannel
		return
	}

	segments := []func(){g.contactToBlock, g.silicideBlock, g.blockToChannel}
	if afterGate {
		segments[0], segments[2] = segments[2], segments[0]
	}
	for _, seg := range segments {
		seg()
	}
}

func (g *transistorGen) contactToBlock() {
	r := g.rules
	g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ESDContactToBlock, g.spec.Width)
	g.offset += r.ESDContactToBlock
}

func (g *transistorGen) silicideBlock() {
	r := g.rules
	if r.ESDBlockWidth == 0 {
		return
	}
	w := g.spec.Width
	g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ESDBlockWidth, w)
	g.rect(layout.SilicideBlock, g.offset, -r.ESDBlockOverhang, g.offset+r.ESDBlockWidth, w+r.ESDBlockOverhang)
	g.offset += r.ESDBlockWidth
}

func (g *transistorGen) blockToChannel() {
	r := g.rules
	g.rect(g.layers.Diffusion, g.offset, 0, g.offset+r.ESDBlockToChannel, g.spec.Width)
	g.offset += r.ESDBlockToChannel
}
