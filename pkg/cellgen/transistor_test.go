package cellgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

func mustTransistor(t *testing.T, spec layout.GridSpec, r rules.DesignRuleSet) *Cell {
	t.Helper()
	cell, err := Transistor(spec, r)
	if err != nil {
		t.Fatalf("Transistor(%+v) failed: %v", spec, err)
	}
	return cell
}

// W=5um L=1um two fingers at 2 lambda per micron
func TestTransistorTwoFingerNMOS(t *testing.T) {
	r := rules.SCMOS().Rules
	cell := mustTransistor(t, layout.GridSpec{Width: 10, Length: 2, Fingers: 2, Polarity: layout.NChannel}, r)

	if cell.Extent != 35 {
		t.Errorf("Expected extent 35, got %d", cell.Extent)
	}
	if want := []int{2, 15, 28}; fmt.Sprint(cell.ContactSites) != fmt.Sprint(want) {
		t.Errorf("Expected contact sites %v, got %v", want, cell.ContactSites)
	}

	gates := cell.Stream.OnLayer(layout.NTransistor)
	wantGates := []layout.Rect{
		{Layer: layout.NTransistor, X1: 10, Y1: 0, X2: 12, Y2: 10},
		{Layer: layout.NTransistor, X1: 23, Y1: 0, X2: 25, Y2: 10},
	}
	if len(gates) != len(wantGates) {
		t.Fatalf("Expected %d gates, got %d", len(wantGates), len(gates))
	}
	for i := range wantGates {
		if gates[i] != wantGates[i] {
			t.Errorf("Gate %d: expected %v, got %v", i, wantGates[i], gates[i])
		}
	}

	wantWell := layout.BoundingBox{MinX: -6, MinY: -9, MaxX: 41, MaxY: 19}
	if cell.Well != wantWell {
		t.Errorf("Expected well %+v, got %+v", wantWell, cell.Well)
	}
	wells := cell.Stream.OnLayer(layout.PWell)
	if len(wells) != 1 || wells[0].Box() != wantWell {
		t.Errorf("Expected one p-well rectangle %+v, got %v", wantWell, wells)
	}
	if len(cell.Stream.OnLayer(layout.NWell)) != 0 {
		t.Error("NMOS device must not draw an n-well")
	}

	check := cell.Stream.OnLayer(layout.Checkpaint)
	wantCheck := layout.BoundingBox{MinX: -7, MinY: -10, MaxX: 42, MaxY: 20}
	if len(check) != 1 || check[0].Box() != wantCheck {
		t.Errorf("Expected checkpaint %+v, got %v", wantCheck, check)
	}

	poly := cell.Stream.OnLayer(layout.Poly)
	if len(poly) != 4 {
		t.Fatalf("Expected 4 poly rectangles, got %d", len(poly))
	}
	if poly[0] != (layout.Rect{Layer: layout.Poly, X1: 10, Y1: -3, X2: 12, Y2: 0}) {
		t.Errorf("Unexpected lower poly %v", poly[0])
	}
	if poly[1] != (layout.Rect{Layer: layout.Poly, X1: 10, Y1: 10, X2: 12, Y2: 13}) {
		t.Errorf("Unexpected upper poly %v", poly[1])
	}

	if cell.Stream.Len() != 35 {
		t.Errorf("Expected 35 rectangles, got %d", cell.Stream.Len())
	}
}

func TestTransistorFingerCounts(t *testing.T) {
	r := rules.SCMOS().Rules

	for _, pol := range []layout.Polarity{layout.NChannel, layout.PChannel} {
		for _, esd := range []bool{false, true} {
			for fingers := 1; fingers <= 5; fingers++ {
				name := fmt.Sprintf("%s/esd=%v/f=%d", pol, esd, fingers)
				t.Run(name, func(t *testing.T) {
					spec := layout.GridSpec{Width: 21, Length: 3, Fingers: fingers, Polarity: pol, ESD: esd}
					cell := mustTransistor(t, spec, r)
					layers := layout.LayersFor(pol)

					gates := cell.Stream.OnLayer(layers.Transistor)
					if len(gates) != fingers {
						t.Errorf("Expected %d gates, got %d", fingers, len(gates))
					}
					for _, g := range gates {
						if g.Width() != spec.Length || g.Height() != spec.Width {
							t.Errorf("Gate %v is not %dx%d", g, spec.Length, spec.Width)
						}
					}

					if len(cell.ContactSites) != fingers+1 {
						t.Errorf("Expected %d contact sites, got %d", fingers+1, len(cell.ContactSites))
					}
					cuts := cell.Stream.OnLayer(layers.Contact)
					if len(cuts) != (fingers+1)*cell.ContactCuts {
						t.Errorf("Expected %d cuts, got %d", (fingers+1)*cell.ContactCuts, len(cuts))
					}
				})
			}
		}
	}
}

func TestTransistorExtentMatchesWell(t *testing.T) {
	tech := rules.SCMOS()
	r := tech.Rules
	blocked := tech.WithSilicideBlock(4, "silicideblock").Rules

	specs := []struct {
		spec  layout.GridSpec
		rules rules.DesignRuleSet
	}{
		{layout.GridSpec{Width: 9, Length: 1, Fingers: 1}, r},
		{layout.GridSpec{Width: 10, Length: 2, Fingers: 2, Polarity: layout.NChannel}, r},
		{layout.GridSpec{Width: 40, Length: 4, Fingers: 7, ESD: true}, r},
		{layout.GridSpec{Width: 33, Length: 2, Fingers: 4, ESD: true, Polarity: layout.NChannel}, blocked},
	}

	for _, tt := range specs {
		cell := mustTransistor(t, tt.spec, tt.rules)

		sum := tt.rules.ContactToDiffEdge
		for _, f := range cell.Fingers {
			sum += tt.rules.ContactSize + f.Before + tt.spec.Length + f.After
		}
		sum += tt.rules.ContactSize + tt.rules.ContactToDiffEdge

		if cell.Extent != sum {
			t.Errorf("%+v: extent %d, finger sum %d", tt.spec, cell.Extent, sum)
		}
		if got := cell.Well.Width() - 2*tt.rules.WellClearance; got != cell.Extent {
			t.Errorf("%+v: well width minus clearance %d, extent %d", tt.spec, got, cell.Extent)
		}
	}
}

func TestTransistorWellContainment(t *testing.T) {
	tech := rules.SCMOS().WithSilicideBlock(4, "silicideblock")

	for _, spec := range []layout.GridSpec{
		{Width: 9, Length: 1, Fingers: 1, Polarity: layout.NChannel},
		{Width: 25, Length: 3, Fingers: 3, ESD: true},
		{Width: 12, Length: 2, Fingers: 2, ESD: true, Polarity: layout.NChannel},
	} {
		cell := mustTransistor(t, spec, tech.Rules)
		layers := layout.LayersFor(spec.Polarity)

		for _, rect := range cell.Stream.Rects() {
			switch rect.Layer {
			case layers.Well, layout.Checkpaint:
				continue
			}
			if !cell.Well.ContainsStrict(rect.Box()) {
				t.Errorf("%+v: %v escapes the well %+v", spec, rect, cell.Well)
			}
		}
		if !cell.Checkpaint.ContainsStrict(cell.Well) {
			t.Errorf("%+v: checkpaint %+v does not contain well %+v", spec, cell.Checkpaint, cell.Well)
		}
	}
}

func TestTransistorESDAsymmetry(t *testing.T) {
	r := rules.SCMOS().Rules
	spec := layout.GridSpec{Width: 10, Length: 2, Fingers: 4, Polarity: layout.NChannel}

	plain := mustTransistor(t, spec, r)
	for i, f := range plain.Fingers {
		if f.Before != r.ContactToChannel || f.After != r.ContactToChannel {
			t.Errorf("Finger %d: non-ESD channel ends %d/%d, want %d", i+1, f.Before, f.After, r.ContactToChannel)
		}
	}

	spec.ESD = true
	esd := mustTransistor(t, spec, r)
	drain := r.ESDDrainExtension()
	delta := drain - r.ContactToChannel
	if delta != 16 {
		t.Fatalf("Expected drain extension delta 16, got %d", delta)
	}

	for i, f := range esd.Fingers {
		n := i + 1
		if n%2 == 0 {
			if f.Before-f.After != delta {
				t.Errorf("Finger %d (even): before %d after %d, want difference %d", n, f.Before, f.After, delta)
			}
		} else {
			if f.After-f.Before != delta {
				t.Errorf("Finger %d (odd): before %d after %d, want difference %d", n, f.Before, f.After, delta)
			}
		}
	}

	if esd.Extent != 2+4*(5+3+2+19)+5+2 {
		t.Errorf("Unexpected ESD extent %d", esd.Extent)
	}
}

func TestTransistorESDDrainSegmentOrder(t *testing.T) {
	r := rules.SCMOS().Rules
	cell := mustTransistor(t, layout.GridSpec{Width: 10, Length: 2, Fingers: 1, ESD: true, Polarity: layout.NChannel}, r)

	// gate ends at 12, the drain side runs block-to-channel first
	var segs []layout.Rect
	for _, rect := range cell.Stream.OnLayer(layout.NDiffusion) {
		if rect.Y1 == 0 && rect.Y2 == 10 && rect.X1 >= 12 && rect.X2 <= 31 {
			segs = append(segs, rect)
		}
	}
	want := []layout.Rect{
		{Layer: layout.NDiffusion, X1: 12, Y1: 0, X2: 30, Y2: 10},
		{Layer: layout.NDiffusion, X1: 30, Y1: 0, X2: 31, Y2: 10},
	}
	if fmt.Sprint(segs) != fmt.Sprint(want) {
		t.Errorf("Expected drain segments %v, got %v", want, segs)
	}
	if len(cell.Stream.OnLayer(layout.SilicideBlock)) != 0 {
		t.Error("Silicide block drawn although its width is zero")
	}
}

func TestTransistorSilicideBlock(t *testing.T) {
	tech := rules.SCMOS().WithSilicideBlock(4, "silicideblock")
	cell := mustTransistor(t, layout.GridSpec{Width: 10, Length: 2, Fingers: 2, ESD: true}, tech.Rules)

	blocks := cell.Stream.OnLayer(layout.SilicideBlock)
	want := []layout.Rect{
		{Layer: layout.SilicideBlock, X1: 30, Y1: -3, X2: 34, Y2: 13},
		{Layer: layout.SilicideBlock, X1: 41, Y1: -3, X2: 45, Y2: 13},
	}
	if fmt.Sprint(blocks) != fmt.Sprint(want) {
		t.Errorf("Expected blocks %v, got %v", want, blocks)
	}
}

func TestTransistorDeterministic(t *testing.T) {
	r := rules.SCMOS().Rules
	spec := layout.GridSpec{Width: 31, Length: 3, Fingers: 3, ESD: true}

	a := mustTransistor(t, spec, r)
	b := mustTransistor(t, spec, r)
	if !a.Stream.Equal(b.Stream) {
		t.Error("Identical specs produced different streams")
	}
}

func TestTransistorErrors(t *testing.T) {
	r := rules.SCMOS().Rules

	tests := []struct {
		name string
		spec layout.GridSpec
		want error
	}{
		{"zero fingers", layout.GridSpec{Width: 10, Length: 2}, ErrNoFingers},
		{"zero length", layout.GridSpec{Width: 10, Fingers: 1}, ErrTooShort},
		{"too narrow", layout.GridSpec{Width: 8, Length: 2, Fingers: 1}, ErrTooNarrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transistor(tt.spec, r)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	// rules that force a zero-length feature are a logic error, not a silent fix
	broken := r
	broken.ContactToChannel = 0
	if _, err := Transistor(layout.GridSpec{Width: 10, Length: 2, Fingers: 1}, broken); !errors.Is(err, layout.ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate, got %v", err)
	}
}
