package cellgen

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

// ErrStripTooShort is returned when a contact strip cannot hold its edge
// spacer and one contact.
var ErrStripTooShort = errors.New("contact strip too short")

// builder accumulates rectangles and keeps the first error,
// so geometry code can be written as a straight sequence of placements.
type builder struct {
	stream *layout.Stream
	rules  rules.DesignRuleSet
	err    error
}

func newBuilder(r rules.DesignRuleSet) *builder {
	return &builder{stream: &layout.Stream{}, rules: r}
}

func (b *builder) rect(layer layout.LayerTag, x1, y1, x2, y2 int) {
	if b.err != nil {
		return
	}
	b.err = b.stream.Add(layer, x1, y1, x2, y2)
}

// ContactArray generates one column of contacts over a diffusion strip of
// height w, starting at horizontal position offset. The column is
// ContactSize wide.
func ContactArray(r rules.DesignRuleSet, w int, pol layout.Polarity, offset int) (*layout.Stream, error) {
	if w < r.ContactToDiffEdge+r.ContactSize {
		return nil, fmt.Errorf("%w: height %d, need at least %d",
			ErrStripTooShort, w, r.ContactToDiffEdge+r.ContactSize)
	}
	b := newBuilder(r)
	b.contactArray(w, layout.LayersFor(pol), offset)
	if b.err != nil {
		return nil, b.err
	}
	return b.stream, nil
}

// contactArray returns the number of contact cuts placed
func (b *builder) contactArray(w int, layers layout.LayerSet, offset int) int {
	r := b.rules
	x1, x2 := offset, offset+r.ContactSize
	vs := 0
	cuts := 0

	// initial spacer
	b.rect(layers.Diffusion, x1, vs, x2, vs+r.ContactToDiffEdge)
	b.rect(layout.Metal, x1, vs, x2, vs+r.ContactToDiffEdge)
	vs += r.ContactToDiffEdge

	for w-vs >= r.ContactSize+r.ContactToDiffEdge {
		b.rect(layers.Contact, x1, vs, x2, vs+r.ContactSize)
		vs += r.ContactSize
		cuts++

		// spacer only if another contact follows
		if w-vs < r.ContactSize+r.ContactToDiffEdge+r.ContactSpacing {
			break
		}
		b.rect(layers.Diffusion, x1, vs, x2, vs+r.ContactSpacing)
		b.rect(layout.Metal, x1, vs, x2, vs+r.ContactSpacing)
		vs += r.ContactSpacing
	}

	// filler up to the strip edge
	if w > vs {
		b.rect(layers.Diffusion, x1, vs, x2, w)
		b.rect(layout.Metal, x1, vs, x2, w)
	}
	return cuts
}
