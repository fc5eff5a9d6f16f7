package layout

// Stream is the ordered rectangle sequence of one generated cell.
// Order has no meaning to Magic but is kept stable so output is reproducible.
type Stream struct {
	rects []Rect
}

// Add appends a rectangle given two opposite corners
func (s *Stream) Add(layer LayerTag, x1, y1, x2, y2 int) error {
	r, err := NewRect(layer, x1, y1, x2, y2)
	if err != nil {
		return err
	}
	s.rects = append(s.rects, r)
	return nil
}

// Len returns the number of rectangles
func (s *Stream) Len() int {
	return len(s.rects)
}

// Rects returns a copy of the rectangles in emission order
func (s *Stream) Rects() []Rect {
	out := make([]Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// OnLayer returns the rectangles drawn on the given layer, in order
func (s *Stream) OnLayer(layer LayerTag) []Rect {
	var out []Rect
	for _, r := range s.rects {
		if r.Layer == layer {
			out = append(out, r)
		}
	}
	return out
}

// Bounds returns the bounding box of every rectangle whose layer passes keep.
// A nil keep selects all rectangles.
func (s *Stream) Bounds(keep func(LayerTag) bool) BoundingBox {
	bbox := NewBoundingBox()
	for _, r := range s.rects {
		if keep != nil && !keep(r.Layer) {
			continue
		}
		bbox.ExpandBox(r.Box())
	}
	return bbox
}

// Equal reports whether two streams hold identical rectangles in identical order
func (s *Stream) Equal(other *Stream) bool {
	if len(s.rects) != len(other.rects) {
		return false
	}
	for i := range s.rects {
		if s.rects[i] != other.rects[i] {
			return false
		}
	}
	return true
}
