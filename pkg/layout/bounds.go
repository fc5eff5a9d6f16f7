package layout

import "math"

// BoundingBox represents a rectangular boundary in grid units
type BoundingBox struct {
	MinX, MinY int
	MaxX, MaxY int
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		MinX: math.MaxInt, MinY: math.MaxInt,
		MaxX: math.MinInt, MaxY: math.MinInt,
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.MinX > bb.MaxX || bb.MinY > bb.MaxY
}

// ExpandBox expands the bounding box to include another box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	bb.MinX = min(bb.MinX, other.MinX)
	bb.MinY = min(bb.MinY, other.MinY)
	bb.MaxX = max(bb.MaxX, other.MaxX)
	bb.MaxY = max(bb.MaxY, other.MaxY)
}

// Grow returns the box enlarged by dx horizontally and dy vertically on each side
func (bb BoundingBox) Grow(dx, dy int) BoundingBox {
	return BoundingBox{
		MinX: bb.MinX - dx, MinY: bb.MinY - dy,
		MaxX: bb.MaxX + dx, MaxY: bb.MaxY + dy,
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() int {
	return bb.MaxX - bb.MinX
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() int {
	return bb.MaxY - bb.MinY
}

// Contains reports whether other lies within bb (edges may touch)
func (bb BoundingBox) Contains(other BoundingBox) bool {
	return other.MinX >= bb.MinX && other.MaxX <= bb.MaxX &&
		other.MinY >= bb.MinY && other.MaxY <= bb.MaxY
}

// ContainsStrict reports whether other lies within bb without touching its edges
func (bb BoundingBox) ContainsStrict(other BoundingBox) bool {
	return other.MinX > bb.MinX && other.MaxX < bb.MaxX &&
		other.MinY > bb.MinY && other.MaxY < bb.MaxY
}

// Intersects checks if two bounding boxes overlap with non-zero area
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.MinX < other.MaxX && bb.MaxX > other.MinX &&
		bb.MinY < other.MaxY && bb.MaxY > other.MinY
}
