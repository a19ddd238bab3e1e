// Package geom provides the normalized bounding-box type and the rectangle
// math used by every detection mode. Coordinates are normalized to [0,1]
// with the origin at the top-left corner and y increasing downward.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// BBox is an axis-aligned rectangle in normalized page coordinates.
// Invariant: X0 <= X1 and Y0 <= Y1. A box with zero area is treated as
// "no region" wherever a resolver produces one.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Unit returns the full-page box (0,0)-(1,1).
func Unit() BBox {
	return BBox{X0: 0, Y0: 0, X1: 1, Y1: 1}
}

// New creates a bounding box, swapping coordinates if given out of order.
func New(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// IsEmpty returns true if the box has no positive area.
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// CenterX returns the x coordinate of the box center.
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the y coordinate of the box center.
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// ContainsPoint checks whether the point (x, y) lies inside the box.
// Boundary points count as inside.
func (b BBox) ContainsPoint(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Contains checks whether other lies entirely inside the box.
func (b BBox) Contains(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks whether the two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 ||
		b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Intersect returns the overlapping rectangle of the two boxes, or the
// zero box when they do not overlap.
func (b BBox) Intersect(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Expand grows the box by margin on all sides.
func (b BBox) Expand(margin float64) BBox {
	return b.ExpandXY(margin, margin)
}

// ExpandXY grows the box by dx horizontally and dy vertically on each side.
func (b BBox) ExpandXY(dx, dy float64) BBox {
	return BBox{
		X0: b.X0 - dx,
		Y0: b.Y0 - dy,
		X1: b.X1 + dx,
		Y1: b.Y1 + dy,
	}
}

// ClampUnit clips the box to the normalized page square [0,1]^2.
func (b BBox) ClampUnit() BBox {
	return b.Intersect(Unit())
}

// InUnit reports whether all coordinates lie within [0,1].
func (b BBox) InUnit() bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X1 <= 1 && b.Y1 <= 1
}

// String renders the box as (x0,y0)-(x1,y1) for log output.
func (b BBox) String() string {
	return fmt.Sprintf("(%.4f,%.4f)-(%.4f,%.4f)", b.X0, b.Y0, b.X1, b.Y1)
}

// MarshalJSON encodes the box as a compact [x0, y0, x1, y1] array.
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X0, b.Y0, b.X1, b.Y1})
}

// UnmarshalJSON decodes a [x0, y0, x1, y1] array.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var coords [4]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("bbox must be a [x0, y0, x1, y1] array: %w", err)
	}
	if coords[0] > coords[2] || coords[1] > coords[3] {
		return fmt.Errorf("bbox %v violates x0<=x1, y0<=y1", coords)
	}
	b.X0, b.Y0, b.X1, b.Y1 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// MarshalYAML encodes the box as a flow-style [x0, y0, x1, y1] sequence.
func (b BBox) MarshalYAML() (any, error) {
	return []float64{b.X0, b.Y0, b.X1, b.Y1}, nil
}

// UnmarshalYAML decodes a [x0, y0, x1, y1] sequence.
func (b *BBox) UnmarshalYAML(unmarshal func(any) error) error {
	var coords []float64
	if err := unmarshal(&coords); err != nil {
		return fmt.Errorf("bbox must be a [x0, y0, x1, y1] sequence: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("bbox has %d coordinates, want 4", len(coords))
	}
	if coords[0] > coords[2] || coords[1] > coords[3] {
		return fmt.Errorf("bbox %v violates x0<=x1, y0<=y1", coords)
	}
	b.X0, b.Y0, b.X1, b.Y1 = coords[0], coords[1], coords[2], coords[3]
	return nil
}
