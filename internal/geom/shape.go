package geom

import "fmt"

// ShapeKind selects how a Shape derives its corners.
type ShapeKind uint8

const (
	// Rectangle is an axis-aligned box.
	Rectangle ShapeKind = iota
	// Diamond is a box rotated 45 degrees, corners on the axes.
	Diamond
)

// String returns the name used in frame table files.
func (k ShapeKind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Diamond:
		return "diamond"
	default:
		return "unknown"
	}
}

// ParseShapeKind converts a frame table name into a ShapeKind.
// An empty name means Rectangle.
func ParseShapeKind(name string) (ShapeKind, error) {
	switch name {
	case "", "rectangle", "rect":
		return Rectangle, nil
	case "diamond":
		return Diamond, nil
	default:
		return 0, fmt.Errorf("geom: unknown shape %q", name)
	}
}

// Polygon is the corner list of a convex quad in clockwise screen order.
type Polygon [4]Vec2

// Shape is a convex quad described by half-extents around an offset from its
// owner's pose. Corners are derived from the pose on every call.
type Shape struct {
	Kind   ShapeKind
	HalfW  float64
	HalfH  float64
	Offset Vec2 // Relative to the owner's position, X mirrored by facing
}

// NewRect creates a rectangle with the given half-extents.
func NewRect(halfW, halfH float64) Shape {
	return Shape{Kind: Rectangle, HalfW: halfW, HalfH: halfH}
}

// NewDiamond creates a diamond with the given half-extents.
func NewDiamond(halfW, halfH float64) Shape {
	return Shape{Kind: Diamond, HalfW: halfW, HalfH: halfH}
}

// Corners returns the polygon for the shape centered at pos.
// The order is clockwise with y growing downward, starting at the top.
func (s Shape) Corners(pos Vec2) Polygon {
	return s.CornersFacing(pos, 1)
}

// CornersFacing is Corners with the offset mirrored for a facing of -1.
func (s Shape) CornersFacing(pos Vec2, facing float64) Polygon {
	if facing == 0 {
		facing = 1
	}
	c := pos.Add(Vec2{s.Offset[0] * facing, s.Offset[1]})
	x, y := c[0], c[1]
	w, h := s.HalfW, s.HalfH

	switch s.Kind {
	case Diamond:
		return Polygon{
			{x, y - h},
			{x + w, y},
			{x, y + h},
			{x - w, y},
		}
	default:
		return Polygon{
			{x - w, y - h},
			{x + w, y - h},
			{x + w, y + h},
			{x - w, y + h},
		}
	}
}

// Normals returns the outward unit normals of p's edges in corner order.
// Zero-length edges have no defined normal and are skipped.
func Normals(p Polygon) []Vec2 {
	out := make([]Vec2, 0, len(p))
	for i := range p {
		edge := p[(i+1)%len(p)].Sub(p[i])
		n, ok := Normalize(Perp(edge))
		if !ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Project returns the interval p covers along axis.
func Project(p Polygon, axis Vec2) (min, max float64) {
	min = p[0].Dot(axis)
	max = min
	for _, c := range p[1:] {
		d := c.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// Center returns the average of p's corners.
func Center(p Polygon) Vec2 {
	var sum Vec2
	for _, c := range p {
		sum = sum.Add(c)
	}
	return sum.Mul(1.0 / float64(len(p)))
}

// ShapeSpec is the serialized form of a Shape in frame tables.
type ShapeSpec struct {
	Shape   string  `yaml:"shape,omitempty" json:"shape,omitempty"`
	HalfW   float64 `yaml:"half_w" json:"half_w"`
	HalfH   float64 `yaml:"half_h" json:"half_h"`
	OffsetX float64 `yaml:"offset_x,omitempty" json:"offset_x,omitempty"`
	OffsetY float64 `yaml:"offset_y,omitempty" json:"offset_y,omitempty"`
}

// Build converts the serialized form into a Shape.
func (s ShapeSpec) Build() (Shape, error) {
	kind, err := ParseShapeKind(s.Shape)
	if err != nil {
		return Shape{}, err
	}
	if s.HalfW <= 0 || s.HalfH <= 0 {
		return Shape{}, fmt.Errorf("geom: shape needs positive half extents, got %gx%g", s.HalfW, s.HalfH)
	}
	return Shape{
		Kind:   kind,
		HalfW:  s.HalfW,
		HalfH:  s.HalfH,
		Offset: Vec2{s.OffsetX, s.OffsetY},
	}, nil
}

// Spec converts a Shape back into its serialized form.
func (s Shape) Spec() ShapeSpec {
	return ShapeSpec{
		Shape:   s.Kind.String(),
		HalfW:   s.HalfW,
		HalfH:   s.HalfH,
		OffsetX: s.Offset[0],
		OffsetY: s.Offset[1],
	}
}
