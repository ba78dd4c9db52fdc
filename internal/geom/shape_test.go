package geom

import (
	"math"
	"testing"
)

func TestRectCorners(t *testing.T) {
	s := NewRect(2, 1)
	p := s.Corners(V(10, 5))

	expected := Polygon{{8, 4}, {12, 4}, {12, 6}, {8, 6}}
	if p != expected {
		t.Errorf("Corners() = %v, expected %v", p, expected)
	}
}

func TestDiamondCorners(t *testing.T) {
	s := NewDiamond(3, 2)
	p := s.Corners(V(0, 0))

	expected := Polygon{{0, -2}, {3, 0}, {0, 2}, {-3, 0}}
	if p != expected {
		t.Errorf("Corners() = %v, expected %v", p, expected)
	}
}

func TestCornersFollowPose(t *testing.T) {
	s := NewRect(1, 1)
	a := s.Corners(V(0, 0))
	b := s.Corners(V(5, 0))

	if a == b {
		t.Error("Corners should be recomputed for a new pose")
	}
	if b[0] != V(4, -1) {
		t.Errorf("Corners()[0] = %v, expected (4, -1)", b[0])
	}
}

func TestCornersFacingMirrorsOffset(t *testing.T) {
	s := Shape{Kind: Rectangle, HalfW: 1, HalfH: 1, Offset: V(4, 0)}

	right := Center(s.CornersFacing(V(0, 0), 1))
	left := Center(s.CornersFacing(V(0, 0), -1))

	if right != V(4, 0) {
		t.Errorf("facing right center = %v, expected (4, 0)", right)
	}
	if left != V(-4, 0) {
		t.Errorf("facing left center = %v, expected (-4, 0)", left)
	}
}

func TestNormalsPointOutward(t *testing.T) {
	for _, s := range []Shape{NewRect(2, 1), NewDiamond(2, 1)} {
		p := s.Corners(V(3, 3))
		center := Center(p)
		normals := Normals(p)

		if len(normals) != 4 {
			t.Fatalf("%v: Normals() returned %d axes, expected 4", s.Kind, len(normals))
		}
		for i, n := range normals {
			mid := p[i].Add(p[(i+1)%4]).Mul(0.5)
			if mid.Sub(center).Dot(n) <= 0 {
				t.Errorf("%v: normal %d = %v points inward", s.Kind, i, n)
			}
			if math.Abs(n.Len()-1) > 1e-9 {
				t.Errorf("%v: normal %d has length %f", s.Kind, i, n.Len())
			}
		}
	}
}

func TestNormalsSkipDegenerateEdges(t *testing.T) {
	p := Polygon{{0, 0}, {0, 0}, {2, 2}, {0, 2}}
	normals := Normals(p)

	if len(normals) != 3 {
		t.Fatalf("Normals() returned %d axes, expected 3", len(normals))
	}
	for _, n := range normals {
		if math.IsNaN(n[0]) || math.IsNaN(n[1]) {
			t.Errorf("Normals() produced NaN axis %v", n)
		}
	}
}

func TestNormalizeZero(t *testing.T) {
	v, ok := Normalize(Zero)
	if ok {
		t.Error("Normalize(Zero) should report false")
	}
	if v != Zero {
		t.Errorf("Normalize(Zero) = %v, expected zero", v)
	}
}

func TestProject(t *testing.T) {
	p := NewRect(1, 2).Corners(V(5, 0))

	min, max := Project(p, Right)
	if min != 4 || max != 6 {
		t.Errorf("Project(Right) = [%f, %f], expected [4, 6]", min, max)
	}

	min, max = Project(p, Up)
	if min != -2 || max != 2 {
		t.Errorf("Project(Up) = [%f, %f], expected [-2, 2]", min, max)
	}
}

func TestShapeSpecBuild(t *testing.T) {
	s, err := ShapeSpec{Shape: "diamond", HalfW: 2, HalfH: 3, OffsetX: 1}.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if s.Kind != Diamond || s.Offset != V(1, 0) {
		t.Errorf("Build() = %+v, unexpected fields", s)
	}

	if _, err := (ShapeSpec{Shape: "circle", HalfW: 1, HalfH: 1}).Build(); err == nil {
		t.Error("Build() should reject unknown shapes")
	}
	if _, err := (ShapeSpec{HalfW: 0, HalfH: 1}).Build(); err == nil {
		t.Error("Build() should reject zero extents")
	}
}
