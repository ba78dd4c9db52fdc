// Package geom provides the 2D primitives the simulation kernel is built on:
// vectors and the convex shapes used for hurtboxes, hulls and attack boxes.
// World coordinates grow right (+X) and down (+Y), matching the screen.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D vector. It is a plain value type with no identity.
type Vec2 = mgl64.Vec2

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// Common directions in world space.
var (
	Zero  = Vec2{0, 0}
	Up    = Vec2{0, -1}
	Down  = Vec2{0, 1}
	Left  = Vec2{-1, 0}
	Right = Vec2{1, 0}
)

// V builds a vector from its components.
func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Perp returns v rotated a quarter turn. For a clockwise polygon in screen
// space this turns an edge direction into its outward normal.
func Perp(v Vec2) Vec2 {
	return Vec2{v[1], -v[0]}
}

// Normalize returns v scaled to unit length. A (near) zero vector yields
// Zero and false instead of NaN components.
func Normalize(v Vec2) (Vec2, bool) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) {
		return Zero, false
	}
	return v.Mul(1 / l), true
}

// IsZero reports whether v has (near) zero length.
func IsZero(v Vec2) bool {
	return v.Len() < Epsilon
}

// Sign returns -1, 0 or 1.
func Sign(f float64) float64 {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}
