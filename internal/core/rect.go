// Package core holds the types shared by the modes and the platform: input
// frames, controllers, the screen buffer and runtime configuration.
// It has no Bubble Tea dependency so modes stay pure and testable.
package core

// Rect is a block of screen cells, used for HUD boxes.
type Rect struct {
	X, Y int // Top-left cell
	W, H int
}

// NewRect creates a rectangle with the given position and size in cells.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the column just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the row just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}
