// Package physics provides the rigid body ("mechanics") every simulated
// entity and platform owns: pose, velocity, mass and contact flags, plus the
// explicit Euler integrator and bounded impulses.
package physics

import (
	"math"

	"github.com/vovakirdan/tui-brawl/internal/collision"
	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// Env holds the world constants the integrator needs.
type Env struct {
	Gravity  float64 // Added to Y velocity per tick, scaled by mass
	Friction float64 // Removed from |X velocity| per tick while grounded
}

// Axis indexes a velocity component.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// Body is a rigid body with a hurtbox and a (usually larger) hull.
// Static bodies are platforms: they never integrate and have infinite mass.
type Body struct {
	Shape    geom.Shape // Hurtbox, swept against and separated from platforms
	HullSh   geom.Shape // Ground sensor, reaches a little below the hurtbox
	Position geom.Vec2
	Velocity geom.Vec2
	Mass     float64 // 0 means weightless
	Facing   float64 // +1 or -1, mirrors shape offsets

	Grounded    bool
	Overlapping bool // Debug/render hint, set when any overlap was resolved

	PassDir    geom.Vec2 // One-way direction, valid when OneWay is set
	OneWay     bool
	IgnorePass bool
	Static     bool
}

// NewBody creates a dynamic body at pos.
func NewBody(shape, hull geom.Shape, pos geom.Vec2, mass float64) *Body {
	return &Body{
		Shape:    shape,
		HullSh:   hull,
		Position: pos,
		Mass:     mass,
		Facing:   1,
	}
}

// NewPlatform creates a static body. A one-way platform can only be landed
// on from above.
func NewPlatform(shape geom.Shape, pos geom.Vec2, oneWay bool) *Body {
	b := &Body{
		Shape:    shape,
		HullSh:   shape,
		Position: pos,
		Facing:   1,
		Static:   true,
	}
	if oneWay {
		b.OneWay = true
		b.PassDir = geom.Down
	}
	return b
}

// Hull returns the collision polygon at the current pose.
func (b *Body) Hull() geom.Polygon {
	return b.HullSh.CornersFacing(b.Position, b.Facing)
}

// Hurtbox returns the hurtbox polygon at the current pose.
func (b *Body) Hurtbox() geom.Polygon {
	return b.Shape.CornersFacing(b.Position, b.Facing)
}

// Solid returns a view of the body whose collision polygon is the hurtbox.
// Sweeps use it so that a body stops with its hurtbox touching a platform
// and its hull still overlapping, which is what registers as standing.
func (b *Body) Solid() collision.Mover {
	return solid{b}
}

type solid struct{ *Body }

func (s solid) Hull() geom.Polygon {
	return s.Hurtbox()
}

// Land cancels velocity into a surface whose separating direction is mtv.
func (b *Body) Land(mtv geom.Vec2) {
	n, ok := geom.Normalize(mtv)
	if !ok {
		return
	}
	if into := b.Velocity.Dot(n); into < 0 {
		b.Velocity = b.Velocity.Sub(n.Mul(into))
	}
}

// Vel returns the velocity per tick.
func (b *Body) Vel() geom.Vec2 {
	return b.Velocity
}

// Passthrough returns the one-way direction if the body has one.
func (b *Body) Passthrough() (geom.Vec2, bool) {
	return b.PassDir, b.OneWay
}

// IgnoresPassthrough reports whether one-way bodies block this body from
// every side.
func (b *Body) IgnoresPassthrough() bool {
	return b.IgnorePass
}

// Update advances the body one tick: position by velocity, then gravity,
// then ground friction. Friction stops at zero rather than reversing.
func (b *Body) Update(env Env) {
	if b.Static {
		return
	}

	b.Position = b.Position.Add(b.Velocity)
	b.Velocity[1] += b.Mass * env.Gravity

	if b.Grounded {
		vx := b.Velocity[0]
		b.Velocity[0] = vx - geom.Sign(vx)*math.Min(math.Abs(vx), env.Friction)
	}
}

// Force pushes the velocity on axis toward magnitude by at most accel per
// call (accel <= 0 means |magnitude|). Motion against the target is zeroed
// first, and a body already faster than the target keeps its speed.
func (b *Body) Force(magnitude float64, axis Axis, accel float64) {
	if b.Static {
		return
	}
	if accel <= 0 {
		accel = math.Abs(magnitude)
	}

	v := b.Velocity[axis]
	if magnitude != 0 && v != 0 && geom.Sign(v) != geom.Sign(magnitude) {
		v = 0
	}

	delta := magnitude - v
	if magnitude != 0 && geom.Sign(delta) != geom.Sign(magnitude) {
		b.Velocity[axis] = v
		return
	}

	b.Velocity[axis] = v + math.Max(-accel, math.Min(accel, delta))
}

// ApplyImpact moves the body up to the contact reported by a sweep and
// applies its velocity correction.
func (b *Body) ApplyImpact(hit collision.Impact) {
	along := hit.Axis.Dot(b.Velocity)
	b.Position = b.Position.Add(hit.Axis.Mul(along * hit.Time))
	b.Velocity = b.Velocity.Add(hit.Correction)
}

// Separate displaces the body by mtv.
func (b *Body) Separate(mtv geom.Vec2) {
	b.Position = b.Position.Add(mtv)
	b.Overlapping = true
}

// Stop zeroes the velocity.
func (b *Body) Stop() {
	b.Velocity = geom.Zero
}

var _ collision.Mover = (*Body)(nil)
