// Package collision implements the Separating Axis Theorem tests used by the
// kernel: a static minimum-translation-vector test and a swept test that
// reports the time of impact between two moving convex hulls.
//
// Both functions are pure. Callers decide how to apply the results.
package collision

import (
	"math"

	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// Overcorrect scales the velocity correction of an impact so the next tick
// does not start with floating point residue inside the other body.
const Overcorrect = 1.01

// Mover is the view of a rigid body the engine needs.
type Mover interface {
	// Hull returns the collision polygon at the current pose.
	Hull() geom.Polygon
	// Vel returns the velocity per tick.
	Vel() geom.Vec2
	// Passthrough returns the one-way direction, if the body has one.
	// Other bodies collide with it only while travelling along it.
	Passthrough() (geom.Vec2, bool)
	// IgnoresPassthrough reports whether the body collides with one-way
	// bodies from any side.
	IgnoresPassthrough() bool
}

// Impact describes the earliest contact found by Sweep.
type Impact struct {
	Time       float64   // Fraction of a tick until contact, never negative
	Axis       geom.Vec2 // Separating axis that was crossed last
	Correction geom.Vec2 // Velocity delta that cancels motion along Axis
}

// axes returns A's edge normals followed by B's. The order is the tie break
// for both tests.
func axes(a, b geom.Polygon) []geom.Vec2 {
	return append(geom.Normals(a), geom.Normals(b)...)
}

// ResolveStaticOverlap returns the smallest displacement that moves a out of
// b, or false when the polygons do not overlap. Touching edges do not count
// as overlap. When several axes need the same displacement the first one
// (A's normals before B's, in corner order) wins.
func ResolveStaticOverlap(a, b geom.Polygon) (geom.Vec2, bool) {
	best := math.Inf(1)
	var mtv geom.Vec2

	for _, axis := range axes(a, b) {
		minA, maxA := geom.Project(a, axis)
		minB, maxB := geom.Project(b, axis)

		pushPos := maxB - minA // moving A along +axis by this separates
		pushNeg := maxA - minB // moving A along -axis by this separates
		if pushPos <= 0 || pushNeg <= 0 {
			return geom.Zero, false
		}

		ov := -pushNeg
		if pushPos < pushNeg {
			ov = pushPos
		}
		if math.Abs(ov) < best {
			best = math.Abs(ov)
			mtv = axis.Mul(ov)
		}
	}

	if math.IsInf(best, 1) {
		return geom.Zero, false
	}
	return mtv, true
}

// Sweep finds the earliest time within horizon ticks at which a, moving with
// its velocity, first touches b. It returns false when the bodies stay apart,
// are moving apart, or when b is one-way and a approaches against it.
//
// An axis with no relative motion constrains nothing while the projections
// overlap and proves separation when they do not.
func Sweep(a, b Mover, horizon float64) (Impact, bool) {
	rel := a.Vel().Sub(b.Vel())

	oneWay := false
	if dir, ok := b.Passthrough(); ok && !a.IgnoresPassthrough() {
		if rel.Dot(dir) < 0 {
			return Impact{}, false
		}
		oneWay = true
	}

	pa, pb := a.Hull(), b.Hull()
	maxOverlapStart := math.Inf(-1)
	minOverlapEnd := math.Inf(1)
	var hitAxis geom.Vec2
	found := false

	for _, axis := range axes(pa, pb) {
		minA, maxA := geom.Project(pa, axis)
		minB, maxB := geom.Project(pb, axis)
		speed := rel.Dot(axis)

		if math.Abs(speed) < geom.Epsilon {
			if maxA <= minB || maxB <= minA {
				return Impact{}, false
			}
			continue
		}

		t0 := (minB - maxA) / speed
		t1 := (maxB - minA) / speed
		entry, exit := math.Min(t0, t1), math.Max(t0, t1)

		if entry > maxOverlapStart {
			maxOverlapStart = entry
			hitAxis = axis
			found = true
		}
		if exit < minOverlapEnd {
			minOverlapEnd = exit
		}

		if maxOverlapStart > minOverlapEnd || maxOverlapStart > horizon || minOverlapEnd <= 0 {
			return Impact{}, false
		}
	}

	if !found {
		return Impact{}, false
	}
	// A one-way body only stops contacts that begin during this sweep;
	// a body already inside it keeps moving through.
	if oneWay && maxOverlapStart < 0 {
		return Impact{}, false
	}

	return Impact{
		Time:       math.Max(maxOverlapStart, 0),
		Axis:       hitAxis,
		Correction: hitAxis.Mul(-hitAxis.Dot(a.Vel()) * Overcorrect),
	}, true
}

// Blocks reports whether a static overlap between mover and body, resolved
// by mtv, should be separated. Solid bodies always block. A one-way body only
// blocks when mtv pushes the mover back against the one-way direction, the
// mover is not travelling against it, and the penetration is at most maxDepth.
func Blocks(mover, body Mover, mtv geom.Vec2, maxDepth float64) bool {
	dir, ok := body.Passthrough()
	if !ok || mover.IgnoresPassthrough() {
		return true
	}
	if mover.Vel().Sub(body.Vel()).Dot(dir) < 0 {
		return false
	}
	depth := -mtv.Dot(dir)
	return depth > 0 && depth <= maxDepth
}
