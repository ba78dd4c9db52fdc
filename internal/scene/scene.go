// Package scene owns every live entity and platform of a match and advances
// them one fixed tick at a time.
package scene

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-brawl/internal/collision"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/physics"
)

// Config holds the world constants of a scene.
type Config struct {
	Env physics.Env
	// Horizon is the sweep time horizon in ticks.
	Horizon float64
	// LandingDepth is how deep a body may sink into a one-way platform and
	// still be pushed back on top of it.
	LandingDepth float64
	// Bounds is the playable area. Fighters are kept inside it horizontally;
	// anything else leaving it is destroyed.
	Bounds Bounds
}

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	Min, Max geom.Vec2
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p geom.Vec2) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() && p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene's logger. Scenes are silent by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBehaviors replaces the default fighter behaviors.
func WithBehaviors(b *entity.Behaviors) Option {
	return func(s *Scene) {
		s.behaviors = b
	}
}

type slot struct {
	e     *entity.Entity
	gen   uint32
	live  bool
	event entity.Event
}

// Scene is a single-threaded simulation. Nothing in it may be touched while
// Tick runs.
type Scene struct {
	cfg       Config
	catalog   *frames.Catalog
	behaviors *entity.Behaviors
	log       *log.Logger

	slots     []slot
	freeSlots []int
	order     []entity.Handle
	platforms []*physics.Body
	pool      *Pool
	tasks     TaskQueue
	tick      uint64
	report    TickReport
}

// New creates an empty scene.
func New(cfg Config, catalog *frames.Catalog, opts ...Option) *Scene {
	if cfg.Horizon <= 0 {
		cfg.Horizon = 1
	}
	s := &Scene{
		cfg:       cfg,
		catalog:   catalog,
		behaviors: entity.DefaultBehaviors(),
		log:       log.New(io.Discard),
		pool:      NewPool(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the scene's configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Catalog returns the kinds the scene can spawn.
func (s *Scene) Catalog() *frames.Catalog {
	return s.catalog
}

// Pool returns the scene's entity pool.
func (s *Scene) Pool() *Pool {
	return s.pool
}

// Ticks returns the number of completed ticks.
func (s *Scene) Ticks() uint64 {
	return s.tick
}

// AddPlatform adds a static platform.
func (s *Scene) AddPlatform(shape geom.Shape, pos geom.Vec2, oneWay bool) *physics.Body {
	p := physics.NewPlatform(shape, pos, oneWay)
	s.platforms = append(s.platforms, p)
	return p
}

// Platforms returns the static platforms in insertion order.
func (s *Scene) Platforms() []*physics.Body {
	return s.platforms
}

// Spawn creates an entity immediately. During a tick, entities request
// spawns through the task queue instead.
func (s *Scene) Spawn(req entity.Spawn) entity.Handle {
	table, ok := s.catalog.Get(req.Kind)
	if !ok {
		panic(fmt.Sprintf("scene: spawn of unknown kind %q", req.Kind))
	}

	var e *entity.Entity
	reused := false
	if table.Poolable {
		e, reused = s.pool.Acquire(table, req.Position, req.Direction)
	} else {
		e = entity.New(table, req.Position, req.Direction)
	}
	e.Body.Velocity = req.Velocity
	e.Team = req.Team
	e.Owner = req.Owner
	e.SetFrame(req.Action)

	h := s.allocSlot(e)
	e.Handle = h
	s.order = append(s.order, h)
	s.report.Spawned++
	s.log.Debug("spawn", "kind", req.Kind, "handle", h, "action", req.Action, "reused", reused)
	return h
}

// Destroy removes an entity immediately. Stale handles are ignored.
func (s *Scene) Destroy(h entity.Handle) bool {
	e, ok := s.Get(h)
	if !ok {
		return false
	}
	sl := &s.slots[h.Index]
	sl.live = false
	sl.e = nil
	sl.event = entity.EventNone
	s.freeSlots = append(s.freeSlots, h.Index)
	for i, oh := range s.order {
		if oh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if e.Table.Poolable {
		s.pool.Release(e)
	}
	s.report.Destroyed++
	s.log.Debug("destroy", "kind", e.Kind(), "handle", h)
	return true
}

func (s *Scene) allocSlot(e *entity.Entity) entity.Handle {
	var idx int
	if n := len(s.freeSlots); n > 0 {
		idx = s.freeSlots[n-1]
		s.freeSlots = s.freeSlots[:n-1]
	} else {
		idx = len(s.slots)
		s.slots = append(s.slots, slot{})
	}
	sl := &s.slots[idx]
	sl.gen++
	sl.e = e
	sl.live = true
	sl.event = entity.EventNone
	return entity.Handle{Index: idx, Gen: sl.gen}
}

// Get resolves a handle. Handles of destroyed entities resolve to nothing.
func (s *Scene) Get(h entity.Handle) (*entity.Entity, bool) {
	if h.Index < 0 || h.Index >= len(s.slots) {
		return nil, false
	}
	sl := s.slots[h.Index]
	if !sl.live || sl.gen != h.Gen {
		return nil, false
	}
	return sl.e, true
}

// MustGet resolves a handle or panics.
func (s *Scene) MustGet(h entity.Handle) *entity.Entity {
	e, ok := s.Get(h)
	if !ok {
		panic(fmt.Sprintf("scene: dangling handle %v", h))
	}
	return e
}

// Entities returns the live entities in insertion order.
func (s *Scene) Entities() []*entity.Entity {
	out := make([]*entity.Entity, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.slots[h.Index].e)
	}
	return out
}

// Len returns the number of live entities.
func (s *Scene) Len() int {
	return len(s.order)
}

// Sprites returns the render view of every live entity, in insertion order.
func (s *Scene) Sprites() []entity.Sprite {
	out := make([]entity.Sprite, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.slots[h.Index].e.Sprite())
	}
	return out
}

// Tick advances the scene by one step:
//  1. sweep moving bodies against platforms, then integrate
//  2. separate hurtboxes from platforms and detect landing with hulls
//  3. resolve attacks between entities
//  4. step every state machine
//  5. apply queued spawns and destroys
//
// Controllers are looked up by each entity's player slot.
func (s *Scene) Tick(inputs map[core.PlayerID]core.Controller) TickReport {
	s.report = TickReport{Tick: s.tick}
	live := append([]entity.Handle(nil), s.order...)

	for _, h := range live {
		s.integrate(s.slots[h.Index].e)
	}
	for _, h := range live {
		s.slots[h.Index].event = s.contact(s.slots[h.Index].e)
	}
	s.resolveHits(live)

	for _, h := range live {
		sl := &s.slots[h.Index]
		e := sl.e
		ctx := entity.Context{Tasks: &s.tasks}
		if e.Player != 0 {
			ctx.Ctrl = inputs[e.Player]
		}
		e.Step(ctx, sl.event, s.behaviors)
		sl.event = entity.EventNone
	}

	s.tasks.drain(func(t task) {
		switch t.kind {
		case taskSpawn:
			s.Spawn(t.spawn)
		case taskDestroy:
			s.Destroy(t.target)
		}
	})

	s.tick++
	return s.report
}

func (s *Scene) integrate(e *entity.Entity) {
	b := e.Body
	if e.State() != frames.StateEffect && !geom.IsZero(b.Velocity) {
		var first collision.Impact
		found := false
		for _, p := range s.platforms {
			hit, ok := collision.Sweep(b.Solid(), p, s.cfg.Horizon)
			if ok && hit.Time < 1 && (!found || hit.Time < first.Time) {
				first, found = hit, true
			}
		}
		if found {
			b.ApplyImpact(first)
			if e.State() == frames.StateProjectile {
				s.impact(e)
			}
		}
	}
	b.Update(s.cfg.Env)
}

// contact separates e from platforms and reports a grounded change.
func (s *Scene) contact(e *entity.Entity) entity.Event {
	b := e.Body
	b.Overlapping = false
	if e.State() == frames.StateEffect {
		return entity.EventNone
	}

	for _, p := range s.platforms {
		mtv, ok := collision.ResolveStaticOverlap(b.Hurtbox(), p.Hurtbox())
		if ok && collision.Blocks(b.Solid(), p, mtv, s.cfg.LandingDepth) {
			b.Separate(mtv)
			b.Land(mtv)
		}
	}

	grounded := false
	for _, p := range s.platforms {
		mtv, ok := collision.ResolveStaticOverlap(b.Hull(), p.Hull())
		if !ok || !isUp(mtv) || b.Velocity.Y() < 0 {
			continue
		}
		if collision.Blocks(b, p, mtv, s.cfg.LandingDepth) {
			grounded = true
			b.Land(mtv)
		}
	}

	if e.Table.HP > 0 {
		s.keepInside(e)
	} else if !s.cfg.Bounds.Contains(b.Position) && s.cfg.Bounds != (Bounds{}) {
		s.tasks.Destroy(e.Handle)
	}

	was := b.Grounded
	b.Grounded = grounded
	switch {
	case grounded && !was:
		s.log.Debug("landed", "kind", e.Kind(), "handle", e.Handle)
		return entity.EventLanded
	case !grounded && was:
		s.log.Debug("falling", "kind", e.Kind(), "handle", e.Handle)
		return entity.EventFalling
	}
	return entity.EventNone
}

// isUp reports whether the separation points mostly upward.
func isUp(mtv geom.Vec2) bool {
	return mtv.Y() < 0 && math.Abs(mtv.Y()) > math.Abs(mtv.X())
}

func (s *Scene) keepInside(e *entity.Entity) {
	bd := s.cfg.Bounds
	if bd == (Bounds{}) {
		return
	}
	b := e.Body
	minX, maxX := geom.Project(b.Hurtbox(), geom.Right)
	switch {
	case minX < bd.Min.X():
		b.Position[0] += bd.Min.X() - minX
		b.Velocity[0] = math.Max(b.Velocity[0], 0)
	case maxX > bd.Max.X():
		b.Position[0] -= maxX - bd.Max.X()
		b.Velocity[0] = math.Min(b.Velocity[0], 0)
	}
}

// impact sends a projectile into its impact frames.
func (s *Scene) impact(e *entity.Entity) {
	if to := e.Table.Special.Injured; to != 0 {
		e.NextFrame = to
	} else {
		e.NextFrame = frames.Destroy
	}
}
