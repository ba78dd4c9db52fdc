// Package entity implements the frame-driven state machine shared by every
// simulated object: fighters, projectiles and transient effects.
//
// An entity's behavior is data. Its frame table says which frame follows
// which, and a Behaviors table maps each logical state to the callbacks that
// read input and physics. Step picks at most one transition per tick.
package entity

import (
	"fmt"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/physics"
)

// Handle names a live entity inside a scene. The zero Handle names nothing.
type Handle struct {
	Index int
	Gen   uint32
}

// Valid reports whether h was ever issued.
func (h Handle) Valid() bool {
	return h.Gen != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Index, h.Gen)
}

// Event is a contact change raised by the scene's collision pass.
type Event uint8

const (
	EventNone Event = iota
	EventLanded
	EventFalling
)

func (e Event) String() string {
	switch e {
	case EventLanded:
		return "landed"
	case EventFalling:
		return "falling"
	default:
		return "none"
	}
}

// Spawn asks the scene to create an entity at the end of the tick.
type Spawn struct {
	Kind      string
	Action    int
	Position  geom.Vec2
	Velocity  geom.Vec2
	Direction int
	Team      int
	Owner     Handle
}

// Tasks is the deferred work an entity may request during a tick.
type Tasks interface {
	Spawn(req Spawn)
	Destroy(h Handle)
}

// Context is what behaviors see besides the entity itself.
type Context struct {
	Ctrl  core.Controller
	Tasks Tasks
}

// Entity is the runtime state of one simulated object.
type Entity struct {
	Handle Handle
	Table  *frames.Table
	Body   *physics.Body

	Frame     int
	Wait      int
	NextFrame int // Forced transition for the coming Step; 0 means none
	Direction int // +1 faces right, -1 left
	Animator  Animator

	HP         int
	Team       int
	Owner      Handle
	Player     core.PlayerID
	AttackRest int // Ticks before this entity's attacks can land again
}

// New creates an entity of the table's kind standing on frame 0.
func New(table *frames.Table, pos geom.Vec2, dir int) *Entity {
	e := &Entity{}
	e.Reset(table, pos, dir)
	return e
}

// Reset reinitializes a (possibly pooled) entity. The body is reused when
// present.
func (e *Entity) Reset(table *frames.Table, pos geom.Vec2, dir int) {
	if dir == 0 {
		dir = 1
	}
	body := e.Body
	if body == nil {
		body = physics.NewBody(table.Hurtbox, table.Hull, pos, table.Mass)
	} else {
		*body = *physics.NewBody(table.Hurtbox, table.Hull, pos, table.Mass)
	}
	body.IgnorePass = table.IgnorePassthrough
	body.Facing = float64(dir)

	*e = Entity{
		Handle:    e.Handle,
		Table:     table,
		Body:      body,
		Direction: dir,
		HP:        table.HP,
	}
	e.SetFrame(0)
}

// Kind returns the entity's kind name.
func (e *Entity) Kind() string {
	return e.Table.Kind
}

// Data returns the current frame.
func (e *Entity) Data() *frames.FrameData {
	return e.Table.MustFrame(e.Frame)
}

// State returns the logical state of the current frame.
func (e *Entity) State() frames.StateID {
	return e.Data().State
}

// SetFrame jumps to a frame without side effects. Used when placing an
// entity, never during a tick.
func (e *Entity) SetFrame(id int) {
	id = frames.Translate(id)
	data := e.Table.MustFrame(id)
	e.Frame = id
	e.Wait = 1 + data.Wait
	e.NextFrame = 0
}

// Face turns the entity toward dir when dir is non-zero.
func (e *Entity) Face(dir int) {
	if dir != 0 {
		e.Direction = dir
		e.Body.Facing = float64(dir)
	}
}

// Step advances the state machine by one tick. Precedence, highest first:
// a forced NextFrame, a landed/falling event handler, a combo from the
// current frame, the state's input callback, its update callback, and once
// wait runs out the state's cyclic generator or the frame's next.
func (e *Entity) Step(ctx Context, ev Event, beh *Behaviors) {
	if e.AttackRest > 0 {
		e.AttackRest--
	}
	data := e.Data()
	b := beh.For(data.State)

	next := e.NextFrame
	e.NextFrame = 0
	if next == 0 && ev != EventNone {
		next = beh.event(b, e, ctx, ev)
	}
	if next == 0 {
		next = matchCombo(data, ctx.Ctrl)
	}
	if next == 0 && b.Input != nil {
		next = b.Input(e, ctx)
	}
	if next == 0 && b.Update != nil {
		next = b.Update(e, ctx)
	}
	if next == 0 {
		if e.Wait > 0 {
			e.Wait--
		}
		if e.Wait == 0 {
			if b.NextFrame != nil {
				next = b.NextFrame(e)
			}
			if next == 0 {
				next = data.Next
			}
		}
	}
	if next != 0 {
		e.Enter(next, ctx.Tasks)
	}
	e.Body.Facing = float64(e.Direction)
}

// Enter performs a transition to target: the destroy sentinel queues removal,
// anything else replaces the frame, resets wait and applies the transition's
// effect, the frame's velocity and its object point.
func (e *Entity) Enter(target int, tasks Tasks) {
	if target == frames.Destroy {
		tasks.Destroy(e.Handle)
		return
	}
	to := frames.Translate(target)
	data := e.Table.MustFrame(to)
	from := e.Frame

	e.Frame = to
	e.Wait = 1 + data.Wait
	if eff, ok := e.Table.Effect(from, to); ok {
		e.applyEffect(eff)
	}
	if data.DVX != 0 {
		e.Body.Velocity[0] = data.DVX * float64(e.Direction)
	}
	if data.DVY != 0 {
		e.Body.Velocity[1] = data.DVY
	}
	if o := data.OPoint; o != nil {
		tasks.Spawn(e.objectSpawn(o))
	}
}

func (e *Entity) applyEffect(eff frames.Effect) {
	dir := float64(e.Direction)
	v := e.Body.Velocity
	if eff.ScaleX != nil {
		v[0] *= *eff.ScaleX
	}
	if eff.ScaleY != nil {
		v[1] *= *eff.ScaleY
	}
	if eff.Force {
		e.Body.Velocity = v
		if eff.VX != 0 {
			e.Body.Force(eff.VX*dir, physics.AxisX, 0)
		}
		if eff.VY != 0 {
			e.Body.Force(eff.VY, physics.AxisY, 0)
		}
		return
	}
	if eff.SetX {
		v[0] = eff.VX * dir
	} else {
		v[0] += eff.VX * dir
	}
	if eff.SetY {
		v[1] = eff.VY
	} else {
		v[1] += eff.VY
	}
	e.Body.Velocity = v
}

func (e *Entity) objectSpawn(o *frames.ObjectPoint) Spawn {
	dir := e.Direction * o.Facing
	return Spawn{
		Kind:      o.Kind,
		Action:    o.Action,
		Position:  e.Body.Position.Add(geom.V(o.Offset.X()*float64(e.Direction), o.Offset.Y())),
		Velocity:  geom.V(o.DVX*float64(dir), o.DVY),
		Direction: dir,
		Team:      e.Team,
		Owner:     e.Handle,
	}
}

func matchCombo(data *frames.FrameData, ctrl core.Controller) int {
	if len(data.Combos) == 0 {
		return 0
	}
	for _, name := range ctrl.Combos {
		if to, ok := data.Combos[name]; ok && to != 0 {
			return to
		}
	}
	return 0
}

// AttackBox returns the current frame's attack polygon, if any.
func (e *Entity) AttackBox() (geom.Polygon, *frames.Hit, bool) {
	hit := e.Data().Hit
	if hit == nil {
		return geom.Polygon{}, nil, false
	}
	return hit.Box.CornersFacing(e.Body.Position, e.Body.Facing), hit, true
}

// Sprite is the render view of an entity.
type Sprite struct {
	Handle    Handle
	Kind      string
	Index     int
	Position  geom.Vec2
	Direction int
	Player    core.PlayerID
	Team      int
	State     frames.StateID
	Bottom    float64 // World Y of the hurtbox's lowest point
}

// Sprite returns the entity's render view.
func (e *Entity) Sprite() Sprite {
	_, bottom := geom.Project(e.Body.Hurtbox(), geom.Down)
	return Sprite{
		Handle:    e.Handle,
		Kind:      e.Table.Kind,
		Index:     e.Data().Sprite,
		Position:  e.Body.Position,
		Direction: e.Direction,
		Player:    e.Player,
		Team:      e.Team,
		State:     e.State(),
		Bottom:    bottom,
	}
}
