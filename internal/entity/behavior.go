package entity

import (
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/physics"
)

// Behavior is the set of callbacks for one logical state. Every callback
// returns a raw transition target (frame id or sentinel), or 0 for none.
// Nil callbacks are skipped.
type Behavior struct {
	Input     func(e *Entity, ctx Context) int
	Update    func(e *Entity, ctx Context) int
	NextFrame func(e *Entity) int
	Landed    func(e *Entity, ctx Context) int
	Falling   func(e *Entity, ctx Context) int
}

// Behaviors maps logical states to their callbacks. Landed and Falling are
// the state-independent handlers used when a state has none of its own.
type Behaviors struct {
	States  map[frames.StateID]Behavior
	Landed  func(e *Entity, ctx Context) int
	Falling func(e *Entity, ctx Context) int
}

// For returns the callbacks of a state; unknown states get none.
func (b *Behaviors) For(s frames.StateID) Behavior {
	if b == nil {
		return Behavior{}
	}
	return b.States[s]
}

func (b *Behaviors) event(own Behavior, e *Entity, ctx Context, ev Event) int {
	handler := own.Landed
	fallback := b.Landed
	if ev == EventFalling {
		handler, fallback = own.Falling, b.Falling
	}
	if handler == nil {
		handler = fallback
	}
	if handler == nil {
		return 0
	}
	return handler(e, ctx)
}

// DefaultBehaviors returns the fighter rule set used by the built-in kinds.
// Effects and projectiles run purely on frame data.
func DefaultBehaviors() *Behaviors {
	return &Behaviors{
		States: map[frames.StateID]Behavior{
			frames.StateStanding: {
				Input:  standingInput,
				Update: leaveGround,
			},
			frames.StateWalking: {
				Input:     walkingInput,
				Update:    leaveGround,
				NextFrame: walkCycle,
			},
			frames.StateRunning: {
				Input:     runningInput,
				Update:    leaveGround,
				NextFrame: runCycle,
			},
			frames.StateJumping: {
				Input:  airInput,
				Landed: landCrouch,
			},
			frames.StateDashing: {
				Landed: landCrouch,
			},
			frames.StateFalling: {
				Landed: landLying,
			},
			frames.StateLying: {
				Falling: ignoreEvent,
			},
		},
		Landed:  landGeneric,
		Falling: fallGeneric,
	}
}

func standingInput(e *Entity, ctx Context) int {
	if ctx.Ctrl.X == 0 {
		return 0
	}
	e.Face(ctx.Ctrl.X)
	return walkCycle(e)
}

func walkingInput(e *Entity, ctx Context) int {
	x := ctx.Ctrl.X
	if x == 0 {
		return frames.NoOp
	}
	e.Face(x)
	e.Body.Force(e.Table.Moves.Walk*float64(x), physics.AxisX, 0)
	return 0
}

func runningInput(e *Entity, ctx Context) int {
	if x := ctx.Ctrl.X; x != 0 && x != e.Direction {
		if e.Table.Special.StopRun != 0 {
			return e.Table.Special.StopRun
		}
		return frames.NoOp
	}
	e.Body.Force(e.Table.Moves.Run*float64(e.Direction), physics.AxisX, 0)
	return 0
}

func airInput(e *Entity, ctx Context) int {
	x := ctx.Ctrl.X
	if x == 0 {
		return 0
	}
	e.Face(x)
	e.Body.Force(e.Table.Moves.AirX*float64(x), physics.AxisX, e.Table.Moves.AirAc)
	return 0
}

// leaveGround sends a grounded state into the air frame once the body has
// lost its footing without a falling event, such as after a knock upward.
func leaveGround(e *Entity, _ Context) int {
	if e.Body.Grounded || e.Body.Mass == 0 {
		return 0
	}
	return e.Table.Special.Air
}

func walkCycle(e *Entity) int {
	ids := e.Table.Special.Walking
	if len(ids) == 0 {
		return 0
	}
	return ids[e.Animator.Oscillate(0, len(ids)-1)]
}

func runCycle(e *Entity) int {
	ids := e.Table.Special.Running
	if len(ids) == 0 {
		return 0
	}
	return ids[e.Animator.Oscillate(0, len(ids)-1)]
}

func landCrouch(e *Entity, ctx Context) int {
	landingDust(e, ctx)
	if e.Table.Special.Crouch != 0 {
		return e.Table.Special.Crouch
	}
	return frames.NoOp
}

func landLying(e *Entity, ctx Context) int {
	landingDust(e, ctx)
	return e.Table.Special.Lying
}

func landGeneric(e *Entity, _ Context) int {
	return 0
}

func fallGeneric(e *Entity, _ Context) int {
	switch e.State() {
	case frames.StateStanding, frames.StateWalking, frames.StateRunning,
		frames.StateAttacking, frames.StateDefending, frames.StateBroken,
		frames.StateCrouching, frames.StateInjured:
		return e.Table.Special.Air
	}
	return 0
}

func ignoreEvent(*Entity, Context) int {
	return 0
}

func landingDust(e *Entity, ctx Context) {
	kind := e.Table.Special.LandEffect
	if kind == "" || ctx.Tasks == nil {
		return
	}
	feet := e.Body.Position.Add(geom.V(0, e.Table.Hurtbox.HalfH+e.Table.Hurtbox.Offset.Y()))
	ctx.Tasks.Spawn(Spawn{
		Kind:      kind,
		Action:    e.Table.Special.LandEffectY,
		Position:  feet,
		Direction: e.Direction,
		Team:      e.Team,
		Owner:     e.Handle,
	})
}
