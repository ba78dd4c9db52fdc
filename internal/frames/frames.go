// Package frames holds the per-kind frame tables that drive entity state
// machines, plus the loaders that read them.
package frames

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-brawl/internal/frames/formats"
	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// Frame id sentinels.
const (
	// NoOp is the "return to the idle frame" target. It translates to 0.
	NoOp = 999
	// Destroy asks the scene to remove the entity.
	Destroy = 1000
)

// Translate maps a raw transition target to the frame it names.
func Translate(id int) int {
	if id == NoOp {
		return 0
	}
	return id
}

// StateID groups frames that share behavior.
type StateID int

const (
	StateStanding   StateID = 0
	StateWalking    StateID = 1
	StateRunning    StateID = 2
	StateAttacking  StateID = 3
	StateJumping    StateID = 4
	StateDashing    StateID = 5
	StateDefending  StateID = 7
	StateBroken     StateID = 8
	StateInjured    StateID = 11
	StateFalling    StateID = 12
	StateLying      StateID = 14
	StateCrouching  StateID = 15
	StateEffect     StateID = 1000
	StateProjectile StateID = 3000
)

var stateNames = map[string]StateID{
	"standing":   StateStanding,
	"walking":    StateWalking,
	"running":    StateRunning,
	"attacking":  StateAttacking,
	"jumping":    StateJumping,
	"dashing":    StateDashing,
	"defending":  StateDefending,
	"broken":     StateBroken,
	"injured":    StateInjured,
	"falling":    StateFalling,
	"lying":      StateLying,
	"crouching":  StateCrouching,
	"effect":     StateEffect,
	"projectile": StateProjectile,
}

// ParseState resolves a state name from a frame table file.
func ParseState(name string) (StateID, error) {
	if s, ok := stateNames[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

func (s StateID) String() string {
	for name, id := range stateNames {
		if id == s {
			return name
		}
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Hit is an attack box active while its frame is shown.
type Hit struct {
	Box    geom.Shape
	Damage int
	DVX    float64
	DVY    float64
	Fall   bool
	Rest   int
}

// ObjectPoint spawns another entity when its frame is entered.
type ObjectPoint struct {
	Kind   string
	Action int
	Offset geom.Vec2
	DVX    float64
	DVY    float64
	Facing int
}

// FrameData is the immutable description of one frame.
type FrameData struct {
	ID     int
	Sprite int
	Wait   int
	Next   int
	State  StateID
	Combos map[string]int
	DVX    float64
	DVY    float64
	Hit    *Hit
	OPoint *ObjectPoint
}

// Effect is a velocity change applied on a (from, to) frame transition.
type Effect = formats.Effect

// Moves and Special are read by behaviors as-is.
type (
	Moves   = formats.Moves
	Special = formats.Special
)

type transition struct{ from, to int }

// Table is one entity kind's complete frame description.
type Table struct {
	Kind              string
	Name              string
	HP                int
	Mass              float64
	Poolable          bool
	IgnorePassthrough bool
	Hurtbox           geom.Shape
	Hull              geom.Shape
	Moves             Moves
	Special           Special
	Sprites           map[int][]string
	Frames            map[int]*FrameData

	effects map[transition]Effect
}

// Frame returns the frame with the given id.
func (t *Table) Frame(id int) (*FrameData, bool) {
	f, ok := t.Frames[id]
	return f, ok
}

// MustFrame returns the frame or panics. Tables are validated at load time,
// so a miss here is a broken invariant.
func (t *Table) MustFrame(id int) *FrameData {
	f, ok := t.Frames[id]
	if !ok {
		panic(fmt.Sprintf("frames: %s: dangling frame id %d", t.Kind, id))
	}
	return f
}

// Effect returns the effect registered for the transition. An exact (from, to)
// entry wins over an any-source entry.
func (t *Table) Effect(from, to int) (Effect, bool) {
	if e, ok := t.effects[transition{from, to}]; ok {
		return e, true
	}
	e, ok := t.effects[transition{formats.AnyFrame, to}]
	return e, ok
}

// FrameIDs returns the frame ids in ascending order.
func (t *Table) FrameIDs() []int {
	ids := make([]int, 0, len(t.Frames))
	for id := range t.Frames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// FromDocument builds a table from its file form. It checks shapes and state
// names but not references; call Validate for those.
func FromDocument(doc formats.Document) (*Table, error) {
	if doc.Kind == "" {
		return nil, fmt.Errorf("frames: missing kind")
	}
	hurt, err := doc.Hurtbox.Build()
	if err != nil {
		return nil, fmt.Errorf("frames: %s: hurtbox: %w", doc.Kind, err)
	}
	hull, err := doc.Hull.Build()
	if err != nil {
		return nil, fmt.Errorf("frames: %s: hull: %w", doc.Kind, err)
	}
	t := &Table{
		Kind:              doc.Kind,
		Name:              doc.Name,
		HP:                doc.HP,
		Mass:              doc.Mass,
		Poolable:          doc.Poolable,
		IgnorePassthrough: doc.IgnorePassthrough,
		Hurtbox:           hurt,
		Hull:              hull,
		Moves:             doc.Moves,
		Special:           doc.Special,
		Sprites:           doc.Sprites,
		Frames:            make(map[int]*FrameData, len(doc.Frames)),
		effects:           make(map[transition]Effect, len(doc.Effects)),
	}
	if t.Name == "" {
		t.Name = t.Kind
	}
	for id, f := range doc.Frames {
		state, err := ParseState(f.State)
		if err != nil {
			return nil, fmt.Errorf("frames: %s: frame %d: %w", doc.Kind, id, err)
		}
		fd := &FrameData{
			ID:     id,
			Sprite: f.Sprite,
			Wait:   f.Wait,
			Next:   f.Next,
			State:  state,
			Combos: f.Combos,
			DVX:    f.DVX,
			DVY:    f.DVY,
		}
		if f.Hit != nil {
			box, err := f.Hit.Box.Build()
			if err != nil {
				return nil, fmt.Errorf("frames: %s: frame %d: hit box: %w", doc.Kind, id, err)
			}
			fd.Hit = &Hit{
				Box:    box,
				Damage: f.Hit.Damage,
				DVX:    f.Hit.DVX,
				DVY:    f.Hit.DVY,
				Fall:   f.Hit.Fall,
				Rest:   f.Hit.Rest,
			}
		}
		if o := f.OPoint; o != nil {
			facing := o.Facing
			if facing == 0 {
				facing = 1
			}
			fd.OPoint = &ObjectPoint{
				Kind:   o.Kind,
				Action: o.Action,
				Offset: geom.V(o.X, o.Y),
				DVX:    o.DVX,
				DVY:    o.DVY,
				Facing: facing,
			}
		}
		t.Frames[id] = fd
	}
	for _, e := range doc.Effects {
		t.effects[transition{e.From, e.To}] = e
	}
	return t, nil
}

// Document converts the table back to its file form.
func (t *Table) Document() formats.Document {
	doc := formats.Document{
		Kind:              t.Kind,
		Name:              t.Name,
		HP:                t.HP,
		Mass:              t.Mass,
		Poolable:          t.Poolable,
		IgnorePassthrough: t.IgnorePassthrough,
		Hurtbox:           t.Hurtbox.Spec(),
		Hull:              t.Hull.Spec(),
		Moves:             t.Moves,
		Special:           t.Special,
		Sprites:           t.Sprites,
		Frames:            make(map[int]formats.Frame, len(t.Frames)),
	}
	for id, f := range t.Frames {
		out := formats.Frame{
			Sprite: f.Sprite,
			Wait:   f.Wait,
			Next:   f.Next,
			State:  f.State.String(),
			Combos: f.Combos,
			DVX:    f.DVX,
			DVY:    f.DVY,
		}
		if f.Hit != nil {
			out.Hit = &formats.Hit{
				Box:    f.Hit.Box.Spec(),
				Damage: f.Hit.Damage,
				DVX:    f.Hit.DVX,
				DVY:    f.Hit.DVY,
				Fall:   f.Hit.Fall,
				Rest:   f.Hit.Rest,
			}
		}
		if o := f.OPoint; o != nil {
			out.OPoint = &formats.OPoint{
				Kind:   o.Kind,
				Action: o.Action,
				X:      o.Offset.X(),
				Y:      o.Offset.Y(),
				DVX:    o.DVX,
				DVY:    o.DVY,
				Facing: o.Facing,
			}
		}
		doc.Frames[id] = out
	}
	keys := make([]transition, 0, len(t.effects))
	for k := range t.effects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})
	for _, k := range keys {
		doc.Effects = append(doc.Effects, t.effects[k])
	}
	return doc
}
