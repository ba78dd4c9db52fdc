// Package ai drives computer-controlled fighters with Lua scripts.
//
// A script defines a global think(view) function. The CPU calls it once per
// reaction interval and feeds the returned key presses, one step per tick,
// into the same input path a human player uses.
package ai

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

//go:embed scripts/default.lua
var defaultScript string

// Fighter is the part of a fighter's pose a script may read.
type Fighter struct {
	X, Y      float64
	VX, VY    float64
	HP        int
	State     string
	Facing    int
	Grounded  bool
	Attacking bool
}

// View is what the CPU sees on a tick.
type View struct {
	Tick  int
	Self  Fighter
	Foe   Fighter
	Width float64
}

// CPU is a scripted opponent. It is not safe for concurrent use.
type CPU struct {
	l      *lua.LState
	think  *lua.LFunction
	diff   *config.DifficultyManager
	rng    *rand.Rand
	base   float64
	wait   int
	queue  []core.InputFrame
	hold   core.InputFrame
	damage int
}

// New compiles script and returns a CPU seeded with seed. base is the
// aggression before difficulty scaling.
func New(script string, diff *config.DifficultyManager, base float64, seed int64) (*CPU, error) {
	l := lua.NewState()
	l.OpenLibs()
	c := &CPU{
		l:    l,
		diff: diff,
		rng:  rand.New(rand.NewSource(seed)),
		base: base,
	}
	l.Register("chance", c.luaChance)

	if err := l.DoString(script); err != nil {
		l.Close()
		return nil, fmt.Errorf("ai: load script: %w", err)
	}
	fn, ok := l.GetGlobal("think").(*lua.LFunction)
	if !ok {
		l.Close()
		return nil, fmt.Errorf("ai: script does not define think(view)")
	}
	c.think = fn
	return c, nil
}

// NewDefault returns a CPU running the built-in script.
func NewDefault(diff *config.DifficultyManager, seed int64) *CPU {
	c, err := New(defaultScript, diff, 0.4, seed)
	if err != nil {
		panic(err) // embedded script is compiled by the tests
	}
	return c
}

// Load reads a script from disk.
func Load(path string, diff *config.DifficultyManager, seed int64) (*CPU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ai: %w", err)
	}
	return New(string(data), diff, 0.4, seed)
}

// Close releases the Lua state.
func (c *CPU) Close() {
	c.l.Close()
}

// AddDamage records damage the CPU dealt, which drives damage-based
// difficulty progression.
func (c *CPU) AddDamage(n int) {
	c.damage += n
}

// Reset clears pending steps and damage for a new round.
func (c *CPU) Reset() {
	c.wait = 0
	c.queue = c.queue[:0]
	c.hold = core.InputFrame{}
	c.damage = 0
}

// Aggression returns the current attack probability.
func (c *CPU) Aggression(tick int) float64 {
	if c.diff == nil {
		return c.base
	}
	return c.diff.Aggression(c.base, c.damage, tick)
}

func (c *CPU) reaction(tick int) int {
	if c.diff == nil {
		return 1
	}
	return c.diff.ReactionTicks(c.damage, tick)
}

// Next returns the key presses for this tick. Between decisions the CPU
// keeps pressing the directions of its last step, like a held key would
// auto-repeat.
func (c *CPU) Next(v View) (core.InputFrame, error) {
	if len(c.queue) == 0 {
		if c.wait > 0 {
			c.wait--
			return c.hold.Clone(), nil
		}
		steps, err := c.call(v)
		if err != nil {
			return core.InputFrame{}, err
		}
		c.queue = steps
		c.wait = c.reaction(v.Tick)
	}
	if len(c.queue) == 0 {
		c.hold = core.InputFrame{}
		return core.InputFrame{}, nil
	}

	in := c.queue[0]
	c.queue = c.queue[1:]
	c.hold = core.InputFrame{}
	for _, a := range []core.Action{core.ActionLeft, core.ActionRight, core.ActionDown} {
		if in.Has(a) {
			c.hold.Set(a)
		}
	}
	return in, nil
}

func (c *CPU) call(v View) ([]core.InputFrame, error) {
	top := c.l.GetTop()
	defer c.l.SetTop(top)

	err := c.l.CallByParam(lua.P{Fn: c.think, NRet: 1, Protect: true}, c.viewTable(v))
	if err != nil {
		return nil, fmt.Errorf("ai: think: %w", err)
	}
	ret := c.l.Get(-1)
	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("ai: think returned %s, expected table", ret.Type())
	}

	var steps []core.InputFrame
	var stepErr error
	tbl.ForEach(func(_, value lua.LValue) {
		if stepErr != nil {
			return
		}
		in, err := parseStep(lua.LVAsString(value))
		if err != nil {
			stepErr = err
			return
		}
		steps = append(steps, in)
	})
	return steps, stepErr
}

// parseStep turns "right+attack" into an input frame. An empty step is a
// tick with no presses.
func parseStep(s string) (core.InputFrame, error) {
	var in core.InputFrame
	for _, name := range strings.Split(s, "+") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, ok := core.ParseAction(name)
		if !ok {
			return in, fmt.Errorf("ai: unknown action %q", name)
		}
		in.Set(a)
	}
	return in, nil
}

func (c *CPU) viewTable(v View) *lua.LTable {
	t := c.l.NewTable()
	t.RawSetString("tick", lua.LNumber(v.Tick))
	t.RawSetString("width", lua.LNumber(v.Width))
	t.RawSetString("aggression", lua.LNumber(c.Aggression(v.Tick)))
	t.RawSetString("self", c.fighterTable(v.Self))
	t.RawSetString("foe", c.fighterTable(v.Foe))
	return t
}

func (c *CPU) fighterTable(f Fighter) *lua.LTable {
	t := c.l.NewTable()
	t.RawSetString("x", lua.LNumber(f.X))
	t.RawSetString("y", lua.LNumber(f.Y))
	t.RawSetString("vx", lua.LNumber(f.VX))
	t.RawSetString("vy", lua.LNumber(f.VY))
	t.RawSetString("hp", lua.LNumber(f.HP))
	t.RawSetString("state", lua.LString(f.State))
	t.RawSetString("facing", lua.LNumber(f.Facing))
	t.RawSetString("grounded", lua.LBool(f.Grounded))
	t.RawSetString("attacking", lua.LBool(f.Attacking))
	return t
}

func (c *CPU) luaChance(l *lua.LState) int {
	p, ok := l.Get(1).(lua.LNumber)
	if !ok {
		l.RaiseError("chance: argument is not a number: %v", l.Get(1))
	}
	l.Push(lua.LBool(c.rng.Float64() < float64(p)))
	return 1
}
