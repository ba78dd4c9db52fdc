// Package input turns per-tick key presses into controller snapshots.
//
// Terminals report key presses and auto-repeat but never releases, so a
// press counts as held for a few ticks and then decays. Combos are edge
// detected on the tick their final key is pressed.
package input

import "github.com/vovakirdan/tui-brawl/internal/core"

// Config tunes hold decay and combo timing, all in ticks.
type Config struct {
	HoldTicks   int // How long a press keeps an axis or button held
	ComboWindow int // Maximum age of the first key of a sequence
	TapGap      int // Minimum gap between taps of a double tap
}

// DefaultConfig suits a 30 Hz tick and typical key repeat delays.
func DefaultConfig() Config {
	return Config{HoldTicks: 6, ComboWindow: 12, TapGap: 3}
}

type press struct {
	action core.Action
	tick   int
}

// Detector tracks one player's recent input.
type Detector struct {
	cfg     Config
	tick    int
	held    map[core.Action]int
	history []press
}

// NewDetector creates a detector.
func NewDetector(cfg Config) *Detector {
	if cfg.HoldTicks <= 0 {
		cfg.HoldTicks = DefaultConfig().HoldTicks
	}
	if cfg.ComboWindow <= 0 {
		cfg.ComboWindow = DefaultConfig().ComboWindow
	}
	return &Detector{cfg: cfg, held: make(map[core.Action]int)}
}

// Reset forgets all held keys and history.
func (d *Detector) Reset() {
	d.tick = 0
	clear(d.held)
	d.history = d.history[:0]
}

var tracked = []core.Action{
	core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown,
	core.ActionAttack, core.ActionJump, core.ActionDefend,
}

// Update consumes one tick of presses. facing (+1 or -1) decides which
// horizontal direction counts as forward.
func (d *Detector) Update(in core.InputFrame, facing int) core.Controller {
	d.tick++
	for a, n := range d.held {
		if n <= 1 {
			delete(d.held, a)
		} else {
			d.held[a] = n - 1
		}
	}

	var pressed []core.Action
	for _, a := range tracked {
		if in.Has(a) {
			pressed = append(pressed, a)
		}
	}
	// Opposite directions cancel the older one.
	for _, a := range pressed {
		switch a {
		case core.ActionLeft:
			delete(d.held, core.ActionRight)
		case core.ActionRight:
			delete(d.held, core.ActionLeft)
		case core.ActionUp:
			delete(d.held, core.ActionDown)
		case core.ActionDown:
			delete(d.held, core.ActionUp)
		}
	}

	forward := core.ActionRight
	if facing < 0 {
		forward = core.ActionLeft
	}

	var combos []string
	for _, a := range pressed {
		combos = append(combos, d.combosFor(a, forward)...)
	}
	for _, a := range pressed {
		d.held[a] = d.cfg.HoldTicks
		d.history = append(d.history, press{action: a, tick: d.tick})
	}
	d.trim()

	ctrl := core.Controller{
		Attack: d.held[core.ActionAttack] > 0,
		Jump:   d.held[core.ActionJump] > 0,
		Defend: d.held[core.ActionDefend] > 0,
		Combos: combos,
	}
	if d.held[core.ActionRight] > 0 {
		ctrl.X = 1
	} else if d.held[core.ActionLeft] > 0 {
		ctrl.X = -1
	}
	if d.held[core.ActionDown] > 0 {
		ctrl.Y = 1
	} else if d.held[core.ActionUp] > 0 {
		ctrl.Y = -1
	}
	return ctrl
}

func (d *Detector) combosFor(a, forward core.Action) []string {
	switch a {
	case core.ActionAttack:
		var out []string
		if d.sequence(core.ActionDefend, forward) {
			out = append(out, core.ComboSpecialShot)
		}
		if d.held[core.ActionDown] > 0 {
			out = append(out, core.ComboDownAttack)
		}
		if d.held[forward] > 0 {
			out = append(out, core.ComboForwardAttack)
		}
		return append(out, core.ComboAttack)
	case core.ActionJump:
		var out []string
		if d.sequence(core.ActionDefend, core.ActionUp) {
			out = append(out, core.ComboSpecialRise)
		}
		if d.held[forward] > 0 {
			out = append(out, core.ComboForwardJump)
		}
		return append(out, core.ComboJump)
	case core.ActionDefend:
		return []string{core.ComboDefend}
	case forward:
		if d.doubleTap(forward) {
			return []string{core.ComboDashForward}
		}
	}
	return nil
}

// sequence reports whether first and then second were pressed, in that
// order, within the combo window.
func (d *Detector) sequence(first, second core.Action) bool {
	stage := 0
	for _, p := range d.history {
		if d.tick-p.tick > d.cfg.ComboWindow {
			continue
		}
		switch {
		case stage == 0 && p.action == first:
			stage = 1
		case stage == 1 && p.action == second:
			stage = 2
		}
	}
	return stage == 2
}

// doubleTap reports whether a was last pressed long enough ago to be a
// separate tap rather than key repeat, but within the combo window.
func (d *Detector) doubleTap(a core.Action) bool {
	for i := len(d.history) - 1; i >= 0; i-- {
		p := d.history[i]
		if p.action != a {
			continue
		}
		gap := d.tick - p.tick
		return gap >= d.cfg.TapGap && gap <= d.cfg.ComboWindow
	}
	return false
}

func (d *Detector) trim() {
	keep := d.history[:0]
	for _, p := range d.history {
		if d.tick-p.tick <= d.cfg.ComboWindow {
			keep = append(keep, p)
		}
	}
	d.history = keep
}
