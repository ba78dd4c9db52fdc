package frames

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-brawl/internal/frames/formats"
)

// Validate checks that every reference inside the table resolves. All
// problems are reported together.
func (t *Table) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{t.Kind}, args...)...))
	}
	target := func(id int) bool {
		if id == Destroy {
			return true
		}
		_, ok := t.Frames[Translate(id)]
		return ok
	}

	if len(t.Frames) == 0 {
		bad("no frames")
	} else if _, ok := t.Frames[0]; !ok {
		bad("frame 0 does not exist")
	}
	if t.Mass < 0 {
		bad("negative mass %v", t.Mass)
	}
	for _, id := range t.FrameIDs() {
		f := t.Frames[id]
		if id == NoOp || id == Destroy {
			bad("frame %d uses a reserved id", id)
		}
		if f.Wait < 0 {
			bad("frame %d: negative wait %d", id, f.Wait)
		}
		if f.Next != 0 && !target(f.Next) {
			bad("frame %d: next %d does not exist", id, f.Next)
		}
		for _, name := range sortedNames(f.Combos) {
			if to := f.Combos[name]; !target(to) {
				bad("frame %d: combo %s target %d does not exist", id, name, to)
			}
		}
		rows, ok := t.Sprites[f.Sprite]
		if !ok || len(rows) == 0 {
			bad("frame %d: sprite %d is not defined", id, f.Sprite)
		}
	}

	keys := make([]transition, 0, len(t.effects))
	for k := range t.effects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].from < keys[j].from || keys[i].from == keys[j].from && keys[i].to < keys[j].to
	})
	for _, k := range keys {
		if k.from != formats.AnyFrame {
			if _, ok := t.Frames[k.from]; !ok {
				bad("effect %d->%d: source frame does not exist", k.from, k.to)
			}
		}
		if _, ok := t.Frames[k.to]; !ok {
			bad("effect %d->%d: target frame does not exist", k.from, k.to)
		}
	}

	sp := t.Special
	named := map[string]int{
		"stop_run":   sp.StopRun,
		"air":        sp.Air,
		"crouch":     sp.Crouch,
		"injured":    sp.Injured,
		"fall":       sp.Fall,
		"lying":      sp.Lying,
		"defend_hit": sp.DefendHit,
	}
	for _, name := range sortedNames(named) {
		if id := named[name]; id != 0 && !target(id) {
			bad("special %s frame %d does not exist", name, id)
		}
	}
	for _, id := range sp.Walking {
		if !target(id) {
			bad("special walking frame %d does not exist", id)
		}
	}
	for _, id := range sp.Running {
		if !target(id) {
			bad("special running frame %d does not exist", id)
		}
	}
	return errors.Join(errs...)
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
