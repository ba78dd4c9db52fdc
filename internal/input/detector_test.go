package input

import (
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestHoldDecays(t *testing.T) {
	d := NewDetector(Config{HoldTicks: 3, ComboWindow: 10, TapGap: 2})
	c := d.Update(frame(core.ActionLeft), 1)
	if c.X != -1 {
		t.Fatalf("X = %d, expected -1", c.X)
	}
	for i := 0; i < 2; i++ {
		if c = d.Update(frame(), 1); c.X != -1 {
			t.Errorf("tick %d: X = %d, expected held -1", i, c.X)
		}
	}
	if c = d.Update(frame(), 1); c.X != 0 {
		t.Errorf("X = %d, expected released", c.X)
	}
}

func TestOppositeDirectionReplaces(t *testing.T) {
	d := NewDetector(DefaultConfig())
	d.Update(frame(core.ActionLeft), 1)
	if c := d.Update(frame(core.ActionRight), 1); c.X != 1 {
		t.Errorf("X = %d, expected 1", c.X)
	}
}

func TestCombosAreEdgeDetected(t *testing.T) {
	d := NewDetector(DefaultConfig())
	c := d.Update(frame(core.ActionAttack), 1)
	if !c.HasCombo(core.ComboAttack) || !c.Attack {
		t.Fatalf("controller = %+v, expected hit_a and Attack held", c)
	}
	c = d.Update(frame(), 1)
	if len(c.Combos) != 0 {
		t.Errorf("Combos = %v, expected none without a new press", c.Combos)
	}
	if !c.Attack {
		t.Error("Attack should still be held")
	}
}

func TestForwardAttackDependsOnFacing(t *testing.T) {
	d := NewDetector(DefaultConfig())
	d.Update(frame(core.ActionLeft), -1)
	c := d.Update(frame(core.ActionAttack), -1)
	if len(c.Combos) < 2 || c.Combos[0] != core.ComboForwardAttack || c.Combos[1] != core.ComboAttack {
		t.Errorf("Combos = %v, expected [hit_Fa hit_a]", c.Combos)
	}

	d.Reset()
	d.Update(frame(core.ActionLeft), 1)
	c = d.Update(frame(core.ActionAttack), 1)
	if c.HasCombo(core.ComboForwardAttack) {
		t.Error("holding back should not produce hit_Fa")
	}
}

func TestSpecialSequences(t *testing.T) {
	d := NewDetector(DefaultConfig())
	d.Update(frame(core.ActionDefend), 1)
	d.Update(frame(core.ActionRight), 1)
	c := d.Update(frame(core.ActionAttack), 1)
	if len(c.Combos) == 0 || c.Combos[0] != core.ComboSpecialShot {
		t.Errorf("Combos = %v, expected hit_DFa first", c.Combos)
	}

	d.Reset()
	d.Update(frame(core.ActionDefend), 1)
	d.Update(frame(core.ActionUp), 1)
	c = d.Update(frame(core.ActionJump), 1)
	if len(c.Combos) == 0 || c.Combos[0] != core.ComboSpecialRise {
		t.Errorf("Combos = %v, expected hit_DUj first", c.Combos)
	}
}

func TestSequenceExpires(t *testing.T) {
	d := NewDetector(Config{HoldTicks: 2, ComboWindow: 4, TapGap: 2})
	d.Update(frame(core.ActionDefend), 1)
	d.Update(frame(core.ActionRight), 1)
	for i := 0; i < 5; i++ {
		d.Update(frame(), 1)
	}
	c := d.Update(frame(core.ActionAttack), 1)
	if c.HasCombo(core.ComboSpecialShot) {
		t.Error("stale sequence should not fire")
	}
}

func TestDoubleTapIgnoresKeyRepeat(t *testing.T) {
	d := NewDetector(DefaultConfig())
	for i := 0; i < 5; i++ {
		if c := d.Update(frame(core.ActionRight), 1); c.HasCombo(core.ComboDashForward) {
			t.Fatalf("repeat %d produced hit_FF", i)
		}
	}

	d.Reset()
	d.Update(frame(core.ActionRight), 1)
	d.Update(frame(), 1)
	d.Update(frame(), 1)
	d.Update(frame(), 1)
	if c := d.Update(frame(core.ActionRight), 1); !c.HasCombo(core.ComboDashForward) {
		t.Errorf("Combos = %v, expected hit_FF", c.Combos)
	}
}
