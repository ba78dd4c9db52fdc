package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
)

func view(selfX, foeX float64) View {
	return View{
		Tick:  1,
		Width: 320,
		Self:  Fighter{X: selfX, Y: 160, HP: 100, State: "standing", Facing: 1, Grounded: true},
		Foe:   Fighter{X: foeX, Y: 160, HP: 100, State: "standing", Facing: -1, Grounded: true},
	}
}

func TestDefaultScriptWalksTowardFoe(t *testing.T) {
	c := NewDefault(nil, 1)
	defer c.Close()

	in, err := c.Next(view(40, 200))
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !in.Has(core.ActionRight) {
		t.Errorf("Next() = %v, expected right toward foe", in.Actions)
	}

	c.Reset()
	in, err = c.Next(view(200, 90))
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !in.Has(core.ActionLeft) {
		t.Errorf("Next() = %v, expected left toward foe", in.Actions)
	}
}

func TestStepsPlayOneTickEach(t *testing.T) {
	script := `function think(v) return {"defend", "right", "attack"} end`
	c, err := New(script, nil, 0, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	expected := []core.Action{core.ActionDefend, core.ActionRight, core.ActionAttack}
	for i, a := range expected {
		in, err := c.Next(view(0, 10))
		if err != nil {
			t.Fatal(err)
		}
		if !in.Has(a) || len(in.Actions) != 1 {
			t.Errorf("step %d = %v, expected only %v", i, in.Actions, a)
		}
	}
}

func TestHoldsDirectionUntilNextDecision(t *testing.T) {
	script := `
calls = 0
function think(v)
  calls = calls + 1
  return {"right+attack"}
end`
	diff := config.NewDifficultyManager(config.DifficultyConfig{
		Scaling: config.ScalingConfig{ReactionTicks: 3, MinReaction: 1},
	})
	c, err := New(script, diff, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	first, _ := c.Next(view(0, 10))
	if !first.Has(core.ActionAttack) || !first.Has(core.ActionRight) {
		t.Fatalf("first = %v, expected right+attack", first.Actions)
	}
	for i := 0; i < 3; i++ {
		in, _ := c.Next(view(0, 10))
		if !in.Has(core.ActionRight) || in.Has(core.ActionAttack) {
			t.Errorf("tick %d = %v, expected held right only", i, in.Actions)
		}
	}
	if n := c.l.GetGlobal("calls"); n.String() != "1" {
		t.Errorf("calls = %v, expected 1 before reaction elapses", n)
	}
	c.Next(view(0, 10))
	if n := c.l.GetGlobal("calls"); n.String() != "2" {
		t.Errorf("calls = %v, expected 2 after reaction", n)
	}
}

func TestSeededChanceIsDeterministic(t *testing.T) {
	script := `
function think(v)
  if chance(0.5) then return {"attack"} end
  return {"jump"}
end`
	run := func() []bool {
		c, err := New(script, nil, 0, 42)
		if err != nil {
			t.Fatal(err)
		}
		defer c.Close()
		var out []bool
		for i := 0; i < 20; i++ {
			in, _ := c.Next(view(0, 10))
			out = append(out, in.Has(core.ActionAttack))
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run diverged at %d", i)
		}
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"syntax", "function think(v"},
		{"missing think", "x = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.script, nil, 0, 1); err == nil {
				t.Error("New() expected error")
			}
		})
	}

	runtime := []struct {
		name   string
		script string
	}{
		{"raises", `function think(v) error("boom") end`},
		{"bad return", `function think(v) return 5 end`},
		{"bad action", `function think(v) return {"fly"} end`},
	}
	for _, tt := range runtime {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.script, nil, 0, 1)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			if _, err := c.Next(view(0, 10)); err == nil {
				t.Error("Next() expected error")
			}
		})
	}
}

func TestAggressionScalesWithDamage(t *testing.T) {
	diff := config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:     true,
		Progression: config.ProgressionConfig{Type: "damage", MaxAt: 100},
		Scaling:     config.ScalingConfig{ReactionTicks: 10, MinReaction: 2, Aggression: 0.5},
	})
	c := NewDefault(diff, 1)
	defer c.Close()

	if got := c.Aggression(0); got != 0.4 {
		t.Errorf("Aggression() = %v, expected 0.4", got)
	}
	c.AddDamage(100)
	if got := c.Aggression(0); got != 0.9 {
		t.Errorf("Aggression() = %v, expected 0.9", got)
	}
	c.Reset()
	if got := c.Aggression(0); got != 0.4 {
		t.Errorf("Aggression() after Reset = %v, expected 0.4", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.lua")
	if err := os.WriteFile(path, []byte(`function think(v) return {} end`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, nil, 1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer c.Close()
	in, err := c.Next(view(0, 10))
	if err != nil || len(in.Actions) != 0 {
		t.Errorf("Next() = %v, %v, expected no presses", in.Actions, err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.lua"), nil, 1); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
