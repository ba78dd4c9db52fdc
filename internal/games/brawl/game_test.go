package brawl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brawl.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newGame(t *testing.T, mode Mode, rc core.RuntimeConfig) *Game {
	t.Helper()
	if rc.TickRate == 0 {
		rc.TickRate = 30
	}
	if rc.ConfigPath == "" {
		rc.ConfigPath = writeConfig(t, "round:\n  ticks: 2700\n")
	}
	g := New(mode)
	if err := g.Reset(rc); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func idle(g *Game, ticks int) {
	for i := 0; i < ticks; i++ {
		g.Step(core.NewMultiInputFrame())
	}
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"versus", "duel", "training"} {
		if !registry.Exists(id) {
			t.Errorf("mode %q not registered", id)
		}
	}
	g, err := registry.Create("versus")
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Versus CPU" {
		t.Errorf("Title() = %q, expected Versus CPU", g.Title())
	}
}

func TestResetErrors(t *testing.T) {
	tests := []struct {
		name string
		rc   core.RuntimeConfig
	}{
		{"difficulty", core.RuntimeConfig{Difficulty: "nightmare"}},
		{"unknown fighter", core.RuntimeConfig{P1: "nobody"}},
		{"effect as fighter", core.RuntimeConfig{P2: "spark"}},
		{"missing script", core.RuntimeConfig{ScriptPath: "/nonexistent/cpu.lua"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rc.ConfigPath = writeConfig(t, "round:\n  ticks: 100\n")
			g := New(ModeVersus)
			defer g.Close()
			if err := g.Reset(tt.rc); err == nil {
				t.Error("Reset() expected error")
			}
		})
	}
}

func TestFightersLand(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{})
	idle(g, 60)

	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		e := g.Fighter(id)
		if !e.Body.Grounded {
			t.Errorf("%v not grounded after 60 ticks", id)
		}
		_, bottom := geom.Project(e.Body.Hurtbox(), geom.Down)
		if bottom < 166 || bottom > 168.5 {
			t.Errorf("%v bottom = %v, expected on the floor at 168", id, bottom)
		}
	}
	if g.Fighter(core.Player1).Direction != 1 || g.Fighter(core.Player2).Direction != -1 {
		t.Error("fighters expected to face each other")
	}
}

func TestDuelPunchConnects(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{P2: "brawler"})
	idle(g, 60)

	p1, p2 := g.Fighter(core.Player1), g.Fighter(core.Player2)
	p2.Body.Position[0] = p1.Body.Position.X() + 12

	in := core.NewMultiInputFrame()
	in.Set(core.Player1, core.ActionAttack)
	hits := g.Step(in).Hits
	for i := 0; i < 10; i++ {
		hits += g.Step(core.NewMultiInputFrame()).Hits
	}

	if hits != 1 {
		t.Fatalf("hits = %d, expected 1", hits)
	}
	if p2.HP != 92 {
		t.Errorf("P2 HP = %d, expected 92", p2.HP)
	}
	if g.damage[0] != 8 {
		t.Errorf("damage dealt by P1 = %d, expected 8", g.damage[0])
	}
}

func TestKOEndsMatch(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{Seed: 5})
	idle(g, 5)
	g.Fighter(core.Player2).HP = 0

	res := g.Step(core.NewMultiInputFrame())
	if !res.State.GameOver || res.State.Winner != core.Player1 {
		t.Fatalf("State = %+v, expected P1 win", res.State)
	}

	sum := g.Summary()
	if sum.EndReason != core.EndKO || sum.Winner != core.Player1 || sum.Ticks != 6 || sum.Seed != 5 {
		t.Errorf("Summary() = %+v", sum)
	}
	if sum.P1Kind != "brawler" || sum.P2Kind != "kunoichi" {
		t.Errorf("Summary() kinds = %s vs %s", sum.P1Kind, sum.P2Kind)
	}

	before := g.Snapshot().Tick
	g.Step(core.NewMultiInputFrame())
	if g.Snapshot().Tick != before {
		t.Error("Step() after game over advanced the match")
	}
}

func TestTimeoutDecidesByHP(t *testing.T) {
	path := writeConfig(t, "round:\n  ticks: 10\n")

	g := newGame(t, ModeDuel, core.RuntimeConfig{ConfigPath: path, P2: "brawler"})
	idle(g, 10)
	if st := g.State(); !st.GameOver || st.Winner != 0 {
		t.Errorf("State = %+v, expected draw on time", st)
	}
	if g.Summary().EndReason != core.EndTimeout {
		t.Errorf("EndReason = %q, expected timeout", g.Summary().EndReason)
	}

	g = newGame(t, ModeDuel, core.RuntimeConfig{ConfigPath: path, P2: "brawler"})
	idle(g, 5)
	g.Fighter(core.Player1).HP = 50
	idle(g, 5)
	if st := g.State(); !st.GameOver || st.Winner != core.Player2 {
		t.Errorf("State = %+v, expected P2 win on time", st)
	}
}

func TestTrainingNeverEnds(t *testing.T) {
	g := newGame(t, ModeTraining, core.RuntimeConfig{})
	if g.Remaining() != -1 {
		t.Errorf("Remaining() = %d, expected untimed", g.Remaining())
	}

	g.Fighter(core.Player2).HP = 0
	g.Fighter(core.Player1).HP = 40
	idle(g, 30)

	if g.State().GameOver {
		t.Fatal("training match ended")
	}
	if hp := g.Fighter(core.Player2).HP; hp != 85 {
		t.Errorf("dummy HP = %d, expected refilled to 85", hp)
	}
	if hp := g.Fighter(core.Player1).HP; hp != 45 {
		t.Errorf("P1 HP = %d, expected 40 + 5 regen", hp)
	}
	if g.Fighter(core.Player2).Player != 0 {
		t.Error("training dummy expected no controller")
	}
}

func TestPauseToggles(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{})
	pause := core.NewMultiInputFrame()
	pause.Set(core.Player1, core.ActionPause)

	g.Step(pause)
	idle(g, 5)
	if !g.State().Paused || g.Snapshot().Tick != 0 {
		t.Errorf("paused game advanced to tick %d", g.Snapshot().Tick)
	}
	g.Step(pause)
	if g.State().Paused || g.Snapshot().Tick != 1 {
		t.Errorf("unpaused tick = %d, expected 1", g.Snapshot().Tick)
	}
}

func TestVersusIsDeterministic(t *testing.T) {
	run := func() string {
		g := newGame(t, ModeVersus, core.RuntimeConfig{Seed: 11})
		in := core.NewMultiInputFrame()
		for i := 0; i < 300; i++ {
			in.Clear()
			if i%40 == 0 {
				in.Set(core.Player1, core.ActionRight)
			}
			g.Step(in)
		}
		return g.Snapshot().Digest()
	}

	a, b := run(), run()
	if a == "" || a != b {
		t.Errorf("digests %q and %q, expected equal and non-empty", a, b)
	}
}

func TestCPUMoves(t *testing.T) {
	g := newGame(t, ModeVersus, core.RuntimeConfig{Seed: 3})
	start := g.Fighter(core.Player2).Body.Position.X()
	idle(g, 90)
	if x := g.Fighter(core.Player2).Body.Position.X(); x >= start {
		t.Errorf("CPU x = %v, expected to advance left from %v", x, start)
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{})
	idle(g, 60)

	dst := core.NewScreen(80, 24)
	g.Render(dst)

	if !strings.Contains(dst.Row(0), "P1 Brawler") || !strings.Contains(dst.Row(0), "P2 Kunoichi") {
		t.Errorf("HUD row = %q", dst.Row(0))
	}
	if dst.Get(0, 23) != SolidChar || dst.Get(79, 23) != SolidChar {
		t.Errorf("floor row = %q", dst.Row(23))
	}
	if dst.Get(16, 15) != LedgeChar {
		t.Errorf("ledge row = %q", dst.Row(15))
	}

	found := false
	for x := 17; x <= 23; x++ {
		if c := dst.GetCell(x, 22); c.Rune != ' ' && c.Color == core.ColorBrightCyan {
			found = true
		}
	}
	if !found {
		t.Errorf("P1 sprite not found above the floor: %q", dst.Row(22))
	}
	if c := dst.GetCell(1, 1); c.Rune != HPFullChar {
		t.Errorf("HP bar cell = %q, expected full", c.Rune)
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newGame(t, ModeDuel, core.RuntimeConfig{})
	g.Fighter(core.Player1).HP = 0
	g.Step(core.NewMultiInputFrame())

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	if !strings.Contains(dst.String(), "Kunoichi WINS!") {
		t.Errorf("game over screen missing winner:\n%s", dst.String())
	}
}

func TestHPBar(t *testing.T) {
	tests := []struct {
		hp, maxHP, filled int
	}{
		{100, 100, 20},
		{0, 100, 0},
		{1, 100, 1},
		{50, 100, 10},
		{10, 0, 0},
	}
	for _, tt := range tests {
		n := 0
		for _, full := range hpBar(tt.hp, tt.maxHP) {
			if full {
				n++
			}
		}
		if n != tt.filled {
			t.Errorf("hpBar(%d, %d) = %d filled, expected %d", tt.hp, tt.maxHP, n, tt.filled)
		}
	}
}
