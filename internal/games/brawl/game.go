// Package brawl implements the fighting game modes on top of the scene
// kernel: local versus against a scripted CPU, a two-player duel on one
// keyboard, and a training room with a passive dummy.
package brawl

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-brawl/internal/ai"
	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/input"
	"github.com/vovakirdan/tui-brawl/internal/physics"
	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/scene"
)

// Mode selects who controls the second fighter.
type Mode string

const (
	ModeVersus   Mode = "versus"   // P2 is the CPU
	ModeDuel     Mode = "duel"     // P2 is a second local player
	ModeTraining Mode = "training" // P2 is an idle dummy, nobody can lose
)

var titles = map[Mode]string{
	ModeVersus:   "Versus CPU",
	ModeDuel:     "Local Duel",
	ModeTraining: "Training",
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes match and scene logs to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// Game is one fighting game mode.
type Game struct {
	mode    Mode
	log     *log.Logger
	runtime core.RuntimeConfig
	cfg     config.BrawlConfig
	catalog *frames.Catalog
	scene   *scene.Scene

	fighters  [2]entity.Handle
	kinds     [2]string
	detectors [2]*input.Detector
	cpu       *ai.CPU

	tick      int
	hits      int
	damage    [2]int
	paused    bool
	gameOver  bool
	winner    core.PlayerID
	endReason string
}

// New creates a game in the given mode. Nothing is loaded until Reset.
func New(mode Mode, opts ...Option) *Game {
	g := &Game{mode: mode, log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the mode name.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	return titles[g.mode]
}

// Reset loads configuration and fighters and starts a new round.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	cfg, err := config.LoadBrawl(runtime.ConfigPath)
	if err != nil {
		return err
	}
	if runtime.Difficulty != "" {
		preset, ok := config.ParsePreset(runtime.Difficulty)
		if !ok {
			return fmt.Errorf("brawl: unknown difficulty %q", runtime.Difficulty)
		}
		config.ApplyBrawlPreset(&cfg, preset)
	}
	if runtime.P1 != "" {
		cfg.Fighters.P1 = runtime.P1
	}
	if runtime.P2 != "" {
		cfg.Fighters.P2 = runtime.P2
	}

	dir := runtime.FramesDir
	if dir == "" {
		dir = cfg.Fighters.Dir
	}
	catalog, err := frames.LoadCatalog(dir)
	if err != nil {
		return err
	}
	for _, kind := range []string{cfg.Fighters.P1, cfg.Fighters.P2} {
		t, ok := catalog.Get(kind)
		if !ok || t.HP <= 0 {
			return fmt.Errorf("brawl: %q is not a fighter", kind)
		}
	}

	if g.cpu != nil {
		g.cpu.Close()
		g.cpu = nil
	}
	if g.mode == ModeVersus {
		diff := config.NewDifficultyManager(cfg.Difficulty)
		if runtime.ScriptPath != "" {
			g.cpu, err = ai.Load(runtime.ScriptPath, diff, runtime.Seed)
			if err != nil {
				return err
			}
		} else {
			g.cpu = ai.NewDefault(diff, runtime.Seed)
		}
	}

	g.runtime = runtime
	g.cfg = cfg
	g.catalog = catalog
	g.kinds = [2]string{cfg.Fighters.P1, cfg.Fighters.P2}
	g.startRound()
	return nil
}

func (g *Game) startRound() {
	cfg := g.cfg
	g.scene = scene.New(scene.Config{
		Env:          physics.Env{Gravity: cfg.Physics.Gravity, Friction: cfg.Physics.Friction},
		Horizon:      cfg.Physics.SweepHorizon,
		LandingDepth: cfg.Physics.LandingDepth,
		Bounds: scene.Bounds{
			Min: geom.V(0, -cfg.Arena.Height),
			Max: geom.V(cfg.Arena.Width, cfg.Arena.Height),
		},
	}, g.catalog, scene.WithLogger(g.log))

	for _, p := range cfg.Arena.Platforms {
		g.scene.AddPlatform(geom.NewRect(p.HalfW, p.HalfH), geom.V(p.X, p.Y), p.OneWay)
	}

	starts := [2]float64{cfg.Arena.Width * 0.25, cfg.Arena.Width * 0.75}
	dirs := [2]int{1, -1}
	icfg := input.Config{HoldTicks: cfg.Input.HoldTicks, ComboWindow: cfg.Input.ComboWindow, TapGap: cfg.Input.TapGap}
	for i := range g.fighters {
		h := g.scene.Spawn(entity.Spawn{
			Kind:      g.kinds[i],
			Position:  geom.V(starts[i], cfg.Arena.SpawnY),
			Direction: dirs[i],
			Team:      i + 1,
		})
		e := g.scene.MustGet(h)
		if i == 0 || g.mode == ModeDuel || g.mode == ModeVersus {
			e.Player = core.PlayerID(i + 1)
		}
		g.fighters[i] = h
		g.detectors[i] = input.NewDetector(icfg)
	}

	if g.cpu != nil {
		g.cpu.Reset()
	}
	g.tick = 0
	g.hits = 0
	g.damage = [2]int{}
	g.paused = false
	g.gameOver = false
	g.winner = 0
	g.endReason = ""
	g.log.Info("round start", "mode", g.mode, "p1", g.kinds[0], "p2", g.kinds[1], "seed", g.runtime.Seed)
}

// Fighter returns the entity of player 1 or 2.
func (g *Game) Fighter(id core.PlayerID) *entity.Entity {
	return g.scene.MustGet(g.fighters[id-1])
}

// Scene exposes the simulation, mainly for tests and the headless runner.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Step advances the match by one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	ctrls := g.controllers(in)
	rep := g.scene.Tick(ctrls)

	g.hits = len(rep.Hits)
	for _, hit := range rep.Hits {
		g.recordHit(hit)
	}
	if g.mode == ModeTraining {
		g.regenerate()
	}
	g.checkEnd()

	return core.StepResult{State: g.State(), Hits: g.hits}
}

// controllers turns this tick's presses into controller snapshots. Idle
// grounded fighters turn to face each other first.
func (g *Game) controllers(in core.MultiInputFrame) map[core.PlayerID]core.Controller {
	p1, p2 := g.Fighter(core.Player1), g.Fighter(core.Player2)
	faceEachOther(p1, p2)
	faceEachOther(p2, p1)

	ctrls := make(map[core.PlayerID]core.Controller, 2)
	ctrls[core.Player1] = g.detectors[0].Update(in.Player(core.Player1), p1.Direction)

	switch g.mode {
	case ModeDuel:
		ctrls[core.Player2] = g.detectors[1].Update(in.Player(core.Player2), p2.Direction)
	case ModeVersus:
		var presses core.InputFrame
		if g.cpu != nil {
			var err error
			presses, err = g.cpu.Next(g.view(p2, p1))
			if err != nil {
				g.log.Error("cpu script failed, disabling", "err", err)
				g.cpu.Close()
				g.cpu = nil
			}
		}
		ctrls[core.Player2] = g.detectors[1].Update(presses, p2.Direction)
	}
	return ctrls
}

func faceEachOther(e, foe *entity.Entity) {
	if e.State() != frames.StateStanding {
		return
	}
	if dx := foe.Body.Position.X() - e.Body.Position.X(); dx != 0 {
		e.Face(int(geom.Sign(dx)))
	}
}

// View describes the match from one fighter's side, in the form the CPU
// scripts read.
func (g *Game) View(id core.PlayerID) ai.View {
	other := core.Player2
	if id == core.Player2 {
		other = core.Player1
	}
	return g.view(g.Fighter(id), g.Fighter(other))
}

// Config returns the match configuration in effect.
func (g *Game) Config() config.BrawlConfig {
	return g.cfg
}

func (g *Game) view(self, foe *entity.Entity) ai.View {
	return ai.View{
		Tick:  g.tick,
		Self:  fighterView(self),
		Foe:   fighterView(foe),
		Width: g.cfg.Arena.Width,
	}
}

func fighterView(e *entity.Entity) ai.Fighter {
	return ai.Fighter{
		X:         e.Body.Position.X(),
		Y:         e.Body.Position.Y(),
		VX:        e.Body.Velocity.X(),
		VY:        e.Body.Velocity.Y(),
		HP:        e.HP,
		State:     e.State().String(),
		Facing:    e.Direction,
		Grounded:  e.Body.Grounded,
		Attacking: e.Data().Hit != nil || e.State() == frames.StateAttacking,
	}
}

func (g *Game) recordHit(hit scene.HitReport) {
	side := -1
	for i, h := range g.fighters {
		if hit.Victim == h {
			side = 1 - i
		}
	}
	if side < 0 {
		return
	}
	g.damage[side] += hit.Damage
	if side == 1 && g.cpu != nil {
		g.cpu.AddDamage(hit.Damage)
	}
	g.log.Debug("hit", "attacker", hit.Attacker, "victim", hit.Victim, "damage", hit.Damage, "blocked", hit.Blocked)
}

// regenerate tops up training fighters once per second and never lets
// them stay knocked out.
func (g *Game) regenerate() {
	rate := max(g.runtime.TickRate, 1)
	for _, h := range g.fighters {
		e := g.scene.MustGet(h)
		if e.HP == 0 {
			e.HP = e.Table.HP
			continue
		}
		if g.tick%rate == 0 {
			e.HP = min(e.HP+g.cfg.Round.TrainingRegen, e.Table.HP)
		}
	}
}

func (g *Game) checkEnd() {
	if g.mode == ModeTraining {
		return
	}
	hp1, hp2 := g.Fighter(core.Player1).HP, g.Fighter(core.Player2).HP

	switch {
	case hp1 == 0 || hp2 == 0:
		g.endReason = core.EndKO
	case g.cfg.Round.Ticks > 0 && g.tick >= g.cfg.Round.Ticks:
		g.endReason = core.EndTimeout
	default:
		return
	}

	g.gameOver = true
	switch {
	case hp1 > hp2:
		g.winner = core.Player1
	case hp2 > hp1:
		g.winner = core.Player2
	}
	g.log.Info("round over", "reason", g.endReason, "winner", g.winner, "p1_hp", hp1, "p2_hp", hp2, "ticks", g.tick)
}

// Remaining returns the ticks left on the round timer, or -1 when untimed.
func (g *Game) Remaining() int {
	if g.mode == ModeTraining || g.cfg.Round.Ticks <= 0 {
		return -1
	}
	return max(g.cfg.Round.Ticks-g.tick, 0)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.gameOver,
		Paused:   g.paused,
		Winner:   g.winner,
	}
	if g.scene != nil {
		st.Score = g.Fighter(core.Player1).HP
	}
	return st
}

// Summary describes the match for history.
func (g *Game) Summary() core.MatchSummary {
	s := core.MatchSummary{
		Mode:      string(g.mode),
		P1Kind:    g.kinds[0],
		P2Kind:    g.kinds[1],
		Winner:    g.winner,
		EndReason: g.endReason,
		Ticks:     g.tick,
		Seed:      g.runtime.Seed,
	}
	if g.scene != nil {
		s.P1HP = g.Fighter(core.Player1).HP
		s.P2HP = g.Fighter(core.Player2).HP
	}
	return s
}

// Players returns how many people share the keyboard.
func (g *Game) Players() int {
	if g.mode == ModeDuel {
		return 2
	}
	return 1
}

// Digest hashes the current simulation state.
func (g *Game) Digest() string {
	return g.Snapshot().Digest()
}

// Close releases the CPU script state.
func (g *Game) Close() {
	if g.cpu != nil {
		g.cpu.Close()
		g.cpu = nil
	}
}

func init() {
	for _, m := range []Mode{ModeDuel, ModeTraining, ModeVersus} {
		registry.Register(string(m), func() registry.Game {
			return New(m)
		})
	}
}
