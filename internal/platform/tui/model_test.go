package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/replay"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// stubGame ends after a fixed number of ticks with player one winning.
type stubGame struct {
	length  int
	ticks   int
	paused  bool
	players int
	inputs  []core.MultiInputFrame
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }
func (g *stubGame) Players() int  { return g.players }

func (g *stubGame) Reset(core.RuntimeConfig) error {
	g.ticks = 0
	g.paused = false
	return nil
}

func (g *stubGame) Step(in core.MultiInputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.paused && g.ticks < g.length {
		g.ticks++
		g.inputs = append(g.inputs, in.Clone())
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(*core.Screen) {}

func (g *stubGame) State() core.GameState {
	st := core.GameState{GameOver: g.ticks >= g.length, Paused: g.paused}
	if st.GameOver {
		st.Winner = core.Player1
	}
	return st
}

func (g *stubGame) Summary() core.MatchSummary {
	s := core.MatchSummary{Mode: "stub", P1Kind: "a", P2Kind: "b", P1HP: 10, Ticks: g.ticks}
	if g.ticks >= g.length {
		s.Winner = core.Player1
		s.EndReason = core.EndKO
	}
	return s
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model
}

func TestModelSavesFinishedMatchOnce(t *testing.T) {
	store := openStore(t)
	game := &stubGame{length: 3, players: 1}

	m, err := NewModel(game, core.DefaultConfig(), Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	for range 6 {
		m = update(t, m, TickMsg{})
	}

	matches, err := store.RecentMatches("", 10)
	if err != nil {
		t.Fatalf("RecentMatches() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, expected 1", len(matches))
	}
	if matches[0].Winner != 1 || matches[0].EndReason != core.EndKO {
		t.Errorf("match = %+v, expected P1 KO", matches[0])
	}
}

func TestModelQuitMidMatch(t *testing.T) {
	store := openStore(t)
	game := &stubGame{length: 100, players: 1}

	m, err := NewModel(game, core.DefaultConfig(), Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	m = update(t, m, TickMsg{})
	m = update(t, m, runeKey('q'))

	if !m.IsQuitting() {
		t.Error("IsQuitting() = false, expected true")
	}
	matches, _ := store.RecentMatches("stub", 10)
	if len(matches) != 1 || matches[0].EndReason != core.EndQuit || matches[0].Winner != 0 {
		t.Errorf("matches = %+v, expected one abandoned draw", matches)
	}
}

func TestModelInputReachesGame(t *testing.T) {
	game := &stubGame{length: 10, players: 2}
	m, err := NewModel(game, core.DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	m = update(t, m, runeKey('j'))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	if len(game.inputs) != 2 {
		t.Fatalf("ticks = %d, expected 2", len(game.inputs))
	}
	first := game.inputs[0]
	if p1 := first.Player(core.Player1); !p1.Has(core.ActionAttack) {
		t.Errorf("P1 = %v, expected Attack", p1.Actions)
	}
	if p2 := first.Player(core.Player2); !p2.Has(core.ActionRight) {
		t.Errorf("P2 = %v, expected Right", p2.Actions)
	}
	if game.inputs[1].Has(core.ActionAttack) {
		t.Error("input should be cleared after each tick")
	}
}

func TestModelRecordsReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.replay")
	game := &stubGame{length: 4, players: 1}

	m, err := NewModel(game, core.DefaultConfig(), Options{Record: path})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	m = update(t, m, TickMsg{})
	m = update(t, m, runeKey('p')) // pause
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	m = update(t, m, runeKey('p')) // resume, this tick runs
	m = update(t, m, TickMsg{})
	m = update(t, m, runeKey('d'))
	for range 4 {
		m = update(t, m, TickMsg{})
	}

	r, err := replay.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if r.Len() != game.length {
		t.Errorf("Len() = %d, expected %d", r.Len(), game.length)
	}
	if r.Header.Mode != "stub" || r.Header.Seed == 0 {
		t.Errorf("Header = %+v, expected mode stub and a seed", r.Header)
	}
	if in := r.Input(2).Player(core.Player1); !in.Has(core.ActionRight) {
		t.Errorf("Input(2) = %v, expected Right", in.Actions)
	}
}

func TestModelBackToMenu(t *testing.T) {
	game := &stubGame{length: 1, players: 1}
	m, err := NewModel(game, core.DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	m = update(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Error("back should be ignored while the match runs")
	}

	m = update(t, m, TickMsg{})
	m = update(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("BackToMenu() = false after game over, expected true")
	}
}
