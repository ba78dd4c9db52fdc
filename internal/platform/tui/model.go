package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/replay"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

// LocalPlayers is implemented by modes that read keys for more than one
// player.
type LocalPlayers interface {
	Players() int
}

// Options are the optional collaborators of a Model.
type Options struct {
	Store  *storage.Store
	Keys   *KeyMap
	Logger *log.Logger
	Record string // Replay file written when the model quits, empty to skip
}

// Model is the Bubble Tea model that runs one mode.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	opts      Options
	input     core.MultiInputFrame
	gameState core.GameState
	players   int
	recorder  *replay.Recorder

	embedded   bool // Hosted by a SessionModel, which handles BackToMenu
	quitting   bool
	backToMenu bool
	saved      bool // Whether the current match has been written to history
}

// NewModel resets game and wraps it in a model. A zero seed is replaced by
// the current time.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) (Model, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Keys == nil {
		opts.Keys = DefaultKeyMap()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	m := Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:  cfg,
		opts:    opts,
		input:   core.NewMultiInputFrame(),
		players: 1,
	}
	if lp, ok := game.(LocalPlayers); ok {
		m.players = lp.Players()
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	if err := m.game.Reset(m.config); err != nil {
		return fmt.Errorf("reset %s: %w", m.game.ID(), err)
	}
	m.gameState = m.game.State()
	m.saved = false
	if m.opts.Record != "" {
		s := m.game.Summary()
		m.recorder = replay.NewRecorder(replay.Header{
			Seed:   m.config.Seed,
			Mode:   s.Mode,
			P1:     s.P1Kind,
			P2:     s.P2Kind,
			Config: m.config.ConfigPath,
		})
	}
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	b, isQuit := m.opts.Keys.MapKey(msg)
	if isQuit {
		m.finish(core.EndQuit)
		m.quitting = true
		return m, tea.Quit
	}
	if b.Player == 0 && b.Action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.finish(core.EndQuit)
		m.backToMenu = true
		if !m.embedded {
			return m, tea.Quit
		}
		return m, nil
	}

	m.opts.Keys.MapKeyToMultiFrame(msg, &m.input, m.players)
	return m, nil
}

// handleResize only resizes the view. The arena has a fixed size in world
// units, so the match keeps going.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.gameState.GameOver && m.input.Has(core.ActionRestart) {
		m.writeReplay()
		m.config.Seed = time.Now().UnixNano()
		if err := m.reset(); err != nil {
			m.opts.Logger.Error("restart failed", "err", err)
			m.quitting = true
			return m, tea.Quit
		}
		m.input.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.input)
	m.gameState = result.State

	// Paused ticks do not advance the simulation, so they are not replayed.
	if m.recorder != nil && !wasOver && !result.State.Paused {
		m.recorder.Record(m.input)
	}
	if result.Hits > 0 {
		m.opts.Logger.Debug("hit", "mode", m.game.ID(), "count", result.Hits)
	}
	if m.gameState.GameOver {
		m.finish("")
	}

	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// finish writes the match to history once. A non-empty reason overrides the
// game's own for matches abandoned while running.
func (m *Model) finish(reason string) {
	if m.saved {
		return
	}
	m.saved = true
	m.writeReplay()

	s := m.game.Summary()
	if s.EndReason == "" {
		if reason == "" {
			return
		}
		s.EndReason = reason
	}
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveMatch(storage.FromSummary(s)); err != nil {
		m.opts.Logger.Warn("saving match failed", "err", err)
	}
}

func (m *Model) writeReplay() {
	if m.recorder == nil {
		return
	}
	if d, ok := m.game.(interface{ Digest() string }); ok {
		m.recorder.SetChecksum(d.Digest())
	}
	if err := replay.Save(m.opts.Record, m.recorder.Replay()); err != nil {
		m.opts.Logger.Warn("saving replay failed", "path", m.opts.Record, "err", err)
	}
	m.recorder = nil
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".brawl", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot failed", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user asked to leave the program.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one mode in the local terminal until the user quits or goes
// back. Returns true when the user asked for the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	model, err := NewModel(game, cfg, opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(Model); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
