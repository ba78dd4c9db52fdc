package tui

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/ini.v1"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

//go:embed keys.ini
var defaultKeys []byte

// Binding is what a key does: an action for a player, or a menu action
// when Player is zero.
type Binding struct {
	Player core.PlayerID
	Action core.Action
}

// KeyMap translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMap struct {
	keys map[string]Binding
}

var sectionPlayers = map[string]core.PlayerID{
	"Keys_P1": core.Player1,
	"Keys_P2": core.Player2,
	"Menu":    0,
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() *KeyMap {
	km, err := parseKeyMap(defaultKeys)
	if err != nil {
		panic(err) // embedded file is covered by tests
	}
	return km
}

// LoadKeyMap loads the built-in bindings overlaid with path. An empty path
// means ~/.brawl/keys.ini when it exists.
func LoadKeyMap(path string) (*KeyMap, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultKeyMap(), nil
		}
		path = filepath.Join(home, ".brawl", "keys.ini")
		if _, err := os.Stat(path); err != nil {
			return DefaultKeyMap(), nil
		}
	}
	return parseKeyMap(defaultKeys, path)
}

func parseKeyMap(sources ...any) (*KeyMap, error) {
	opts := ini.LoadOptions{
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}
	f, err := ini.LoadSources(opts, sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}

	km := &KeyMap{keys: make(map[string]Binding)}
	for _, sec := range f.Sections() {
		player, ok := sectionPlayers[sec.Name()]
		if !ok {
			continue
		}
		for _, k := range sec.Keys() {
			action, ok := core.ParseAction(k.Name())
			if !ok || action == core.ActionNone {
				return nil, fmt.Errorf("keys: [%s] unknown action %q", sec.Name(), k.Name())
			}
			for _, name := range strings.Fields(k.Value()) {
				if name == "space" {
					name = " "
				}
				km.keys[name] = Binding{Player: player, Action: action}
			}
		}
	}
	return km, nil
}

// Lookup returns the binding of a key as the terminal names it.
func (km *KeyMap) Lookup(key string) (Binding, bool) {
	b, ok := km.keys[key]
	return b, ok
}

// Keys returns the keys bound to an action, sorted.
func (km *KeyMap) Keys(player core.PlayerID, action core.Action) []string {
	var out []string
	for k, b := range km.keys {
		if b.Player == player && b.Action == action {
			if k == " " {
				k = "space"
			}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// MapKey translates a key message to a binding.
// Returns whether it's a quit request.
func (km *KeyMap) MapKey(msg tea.KeyMsg) (b Binding, isQuit bool) {
	b, ok := km.Lookup(msg.String())
	if !ok {
		return Binding{}, false
	}
	return b, b.Player == 0 && b.Action == core.ActionQuit
}

// MapKeyToMultiFrame records a key press in frame. With one local player
// the second player's keys also drive player one. Menu actions are
// recorded for player one. Returns true if the key was a quit request.
func (km *KeyMap) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame, players int) bool {
	b, isQuit := km.MapKey(msg)
	if b.Action == core.ActionNone || isQuit {
		return isQuit
	}
	player := b.Player
	if player == 0 || (player == core.Player2 && players < 2) {
		player = core.Player1
	}
	frame.Set(player, b.Action)
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionResults
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMap) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionResults
	}

	return MenuActionNone
}
