package tui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		msg    tea.KeyMsg
		player core.PlayerID
		action core.Action
	}{
		{runeKey('a'), core.Player1, core.ActionLeft},
		{runeKey('j'), core.Player1, core.ActionAttack},
		{runeKey('k'), core.Player1, core.ActionJump},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.Player2, core.ActionLeft},
		{runeKey(','), core.Player2, core.ActionAttack},
		{runeKey('/'), core.Player2, core.ActionDefend},
		{runeKey('p'), 0, core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEscape}, 0, core.ActionPause},
		{runeKey('b'), 0, core.ActionBack},
	}

	for _, tt := range tests {
		b, _ := km.MapKey(tt.msg)
		if b.Player != tt.player || b.Action != tt.action {
			t.Errorf("MapKey(%q) = %v %v, expected %v %v", tt.msg.String(), b.Player, b.Action, tt.player, tt.action)
		}
	}
}

func TestMapKeyQuit(t *testing.T) {
	km := DefaultKeyMap()

	if _, quit := km.MapKey(tea.KeyMsg{Type: tea.KeyCtrlC}); !quit {
		t.Error("ctrl+c should quit")
	}
	if _, quit := km.MapKey(runeKey('q')); !quit {
		t.Error("q should quit")
	}
	if _, quit := km.MapKey(runeKey('a')); quit {
		t.Error("a should not quit")
	}

	frame := core.NewMultiInputFrame()
	if !km.MapKeyToMultiFrame(runeKey('q'), &frame, 1) {
		t.Error("MapKeyToMultiFrame(q) should report quit")
	}
	if len(frame.ByPlayer) != 0 {
		t.Errorf("quit recorded input: %v", frame.ByPlayer)
	}
}

func TestMapKeyToMultiFrame(t *testing.T) {
	km := DefaultKeyMap()

	// With two players each side keeps its keys.
	frame := core.NewMultiInputFrame()
	km.MapKeyToMultiFrame(runeKey('d'), &frame, 2)
	km.MapKeyToMultiFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame, 2)
	if p1 := frame.Player(core.Player1); !p1.Has(core.ActionRight) || p1.Has(core.ActionLeft) {
		t.Errorf("P1 = %v, expected Right only", p1.Actions)
	}
	if p2 := frame.Player(core.Player2); !p2.Has(core.ActionLeft) {
		t.Errorf("P2 = %v, expected Left", p2.Actions)
	}

	// Alone, the arrows drive player one too.
	frame = core.NewMultiInputFrame()
	km.MapKeyToMultiFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame, 1)
	km.MapKeyToMultiFrame(runeKey('p'), &frame, 1)
	if p1 := frame.Player(core.Player1); !p1.Has(core.ActionLeft) || !p1.Has(core.ActionPause) {
		t.Errorf("P1 = %v, expected Left and Pause", p1.Actions)
	}
	if _, ok := frame.ByPlayer[core.Player2]; ok {
		t.Error("P2 should have no input in single player")
	}
}

func TestLoadKeyMapOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.ini")
	data := "[Keys_P1]\nAttack = f space\n\n[Other]\nIgnored = x\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	km, err := LoadKeyMap(path)
	if err != nil {
		t.Fatalf("LoadKeyMap() error = %v", err)
	}

	if got := km.Keys(core.Player1, core.ActionAttack); !reflect.DeepEqual(got, []string{"f", "space"}) {
		t.Errorf("Keys(P1, Attack) = %v, expected [f space]", got)
	}
	if b, _ := km.MapKey(tea.KeyMsg{Type: tea.KeySpace}); b.Action != core.ActionAttack {
		t.Errorf("space = %v, expected Attack", b.Action)
	}
	// Untouched bindings keep their defaults.
	if b, _ := km.MapKey(runeKey('k')); b.Action != core.ActionJump {
		t.Errorf("k = %v, expected Jump", b.Action)
	}
}

func TestLoadKeyMapErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadKeyMap(filepath.Join(dir, "missing.ini")); err == nil {
		t.Error("expected error for a missing explicit file")
	}

	path := filepath.Join(dir, "bad.ini")
	if err := os.WriteFile(path, []byte("[Keys_P2]\nUppercut = u\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadKeyMap(path); err == nil {
		t.Error("expected error for an unknown action")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{runeKey('d'), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionResults},
		{tea.KeyMsg{Type: tea.KeyEscape}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}
