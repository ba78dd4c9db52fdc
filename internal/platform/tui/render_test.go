package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, 'X', core.ColorRed)
	s.SetColored(3, 0, 'Y', core.ColorRed)
	s.DrawText(0, 1, "second")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, expected 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") || !strings.Contains(lines[0], "XY") {
		t.Errorf("row 0 = %q, expected ab followed by XY", lines[0])
	}
	if lines[1] != "second" {
		t.Errorf("row 1 = %q, expected %q", lines[1], "second")
	}
}

func TestEveryColorHasStyle(t *testing.T) {
	for _, c := range core.Colors() {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("color %d has no style", c)
		}
	}
}
