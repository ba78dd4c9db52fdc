package brawl

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// Visual characters for rendering
const (
	SolidChar  = '█'
	LedgeChar  = '═'
	HPFullChar = '█'
	HPLostChar = '░'
	hpBarWidth = 20
)

var teamColors = map[int]core.Color{
	1: core.ColorBrightCyan,
	2: core.ColorBrightRed,
}

// mirrored swaps characters that point sideways when a sprite faces left.
var mirrored = map[rune]rune{
	'/': '\\', '\\': '/',
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
}

// viewport maps world units to screen cells. The arena is centered
// horizontally and sits on the bottom row.
type viewport struct {
	ox, oy int
	cw, ch float64
}

func (g *Game) viewport(dst *core.Screen) viewport {
	a := g.cfg.Arena
	cols := int(math.Ceil(a.Width / a.CellW))
	rows := int(math.Ceil(a.Height / a.CellH))
	return viewport{
		ox: max((dst.Width()-cols)/2, 0),
		oy: dst.Height() - rows,
		cw: a.CellW,
		ch: a.CellH,
	}
}

func (v viewport) col(x float64) int {
	return v.ox + int(math.Floor(x/v.cw))
}

func (v viewport) row(y float64) int {
	return v.oy + int(math.Floor(y/v.ch))
}

// edge returns the row boundary nearest to y, so a body resting a hair
// above a platform still lands on its row.
func (v viewport) edge(y float64) int {
	return v.oy + int(math.Round(y/v.ch))
}

// Render draws the arena, every entity and the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.scene == nil {
		return
	}

	v := g.viewport(dst)
	g.drawPlatforms(dst, v)
	for _, sp := range g.scene.Sprites() {
		g.drawSprite(dst, v, sp)
	}
	g.drawHUD(dst)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		title := "DRAW"
		if g.winner != 0 {
			title = fmt.Sprintf("%s WINS!", g.Fighter(g.winner).Table.Name)
		}
		how := "K.O."
		if g.endReason == core.EndTimeout {
			how = "TIME"
		}
		g.drawCenteredMessage(dst, title, how+"  |  R restart  Q quit")
	}
}

func (g *Game) drawPlatforms(dst *core.Screen, v viewport) {
	for _, p := range g.scene.Platforms() {
		poly := p.Hurtbox()
		x0, x1 := geom.Project(poly, geom.Right)
		y0, y1 := geom.Project(poly, geom.Down)

		top := v.row(y0)
		bottom := v.row(y1 - geom.Epsilon)
		char := SolidChar
		if p.OneWay {
			bottom = top
			char = LedgeChar
		}
		for y := top; y <= bottom; y++ {
			for x := v.col(x0); x <= v.col(x1-geom.Epsilon); x++ {
				dst.SetColored(x, y, char, core.ColorGray)
			}
		}
	}
}

// drawSprite draws a sprite's rows so the last one sits on the row boundary
// nearest the entity's lowest point.
func (g *Game) drawSprite(dst *core.Screen, v viewport, sp entity.Sprite) {
	t, ok := g.catalog.Get(sp.Kind)
	if !ok {
		return
	}
	rows := t.Sprites[sp.Index]
	if len(rows) == 0 {
		return
	}

	color := spriteColor(sp)
	center := v.col(sp.Position.X())
	last := v.edge(sp.Bottom) - 1
	if len(rows) == 1 {
		last = v.row(sp.Position.Y())
	}
	for i, line := range rows {
		y := last - (len(rows) - 1 - i)
		runes := []rune(line)
		x0 := center - len(runes)/2
		for j, r := range runes {
			if sp.Direction < 0 {
				r = runes[len(runes)-1-j]
				if m, ok := mirrored[r]; ok {
					r = m
				}
			}
			if r == ' ' {
				continue
			}
			dst.SetColored(x0+j, y, r, color)
		}
	}
}

func spriteColor(sp entity.Sprite) core.Color {
	switch sp.State {
	case frames.StateEffect:
		if sp.Kind == "dust" {
			return core.ColorGray
		}
		return core.ColorBrightYellow
	case frames.StateInjured, frames.StateFalling:
		return core.ColorWhite
	}
	if c, ok := teamColors[sp.Team]; ok {
		return c
	}
	return core.ColorDefault
}

func (g *Game) drawHUD(dst *core.Screen) {
	w := dst.Width()
	for i, h := range g.fighters {
		e := g.scene.MustGet(h)
		label := fmt.Sprintf("P%d %s", i+1, e.Table.Name)
		if i == 1 && g.mode == ModeVersus {
			label = "CPU " + e.Table.Name
		}
		bar := hpBar(e.HP, e.Table.HP)

		if i == 0 {
			dst.SetPen(teamColors[1])
			dst.DrawText(1, 0, label)
			drawBar(dst, 1, 1, bar, teamColors[1])
		} else {
			dst.SetPen(teamColors[2])
			dst.DrawText(w-1-len(label), 0, label)
			drawBar(dst, w-1-len(bar), 1, bar, teamColors[2])
		}
	}
	dst.SetPen(core.ColorDefault)

	center := g.Title()
	if rem := g.Remaining(); rem >= 0 {
		center = fmt.Sprintf("%02d", (rem+g.runtime.TickRate-1)/max(g.runtime.TickRate, 1))
	}
	dst.DrawTextCentered(0, center)
}

func hpBar(hp, maxHP int) []bool {
	bar := make([]bool, hpBarWidth)
	if maxHP <= 0 {
		return bar
	}
	filled := (hp*hpBarWidth + maxHP - 1) / maxHP
	for i := 0; i < filled && i < hpBarWidth; i++ {
		bar[i] = true
	}
	return bar
}

func drawBar(dst *core.Screen, x, y int, bar []bool, c core.Color) {
	for i, full := range bar {
		if full {
			dst.SetColored(x+i, y, HPFullChar, c)
		} else {
			dst.SetColored(x+i, y, HPLostChar, core.ColorGray)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
