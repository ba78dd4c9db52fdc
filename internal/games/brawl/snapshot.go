package brawl

import (
	"crypto/sha256"
	"encoding/hex"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// EntitySnapshot is one live entity in primitive types. Positions and
// velocities are scaled by 1000 so the digest ignores float noise below
// that precision.
type EntitySnapshot struct {
	Kind  string `msgpack:"k"`
	Frame int    `msgpack:"f"`
	Wait  int    `msgpack:"w"`
	X     int    `msgpack:"x"`
	Y     int    `msgpack:"y"`
	VX    int    `msgpack:"vx"`
	VY    int    `msgpack:"vy"`
	HP    int    `msgpack:"hp"`
	Dir   int    `msgpack:"d"`
}

// Snapshot is the complete observable state of a match.
type Snapshot struct {
	Tick     int              `msgpack:"tick"`
	Entities []EntitySnapshot `msgpack:"entities"`
	GameOver bool             `msgpack:"over"`
	Winner   core.PlayerID    `msgpack:"winner"`
}

// Snapshot returns the current state in insertion order.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{Tick: g.tick, GameOver: g.gameOver, Winner: g.winner}
	if g.scene == nil {
		return s
	}
	for _, e := range g.scene.Entities() {
		b := e.Body
		s.Entities = append(s.Entities, EntitySnapshot{
			Kind:  e.Kind(),
			Frame: e.Frame,
			Wait:  e.Wait,
			X:     milli(b.Position.X()),
			Y:     milli(b.Position.Y()),
			VX:    milli(b.Velocity.X()),
			VY:    milli(b.Velocity.Y()),
			HP:    e.HP,
			Dir:   e.Direction,
		})
	}
	return s
}

func milli(f float64) int {
	return int(math.Round(f * 1000))
}

// Digest returns a short hex hash of the snapshot, used to check that a
// replay reproduces its recording.
func (s Snapshot) Digest() string {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
