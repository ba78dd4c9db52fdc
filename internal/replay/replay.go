// Package replay records and plays back the raw key presses of a match.
//
// The simulation is deterministic given the seed, the configuration and the
// presses, so a replay stores only those. Files are MessagePack encoded.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// Version is the current file format version.
const Version = 1

// ErrVersion is returned for files written by an incompatible version.
var ErrVersion = errors.New("replay: unsupported version")

// Header identifies the match a replay belongs to.
type Header struct {
	Seed     int64  `msgpack:"seed"`
	Mode     string `msgpack:"mode"`
	P1       string `msgpack:"p1"`
	P2       string `msgpack:"p2"`
	Config   string `msgpack:"config,omitempty"` // Config path used, informational
	Checksum string `msgpack:"checksum,omitempty"`
}

// Frame holds one tick of presses as an action bit mask per player.
type Frame [2]uint16

// Replay is a recorded match.
type Replay struct {
	Version int     `msgpack:"v"`
	Header  Header  `msgpack:"header"`
	Frames  []Frame `msgpack:"frames"`
}

// Len returns the number of recorded ticks.
func (r *Replay) Len() int {
	return len(r.Frames)
}

// Input returns the presses for tick i (0-based). Ticks past the end are
// empty.
func (r *Replay) Input(i int) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	if i < 0 || i >= len(r.Frames) {
		return in
	}
	for p, mask := range r.Frames[i] {
		id := core.PlayerID(p + 1)
		for a := core.Action(1); a < 16; a++ {
			if mask&(1<<a) != 0 {
				in.Set(id, a)
			}
		}
	}
	return in
}

// Recorder accumulates frames.
type Recorder struct {
	r Replay
}

// NewRecorder starts a recording for the given match.
func NewRecorder(h Header) *Recorder {
	return &Recorder{r: Replay{Version: Version, Header: h}}
}

// Record appends one tick. Menu actions are not recorded.
func (rc *Recorder) Record(in core.MultiInputFrame) {
	var f Frame
	for p := range f {
		frame := in.Player(core.PlayerID(p + 1))
		for a := range frame.Actions {
			if frame.Has(a) && a > core.ActionNone && a <= core.ActionDefend {
				f[p] |= 1 << a
			}
		}
	}
	rc.r.Frames = append(rc.r.Frames, f)
}

// SetChecksum stores the digest of the final state.
func (rc *Recorder) SetChecksum(sum string) {
	rc.r.Header.Checksum = sum
}

// Replay returns the recording so far.
func (rc *Recorder) Replay() *Replay {
	return &rc.r
}

// Write encodes r to w.
func Write(w io.Writer, r *Replay) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Read decodes a replay from rd.
func Read(rd io.Reader) (*Replay, error) {
	var r Replay
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return &r, nil
}

// Save writes r to path.
func Save(path string, r *Replay) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := Write(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open reads a replay from path.
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Read(f)
}
