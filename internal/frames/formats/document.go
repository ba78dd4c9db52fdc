// Package formats provides the frame table file formats. A Document is the
// format-neutral form every parser produces and every exporter consumes.
package formats

import "github.com/vovakirdan/tui-brawl/internal/geom"

// AnyFrame in an effect's From field matches every source frame.
const AnyFrame = -1

// Document is one entity kind's frame table as stored on disk.
type Document struct {
	Kind              string           `yaml:"kind"`
	Name              string           `yaml:"name"`
	HP                int              `yaml:"hp,omitempty"`
	Mass              float64          `yaml:"mass"`
	Poolable          bool             `yaml:"poolable,omitempty"`
	IgnorePassthrough bool             `yaml:"ignore_passthrough,omitempty"`
	Hurtbox           geom.ShapeSpec   `yaml:"hurtbox"`
	Hull              geom.ShapeSpec   `yaml:"hull"`
	Moves             Moves            `yaml:"moves,omitempty"`
	Special           Special          `yaml:"special,omitempty"`
	Sprites           map[int][]string `yaml:"sprites"`
	Frames            map[int]Frame    `yaml:"frames"`
	Effects           []Effect         `yaml:"effects,omitempty"`
}

// Moves holds the movement speeds behaviors read.
type Moves struct {
	Walk  float64 `yaml:"walk,omitempty"`
	Run   float64 `yaml:"run,omitempty"`
	AirX  float64 `yaml:"air_x,omitempty"`  // Air control target speed
	AirAc float64 `yaml:"air_ac,omitempty"` // Air control acceleration
}

// Special names the frames and kinds behaviors jump to.
type Special struct {
	Walking     []int  `yaml:"walking,omitempty"`
	Running     []int  `yaml:"running,omitempty"`
	StopRun     int    `yaml:"stop_run,omitempty"`
	Air         int    `yaml:"air,omitempty"`
	Crouch      int    `yaml:"crouch,omitempty"`
	Injured     int    `yaml:"injured,omitempty"`
	Fall        int    `yaml:"fall,omitempty"`
	Lying       int    `yaml:"lying,omitempty"`
	DefendHit   int    `yaml:"defend_hit,omitempty"`
	HitEffect   string `yaml:"hit_effect,omitempty"`
	LandEffect  string `yaml:"land_effect,omitempty"`
	LandEffectY int    `yaml:"land_effect_action,omitempty"`
}

// Frame is one entry of the frame table.
type Frame struct {
	Sprite int            `yaml:"sprite"`
	Wait   int            `yaml:"wait"`
	Next   int            `yaml:"next"`
	State  string         `yaml:"state"`
	Combos map[string]int `yaml:"combos,omitempty"`
	DVX    float64        `yaml:"dvx,omitempty"`
	DVY    float64        `yaml:"dvy,omitempty"`
	Hit    *Hit           `yaml:"hit,omitempty"`
	OPoint *OPoint        `yaml:"opoint,omitempty"`
}

// Hit describes an attack box active during a frame.
type Hit struct {
	Box    geom.ShapeSpec `yaml:"box"`
	Damage int            `yaml:"damage"`
	DVX    float64        `yaml:"dvx,omitempty"`
	DVY    float64        `yaml:"dvy,omitempty"`
	Fall   bool           `yaml:"fall,omitempty"`
	Rest   int            `yaml:"rest,omitempty"`
}

// OPoint spawns another entity when its frame is entered.
type OPoint struct {
	Kind   string  `yaml:"kind"`
	Action int     `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	DVX    float64 `yaml:"dvx,omitempty"`
	DVY    float64 `yaml:"dvy,omitempty"`
	Facing int     `yaml:"facing,omitempty"` // -1 flips relative to the parent
}

// Effect is a velocity change applied on a specific frame transition.
// Velocity is scaled first, then set or added (or forced).
type Effect struct {
	From   int      `yaml:"from"`
	To     int      `yaml:"to"`
	VX     float64  `yaml:"vx,omitempty"` // Relative to facing
	VY     float64  `yaml:"vy,omitempty"`
	ScaleX *float64 `yaml:"scale_x,omitempty"`
	ScaleY *float64 `yaml:"scale_y,omitempty"`
	SetX   bool     `yaml:"set_x,omitempty"`
	SetY   bool     `yaml:"set_y,omitempty"`
	Force  bool     `yaml:"force,omitempty"` // Use a bounded impulse instead of add
}

// FormatExtensions returns the supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}
