package core

// Combo names produced by the input detector and referenced by frame tables.
const (
	ComboAttack        = "hit_a"
	ComboJump          = "hit_j"
	ComboDefend        = "hit_d"
	ComboForwardAttack = "hit_Fa"
	ComboDownAttack    = "hit_Da"
	ComboForwardJump   = "hit_Fj"
	ComboDashForward   = "hit_FF"
	ComboSpecialShot   = "hit_DFa" // defend, forward, attack
	ComboSpecialRise   = "hit_DUj" // defend, up, jump
)

// Controller is the read-only input snapshot an entity sees during one tick.
// Axes are -1, 0 or 1; X is in world direction, not facing.
type Controller struct {
	X, Y   int
	Attack bool
	Jump   bool
	Defend bool
	// Combos fired this tick, most specific first.
	Combos []string
}

// HasCombo reports whether the named combo fired this tick.
func (c Controller) HasCombo(name string) bool {
	for _, n := range c.Combos {
		if n == name {
			return true
		}
	}
	return false
}
