package entity

// Animator walks back and forth over a range of indexes: 0,1,..,n,n-1,..,1,0,1..
type Animator struct {
	current int
}

// Oscillate returns the next index in [min, max] and advances the cursor.
// The sequence has period 2*(max-min). A range of one element always yields
// min.
func (a *Animator) Oscillate(min, max int) int {
	span := max - min
	if span <= 0 {
		return min
	}
	a.current %= 2 * span
	offset := a.current
	if offset >= span {
		offset = 2*span - offset
	}
	a.current = (a.current + 1) % (2 * span)
	return min + offset
}

// Reset rewinds the cursor.
func (a *Animator) Reset() {
	a.current = 0
}
