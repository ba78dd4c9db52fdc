package scene

import (
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// Pool keeps released entities of poolable kinds for reuse. An instance is
// either live in a scene or sitting in exactly one free list.
type Pool struct {
	free      map[string][]*entity.Entity
	allocated int
	live      int
	highWater int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{free: make(map[string][]*entity.Entity)}
}

// Acquire returns a reset entity of the table's kind, reusing a released
// one when available.
func (p *Pool) Acquire(table *frames.Table, pos geom.Vec2, dir int) (e *entity.Entity, reused bool) {
	list := p.free[table.Kind]
	if n := len(list); n > 0 {
		e = list[n-1]
		list[n-1] = nil
		p.free[table.Kind] = list[:n-1]
		e.Reset(table, pos, dir)
		reused = true
	} else {
		e = entity.New(table, pos, dir)
		p.allocated++
	}
	p.live++
	if p.live > p.highWater {
		p.highWater = p.live
	}
	return e, reused
}

// Release returns an entity to its kind's free list.
func (p *Pool) Release(e *entity.Entity) {
	p.free[e.Kind()] = append(p.free[e.Kind()], e)
	p.live--
}

// Allocations is the number of instances ever created by the pool.
func (p *Pool) Allocations() int {
	return p.allocated
}

// HighWater is the largest number of pooled instances live at once.
func (p *Pool) HighWater() int {
	return p.highWater
}

// Free returns the number of instances waiting in a kind's free list.
func (p *Pool) Free(kind string) int {
	return len(p.free[kind])
}
