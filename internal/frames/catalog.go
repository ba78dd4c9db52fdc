package frames

import (
	"errors"
	"fmt"
	"sort"
)

// Catalog is the set of kinds a scene can spawn.
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog returns a catalog holding the given tables.
func NewCatalog(tables ...*Table) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers a table. Kinds must be unique.
func (c *Catalog) Add(t *Table) error {
	if _, dup := c.tables[t.Kind]; dup {
		return fmt.Errorf("frames: duplicate kind %q", t.Kind)
	}
	c.tables[t.Kind] = t
	return nil
}

// Get returns the table for a kind.
func (c *Catalog) Get(kind string) (*Table, bool) {
	t, ok := c.tables[kind]
	return t, ok
}

// MustGet returns the table for a kind or panics.
func (c *Catalog) MustGet(kind string) *Table {
	t, ok := c.tables[kind]
	if !ok {
		panic(fmt.Sprintf("frames: unknown kind %q", kind))
	}
	return t
}

// Kinds returns every kind in sorted order.
func (c *Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c.tables))
	for k := range c.tables {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Fighters returns the kinds that have hit points, in sorted order.
func (c *Catalog) Fighters() []string {
	var out []string
	for _, k := range c.Kinds() {
		if c.tables[k].HP > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Validate checks every table and the references between kinds.
func (c *Catalog) Validate() error {
	var errs []error
	for _, kind := range c.Kinds() {
		t := c.tables[kind]
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
		for _, id := range t.FrameIDs() {
			o := t.Frames[id].OPoint
			if o == nil {
				continue
			}
			other, ok := c.tables[o.Kind]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: frame %d: object kind %q does not exist", kind, id, o.Kind))
				continue
			}
			if _, ok := other.Frames[Translate(o.Action)]; !ok {
				errs = append(errs, fmt.Errorf("%s: frame %d: object %s action %d does not exist", kind, id, o.Kind, o.Action))
			}
		}
		// Hit sparks always start on frame 0, which Table.Validate already requires.
		effects := []struct {
			kind   string
			action int
		}{
			{t.Special.HitEffect, 0},
			{t.Special.LandEffect, t.Special.LandEffectY},
		}
		for _, ref := range effects {
			if ref.kind == "" {
				continue
			}
			other, ok := c.tables[ref.kind]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: effect kind %q does not exist", kind, ref.kind))
				continue
			}
			if _, ok := other.Frames[Translate(ref.action)]; !ok {
				errs = append(errs, fmt.Errorf("%s: effect %s action %d does not exist", kind, ref.kind, ref.action))
			}
		}
	}
	return errors.Join(errs...)
}
