package formats

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// ExportJSON renders a document as JSON readable by ParseJSON. Frame and
// sprite maps are written with ascending numeric keys.
func ExportJSON(doc Document) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}
	setRaw := func(path string, raw []byte) {
		if err != nil {
			return
		}
		out, err = sjson.SetRawBytes(out, path, raw)
	}

	set("kind", doc.Kind)
	set("name", doc.Name)
	set("hp", doc.HP)
	set("mass", doc.Mass)
	set("poolable", doc.Poolable)
	set("ignore_passthrough", doc.IgnorePassthrough)
	set("hurtbox", shapeMap(doc.Hurtbox))
	set("hull", shapeMap(doc.Hull))
	set("moves.walk", doc.Moves.Walk)
	set("moves.run", doc.Moves.Run)
	set("moves.air_x", doc.Moves.AirX)
	set("moves.air_ac", doc.Moves.AirAc)

	sp := doc.Special
	set("special.walking", sp.Walking)
	set("special.running", sp.Running)
	set("special.stop_run", sp.StopRun)
	set("special.air", sp.Air)
	set("special.crouch", sp.Crouch)
	set("special.injured", sp.Injured)
	set("special.fall", sp.Fall)
	set("special.lying", sp.Lying)
	set("special.defend_hit", sp.DefendHit)
	set("special.hit_effect", sp.HitEffect)
	set("special.land_effect", sp.LandEffect)
	set("special.land_effect_action", sp.LandEffectY)
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}

	sprites, err := numericObject(len(doc.Sprites), sortedKeys(doc.Sprites), func(k int) ([]byte, error) {
		return sjson.SetBytes([]byte(`{}`), "rows", doc.Sprites[k])
	}, "rows")
	if err != nil {
		return nil, fmt.Errorf("json export: sprites: %w", err)
	}
	setRaw("sprites", sprites)

	frames, err := numericObject(len(doc.Frames), sortedKeys(doc.Frames), func(k int) ([]byte, error) {
		return frameJSON(doc.Frames[k])
	}, "")
	if err != nil {
		return nil, fmt.Errorf("json export: frames: %w", err)
	}
	setRaw("frames", frames)

	for i, e := range doc.Effects {
		base := "effects." + strconv.Itoa(i)
		set(base+".from", e.From)
		set(base+".to", e.To)
		set(base+".vx", e.VX)
		set(base+".vy", e.VY)
		if e.ScaleX != nil {
			set(base+".scale_x", *e.ScaleX)
		}
		if e.ScaleY != nil {
			set(base+".scale_y", *e.ScaleY)
		}
		set(base+".set_x", e.SetX)
		set(base+".set_y", e.SetY)
		set(base+".force", e.Force)
	}
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}
	return out, nil
}

func frameJSON(f Frame) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}
	set("sprite", f.Sprite)
	set("wait", f.Wait)
	set("next", f.Next)
	set("state", f.State)
	if f.DVX != 0 {
		set("dvx", f.DVX)
	}
	if f.DVY != 0 {
		set("dvy", f.DVY)
	}
	if len(f.Combos) > 0 {
		set("combos", f.Combos)
	}
	if f.Hit != nil {
		set("hit.box", shapeMap(f.Hit.Box))
		set("hit.damage", f.Hit.Damage)
		set("hit.dvx", f.Hit.DVX)
		set("hit.dvy", f.Hit.DVY)
		set("hit.fall", f.Hit.Fall)
		set("hit.rest", f.Hit.Rest)
	}
	if o := f.OPoint; o != nil {
		set("opoint.kind", o.Kind)
		set("opoint.action", o.Action)
		set("opoint.x", o.X)
		set("opoint.y", o.Y)
		set("opoint.dvx", o.DVX)
		set("opoint.dvy", o.DVY)
		set("opoint.facing", o.Facing)
	}
	return out, err
}

func shapeMap(s geom.ShapeSpec) map[string]any {
	return map[string]any{
		"shape":    s.Shape,
		"half_w":   s.HalfW,
		"half_h":   s.HalfH,
		"offset_x": s.OffsetX,
		"offset_y": s.OffsetY,
	}
}

// numericObject joins per-key JSON values into an object keyed by the decimal
// ids. sjson treats numeric path components as array indexes, so the object
// is assembled here and inserted raw. When field is set, only that member of
// each rendered value is kept.
func numericObject(n int, keys []int, render func(int) ([]byte, error), field string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(n * 32)
	buf.WriteByte('{')
	for i, k := range keys {
		raw, err := render(k)
		if err != nil {
			return nil, err
		}
		if field != "" {
			raw = []byte(gjsonRaw(raw, field))
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(k)))
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
