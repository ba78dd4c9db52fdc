package formats

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/tui-brawl/internal/geom"
)

// ParseJSON parses a JSON frame table.
func ParseJSON(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("json: invalid document")
	}
	root := gjson.ParseBytes(data)
	doc := Document{
		Kind:              root.Get("kind").String(),
		Name:              root.Get("name").String(),
		HP:                int(root.Get("hp").Int()),
		Mass:              root.Get("mass").Float(),
		Poolable:          root.Get("poolable").Bool(),
		IgnorePassthrough: root.Get("ignore_passthrough").Bool(),
		Hurtbox:           shapeSpec(root.Get("hurtbox")),
		Hull:              shapeSpec(root.Get("hull")),
		Moves: Moves{
			Walk:  root.Get("moves.walk").Float(),
			Run:   root.Get("moves.run").Float(),
			AirX:  root.Get("moves.air_x").Float(),
			AirAc: root.Get("moves.air_ac").Float(),
		},
		Special: parseSpecial(root.Get("special")),
		Sprites: make(map[int][]string),
		Frames:  make(map[int]Frame),
	}

	var err error
	root.Get("sprites").ForEach(func(key, value gjson.Result) bool {
		idx, convErr := strconv.Atoi(key.String())
		if convErr != nil {
			err = fmt.Errorf("json: sprite key %q: %w", key.String(), convErr)
			return false
		}
		var rows []string
		for _, row := range value.Array() {
			rows = append(rows, row.String())
		}
		doc.Sprites[idx] = rows
		return true
	})
	if err != nil {
		return Document{}, err
	}

	root.Get("frames").ForEach(func(key, value gjson.Result) bool {
		id, convErr := strconv.Atoi(key.String())
		if convErr != nil {
			err = fmt.Errorf("json: frame key %q: %w", key.String(), convErr)
			return false
		}
		doc.Frames[id] = parseFrame(value)
		return true
	})
	if err != nil {
		return Document{}, err
	}

	for _, e := range root.Get("effects").Array() {
		doc.Effects = append(doc.Effects, parseEffect(e))
	}
	return doc, nil
}

func shapeSpec(r gjson.Result) geom.ShapeSpec {
	return geom.ShapeSpec{
		Shape:   r.Get("shape").String(),
		HalfW:   r.Get("half_w").Float(),
		HalfH:   r.Get("half_h").Float(),
		OffsetX: r.Get("offset_x").Float(),
		OffsetY: r.Get("offset_y").Float(),
	}
}

func ints(r gjson.Result) []int {
	var out []int
	for _, v := range r.Array() {
		out = append(out, int(v.Int()))
	}
	return out
}

func parseSpecial(r gjson.Result) Special {
	return Special{
		Walking:     ints(r.Get("walking")),
		Running:     ints(r.Get("running")),
		StopRun:     int(r.Get("stop_run").Int()),
		Air:         int(r.Get("air").Int()),
		Crouch:      int(r.Get("crouch").Int()),
		Injured:     int(r.Get("injured").Int()),
		Fall:        int(r.Get("fall").Int()),
		Lying:       int(r.Get("lying").Int()),
		DefendHit:   int(r.Get("defend_hit").Int()),
		HitEffect:   r.Get("hit_effect").String(),
		LandEffect:  r.Get("land_effect").String(),
		LandEffectY: int(r.Get("land_effect_action").Int()),
	}
}

func parseFrame(r gjson.Result) Frame {
	f := Frame{
		Sprite: int(r.Get("sprite").Int()),
		Wait:   int(r.Get("wait").Int()),
		Next:   int(r.Get("next").Int()),
		State:  r.Get("state").String(),
		DVX:    r.Get("dvx").Float(),
		DVY:    r.Get("dvy").Float(),
	}
	if combos := r.Get("combos"); combos.Exists() {
		f.Combos = make(map[string]int)
		combos.ForEach(func(k, v gjson.Result) bool {
			f.Combos[k.String()] = int(v.Int())
			return true
		})
	}
	if h := r.Get("hit"); h.Exists() {
		f.Hit = &Hit{
			Box:    shapeSpec(h.Get("box")),
			Damage: int(h.Get("damage").Int()),
			DVX:    h.Get("dvx").Float(),
			DVY:    h.Get("dvy").Float(),
			Fall:   h.Get("fall").Bool(),
			Rest:   int(h.Get("rest").Int()),
		}
	}
	if o := r.Get("opoint"); o.Exists() {
		f.OPoint = &OPoint{
			Kind:   o.Get("kind").String(),
			Action: int(o.Get("action").Int()),
			X:      o.Get("x").Float(),
			Y:      o.Get("y").Float(),
			DVX:    o.Get("dvx").Float(),
			DVY:    o.Get("dvy").Float(),
			Facing: int(o.Get("facing").Int()),
		}
	}
	return f
}

func parseEffect(r gjson.Result) Effect {
	e := Effect{
		From:  int(r.Get("from").Int()),
		To:    int(r.Get("to").Int()),
		VX:    r.Get("vx").Float(),
		VY:    r.Get("vy").Float(),
		SetX:  r.Get("set_x").Bool(),
		SetY:  r.Get("set_y").Bool(),
		Force: r.Get("force").Bool(),
	}
	if sx := r.Get("scale_x"); sx.Exists() {
		v := sx.Float()
		e.ScaleX = &v
	}
	if sy := r.Get("scale_y"); sy.Exists() {
		v := sy.Float()
		e.ScaleY = &v
	}
	return e
}

func gjsonRaw(data []byte, path string) string {
	return gjson.GetBytes(data, path).Raw
}
