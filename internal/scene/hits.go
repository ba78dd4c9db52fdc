package scene

import (
	"github.com/vovakirdan/tui-brawl/internal/collision"
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/physics"
)

// TickReport summarizes what happened during one tick.
type TickReport struct {
	Tick      uint64
	Hits      []HitReport
	Spawned   int
	Destroyed int
}

// HitReport describes one attack that connected.
type HitReport struct {
	Attacker entity.Handle
	Victim   entity.Handle
	Damage   int
	Blocked  bool
	KO       bool
}

// resolveHits overlaps every active attack box with the hurtboxes of
// entities on other teams. An attacker that connects rests for the hit's
// rest time before it can connect again.
func (s *Scene) resolveHits(live []entity.Handle) {
	for _, ah := range live {
		a := s.slots[ah.Index].e
		if a.AttackRest > 0 {
			continue
		}
		box, hit, ok := a.AttackBox()
		if !ok {
			continue
		}

		connected := false
		for _, vh := range live {
			v := s.slots[vh.Index].e
			if !hittable(a, v) {
				continue
			}
			if _, ok := collision.ResolveStaticOverlap(box, v.Body.Hurtbox()); !ok {
				continue
			}
			s.applyHit(a, v, hit, box)
			connected = true
		}
		if !connected {
			continue
		}
		a.AttackRest = max(hit.Rest, 1)
		if a.State() == frames.StateProjectile {
			s.impact(a)
		}
	}
}

func hittable(a, v *entity.Entity) bool {
	if a == v || v.Table.HP <= 0 {
		return false
	}
	if a.Team != 0 && a.Team == v.Team {
		return false
	}
	if a.Owner == v.Handle {
		return false
	}
	return v.State() != frames.StateLying
}

func (s *Scene) applyHit(a, v *entity.Entity, hit *frames.Hit, box geom.Polygon) {
	dir := a.Direction
	if a.State() == frames.StateProjectile && a.Body.Velocity.X() != 0 {
		dir = int(geom.Sign(a.Body.Velocity.X()))
	}

	blocked := v.State() == frames.StateDefending && v.Direction == -dir
	damage, kx, ky := hit.Damage, hit.DVX, hit.DVY
	if blocked {
		damage /= 2
		kx /= 2
		ky = 0
	}

	v.HP = max(v.HP-damage, 0)
	v.Face(-dir)
	if kx != 0 {
		v.Body.Force(kx*float64(dir), physics.AxisX, 0)
	}
	if ky != 0 {
		v.Body.Velocity[1] = ky
	}

	sp := v.Table.Special
	switch {
	case blocked:
		v.NextFrame = sp.DefendHit
	case hit.Fall || v.HP == 0:
		v.NextFrame = sp.Fall
	default:
		v.NextFrame = sp.Injured
	}

	if kind := a.Table.Special.HitEffect; kind != "" {
		at := geom.Center(box).Add(geom.Center(v.Body.Hurtbox())).Mul(0.5)
		s.tasks.Spawn(entity.Spawn{Kind: kind, Position: at, Direction: dir, Team: a.Team, Owner: a.Handle})
	}

	s.report.Hits = append(s.report.Hits, HitReport{
		Attacker: a.Handle,
		Victim:   v.Handle,
		Damage:   damage,
		Blocked:  blocked,
		KO:       v.HP == 0,
	})
	s.log.Debug("hit", "attacker", a.Kind(), "victim", v.Kind(), "damage", damage, "blocked", blocked, "hp", v.HP)
}
