package scene

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/entity"
	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/geom"
	"github.com/vovakirdan/tui-brawl/internal/physics"
)

const floorTop = 200.0

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	catalog, err := frames.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{
		Env:          physics.Env{Gravity: 0.6, Friction: 0.4},
		Horizon:      1,
		LandingDepth: 4,
	}, catalog)
	s.AddPlatform(geom.NewRect(400, 10), geom.V(200, floorTop+10), false)
	return s
}

func fighter(s *Scene, x float64, team int, player core.PlayerID) *entity.Entity {
	h := s.Spawn(entity.Spawn{Kind: "brawler", Position: geom.V(x, floorTop-40), Direction: 1, Team: team})
	e := s.MustGet(h)
	e.Player = player
	return e
}

func run(s *Scene, ticks int) {
	for i := 0; i < ticks; i++ {
		s.Tick(nil)
	}
}

func bottom(e *entity.Entity) float64 {
	_, maxY := geom.Project(e.Body.Hurtbox(), geom.Down)
	return maxY
}

func TestPoolReusesReleasedEntities(t *testing.T) {
	s := newTestScene(t)
	const n = 5
	var hs []entity.Handle
	for i := 0; i < n; i++ {
		hs = append(hs, s.Spawn(entity.Spawn{Kind: "spark", Position: geom.V(float64(i), 0)}))
	}
	for _, h := range hs {
		s.Destroy(h)
	}
	if got := s.Pool().Free("spark"); got != n {
		t.Errorf("Free(spark) = %d, expected %d", got, n)
	}
	for i := 0; i < n; i++ {
		s.Spawn(entity.Spawn{Kind: "spark"})
	}
	if s.Pool().Allocations() != n || s.Pool().HighWater() != n {
		t.Errorf("Allocations, HighWater = %d, %d, expected %d, %d",
			s.Pool().Allocations(), s.Pool().HighWater(), n, n)
	}
}

func TestPoolNotUsedForFighters(t *testing.T) {
	s := newTestScene(t)
	h := s.Spawn(entity.Spawn{Kind: "brawler"})
	s.Destroy(h)
	if s.Pool().Allocations() != 0 || s.Pool().Free("brawler") != 0 {
		t.Error("non-poolable kinds should bypass the pool")
	}
}

func TestStaleHandles(t *testing.T) {
	s := newTestScene(t)
	h := s.Spawn(entity.Spawn{Kind: "spark"})
	if !s.Destroy(h) {
		t.Fatal("Destroy() = false for a live handle")
	}
	if s.Destroy(h) {
		t.Error("second Destroy() should be ignored")
	}
	if _, ok := s.Get(h); ok {
		t.Error("Get() should fail for a destroyed handle")
	}
	h2 := s.Spawn(entity.Spawn{Kind: "spark"})
	if h2.Index != h.Index || h2.Gen == h.Gen {
		t.Errorf("reused slot handle = %v, expected index %d with a new generation", h2, h.Index)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustGet() of a stale handle should panic")
		}
	}()
	s.MustGet(h)
}

func TestSpawnUnknownKindPanics(t *testing.T) {
	s := newTestScene(t)
	defer func() {
		if recover() == nil {
			t.Error("Spawn() of an unknown kind should panic")
		}
	}()
	s.Spawn(entity.Spawn{Kind: "dragon"})
}

func TestDeferredTasksRunAfterStepsInOrder(t *testing.T) {
	s := newTestScene(t)
	victim := s.Spawn(entity.Spawn{Kind: "spark", Position: geom.V(1, 1)})

	s.tasks.Spawn(entity.Spawn{Kind: "dust", Position: geom.V(2, 2)})
	s.tasks.Destroy(victim)
	s.tasks.Destroy(victim)
	s.tasks.Spawn(entity.Spawn{Kind: "spark", Position: geom.V(3, 3)})

	report := s.Tick(nil)
	if s.tasks.Len() != 0 {
		t.Errorf("queue length = %d, expected drained", s.tasks.Len())
	}
	if report.Spawned != 2 || report.Destroyed != 1 {
		t.Errorf("report = %+v, expected 2 spawned and 1 destroyed", report)
	}

	es := s.Entities()
	if len(es) != 2 {
		t.Fatalf("live = %d, expected 2", len(es))
	}
	if es[0].Kind() != "dust" || es[1].Kind() != "spark" {
		t.Errorf("order = %s, %s, expected dust, spark", es[0].Kind(), es[1].Kind())
	}
	for _, e := range es {
		if want := 1 + e.Data().Wait; e.Wait != want {
			t.Errorf("%s Wait = %d, expected untouched %d", e.Kind(), e.Wait, want)
		}
	}
}

func TestEffectsExpireThroughDestroySentinel(t *testing.T) {
	s := newTestScene(t)
	s.Spawn(entity.Spawn{Kind: "spark"})
	run(s, 10)
	if s.Len() != 0 {
		t.Errorf("live = %d, expected spark gone", s.Len())
	}
	if s.Pool().Free("spark") != 1 {
		t.Error("expired spark should return to the pool")
	}
}

func TestFighterLandsAndStands(t *testing.T) {
	s := newTestScene(t)
	e := fighter(s, 100, 1, 0)

	sawCrouch := false
	dust := false
	for i := 0; i < 60; i++ {
		s.Tick(nil)
		if e.Frame == e.Table.Special.Crouch {
			sawCrouch = true
		}
		for _, o := range s.Entities() {
			if o.Kind() == "dust" {
				dust = true
			}
		}
	}
	if !sawCrouch {
		t.Error("landing should pass through the crouch frame")
	}
	if !dust {
		t.Error("landing should spawn dust")
	}
	if !e.Body.Grounded {
		t.Error("fighter should be grounded")
	}
	if e.State() != frames.StateStanding {
		t.Errorf("state = %v, expected standing", e.State())
	}
	if b := bottom(e); math.Abs(b-floorTop) > 0.5 {
		t.Errorf("hurtbox bottom = %v, expected resting on %v", b, floorTop)
	}
}

func TestFighterFallsOffLedge(t *testing.T) {
	s := newTestScene(t)
	e := fighter(s, 100, 1, 0)
	run(s, 60)
	if !e.Body.Grounded {
		t.Fatal("fighter should be grounded before walking off")
	}

	e.Body.Position[0] = 900 // past the floor's right edge
	s.Tick(nil)
	if e.Body.Grounded {
		t.Error("fighter should not be grounded off the ledge")
	}
	if e.Frame != e.Table.Special.Air {
		t.Errorf("Frame = %d, expected air frame %d", e.Frame, e.Table.Special.Air)
	}
}

func TestOverlapFlagClearsOnceApart(t *testing.T) {
	s := newTestScene(t)
	e := fighter(s, 100, 1, 0)
	e.Body.Position = geom.V(100, floorTop-10)
	e.Body.Velocity = geom.Zero
	s.Tick(nil)
	if !e.Body.Overlapping {
		t.Fatal("Overlapping = false, expected true after sinking into the floor")
	}

	e.Body.Position = geom.V(100, 40)
	e.Body.Velocity = geom.Zero
	s.Tick(nil)
	if e.Body.Overlapping {
		t.Error("Overlapping = true, expected false with nothing nearby")
	}
}

func TestOneWayPlatform(t *testing.T) {
	s := newTestScene(t)
	s.AddPlatform(geom.NewRect(60, 2), geom.V(100, 100), true)
	e := fighter(s, 100, 1, 0)
	e.Body.Position = geom.V(100, 130)
	e.Body.Velocity = geom.V(0, -12)
	e.SetFrame(e.Table.Special.Air)

	run(s, 80)
	if !e.Body.Grounded {
		t.Fatal("fighter should land on the one-way platform")
	}
	if b := bottom(e); math.Abs(b-98) > 0.5 {
		t.Errorf("hurtbox bottom = %v, expected on platform top 98", b)
	}
}

func TestSolidPlatformBlocksFromBelow(t *testing.T) {
	s := newTestScene(t)
	s.AddPlatform(geom.NewRect(60, 2), geom.V(100, 100), false)
	e := fighter(s, 100, 1, 0)
	e.Body.Position = geom.V(100, 130)
	e.Body.Velocity = geom.V(0, -12)
	e.SetFrame(e.Table.Special.Air)

	for i := 0; i < 10; i++ {
		s.Tick(nil)
		if top, _ := geom.Project(e.Body.Hurtbox(), geom.Down); top < 102-0.5 {
			t.Fatalf("tick %d: hurtbox top %v passed through the platform bottom", i, top)
		}
	}
}

func TestPunchConnects(t *testing.T) {
	s := newTestScene(t)
	attacker := fighter(s, 100, 1, core.Player1)
	victim := fighter(s, 112, 2, 0)
	victim.Face(-1)
	run(s, 60)

	var hits []HitReport
	inputs := map[core.PlayerID]core.Controller{core.Player1: {Combos: []string{core.ComboAttack}}}
	hits = append(hits, s.Tick(inputs).Hits...)
	for i := 0; i < 10; i++ {
		hits = append(hits, s.Tick(nil).Hits...)
	}

	if len(hits) != 1 {
		t.Fatalf("hits = %d, expected 1", len(hits))
	}
	if hits[0].Attacker != attacker.Handle || hits[0].Victim != victim.Handle || hits[0].Damage != 8 {
		t.Errorf("hit = %+v", hits[0])
	}
	if victim.HP != 92 {
		t.Errorf("victim HP = %d, expected 92", victim.HP)
	}
	if attacker.HP != 100 {
		t.Errorf("attacker HP = %d, expected untouched", attacker.HP)
	}
}

func TestDefendHalvesDamage(t *testing.T) {
	s := newTestScene(t)
	fighter(s, 100, 1, core.Player1)
	victim := fighter(s, 112, 2, core.Player2)
	victim.Face(-1)
	run(s, 60)

	s.Tick(map[core.PlayerID]core.Controller{
		core.Player1: {Combos: []string{core.ComboAttack}},
		core.Player2: {Combos: []string{core.ComboDefend}},
	})
	var hits []HitReport
	for i := 0; i < 6; i++ {
		hits = append(hits, s.Tick(nil).Hits...)
	}
	if len(hits) != 1 || !hits[0].Blocked {
		t.Fatalf("hits = %+v, expected one blocked hit", hits)
	}
	if victim.HP != 96 {
		t.Errorf("victim HP = %d, expected 96", victim.HP)
	}
}

func TestSameTeamDoesNotHit(t *testing.T) {
	s := newTestScene(t)
	fighter(s, 100, 1, core.Player1)
	mate := fighter(s, 112, 1, 0)
	run(s, 60)
	s.Tick(map[core.PlayerID]core.Controller{core.Player1: {Combos: []string{core.ComboAttack}}})
	run(s, 10)
	if mate.HP != 100 {
		t.Errorf("teammate HP = %d, expected 100", mate.HP)
	}
}

func TestProjectileLeavesBounds(t *testing.T) {
	s := newTestScene(t)
	s.cfg.Bounds = Bounds{Min: geom.V(0, 0), Max: geom.V(400, 300)}
	s.Spawn(entity.Spawn{Kind: "energy", Position: geom.V(390, 150), Velocity: geom.V(6, 0), Direction: 1})
	run(s, 5)
	for _, e := range s.Entities() {
		if e.Kind() == "energy" {
			t.Fatal("energy ball should be destroyed outside bounds")
		}
	}
}

func TestSpritesFollowInsertionOrder(t *testing.T) {
	s := newTestScene(t)
	a := fighter(s, 50, 1, core.Player1)
	b := fighter(s, 150, 2, core.Player2)
	sp := s.Sprites()
	if len(sp) != 2 || sp[0].Handle != a.Handle || sp[1].Handle != b.Handle {
		t.Fatalf("Sprites() = %+v", sp)
	}
	if sp[0].Player != core.Player1 || sp[0].Kind != "brawler" {
		t.Errorf("sprite = %+v", sp[0])
	}
}
