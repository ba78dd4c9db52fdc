package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-brawl/internal/collision"
	"github.com/vovakirdan/tui-brawl/internal/geom"
)

var testEnv = Env{Gravity: 0.5, Friction: 0.25}

func newTestBody(mass float64) *Body {
	return NewBody(geom.NewRect(1, 1), geom.NewRect(1, 1.5), geom.V(0, 0), mass)
}

func TestUpdateIntegratesPositionBeforeGravity(t *testing.T) {
	b := newTestBody(2)
	b.Velocity = geom.V(1, 0)

	b.Update(testEnv)

	if b.Position != geom.V(1, 0) {
		t.Errorf("Position = %v, expected (1, 0)", b.Position)
	}
	if b.Velocity[1] != 1 {
		t.Errorf("Velocity.Y = %f, expected mass*gravity = 1", b.Velocity[1])
	}
}

func TestUpdateWeightless(t *testing.T) {
	b := newTestBody(0)
	b.Velocity = geom.V(2, 0)

	for i := 0; i < 10; i++ {
		b.Update(testEnv)
	}

	if b.Velocity != geom.V(2, 0) {
		t.Errorf("weightless body velocity changed to %v", b.Velocity)
	}
	if b.Position != geom.V(20, 0) {
		t.Errorf("Position = %v, expected (20, 0)", b.Position)
	}
}

func TestUpdateFrictionClampsAtZero(t *testing.T) {
	b := newTestBody(0)
	b.Grounded = true
	b.Velocity = geom.V(0.6, 0)

	b.Update(testEnv)
	if math.Abs(b.Velocity[0]-0.35) > 1e-9 {
		t.Errorf("Velocity.X = %f, expected 0.35", b.Velocity[0])
	}

	b.Update(testEnv)
	b.Update(testEnv)
	if b.Velocity[0] != 0 {
		t.Errorf("friction should stop at zero, got %f", b.Velocity[0])
	}

	b.Velocity = geom.V(-0.1, 0)
	b.Update(testEnv)
	if b.Velocity[0] != 0 {
		t.Errorf("friction should not overshoot past zero, got %f", b.Velocity[0])
	}
}

func TestUpdateNoFrictionInAir(t *testing.T) {
	b := newTestBody(0)
	b.Velocity = geom.V(1, 0)

	b.Update(testEnv)
	if b.Velocity[0] != 1 {
		t.Errorf("airborne body should keep X velocity, got %f", b.Velocity[0])
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	p := NewPlatform(geom.NewRect(10, 1), geom.V(0, 10), false)
	p.Velocity = geom.V(1, 1)

	p.Update(testEnv)
	p.Force(5, AxisX, 0)

	if p.Position != geom.V(0, 10) {
		t.Errorf("platform moved to %v", p.Position)
	}
}

func TestForceBoundedApproach(t *testing.T) {
	b := newTestBody(1)

	b.Force(3, AxisX, 1)
	if b.Velocity[0] != 1 {
		t.Errorf("Velocity.X = %f, expected 1 after one capped step", b.Velocity[0])
	}

	b.Force(3, AxisX, 1)
	b.Force(3, AxisX, 1)
	b.Force(3, AxisX, 1)
	if b.Velocity[0] != 3 {
		t.Errorf("Velocity.X = %f, expected target 3", b.Velocity[0])
	}
}

func TestForceDefaultAccelerationSnaps(t *testing.T) {
	b := newTestBody(1)

	b.Force(-4, AxisY, 0)
	if b.Velocity[1] != -4 {
		t.Errorf("Velocity.Y = %f, expected -4", b.Velocity[1])
	}
}

func TestForceReversalClampsToZeroFirst(t *testing.T) {
	b := newTestBody(1)
	b.Velocity = geom.V(5, 0)

	b.Force(-2, AxisX, 1)
	if b.Velocity[0] != -1 {
		t.Errorf("Velocity.X = %f, expected -1 (zeroed, then one step)", b.Velocity[0])
	}
}

func TestForceKeepsFasterMotion(t *testing.T) {
	b := newTestBody(1)
	b.Velocity = geom.V(6, 0)

	b.Force(2, AxisX, 1)
	if b.Velocity[0] != 6 {
		t.Errorf("Velocity.X = %f, expected dash speed 6 to be kept", b.Velocity[0])
	}
}

func TestApplyImpact(t *testing.T) {
	b := newTestBody(1)
	b.Velocity = geom.V(1, 4)

	b.ApplyImpact(collision.Impact{
		Time:       0.5,
		Axis:       geom.Down,
		Correction: geom.V(0, -4*1.01),
	})

	if b.Position != geom.V(0, 2) {
		t.Errorf("Position = %v, expected (0, 2) at contact", b.Position)
	}
	if math.Abs(b.Velocity[1]+0.04) > 1e-9 || b.Velocity[0] != 1 {
		t.Errorf("Velocity = %v, expected (1, -0.04)", b.Velocity)
	}
}

func TestOneWayPlatform(t *testing.T) {
	p := NewPlatform(geom.NewRect(10, 1), geom.V(0, 0), true)

	dir, ok := p.Passthrough()
	if !ok || dir != geom.Down {
		t.Errorf("Passthrough() = %v, %v, expected Down, true", dir, ok)
	}
}

func TestSolidUsesHurtbox(t *testing.T) {
	b := NewBody(geom.NewRect(2, 2), geom.NewRect(2, 3), geom.V(0, 0), 1)
	if got, want := b.Solid().Hull(), b.Hurtbox(); got != want {
		t.Errorf("Solid().Hull() = %v, expected hurtbox %v", got, want)
	}
	if b.Hull() == b.Hurtbox() {
		t.Error("Hull() should differ from the hurtbox in this setup")
	}
}

func TestLandCancelsInwardVelocity(t *testing.T) {
	b := NewBody(geom.NewRect(1, 1), geom.NewRect(1, 1), geom.V(0, 0), 1)
	b.Velocity = geom.V(2, 5)
	b.Land(geom.V(0, -0.5))
	if b.Velocity != geom.V(2, 0) {
		t.Errorf("Velocity = %v, expected (2, 0)", b.Velocity)
	}

	b.Velocity = geom.V(1, -3)
	b.Land(geom.V(0, -0.5))
	if b.Velocity != geom.V(1, -3) {
		t.Errorf("moving away should keep velocity, got %v", b.Velocity)
	}
}
