package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

// BodyRadius returns an entity's collision radius. It uses the same
// maturity scale the renderer uses, so visual overlap and physical
// overlap agree.
func BodyRadius(d *components.Digit, cfg *config.Config) float32 {
	return float32(cfg.Entity.BaseRadius) * d.MaturityScale(float32(cfg.Entity.BirthScale), cfg.Derived.MatureFrames)
}

// collisionBody caches one entity's physics state for the pair passes.
// Component pointers stay valid between the collect query and the
// passes because nothing structural happens in between.
type collisionBody struct {
	pos    *components.Position
	vel    *components.Velocity
	radius float32
}

// CollisionSystem resolves pairwise overlap between live entities.
// Two interchangeable policies exist; the hard positional resolver is
// the production default, the soft velocity-spring variant is selected
// with collision.policy: soft.
type CollisionSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Digit]
	rng    *rand.Rand

	bodies []collisionBody // scratch, reused across ticks
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem(w *ecs.World, rng *rand.Rand) *CollisionSystem {
	return &CollisionSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Digit](w),
		rng:    rng,
	}
}

// Update collects live bodies and runs the configured resolver.
func (s *CollisionSystem) Update(w *ecs.World) {
	cfg := config.Cfg()

	s.bodies = s.bodies[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, d := query.Get()
		s.bodies = append(s.bodies, collisionBody{pos: pos, vel: vel, radius: BodyRadius(d, cfg)})
	}

	if cfg.Collision.Policy == "soft" {
		s.resolveSoft(cfg)
		return
	}
	s.resolveHard(cfg)
}

// resolveHard pushes overlapping pairs apart by half the overlap each
// and applies an elastic impulse along the contact normal. Several
// passes per frame reduce residual overlap from chained contacts.
func (s *CollisionSystem) resolveHard(cfg *config.Config) {
	bounce := float32(cfg.Collision.Bounce)
	minSep := float32(cfg.Collision.MinSeparation)
	passes := cfg.Collision.Passes
	if passes < 1 {
		passes = 1
	}

	for pass := 0; pass < passes; pass++ {
		for i := 0; i < len(s.bodies); i++ {
			for j := i + 1; j < len(s.bodies); j++ {
				a, b := &s.bodies[i], &s.bodies[j]

				dx := b.pos.X - a.pos.X
				dy := b.pos.Y - a.pos.Y
				minDist := a.radius + b.radius + minSep
				distSq := dx*dx + dy*dy
				if distSq >= minDist*minDist {
					continue
				}

				dist := float32(math.Sqrt(float64(distSq)))
				nx, ny := s.contactNormal(dx, dy, dist)
				overlap := minDist - dist

				half := overlap / 2
				a.pos.X -= nx * half
				a.pos.Y -= ny * half
				b.pos.X += nx * half
				b.pos.Y += ny * half

				// Impulse only when the pair is approaching.
				rvn := (b.vel.X-a.vel.X)*nx + (b.vel.Y-a.vel.Y)*ny
				if rvn < 0 {
					impulse := rvn * bounce
					a.vel.X += nx * impulse
					a.vel.Y += ny * impulse
					b.vel.X -= nx * impulse
					b.vel.Y -= ny * impulse
				}
			}
		}
	}
}

// resolveSoft applies a velocity-only spring proportional to overlap,
// capped at a maximum force, then damps both velocities to keep the
// oscillation from growing.
func (s *CollisionSystem) resolveSoft(cfg *config.Config) {
	stiffness := float32(cfg.Collision.SoftStiffness)
	maxForce := float32(cfg.Collision.SoftMaxForce)
	damping := float32(cfg.Collision.SoftDamping)
	minSep := float32(cfg.Collision.MinSeparation)

	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := &s.bodies[i], &s.bodies[j]

			dx := b.pos.X - a.pos.X
			dy := b.pos.Y - a.pos.Y
			minDist := a.radius + b.radius + minSep
			distSq := dx*dx + dy*dy
			if distSq >= minDist*minDist {
				continue
			}

			dist := float32(math.Sqrt(float64(distSq)))
			nx, ny := s.contactNormal(dx, dy, dist)

			force := (minDist - dist) * stiffness
			if force > maxForce {
				force = maxForce
			}

			a.vel.X -= nx * force
			a.vel.Y -= ny * force
			b.vel.X += nx * force
			b.vel.Y += ny * force

			a.vel.X *= damping
			a.vel.Y *= damping
			b.vel.X *= damping
			b.vel.Y *= damping
		}
	}
}

// contactNormal returns the unit normal for a pair, picking a random
// direction for exactly coincident centers.
func (s *CollisionSystem) contactNormal(dx, dy, dist float32) (nx, ny float32) {
	if dist < 1e-6 {
		angle := s.rng.Float32() * 2 * math.Pi
		sin, cos := sincos(angle)
		return cos, sin
	}
	return dx / dist, dy / dist
}
