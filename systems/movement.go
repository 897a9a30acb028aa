package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

// noEntity is the zero handle, meaning "no link".
var noEntity ecs.Entity

// handleAlive reports whether a relational handle points at a live entity.
func handleAlive(w *ecs.World, e ecs.Entity) bool {
	return e != noEntity && w.Alive(e)
}

// ResolvePhase recomputes the behavior tag for one entity from its
// relational state, in priority order: first match wins.
func ResolvePhase(w *ecs.World, d *components.Digit, rel *components.Relations, derived *config.DerivedConfig) components.Phase {
	if handleAlive(w, rel.Mother) && d.Age < derived.AdolescFrames {
		return components.PhaseChild
	}
	if d.Sex == components.Male && handleAlive(w, rel.Mate) {
		return components.PhaseBonded
	}
	if d.Sex == components.Male && d.Age >= derived.MatureFrames && d.Age < derived.OldFrames {
		return components.PhaseSeeking
	}
	return components.PhaseIdle
}

// eligibleMate reports whether a female qualifies as a seek target:
// mature, not old, not gestating, unbonded.
func eligibleMate(d *components.Digit, rel *components.Relations, derived *config.DerivedConfig) bool {
	return d.Sex == components.Female &&
		d.Age >= derived.MatureFrames && d.Age < derived.OldFrames &&
		d.Gestation == 0 &&
		rel.Mate == noEntity
}

// MovementSystem dispatches exactly one behavior per entity per tick:
// child-follow, mate-orbit, seeking, or idle jitter. Whichever ran, the
// resulting velocity is clamped to the configured maximum.
type MovementSystem struct {
	filter   ecs.Filter5[components.Position, components.Velocity, components.Digit, components.Relations, components.Motion]
	posMap   *ecs.Map1[components.Position]
	digitMap *ecs.Map1[components.Digit]
	relMap   *ecs.Map1[components.Relations]
	rng      *rand.Rand

	// OnBond is invoked when a seeking male bonds a female.
	OnBond func(male, female ecs.Entity)

	neighbors []Neighbor // query scratch, reused across entities
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World, rng *rand.Rand) *MovementSystem {
	return &MovementSystem{
		filter:   *ecs.NewFilter5[components.Position, components.Velocity, components.Digit, components.Relations, components.Motion](w),
		posMap:   ecs.NewMap1[components.Position](w),
		digitMap: ecs.NewMap1[components.Digit](w),
		relMap:   ecs.NewMap1[components.Relations](w),
		rng:      rng,
	}
}

// Update runs the behavior dispatch for every live entity.
func (s *MovementSystem) Update(w *ecs.World, grid *SpatialGrid, frames float32) {
	cfg := config.Cfg()

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, d, rel, mot := query.Get()

		d.Phase = ResolvePhase(w, d, rel, &cfg.Derived)

		switch d.Phase {
		case components.PhaseChild:
			s.orbit(pos, vel, mot, rel.Mother, cfg, childOrbit, frames)
		case components.PhaseBonded:
			s.orbit(pos, vel, mot, rel.Mate, cfg, mateOrbit, frames)
		case components.PhaseSeeking:
			s.seek(w, grid, entity, pos, vel, d, rel, cfg)
		default:
			s.idle(vel, d, cfg)
		}

		ClampSpeed(vel, float32(cfg.Movement.MaxSpeed))
	}
}

// orbit kinds
const (
	childOrbit = iota
	mateOrbit
)

// orbit runs the spring-physics orbit around a mother or mate. The
// orbit point advances slowly around the anchor; a small continuous
// jitter keeps the motion lively.
func (s *MovementSystem) orbit(pos *components.Position, vel *components.Velocity, mot *components.Motion, anchor ecs.Entity, cfg *config.Config, kind int, frames float32) {
	anchorPos := s.posMap.Get(anchor)
	if anchorPos == nil {
		return
	}

	radius := float32(cfg.Spring.BondedOffset) * mot.OrbitScale
	rate := float32(cfg.Spring.ChildOrbitRate)
	if kind == mateOrbit {
		radius *= float32(cfg.Spring.MateOffsetScale)
		rate = float32(cfg.Spring.MateOrbitRate)
	}

	mot.OrbitAngle += rate * frames
	sin, cos := sincos(mot.OrbitAngle)
	tx := anchorPos.X + cos*radius
	ty := anchorPos.Y + sin*radius

	SpringToward(vel, *pos, tx, ty,
		float32(cfg.Spring.Stiffness),
		float32(cfg.Spring.Damping),
		float32(cfg.Spring.MaxSpeed))

	jitter := float32(cfg.Spring.OrbitJitter)
	vel.X += (s.rng.Float32()*2 - 1) * jitter
	vel.Y += (s.rng.Float32()*2 - 1) * jitter
}

// seek finds the nearest eligible female, bonds when close enough, and
// steers toward the target by blending the current heading. With no
// candidate in range the male falls through to idle jitter.
func (s *MovementSystem) seek(w *ecs.World, grid *SpatialGrid, entity ecs.Entity, pos *components.Position, vel *components.Velocity, d *components.Digit, rel *components.Relations, cfg *config.Config) {
	target, targetDistSq := s.nearestFemale(grid, entity, pos, cfg)
	if target == noEntity {
		rel.Target = noEntity
		s.idle(vel, d, cfg)
		return
	}
	rel.Target = target

	td := s.digitMap.Get(target)
	trel := s.relMap.Get(target)

	// Bond when within mating distance and the target is still free.
	mateDist := float32(cfg.Mating.MateDistance)
	if targetDistSq <= mateDist*mateDist && eligibleMate(td, trel, &cfg.Derived) {
		rel.Mate = target
		trel.Mate = entity
		td.Gestation = cfg.Derived.GestationFrames
		if s.OnBond != nil {
			s.OnBond(entity, target)
		}
	}

	// Pursuit steers harder than drifting near an occupied target.
	blend := float32(cfg.Movement.WanderBlend)
	speed := float32(cfg.Movement.BaseSpeed * cfg.Movement.WanderSpeed)
	if eligibleMate(td, trel, &cfg.Derived) {
		blend = float32(cfg.Movement.PursueBlend)
		speed = float32(cfg.Movement.BaseSpeed * cfg.Movement.PursueSpeed)
	}

	tpos := s.posMap.Get(target)
	desired := float32(math.Atan2(float64(tpos.Y-pos.Y), float64(tpos.X-pos.X)))
	heading := s.heading(vel)
	heading += normalizeAngle(desired-heading) * blend

	sin, cos := sincos(heading)
	vel.X = cos * speed
	vel.Y = sin * speed
}

// nearestFemale scans the attraction radius for the closest eligible
// female. Ties break to the first candidate seen in scan order.
func (s *MovementSystem) nearestFemale(grid *SpatialGrid, entity ecs.Entity, pos *components.Position, cfg *config.Config) (ecs.Entity, float32) {
	s.neighbors = grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, float32(cfg.Mating.AttractionRadius), entity, s.posMap)

	best := noEntity
	bestDistSq := float32(math.MaxFloat32)
	for _, n := range s.neighbors {
		nd := s.digitMap.Get(n.E)
		nrel := s.relMap.Get(n.E)
		if nd == nil || nrel == nil || !eligibleMate(nd, nrel, &cfg.Derived) {
			continue
		}
		if n.DistSq < bestDistSq {
			best = n.E
			bestDistSq = n.DistSq
		}
	}
	return best, bestDistSq
}

// idle applies randomized jitter: heading perturbed by an age-dependent
// factor, speed re-rolled within a band around base speed and floored.
func (s *MovementSystem) idle(vel *components.Velocity, d *components.Digit, cfg *config.Config) {
	jitter := float32(cfg.Movement.JitterMid)
	if d.Age < cfg.Derived.AdolescFrames {
		jitter = float32(cfg.Movement.JitterYoung)
	} else if d.Age >= cfg.Derived.OldFrames {
		jitter = float32(cfg.Movement.JitterOld)
	}

	heading := s.heading(vel) + (s.rng.Float32()*2-1)*jitter

	base := float32(cfg.Movement.BaseSpeed)
	band := float32(cfg.Movement.SpeedBand)
	speed := base * (1 - band + s.rng.Float32()*2*band)
	floor := base * float32(cfg.Movement.MinSpeedFactor)
	if speed < floor {
		speed = floor
	}

	sin, cos := sincos(heading)
	vel.X = cos * speed
	vel.Y = sin * speed
}

// heading returns the entity's current heading, or a random one when
// the velocity is too small to define a direction.
func (s *MovementSystem) heading(vel *components.Velocity) float32 {
	if vel.X*vel.X+vel.Y*vel.Y < 1e-6 {
		return s.rng.Float32() * 2 * math.Pi
	}
	return float32(math.Atan2(float64(vel.Y), float64(vel.X)))
}
