package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

// CrossSum returns the digital root of a+b: digits are summed and
// re-summed until a single digit remains. The offspring of a '7' and
// an '8' is a '6'.
func CrossSum(a, b int) int {
	sum := a + b
	for sum > 9 {
		next := 0
		for sum > 0 {
			next += sum % 10
			sum /= 10
		}
		sum = next
	}
	return sum
}

// Spawner creates offspring on behalf of the reproduction system. The
// game's lifecycle layer implements it so that population counters and
// parent/child back-links stay in one place.
type Spawner interface {
	// Population returns the current live-entity count.
	Population() int
	// SpawnChild creates a newborn at the given point with zero velocity.
	SpawnChild(name byte, sex components.Sex, x, y float32, mother, father ecs.Entity) ecs.Entity
}

// birth holds a due delivery collected during the scan. Spawning is
// deferred until the query closes because entity creation is a
// structural change.
type birth struct {
	mother ecs.Entity
	father ecs.Entity
}

// ReproductionSystem advances gestation and delivers offspring.
//
// The population cap is checked once per tick, before the scan: a tick
// in which several pairs complete gestation simultaneously may push the
// population slightly over the cap. That overrun is accepted behavior,
// not corrected retroactively.
type ReproductionSystem struct {
	filter   ecs.Filter3[components.Position, components.Digit, components.Relations]
	posMap   *ecs.Map1[components.Position]
	digitMap *ecs.Map1[components.Digit]
	relMap   *ecs.Map1[components.Relations]
	rng      *rand.Rand

	// OnBirth is invoked after each completed delivery.
	OnBirth func(child, mother, father ecs.Entity)

	due []birth // scratch
}

// NewReproductionSystem creates a new reproduction system.
func NewReproductionSystem(w *ecs.World, rng *rand.Rand) *ReproductionSystem {
	return &ReproductionSystem{
		filter:   *ecs.NewFilter3[components.Position, components.Digit, components.Relations](w),
		posMap:   ecs.NewMap1[components.Position](w),
		digitMap: ecs.NewMap1[components.Digit](w),
		relMap:   ecs.NewMap1[components.Relations](w),
		rng:      rng,
	}
}

// Update runs one reproduction tick: decrement gestation timers by the
// frame increment and deliver where a timer ran out with the bonded
// mate still alive.
func (s *ReproductionSystem) Update(w *ecs.World, sp Spawner, tick int32, frames float32) {
	cfg := config.Cfg()

	if sp.Population() >= cfg.Mating.PopulationCap {
		return
	}

	s.due = s.due[:0]
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		_, d, rel := query.Get()

		if d.Sex != components.Female || d.Gestation <= 0 {
			continue
		}

		d.Gestation -= frames
		if d.Gestation > 0 {
			continue
		}
		d.Gestation = 0

		if !handleAlive(w, rel.Mate) {
			// Bond died mid-gestation; the integrity sweep already
			// cleared one side, make sure ours is gone too.
			rel.Mate = noEntity
			continue
		}

		s.due = append(s.due, birth{mother: entity, father: rel.Mate})
	}

	for _, b := range s.due {
		s.deliver(w, sp, b, tick, cfg)
	}
}

// deliver spawns one offspring and clears the parents' bond in the
// same step, so no observer ever sees a half-cleared pair.
func (s *ReproductionSystem) deliver(w *ecs.World, sp Spawner, b birth, tick int32, cfg *config.Config) {
	md := s.digitMap.Get(b.mother)
	fd := s.digitMap.Get(b.father)
	mpos := s.posMap.Get(b.mother)
	fpos := s.posMap.Get(b.father)
	mrel := s.relMap.Get(b.mother)
	frel := s.relMap.Get(b.father)

	// A parent stripped of its components between the scan and the
	// delivery degrades to a skipped birth, never a crash.
	if md == nil || fd == nil || mpos == nil || fpos == nil || mrel == nil || frel == nil {
		if mrel != nil {
			mrel.Mate = noEntity
		}
		if frel != nil {
			frel.Mate = noEntity
		}
		return
	}

	name := byte('0' + CrossSum(md.Value(), fd.Value()))

	sex := components.Male
	if s.rng.Float32() < 0.5 {
		sex = components.Female
	}

	offset := float32(cfg.Spawn.Offset)
	x := (mpos.X+fpos.X)/2 + (s.rng.Float32()*2-1)*offset
	y := (mpos.Y+fpos.Y)/2 + (s.rng.Float32()*2-1)*offset

	child := sp.SpawnChild(name, sex, x, y, b.mother, b.father)

	mrel.Mate = noEntity
	frel.Mate = noEntity
	md.LastBirth = tick
	fd.LastBirth = tick

	if s.OnBirth != nil {
		s.OnBirth(child, b.mother, b.father)
	}
}
