package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
	"github.com/pthm-cable/digits/systems"
)

// noEntity is the zero handle, meaning "no link".
var noEntity ecs.Entity

// spawn creates one entity and registers it in the population counters.
// A newborn attached to a mother starts at the birth point with zero
// velocity; anyone else gets a random heading at speedFactor times the
// base speed. MaxAge is randomized around the configured mean so the
// population does not die in lockstep.
//
// Callers enforce the population cap; spawn itself never refuses.
func (g *Game) spawn(name byte, sex components.Sex, x, y, speedFactor float32, mother, father ecs.Entity) ecs.Entity {
	cfg := config.Cfg()

	pos := components.Position{X: x, Y: y}

	var vel components.Velocity
	if mother == noEntity {
		heading := g.rng.Float32() * 2 * math.Pi
		speed := speedFactor * float32(cfg.Movement.BaseSpeed)
		vel.X = float32(math.Cos(float64(heading))) * speed
		vel.Y = float32(math.Sin(float64(heading))) * speed
	}

	variation := float32(cfg.Age.Variation)
	maxAge := cfg.Derived.MaxAgeFrames * (1 + (g.rng.Float32()*2-1)*variation)

	d := components.Digit{
		Name:   name,
		Sex:    sex,
		MaxAge: maxAge,
	}
	rel := components.Relations{Mother: mother, Father: father}
	mot := components.Motion{
		OrbitAngle: g.rng.Float32() * 2 * math.Pi,
		OrbitScale: 0.8 + g.rng.Float32()*0.2,
	}

	entity := g.entityMapper.NewEntity(&pos, &vel, &d, &rel, &mot)

	if mother != noEntity {
		if mrel := g.relMap.Get(mother); mrel != nil {
			mrel.Children.Add(entity)
		}
	}
	if father != noEntity {
		if frel := g.relMap.Get(father); frel != nil {
			frel.Children.Add(entity)
		}
	}

	g.population++
	if sex == components.Female {
		g.females++
	} else {
		g.males++
	}
	if name >= '0' && name <= '9' {
		g.byDigit[name-'0']++
	}

	return entity
}

// SpawnChild creates a newborn for the reproduction system. Part of
// the Spawner contract.
func (g *Game) SpawnChild(name byte, sex components.Sex, x, y float32, mother, father ecs.Entity) ecs.Entity {
	child := g.spawn(name, sex, x, y, 0, mother, father)
	g.totalBirths++
	Logf("birth: %c (%s) at (%.0f, %.0f), population %d", name, sex, x, y, g.population)
	return child
}

// kill removes an entity from the world and severs every inbound
// relational reference held by other live entities. Without the sweep,
// stale handles would leak into movement and rendering as ghost
// targets.
func (g *Game) kill(entity ecs.Entity) {
	d := g.digitMap.Get(entity)
	if d == nil {
		return
	}

	g.population--
	if d.Sex == components.Female {
		g.females--
	} else {
		g.males--
	}
	if d.Name >= '0' && d.Name <= '9' {
		g.byDigit[d.Name-'0']--
	}

	// RemoveEntity, not the mapper's component removal: the handle must
	// die in the world so Alive-based liveness checks see the death.
	g.world.RemoveEntity(entity)
	g.sweepReferences(entity)
	g.collector.RecordDeath()
}

// sweepReferences clears every handle equal to the removed entity.
// Clearing a female's mate also cancels her gestation: a timer without
// a bond would violate the data model.
func (g *Game) sweepReferences(removed ecs.Entity) {
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, d, rel, _ := query.Get()

		if rel.Mate == removed {
			rel.Mate = noEntity
			d.Gestation = 0
		}
		if rel.Mother == removed {
			rel.Mother = noEntity
		}
		if rel.Father == removed {
			rel.Father = noEntity
		}
		if rel.Target == removed {
			rel.Target = noEntity
		}
		for i := uint8(0); i < rel.Children.Count; {
			if rel.Children.Handles[i] == removed {
				rel.Children.Remove(i)
				continue
			}
			i++
		}
	}
}

// agingPass advances every entity's age by the frame increment, applies
// the external attractor force, and culls anyone past their max age.
// Removal happens after the scan completes, then each death sweeps the
// survivors' references.
func (g *Game) agingPass(frames float32) {
	cfg := config.Cfg()

	g.deathScratch = g.deathScratch[:0]
	query := g.entityFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, d, _, _ := query.Get()

		d.Age += frames

		if g.attractorAct {
			systems.ApplyAttractor(pos, vel, d, g.attractorX, g.attractorY, frames, cfg)
		}

		if d.Age > d.MaxAge {
			g.deathScratch = append(g.deathScratch, entity)
		}
	}

	for _, e := range g.deathScratch {
		g.kill(e)
	}
}

// seedPair spawns the founding pair: one male and one female, both
// named '1', near the viewport center with randomized outward
// velocity. Used for initial seeding and for extinction restarts.
func (g *Game) seedPair() {
	cfg := config.Cfg()

	cx := cfg.Derived.ScreenW32 / 2
	cy := (cfg.Derived.ScreenH32 + cfg.Derived.TopMargin32) / 2
	spread := float32(cfg.Spring.BondedOffset)

	g.spawn('1', components.Male, cx-spread, cy, 1, noEntity, noEntity)
	g.spawn('1', components.Female, cx+spread, cy, 1, noEntity, noEntity)
}

// reseedIfEmpty restarts an extinct population with a fresh pair.
// This is the only reset condition; initial seeding goes through
// seedPair directly and records no reseed event.
func (g *Game) reseedIfEmpty() {
	if g.population > 0 {
		return
	}
	g.seedPair()
	g.collector.RecordReseed()
	Logf("reseed: population restarted at tick %d", g.tick)
}
