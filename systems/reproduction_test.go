package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

func TestCrossSum(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
	}{
		{"7 and 8", 7, 8, 6},
		{"9 and 9", 9, 9, 9},
		{"0 and 0", 0, 0, 0},
		{"5 and 5", 5, 5, 1},
		{"1 and 2", 1, 2, 3},
		{"single digit passthrough", 4, 5, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CrossSum(tt.a, tt.b); got != tt.want {
				t.Errorf("CrossSum(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// recordingSpawner captures delivery calls instead of creating entities.
type recordingSpawner struct {
	population int
	names      []byte
	xs, ys     []float32
}

func (r *recordingSpawner) Population() int { return r.population }

func (r *recordingSpawner) SpawnChild(name byte, sex components.Sex, x, y float32, mother, father ecs.Entity) ecs.Entity {
	r.names = append(r.names, name)
	r.xs = append(r.xs, x)
	r.ys = append(r.ys, y)
	return noEntity
}

func TestReproductionDelivers(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg()
	mature := cfg.Derived.MatureFrames

	world, mapper := newTestWorld()
	female := addEntity(mapper, 100, 100, components.Digit{Name: '7', Sex: components.Female, Age: mature, Gestation: 1}, components.Relations{})
	male := addEntity(mapper, 140, 100, components.Digit{Name: '8', Sex: components.Male, Age: mature}, components.Relations{Mate: female})

	relMap := ecs.NewMap1[components.Relations](world)
	digitMap := ecs.NewMap1[components.Digit](world)
	relMap.Get(female).Mate = male

	sp := &recordingSpawner{population: 2}
	sys := NewReproductionSystem(world, rand.New(rand.NewSource(1)))
	sys.Update(world, sp, 42, 1)

	if len(sp.names) != 1 {
		t.Fatalf("births = %d, want 1", len(sp.names))
	}
	if sp.names[0] != '6' {
		t.Errorf("offspring name = %c, want 6", sp.names[0])
	}

	// Newborn lands near the midpoint of the parents.
	midX := float32(120)
	if math.Abs(float64(sp.xs[0]-midX)) > cfg.Spawn.Offset+0.001 {
		t.Errorf("birth x = %v, want within %v of %v", sp.xs[0], cfg.Spawn.Offset, midX)
	}

	// Both sides of the bond clear in the same delivery.
	if relMap.Get(female).Mate != noEntity {
		t.Error("female still bonded after birth")
	}
	if relMap.Get(male).Mate != noEntity {
		t.Error("male still bonded after birth")
	}
	if digitMap.Get(female).Gestation != 0 {
		t.Error("gestation timer not cleared")
	}
	if digitMap.Get(female).LastBirth != 42 {
		t.Errorf("LastBirth = %d, want 42", digitMap.Get(female).LastBirth)
	}
}

func TestReproductionRespectsPopulationCap(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg()
	mature := cfg.Derived.MatureFrames

	world, mapper := newTestWorld()
	female := addEntity(mapper, 100, 100, components.Digit{Name: '2', Sex: components.Female, Age: mature, Gestation: 1}, components.Relations{})
	male := addEntity(mapper, 120, 100, components.Digit{Name: '3', Sex: components.Male, Age: mature}, components.Relations{Mate: female})

	relMap := ecs.NewMap1[components.Relations](world)
	digitMap := ecs.NewMap1[components.Digit](world)
	relMap.Get(female).Mate = male

	sp := &recordingSpawner{population: cfg.Mating.PopulationCap}
	sys := NewReproductionSystem(world, rand.New(rand.NewSource(1)))
	sys.Update(world, sp, 0, 1)

	if len(sp.names) != 0 {
		t.Errorf("births = %d, want 0 at cap", len(sp.names))
	}
	// Gestation freezes rather than running out while blocked.
	if digitMap.Get(female).Gestation != 1 {
		t.Errorf("gestation = %v, want unchanged 1", digitMap.Get(female).Gestation)
	}
}

func TestReproductionSkipsComponentlessMate(t *testing.T) {
	config.MustInit("")
	mature := config.Cfg().Derived.MatureFrames

	world, mapper := newTestWorld()
	male := addEntity(mapper, 120, 100, components.Digit{Name: '3', Sex: components.Male, Age: mature}, components.Relations{})
	female := addEntity(mapper, 100, 100, components.Digit{Name: '2', Sex: components.Female, Age: mature, Gestation: 1}, components.Relations{Mate: male})

	// Strip the father's components but leave the entity alive, so the
	// liveness guard passes and delivery has to cope on its own.
	mapper.Remove(male)

	relMap := ecs.NewMap1[components.Relations](world)

	sp := &recordingSpawner{population: 2}
	sys := NewReproductionSystem(world, rand.New(rand.NewSource(1)))
	sys.Update(world, sp, 0, 1)

	if len(sp.names) != 0 {
		t.Error("delivered a birth from a componentless father")
	}
	if relMap.Get(female).Mate != noEntity {
		t.Error("bond to componentless father not cleared")
	}
}

func TestReproductionCancelsOnDeadMate(t *testing.T) {
	config.MustInit("")
	mature := config.Cfg().Derived.MatureFrames

	world, mapper := newTestWorld()
	male := addEntity(mapper, 120, 100, components.Digit{Name: '3', Sex: components.Male, Age: mature}, components.Relations{})
	female := addEntity(mapper, 100, 100, components.Digit{Name: '2', Sex: components.Female, Age: mature, Gestation: 1}, components.Relations{Mate: male})

	world.RemoveEntity(male)

	relMap := ecs.NewMap1[components.Relations](world)
	digitMap := ecs.NewMap1[components.Digit](world)

	sp := &recordingSpawner{population: 1}
	sys := NewReproductionSystem(world, rand.New(rand.NewSource(1)))
	sys.Update(world, sp, 0, 1)

	if len(sp.names) != 0 {
		t.Error("delivered a birth with a dead father")
	}
	if relMap.Get(female).Mate != noEntity {
		t.Error("dead mate handle not cleared")
	}
	if digitMap.Get(female).Gestation != 0 {
		t.Error("gestation not zeroed after canceled delivery")
	}
}
