package game

import (
	"testing"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	config.MustInit("")
	return NewGameWithOptions(Options{Seed: 7, Headless: true, StepsPerUpdate: 1})
}

func TestNewGameSeedsReseedPair(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	if g.Population() != 2 {
		t.Fatalf("population = %d, want 2", g.Population())
	}
	males, females := g.Counts()
	if males != 1 || females != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", males, females)
	}
	if g.CountByDigit('1') != 2 {
		t.Errorf("digit '1' count = %d, want 2", g.CountByDigit('1'))
	}

	// Reseeded adults start moving, unlike newborns.
	query := g.entityFilter.Query()
	for query.Next() {
		_, vel, d, rel, _ := query.Get()
		if vel.X == 0 && vel.Y == 0 {
			t.Error("reseeded entity has zero velocity")
		}
		if d.Name != '1' {
			t.Errorf("reseeded name = %c, want 1", d.Name)
		}
		if rel.Mother != noEntity || rel.Father != noEntity {
			t.Error("reseeded entity has parents")
		}
	}
}

func TestKillSweepsInboundReferences(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	doomed := g.spawn('5', components.Male, 400, 300, 1, noEntity, noEntity)
	widow := g.spawn('6', components.Female, 420, 300, 1, noEntity, noEntity)
	child := g.spawn('2', components.Female, 410, 300, 0, widow, doomed)

	wrel := g.relMap.Get(widow)
	wrel.Mate = doomed
	wrel.Target = doomed
	g.digitMap.Get(widow).Gestation = 100
	g.relMap.Get(doomed).Mate = widow

	g.kill(doomed)

	if g.world.Alive(doomed) {
		t.Fatal("killed entity still alive")
	}

	wrel = g.relMap.Get(widow)
	if wrel.Mate != noEntity || wrel.Target != noEntity {
		t.Error("widow still references the dead entity")
	}
	if g.digitMap.Get(widow).Gestation != 0 {
		t.Error("widow's gestation survived the bond")
	}

	crel := g.relMap.Get(child)
	if crel.Father != noEntity {
		t.Error("child still references the dead father")
	}
	if crel.Mother != widow {
		t.Error("live mother handle cleared by mistake")
	}
	if g.CountByDigit('5') != 0 {
		t.Error("digit counter not decremented")
	}
}

func TestAgeCulling(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	elder := g.spawn('9', components.Male, 400, 300, 1, noEntity, noEntity)
	d := g.digitMap.Get(elder)
	d.Age = d.MaxAge + 1

	g.Step(1)

	if g.world.Alive(elder) {
		t.Error("entity past max age survived the step")
	}
	if g.Population() != 2 {
		t.Errorf("population = %d, want 2 after culling", g.Population())
	}
}

func TestReseedAfterExtinction(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	// Force every entity past its lifespan.
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, d, _, _ := query.Get()
		d.Age = d.MaxAge + 1
	}

	g.Step(1)

	// The extinction and the restart happen in the same tick.
	if g.Population() != 2 {
		t.Fatalf("population = %d, want reseeded 2", g.Population())
	}
	if g.CountByDigit('1') != 2 {
		t.Error("reseed pair must both carry digit 1")
	}

	// Exactly one reseed event: the restart, not the initial seeding.
	stats := g.collector.Flush(g.Tick(), g.snapshot())
	if stats.Reseeds != 1 {
		t.Errorf("reseeds = %d, want 1", stats.Reseeds)
	}
}

func TestInitialSeedingIsNotAReseed(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	stats := g.collector.Flush(g.Tick(), g.snapshot())
	if stats.Reseeds != 0 {
		t.Errorf("reseeds at startup = %d, want 0", stats.Reseeds)
	}
}

func TestSpawnChildLinksParents(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	mother := g.spawn('3', components.Female, 400, 300, 1, noEntity, noEntity)
	father := g.spawn('4', components.Male, 420, 300, 1, noEntity, noEntity)
	before := g.TotalBirths()

	child := g.SpawnChild('7', components.Female, 410, 300, mother, father)

	if g.TotalBirths() != before+1 {
		t.Error("birth counter not incremented")
	}
	if !g.relMap.Get(mother).Children.Contains(child) {
		t.Error("child missing from mother's buffer")
	}
	if !g.relMap.Get(father).Children.Contains(child) {
		t.Error("child missing from father's buffer")
	}

	// Newborns start where they are born, not moving.
	vel := g.velMap.Get(child)
	if vel.X != 0 || vel.Y != 0 {
		t.Error("newborn has nonzero velocity")
	}
	crel := g.relMap.Get(child)
	if crel.Mother != mother || crel.Father != father {
		t.Error("parent back-links not set")
	}
}

func TestBondToBirthPipeline(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()
	cfg := config.Cfg()

	// Age the reseed pair to maturity and put them side by side.
	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, d, _, _ := query.Get()
		d.Age = cfg.Derived.MatureFrames + 1
		pos.Y = 300
		if d.Sex == components.Male {
			pos.X = 400
		} else {
			pos.X = 410
		}
	}

	// Bond on tick one, then a full gestation until delivery.
	limit := int(cfg.Derived.GestationFrames) + 200
	for i := 0; i < limit; i++ {
		g.Step(1)
		if g.TotalBirths() > 0 {
			break
		}
	}

	if g.TotalBirths() == 0 {
		t.Fatal("no birth within a full gestation window")
	}
	// Two '1' parents produce a '2'.
	if g.CountByDigit('2') != 1 {
		t.Errorf("digit '2' count = %d, want 1", g.CountByDigit('2'))
	}
	if g.Population() != 3 {
		t.Errorf("population = %d, want 3", g.Population())
	}
}

func TestStepRespectsSchedulerState(t *testing.T) {
	g := newTestGame(t)
	defer g.Unload()

	g.Pause()
	before := g.Tick()
	g.Step(1)
	if g.Tick() != before {
		t.Error("paused game advanced")
	}

	g.Resume()
	g.Step(1)
	if g.Tick() != before+1 {
		t.Error("resumed game did not advance")
	}

	g.Stop()
	g.Resume() // stopped is terminal
	g.Step(1)
	if g.Tick() != before+1 {
		t.Error("stopped game advanced")
	}
}
