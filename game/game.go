// Package game wires the simulation systems into a frame-driven clock.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
	"github.com/pthm-cable/digits/systems"
	"github.com/pthm-cable/digits/telemetry"
)

// State is the scheduler state of the simulation clock.
type State uint8

const (
	Running State = iota
	Paused
	Stopped
)

// Options configures a new game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game owns the entity world and runs the per-frame sequence. All
// mutation happens synchronously inside Step; suspension occurs only
// between ticks.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	entityMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Digit,
		components.Relations,
		components.Motion,
	]
	entityFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Digit,
		components.Relations,
		components.Motion,
	]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	digitMap *ecs.Map1[components.Digit]
	relMap   *ecs.Map1[components.Relations]
	motMap   *ecs.Map1[components.Motion]

	// Systems
	grid         *systems.SpatialGrid
	movement     *systems.MovementSystem
	collision    *systems.CollisionSystem
	reproduction *systems.ReproductionSystem
	integrity    *systems.IntegritySystem
	integration  *systems.IntegrationSystem
	registry     *systems.SystemRegistry

	// Telemetry
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector
	logStats  bool

	// Clock state
	tick           int32
	state          State
	stepsPerUpdate int

	// External attractor input
	attractorX, attractorY float32
	attractorAct           bool

	showPanel bool

	// Population counters (by sex, by digit, cumulative births)
	population  int
	males       int
	females     int
	byDigit     [10]int
	totalBirths int

	deathScratch []ecs.Entity
}

// NewGameWithOptions creates a game instance and seeds the initial pair.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		world: world,
		rng:   rng,
		entityMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Digit,
			components.Relations,
			components.Motion,
		](world),
		entityFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Digit,
			components.Relations,
			components.Motion,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		digitMap: ecs.NewMap1[components.Digit](world),
		relMap:   ecs.NewMap1[components.Relations](world),
		motMap:   ecs.NewMap1[components.Motion](world),

		registry:       systems.NewSystemRegistry(),
		logStats:       opts.LogStats,
		state:          Running,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		showPanel:      !opts.Headless,
	}

	g.grid = systems.NewSpatialGrid(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, float32(cfg.Entity.GridCellSize))
	g.movement = systems.NewMovementSystem(world, rng)
	g.collision = systems.NewCollisionSystem(world, rng)
	g.reproduction = systems.NewReproductionSystem(world, rng)
	g.integrity = systems.NewIntegritySystem(world)
	g.integration = systems.NewIntegrationSystem(world)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, float64(cfg.Screen.TargetFPS))
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("telemetry output disabled", "error", err)
	} else {
		g.output = om
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	g.movement.OnBond = func(male, female ecs.Entity) {
		g.collector.RecordBond()
	}
	g.reproduction.OnBirth = func(child, mother, father ecs.Entity) {
		g.collector.RecordBirth()
	}

	g.seedPair()

	return g
}

// Tick returns the current tick counter.
func (g *Game) Tick() int32 {
	return g.tick
}

// State returns the scheduler state.
func (g *Game) State() State {
	return g.state
}

// Pause suspends stepping without tearing anything down.
func (g *Game) Pause() {
	if g.state == Running {
		g.state = Paused
	}
}

// Resume continues a paused simulation.
func (g *Game) Resume() {
	if g.state == Paused {
		g.state = Running
	}
}

// Stop ends the simulation; further Step calls are no-ops.
func (g *Game) Stop() {
	g.state = Stopped
}

// SetAttractor feeds the external pointer position into the next ticks.
func (g *Game) SetAttractor(x, y float32, active bool) {
	g.attractorX = x
	g.attractorY = y
	g.attractorAct = active
}

// Population returns the current live-entity count. Part of the
// reproduction Spawner contract.
func (g *Game) Population() int {
	return g.population
}

// Counts returns the live population split by sex.
func (g *Game) Counts() (males, females int) {
	return g.males, g.females
}

// CountByDigit returns the live population carrying the given digit name.
func (g *Game) CountByDigit(name byte) int {
	if name < '0' || name > '9' {
		return 0
	}
	return g.byDigit[name-'0']
}

// TotalBirths returns the cumulative birth counter.
func (g *Game) TotalBirths() int {
	return g.totalBirths
}

// Step advances the simulation by the given frame-equivalent increment.
// One frame unit corresponds to one tick at the configured target FPS;
// callers converting wall time multiply elapsed seconds by the FPS.
// The entire sequence runs synchronously: aging, attractor, death,
// integrity, reproduction, reseed, movement, collision, integration.
func (g *Game) Step(frames float32) {
	if g.state != Running || frames <= 0 {
		return
	}
	// Long host stalls must not teleport the simulation.
	if frames > 3 {
		frames = 3
	}

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseAging)
	g.agingPass(frames)

	g.perf.StartPhase(telemetry.PhaseIntegrity)
	repairs := g.integrity.Update(g.world)
	g.collector.RecordRepairs(repairs)

	g.perf.StartPhase(telemetry.PhaseReproduction)
	g.reproduction.Update(g.world, g, g.tick, frames)
	g.reseedIfEmpty()

	g.perf.StartPhase(telemetry.PhaseSpatialGrid)
	g.updateSpatialGrid()

	g.perf.StartPhase(telemetry.PhaseMovement)
	g.movement.Update(g.world, g.grid, frames)

	g.perf.StartPhase(telemetry.PhaseCollision)
	g.collision.Update(g.world)

	g.perf.StartPhase(telemetry.PhaseIntegration)
	g.integration.Update(g.world, frames)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.tick++
}

// UpdateHeadless advances exactly one fixed tick, no host loop needed.
func (g *Game) UpdateHeadless() {
	g.Step(1)
}

// updateSpatialGrid rebuilds the neighbor lookup grid.
func (g *Game) updateSpatialGrid() {
	g.grid.Clear()

	query := g.entityFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, _, _, _ := query.Get()
		g.grid.Insert(entity, pos.X, pos.Y)
	}
}

// flushTelemetry emits a stats window when due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.snapshot())

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
	}
	if g.logStats {
		slog.Info("window", "stats", stats)
	}
}

// snapshot samples the population state for a closing stats window.
func (g *Game) snapshot() telemetry.Snapshot {
	cfg := config.Cfg()
	fps := float64(cfg.Screen.TargetFPS)

	snap := telemetry.Snapshot{
		Population: g.population,
		Males:      g.males,
		Females:    g.females,
	}

	query := g.entityFilter.Query()
	for query.Next() {
		_, _, d, rel, _ := query.Get()
		if rel.Mate != noEntity {
			snap.Bonded++
		}
		if d.Gestation > 0 {
			snap.Gestating++
		}
		snap.AgesSec = append(snap.AgesSec, float64(d.Age)/fps)
	}

	return snap
}

// Unload releases output resources.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close telemetry output", "error", err)
	}
}
