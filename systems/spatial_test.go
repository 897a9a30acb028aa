package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	newAt := func(x, y float32) ecs.Entity {
		pos := components.Position{X: x, Y: y}
		return posMap.NewEntity(&pos)
	}

	center := newAt(400, 300)
	near := newAt(430, 300)
	far := newAt(700, 300)

	grid := NewSpatialGrid(800, 600, 100)
	grid.Insert(center, 400, 300)
	grid.Insert(near, 430, 300)
	grid.Insert(far, 700, 300)

	results := grid.QueryRadiusInto(nil, 400, 300, 50, center, posMap)

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].E != near {
		t.Error("wrong neighbor returned")
	}
	if math.Abs(float64(results[0].DistSq-900)) > 0.001 {
		t.Errorf("DistSq = %v, want 900", results[0].DistSq)
	}
}

func TestSpatialGridExcludesSelf(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	pos := components.Position{X: 100, Y: 100}
	self := posMap.NewEntity(&pos)

	grid := NewSpatialGrid(800, 600, 100)
	grid.Insert(self, 100, 100)

	results := grid.QueryRadiusInto(nil, 100, 100, 50, self, posMap)
	if len(results) != 0 {
		t.Errorf("query returned the excluded entity, results = %d", len(results))
	}
}

func TestSpatialGridClampsOutOfBounds(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	pos := components.Position{X: -20, Y: -20}
	stray := posMap.NewEntity(&pos)

	grid := NewSpatialGrid(800, 600, 100)
	grid.Insert(stray, -20, -20)

	// Out-of-range positions land in the edge cell, not out of memory.
	results := grid.QueryRadiusInto(nil, 0, 0, 50, ecs.Entity{}, posMap)
	if len(results) != 1 {
		t.Errorf("results = %d, want 1 clamped entity", len(results))
	}
}

func TestSpatialGridClear(t *testing.T) {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)

	pos := components.Position{X: 100, Y: 100}
	e := posMap.NewEntity(&pos)

	grid := NewSpatialGrid(800, 600, 100)
	grid.Insert(e, 100, 100)
	grid.Clear()

	results := grid.QueryRadiusInto(nil, 100, 100, 50, ecs.Entity{}, posMap)
	if len(results) != 0 {
		t.Errorf("results after Clear = %d, want 0", len(results))
	}
}
