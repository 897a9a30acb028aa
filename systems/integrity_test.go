package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

func TestIntegritySweepClearsDanglingHandles(t *testing.T) {
	config.MustInit("")

	world, mapper := newTestWorld()
	doomed := addEntity(mapper, 0, 0, components.Digit{Name: '9', Sex: components.Male}, components.Relations{})

	var children components.ChildBuffer
	children.Add(doomed)
	holder := addEntity(mapper, 10, 10,
		components.Digit{Name: '4', Sex: components.Female, Gestation: 100},
		components.Relations{Mate: doomed, Father: doomed, Target: doomed, Children: children})

	world.RemoveEntity(doomed)

	relMap := ecs.NewMap1[components.Relations](world)
	digitMap := ecs.NewMap1[components.Digit](world)

	sys := NewIntegritySystem(world)
	repairs := sys.Update(world)

	// Mate, father, target, and one child entry.
	if repairs != 4 {
		t.Errorf("repairs = %d, want 4", repairs)
	}

	rel := relMap.Get(holder)
	if rel.Mate != noEntity || rel.Father != noEntity || rel.Target != noEntity {
		t.Error("dangling handles survived the sweep")
	}
	if rel.Children.Count != 0 {
		t.Errorf("children count = %d, want 0", rel.Children.Count)
	}
	// A cleared bond takes the gestation timer with it.
	if digitMap.Get(holder).Gestation != 0 {
		t.Error("gestation kept after mate handle cleared")
	}
}

func TestIntegritySweepLeavesLiveHandles(t *testing.T) {
	config.MustInit("")

	world, mapper := newTestWorld()
	mate := addEntity(mapper, 0, 0, components.Digit{Name: '3', Sex: components.Male}, components.Relations{})
	holder := addEntity(mapper, 10, 10, components.Digit{Name: '4', Sex: components.Female}, components.Relations{Mate: mate})

	relMap := ecs.NewMap1[components.Relations](world)

	sys := NewIntegritySystem(world)
	if repairs := sys.Update(world); repairs != 0 {
		t.Errorf("repairs = %d, want 0 with all handles live", repairs)
	}
	if relMap.Get(holder).Mate != mate {
		t.Error("live mate handle cleared")
	}
}
