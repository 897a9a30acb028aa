package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
)

// IntegritySystem detects and clears relational handles pointing at
// entities no longer in the world. Relational state is plain back-links
// with no enforcement at the data-structure level, so this sweep runs
// every tick before movement consumes mother/mate liveness; a repair is
// a defect being contained, and is logged as such.
type IntegritySystem struct {
	filter ecs.Filter2[components.Digit, components.Relations]
}

// NewIntegritySystem creates a new integrity system.
func NewIntegritySystem(w *ecs.World) *IntegritySystem {
	return &IntegritySystem{
		filter: *ecs.NewFilter2[components.Digit, components.Relations](w),
	}
}

// Update sweeps all live entities and returns the number of cleared
// references.
func (s *IntegritySystem) Update(w *ecs.World) int {
	repairs := 0

	query := s.filter.Query()
	for query.Next() {
		d, rel := query.Get()

		if rel.Mate != noEntity && !w.Alive(rel.Mate) {
			rel.Mate = noEntity
			// A gestation without a bond would violate the data model.
			d.Gestation = 0
			repairs++
		}
		if rel.Mother != noEntity && !w.Alive(rel.Mother) {
			rel.Mother = noEntity
			repairs++
		}
		if rel.Father != noEntity && !w.Alive(rel.Father) {
			rel.Father = noEntity
			repairs++
		}
		if rel.Target != noEntity && !w.Alive(rel.Target) {
			rel.Target = noEntity
			repairs++
		}

		for i := uint8(0); i < rel.Children.Count; {
			if !w.Alive(rel.Children.Handles[i]) {
				rel.Children.Remove(i)
				repairs++
				continue // swapped-in handle re-checked at same index
			}
			i++
		}
	}

	if repairs > 0 {
		slog.Warn("cleared dangling relational references", "count", repairs)
	}
	return repairs
}
