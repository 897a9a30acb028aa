package components

import "github.com/mlange-42/ark/ecs"

// MaxChildren caps the per-entity offspring back-reference buffer.
const MaxChildren = 16

// ChildBuffer holds offspring back-references.
// Using a fixed-size array for better cache locality.
type ChildBuffer struct {
	Handles [MaxChildren]ecs.Entity
	Count   uint8
}

// Add appends a child handle to the buffer.
func (cb *ChildBuffer) Add(e ecs.Entity) bool {
	if cb.Count >= MaxChildren {
		return false
	}
	cb.Handles[cb.Count] = e
	cb.Count++
	return true
}

// Remove drops the handle at index by swapping with last.
func (cb *ChildBuffer) Remove(idx uint8) {
	if idx >= cb.Count {
		return
	}
	cb.Count--
	cb.Handles[idx] = cb.Handles[cb.Count]
	cb.Handles[cb.Count] = ecs.Entity{}
}

// Contains reports whether the buffer holds the given handle.
func (cb *ChildBuffer) Contains(e ecs.Entity) bool {
	for i := uint8(0); i < cb.Count; i++ {
		if cb.Handles[i] == e {
			return true
		}
	}
	return false
}

// Relations holds an entity's relational links as entity-table handles.
// A zero handle means no link. Handles are weak: the integrity sweep
// and the kill path clear any handle whose entity has left the world,
// so liveness is always a table lookup, never a tracked pointer.
type Relations struct {
	Mate   ecs.Entity // mutual, at most one; symmetric for the bond's lifetime
	Mother ecs.Entity
	Father ecs.Entity
	Target ecs.Entity // current pursuit target, males only, recomputed every frame

	Children ChildBuffer
}

// Motion holds movement-internal scratch state.
type Motion struct {
	OrbitAngle float32
	OrbitScale float32 // per-entity orbit radius factor in [0.8, 1.0], fixed at birth
}
