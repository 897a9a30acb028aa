package components

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestMaturityScale(t *testing.T) {
	tests := []struct {
		name         string
		age          float32
		birthScale   float32
		matureFrames float32
		want         float32
	}{
		{"newborn", 0, 0.3, 100, 0.3},
		{"halfway", 50, 0.3, 100, 0.65},
		{"mature", 100, 0.3, 100, 1},
		{"past mature", 500, 0.3, 100, 1},
		{"zero mature frames", 0, 0.3, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Digit{Age: tt.age}
			got := d.MaturityScale(tt.birthScale, tt.matureFrames)
			if math.Abs(float64(got-tt.want)) > 0.001 {
				t.Errorf("MaturityScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDigitValue(t *testing.T) {
	d := Digit{Name: '7'}
	if got := d.Value(); got != 7 {
		t.Errorf("Value() = %d, want 7", got)
	}
}

func TestChildBufferRemoveSwapsWithLast(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[Position](world)

	newEntity := func() ecs.Entity {
		pos := Position{}
		return mapper.NewEntity(&pos)
	}

	a, b, c := newEntity(), newEntity(), newEntity()

	var cb ChildBuffer
	cb.Add(a)
	cb.Add(b)
	cb.Add(c)

	cb.Remove(0)

	if cb.Count != 2 {
		t.Fatalf("count = %d, want 2", cb.Count)
	}
	// Last element swapped into the vacated slot.
	if cb.Handles[0] != c {
		t.Error("swap-with-last did not move the tail handle")
	}
	if cb.Contains(a) {
		t.Error("removed handle still present")
	}
	if !cb.Contains(b) || !cb.Contains(c) {
		t.Error("surviving handles lost")
	}
}

func TestChildBufferFull(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[Position](world)

	var cb ChildBuffer
	for i := 0; i < MaxChildren; i++ {
		pos := Position{}
		if !cb.Add(mapper.NewEntity(&pos)) {
			t.Fatalf("Add failed at %d, below capacity", i)
		}
	}

	pos := Position{}
	if cb.Add(mapper.NewEntity(&pos)) {
		t.Error("Add succeeded past capacity")
	}
}
