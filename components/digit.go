// Package components defines ECS components for the simulation.
package components

// Sex is an entity's reproductive role.
type Sex uint8

const (
	Male Sex = iota
	Female
)

// String returns the display name for a Sex.
func (s Sex) String() string {
	if s == Female {
		return "F"
	}
	return "M"
}

// Phase is the movement behavior an entity resolved to this tick.
// It is recomputed at the start of every movement pass from the same
// underlying conditions, in priority order: Child > Bonded > Seeking > Idle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseChild
	PhaseBonded
	PhaseSeeking
)

// String returns the display name for a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseChild:
		return "Child"
	case PhaseBonded:
		return "Bonded"
	case PhaseSeeking:
		return "Seeking"
	default:
		return "Idle"
	}
}

// Digit holds identity and lifecycle state for one population member.
// Age and MaxAge are in frame units at the configured target FPS;
// Gestation counts frames remaining until birth and is nonzero only
// for bonded females.
type Digit struct {
	Name byte // '1'..'9', or '0' once neutralized by the attractor
	Sex  Sex

	Age    float32
	MaxAge float32

	Gestation float32
	LastBirth int32 // tick of last reproduction

	// Attractor neutralization: close contact accumulates Drain; each
	// full drain interval decrements Name. At '0' the entity stops
	// responding to the attractor for good.
	Drain         float32
	AttractedZero bool

	Phase Phase
}

// Value returns the numeric value of the entity's name digit.
func (d *Digit) Value() int {
	return int(d.Name - '0')
}

// MaturityScale returns the age-derived body scale used by both the
// collision resolver and the renderer, so visual and physical overlap
// agree. Grows linearly from the birth scale to 1.0 at maturity.
func (d *Digit) MaturityScale(birthScale, matureFrames float32) float32 {
	if matureFrames <= 0 || d.Age >= matureFrames {
		return 1
	}
	t := d.Age / matureFrames
	return birthScale + (1-birthScale)*t
}
