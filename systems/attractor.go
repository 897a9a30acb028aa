package systems

import (
	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

// ApplyAttractor steers one entity toward the external pointer position
// with quadratic distance falloff. Entities never stall under the
// attractor: steered velocity is floored at a configured minimum.
//
// Sustained close contact drains the entity's digit one step per drain
// interval; at '0' the AttractedZero flag latches and the entity stops
// responding for the rest of its life.
func ApplyAttractor(pos *components.Position, vel *components.Velocity, d *components.Digit, ax, ay, frames float32, cfg *config.Config) {
	if d.AttractedZero {
		return
	}

	radius := float32(cfg.Attractor.Radius)
	dist := distance(pos.X, pos.Y, ax, ay)
	if dist > radius || radius <= 0 {
		return
	}

	falloff := 1 - dist/radius
	falloff *= falloff

	accel := float32(cfg.Attractor.Strength) * falloff * frames
	if dist > 1e-3 {
		vel.X += (ax - pos.X) / dist * accel
		vel.Y += (ay - pos.Y) / dist * accel
	}

	// Min-speed floor so steered entities keep moving.
	minSpeed := float32(cfg.Attractor.MinSpeed)
	mag := velocityMagnitude(vel.X, vel.Y)
	if mag > 1e-6 && mag < minSpeed {
		scale := minSpeed / mag
		vel.X *= scale
		vel.Y *= scale
	}

	// Neutralization drain inside the inner quarter of the radius.
	if dist < radius*0.25 && d.Name > '0' {
		d.Drain += frames
		if d.Drain >= cfg.Derived.DrainFrames && cfg.Derived.DrainFrames > 0 {
			d.Drain = 0
			d.Name--
			if d.Name == '0' {
				d.AttractedZero = true
			}
		}
	}
}
