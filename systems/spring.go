package systems

import "github.com/pthm-cable/digits/components"

// SpringToward accelerates vel toward the target point with a damped
// spring: acceleration proportional to displacement, followed by
// velocity damping, followed by a speed clamp. This is the shared
// attraction primitive for child-follow and mate-orbit movement.
func SpringToward(vel *components.Velocity, pos components.Position, tx, ty, stiffness, damping, maxSpeed float32) {
	vel.X += (tx - pos.X) * stiffness
	vel.Y += (ty - pos.Y) * stiffness
	vel.X *= damping
	vel.Y *= damping
	ClampSpeed(vel, maxSpeed)
}

// ClampSpeed limits the velocity magnitude to maxSpeed.
func ClampSpeed(vel *components.Velocity, maxSpeed float32) {
	mag := velocityMagnitude(vel.X, vel.Y)
	if mag > maxSpeed && mag > 0 {
		scale := maxSpeed / mag
		vel.X *= scale
		vel.Y *= scale
	}
}
