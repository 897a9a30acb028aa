package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
)

// IntegrationSystem advances positions by velocity and keeps entities
// inside the viewport with a damped wall bounce.
type IntegrationSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Digit]
}

// NewIntegrationSystem creates a new integration system.
func NewIntegrationSystem(w *ecs.World) *IntegrationSystem {
	return &IntegrationSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Digit](w),
	}
}

// Update integrates every live entity and applies the wall bounce.
func (s *IntegrationSystem) Update(w *ecs.World, frames float32) {
	cfg := config.Cfg()
	damping := float32(cfg.Walls.BounceDamping)

	query := s.filter.Query()
	for query.Next() {
		pos, vel, d := query.Get()

		pos.X += vel.X * frames
		pos.Y += vel.Y * frames

		BounceOffWalls(pos, vel, BodyRadius(d, cfg),
			cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			cfg.Derived.TopMargin32, damping)
	}
}

// BounceOffWalls reflects the velocity component perpendicular to any
// crossed wall, damped by the bounce factor, and clamps the position
// back inside. The top wall sits below an extra margin reserved for UI
// chrome.
func BounceOffWalls(pos *components.Position, vel *components.Velocity, radius, width, height, topMargin, damping float32) {
	if pos.X < radius {
		pos.X = radius
		if vel.X < 0 {
			vel.X = -vel.X * damping
		}
	}
	if pos.X > width-radius {
		pos.X = width - radius
		if vel.X > 0 {
			vel.X = -vel.X * damping
		}
	}
	if pos.Y < topMargin+radius {
		pos.Y = topMargin + radius
		if vel.Y < 0 {
			vel.Y = -vel.Y * damping
		}
	}
	if pos.Y > height-radius {
		pos.Y = height - radius
		if vel.Y > 0 {
			vel.Y = -vel.Y * damping
		}
	}
}
