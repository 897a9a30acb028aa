package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/digits/config"
)

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		switch g.state {
		case Running:
			g.Pause()
		case Paused:
			g.Resume()
		}
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanel = !g.showPanel
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.logWorldState()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.logPerfStats()
	}

	// Held left button drives the attractor; releasing deactivates it.
	mouse := rl.GetMousePosition()
	g.SetAttractor(mouse.X, mouse.Y, rl.IsMouseButtonDown(rl.MouseButtonLeft) && !g.panelHovered(mouse.X, mouse.Y))
}

// Update runs input handling and one or more simulation steps scaled
// by elapsed wall time, so behavior speed stays consistent across
// variable frame rates.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()

	if g.state != Running {
		return
	}

	frames := rl.GetFrameTime() * float32(config.Cfg().Screen.TargetFPS)

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(frames)
	}
}
