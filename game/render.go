package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/digits/components"
	"github.com/pthm-cable/digits/config"
	"github.com/pthm-cable/digits/systems"
)

const (
	panelWidth  = 240
	panelMargin = 10
)

var (
	colorMale      = rl.Color{R: 96, G: 160, B: 255, A: 255}
	colorFemale    = rl.Color{R: 255, G: 128, B: 168, A: 255}
	colorDrained   = rl.Color{R: 120, G: 120, B: 120, A: 255}
	colorBondLine  = rl.Color{R: 255, G: 220, B: 120, A: 160}
	colorSeekLine  = rl.Color{R: 120, G: 200, B: 160, A: 90}
	colorBackdrop  = rl.Color{R: 18, G: 18, B: 26, A: 255}
	colorAgeRing   = rl.Color{R: 255, G: 255, B: 255, A: 60}
	colorGestation = rl.Color{R: 255, G: 240, B: 160, A: 220}
)

// Draw renders the world and UI for one frame.
func (g *Game) Draw() {
	cfg := config.Cfg()

	rl.BeginDrawing()
	rl.ClearBackground(colorBackdrop)

	// Top margin separator, walls start below it
	rl.DrawLine(0, int32(cfg.Screen.TopMargin), int32(cfg.Screen.Width), int32(cfg.Screen.TopMargin), rl.Color{R: 60, G: 60, B: 80, A: 255})

	// Relationship lines first so bodies draw on top
	g.drawLinks()

	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, d, _, _ := query.Get()
		g.drawDigit(pos, d)
	}

	g.drawHUD()

	if g.showPanel {
		g.drawTuningPanel()
	}

	rl.EndDrawing()
}

// drawLinks draws bond lines between mates and faint pursuit lines
// from seekers to their current target.
func (g *Game) drawLinks() {
	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, d, rel, _ := query.Get()

		if d.Sex == components.Male && rel.Mate != noEntity && g.world.Alive(rel.Mate) {
			mp := g.posMap.Get(rel.Mate)
			rl.DrawLineEx(
				rl.Vector2{X: pos.X, Y: pos.Y},
				rl.Vector2{X: mp.X, Y: mp.Y},
				2, colorBondLine,
			)
		}

		if d.Phase == components.PhaseSeeking && rel.Target != noEntity && g.world.Alive(rel.Target) {
			tp := g.posMap.Get(rel.Target)
			rl.DrawLineV(
				rl.Vector2{X: pos.X, Y: pos.Y},
				rl.Vector2{X: tp.X, Y: tp.Y},
				colorSeekLine,
			)
		}
	}
}

// drawDigit draws one entity: body disc scaled by maturity, age ring,
// gestation marker, and the digit glyph.
func (g *Game) drawDigit(pos *components.Position, d *components.Digit) {
	cfg := config.Cfg()
	radius := systems.BodyRadius(d, cfg)

	body := colorMale
	if d.Sex == components.Female {
		body = colorFemale
	}
	if d.AttractedZero {
		body = colorDrained
	}

	rl.DrawCircleV(rl.Vector2{X: pos.X, Y: pos.Y}, radius, body)

	// Age ring sweeps clockwise over the lifetime
	lifeFrac := clamp01(d.Age / d.MaxAge)
	if lifeFrac > 0 {
		rl.DrawRing(
			rl.Vector2{X: pos.X, Y: pos.Y},
			radius+2, radius+4,
			-90, -90+360*lifeFrac,
			24, colorAgeRing,
		)
	}

	if d.Gestation > 0 {
		rl.DrawCircleV(rl.Vector2{X: pos.X, Y: pos.Y - radius - 7}, 3, colorGestation)
	}

	// Glyph centered on the body, sized with maturity
	fontSize := int32(radius * 1.2)
	if fontSize < 8 {
		fontSize = 8
	}
	label := string(d.Name)
	tw := rl.MeasureText(label, fontSize)
	rl.DrawText(label, int32(pos.X)-tw/2, int32(pos.Y)-fontSize/2, fontSize, rl.White)
}

// drawHUD draws the top-left status readout inside the top margin.
func (g *Game) drawHUD() {
	rl.DrawText(fmt.Sprintf("Tick: %d", g.tick), 10, 8, 18, rl.White)
	rl.DrawText(fmt.Sprintf("Pop: %d  M: %d  F: %d  Births: %d", g.population, g.males, g.females, g.totalBirths), 10, 30, 18, rl.White)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]  [Tab] panel", g.stepsPerUpdate), 300, 8, 18, rl.Gray)
	if g.state == Paused {
		rl.DrawText("PAUSED [Space]", 300, 30, 18, rl.Yellow)
	}
}

// panelRect is the screen region occupied by the tuning panel.
func (g *Game) panelRect() rl.Rectangle {
	cfg := config.Cfg()
	return rl.Rectangle{
		X:      float32(cfg.Screen.Width) - panelWidth - panelMargin,
		Y:      float32(cfg.Screen.TopMargin) + panelMargin,
		Width:  panelWidth,
		Height: 240,
	}
}

// panelHovered reports whether the pointer is over the tuning panel,
// so clicks on sliders do not also drive the attractor.
func (g *Game) panelHovered(x, y float32) bool {
	if !g.showPanel {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, g.panelRect())
}

// drawTuningPanel draws live parameter sliders. Changes that affect
// seconds-based thresholds are followed by ReDerive so frame-unit
// comparisons pick them up on the next tick.
func (g *Game) drawTuningPanel() {
	cfg := config.Cfg()
	rect := g.panelRect()

	rl.DrawRectangleRec(rect, rl.Color{R: 28, G: 28, B: 40, A: 230})
	rl.DrawRectangleLinesEx(rect, 1, rl.Color{R: 80, G: 80, B: 110, A: 255})

	px := rect.X + 10
	py := rect.Y + 8
	sw := rect.Width - 20

	rl.DrawText("Tuning", int32(px), int32(py), 16, rl.White)
	py += 24

	py = g.slider(px, py, sw, "Base speed", &cfg.Movement.BaseSpeed, 0.2, 4.0, false)
	py = g.slider(px, py, sw, "Max age (s)", &cfg.Age.MaxAgeSec, 15, 300, true)
	py = g.slider(px, py, sw, "Attraction radius", &cfg.Mating.AttractionRadius, 50, 600, false)
	py = g.slider(px, py, sw, "Gestation (s)", &cfg.Mating.GestationSec, 1, 30, true)

	rl.DrawText("Population cap", int32(px), int32(py), 12, rl.Gray)
	py += 16
	newCap := gui.SliderBar(
		rl.Rectangle{X: px, Y: py, Width: sw - 40, Height: 16},
		"", "",
		float32(cfg.Mating.PopulationCap), 2, 256,
	)
	rl.DrawText(fmt.Sprintf("%d", cfg.Mating.PopulationCap), int32(px+sw-34), int32(py), 14, rl.White)
	if int(newCap) != cfg.Mating.PopulationCap {
		cfg.Mating.PopulationCap = int(newCap)
	}
}

// slider draws one labeled SliderBar bound to a float64 config field
// and returns the next row's y. Derived thresholds are recomputed when
// rederive is set and the value changed.
func (g *Game) slider(px, py, sw float32, label string, value *float64, lo, hi float32, rederive bool) float32 {
	rl.DrawText(label, int32(px), int32(py), 12, rl.Gray)
	py += 16
	next := gui.SliderBar(
		rl.Rectangle{X: px, Y: py, Width: sw - 40, Height: 16},
		"", "",
		float32(*value), lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.1f", *value), int32(px+sw-34), int32(py), 14, rl.White)
	if next != float32(*value) {
		*value = float64(next)
		if rederive {
			cfg := config.Cfg()
			cfg.ReDerive()
		}
	}
	return py + 24
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
