package telemetry

// Snapshot is the population state sampled at a window boundary.
type Snapshot struct {
	Population int
	Males      int
	Females    int
	Bonded     int
	Gestating  int
	AgesSec    []float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	fps                 float64

	windowStartTick int32

	// Event counters for current window
	births  int
	deaths  int
	bonds   int
	reseeds int
	repairs int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// fps: target frames per second (ticks are frame-equivalent units).
func NewCollector(windowDurationSec, fps float64) *Collector {
	ticksPerWindow := int32(windowDurationSec * fps)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		fps:                 fps,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordBond records a bond-formation event.
func (c *Collector) RecordBond() {
	c.bonds++
}

// RecordReseed records a population reseed.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// RecordRepairs records integrity-sweep reference clears.
func (c *Collector) RecordRepairs(n int) {
	c.repairs += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the stats for the closing window and resets the event
// counters for the next one.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	mean, std, p50, p90 := ComputeAgeStats(snap.AgesSec)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) / c.fps,
		Population:      snap.Population,
		Males:           snap.Males,
		Females:         snap.Females,
		Bonded:          snap.Bonded,
		Gestating:       snap.Gestating,
		Births:          c.births,
		Deaths:          c.deaths,
		Bonds:           c.bonds,
		Reseeds:         c.reseeds,
		Repairs:         c.repairs,
		AgeMean:         mean,
		AgeStd:          std,
		AgeP50:          p50,
		AgeP90:          p90,
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.bonds = 0
	c.reseeds = 0
	c.repairs = 0

	return stats
}
