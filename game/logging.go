package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/digits/components"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logWorldState logs the current population state.
func (g *Game) logWorldState() {
	Logf("=== Tick %d ===", g.tick)
	Logf("Population: %d (M: %d, F: %d), births total: %d",
		g.population, g.males, g.females, g.totalBirths)

	var bonded, gestating, children, seeking int
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, d, rel, _ := query.Get()
		if rel.Mate != noEntity {
			bonded++
		}
		if d.Gestation > 0 {
			gestating++
		}
		switch d.Phase {
		case components.PhaseChild:
			children++
		case components.PhaseSeeking:
			seeking++
		}
	}
	Logf("Bonded: %d, Gestating: %d, Children: %d, Seeking: %d",
		bonded, gestating, children, seeking)

	line := "By digit:"
	for i, n := range g.byDigit {
		if n > 0 {
			line += fmt.Sprintf(" %d=%d", i, n)
		}
	}
	Logf("%s", line)
	Logf("")
}

// logPerfStats logs performance statistics.
func (g *Game) logPerfStats() {
	stats := g.perf.Stats()
	Logf("=== Perf @ Tick %d ===", g.tick)
	Logf("Avg tick: %s (%d ticks/s)",
		stats.AvgTickDuration.Round(time.Microsecond), int(stats.TicksPerSecond))

	for _, id := range g.registry.IDs() {
		if avg, ok := stats.PhaseAvg[id]; ok {
			Logf("  %-14s %10s  %5.1f%%",
				g.registry.GetName(id), avg.Round(time.Microsecond), stats.PhasePct[id])
		}
	}
	Logf("")
}
