// Package telemetry collects population statistics and performance data.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`
	Males      int `csv:"males"`
	Females    int `csv:"females"`
	Bonded     int `csv:"bonded"`
	Gestating  int `csv:"gestating"`

	// Events during window
	Births  int `csv:"births"`
	Deaths  int `csv:"deaths"`
	Bonds   int `csv:"bonds"`
	Reseeds int `csv:"reseeds"`
	Repairs int `csv:"repairs"` // dangling references cleared

	// Age distribution at window end (seconds)
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`
}

// ComputeAgeStats calculates mean, standard deviation, and percentiles
// from a slice of age values. Returns zeros for an empty slice.
func ComputeAgeStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("males", s.Males),
		slog.Int("females", s.Females),
		slog.Int("bonded", s.Bonded),
		slog.Int("gestating", s.Gestating),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("bonds", s.Bonds),
		slog.Int("reseeds", s.Reseeds),
		slog.Int("repairs", s.Repairs),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_std", s.AgeStd),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
	)
}
