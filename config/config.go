// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Movement  MovementConfig  `yaml:"movement"`
	Age       AgeConfig       `yaml:"age"`
	Mating    MatingConfig    `yaml:"mating"`
	Spring    SpringConfig    `yaml:"spring"`
	Collision CollisionConfig `yaml:"collision"`
	Walls     WallsConfig     `yaml:"walls"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Attractor AttractorConfig `yaml:"attractor"`
	Entity    EntityConfig    `yaml:"entity"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	TopMargin int `yaml:"top_margin"` // reserved for UI chrome, walls start below it
}

// MovementConfig holds per-behavior movement parameters.
// Speeds are in pixels per frame at the target frame rate.
type MovementConfig struct {
	BaseSpeed      float64 `yaml:"base_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	SpeedBand      float64 `yaml:"speed_band"`       // idle speed varies in base*(1 +/- band)
	MinSpeedFactor float64 `yaml:"min_speed_factor"` // idle speed floor as fraction of base
	JitterYoung    float64 `yaml:"jitter_young"`     // heading perturbation, radians
	JitterMid      float64 `yaml:"jitter_mid"`
	JitterOld      float64 `yaml:"jitter_old"`
	PursueBlend    float64 `yaml:"pursue_blend"` // heading interpolation while pursuing
	WanderBlend    float64 `yaml:"wander_blend"` // heading interpolation toward non-eligible target
	PursueSpeed    float64 `yaml:"pursue_speed"` // speed scale while pursuing, x base
	WanderSpeed    float64 `yaml:"wander_speed"`
}

// AgeConfig holds lifecycle timing. Values are in seconds; ReDerive
// converts them to frame units so per-tick code compares frames only.
type AgeConfig struct {
	MaxAgeSec   float64 `yaml:"max_age_sec"`
	Variation   float64 `yaml:"variation"` // per-entity max-age spread, fraction of max
	MatureFrac  float64 `yaml:"mature_frac"`
	AdolescFrac float64 `yaml:"adolescent_frac"`
	OldFrac     float64 `yaml:"old_frac"`
	MatureSec   float64 `yaml:"mature_sec"` // absolute overrides, 0 = use fraction
	AdolescSec  float64 `yaml:"adolescent_sec"`
	OldSec      float64 `yaml:"old_sec"`
}

// MatingConfig holds mate search and reproduction parameters.
type MatingConfig struct {
	AttractionRadius float64 `yaml:"attraction_radius"` // seek search cap, pixels
	MateDistance     float64 `yaml:"mate_distance"`     // bonding distance, pixels
	GestationSec     float64 `yaml:"gestation_sec"`
	PopulationCap    int     `yaml:"population_cap"`
}

// SpringConfig holds orbit spring-physics parameters.
type SpringConfig struct {
	Stiffness       float64 `yaml:"stiffness"`
	Damping         float64 `yaml:"damping"`
	MaxSpeed        float64 `yaml:"max_speed"`
	BondedOffset    float64 `yaml:"bonded_offset"`     // child orbit radius, pixels
	MateOffsetScale float64 `yaml:"mate_offset_scale"` // mate orbit radius, x bonded offset
	ChildOrbitRate  float64 `yaml:"child_orbit_rate"`  // radians per frame
	MateOrbitRate   float64 `yaml:"mate_orbit_rate"`
	OrbitJitter     float64 `yaml:"orbit_jitter"` // liveliness perturbation, pixels per frame
}

// CollisionConfig holds pair-resolution parameters.
type CollisionConfig struct {
	Policy        string  `yaml:"policy"` // "hard" or "soft"
	Bounce        float64 `yaml:"bounce"`
	MinSeparation float64 `yaml:"min_separation"`
	Passes        int     `yaml:"passes"`
	SoftStiffness float64 `yaml:"soft_stiffness"`
	SoftMaxForce  float64 `yaml:"soft_max_force"`
	SoftDamping   float64 `yaml:"soft_damping"`
}

// WallsConfig holds viewport boundary parameters.
type WallsConfig struct {
	BounceDamping float64 `yaml:"bounce_damping"` // velocity multiplier on wall hit
}

// SpawnConfig holds newborn placement parameters.
type SpawnConfig struct {
	Offset float64 `yaml:"offset"` // random perturbation around the birth midpoint, pixels
}

// AttractorConfig holds external pointer-force parameters.
type AttractorConfig struct {
	Radius   float64 `yaml:"radius"`    // influence radius, pixels
	Strength float64 `yaml:"strength"`  // acceleration at the attractor point
	MinSpeed float64 `yaml:"min_speed"` // floor so steered entities never stall
	DrainSec float64 `yaml:"drain_sec"` // close-contact time per digit decrement
}

// EntityConfig holds body geometry parameters.
type EntityConfig struct {
	BaseRadius   float64 `yaml:"base_radius"`
	BirthScale   float64 `yaml:"birth_scale"`    // body scale at age 0
	GridCellSize float64 `yaml:"grid_cell_size"` // spatial grid cell size
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
// Age thresholds are stored in frame units; ReDerive must be called
// whenever a seconds-based parameter changes at runtime.
type DerivedConfig struct {
	MaxAgeFrames    float32
	MatureFrames    float32
	AdolescFrames   float32
	OldFrames       float32
	GestationFrames float32
	DrainFrames     float32
	ScreenW32       float32
	ScreenH32       float32
	TopMargin32     float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ReDerive()

	return cfg, nil
}

// ReDerive recomputes frame-unit thresholds from the seconds-based parameters.
func (c *Config) ReDerive() {
	fps := float64(c.Screen.TargetFPS)
	if fps <= 0 {
		fps = 60
	}

	c.Derived.MaxAgeFrames = float32(c.Age.MaxAgeSec * fps)
	c.Derived.MatureFrames = float32(c.thresholdSec(c.Age.MatureSec, c.Age.MatureFrac) * fps)
	c.Derived.AdolescFrames = float32(c.thresholdSec(c.Age.AdolescSec, c.Age.AdolescFrac) * fps)
	c.Derived.OldFrames = float32(c.thresholdSec(c.Age.OldSec, c.Age.OldFrac) * fps)
	c.Derived.GestationFrames = float32(c.Mating.GestationSec * fps)
	c.Derived.DrainFrames = float32(c.Attractor.DrainSec * fps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.TopMargin32 = float32(c.Screen.TopMargin)
}

// thresholdSec returns the absolute override when set, otherwise the
// fraction of max age.
func (c *Config) thresholdSec(override, frac float64) float64 {
	if override > 0 {
		return override
	}
	return c.Age.MaxAgeSec * frac
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
