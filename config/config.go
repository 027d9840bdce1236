// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Flow      FlowConfig      `yaml:"flow"`
	Buoyancy  BuoyancyConfig  `yaml:"buoyancy"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Threshold ThresholdConfig `yaml:"threshold"`
	Render    RenderConfig    `yaml:"render"`
	Noise     NoiseConfig     `yaml:"noise"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Range is a closed-open interval [Min, Max) for uniform sampling.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SwarmConfig holds population sizing parameters.
type SwarmConfig struct {
	NarrowCount      int     `yaml:"narrow_count"`
	WideCount        int     `yaml:"wide_count"`
	NarrowBreakpoint float64 `yaml:"narrow_breakpoint"`
	AccentRatio      float64 `yaml:"accent_ratio"`
	SpawnDepth       float64 `yaml:"spawn_depth"`
}

// FlowConfig holds flow-noise steering parameters.
type FlowConfig struct {
	NoiseScale float64 `yaml:"noise_scale"`
	TimeScale  float64 `yaml:"time_scale"`
	Turns      float64 `yaml:"turns"`
	SteerLimit float64 `yaml:"steer_limit"`
}

// BuoyancyConfig holds the constant upward acceleration.
type BuoyancyConfig struct {
	Accel float64 `yaml:"accel"`
}

// PointerConfig holds pointer interaction parameters.
type PointerConfig struct {
	Device      string  `yaml:"device"`       // auto, pointer or touch
	TouchRadius float64 `yaml:"touch_radius"` // touch devices, engaged or not
	DragRadius  float64 `yaml:"drag_radius"`  // pointer devices while pressed
	HoverRadius float64 `yaml:"hover_radius"` // pointer devices while hovering
	MaxStrength float64 `yaml:"max_strength"` // force at distance 0
	AttractGain float64 `yaml:"attract_gain"`
	RepelGain   float64 `yaml:"repel_gain"`
	MinDistance float64 `yaml:"min_distance"`
	Sentinel    float64 `yaml:"sentinel"`  // reported coordinate when no touches are active
	CellSize    float64 `yaml:"cell_size"` // spatial grid cell size for pointer queries
}

// BoundaryConfig holds the recycle rule parameters.
type BoundaryConfig struct {
	Margin      float64 `yaml:"margin"`
	SpawnOffset float64 `yaml:"spawn_offset"`
	SpawnVX     Range   `yaml:"spawn_vx"`
	SpawnVY     Range   `yaml:"spawn_vy"`
	MaxSpeed    Range   `yaml:"max_speed"`
}

// ThresholdConfig holds settle and erosion parameters.
type ThresholdConfig struct {
	Ratio         float64 `yaml:"ratio"`
	ErosionChance float64 `yaml:"erosion_chance"`
	ErosionOffset Range   `yaml:"erosion_offset"`
	ErosionVX     Range   `yaml:"erosion_vx"`
	ErosionVY     Range   `yaml:"erosion_vy"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	Background   string  `yaml:"background"`
	Primary      string  `yaml:"primary"`
	Accent       string  `yaml:"accent"`
	StreakLength float64 `yaml:"streak_length"`
	StrokeWidth  Range   `yaml:"stroke_width"`
	SettledWidth float64 `yaml:"settled_width"`
	Jitter       float64 `yaml:"jitter"`
}

// NoiseConfig selects the coherent noise backend.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // perlin or simplex
	Seed int64  `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	AngleSpan  float32 // Flow.Turns * 2π
	Background color.RGBA
	Primary    color.RGBA
	Accent     color.RGBA
	DT         float64 // seconds per tick at the target frame rate
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded values and fills Derived.
func (c *Config) computeDerived() error {
	ranges := map[string]Range{
		"boundary.spawn_vx":        c.Boundary.SpawnVX,
		"boundary.spawn_vy":        c.Boundary.SpawnVY,
		"boundary.max_speed":       c.Boundary.MaxSpeed,
		"threshold.erosion_offset": c.Threshold.ErosionOffset,
		"threshold.erosion_vx":     c.Threshold.ErosionVX,
		"threshold.erosion_vy":     c.Threshold.ErosionVY,
		"render.stroke_width":      c.Render.StrokeWidth,
	}
	for name, r := range ranges {
		if r.Min > r.Max {
			return fmt.Errorf("%s: min %v exceeds max %v", name, r.Min, r.Max)
		}
	}
	if c.Boundary.MaxSpeed.Min <= 0 {
		return fmt.Errorf("boundary.max_speed: min must be positive, got %v", c.Boundary.MaxSpeed.Min)
	}
	// Respawned particles must head up into the viewport.
	if c.Boundary.SpawnVY.Min >= 0 || c.Boundary.SpawnVY.Max > 0 {
		return fmt.Errorf("boundary.spawn_vy: must be negative, got [%v, %v)", c.Boundary.SpawnVY.Min, c.Boundary.SpawnVY.Max)
	}
	if c.Threshold.Ratio <= 0 || c.Threshold.Ratio > 1 {
		return fmt.Errorf("threshold.ratio: must be in (0, 1], got %v", c.Threshold.Ratio)
	}
	// Eroded particles are released below the line.
	if c.Threshold.ErosionOffset.Min < 0 {
		return fmt.Errorf("threshold.erosion_offset: min must not be negative, got %v", c.Threshold.ErosionOffset.Min)
	}

	switch c.Pointer.Device {
	case "", "auto", "pointer", "touch":
	default:
		return fmt.Errorf("pointer.device: unknown device class %q", c.Pointer.Device)
	}
	switch c.Noise.Kind {
	case "", "perlin", "simplex":
	default:
		return fmt.Errorf("noise.kind: unknown noise backend %q", c.Noise.Kind)
	}

	var err error
	if c.Derived.Background, err = ParseHexColor(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	if c.Derived.Primary, err = ParseHexColor(c.Render.Primary); err != nil {
		return fmt.Errorf("render.primary: %w", err)
	}
	if c.Derived.Accent, err = ParseHexColor(c.Render.Accent); err != nil {
		return fmt.Errorf("render.accent: %w", err)
	}

	c.Derived.AngleSpan = float32(c.Flow.Turns * 2 * math.Pi)

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	return nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into an opaque-by-default color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
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
