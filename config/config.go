// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/solaris/params"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig        `yaml:"screen"`
	Scene     SceneConfig         `yaml:"scene"`
	Noise     NoiseConfig         `yaml:"noise"`
	Smoothing SmoothingConfig     `yaml:"smoothing"`
	Defaults  params.ParameterSet `yaml:"defaults"`
	Fallback  FallbackConfig      `yaml:"fallback"`
	Ranges    params.Ranges       `yaml:"ranges"`
	Camera    CameraConfig        `yaml:"camera"`
	Haze      HazeConfig          `yaml:"haze"`
	Stars     StarsConfig         `yaml:"stars"`
	Planets   []PlanetConfig      `yaml:"planets"`
	Stylegen  StylegenConfig      `yaml:"stylegen"`
	Remote    RemoteConfig        `yaml:"remote"`
	Telemetry TelemetryConfig     `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SceneConfig holds static scene construction settings.
type SceneConfig struct {
	Subdivisions  int     `yaml:"subdivisions"`   // icosphere detail level
	ParticleCount int     `yaml:"particle_count"` // haze particles, generated once
	Seed          int64   `yaml:"seed"`           // rng seed for particles and planet phases
	HazeScale     float64 `yaml:"haze_scale"`     // haze group scale = scale * this
	Workers       int     `yaml:"workers"`        // 0 = GOMAXPROCS
}

// NoiseConfig selects the gradient noise source.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // simplex | opensimplex
	Seed int64  `yaml:"seed"` // only used by opensimplex
}

// SmoothingConfig holds parameter smoothing settings.
type SmoothingConfig struct {
	Factor float64 `yaml:"factor"` // fraction of the gap closed per frame
}

// FallbackConfig is returned by the style generator when a request fails.
type FallbackConfig struct {
	Config    params.ParameterSet `yaml:"config"`
	Reasoning string              `yaml:"reasoning"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Position    [3]float64 `yaml:"position"`
	FOV         float64    `yaml:"fov"` // vertical, degrees
	Near        float64    `yaml:"near"`
	Far         float64    `yaml:"far"`
	MinDistance float64    `yaml:"min_distance"`
	MaxDistance float64    `yaml:"max_distance"`
	AutoRotate  float64    `yaml:"auto_rotate"` // 1.0 = one revolution per minute
}

// HazeConfig holds particle haze settings.
type HazeConfig struct {
	Speed      float64 `yaml:"speed"`       // 0 = follow the live speed parameter
	SpriteSize int     `yaml:"sprite_size"` // baked glow texture edge in pixels
	PixelScale float64 `yaml:"pixel_scale"` // world units per sprite size unit
}

// StarsConfig holds background star field settings.
type StarsConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
	Depth  float64 `yaml:"depth"`
}

// PlanetConfig is one row of the planet layout table.
type PlanetConfig struct {
	Name     string  `yaml:"name"`
	Color    string  `yaml:"color"`
	Distance float64 `yaml:"distance"`
	Size     float64 `yaml:"size"`
	Speed    float64 `yaml:"speed"`
	Rings    bool    `yaml:"rings"`
}

// StylegenConfig holds AI style generation settings.
type StylegenConfig struct {
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"` // environment variable holding the key
	Timeout   time.Duration `yaml:"timeout"`
}

// RemoteConfig holds the websocket control endpoint settings.
type RemoteConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // frames per perf sample window
	StatsWindow int `yaml:"stats_window"` // frames per stats record
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	Aspect    float32
	Palette   []params.RGB // parsed planet colors, same order as Planets
}

var global *Config

// Init loads configuration and sets the global config.
// If path is empty, uses embedded defaults only.
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	if c.Screen.Height > 0 {
		c.Derived.Aspect = c.Derived.ScreenW32 / c.Derived.ScreenH32
	}

	if c.Scene.HazeScale == 0 {
		c.Scene.HazeScale = 0.5
	}
	if c.Smoothing.Factor <= 0 || c.Smoothing.Factor > 1 {
		c.Smoothing.Factor = params.DefaultSmoothing
	}

	c.Derived.Palette = make([]params.RGB, len(c.Planets))
	for i, p := range c.Planets {
		rgb, err := params.ParseHex(p.Color)
		if err != nil {
			return fmt.Errorf("planet %q: %w", p.Name, err)
		}
		c.Derived.Palette[i] = rgb
	}

	if err := c.Ranges.Validate(); err != nil {
		return fmt.Errorf("ranges: %w", err)
	}
	c.Defaults = c.Ranges.Clamp(c.Defaults)
	c.Fallback.Config = c.Ranges.Clamp(c.Fallback.Config)
	return nil
}

// WriteYAML writes the config to a YAML file.
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
