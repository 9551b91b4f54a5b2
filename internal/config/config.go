package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticleCount = 1000
	DefaultMapWidth      = 1000.0
	DefaultMapHeight     = 1000.0
	DefaultD1            = 30.0
	DefaultD2            = 65.0
	DefaultD3            = 100.0
	DefaultRepelForce    = 100.0
	DefaultHalfLife      = 0.04
	DefaultDt            = 0.1
)

// InvalidParameterError rejects a single config write. The prior value
// is always retained, so the physics step never observes a config that
// violates its own invariants.
type InvalidParameterError struct {
	Field      string
	Constraint string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Constraint)
}

// Config holds every tunable simulation parameter. The physics step
// reads a Snapshot each frame; mutation goes through the setters so
// the invariants below always hold:
//
//	MapWidth, MapHeight > 0
//	0 < D1 <= D2 <= D3, D1 < D3
//	RepelForce >= 0
//	HalfLife, Dt > 0
//	ParticleCount >= 0
type Config struct {
	ParticleCount int     `yaml:"particle_count"`
	MapWidth      float64 `yaml:"map_width"`
	MapHeight     float64 `yaml:"map_height"`
	D1            float64 `yaml:"d1"`
	D2            float64 `yaml:"d2"`
	D3            float64 `yaml:"d3"`
	RepelForce    float64 `yaml:"repel_force"`
	HalfLife      float64 `yaml:"half_life"`
	Dt            float64 `yaml:"dt"`
}

func Default() Config {
	return Config{
		ParticleCount: DefaultParticleCount,
		MapWidth:      DefaultMapWidth,
		MapHeight:     DefaultMapHeight,
		D1:            DefaultD1,
		D2:            DefaultD2,
		D3:            DefaultD3,
		RepelForce:    DefaultRepelForce,
		HalfLife:      DefaultHalfLife,
		Dt:            DefaultDt,
	}
}

// Snapshot returns a value copy for use by one frame of the physics
// step, insulating the step from mutation mid-frame.
func (c *Config) Snapshot() Config { return *c }

// Validate checks the whole config at once. Used after loading a file,
// where fields arrive together rather than through setters.
func (c *Config) Validate() error {
	switch {
	case c.MapWidth <= 0:
		return &InvalidParameterError{"map_width", "must be positive"}
	case c.MapHeight <= 0:
		return &InvalidParameterError{"map_height", "must be positive"}
	case c.D1 <= 0:
		return &InvalidParameterError{"d1", "must be positive"}
	case c.D1 > c.D2:
		return &InvalidParameterError{"d1", fmt.Sprintf("must not exceed d2 (%.2f)", c.D2)}
	case c.D2 > c.D3:
		return &InvalidParameterError{"d2", fmt.Sprintf("must not exceed d3 (%.2f)", c.D3)}
	case c.D1 >= c.D3:
		return &InvalidParameterError{"d1", fmt.Sprintf("must be strictly below d3 (%.2f)", c.D3)}
	case c.RepelForce < 0:
		return &InvalidParameterError{"repel_force", "must be non-negative"}
	case c.HalfLife <= 0:
		return &InvalidParameterError{"half_life", "must be positive"}
	case c.Dt <= 0:
		return &InvalidParameterError{"dt", "must be positive"}
	case c.ParticleCount < 0:
		return &InvalidParameterError{"particle_count", "must be non-negative"}
	}
	return nil
}

func (c *Config) SetBoundary(width, height float64) error {
	if width <= 0 || height <= 0 {
		return &InvalidParameterError{"boundary", "width and height must be positive"}
	}
	c.MapWidth, c.MapHeight = width, height
	return nil
}

func (c *Config) SetD1(v float64) error {
	if v <= 0 {
		return &InvalidParameterError{"d1", "must be positive"}
	}
	if v > c.D2 || v >= c.D3 {
		return &InvalidParameterError{"d1", fmt.Sprintf("must stay below d2 (%.2f) and d3 (%.2f)", c.D2, c.D3)}
	}
	c.D1 = v
	return nil
}

func (c *Config) SetD2(v float64) error {
	if v < c.D1 || v > c.D3 {
		return &InvalidParameterError{"d2", fmt.Sprintf("must lie within [d1, d3] = [%.2f, %.2f]", c.D1, c.D3)}
	}
	c.D2 = v
	return nil
}

func (c *Config) SetD3(v float64) error {
	if v < c.D2 || v <= c.D1 {
		return &InvalidParameterError{"d3", fmt.Sprintf("must stay above d2 (%.2f) and d1 (%.2f)", c.D2, c.D1)}
	}
	c.D3 = v
	return nil
}

func (c *Config) SetRepelForce(v float64) error {
	if v < 0 {
		return &InvalidParameterError{"repel_force", "must be non-negative"}
	}
	c.RepelForce = v
	return nil
}

func (c *Config) SetHalfLife(v float64) error {
	if v <= 0 {
		return &InvalidParameterError{"half_life", "must be positive"}
	}
	c.HalfLife = v
	return nil
}

func (c *Config) SetDt(v float64) error {
	if v <= 0 {
		return &InvalidParameterError{"dt", "must be positive"}
	}
	c.Dt = v
	return nil
}

func (c *Config) SetParticleCount(n int) error {
	if n < 0 {
		return &InvalidParameterError{"particle_count", "must be non-negative"}
	}
	c.ParticleCount = n
	return nil
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
