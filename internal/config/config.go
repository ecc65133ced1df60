package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlab/internal/collision"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/spawn"
)

const (
	DefaultG          = 120.0
	DefaultDt         = 0.008
	DefaultSoftening  = 4.0
	DefaultMaxVel     = 1800.0
	DefaultTheta      = 0.6
	DefaultDuration   = 30.0
	DefaultSpawnLimit = 50_000
)

type Config struct {
	System        string      `yaml:"system"`
	G             float64     `yaml:"g"`
	Dt            float64     `yaml:"dt"`
	TimeScale     float64     `yaml:"time_scale"`
	Softening     float64     `yaml:"softening"`
	MaxVel        float64     `yaml:"max_vel"`
	Theta         float64     `yaml:"theta"`
	CollisionMode string      `yaml:"collision_mode"`
	Restitution   float64     `yaml:"restitution"`
	AbsorbBias    float64     `yaml:"absorb_bias"`
	Deterministic bool        `yaml:"deterministic"`
	Seed          int64       `yaml:"seed"`
	SpawnLimit    int         `yaml:"spawn_limit"`
	Duration      float64     `yaml:"duration"`
	SampleEvery   int         `yaml:"sample_every"`
	Hazards       bool        `yaml:"hazards"`
	Accuracy      AccuracyConfig `yaml:"accuracy"`
}

// AccuracyConfig holds the adaptive opening-angle and softening bands.
// When a band is disabled the flat Theta/Softening values apply.
type AccuracyConfig struct {
	AdaptiveTheta     bool    `yaml:"adaptive_theta"`
	ThetaMin          float64 `yaml:"theta_min"`
	ThetaMax          float64 `yaml:"theta_max"`
	AdaptiveSoftening bool    `yaml:"adaptive_softening"`
	SofteningMin      float64 `yaml:"softening_min"`
	SofteningMax      float64 `yaml:"softening_max"`
}

func DefaultConfig() *Config {
	return &Config{
		System:        "single_star",
		G:             DefaultG,
		Dt:            DefaultDt,
		TimeScale:     1.0,
		Softening:     DefaultSoftening,
		MaxVel:        DefaultMaxVel,
		Theta:         DefaultTheta,
		CollisionMode: "absorb",
		Restitution:   0.8,
		AbsorbBias:    0.03,
		SpawnLimit:    DefaultSpawnLimit,
		Duration:      DefaultDuration,
		SampleEvery:   25,
		Accuracy: AccuracyConfig{
			AdaptiveTheta:     true,
			ThetaMin:          0.4,
			ThetaMax:          1.0,
			AdaptiveSoftening: true,
			SofteningMin:      2.0,
			SofteningMax:      10.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings converts the file-level record into engine tuning.
func (c *Config) Settings() (engine.Settings, error) {
	mode, err := collision.ParseMode(c.CollisionMode)
	if err != nil {
		return engine.Settings{}, err
	}
	s := engine.Settings{
		G:                 c.G,
		Dt:                c.Dt,
		TimeScale:         c.TimeScale,
		MaxVel:            c.MaxVel,
		Theta:             c.Theta,
		AdaptiveTheta:     c.Accuracy.AdaptiveTheta,
		ThetaMin:          c.Accuracy.ThetaMin,
		ThetaMax:          c.Accuracy.ThetaMax,
		Softening:         c.Softening,
		AdaptiveSoftening: c.Accuracy.AdaptiveSoftening,
		SofteningMin:      c.Accuracy.SofteningMin,
		SofteningMax:      c.Accuracy.SofteningMax,
		Running:           true,
		Mode:              mode,
		Restitution:       c.Restitution,
		AbsorbBias:        c.AbsorbBias,
		Deterministic:     c.Deterministic,
		Seed:              c.Seed,
		SpawnLimit:        c.SpawnLimit,
	}
	if err := s.Validate(); err != nil {
		return engine.Settings{}, err
	}
	return s, nil
}

// Populate seeds the world with the configured system.
func (c *Config) Populate(w *engine.World) error {
	switch c.System {
	case "single_star":
		spawn.SingleStar(w)
	case "binary_star":
		spawn.BinaryStar(w)
	case "cluster":
		spawn.Cluster(w)
	default:
		return fmt.Errorf("config: unknown system %q", c.System)
	}
	return nil
}
