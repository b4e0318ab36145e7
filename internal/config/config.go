package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/gravwell/internal/grab"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 0.02
	DefaultDuration     = 10.0
	DefaultCategory     = "Grabbable"
	DefaultPullStrength = 200.0
	DefaultMaxRadius    = 10.0
	DefaultBodies       = 24
	DefaultSpread       = 14.0
	DefaultBodyRadius   = 0.5
	DefaultGravity      = 9.81
	DefaultIntegrator   = "semi_implicit"
	DefaultLayout       = "random"
	DefaultInput        = "hold"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Layers  []string    `yaml:"layers"`
	Grabber grab.Config `yaml:"grabber"`
	Rig     RigConfig   `yaml:"rig"`
	Sim     SimConfig   `yaml:"sim"`
	Scene   SceneConfig `yaml:"scene"`
	Input   InputConfig `yaml:"input"`
}

// RigConfig places the grabber. The grabber's height is pinned to its
// radius, so Position[1] only matters before the first sync.
type RigConfig struct {
	Position [3]float64 `yaml:"position"`
	// Anchor is an offset from Position. When nil the grabber pulls toward
	// itself.
	Anchor *[3]float64 `yaml:"anchor,omitempty"`
	Light  bool        `yaml:"light"`
	// Drift moves the grabber every second, as a player would.
	Drift [3]float64 `yaml:"drift"`
}

type SimConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`
	Integrator string  `yaml:"integrator"`
	Gravity    float64 `yaml:"gravity"`
	Floor      float64 `yaml:"floor"`
}

type SceneConfig struct {
	Layout string  `yaml:"layout"`
	Bodies int     `yaml:"bodies"`
	Spread float64 `yaml:"spread"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Height float64 `yaml:"height"`
	// Decoys are bodies on DecoyLayer that the grabber must ignore.
	Decoys     int    `yaml:"decoys"`
	DecoyLayer string `yaml:"decoy_layer"`
	// Props are static colliders on the grab layer without a rigid body.
	Props int `yaml:"props"`
	// DestroyCount bodies are removed from the world at DestroyAt seconds.
	DestroyAt    float64 `yaml:"destroy_at"`
	DestroyCount int     `yaml:"destroy_count"`
}

type InputConfig struct {
	Mode    string   `yaml:"mode"`
	Period  float64  `yaml:"period"`
	Duty    float64  `yaml:"duty"`
	Windows []Window `yaml:"windows,omitempty"`
}

// Window is a span of simulated time during which pulling is held.
type Window struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

func DefaultConfig() *Config {
	return &Config{
		Layers: []string{DefaultCategory, "Scenery"},
		Grabber: grab.Config{
			Category:     DefaultCategory,
			PullStrength: DefaultPullStrength,
			MaxRadius:    DefaultMaxRadius,
		},
		Rig: RigConfig{
			Position: [3]float64{0, DefaultMaxRadius, 0},
			Light:    true,
		},
		Sim: SimConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Seed:       1,
			Integrator: DefaultIntegrator,
			Gravity:    DefaultGravity,
		},
		Scene: SceneConfig{
			Layout: DefaultLayout,
			Bodies: DefaultBodies,
			Spread: DefaultSpread,
			Radius: DefaultBodyRadius,
			Mass:   1,
		},
		Input: InputConfig{
			Mode:   DefaultInput,
			Period: 2,
			Duty:   0.5,
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

// Validate checks everything except category resolution, which the grabber
// does itself when it is built.
func (c *Config) Validate() error {
	if err := c.Grabber.Validate(); err != nil {
		return err
	}
	if c.Sim.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Sim.Dt)
	}
	if c.Sim.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Sim.Duration)
	}
	if c.Scene.Bodies < 0 || c.Scene.Decoys < 0 || c.Scene.Props < 0 || c.Scene.DestroyCount < 0 {
		return fmt.Errorf("%w: scene counts must not be negative", ErrInvalidConfig)
	}
	if c.Scene.Radius <= 0 {
		return fmt.Errorf("%w: body radius must be positive, got %f", ErrInvalidConfig, c.Scene.Radius)
	}
	if c.Scene.Decoys > 0 && c.Scene.DecoyLayer == "" {
		return fmt.Errorf("%w: decoys need a decoy_layer", ErrInvalidConfig)
	}
	switch c.Input.Mode {
	case "hold", "never", "windows":
	case "pulse":
		if c.Input.Period <= 0 || c.Input.Duty < 0 || c.Input.Duty > 1 {
			return fmt.Errorf("%w: pulse needs period > 0 and duty in [0,1]", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown input mode %q", ErrInvalidConfig, c.Input.Mode)
	}
	for _, w := range c.Input.Windows {
		if w.End <= w.Start {
			return fmt.Errorf("%w: input window [%f, %f] is empty", ErrInvalidConfig, w.Start, w.End)
		}
	}
	return nil
}

// AnchorOffset returns the configured anchor offset and whether one is set.
func (c *Config) AnchorOffset() ([3]float64, bool) {
	if c.Rig.Anchor == nil {
		return [3]float64{}, false
	}
	return *c.Rig.Anchor, true
}
