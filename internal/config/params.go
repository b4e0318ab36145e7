package config

import (
	"fmt"
	"sort"
)

var ErrUnknownParam = fmt.Errorf("%w: unknown parameter", ErrInvalidConfig)

// params are the numeric knobs that sweeps and searches may turn.
var params = map[string]func(*Config, float64){
	"radius":   func(c *Config, v float64) { c.Grabber.MaxRadius = v },
	"strength": func(c *Config, v float64) { c.Grabber.PullStrength = v },
	"bodies":   func(c *Config, v float64) { c.Scene.Bodies = int(v + 0.5) },
	"spread":   func(c *Config, v float64) { c.Scene.Spread = v },
	"mass":     func(c *Config, v float64) { c.Scene.Mass = v },
	"dt":       func(c *Config, v float64) { c.Sim.Dt = v },
	"gravity":  func(c *Config, v float64) { c.Sim.Gravity = v },
}

// SetParam sets one named numeric parameter.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w %q (available: %v)", ErrUnknownParam, name, ListParams())
	}
	set(c, v)
	return nil
}

// With returns a copy of c with the given parameters set. The copy shares
// no mutable state with c.
func (c *Config) With(values map[string]float64) (*Config, error) {
	out := *c
	out.Layers = append([]string(nil), c.Layers...)
	out.Input.Windows = append([]Window(nil), c.Input.Windows...)
	if c.Rig.Anchor != nil {
		anchor := *c.Rig.Anchor
		out.Rig.Anchor = &anchor
	}
	for _, name := range sortedParams(values) {
		if err := out.SetParam(name, values[name]); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func ListParams() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedParams(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
