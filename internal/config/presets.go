package config

import "sort"

var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"sparse": func(c *Config) {
		c.Scene.Bodies = 6
		c.Scene.Spread = 9
		c.Scene.Layout = "ring"
	},
	// crowd puts more bodies in range than the initial query buffer holds.
	"crowd": func(c *Config) {
		c.Scene.Bodies = 150
		c.Scene.Spread = 9
		c.Scene.Layout = "grid"
		c.Scene.Radius = 0.25
	},
	"decoys": func(c *Config) {
		c.Scene.Bodies = 12
		c.Scene.Decoys = 12
		c.Scene.DecoyLayer = "Scenery"
		c.Scene.Props = 4
	},
	"pulse": func(c *Config) {
		c.Input.Mode = "pulse"
		c.Input.Period = 2
		c.Input.Duty = 0.5
		c.Sim.Duration = 12
	},
	"tall": func(c *Config) {
		c.Grabber.MaxRadius = 25
		c.Rig.Position[1] = 25
		c.Scene.Height = 40
		c.Scene.Spread = 30
	},
	"drift": func(c *Config) {
		c.Rig.Drift = [3]float64{1.5, 0, 0}
		c.Scene.Spread = 24
		c.Scene.Bodies = 40
		c.Sim.Duration = 15
	},
	"attrition": func(c *Config) {
		c.Scene.DestroyAt = 3
		c.Scene.DestroyCount = 8
	},
	"tether": func(c *Config) {
		c.Rig.Anchor = &[3]float64{0, -8, 4}
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
