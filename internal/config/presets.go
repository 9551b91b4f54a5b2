package config

import "sort"

// Presets are named starting points for the simulation. Values were
// tuned by hand; they only need to satisfy Validate.
var Presets = map[string]Config{
	"default": Default(),
	"dense": {
		ParticleCount: 4000,
		MapWidth:      2000, MapHeight: 2000,
		D1: 20, D2: 45, D3: 70,
		RepelForce: 150, HalfLife: 0.04, Dt: 0.1,
	},
	"sparse": {
		ParticleCount: 400,
		MapWidth:      1500, MapHeight: 1500,
		D1: 40, D2: 90, D3: 140,
		RepelForce: 80, HalfLife: 0.08, Dt: 0.1,
	},
	"sluggish": {
		ParticleCount: 1500,
		MapWidth:      1000, MapHeight: 1000,
		D1: 30, D2: 65, D3: 100,
		RepelForce: 100, HalfLife: 0.01, Dt: 0.05,
	},
	"wide": {
		ParticleCount: 6000,
		MapWidth:      7608, MapHeight: 3909,
		D1: 30, D2: 65, D3: 100,
		RepelForce: 100, HalfLife: 0.04, Dt: 0.1,
	},
}

// GetPreset returns a copy of the named preset, or false if unknown.
func GetPreset(name string) (Config, bool) {
	cfg, ok := Presets[name]
	return cfg, ok
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
