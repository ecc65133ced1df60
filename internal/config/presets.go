package config

// Presets are curated scenario tunings. Each value is a complete
// Config; Load-style defaulting does not apply to them.
var Presets = map[string]*Config{
	"calm_belts": {
		System: "single_star", G: 120.0, Dt: 0.008, TimeScale: 1.0,
		Softening: 4.0, MaxVel: 1800.0, Theta: 0.6,
		CollisionMode: "absorb", Restitution: 0.0, AbsorbBias: 0.03,
		SpawnLimit: DefaultSpawnLimit, Duration: 30.0, SampleEvery: 25,
		Hazards: true,
		Accuracy: AccuracyConfig{
			AdaptiveTheta: true, ThetaMin: 0.4, ThetaMax: 1.0,
			AdaptiveSoftening: true, SofteningMin: 2.0, SofteningMax: 10.0,
		},
	},
	"binary_mayhem": {
		System: "binary_star", G: 200.0, Dt: 0.005, TimeScale: 1.0,
		Softening: 8.0, MaxVel: 2500.0, Theta: 0.8,
		CollisionMode: "elastic", Restitution: 0.9, AbsorbBias: 0.0,
		SpawnLimit: DefaultSpawnLimit, Duration: 30.0, SampleEvery: 25,
		Hazards: true,
		Accuracy: AccuracyConfig{
			AdaptiveTheta: true, ThetaMin: 0.6, ThetaMax: 1.2,
			AdaptiveSoftening: true, SofteningMin: 5.0, SofteningMax: 15.0,
		},
	},
	"star_nursery": {
		System: "cluster", G: 150.0, Dt: 0.01, TimeScale: 1.0,
		Softening: 6.0, MaxVel: 2000.0, Theta: 0.7,
		CollisionMode: "absorb", Restitution: 0.0, AbsorbBias: 0.05,
		SpawnLimit: DefaultSpawnLimit, Duration: 30.0, SampleEvery: 25,
		Hazards: true,
		Accuracy: AccuracyConfig{
			AdaptiveTheta: true, ThetaMin: 0.5, ThetaMax: 1.1,
			AdaptiveSoftening: true, SofteningMin: 3.0, SofteningMax: 12.0,
		},
	},
	// The arena relies on the large absorb bias to grow a black hole
	// out of the central star instead of seeding one directly.
	"bh_arena": {
		System: "single_star", G: 300.0, Dt: 0.003, TimeScale: 1.0,
		Softening: 10.0, MaxVel: 3000.0, Theta: 0.9,
		CollisionMode: "absorb", Restitution: 0.0, AbsorbBias: 0.1,
		SpawnLimit: DefaultSpawnLimit, Duration: 30.0, SampleEvery: 25,
		Hazards: true,
		Accuracy: AccuracyConfig{
			AdaptiveTheta: true, ThetaMin: 0.7, ThetaMax: 1.5,
			AdaptiveSoftening: true, SofteningMin: 8.0, SofteningMax: 20.0,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
