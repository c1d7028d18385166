package patch

// Reverb family, grounded on original_source/magicstomp_effects/
// reverb_widgets.py and early_reflection_widgets.py, and the
// ReverbTime/ReverbHigh/ReverbDiffusion/ReverbDensity/ReverbLevel offsets
// (85-89) in original_source/magicstomp_parameter_map.py.

const (
	EffectReverb           byte = 0x0D
	EffectGateReverb       byte = 0x0E
	EffectReverseGate      byte = 0x0F
	EffectEarlyReflections byte = 0x10
	EffectSpringReverb     byte = 0x11
)

func init() {
	register(&EffectType{
		Code: EffectReverb,
		Name: "Reverb",
		Parameters: []Parameter{
			{Key: "reverb_type", Name: "Type", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 4, Step: 1, Default: 2,
				Labels: []string{"Hall", "Room", "Stage", "Plate", "Spring"}},
			{Key: "reverb_decay_s", Name: "Decay", Offset: 1, Length: 1, Kind: KindLogTime, Unit: "s", Min: 0.1, Max: 3.0, Step: 0.01, Default: 1.5},
			{Key: "reverb_high", Name: "High Ratio", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.6, Scale: 1.0 / 127},
			{Key: "reverb_diffusion", Name: "Diffusion", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.7, Scale: 1.0 / 127},
			{Key: "reverb_density", Name: "Density", Offset: 4, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.7, Scale: 1.0 / 127},
			{Key: "reverb_mix", Name: "Level", Offset: 5, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.15, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectGateReverb,
		Name: "Gate Reverb",
		Parameters: []Parameter{
			{Key: "reverb_decay_s", Name: "Decay", Offset: 0, Length: 1, Kind: KindLogTime, Unit: "s", Min: 0.1, Max: 3.0, Step: 0.01, Default: 0.8},
			{Key: "gate_threshold", Name: "Gate Threshold", Offset: 1, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -30, Scale: 60.0 / 127, Bias: -60},
			{Key: "gate_hold_ms", Name: "Gate Hold", Offset: 2, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 500, Step: 1, Default: 80},
			{Key: "reverb_mix", Name: "Level", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectReverseGate,
		Name: "Reverse Gate",
		Parameters: []Parameter{
			{Key: "reverse_time_ms", Name: "Reverse Time", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 10, Max: 1500, Step: 1, Default: 400},
			{Key: "reverb_mix", Name: "Level", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectEarlyReflections,
		Name: "Early Reflections",
		Parameters: []Parameter{
			{Key: "er_type", Name: "Type", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 0,
				Labels: []string{"Hall", "Room", "Plate", "Random"}},
			{Key: "er_initial_delay_ms", Name: "Initial Delay", Offset: 1, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 200, Step: 1, Default: 20},
			{Key: "reverb_mix", Name: "Level", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.25, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectSpringReverb,
		Name: "Spring Reverb",
		Parameters: []Parameter{
			{Key: "reverb_decay_s", Name: "Decay", Offset: 0, Length: 1, Kind: KindLogTime, Unit: "s", Min: 0.1, Max: 3.0, Step: 0.01, Default: 1.2},
			{Key: "spring_tone", Name: "Tone", Offset: 1, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
			{Key: "reverb_mix", Name: "Level", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},
		},
	})
}
