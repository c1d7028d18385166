package patch

// Filter and pitch/dynamics families, grounded on
// original_source/magicstomp_effects/filter_widgets.py (MultiFilterWidget,
// DynamicFilterWidget), pitch_widgets.py (HQPitchWidget, DualPitchWidget),
// tape_echo_widget.py and dynamics_widgets.py (MBandDynaWidget).

const (
	EffectMultiFilter   byte = 0x17
	EffectDynamicFilter byte = 0x18
	EffectHQPitch       byte = 0x19
	EffectDualPitch     byte = 0x1A
	EffectTapeEcho      byte = 0x1B
	EffectMultiBandDyna byte = 0x1C
)

func init() {
	register(&EffectType{
		Code: EffectMultiFilter,
		Name: "Multi Filter",
		Parameters: []Parameter{
			{Key: "filter_type", Name: "Type", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 0,
				Labels: []string{"LPF", "HPF", "BPF", "Notch"}},
			{Key: "filter_cutoff_hz", Name: "Cutoff", Offset: 1, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 20, Max: 16000, Step: 1, Default: 1000},
			{Key: "filter_resonance", Name: "Resonance", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
			{Key: "filter_mix", Name: "Mix", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 1.0, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectDynamicFilter,
		Name: "Dynamic Filter",
		Parameters: []Parameter{
			{Key: "filter_cutoff_hz", Name: "Base Cutoff", Offset: 0, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 20, Max: 16000, Step: 1, Default: 800},
			{Key: "filter_sensitivity", Name: "Sensitivity", Offset: 1, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
			{Key: "filter_direction", Name: "Direction", Offset: 2, Length: 1, Kind: KindEnum, Min: 0, Max: 1, Step: 1, Default: 0, Labels: []string{"Up", "Down"}},
			{Key: "filter_mix", Name: "Mix", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.8, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectHQPitch,
		Name: "HQ Pitch",
		Parameters: []Parameter{
			{Key: "pitch_semitones", Name: "Pitch", Offset: 0, Length: 1, Kind: KindFixed, Unit: "st", Min: -24, Max: 24, Step: 1, Default: 0, Scale: 48.0 / 127, Bias: -24},
			{Key: "pitch_fine_cents", Name: "Fine", Offset: 1, Length: 1, Kind: KindFixed, Unit: "cents", Min: -50, Max: 50, Step: 1, Default: 0, Scale: 100.0 / 127, Bias: -50},
			{Key: "pitch_mix", Name: "Mix", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectDualPitch,
		Name: "Dual Pitch",
		Parameters: []Parameter{
			{Key: "pitch1_semitones", Name: "Pitch 1", Offset: 0, Length: 1, Kind: KindFixed, Unit: "st", Min: -24, Max: 24, Step: 1, Default: -12, Scale: 48.0 / 127, Bias: -24},
			{Key: "pitch2_semitones", Name: "Pitch 2", Offset: 1, Length: 1, Kind: KindFixed, Unit: "st", Min: -24, Max: 24, Step: 1, Default: 12, Scale: 48.0 / 127, Bias: -24},
			{Key: "pitch_mix", Name: "Mix", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectTapeEcho,
		Name: "Tape Echo",
		Parameters: []Parameter{
			{Key: "echo_time_ms", Name: "Echo Time", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 350},
			{Key: "echo_feedback", Name: "Feedback", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.4, Scale: 1.0 / 127},
			{Key: "echo_wow_flutter", Name: "Wow & Flutter", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.15, Scale: 1.0 / 127},
			{Key: "echo_mix", Name: "Mix", Offset: 4, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.25, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectMultiBandDyna,
		Name: "Multi-Band Dynamic Processor",
		Parameters: []Parameter{
			{Key: "mb_low_threshold", Name: "Low Threshold", Offset: 0, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -24, Scale: 60.0 / 127, Bias: -60},
			{Key: "mb_mid_threshold", Name: "Mid Threshold", Offset: 1, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -24, Scale: 60.0 / 127, Bias: -60},
			{Key: "mb_high_threshold", Name: "High Threshold", Offset: 2, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -24, Scale: 60.0 / 127, Bias: -60},
			{Key: "mb_ratio", Name: "Ratio", Offset: 3, Length: 1, Kind: KindFixed, Unit: ":1", Min: 1, Max: 20, Step: 0.1, Default: 3, Scale: 19.0 / 127, Bias: 1},
		},
	})
}
