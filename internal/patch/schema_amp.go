package patch

// Amp/dynamics/EQ family, grounded on original_source/magicstomp_effects/
// distortion_widgets.py and filter_widgets.py, and the AmpType/SpeakerSim/
// Gain/Master/Tone/Treble/HighMiddle/LowMiddle/Bass/Presence and
// CompressorThreshold/Ratio/Attack/Release/Knee/Gain offsets in
// original_source/magicstomp_parameter_map.py.

const (
	EffectAmpSimulator byte = 0x12
	EffectDistortion   byte = 0x13
	EffectCompressor   byte = 0x15
	EffectThreeBandEQ  byte = 0x16
)

func init() {
	register(&EffectType{
		Code: EffectAmpSimulator,
		Name: "Amp Simulator",
		Parameters: []Parameter{
			{Key: "amp_type", Name: "Amp Type", Offset: 16, Length: 1, Kind: KindEnum, Min: 0, Max: 5, Step: 1, Default: 2,
				Labels: []string{"Clean", "Crunch", "Lead", "Drive", "Acoustic", "Bass"}},
			{Key: "speaker_sim", Name: "Speaker Sim", Offset: 17, Length: 1, Kind: KindEnum, Min: 0, Max: 1, Step: 1, Default: 1, Labels: []string{"Off", "On"}},
			{Key: "amp_gain", Name: "Gain", Offset: 30, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
			{Key: "amp_master", Name: "Master", Offset: 31, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.7, Scale: 1.0 / 127},
			{Key: "amp_tone", Name: "Tone", Offset: 34, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
			{Key: "amp_treble", Name: "Treble", Offset: 36, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "amp_high_mid", Name: "High Mid", Offset: 37, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "amp_low_mid", Name: "Low Mid", Offset: 38, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "amp_bass", Name: "Bass", Offset: 39, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "amp_presence", Name: "Presence", Offset: 40, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
			{Key: "gate_threshold", Name: "Noise Gate Threshold", Offset: 42, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -40, Scale: 60.0 / 127, Bias: -60},
			{Key: "gate_attack_ms", Name: "Noise Gate Attack", Offset: 43, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 200, Step: 1, Default: 5},
			{Key: "gate_hold_ms", Name: "Noise Gate Hold", Offset: 44, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 500, Step: 1, Default: 50},
			{Key: "gate_decay_ms", Name: "Noise Gate Decay", Offset: 45, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 2000, Step: 1, Default: 200},
		},
	})

	register(&EffectType{
		Code: EffectDistortion,
		Name: "Distortion",
		Parameters: []Parameter{
			{Key: "dist_type", Name: "Type", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 1,
				Labels: []string{"Overdrive", "Distortion", "Fuzz", "Metal"}},
			{Key: "amp_gain", Name: "Gain", Offset: 1, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.6, Scale: 1.0 / 127},
			{Key: "amp_master", Name: "Master", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.6, Scale: 1.0 / 127},
			{Key: "amp_tone", Name: "Tone", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectCompressor,
		Name: "Compressor",
		Parameters: []Parameter{
			{Key: "comp_threshold", Name: "Threshold", Offset: 4, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -20, Scale: 60.0 / 127, Bias: -60},
			{Key: "comp_ratio", Name: "Ratio", Offset: 34, Length: 1, Kind: KindFixed, Unit: ":1", Min: 1, Max: 20, Step: 0.1, Default: 4, Scale: 19.0 / 127, Bias: 1},
			{Key: "comp_attack_ms", Name: "Attack", Offset: 35, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 0.1, Max: 100, Step: 0.1, Default: 10},
			{Key: "comp_release_ms", Name: "Release", Offset: 36, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 10, Max: 1000, Step: 1, Default: 150},
			{Key: "comp_knee", Name: "Knee", Offset: 37, Length: 1, Kind: KindFixed, Unit: "dB", Min: 0, Max: 12, Step: 0.5, Default: 3, Scale: 12.0 / 127},
			{Key: "comp_gain", Name: "Makeup Gain", Offset: 38, Length: 1, Kind: KindFixed, Unit: "dB", Min: 0, Max: 24, Step: 0.5, Default: 6, Scale: 24.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectThreeBandEQ,
		Name: "3 Band Parametric EQ",
		Parameters: []Parameter{
			{Key: "eq_low_hz", Name: "Low Freq", Offset: 0, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 20, Max: 2000, Step: 1, Default: 120},
			{Key: "eq_low_gain", Name: "Low Gain", Offset: 1, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "eq_mid_hz", Name: "Mid Freq", Offset: 2, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 200, Max: 6000, Step: 1, Default: 1000},
			{Key: "eq_mid_gain", Name: "Mid Gain", Offset: 3, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
			{Key: "eq_mid_q", Name: "Mid Q", Offset: 4, Length: 1, Kind: KindFixed, Unit: "", Min: 0.1, Max: 10, Step: 0.1, Default: 1, Scale: 9.9 / 127, Bias: 0.1},
			{Key: "eq_high_hz", Name: "High Freq", Offset: 5, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 2000, Max: 16000, Step: 1, Default: 6000},
			{Key: "eq_high_gain", Name: "High Gain", Offset: 6, Length: 1, Kind: KindFixed, Unit: "dB", Min: -12, Max: 12, Step: 0.5, Default: 0, Scale: 24.0 / 127, Bias: -12},
		},
	})
}
