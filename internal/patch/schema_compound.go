package patch

// EffectDistortionMultiFlange is a compound effect: one schema covering
// several logical sub-blocks (distortion, noise gate, compressor,
// modulator, delay, reverb) exposed as namespaced parameter keys, grounded
// on original_source/magicstomp_effects/distortion_multi_flange_widget.py.
//
// spec.md §4.2/§9 notes that compound effects' widget-layer offsets
// historically overlap with the offsets used by the simple single-purpose
// variants (Distortion, Flange, Compressor, Reverb...). The schema table
// below is the authoritative source of truth for this effect type's
// layout and must not be reconciled against the simple variants' tables.
const EffectDistortionMultiFlange byte = 0x14

func init() {
	register(&EffectType{
		Code: EffectDistortionMultiFlange,
		Name: "Distortion Multi (Flange)",
		Parameters: []Parameter{
			// distortion sub-block
			{Key: "distortion.type", Name: "Distortion Type", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 1,
				Labels: []string{"Overdrive", "Distortion", "Fuzz", "Metal"}},
			{Key: "distortion.gain", Name: "Distortion Gain", Offset: 1, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.6, Scale: 1.0 / 127},
			{Key: "distortion.tone", Name: "Distortion Tone", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},

			// noise-gate sub-block
			{Key: "gate.threshold", Name: "Gate Threshold", Offset: 10, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -36, Scale: 60.0 / 127, Bias: -60},
			{Key: "gate.attack_ms", Name: "Gate Attack", Offset: 11, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 200, Step: 1, Default: 5},
			{Key: "gate.release_ms", Name: "Gate Release", Offset: 12, Length: 1, Kind: KindLogTime, Unit: "ms", Min: 10, Max: 1000, Step: 1, Default: 150},

			// compressor sub-block
			{Key: "compressor.threshold", Name: "Comp Threshold", Offset: 20, Length: 1, Kind: KindFixed, Unit: "dB", Min: -60, Max: 0, Step: 1, Default: -18, Scale: 60.0 / 127, Bias: -60},
			{Key: "compressor.ratio", Name: "Comp Ratio", Offset: 21, Length: 1, Kind: KindFixed, Unit: ":1", Min: 1, Max: 20, Step: 0.1, Default: 4, Scale: 19.0 / 127, Bias: 1},

			// modulator (flange) sub-block
			{Key: "modulator.rate_hz", Name: "Flange Rate", Offset: 30, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 10, Step: 0.01, Default: 0.5},
			{Key: "modulator.depth", Name: "Flange Depth", Offset: 31, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.4, Scale: 1.0 / 127},
			{Key: "modulator.feedback", Name: "Flange Feedback", Offset: 32, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
			{Key: "modulator.mix", Name: "Flange Level", Offset: 33, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},

			// delay sub-block
			{Key: "delay.time_ms", Name: "Delay Time", Offset: 40, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 300},
			{Key: "delay.feedback", Name: "Delay Feedback", Offset: 42, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.25, Scale: 1.0 / 127},
			{Key: "delay.mix", Name: "Delay Level", Offset: 43, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.15, Scale: 1.0 / 127},

			// reverb sub-block
			{Key: "reverb.decay_s", Name: "Reverb Decay", Offset: 50, Length: 1, Kind: KindLogTime, Unit: "s", Min: 0.1, Max: 3.0, Step: 0.01, Default: 1.2},
			{Key: "reverb.mix", Name: "Reverb Level", Offset: 51, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.12, Scale: 1.0 / 127},
		},
	})
}
