package patch

// Modulation family, grounded on
// original_source/magicstomp_effects/modulation_widgets.py and
// simple_effects_widgets.py (Symphonic/AutoPan/Rotary/RingMod), and the
// ModWave/ModSpeed/ModDepth/ChorusLevel/FlangePhaserLevel offsets in
// original_source/magicstomp_parameter_map.py.

const (
	EffectChorus   byte = 0x05
	EffectFlange   byte = 0x06
	EffectPhaser   byte = 0x07
	EffectTremolo  byte = 0x08
	EffectSymphoni byte = 0x09
	EffectRotary   byte = 0x0A
	EffectRingMod  byte = 0x0B
	EffectAutoPan  byte = 0x0C
)

func modulationCore(levelName, levelKey string) []Parameter {
	return []Parameter{
		{Key: "mod_wave", Name: "Wave", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 0,
			Labels: []string{"Triangle", "Sine", "Square", "Sample&Hold"}},
		{Key: "mod_rate_hz", Name: "Rate", Offset: 1, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 10, Step: 0.01, Default: 0.8},
		{Key: "mod_depth", Name: "Depth", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.35, Scale: 1.0 / 127},
		{Key: levelKey, Name: levelName, Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.18, Scale: 1.0 / 127},
	}
}

func init() {
	register(&EffectType{Code: EffectChorus, Name: "Chorus", Parameters: modulationCore("Chorus Level", "mod_mix")})
	register(&EffectType{Code: EffectFlange, Name: "Flange", Parameters: append(modulationCore("Flange Level", "mod_mix"),
		Parameter{Key: "mod_feedback", Name: "Feedback", Offset: 4, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127})})
	register(&EffectType{Code: EffectPhaser, Name: "Phaser", Parameters: append(modulationCore("Phaser Level", "mod_mix"),
		Parameter{Key: "mod_stages", Name: "Stages", Offset: 4, Length: 1, Kind: KindEnum, Min: 0, Max: 3, Step: 1, Default: 1, Labels: []string{"4", "8", "12", "16"}})})
	register(&EffectType{
		Code: EffectTremolo,
		Name: "Tremolo",
		Parameters: []Parameter{
			{Key: "mod_wave", Name: "Wave", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 1, Step: 1, Default: 0, Labels: []string{"Triangle", "Square"}},
			{Key: "mod_rate_hz", Name: "Rate", Offset: 1, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 10, Step: 0.01, Default: 1.5},
			{Key: "mod_depth", Name: "Depth", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.5, Scale: 1.0 / 127},
		},
	})
	register(&EffectType{Code: EffectSymphoni, Name: "Symphonic", Parameters: modulationCore("Symphonic Level", "mod_mix")})
	register(&EffectType{
		Code: EffectRotary,
		Name: "Rotary",
		Parameters: []Parameter{
			{Key: "rotary_speed_select", Name: "Speed Select", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 1, Step: 1, Default: 1, Labels: []string{"Slow", "Fast"}},
			{Key: "rotary_slow_hz", Name: "Slow Rate", Offset: 1, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 2, Step: 0.01, Default: 0.6},
			{Key: "rotary_fast_hz", Name: "Fast Rate", Offset: 2, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 2, Max: 10, Step: 0.01, Default: 6},
			{Key: "mod_depth", Name: "Depth", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.6, Scale: 1.0 / 127},
		},
	})
	register(&EffectType{
		Code: EffectRingMod,
		Name: "Ring Mod",
		Parameters: []Parameter{
			{Key: "mod_rate_hz", Name: "Frequency", Offset: 0, Length: 2, Kind: KindLogFreq, Unit: "Hz", Min: 1, Max: 4000, Step: 1, Default: 220},
			{Key: "mod_mix", Name: "Level", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
		},
	})
	register(&EffectType{
		Code: EffectAutoPan,
		Name: "Auto Pan",
		Parameters: []Parameter{
			{Key: "mod_wave", Name: "Wave", Offset: 0, Length: 1, Kind: KindEnum, Min: 0, Max: 1, Step: 1, Default: 1, Labels: []string{"Triangle", "Sine"}},
			{Key: "mod_rate_hz", Name: "Rate", Offset: 1, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 10, Step: 0.01, Default: 1.0},
			{Key: "mod_depth", Name: "Depth", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.7, Scale: 1.0 / 127},
		},
	})
}
