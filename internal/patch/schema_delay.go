package patch

// Delay family effect-type codes and schemas, grounded on
// original_source/magicstomp_effects/delay_widgets.py,
// complex_delay_widgets.py and multitap_delay_widgets*.py, and the offset
// table in original_source/magicstomp_parameter_map.py (DelayTapL/R,
// DelayFeedbackGain, DelayHeigh, DelayLevel, DelayHPF/LPF at effect offsets
// 74-89 for the simple delay family).

const (
	EffectMonoDelay    byte = 0x00
	EffectStereoDelay  byte = 0x01
	EffectModDelay     byte = 0x02
	EffectEcho         byte = 0x03
	EffectDelayLCR     byte = 0x04
	EffectMultitapEcho byte = 0x1D
)

func init() {
	register(&EffectType{
		Code: EffectMonoDelay,
		Name: "Mono Delay",
		Parameters: []Parameter{
			{Key: "delay_time_ms", Name: "Delay Time", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 300},
			{Key: "delay_feedback", Name: "Feedback", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127, Bias: 0},
			{Key: "delay_hpf", Name: "HPF", Offset: 3, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 20, Max: 8000, Step: 1, Default: 100},
			{Key: "delay_lpf", Name: "LPF", Offset: 4, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 200, Max: 16000, Step: 1, Default: 8000},
			{Key: "delay_mix", Name: "Mix", Offset: 5, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127, Bias: 0},
		},
	})

	register(&EffectType{
		Code: EffectStereoDelay,
		Name: "Stereo Delay",
		Parameters: []Parameter{
			{Key: "delay_tap_l", Name: "Tap Left", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 250},
			{Key: "delay_tap_r", Name: "Tap Right", Offset: 2, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 375},
			{Key: "delay_feedback", Name: "Feedback", Offset: 4, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
			{Key: "delay_mix", Name: "Mix", Offset: 5, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectModDelay,
		Name: "Mod Delay",
		Parameters: []Parameter{
			{Key: "delay_time_ms", Name: "Delay Time", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 300},
			{Key: "delay_feedback", Name: "Feedback", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
			{Key: "mod_rate_hz", Name: "Mod Rate", Offset: 3, Length: 1, Kind: KindLogFreq, Unit: "Hz", Min: 0.1, Max: 10, Step: 0.01, Default: 0.8},
			{Key: "mod_depth", Name: "Mod Depth", Offset: 4, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.35, Scale: 1.0 / 127},
			{Key: "delay_mix", Name: "Mix", Offset: 5, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.2, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectEcho,
		Name: "Echo",
		Parameters: []Parameter{
			{Key: "echo_time_ms", Name: "Echo Time", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 400},
			{Key: "echo_feedback", Name: "Feedback", Offset: 2, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.35, Scale: 1.0 / 127},
			{Key: "echo_mix", Name: "Mix", Offset: 3, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.25, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectDelayLCR,
		Name: "Delay LCR",
		Parameters: []Parameter{
			{Key: "delay_tap_l", Name: "Tap Left", Offset: 0, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 250},
			{Key: "delay_tap_c", Name: "Tap Center", Offset: 2, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 500},
			{Key: "delay_tap_r", Name: "Tap Right", Offset: 4, Length: 2, Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: 750},
			{Key: "delay_feedback", Name: "Feedback", Offset: 6, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.3, Scale: 1.0 / 127},
		},
	})

	register(&EffectType{
		Code: EffectMultitapEcho,
		Name: "8-Band Multitap Delay",
		Parameters: tapDelayParameters(8),
	})
}

// tapDelayParameters builds n evenly-offset "delay_tap_N" parameters plus a
// shared feedback and level knob, the Go equivalent of the Python
// EightBandParallelDelayWidget's generated-per-tap controls.
func tapDelayParameters(n int) []Parameter {
	params := make([]Parameter, 0, n+2)
	for i := 0; i < n; i++ {
		params = append(params, Parameter{
			Key: tapKey(i), Name: tapName(i), Offset: i * 2, Length: 2,
			Kind: KindLogTime, Unit: "ms", Min: 1, Max: 1500, Step: 1, Default: float64(100 * (i + 1)),
		})
	}
	base := n * 2
	params = append(params,
		Parameter{Key: "delay_feedback", Name: "Feedback", Offset: base, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.25, Scale: 1.0 / 127},
		Parameter{Key: "delay_level", Name: "Level", Offset: base + 1, Length: 1, Kind: KindFixed, Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 0.8, Scale: 1.0 / 127},
	)
	return params
}

func tapKey(i int) string  { return "delay_tap_" + itoa(i+1) }
func tapName(i int) string { return "Tap " + itoa(i+1) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
