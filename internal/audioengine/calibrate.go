package audioengine

import (
	"context"
	"math"
	"time"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// CalibrationProfile captures the measured round-trip characteristics of
// the play/record loop (spec.md §3/§4.4), persisted by internal/config so
// later sessions can skip re-measuring a stable interface.
type CalibrationProfile struct {
	LatencySamples int     `yaml:"latency_samples"`
	GainCompensation float64 `yaml:"gain_compensation"`
	SampleRate     float64 `yaml:"sample_rate"`
}

const (
	clickTrainClicks   = 8
	clickTrainGapMs    = 250
	clickAmplitude     = 0.8
	targetGainCompGain = 0.89
	maxGainCompensation = 2.0
)

// Calibrate plays a click train and cross-correlates the recorded signal
// against it to measure round-trip latency (in samples), and sets the gain
// compensation to targetGainCompGain divided by the recorded RMS level,
// capped at maxGainCompensation (spec.md §4.4).
func (e *Engine) Calibrate(ctx context.Context) (CalibrationProfile, error) {
	clicks := generateClickTrain(e.sampleRate, clickTrainClicks, clickTrainGapMs, clickAmplitude)
	stereoClicks := toChannel(clicks, e.channels)

	recorded, err := e.PlayRecord(ctx, stereoClicks, time.Duration(clickTrainGapMs)*time.Millisecond)
	if err != nil {
		return CalibrationProfile{}, err
	}
	mono := fromChannel(recorded, e.channels)

	recordedRMS := rms(mono)
	if recordedRMS == 0 {
		return CalibrationProfile{GainCompensation: 1.0, SampleRate: e.sampleRate},
			apperr.Newf(apperr.KindSilentInput, "audioengine.Calibrate", "recorded signal is silent (rms=0)")
	}

	lagSamples := crossCorrelateLag(clicks, mono)
	if lagSamples < 0 {
		return CalibrationProfile{}, apperr.Newf(apperr.KindConfigureFailed, "audioengine.Calibrate", "cross-correlation found no usable alignment")
	}

	gain := targetGainCompGain / recordedRMS
	if gain > maxGainCompensation {
		gain = maxGainCompensation
	}

	return CalibrationProfile{
		LatencySamples:   lagSamples,
		GainCompensation: gain,
		SampleRate:       e.sampleRate,
	}, nil
}

func generateClickTrain(sampleRate float64, clicks int, gapMs int, amplitude float64) []float32 {
	gapSamples := int(sampleRate * float64(gapMs) / 1000.0)
	out := make([]float32, clicks*gapSamples)
	for i := 0; i < clicks; i++ {
		idx := i * gapSamples
		if idx < len(out) {
			out[idx] = float32(amplitude)
		}
	}
	return out
}

func toChannel(mono []float32, channels int) []float32 {
	if channels <= 1 {
		return mono
	}
	out := make([]float32, len(mono)*channels)
	for i, v := range mono {
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

func fromChannel(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	out := make([]float32, len(interleaved)/channels)
	for i := range out {
		out[i] = interleaved[i*channels]
	}
	return out
}

// crossCorrelateLag returns the sample offset into recorded that best
// aligns with reference, or -1 if no correlation peak clears noise floor.
func crossCorrelateLag(reference, recorded []float32) int {
	if len(recorded) < len(reference) {
		return -1
	}
	maxLag := len(recorded) - len(reference)
	bestLag := -1
	bestScore := 0.0
	for lag := 0; lag <= maxLag; lag++ {
		score := 0.0
		for i, r := range reference {
			score += float64(r) * float64(recorded[lag+i])
		}
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	if bestScore <= 1e-6 {
		return -1
	}
	return bestLag
}

func peakAbs(samples []float32) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	return peak
}

// rms returns the root-mean-square level of samples, 0 for an empty or
// all-zero (silent) signal.
func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		v := float64(s)
		sumSquares += v * v
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
