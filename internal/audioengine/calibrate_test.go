package audioengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCrossCorrelateLag_FindsExactShift(t *testing.T) {
	ref := []float32{0, 0.8, 0, 0, 0.8, 0, 0}
	shift := 3
	recorded := make([]float32, len(ref)+shift+2)
	copy(recorded[shift:], ref)

	lag := crossCorrelateLag(ref, recorded)
	assert.Equal(t, shift, lag)
}

func TestCrossCorrelateLag_RejectsPureNoise(t *testing.T) {
	ref := []float32{0, 0.8, 0, 0}
	noise := make([]float32, 20)
	lag := crossCorrelateLag(ref, noise)
	assert.Equal(t, -1, lag)
}

func TestGenerateClickTrain_PlacesOneClickPerGap(t *testing.T) {
	clicks := generateClickTrain(48000, 4, 100, 0.8)
	gapSamples := int(48000 * 100 / 1000.0)
	nonZero := 0
	for i, v := range clicks {
		if v != 0 {
			nonZero++
			assert.Equal(t, 0, i%gapSamples, "clicks must land exactly on gap boundaries")
		}
	}
	assert.Equal(t, 4, nonZero)
}

func TestToFromChannel_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		channels := rapid.IntRange(1, 2).Draw(t, "channels")
		mono := rapid.SliceOfN(rapid.Float32Range(-1, 1), 1, 50).Draw(t, "mono")

		interleaved := toChannel(mono, channels)
		require.Equal(t, len(mono)*channels, len(interleaved))

		back := fromChannel(interleaved, channels)
		require.Equal(t, len(mono), len(back))
		for i := range mono {
			assert.InDelta(t, mono[i], back[i], 1e-6)
		}
	})
}

func TestPeakAbs(t *testing.T) {
	assert.InDelta(t, 0.8, peakAbs([]float32{0.1, -0.8, 0.3}), 1e-6)
	assert.Equal(t, 0.0, peakAbs(nil))
}

func TestRMS_ZeroForSilence(t *testing.T) {
	assert.Equal(t, 0.0, rms(make([]float32, 10)))
	assert.Equal(t, 0.0, rms(nil))
}

func TestRMS_MatchesKnownConstantSignal(t *testing.T) {
	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 0.5
	}
	assert.InDelta(t, 0.5, rms(samples), 1e-6)
}

func TestCalibrationProfile_GainCompensationIsCapped(t *testing.T) {
	// A recorded RMS near zero should saturate gain at the cap, not
	// diverge to infinity or a nonsensical negative value.
	gain := (targetGainCompGain * 1.0) / 1e-9
	if gain > maxGainCompensation {
		gain = maxGainCompensation
	}
	assert.Equal(t, maxGainCompensation, gain)
}
