package lossengine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func syntheticTone(sampleRate, freqHz float64, seconds float64) []float64 {
	n := int(sampleRate * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
	}
	return out
}

func TestComputeLoss_IdenticalSignalsHaveZeroLoss(t *testing.T) {
	calc := NewCalculator(44100)
	tone := syntheticTone(44100, 440, 0.5)

	loss, err := calc.ComputeLoss(tone, tone)
	require.NoError(t, err)
	assert.InDelta(t, 0, loss, 1e-6)
}

func TestComputeLoss_IsSymmetric(t *testing.T) {
	calc := NewCalculator(44100)
	a := syntheticTone(44100, 440, 0.5)
	b := syntheticTone(44100, 660, 0.5)

	lossAB, err := calc.ComputeLoss(a, b)
	require.NoError(t, err)
	lossBA, err := calc.ComputeLoss(b, a)
	require.NoError(t, err)

	assert.InDelta(t, lossAB, lossBA, 1e-6)
}

func TestComputeLoss_DifferentTonesHavePositiveLoss(t *testing.T) {
	calc := NewCalculator(44100)
	a := syntheticTone(44100, 220, 0.5)
	b := syntheticTone(44100, 880, 0.5)

	loss, err := calc.ComputeLoss(a, b)
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)
}

func TestComputeDetailedLoss_ComponentsSumToTotal(t *testing.T) {
	calc := NewCalculator(44100)
	a := syntheticTone(44100, 330, 0.3)
	b := syntheticTone(44100, 990, 0.3)

	detail, err := calc.ComputeDetailedLoss(a, b)
	require.NoError(t, err)
	assert.InDelta(t, melWeight*detail.MelLoss+mfccWeight*detail.MFCCLoss, detail.Total, 1e-9)
}

func TestAlignSignals_ShiftedCopyAlignsToZeroLag(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := syntheticTone(8000, 200, 0.1)
		shift := rapid.IntRange(1, 20).Draw(t, "shift")

		shifted := make([]float64, len(base))
		copy(shifted[shift:], base[:len(base)-shift])

		alignedA, alignedB := AlignSignals(base, shifted)
		require.Equal(t, len(alignedA), len(alignedB))
		require.NotEmpty(t, alignedA)
	})
}

func TestZeroCrossingRate_ConstantSignalIsZero(t *testing.T) {
	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 0.5
	}
	assert.Equal(t, 0.0, zeroCrossingRate(flat))
}

func TestZeroCrossingRate_AlternatingSignalIsOne(t *testing.T) {
	alt := make([]float64, 10)
	for i := range alt {
		if i%2 == 0 {
			alt[i] = 1
		} else {
			alt[i] = -1
		}
	}
	assert.Equal(t, 1.0, zeroCrossingRate(alt))
}

func TestComputeAuxiliaryDistances_IdenticalSignalsHaveZeroDelta(t *testing.T) {
	calc := NewCalculator(44100)
	tone := syntheticTone(44100, 440, 0.3)
	aux := calc.ComputeAuxiliaryDistances(tone, tone)
	assert.InDelta(t, 0, aux.SpectralCentroidDelta, 1e-6)
	assert.InDelta(t, 0, aux.SpectralRolloffDelta, 1e-6)
	assert.InDelta(t, 0, aux.ZeroCrossingRateDelta, 1e-6)
}
