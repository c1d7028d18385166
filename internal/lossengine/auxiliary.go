package lossengine

import "math"

// AuxiliaryDistances holds the secondary timbral distances the session
// report surfaces alongside the primary log-mel/MFCC loss, useful for a
// human operator judging whether a failed optimization run was "close but
// dull" vs "way off" (spec.md §4.5 supplement, not fed back into the
// optimizer's objective).
type AuxiliaryDistances struct {
	SpectralCentroidDelta float64
	SpectralRolloffDelta  float64
	ZeroCrossingRateDelta float64
}

// ComputeAuxiliaryDistances computes |target - processed| for spectral
// centroid, 85% spectral rolloff, and zero-crossing rate, each averaged
// over frames (centroid/rolloff) or computed once over the whole clip
// (zero-crossing rate).
func (c *Calculator) ComputeAuxiliaryDistances(target, processed []float64) AuxiliaryDistances {
	alignedTarget, alignedProcessed := AlignSignals(target, processed)

	targetSpectrum := STFTMagnitude(alignedTarget, c.sampleRate)
	processedSpectrum := STFTMagnitude(alignedProcessed, c.sampleRate)

	return AuxiliaryDistances{
		SpectralCentroidDelta: math.Abs(meanSpectralCentroid(targetSpectrum, c.sampleRate) - meanSpectralCentroid(processedSpectrum, c.sampleRate)),
		SpectralRolloffDelta:  math.Abs(meanSpectralRolloff(targetSpectrum, c.sampleRate, 0.85) - meanSpectralRolloff(processedSpectrum, c.sampleRate, 0.85)),
		ZeroCrossingRateDelta: math.Abs(zeroCrossingRate(alignedTarget) - zeroCrossingRate(alignedProcessed)),
	}
}

func binHz(bin, numBins int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(2*(numBins-1))
}

func meanSpectralCentroid(frames [][]float64, sampleRate float64) float64 {
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, mags := range frames {
		var weighted, total float64
		for b, m := range mags {
			hz := binHz(b, len(mags), sampleRate)
			weighted += hz * m
			total += m
		}
		if total > 0 {
			sum += weighted / total
		}
	}
	return sum / float64(len(frames))
}

func meanSpectralRolloff(frames [][]float64, sampleRate float64, fraction float64) float64 {
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, mags := range frames {
		var total float64
		for _, m := range mags {
			total += m
		}
		threshold := total * fraction
		var cumulative float64
		rolloffBin := len(mags) - 1
		for b, m := range mags {
			cumulative += m
			if cumulative >= threshold {
				rolloffBin = b
				break
			}
		}
		sum += binHz(rolloffBin, len(mags), sampleRate)
	}
	return sum / float64(len(frames))
}

func zeroCrossingRate(audio []float64) float64 {
	if len(audio) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(audio); i++ {
		if (audio[i-1] >= 0) != (audio[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(audio)-1)
}
