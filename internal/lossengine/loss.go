package lossengine

import (
	"math"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

const (
	melWeight  = 0.6
	mfccWeight = 0.4
)

// Features holds the log-mel and MFCC feature matrices extracted from one
// audio clip, each indexed [frame][band/coeff].
type Features struct {
	LogMel [][]float64
	MFCC   [][]float64
}

// Calculator extracts and compares perceptual features at a fixed sample
// rate, pre-computing its mel filterbank once (spec.md §4.5).
type Calculator struct {
	sampleRate float64
	filterbank [][]float64
}

// NewCalculator builds a Calculator for sampleRate, precomputing the mel
// filterbank over FFTSize/2+1 bins up to FMax.
func NewCalculator(sampleRate float64) *Calculator {
	return &Calculator{
		sampleRate: sampleRate,
		filterbank: melFilterbank(sampleRate, FFTSize/2+1, MelBands, FMax),
	}
}

// ExtractFeatures computes log-mel and MFCC features for a mono audio
// clip.
func (c *Calculator) ExtractFeatures(audio []float64) Features {
	spectrum := STFTMagnitude(audio, c.sampleRate)
	melEnergies := applyFilterbank(spectrum, c.filterbank)
	logMelFrames := logMel(melEnergies)
	mfcc := dctII(logMelFrames, MFCCCoeffs)
	return Features{LogMel: logMelFrames, MFCC: mfcc}
}

// ComputeLoss aligns target and processed audio by cross-correlation,
// extracts features from both, and returns the weighted log-mel/MFCC L2
// distance (spec.md §4.5: mel_weight=0.6, mfcc_weight=0.4).
func (c *Calculator) ComputeLoss(target, processed []float64) (float64, error) {
	alignedTarget, alignedProcessed := AlignSignals(target, processed)
	if len(alignedTarget) == 0 || len(alignedProcessed) == 0 {
		return 0, apperr.Newf(apperr.KindConfigureFailed, "lossengine.ComputeLoss", "empty signal after alignment")
	}

	targetFeat := c.ExtractFeatures(alignedTarget)
	processedFeat := c.ExtractFeatures(alignedProcessed)

	melLoss := l2Loss(targetFeat.LogMel, processedFeat.LogMel)
	mfccLoss := l2Loss(targetFeat.MFCC, processedFeat.MFCC)

	return melWeight*melLoss + mfccWeight*mfccLoss, nil
}

// DetailedLoss is ComputeLoss's breakdown, used by the conductor's
// session report (spec.md §4.5/§6).
type DetailedLoss struct {
	Total    float64
	MelLoss  float64
	MFCCLoss float64
}

// ComputeDetailedLoss mirrors ComputeLoss but also returns the individual
// mel/MFCC components.
func (c *Calculator) ComputeDetailedLoss(target, processed []float64) (DetailedLoss, error) {
	alignedTarget, alignedProcessed := AlignSignals(target, processed)
	if len(alignedTarget) == 0 || len(alignedProcessed) == 0 {
		return DetailedLoss{}, apperr.Newf(apperr.KindConfigureFailed, "lossengine.ComputeDetailedLoss", "empty signal after alignment")
	}
	targetFeat := c.ExtractFeatures(alignedTarget)
	processedFeat := c.ExtractFeatures(alignedProcessed)

	mel := l2Loss(targetFeat.LogMel, processedFeat.LogMel)
	mfcc := l2Loss(targetFeat.MFCC, processedFeat.MFCC)
	return DetailedLoss{
		Total:    melWeight*mel + mfccWeight*mfcc,
		MelLoss:  mel,
		MFCCLoss: mfcc,
	}, nil
}

// l2Loss is the mean squared difference between two feature matrices,
// truncated to their common frame count (matching the original's
// min_frames truncation).
func l2Loss(target, processed [][]float64) float64 {
	n := len(target)
	if len(processed) < n {
		n = len(processed)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	var count int
	for t := 0; t < n; t++ {
		row := target[t]
		other := processed[t]
		m := len(row)
		if len(other) < m {
			m = len(other)
		}
		for i := 0; i < m; i++ {
			d := row[i] - other[i]
			sum += d * d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// AlignSignals trims target and processed to their best cross-correlation
// alignment, matching the original's scipy.signal.correlate(mode="full")
// full cross-correlation followed by symmetric trimming.
func AlignSignals(target, processed []float64) (alignedTarget, alignedProcessed []float64) {
	n := len(target)
	if len(processed) < n {
		n = len(processed)
	}
	target = target[:n]
	processed = processed[:n]

	lag := bestLag(target, processed)
	switch {
	case lag > 0:
		target = target[lag:]
		if len(processed) > len(target) {
			processed = processed[:len(target)]
		}
	case lag < 0:
		processed = processed[-lag:]
		if len(target) > len(processed) {
			target = target[:len(processed)]
		}
	}
	return target, processed
}

// bestLag returns argmax(|correlate(target, processed, "full")|) -
// (len(processed)-1). A positive lag means target[i+lag] lines up with
// processed[i], so AlignSignals drops lag samples from target; a negative
// lag drops -lag samples from processed.
func bestLag(target, processed []float64) int {
	n := len(target)
	bestLag := 0
	bestScore := -1.0
	for lag := -(n - 1); lag <= n-1; lag++ {
		var sum float64
		for i := 0; i < n; i++ {
			j := i + lag
			if j < 0 || j >= n {
				continue
			}
			sum += target[j] * processed[i]
		}
		if score := math.Abs(sum); score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	return bestLag
}
