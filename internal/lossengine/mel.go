package lossengine

import "math"

// melFilterbank builds a triangular mel filterbank over numBins linear
// frequency bins (FFTSize/2+1): unnormalized triangular filters spaced
// evenly on the HTK mel scale (2595*log10(1+hz/700)) from 0 Hz to fmax.
func melFilterbank(sampleRate float64, numBins, numMels int, fmax float64) [][]float64 {
	hzToMel := func(hz float64) float64 { return 2595 * math.Log10(1+hz/700) }
	melToHz := func(mel float64) float64 { return 700 * (math.Pow(10, mel/2595) - 1) }

	melMin := hzToMel(0)
	melMax := hzToMel(fmax)

	melPoints := make([]float64, numMels+2)
	for i := range melPoints {
		melPoints[i] = melMin + (melMax-melMin)*float64(i)/float64(numMels+1)
	}
	hzPoints := make([]float64, len(melPoints))
	for i, m := range melPoints {
		hzPoints[i] = melToHz(m)
	}

	binHz := func(bin int) float64 {
		return float64(bin) * sampleRate / float64(2*(numBins-1))
	}

	filters := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		lo, center, hi := hzPoints[m], hzPoints[m+1], hzPoints[m+2]
		filt := make([]float64, numBins)
		for b := 0; b < numBins; b++ {
			f := binHz(b)
			switch {
			case f < lo || f > hi:
				filt[b] = 0
			case f <= center:
				if center > lo {
					filt[b] = (f - lo) / (center - lo)
				}
			default:
				if hi > center {
					filt[b] = (hi - f) / (hi - center)
				}
			}
		}
		filters[m] = filt
	}
	return filters
}

// applyFilterbank projects each magnitude spectrum frame onto the mel
// filterbank, returning one mel-energy vector per frame.
func applyFilterbank(frames [][]float64, filterbank [][]float64) [][]float64 {
	out := make([][]float64, len(frames))
	for t, mags := range frames {
		melEnergies := make([]float64, len(filterbank))
		for m, filt := range filterbank {
			var sum float64
			for b, w := range filt {
				if b < len(mags) {
					sum += w * mags[b]
				}
			}
			melEnergies[m] = sum
		}
		out[t] = melEnergies
	}
	return out
}

// logMel takes natural log of mel energies with a small floor epsilon,
// matching np.log(mel_spec + 1e-10).
func logMel(melEnergies [][]float64) [][]float64 {
	out := make([][]float64, len(melEnergies))
	for t, row := range melEnergies {
		logRow := make([]float64, len(row))
		for m, v := range row {
			logRow[m] = math.Log(v + logEpsilon)
		}
		out[t] = logRow
	}
	return out
}

// dctII computes the first numCoeffs coefficients of an orthonormal
// type-II DCT of each log-mel frame, matching librosa's default MFCC DCT
// basis (norm="ortho").
func dctII(logMelFrames [][]float64, numCoeffs int) [][]float64 {
	if len(logMelFrames) == 0 {
		return nil
	}
	n := len(logMelFrames[0])
	out := make([][]float64, len(logMelFrames))
	for t, row := range logMelFrames {
		coeffs := make([]float64, numCoeffs)
		for k := 0; k < numCoeffs; k++ {
			var sum float64
			for i, v := range row {
				sum += v * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
			}
			scale := math.Sqrt(2 / float64(n))
			if k == 0 {
				scale = math.Sqrt(1 / float64(n))
			}
			coeffs[k] = sum * scale
		}
		out[t] = coeffs
	}
	return out
}
