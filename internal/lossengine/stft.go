// Package lossengine scores how close a captured (Magicstomp-processed)
// signal is to a target reference, using the same log-mel + MFCC
// perceptual features the optimizer's search loop is driven by
// (spec.md §4.5).
//
// No pack example or ecosystem library exposes a Go STFT/mel-filterbank
// implementation (the Python original leans on librosa/scipy, neither of
// which have a Go equivalent among the examples), so this package builds
// the DFT, mel filterbank, and DCT directly on math/cmplx and math —
// the one place in this module where a hand-rolled numeric routine is
// justified rather than an ecosystem dependency.
package lossengine

import (
	"math"
	"math/cmplx"
)

const (
	// FFTSize, HopSize, MelBands, MFCCCoeffs and FMax mirror the
	// original's librosa.stft(n_fft=2048, hop_length=512) and
	// librosa.filters.mel(n_mels=64, fmax=8000) / mfcc(n_mfcc=20).
	FFTSize     = 2048
	HopSize     = 512
	MelBands    = 64
	MFCCCoeffs  = 20
	FMax        = 8000.0
	logEpsilon  = 1e-10
)

// STFTMagnitude computes the magnitude spectrogram of audio using a
// Hann-windowed FFT with the package's fixed FFTSize/HopSize, returning
// one column of FFTSize/2+1 bins per hop.
func STFTMagnitude(audio []float64, sampleRate float64) [][]float64 {
	window := hannWindow(FFTSize)
	bins := FFTSize/2 + 1

	var frames [][]float64
	for start := 0; start+FFTSize <= len(audio)+FFTSize; start += HopSize {
		if start >= len(audio) {
			break
		}
		frame := make([]complex128, FFTSize)
		for i := 0; i < FFTSize; i++ {
			idx := start + i
			var sample float64
			if idx < len(audio) {
				sample = audio[idx]
			}
			frame[i] = complex(sample*window[i], 0)
		}
		spectrum := dft(frame)
		mags := make([]float64, bins)
		for b := 0; b < bins; b++ {
			mags[b] = cmplx.Abs(spectrum[b])
		}
		frames = append(frames, mags)
		if start+FFTSize >= len(audio) {
			break
		}
	}
	return frames
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// dft is a direct O(n^2) discrete Fourier transform. FFTSize is fixed and
// small (2048) and this runs only over short calibration/optimization
// clips, so an O(n log n) FFT isn't needed for this module's workloads.
func dft(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for t, xt := range x {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += xt * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}
