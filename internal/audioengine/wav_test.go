package audioengine

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadWAV_RoundTripsWithinQuantizationError(t *testing.T) {
	const sampleRate = 44100
	const n = 512
	original := make([]float64, n)
	for i := range original {
		original[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate))
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, SaveWAV(path, original, sampleRate))

	loaded, rate, err := LoadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRate, rate)
	require.Len(t, loaded, n)

	// LoadWAV peak-normalizes to 0.8, so compare against the original
	// rescaled the same way.
	peak := 0.0
	for _, v := range original {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	for i := range original {
		assert.InDelta(t, original[i]*0.8/peak, loaded[i], 0.01, "sample %d", i)
	}
}

func TestLoadWAV_RejectsNonWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-wav.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0o644))

	_, _, err := LoadWAV(path)
	require.Error(t, err)
}

func TestLoadWAV_DownmixesStereoAndNormalizes(t *testing.T) {
	// Hand-build a minimal 2-channel, 16-bit PCM WAV with one frame at
	// (L=0.5, R=-0.5), so the downmixed mono sample is 0 before
	// normalization (a zero-peak signal is left untouched by
	// normalizeInPlace).
	const sampleRate = 8000
	buf := make([]byte, 44+4)
	copy(buf[0:4], "RIFF")
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	buf[16] = 16
	buf[20] = 1 // PCM
	buf[22] = 2 // channels
	buf[24] = byte(sampleRate)
	buf[25] = byte(sampleRate >> 8)
	buf[34] = 16 // bits per sample
	copy(buf[36:40], "data")
	buf[40] = 4
	// left = 16384 (~0.5), right = -16384 (~-0.5)
	buf[44] = 0x00
	buf[45] = 0x40
	buf[46] = 0x00
	buf[47] = 0xC0

	path := filepath.Join(t.TempDir(), "stereo.wav")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	samples, rate, err := LoadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRate, rate)
	require.Len(t, samples, 1)
	assert.InDelta(t, 0, samples[0], 1e-6)
}
