package audioengine

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// LoadWAV reads a PCM WAV file and returns it as mono float64 samples in
// [-1, 1], downmixing multi-channel files by averaging channels and
// normalizing so the peak sample is 0.8, matching the original HIL
// loader's load_di_signal behaviour. Only the canonical 16/24/32-bit
// integer and 32-bit IEEE-float PCM formats are supported; this is a
// minimal reader, not a general audio-file-format decoder (spec.md §1
// non-goal).
func LoadWAV(path string) (samples []float64, sampleRate int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "read %s: %v", path, err)
	}

	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "%s is not a RIFF/WAVE file", path)
	}

	var (
		channels      int
		bitsPerSample int
		audioFormat   int
		rate          int
		pcm           []byte
		sawFmt, sawData bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			break
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "%s has a truncated fmt chunk", path)
			}
			audioFormat = int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
			sawData = true
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if !sawFmt || !sawData {
		return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "%s is missing fmt or data chunk", path)
	}
	if channels < 1 {
		return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "%s declares %d channels", path, channels)
	}

	frames, err := decodePCM(pcm, channels, bitsPerSample, audioFormat)
	if err != nil {
		return nil, 0, apperr.Newf(apperr.KindConfigureFailed, "audioengine.LoadWAV", "%s: %v", path, err)
	}

	mono := downmix(frames, channels)
	normalizeInPlace(mono, 0.8)
	return mono, rate, nil
}

func decodePCM(pcm []byte, channels, bitsPerSample, audioFormat int) ([]float64, error) {
	bytesPerSample := bitsPerSample / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("unsupported bits-per-sample %d", bitsPerSample)
	}
	frameSize := bytesPerSample * channels
	if frameSize == 0 || len(pcm)%frameSize != 0 {
		return nil, fmt.Errorf("data chunk size %d is not a multiple of frame size %d", len(pcm), frameSize)
	}
	numSamples := len(pcm) / bytesPerSample
	out := make([]float64, numSamples)

	const waveFormatPCM = 1
	const waveFormatIEEEFloat = 3

	for i := 0; i < numSamples; i++ {
		start := i * bytesPerSample
		chunk := pcm[start : start+bytesPerSample]
		switch {
		case audioFormat == waveFormatIEEEFloat && bitsPerSample == 32:
			bits := binary.LittleEndian.Uint32(chunk)
			out[i] = float64(math.Float32frombits(bits))
		case audioFormat == waveFormatPCM && bitsPerSample == 16:
			v := int16(binary.LittleEndian.Uint16(chunk))
			out[i] = float64(v) / 32768.0
		case audioFormat == waveFormatPCM && bitsPerSample == 24:
			v := int32(chunk[0]) | int32(chunk[1])<<8 | int32(chunk[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign-extend
			}
			out[i] = float64(v) / 8388608.0
		case audioFormat == waveFormatPCM && bitsPerSample == 32:
			v := int32(binary.LittleEndian.Uint32(chunk))
			out[i] = float64(v) / 2147483648.0
		default:
			return nil, fmt.Errorf("unsupported format=%d bits=%d", audioFormat, bitsPerSample)
		}
	}
	return out, nil
}

func downmix(frames []float64, channels int) []float64 {
	if channels == 1 {
		return frames
	}
	numFrames := len(frames) / channels
	out := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += frames[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

func normalizeInPlace(samples []float64, peakTarget float64) {
	max := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > max {
			max = a
		}
	}
	if max == 0 {
		return
	}
	scale := peakTarget / max
	for i := range samples {
		samples[i] *= scale
	}
}

// SaveWAV writes mono float64 samples in [-1, 1] as a 16-bit PCM WAV
// file, mirroring the original HIL loader's save_recorded_signal.
func SaveWAV(path string, samples []float64, sampleRate int) error {
	const bitsPerSample = 16
	const channels = 1
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataSize := len(samples) * bitsPerSample / 8

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767.0)
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(v))
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return apperr.Newf(apperr.KindConfigureFailed, "audioengine.SaveWAV", "write %s: %v", path, err)
	}
	return nil
}
