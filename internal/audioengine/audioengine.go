// Package audioengine drives full-duplex playback/record of calibration
// and test signals through the portaudio device that sits between a
// computer and the amp/cab the Magicstomp feeds (spec.md §4.4).
//
// The teacher (doismellburning-samoyed) talks to a sound card through
// hand-rolled ALSA/OSS cgo bindings (src/audio.go) and reports periodic
// input-level statistics (src/audio_stats.go). audioengine keeps that
// same "own the device, report periodic levels" shape but is built on
// gordonklaus/portaudio, one of the teacher's own go.mod requires that
// its ALSA-specific code never actually exercised.
package audioengine

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/applog"
)

// DeviceInfo describes one playback/record-capable device, however it was
// enumerated (spec.md §4.4/§6 --via flag).
type DeviceInfo struct {
	Index          int
	Name           string
	MaxInputs      int
	MaxOutputs     int
	DefaultSampleRate float64
	Via            string // "portaudio" or "udev"
}

// Engine owns one full-duplex portaudio stream at a time. Only one
// Play/Record cycle may be in flight; callers serialize through the
// Conductor's state machine (spec.md §5).
type Engine struct {
	log        *log.Logger
	sampleRate float64
	channels   int

	statsInterval time.Duration
	lastStats     time.Time
	framesSeen    int64
	peakAbs       float64
}

// New creates an Engine. portaudio.Initialize must have been called once
// by the process (cmd/magicstomp does this at startup, paired with
// portaudio.Terminate on exit).
func New(sampleRate float64, channels int) *Engine {
	return &Engine{
		log:           applog.For("audioengine"),
		sampleRate:    sampleRate,
		channels:      channels,
		statsInterval: 10 * time.Second,
	}
}

// PlayRecord plays out through the device while simultaneously recording
// what comes back, returning len(playback)/channels frames plus
// captureTail's worth of frames of interleaved recorded audio (spec.md
// §4.4: "record for the duration of playback plus a fixed capture tail
// covering round-trip latency").
func (e *Engine) PlayRecord(ctx context.Context, playback []float32, captureTail time.Duration) ([]float32, error) {
	tailFrames := int(captureTail.Seconds() * e.sampleRate)
	totalFrames := len(playback)/e.channels + tailFrames
	recorded := make([]float32, totalFrames*e.channels)

	playIdx := 0
	recIdx := 0

	stream, err := portaudio.OpenDefaultStream(e.channels, e.channels, e.sampleRate, 0,
		func(in, out []float32) {
			for i := range out {
				if playIdx < len(playback) {
					out[i] = playback[playIdx]
					playIdx++
				} else {
					out[i] = 0
				}
			}
			for i := range in {
				if recIdx < len(recorded) {
					recorded[recIdx] = in[i]
					abs := math.Abs(float64(in[i]))
					if abs > e.peakAbs {
						e.peakAbs = abs
					}
					recIdx++
				}
			}
			e.framesSeen += int64(len(in) / e.channels)
			e.maybeReportStats()
		})
	if err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.PlayRecord", "open stream: %v", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.PlayRecord", "start stream: %v", err)
	}
	defer stream.Stop()

	deadline := time.NewTimer(captureTail + time.Duration(float64(len(playback)/e.channels)/e.sampleRate*float64(time.Second)) + 2*time.Second)
	defer deadline.Stop()

	for recIdx < len(recorded) {
		select {
		case <-ctx.Done():
			return nil, apperr.Newf(apperr.KindAudioTimeout, "audioengine.PlayRecord", "cancelled: %v", ctx.Err())
		case <-deadline.C:
			return nil, apperr.Newf(apperr.KindAudioTimeout, "audioengine.PlayRecord", "capture did not complete in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if e.peakAbs < silenceThreshold {
		return nil, apperr.Newf(apperr.KindSilentInput, "audioengine.PlayRecord", "peak input level %.5f below silence threshold %.5f", e.peakAbs, silenceThreshold)
	}
	if e.peakAbs >= clippingThreshold {
		// Clipping is a warning: the capture is returned with the error.
		return recorded, apperr.Newf(apperr.KindClipping, "audioengine.PlayRecord", "peak input level %.5f at/above clipping threshold %.5f", e.peakAbs, clippingThreshold)
	}

	return recorded, nil
}

const (
	silenceThreshold  = 1e-4
	clippingThreshold = 0.999
)

func (e *Engine) maybeReportStats() {
	now := time.Now()
	if e.lastStats.IsZero() {
		e.lastStats = now
		return
	}
	if now.Sub(e.lastStats) < e.statsInterval {
		return
	}
	e.lastStats = now
	e.log.Info("audio input level", "peak", e.peakAbs, "frames", e.framesSeen)
}
