package conductor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/applog"
	"github.com/wboxxx/magicstomp-autotune/internal/audioengine"
	"github.com/wboxxx/magicstomp-autotune/internal/codec"
	"github.com/wboxxx/magicstomp-autotune/internal/devicelink"
	"github.com/wboxxx/magicstomp-autotune/internal/lossengine"
	"github.com/wboxxx/magicstomp-autotune/internal/optimizer"
	"github.com/wboxxx/magicstomp-autotune/internal/patch"
)

// sessionReportPattern is the strftime layout for session report
// filenames, generalizing the teacher's "%H:%M:%S" beacon timestamping
// (src/beacon.go) and xmit.go's configurable strftime format to a full
// sortable filename.
const sessionReportPattern = "magicstomp-session-%Y%m%dT%H%M%S"

// Session drives one tone-match run through the state machine in state.go.
type Session struct {
	mu    sync.Mutex
	state State
	log   *log.Logger

	link     *devicelink.DeviceLink
	engine   *audioengine.Engine
	patch    *patch.Patch
	target   []float64
	di       []float64
	calib    audioengine.CalibrationProfile
	space    *optimizer.Space
	lossCalc *lossengine.Calculator
}

// New creates an idle Session.
func New() *Session {
	return &Session{
		state: StateIdle,
		log:   applog.For("conductor"),
	}
}

// State reports the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConfigureDevices binds the session to a DeviceLink and an audioengine
// Engine, moving Idle -> DevicesConfigured.
func (s *Session) ConfigureDevices(link *devicelink.DeviceLink, engine *audioengine.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := advance(&s.state, StateDevicesConfigured); err != nil {
		return err
	}
	s.link = link
	s.engine = engine
	s.log.Info("devices configured")
	return nil
}

// Calibrate measures latency/gain via the Engine, moving
// DevicesConfigured -> Calibrated.
func (s *Session) Calibrate(ctx context.Context) (audioengine.CalibrationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return audioengine.CalibrationProfile{}, apperr.Newf(apperr.KindConfigureFailed, "conductor.Calibrate", "no audio engine configured")
	}
	profile, err := s.engine.Calibrate(ctx)
	if err != nil {
		s.state = StateFailed
		return audioengine.CalibrationProfile{}, err
	}
	if err := advance(&s.state, StateCalibrated); err != nil {
		return audioengine.CalibrationProfile{}, err
	}
	s.calib = profile
	s.log.Info("calibrated", "latency_samples", profile.LatencySamples, "gain", profile.GainCompensation)
	return profile, nil
}

// AdoptCalibration accepts a previously-measured calibration profile
// (e.g. loaded from the on-disk config.Profile) instead of re-running
// Calibrate, moving DevicesConfigured -> Calibrated.
func (s *Session) AdoptCalibration(profile audioengine.CalibrationProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := advance(&s.state, StateCalibrated); err != nil {
		return err
	}
	s.calib = profile
	s.log.Info("calibration adopted from saved profile", "latency_samples", profile.LatencySamples, "gain", profile.GainCompensation)
	return nil
}

// LoadAudio attaches the target reference clip and DI (dry) signal,
// moving Calibrated -> AudioLoaded.
func (s *Session) LoadAudio(target, di []float64, sampleRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := advance(&s.state, StateAudioLoaded); err != nil {
		return err
	}
	s.target = target
	s.di = di
	s.lossCalc = lossengine.NewCalculator(sampleRate)
	s.log.Info("audio loaded", "target_samples", len(target), "di_samples", len(di))
	return nil
}

// LoadPatch attaches the starting patch and seeds an optimizer.Space from
// its current parameter values, moving AudioLoaded -> PatchReady.
func (s *Session) LoadPatch(p *patch.Patch, bounds map[string]optimizer.Bounds) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := advance(&s.state, StatePatchReady); err != nil {
		return err
	}
	s.patch = p
	s.space = optimizer.NewSpace(bounds)
	s.log.Info("patch loaded", "effect_type", p.EffectTypeName())
	return nil
}

// Optimize runs coordinate search, pushing each candidate to the real
// device via DeviceLink and scoring the recording against the target,
// moving PatchReady -> Optimizing -> Done (or -> Failed on error).
func (s *Session) Optimize(ctx context.Context, maxIterations int, minImprovement float64) (optimizer.Report, error) {
	s.mu.Lock()
	if err := advance(&s.state, StateOptimizing); err != nil {
		s.mu.Unlock()
		return optimizer.Report{}, err
	}
	link, engine, p, space, lossCalc, di, target := s.link, s.engine, s.patch, s.space, s.lossCalc, s.di, s.target
	s.mu.Unlock()

	live := p.Clone()
	if err := pushFullPatch(link, live); err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		return optimizer.Report{}, err
	}

	search := optimizer.NewCoordinateSearch(maxIterations, minImprovement)
	report, err := search.Run(ctx, space, func(ctx context.Context, params map[string]float64) (float64, error) {
		candidate := live.Clone()
		candidate.ApplyParameters(params)
		for _, d := range live.Diff(candidate) {
			if err := link.SendTweak(d.Offset, d.New); err != nil {
				return 0, err
			}
		}
		live = candidate
		recorded, err := engine.PlayRecord(ctx, toFloat32(di), 500*time.Millisecond)
		if err != nil {
			return 0, err
		}
		return lossCalc.ComputeLoss(target, toFloat64(recorded))
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		return optimizer.Report{}, err
	}
	if err := advance(&s.state, StateDone); err != nil {
		return optimizer.Report{}, err
	}
	s.log.Info("optimization complete", "iterations", report.Iterations, "final_loss", report.FinalLoss)
	return report, nil
}

// SessionReportFilename returns the strftime-formatted base filename
// (without extension) for this run's session report, as of now.
func SessionReportFilename(now time.Time) (string, error) {
	formatted, err := strftime.Format(sessionReportPattern, now)
	if err != nil {
		return "", apperr.Newf(apperr.KindConfigureFailed, "conductor.SessionReportFilename", "format %q: %v", sessionReportPattern, err)
	}
	return formatted, nil
}

func encodeForWire(p *patch.Patch) ([][]byte, error) {
	common, effect := p.Snapshot()
	return codec.EncodePatch(common, effect)
}

// pushFullPatch sends p to the device as a full bulk dump, used once at
// the start of Optimize so every later candidate can be pushed as a
// handful of live SendTweak bytes instead (spec.md §4.7,
// original_source/realtime_optimizer.py's RealtimeMagicstomp adapter).
func pushFullPatch(link *devicelink.DeviceLink, p *patch.Patch) error {
	blocks, err := encodeForWire(p)
	if err != nil {
		return err
	}
	return link.SendPatch(blocks)
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
