// Package conductor orchestrates one end-to-end tone-match session:
// configure devices, calibrate, load audio and a starting patch, run the
// optimizer, and write a session report (spec.md §5/§6).
//
// Grounded on original_source/cli/auto_match_hil.py's HILToneMatcher,
// which drives the same pipeline (setup devices -> load audio ->
// calibrate -> optimize -> export) but without an explicit state
// machine; Conductor makes that implicit sequencing an explicit,
// rejecting-on-misuse State, in the spirit of the teacher's insistence on
// validating preconditions before acting on shared device state.
package conductor

import "github.com/wboxxx/magicstomp-autotune/internal/apperr"

// State is a session's position in the tone-match pipeline.
type State int

const (
	StateIdle State = iota
	StateDevicesConfigured
	StateCalibrated
	StateAudioLoaded
	StatePatchReady
	StateOptimizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDevicesConfigured:
		return "DevicesConfigured"
	case StateCalibrated:
		return "Calibrated"
	case StateAudioLoaded:
		return "AudioLoaded"
	case StatePatchReady:
		return "PatchReady"
	case StateOptimizing:
		return "Optimizing"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// transitions lists, for each state, which states it may legally move
// to. Every state except StateDone and StateFailed may also move to
// StateFailed (see canTransition).
var transitions = map[State][]State{
	StateIdle:              {StateDevicesConfigured},
	StateDevicesConfigured:  {StateCalibrated},
	StateCalibrated:         {StateAudioLoaded},
	StateAudioLoaded:        {StatePatchReady},
	StatePatchReady:         {StateOptimizing},
	StateOptimizing:         {StateDone},
	StateDone:               {},
	StateFailed:             {},
}

func canTransition(from, to State) bool {
	if to == StateFailed {
		return from != StateDone && from != StateFailed
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// advance validates and applies a state transition, returning
// apperr.KindInvalidTransition on an illegal move.
func advance(current *State, to State) error {
	if !canTransition(*current, to) {
		return apperr.Newf(apperr.KindInvalidTransition, "conductor.advance", "cannot move from %s to %s", *current, to)
	}
	*current = to
	return nil
}
