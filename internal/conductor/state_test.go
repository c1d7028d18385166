package conductor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

func TestAdvance_FollowsHappyPath(t *testing.T) {
	state := StateIdle
	for _, next := range []State{
		StateDevicesConfigured, StateCalibrated, StateAudioLoaded,
		StatePatchReady, StateOptimizing, StateDone,
	} {
		require.NoError(t, advance(&state, next))
		assert.Equal(t, next, state)
	}
}

func TestAdvance_RejectsSkippingAState(t *testing.T) {
	state := StateIdle
	err := advance(&state, StateCalibrated)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindInvalidTransition, kind)
	assert.Equal(t, StateIdle, state, "a rejected transition must not mutate state")
}

func TestAdvance_AnyNonTerminalStateCanFail(t *testing.T) {
	for _, s := range []State{StateIdle, StateDevicesConfigured, StateCalibrated, StateAudioLoaded, StatePatchReady, StateOptimizing} {
		state := s
		require.NoError(t, advance(&state, StateFailed))
		assert.Equal(t, StateFailed, state)
	}
}

func TestAdvance_DoneAndFailedAreTerminal(t *testing.T) {
	for _, s := range []State{StateDone, StateFailed} {
		state := s
		err := advance(&state, StateFailed)
		require.Error(t, err)
	}
}

func TestSession_RejectsOptimizeBeforeConfiguring(t *testing.T) {
	s := New()
	_, err := s.Optimize(nil, 10, 1e-6) //nolint:staticcheck // nil ctx: exercising the precondition check, not the run itself
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindInvalidTransition, kind)
}
