package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// quadraticLoss builds a LossFunc with a single minimum at target for
// each named parameter: loss = sum((value - target)^2).
func quadraticLoss(target map[string]float64) LossFunc {
	return func(_ context.Context, params map[string]float64) (float64, error) {
		var sum float64
		for name, t := range target {
			d := params[name] - t
			sum += d * d
		}
		return sum, nil
	}
}

func TestCoordinateSearch_ConvergesTowardKnownMinimum(t *testing.T) {
	space := NewSpace(map[string]Bounds{
		"delay_mix":      {Min: 0, Max: 1, Step: 0.08, Current: 0.2},
		"reverb_mix":     {Min: 0, Max: 1, Step: 0.06, Current: 0.1},
		"delay_feedback": {Min: 0, Max: 1, Step: 0.1, Current: 0.9},
	})
	target := map[string]float64{"delay_mix": 0.6, "reverb_mix": 0.5, "delay_feedback": 0.3}

	cs := NewCoordinateSearch(20, 1e-6)
	report, err := cs.Run(context.Background(), space, quadraticLoss(target))
	require.NoError(t, err)

	assert.Less(t, report.FinalLoss, report.InitialLoss)
	assert.GreaterOrEqual(t, report.Improvement, 0.0)
	assert.LessOrEqual(t, report.Iterations, 20)
	assert.NotEmpty(t, report.BestParameters)
}

func TestCoordinateSearch_MonotonicallyNonIncreasingLoss(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Float64Range(0, 1).Draw(t, "start")
		target := rapid.Float64Range(0, 1).Draw(t, "target")
		step := rapid.Float64Range(0.02, 0.3).Draw(t, "step")

		space := NewSpace(map[string]Bounds{
			"p": {Min: 0, Max: 1, Step: step, Current: start},
		})
		cs := NewCoordinateSearch(20, 1e-9)
		report, err := cs.Run(context.Background(), space, quadraticLoss(map[string]float64{"p": target}))
		require.NoError(t, err)

		prevLoss := report.InitialLoss
		if len(report.History) > 0 {
			prevLoss = report.History[0].Loss
		}
		for _, step := range report.History {
			assert.LessOrEqual(t, step.Loss, prevLoss+1e-9)
			prevLoss = step.Loss
		}
	})
}

func TestCoordinateSearch_StopsImmediatelyAtExactMinimum(t *testing.T) {
	space := NewSpace(map[string]Bounds{
		"p": {Min: 0, Max: 1, Step: 0.1, Current: 0.5},
	})
	cs := NewCoordinateSearch(20, 1e-6)
	report, err := cs.Run(context.Background(), space, quadraticLoss(map[string]float64{"p": 0.5}))
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.FinalLoss)
	assert.Empty(t, report.History, "no direction should improve on an exact minimum")
}

func TestGridSearch_FindsBetterOrEqualPointThanCenter(t *testing.T) {
	space := NewSpace(map[string]Bounds{
		"delay_mix": {Min: 0, Max: 1, Step: 0.1, Current: 0.2},
	})
	gs := NewGridSearch(5)
	report, err := gs.Run(context.Background(), space, []string{"delay_mix"}, quadraticLoss(map[string]float64{"delay_mix": 0.4}))
	require.NoError(t, err)

	assert.LessOrEqual(t, report.FinalLoss, report.InitialLoss)
	assert.Equal(t, 5, report.GridPointsEvaluated)
}
