package optimizer

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/wboxxx/magicstomp-autotune/internal/applog"
)

// LossFunc evaluates one candidate parameter assignment (typically by
// pushing it to the real Magicstomp, playing the test signal, and
// scoring the recording against the target) and returns the perceptual
// loss, lower is better.
type LossFunc func(ctx context.Context, params map[string]float64) (float64, error)

// StepRecord is one row of an optimization run's history, recorded after
// every iteration that found an improvement.
type StepRecord struct {
	Iteration  int
	Loss       float64
	Parameters map[string]float64
}

// Report is CoordinateSearch.Run's result (spec.md §4.6).
type Report struct {
	Iterations      int
	InitialLoss     float64
	FinalLoss       float64
	Improvement     float64
	BestParameters  map[string]float64
	History         []StepRecord
}

// CoordinateSearch performs accept-first-improving-direction coordinate
// search over a Space, grounded on
// original_source/optimize/search.py's CoordinateSearchOptimizer.
type CoordinateSearch struct {
	log            *log.Logger
	maxIterations  int
	minImprovement float64
}

// NewCoordinateSearch builds a searcher with the given iteration budget
// and convergence threshold (spec.md §4.6 defaults: 20 iterations,
// 1e-6 minimum improvement).
func NewCoordinateSearch(maxIterations int, minImprovement float64) *CoordinateSearch {
	return &CoordinateSearch{
		log:            applog.For("optimizer"),
		maxIterations:  maxIterations,
		minImprovement: minImprovement,
	}
}

// Run optimizes space in place against loss, returning a Report. Each
// iteration visits every parameter (in Space.Names order) and tries
// +step then -step, keeping the first direction that improves on the
// current best; an iteration with no improving parameter stops the
// search early, as does an iteration whose improvement over the previous
// iteration's best falls below minImprovement.
func (cs *CoordinateSearch) Run(ctx context.Context, space *Space, loss LossFunc) (Report, error) {
	cs.log.Info("starting coordinate search")

	currentLoss, err := loss(ctx, space.Snapshot())
	if err != nil {
		return Report{}, err
	}
	bestLoss := currentLoss
	bestParams := space.Snapshot()

	var history []StepRecord
	iteration := 0

	for ; iteration < cs.maxIterations; iteration++ {
		cs.log.Info("iteration", "n", iteration+1, "of", cs.maxIterations)

		improved := false
		for _, name := range space.Names() {
			ok, newLoss, err := cs.optimizeOne(ctx, space, name, bestLoss, loss)
			if err != nil {
				return Report{}, err
			}
			if ok {
				bestLoss = newLoss
				bestParams = space.Snapshot()
				improved = true
			}
		}

		if !improved {
			cs.log.Info("no improvement found, stopping")
			break
		}

		history = append(history, StepRecord{Iteration: iteration, Loss: bestLoss, Parameters: copyParams(bestParams)})

		if iteration > 0 {
			prevLoss := history[len(history)-2].Loss
			if prevLoss-bestLoss < cs.minImprovement {
				cs.log.Info("converged", "threshold", cs.minImprovement)
				break
			}
		}
	}
	iterationsRun := iteration + 1
	if iterationsRun > cs.maxIterations {
		iterationsRun = cs.maxIterations
	}

	initialLoss := currentLoss
	improvement := initialLoss - bestLoss

	return Report{
		Iterations:     iterationsRun,
		InitialLoss:    initialLoss,
		FinalLoss:      bestLoss,
		Improvement:    improvement,
		BestParameters: bestParams,
		History:        history,
	}, nil
}

// optimizeOne tries +step then -step for name, keeping the first
// direction that beats bestLoss. On no improvement the parameter is
// restored to its original value.
func (cs *CoordinateSearch) optimizeOne(ctx context.Context, space *Space, name string, bestLoss float64, loss LossFunc) (improved bool, newLoss float64, err error) {
	bounds, ok := space.Bounds(name)
	if !ok {
		return false, bestLoss, nil
	}
	original := bounds.Current

	positive := bounds.Clamp(original + bounds.Step)
	if positive != original {
		space.Set(name, positive)
		l, err := loss(ctx, space.Snapshot())
		if err != nil {
			return false, bestLoss, err
		}
		if l < bestLoss {
			return true, l, nil
		}
	}

	negative := bounds.Clamp(original - bounds.Step)
	if negative != original {
		space.Set(name, negative)
		l, err := loss(ctx, space.Snapshot())
		if err != nil {
			return false, bestLoss, err
		}
		if l < bestLoss {
			return true, l, nil
		}
	}

	space.Set(name, original)
	return false, bestLoss, nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
