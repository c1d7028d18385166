package optimizer

import "context"

// GridSearch exhaustively evaluates a small grid around a center point
// for a handful of parameters, used as a local refinement pass after
// coordinate search has converged (spec.md §4.6 supplement, grounded on
// original_source/optimize/search.py's GridSearchOptimizer).
type GridSearch struct {
	gridSize int // number of points per parameter; should be odd
}

// NewGridSearch builds a GridSearch with gridSize points per parameter.
func NewGridSearch(gridSize int) *GridSearch {
	return &GridSearch{gridSize: gridSize}
}

// GridReport is GridSearch.Run's result.
type GridReport struct {
	GridPointsEvaluated int
	InitialLoss         float64
	FinalLoss           float64
	Improvement         float64
	BestParameters      map[string]float64
}

// Run evaluates every combination of gridSize points (centered on each
// parameter's current value, spaced by its Step) for the named
// parameters, keeping the lowest-loss combination.
func (gs *GridSearch) Run(ctx context.Context, space *Space, paramNames []string, loss LossFunc) (GridReport, error) {
	center := space.Snapshot()
	initialLoss, err := loss(ctx, center)
	if err != nil {
		return GridReport{}, err
	}

	points := gs.generatePoints(space, center, paramNames)

	bestLoss := initialLoss
	bestParams := copyParams(center)

	for _, point := range points {
		l, err := loss(ctx, point)
		if err != nil {
			return GridReport{}, err
		}
		if l < bestLoss {
			bestLoss = l
			bestParams = copyParams(point)
		}
	}

	return GridReport{
		GridPointsEvaluated: len(points),
		InitialLoss:         initialLoss,
		FinalLoss:           bestLoss,
		Improvement:         initialLoss - bestLoss,
		BestParameters:      bestParams,
	}, nil
}

// generatePoints builds the cartesian product of each named parameter's
// grid values around center, clamped to its bounds.
func (gs *GridSearch) generatePoints(space *Space, center map[string]float64, paramNames []string) []map[string]float64 {
	halfGrid := gs.gridSize / 2

	valuesByParam := make(map[string][]float64, len(paramNames))
	for _, name := range paramNames {
		bounds, ok := space.Bounds(name)
		if !ok {
			continue
		}
		centerVal := bounds.Current
		if v, ok := center[name]; ok {
			centerVal = v
		}
		values := make([]float64, gs.gridSize)
		for i := 0; i < gs.gridSize; i++ {
			values[i] = bounds.Clamp(centerVal + float64(i-halfGrid)*bounds.Step)
		}
		valuesByParam[name] = values
	}

	points := []map[string]float64{copyParams(center)}
	for _, name := range paramNames {
		values, ok := valuesByParam[name]
		if !ok {
			continue
		}
		var next []map[string]float64
		for _, base := range points {
			for _, v := range values {
				candidate := copyParams(base)
				candidate[name] = v
				next = append(next, candidate)
			}
		}
		points = next
	}
	return points
}
