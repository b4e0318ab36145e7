// Package optim searches grabber parameters for the best value of a run
// metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/experiment"
	"go.uber.org/zap"
)

type Goal int

const (
	Minimize Goal = iota
	Maximize
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	goal       Goal
	log        *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64, goal Goal, log *zap.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("param %s has no values", params[i])
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, goal: goal, log: log}, nil
}

// Search runs base once per point of the grid and returns the parameters
// that gave the best value of metricName. Ties keep the first point found.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	if g.goal == Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, base, current, metricName)
		if err != nil {
			return err
		}

		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) (float64, error) {
	cfg, err := base.With(params)
	if err != nil {
		return 0, err
	}
	exp := experiment.New(cfg, experiment.WithLogger(g.log))
	if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
		return 0, fmt.Errorf("%v: %w", params, err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", params, err)
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", metricName)
	}
	g.log.Debug("grid point", zap.Any("params", params), zap.Float64(metricName, val))
	return val, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.goal == Maximize {
		return val > best
	}
	return val < best
}
