package searcher

import (
	"time"

	"mnk/game"
)

type Option func(d *Driver)

// WithNodeBudget stops the search after nodes calls. The unfinished part of
// the tree is scored heuristically.
func WithNodeBudget(nodes int) Option {
	return func(d *Driver) {
		if nodes > 0 {
			d.nodeBudget = nodes
		}
	}
}

// WithDuration stops the search once duration has elapsed.
func WithDuration(duration time.Duration) Option {
	return func(d *Driver) {
		if duration > 0 {
			d.duration = duration
		}
	}
}

func WithWeights(weights game.Weights) Option {
	return func(d *Driver) {
		d.evaluator = game.NewEvaluator(weights)
	}
}

// WithEvaluationFn replaces the window heuristic used at the depth cutoff.
// Terminal positions are still scored from the configured weights.
func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(d *Driver) {
		if evaluate != nil {
			d.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(d *Driver) {
		d.collectMetrics = true
	}
}
