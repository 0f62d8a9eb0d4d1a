package engine

import (
	"mnk/experiments/metrics"
	"mnk/game"
)

var _ Engine = (*Local)(nil)

type Engine interface {
	// Run plays a game till there's a winner or the board is full
	Run() (winner game.Mark, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
