package searcher

import (
	"errors"

	"mnk/experiments/metrics"
	"mnk/game"
)

var ErrInvalidDepth = errors.New("search depth must not be negative")

type Algorithm string

const (
	AlphaBeta Algorithm = "alphabeta"
	Minimax   Algorithm = "minimax"
)

// Result is the outcome of one search from the root position.
//
// HasMove is false when the root is terminal or the depth is zero; Move is
// then the zero value. Score is from the point of view of the side to move
// at the root.
type Result struct {
	Move    game.Move
	Score   int
	HasMove bool
	Nodes   int
	Cutoffs int
	Metric  metrics.SearchMetric
}

type Searcher interface {
	Search(pos game.Position) (Result, error)
}

// BestMove runs a default alpha-beta search on pos. ok is false when there
// is no move to play: the root is terminal, has no legal moves, or depth is 0.
func BestMove(pos game.Position, depth int) (move game.Move, score int, ok bool, err error) {
	result, err := NewAlphaBeta(depth).Search(pos)
	if err != nil {
		return game.Move{}, 0, false, err
	}
	return result.Move, result.Score, result.HasMove, nil
}
