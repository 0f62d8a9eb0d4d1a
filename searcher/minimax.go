package searcher

import "mnk/game"

// minimax is the unpruned reference search. It visits every node down to
// depth and shares move order and tie-breaking with alphaBeta.
func (r *run) minimax(pos game.Position, depth int, maximizing bool) (int, game.Move, bool) {
	expand := r.enter()
	outcome := pos.Outcome()
	if outcome.IsTerminal() || depth <= 0 || !expand {
		return r.leaf(pos, outcome), game.Move{}, false
	}

	moves := r.moves(pos, depth)
	if len(moves) == 0 {
		r.collector.AddLeaf()
		return 0, game.Move{}, false
	}

	mover := pos.ToMove()
	var bestMove game.Move
	bestValue := maxScore
	if maximizing {
		bestValue = minScore
	}
	for _, move := range moves {
		pos.Place(move, mover)
		value, _, _ := r.minimax(pos, depth-1, !maximizing)
		pos.Undo(move)

		if maximizing && value > bestValue {
			bestValue, bestMove = value, move
		} else if !maximizing && value < bestValue {
			bestValue, bestMove = value, move
		}
		if r.stopped {
			break
		}
	}
	return bestValue, bestMove, true
}
