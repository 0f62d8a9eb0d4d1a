package searcher

import "mnk/game"

// alphaBeta returns the minimax value of pos for the root mover, and the
// first move reaching it. Children are skipped once beta <= alpha; the value
// and move at the root are the same as a full minimax search.
func (r *run) alphaBeta(pos game.Position, depth, alpha, beta int, maximizing bool) (int, game.Move, bool) {
	expand := r.enter()
	outcome := pos.Outcome()
	if outcome.IsTerminal() || depth <= 0 || !expand {
		return r.leaf(pos, outcome), game.Move{}, false
	}

	moves := r.moves(pos, depth)
	if len(moves) == 0 { // Not terminal yet nothing to play: call it a draw
		r.collector.AddLeaf()
		return 0, game.Move{}, false
	}

	mover := pos.ToMove()
	var bestMove game.Move
	if maximizing {
		bestValue := minScore
		for i, move := range moves {
			pos.Place(move, mover)
			value, _, _ := r.alphaBeta(pos, depth-1, alpha, beta, false)
			pos.Undo(move)

			// Strictly greater keeps the first best move, as minimax does
			if value > bestValue {
				bestValue, bestMove = value, move
			}
			alpha = max(alpha, bestValue)
			if beta <= alpha {
				r.cutoff(len(moves) - i - 1)
				break
			}
			if r.stopped {
				break
			}
		}
		return bestValue, bestMove, true
	}

	bestValue := maxScore
	for i, move := range moves {
		pos.Place(move, mover)
		value, _, _ := r.alphaBeta(pos, depth-1, alpha, beta, true)
		pos.Undo(move)

		if value < bestValue {
			bestValue, bestMove = value, move
		}
		beta = min(beta, bestValue)
		if beta <= alpha {
			r.cutoff(len(moves) - i - 1)
			break
		}
		if r.stopped {
			break
		}
	}
	return bestValue, bestMove, true
}
