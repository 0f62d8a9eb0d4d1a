package engine

import (
	"fmt"
	"time"

	"mnk/agent"
	"mnk/experiments/metrics"
	"mnk/game"

	"github.com/rs/zerolog/log"
)

type Local struct {
	Board   *game.Board
	Agents  [2]agent.Agent // Indexed by mark: X first, then O
	History []Update
}

type Update struct {
	Move   game.Move
	Player game.Mark
	Hash   game.Hash
}

// LocalEngine sets up a game between agents, continuing from board. agents[0]
// plays X.
func LocalEngine(agents []agent.Agent, board *game.Board) *Local {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}
	if board == nil {
		panic("need a starting board")
	}
	return &Local{
		Board:  board.Clone(),
		Agents: [2]agent.Agent{agents[0], agents[1]},
	}
}

func (e *Local) agentFor(mark game.Mark) agent.Agent {
	if mark == game.X {
		return e.Agents[0]
	}
	return e.Agents[1]
}

// Run executes the game loop until the board reports a result.
func (e *Local) Run() (game.Mark, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Board.ToMove().String(),
		Size:           e.Board.Size(),
		WinLength:      e.Board.WinLength(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting on a %dx%d board, %d in a row", gameMetric.StartingPlayer, e.Board.Size(), e.Board.Size(), e.Board.WinLength())

	step := 1
	outcome := e.Board.Outcome()
	for !outcome.IsTerminal() {
		player := e.Board.ToMove()
		a := e.agentFor(player)

		// Agents get a copy so a misbehaving one cannot corrupt the game
		move, searchMetric, err := a.FindMove(e.Board.Clone())
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("%s (%s) failed at step %d: %w", player, a.Name(), step, err)
		}
		next, err := e.Board.Play(move)
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("%s (%s) played an illegal move at step %d: %w", player, a.Name(), step, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Row:          move.Row,
			Col:          move.Col,
			SearchMetric: searchMetric,
		})
		e.History = append(e.History, Update{Move: move, Player: player, Hash: next.Hash()})

		log.Info().
			Int("step", step).
			Str("player", player.String()).
			Str("agent", a.Name()).
			Stringer("move", move).
			Int("nodes", searchMetric.Nodes).
			Dur("took", searchMetric.Duration).
			Msg("move played")

		e.Board = next
		outcome = e.Board.Outcome()
		step++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	if outcome.Status == game.Win {
		gameMetric.Winner = outcome.Winner.String()
	}

	log.Info().Msgf("game over after %d moves: %s", gameMetric.TotalMoves, outcome)
	return outcome.Winner, gameMetric, moveMetrics, nil
}
