package searcher

import (
	"fmt"
	"math"
	"time"

	"mnk/experiments/metrics"
	"mnk/game"
)

// deadlineCheckInterval is how many nodes pass between clock reads.
const deadlineCheckInterval = 1024

// Driver runs depth-limited minimax, with or without alpha-beta pruning.
// A Driver holds no per-search state and may be shared between goroutines
// as long as each goroutine searches its own position.
type Driver struct {
	algorithm      Algorithm
	depth          int
	evaluator      *game.Evaluator
	evaluate       game.Evaluate
	nodeBudget     int
	duration       time.Duration
	collectMetrics bool
}

func NewAlphaBeta(depth int, options ...Option) *Driver {
	return newDriver(AlphaBeta, depth, options...)
}

func NewMinimax(depth int, options ...Option) *Driver {
	return newDriver(Minimax, depth, options...)
}

// New returns a driver for a named algorithm.
func New(algorithm Algorithm, depth int, options ...Option) (*Driver, error) {
	switch algorithm {
	case AlphaBeta, Minimax:
		return newDriver(algorithm, depth, options...), nil
	default:
		return nil, fmt.Errorf("unknown search algorithm %q", algorithm)
	}
}

func newDriver(algorithm Algorithm, depth int, options ...Option) *Driver {
	d := &Driver{ // Default values
		algorithm: algorithm,
		depth:     depth,
		evaluator: game.NewEvaluator(game.DefaultWeights()),
	}
	for _, option := range options {
		option(d)
	}
	if d.evaluate == nil {
		d.evaluate = d.evaluator.Score
	}
	return d
}

func (d *Driver) Algorithm() Algorithm {
	return d.algorithm
}

func (d *Driver) Depth() int {
	return d.depth
}

// Search finds the best move for the side to move in pos. pos is mutated
// during the search and restored before Search returns.
func (d *Driver) Search(pos game.Position) (Result, error) {
	if d.depth < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidDepth, d.depth)
	}

	collector := metrics.NewDummyCollector()
	if d.collectMetrics {
		collector = metrics.NewCollector()
	}
	collector.Start(string(d.algorithm), d.depth)

	r := &run{
		driver:    d,
		root:      pos.ToMove(),
		win:       d.evaluator.WinScore(pos.Size(), pos.WinLength()),
		collector: collector,
	}
	if d.duration > 0 {
		r.deadline = time.Now().Add(d.duration)
	}

	var (
		score   int
		move    game.Move
		hasMove bool
	)
	switch d.algorithm {
	case Minimax:
		score, move, hasMove = r.minimax(pos, d.depth, true)
	default:
		score, move, hasMove = r.alphaBeta(pos, d.depth, minScore, maxScore, true)
	}

	return Result{
		Move:    move,
		Score:   score,
		HasMove: hasMove,
		Nodes:   r.nodes,
		Cutoffs: r.cutoffs,
		Metric:  collector.Complete(),
	}, nil
}

const (
	minScore = math.MinInt
	maxScore = math.MaxInt
)

// run is the state of a single search call.
type run struct {
	driver    *Driver
	root      game.Mark
	win       int // Terminal score magnitude for this board
	collector metrics.Collector
	deadline  time.Time
	nodes     int
	cutoffs   int
	stopped   bool
}

// enter counts a node and reports whether the budget still allows expanding
// it. Once exhausted, the search stays stopped.
func (r *run) enter() bool {
	r.nodes++
	r.collector.AddNode()
	if r.stopped {
		return false
	}
	if r.driver.nodeBudget > 0 && r.nodes >= r.driver.nodeBudget {
		r.stop()
		return false
	}
	if !r.deadline.IsZero() && r.nodes%deadlineCheckInterval == 0 && time.Now().After(r.deadline) {
		r.stop()
		return false
	}
	return true
}

func (r *run) stop() {
	r.stopped = true
	r.collector.SetBudgetExhausted()
}

// leaf scores a node whose children are not searched.
func (r *run) leaf(pos game.Position, outcome game.Outcome) int {
	r.collector.AddLeaf()
	switch {
	case outcome.Status == game.Win && outcome.Winner == r.root:
		return r.win
	case outcome.Status == game.Win:
		return -r.win
	case outcome.IsTerminal():
		return 0
	}
	return r.driver.evaluate(pos, r.root)
}

// cutoff records a beta <= alpha stop. Stops on the last child prune
// nothing and are not counted.
func (r *run) cutoff(skipped int) {
	if skipped == 0 {
		return
	}
	r.cutoffs++
	r.collector.AddCutoff()
}

// moves returns the legal moves of pos. At the root, moves that win on the
// spot go first so that a win in one is preferred over slower forced wins
// that score the same.
func (r *run) moves(pos game.Position, depth int) []game.Move {
	moves := pos.LegalMoves()
	if depth != r.driver.depth || len(moves) < 2 {
		return moves
	}
	mover := pos.ToMove()
	ordered := make([]game.Move, 0, len(moves))
	rest := make([]game.Move, 0, len(moves))
	for _, move := range moves {
		pos.Place(move, mover)
		wins := pos.Outcome().Status == game.Win
		pos.Undo(move)
		if wins {
			ordered = append(ordered, move)
		} else {
			rest = append(rest, move)
		}
	}
	return append(ordered, rest...)
}
