package agent

import (
	"fmt"
	"time"

	"mnk/experiments/metrics"
	"mnk/game"
	"mnk/meta"
	"mnk/searcher"
	"mnk/utils"

	"golang.org/x/exp/rand"
)

const (
	KindAlphaBeta = string(searcher.AlphaBeta)
	KindMinimax   = string(searcher.Minimax)
	KindRandom    = "random"
	KindRemote    = "remote"
)

var Kinds = []string{KindAlphaBeta, KindMinimax, KindRandom, KindRemote}

type Agent interface {
	// FindMove picks a legal move for the side to move on a non-terminal board
	FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error)
	Name() string
}

// FromConfig builds the agent an experiment or the CLI asks for.
func FromConfig(cfg metrics.AgentConfig, weights game.Weights) (Agent, error) {
	if utils.FindIndex(Kinds, cfg.Kind) < 0 {
		return nil, fmt.Errorf("unknown agent kind %q, want one of %v", cfg.Kind, Kinds)
	}
	switch cfg.Kind {
	case KindRandom:
		return NewRandomAgent(cfg.Seed), nil
	case KindRemote:
		if cfg.URL == "" {
			return nil, fmt.Errorf("remote agent %d needs a url", cfg.ID)
		}
		return NewRemoteAgent(cfg.URL, meta.REMOTE_TIMEOUT), nil
	}

	options := []searcher.Option{searcher.WithWeights(weights), searcher.WithMetrics()}
	if cfg.NodeBudget > 0 {
		options = append(options, searcher.WithNodeBudget(cfg.NodeBudget))
	}
	if cfg.Duration > 0 {
		options = append(options, searcher.WithDuration(cfg.Duration))
	}
	driver, err := searcher.New(searcher.Algorithm(cfg.Kind), cfg.Depth, options...)
	if err != nil {
		return nil, err
	}
	return NewSearchAgent(driver), nil
}

type searchAgent struct {
	searcher searcher.Searcher
	name     string
}

// NewSearchAgent plays the searcher's best move, except on an empty board
// where it takes the center without searching.
func NewSearchAgent(s searcher.Searcher) Agent {
	name := "search"
	if d, ok := s.(*searcher.Driver); ok {
		name = fmt.Sprintf("%s(depth=%d)", d.Algorithm(), d.Depth())
	}
	return &searchAgent{searcher: s, name: name}
}

func (a *searchAgent) Name() string {
	return a.name
}

func (a *searchAgent) FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	if b.IsEmpty() {
		center := b.Size() / 2
		return game.NewMove(center, center), metrics.SearchMetric{Algorithm: "opening"}, nil
	}

	result, err := a.searcher.Search(b)
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	if !result.HasMove {
		// Zero depth or a cut-short root: fall back to the first legal move
		moves := b.LegalMoves()
		if len(moves) == 0 {
			return game.Move{}, result.Metric, fmt.Errorf("no legal moves on %s", b)
		}
		return moves[0], result.Metric, nil
	}
	return result.Move, result.Metric, nil
}

type randomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed uint64) Agent {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Name() string {
	return KindRandom
}

func (a *randomAgent) FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("no legal moves on %s", b)
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{Algorithm: KindRandom}, nil
}
