package experiments

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"mnk/agent"
	"mnk/engine"
	"mnk/experiments/metrics"
	"mnk/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MetricsFile is written next to the CSV records of every run.
const MetricsFile = "metrics.prom"

type Options struct {
	Size        int
	WinLength   int
	Games       int // Per matchup
	Concurrency int
	OutDir      string
	Weights     game.Weights
}

// Matchup pairs two agent configs. X opens every game of the matchup.
type Matchup struct {
	X metrics.AgentConfig
	O metrics.AgentConfig
}

type Standing struct {
	Wins   int
	Losses int
	Draws  int
}

type Report struct {
	Dir       string
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Standings map[int]*Standing // By AgentConfig.ID
}

// AlgorithmMatchups plays minimax against alpha-beta at the same depth, each
// side opening in turn. With identical scores and tie-breaks the games should
// be identical, so only node counts differ.
func AlgorithmMatchups(depth int, timeLimit time.Duration) ([]metrics.AgentConfig, []Matchup) {
	alphaBeta := metrics.AgentConfig{ID: 1, Kind: agent.KindAlphaBeta, Depth: depth, Duration: timeLimit}
	minimax := metrics.AgentConfig{ID: 2, Kind: agent.KindMinimax, Depth: depth, Duration: timeLimit}
	return []metrics.AgentConfig{alphaBeta, minimax}, []Matchup{
		{X: alphaBeta, O: minimax},
		{X: minimax, O: alphaBeta},
	}
}

// DepthMatchups pairs an alpha-beta agent at depth against every shallower one.
func DepthMatchups(depth int, timeLimit time.Duration) ([]metrics.AgentConfig, []Matchup) {
	baseline := metrics.AgentConfig{ID: 0, Kind: agent.KindAlphaBeta, Depth: depth, Duration: timeLimit}
	configs := []metrics.AgentConfig{baseline}
	matchups := []Matchup{}
	for d := 1; d < depth; d++ {
		config := metrics.AgentConfig{ID: d, Kind: agent.KindAlphaBeta, Depth: d, Duration: timeLimit}
		configs = append(configs, config)
		matchups = append(matchups, Matchup{X: baseline, O: config}, Matchup{X: config, O: baseline})
	}
	return configs, matchups
}

// RandomMatchups pits alpha-beta against a seeded random agent.
func RandomMatchups(depth int, timeLimit time.Duration, seed uint64) ([]metrics.AgentConfig, []Matchup) {
	alphaBeta := metrics.AgentConfig{ID: 1, Kind: agent.KindAlphaBeta, Depth: depth, Duration: timeLimit}
	random := metrics.AgentConfig{ID: 2, Kind: agent.KindRandom, Seed: seed}
	return []metrics.AgentConfig{alphaBeta, random}, []Matchup{
		{X: alphaBeta, O: random},
		{X: random, O: alphaBeta},
	}
}

// Pairwise plays every config against every other one, both ways round.
func Pairwise(configs []metrics.AgentConfig) []Matchup {
	matchups := []Matchup{}
	for i := range configs {
		for j := range configs {
			if i != j {
				matchups = append(matchups, Matchup{X: configs[i], O: configs[j]})
			}
		}
	}
	return matchups
}

type gameResult struct {
	matchup     Matchup
	winner      game.Mark
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

// Run plays opts.Games games per matchup, up to opts.Concurrency at a time,
// and stores agent configs, game and move records and a metrics snapshot
// under opts.OutDir/name/<run id>.
func Run(ctx context.Context, name string, opts Options, configs []metrics.AgentConfig, matchups []Matchup) (Report, error) {
	if _, err := game.NewBoard(opts.Size, opts.WinLength); err != nil {
		return Report{}, err
	}
	for _, config := range configs {
		if _, err := agent.FromConfig(config, opts.Weights); err != nil {
			return Report{}, fmt.Errorf("agent %d: %w", config.ID, err)
		}
	}

	log.Info().Msgf("starting %s experiment: %d matchups, %d games each...", name, len(matchups), opts.Games)

	registry := metrics.NewRegistry()
	results := make([]gameResult, len(matchups)*opts.Games)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for mi, matchup := range matchups {
		mi, matchup := mi, matchup
		for i := 0; i < opts.Games; i++ {
			i := i
			slot := mi*opts.Games + i
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				log.Debug().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchups), i+1, opts.Games)

				result, err := runGame(matchup, uint64(slot), opts)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				for _, mm := range result.moveMetrics {
					registry.ObserveMove(mm)
				}
				registry.ObserveGame(result.gameMetric)
				results[slot] = result

				winner := result.gameMetric.Winner
				if winner == "" {
					winner = "draw"
				}
				log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchups), i+1, winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Standings: map[int]*Standing{}}
	for _, config := range configs {
		report.Standings[config.ID] = &Standing{}
	}
	for slot, result := range results {
		id := slot + 1
		report.Games = append(report.Games, metrics.GameRecord{
			ID:         id,
			Agent1:     result.matchup.X.ID,
			Agent2:     result.matchup.O.ID,
			GameMetric: result.gameMetric,
		})
		for _, mm := range result.moveMetrics {
			report.Moves = append(report.Moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}
		report.record(result)
	}

	log.Info().Msgf("completed %s experiment", name)

	dir, err := store(name, opts.OutDir, configs, report, registry)
	if err != nil {
		return report, err
	}
	report.Dir = dir
	for _, config := range configs {
		s := report.Standings[config.ID]
		log.Info().
			Int("agent", config.ID).
			Str("kind", config.Kind).
			Int("depth", config.Depth).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Msg("standing")
	}
	return report, nil
}

func (r *Report) record(result gameResult) {
	x, o := r.standing(result.matchup.X.ID), r.standing(result.matchup.O.ID)
	switch result.winner {
	case game.X:
		x.Wins++
		o.Losses++
	case game.O:
		o.Wins++
		x.Losses++
	default:
		x.Draws++
		o.Draws++
	}
}

func (r *Report) standing(id int) *Standing {
	s, ok := r.Standings[id]
	if !ok {
		s = &Standing{}
		r.Standings[id] = s
	}
	return s
}

func store(name, outDir string, configs []metrics.AgentConfig, report Report, registry *metrics.Registry) (string, error) {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(report.Games)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(report.Moves)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	err = registry.WriteTextfile(filepath.Join(writer.Dir(), MetricsFile))
	if err != nil {
		return "", err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored metrics")
	return writer.Dir(), nil
}

// runGame executes a single game between the matchup's agents. Seeded random
// agents get a per-game offset so repeated games differ but stay reproducible.
func runGame(matchup Matchup, offset uint64, opts Options) (gameResult, error) {
	agents := make([]agent.Agent, 0, 2)
	for _, config := range []metrics.AgentConfig{matchup.X, matchup.O} {
		if config.Seed != 0 {
			config.Seed += offset
		}
		a, err := agent.FromConfig(config, opts.Weights)
		if err != nil {
			return gameResult{}, err
		}
		agents = append(agents, a)
	}
	board, err := game.NewBoard(opts.Size, opts.WinLength)
	if err != nil {
		return gameResult{}, err
	}

	winner, gameMetric, moveMetrics, err := engine.LocalEngine(agents, board).Run()
	if err != nil {
		return gameResult{}, err
	}
	return gameResult{
		matchup:     matchup,
		winner:      winner,
		gameMetric:  gameMetric,
		moveMetrics: moveMetrics,
	}, nil
}
