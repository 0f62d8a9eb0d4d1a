package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"mnk/agent"
	"mnk/engine"
	"mnk/experiments"
	"mnk/experiments/metrics"
	"mnk/game"
	"mnk/gametree"
	"mnk/meta"
	"mnk/searcher"

	"github.com/gin-gonic/gin"
	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	size         int
	winLength    int
	depth        int
	nodeBudget   int
	timeLimit    time.Duration
	playBoard    string
	compareBoard string
	xKind        string
	oKind        string
	seed         uint64

	games       int
	concurrency int
	outDir      string
	withProfile bool
	experiment  string

	xURL      string
	oURL      string
	addr      string
	serveKind string

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play one AI-vs-AI game and log every move",
		Example: `  mnk play --size 4 --win 3 --depth 4
  mnk play --x alphabeta --o random --seed 7`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	}

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Search one position with minimax and alpha-beta",
		Example: `  mnk compare --board "X..,.O.,..." --depth 6
  mnk compare --board "X...,.O..,....,...." --win 3 --depth 4`,
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	treeCmd = &cobra.Command{
		Use:   "tree FILE",
		Short: "Search an explicit game tree with minimax and alpha-beta",
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve moves from one agent over HTTP",
		Long: `Starts an agent server answering POST /findmove with the agent's move for
a board. Other processes play against it with --x remote --x-url URL.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Run matchups and store CSV records and Prometheus metrics",
		Long: `Runs one of the built-in experiments (algorithms, depth, random, or all)
or, when the config file lists experiment agents, every pairing of those
agents. Results go to <out>/<experiment>/<run id>.`,
		Args: cobra.NoArgs,
		RunE: runExperiment,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{playCmd, compareCmd, experimentCmd, serveCmd} {
		cmd.Flags().IntVar(&winLength, "win", 0, "marks in a row needed to win (default from config)")
		cmd.Flags().IntVar(&depth, "depth", 0, "search depth (default depends on board size)")
		cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "time budget per search")
	}
	for _, cmd := range []*cobra.Command{playCmd, experimentCmd, serveCmd} {
		cmd.Flags().IntVar(&size, "size", 0, "board size N (default from config)")
		cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for random agents, 0 for the clock")
	}
	playCmd.Flags().IntVar(&nodeBudget, "node-budget", 0, "node budget per search")
	playCmd.Flags().StringVar(&playBoard, "board", "", `starting position such as "X..,.O.,..."`)
	playCmd.Flags().StringVar(&xKind, "x", agent.KindAlphaBeta, "agent playing X: alphabeta, minimax, random or remote")
	playCmd.Flags().StringVar(&oKind, "o", agent.KindAlphaBeta, "agent playing O: alphabeta, minimax, random or remote")
	playCmd.Flags().StringVar(&xURL, "x-url", "", "agent server playing X when --x remote")
	playCmd.Flags().StringVar(&oURL, "o-url", "", "agent server playing O when --o remote")

	serveCmd.Flags().StringVar(&addr, "addr", meta.SERVER_ADDR, "listen address")
	serveCmd.Flags().StringVar(&serveKind, "kind", agent.KindAlphaBeta, "served agent: alphabeta, minimax or random")
	serveCmd.Flags().IntVar(&nodeBudget, "node-budget", 0, "node budget per search")

	compareCmd.Flags().StringVar(&compareBoard, "board", "", `position to search such as "X..,.O.,..." (empty board by default)`)

	experimentCmd.Flags().IntVar(&games, "games", 0, "games per matchup (default from config)")
	experimentCmd.Flags().IntVar(&concurrency, "concurrency", 0, "games played at once (default from config)")
	experimentCmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	experimentCmd.Flags().BoolVar(&withProfile, "profile", false, "write a CPU profile next to the results")
	experimentCmd.Flags().StringVar(&experiment, "name", "all", "algorithms, depth, random or all")

	rootCmd.AddCommand(playCmd, compareCmd, treeCmd, experimentCmd, serveCmd)
}

// applyFlags overlays flags the user set on the loaded config.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("board") {
		board, _ := flags.GetString("board")
		size = len(game.ParseRows(board))
	}
	if flags.Changed("size") || flags.Changed("board") {
		cfg.Board.Size = size
		if !flags.Changed("win") {
			cfg.Board.WinLength = min(cfg.Board.WinLength, size)
		}
	}
	if flags.Changed("win") {
		cfg.Board.WinLength = winLength
	}
	if flags.Changed("depth") {
		cfg.Search.Depth = depth
	}
	if flags.Changed("node-budget") {
		cfg.Search.NodeBudget = nodeBudget
	}
	if flags.Changed("time-limit") {
		cfg.Search.TimeLimit = timeLimit
	}
	if flags.Changed("games") {
		cfg.Experiment.Games = games
	}
	if flags.Changed("concurrency") {
		cfg.Experiment.Concurrency = concurrency
	}
	if flags.Changed("out") {
		cfg.Experiment.OutDir = outDir
	}
	if flags.Changed("profile") {
		cfg.Experiment.Profile = withProfile
	}
	return cfg.Validate()
}

// startingBoard parses --board, or returns an empty board from the config.
func startingBoard(board string) (*game.Board, error) {
	if board == "" {
		return game.NewBoard(cfg.Board.Size, cfg.Board.WinLength)
	}
	b, err := game.ParseBoard(game.ParseRows(board), cfg.Board.WinLength)
	if err != nil {
		return nil, err
	}
	cfg.Board.Size = b.Size()
	return b, nil
}

func agentConfig(id int, kind string) metrics.AgentConfig {
	config := metrics.AgentConfig{
		ID:         id,
		Kind:       kind,
		Depth:      cfg.Depth(),
		NodeBudget: cfg.Search.NodeBudget,
		Duration:   cfg.Search.TimeLimit,
	}
	if seed != 0 {
		config.Seed = seed + uint64(id)
	}
	return config
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}
	b, err := startingBoard(playBoard)
	if err != nil {
		return err
	}

	agents := []agent.Agent{}
	urls := []string{xURL, oURL}
	for id, kind := range []string{xKind, oKind} {
		config := agentConfig(id, kind)
		config.URL = urls[id]
		a, err := agent.FromConfig(config, cfg.Weights)
		if err != nil {
			return err
		}
		agents = append(agents, a)
	}

	e := engine.LocalEngine(agents, b)
	winner, gameMetric, _, err := e.Run()
	if err != nil {
		return err
	}

	result := "draw"
	if winner != game.Empty {
		a := e.Agents[0]
		if winner == game.O {
			a = e.Agents[1]
		}
		result = fmt.Sprintf("%s (%s) wins", winner, a.Name())
	}
	log.Info().
		Str("board", e.Board.String()).
		Int("moves", gameMetric.TotalMoves).
		Dur("took", gameMetric.Duration).
		Msg(result)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}
	b, err := startingBoard(compareBoard)
	if err != nil {
		return err
	}

	options := []searcher.Option{searcher.WithWeights(cfg.Weights), searcher.WithMetrics()}
	if cfg.Search.TimeLimit > 0 {
		options = append(options, searcher.WithDuration(cfg.Search.TimeLimit))
	}
	for _, s := range []*searcher.Driver{
		searcher.NewMinimax(cfg.Depth(), options...),
		searcher.NewAlphaBeta(cfg.Depth(), options...),
	} {
		result, err := s.Search(b)
		if err != nil {
			return err
		}
		event := log.Info().
			Str("algorithm", string(s.Algorithm())).
			Int("depth", s.Depth()).
			Int("score", result.Score).
			Int("nodes", result.Nodes).
			Int("cutoffs", result.Cutoffs).
			Dur("took", result.Metric.Duration).
			Bool("budget_exhausted", result.Metric.BudgetExhausted)
		if result.HasMove {
			event = event.Stringer("move", result.Move)
		}
		event.Msgf("searched %s for %s", b, b.ToMove())
	}
	return nil
}

func runTree(cmd *cobra.Command, args []string) error {
	root, err := gametree.Load(args[0])
	if err != nil {
		return err
	}
	comparison := gametree.Compare(root)
	for _, searched := range treeResults(comparison) {
		result := searched.result
		log.Info().
			Str("algorithm", string(searched.algorithm)).
			Int("value", result.Value).
			Str("best", result.Best).
			Int("visited", result.Visited).
			Strs("pruned", result.Pruned).
			Msg("searched game tree")
	}
	log.Info().Msgf("alpha-beta visited %d fewer of %d nodes", comparison.Saved(), root.Size())
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}
	if serveKind == agent.KindRemote {
		return fmt.Errorf("cannot serve a remote agent")
	}
	a, err := agent.FromConfig(agentConfig(0, serveKind), cfg.Weights)
	if err != nil {
		return err
	}

	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           agent.NewServer(a).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("agent", a.Name()).Msg("agent server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down agent server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type searchedTree struct {
	algorithm searcher.Algorithm
	result    gametree.Result
}

// treeResults lists a comparison minimax first.
func treeResults(c gametree.Comparison) []searchedTree {
	return []searchedTree{
		{searcher.Minimax, c.Minimax},
		{searcher.AlphaBeta, c.AlphaBeta},
	}
}

func runExperiment(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd); err != nil {
		return err
	}

	if cfg.Experiment.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Experiment.OutDir), profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := experiments.Options{
		Size:        cfg.Board.Size,
		WinLength:   cfg.Board.WinLength,
		Games:       cfg.Experiment.Games,
		Concurrency: cfg.Experiment.Concurrency,
		OutDir:      cfg.Experiment.OutDir,
		Weights:     cfg.Weights,
	}

	if len(cfg.Experiment.Agents) > 0 {
		agents := make([]metrics.AgentConfig, len(cfg.Experiment.Agents))
		for i, config := range cfg.Experiment.Agents {
			if config.Duration == 0 {
				config.Duration = cfg.ExperimentTimeLimit()
			}
			agents[i] = config
		}
		_, err := experiments.Run(ctx, "custom", opts, agents, experiments.Pairwise(agents))
		return err
	}

	type plan struct {
		name     string
		configs  []metrics.AgentConfig
		matchups []experiments.Matchup
	}
	var plans []plan
	add := func(name string, configs []metrics.AgentConfig, matchups []experiments.Matchup) {
		if experiment == "all" || experiment == name {
			plans = append(plans, plan{name, configs, matchups})
		}
	}
	limit := cfg.ExperimentTimeLimit()
	configs, matchups := experiments.AlgorithmMatchups(cfg.Depth(), limit)
	add("algorithms", configs, matchups)
	configs, matchups = experiments.DepthMatchups(cfg.Depth(), limit)
	add("depth", configs, matchups)
	configs, matchups = experiments.RandomMatchups(cfg.Depth(), limit, seed)
	add("random", configs, matchups)
	if len(plans) == 0 {
		return fmt.Errorf("unknown experiment %q, want algorithms, depth, random or all", experiment)
	}

	for _, p := range plans {
		if _, err := experiments.Run(ctx, p.name, opts, p.configs, p.matchups); err != nil {
			return fmt.Errorf("%s experiment: %w", p.name, err)
		}
	}
	return nil
}
