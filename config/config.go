// Package config loads run settings from defaults, an optional YAML file and
// MNK_* environment variables, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"mnk/experiments/metrics"
	"mnk/game"
	"mnk/meta"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidEnv = errors.New("invalid environment override")
	ErrBoardSize  = errors.New("board too large")
)

type Config struct {
	Board      BoardConfig      `yaml:"board"`
	Search     SearchConfig     `yaml:"search"`
	Weights    game.Weights     `yaml:"weights"`
	Experiment ExperimentConfig `yaml:"experiment"`
	LogLevel   string           `yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

type BoardConfig struct {
	Size      int `yaml:"size" validate:"gte=1"` // At most meta.MAX_SIZE
	WinLength int `yaml:"win_length" validate:"gte=1,ltefield=Size"`
}

type SearchConfig struct {
	Algorithm  string        `yaml:"algorithm" validate:"oneof=alphabeta minimax"`
	Depth      int           `yaml:"depth" validate:"gte=0"` // 0 picks meta.DepthForSize
	NodeBudget int           `yaml:"node_budget" validate:"gte=0"`
	TimeLimit  time.Duration `yaml:"time_limit" validate:"gte=0"`
}

type ExperimentConfig struct {
	Games       int                   `yaml:"games" validate:"gte=1"`
	Concurrency int                   `yaml:"concurrency" validate:"gte=1,lte=64"`
	OutDir      string                `yaml:"out_dir" validate:"required"`
	Profile     bool                  `yaml:"profile"`
	TimeLimit   time.Duration         `yaml:"time_limit" validate:"gte=0"`      // Per search, unless search.time_limit is set
	Agents      []metrics.AgentConfig `yaml:"agents" validate:"omitempty,dive"` // Empty runs the built-in matchups
}

var validate = validator.New()

func Default() Config {
	return Config{
		Board: BoardConfig{
			Size:      meta.DEFAULT_SIZE,
			WinLength: meta.DEFAULT_WIN_LENGTH,
		},
		Search: SearchConfig{
			Algorithm: "alphabeta",
		},
		Weights: game.DefaultWeights(),
		Experiment: ExperimentConfig{
			Games:       meta.EXPERIMENT_GAMES,
			Concurrency: meta.EXPERIMENT_CONCURRENCY,
			OutDir:      meta.EXPERIMENT_DIR,
			TimeLimit:   meta.MOVE_TIME_LIMIT,
		},
		LogLevel: "info",
	}
}

// Load returns the defaults overlaid with the file at path (skipped when
// path is empty) and then the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Board.Size > meta.MAX_SIZE {
		return fmt.Errorf("%w: %d, at most %d", ErrBoardSize, c.Board.Size, meta.MAX_SIZE)
	}
	if _, err := game.NewBoard(c.Board.Size, c.Board.WinLength); err != nil {
		return err
	}
	return c.Weights.Check(c.Board.Size, c.Board.WinLength)
}

// ExperimentTimeLimit is the per-search time budget for experiment games.
func (c Config) ExperimentTimeLimit() time.Duration {
	if c.Search.TimeLimit > 0 {
		return c.Search.TimeLimit
	}
	return c.Experiment.TimeLimit
}

// Depth is the configured search depth, or the default for the board size.
func (c Config) Depth() int {
	if c.Search.Depth > 0 {
		return c.Search.Depth
	}
	return meta.DepthForSize(c.Board.Size)
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	ints := map[string]*int{
		"MNK_SIZE":        &c.Board.Size,
		"MNK_WIN_LENGTH":  &c.Board.WinLength,
		"MNK_DEPTH":       &c.Search.Depth,
		"MNK_NODE_BUDGET": &c.Search.NodeBudget,
		"MNK_WEIGHT_BASE": &c.Weights.Base,
		"MNK_WIN_SCORE":   &c.Weights.Win,
		"MNK_GAMES":       &c.Experiment.Games,
		"MNK_CONCURRENCY": &c.Experiment.Concurrency,
	}
	for key, field := range ints {
		if v, ok := lookup(key); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v)
			}
			*field = i
		}
	}

	strs := map[string]*string{
		"MNK_ALGORITHM": &c.Search.Algorithm,
		"MNK_OUT_DIR":   &c.Experiment.OutDir,
		"MNK_LOG_LEVEL": &c.LogLevel,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	durations := map[string]*time.Duration{
		"MNK_TIME_LIMIT":            &c.Search.TimeLimit,
		"MNK_EXPERIMENT_TIME_LIMIT": &c.Experiment.TimeLimit,
	}
	for key, field := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v)
			}
			*field = d
		}
	}
	if v, ok := lookup("MNK_PROFILE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: MNK_PROFILE=%q", ErrInvalidEnv, v)
		}
		c.Experiment.Profile = b
	}
	return nil
}
