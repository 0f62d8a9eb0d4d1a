// Package meta holds the defaults shared by the CLI, config and experiments.
package meta

import "time"

// DEFAULT_SIZE and DEFAULT_WIN_LENGTH describe classic tic-tac-toe.
const DEFAULT_SIZE = 3

const DEFAULT_WIN_LENGTH = 3

// MAX_SIZE bounds the boards the CLI and config accept.
const MAX_SIZE = 15

// EXPERIMENT_GAMES is the number of games per experiment matchup.
const EXPERIMENT_GAMES = 10

// EXPERIMENT_CONCURRENCY caps the games an experiment plays at once.
const EXPERIMENT_CONCURRENCY = 4

// EXPERIMENT_DIR is where experiment runs are written.
const EXPERIMENT_DIR = "experiments/results"

// MOVE_TIME_LIMIT bounds a single search in experiments. Zero means none.
const MOVE_TIME_LIMIT = 2 * time.Second

// REMOTE_TIMEOUT bounds a move request to an agent server.
const REMOTE_TIMEOUT = 30 * time.Second

// SERVER_ADDR is where `mnk serve` listens by default.
const SERVER_ADDR = ":8080"

// DepthForSize is the search depth that keeps a move responsive on an N×N
// board.
func DepthForSize(size int) int {
	switch {
	case size <= 3:
		return 8
	case size == 4:
		return 5
	case size == 5:
		return 3
	default:
		return 2
	}
}
