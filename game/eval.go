package game

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"mnk/utils"
)

var ErrWeightsOverflow = errors.New("weights overflow the score range")

// Weights configures the window heuristic. A window holding c marks of one
// side and none of the other is worth Base^c. Win is the smallest terminal
// score; boards whose heuristic can reach it get a larger one, see WinScore.
type Weights struct {
	Base int `yaml:"base" validate:"gte=2"`
	Win  int `yaml:"win" validate:"gt=0"`
}

func DefaultWeights() Weights {
	return Weights{Base: 10, Win: 1_000_000}
}

type Evaluator struct {
	weights Weights
}

func NewEvaluator(weights Weights) *Evaluator {
	return &Evaluator{weights: weights}
}

func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Score sums every window of WinLength cells along the four directions.
// Mixed windows are dead and count for nothing. Score(g, X) == -Score(g, O).
func (e *Evaluator) Score(grid Grid, perspective Mark) int {
	size := grid.Size()
	opponent := perspective.Opponent()
	total := 0
	for _, window := range getWindows(size, grid.WinLength()) {
		mine, theirs := 0, 0
		for _, idx := range window {
			switch grid.At(idx/size, idx%size) {
			case perspective:
				mine++
			case opponent:
				theirs++
			}
		}
		switch {
		case mine > 0 && theirs == 0:
			total += utils.IntPow(e.weights.Base, mine)
		case theirs > 0 && mine == 0:
			total -= utils.IntPow(e.weights.Base, theirs)
		}
	}
	return total
}

// Terminal scores a finished game for perspective. Wins are worth
// WinScore for the grid's size and win length.
func (e *Evaluator) Terminal(grid Grid, outcome Outcome, perspective Mark) int {
	if outcome.Status != Win {
		return 0
	}
	win := e.WinScore(grid.Size(), grid.WinLength())
	if outcome.Winner == perspective {
		return win
	}
	return -win
}

// WinScore is the magnitude of a terminal score on an N×N board with win
// length K: Weights.Win, raised above HeuristicBound where needed so that a
// completed line outscores every non-terminal position.
func (e *Evaluator) WinScore(size, winLength int) int {
	return max(e.weights.Win, e.HeuristicBound(size, winLength)+1)
}

// Check reports whether heuristic and terminal scores fit in an int on an
// N×N board with win length K, with room left for negation and sums.
func (w Weights) Check(size, winLength int) error {
	windows := float64(len(getWindows(size, winLength)))
	bound := windows * math.Pow(float64(w.Base), float64(winLength-1))
	if bound >= math.MaxInt64/4 {
		return fmt.Errorf("%w: base %d on a %dx%d board with %d in a row", ErrWeightsOverflow, w.Base, size, size, winLength)
	}
	return nil
}

// HeuristicBound is the largest magnitude Score can return for a position
// without a completed line.
func (e *Evaluator) HeuristicBound(size, winLength int) int {
	return len(getWindows(size, winLength)) * utils.IntPow(e.weights.Base, winLength-1)
}

type windowKey struct {
	size      int
	winLength int
}

type windowCache struct {
	mu      sync.Mutex
	windows map[windowKey][][]int
}

var cachedWindows = &windowCache{windows: make(map[windowKey][][]int)}

func getWindows(size, winLength int) [][]int {
	key := windowKey{size: size, winLength: winLength}
	cachedWindows.mu.Lock()
	defer cachedWindows.mu.Unlock()
	if windows, ok := cachedWindows.windows[key]; ok {
		return windows
	}
	windows := buildWindows(size, winLength)
	cachedWindows.windows[key] = windows
	return windows
}

func buildWindows(size, winLength int) [][]int {
	windows := [][]int{}
	if size <= 0 || winLength <= 0 {
		return windows
	}
	for _, d := range directions {
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				endRow, endCol := row+d[0]*(winLength-1), col+d[1]*(winLength-1)
				if !NewMove(endRow, endCol).InBounds(size) {
					continue
				}
				window := make([]int, winLength)
				for i := range window {
					window[i] = (row+d[0]*i)*size + col + d[1]*i
				}
				windows = append(windows, window)
			}
		}
	}
	return windows
}
