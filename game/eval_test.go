package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestBuildWindows(t *testing.T) {
	t.Run("3x3 has the eight classic lines", func(t *testing.T) {
		require.Len(t, buildWindows(3, 3), 8)
	})

	t.Run("counts every direction", func(t *testing.T) {
		// 4x4, K=3: rows 4*2, cols 4*2, each diagonal family 2*2.
		require.Len(t, buildWindows(4, 3), 24)
	})

	t.Run("windows stay inside the board", func(t *testing.T) {
		for _, window := range buildWindows(5, 4) {
			require.Len(t, window, 4)
			for _, idx := range window {
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, 25)
			}
		}
	})
}

func TestEvaluatorScore(t *testing.T) {
	e := NewEvaluator(DefaultWeights())

	t.Run("empty board is neutral", func(t *testing.T) {
		b := mustParse(t, "...,...,...", 3)
		require.Equal(t, 0, e.Score(b, X))
	})

	t.Run("center mark opens four windows", func(t *testing.T) {
		b := mustParse(t, "...,.X.,...", 3)
		require.Equal(t, 4*10, e.Score(b, X))
		require.Equal(t, -4*10, e.Score(b, O))
	})

	t.Run("scales exponentially with own marks", func(t *testing.T) {
		// Row 0 holds two X, cols 0 and 1 one X each. O owns row 2 and col 2.
		// The main diagonal holds both and is dead.
		b := mustParse(t, "XX.,...,..O", 3)
		require.Equal(t, 100+10+10-10-10, e.Score(b, X))
	})

	t.Run("mixed windows count for nothing", func(t *testing.T) {
		b := mustParse(t, "XO.,...,...", 3)
		// Row 0 is mixed. X keeps col 0 and the diagonal, O keeps col 1.
		require.Equal(t, 10+10-10, e.Score(b, X))
	})

	t.Run("uses configured base", func(t *testing.T) {
		e := NewEvaluator(Weights{Base: 3, Win: 1000})
		b := mustParse(t, "...,.X.,...", 3)
		require.Equal(t, 4*3, e.Score(b, X))
	})
}

func TestEvaluatorZeroSum(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		b := randomBoard(t, rng, 3+rng.Intn(3))
		require.Equal(t, e.Score(b, X), -e.Score(b, O), "board %s", b)
	}
}

func TestEvaluatorTerminal(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	require.Equal(t, 1_000_000, e.Terminal(b, Outcome{Status: Win, Winner: X}, X))
	require.Equal(t, -1_000_000, e.Terminal(b, Outcome{Status: Win, Winner: X}, O))
	require.Equal(t, 0, e.Terminal(b, Outcome{Status: Draw}, X))

	t.Run("long lines raise the win score", func(t *testing.T) {
		b, err := NewBoard(7, 7)
		require.NoError(t, err)
		// 16 windows of 7 cells, each worth at most 10^6 short of a line
		require.Equal(t, 16_000_001, e.Terminal(b, Outcome{Status: Win, Winner: O}, O))
	})
}

func TestWinScoreDominatesHeuristic(t *testing.T) {
	for _, weights := range []Weights{DefaultWeights(), {Base: 2, Win: 500}, {Base: 3, Win: 1}} {
		e := NewEvaluator(weights)
		for size := 1; size <= 15; size++ {
			for winLength := min(MinWinLength, size); winLength <= size; winLength++ {
				require.NoError(t, weights.Check(size, winLength))
				win := e.WinScore(size, winLength)
				require.GreaterOrEqual(t, win, weights.Win)
				require.Greater(t, win, e.HeuristicBound(size, winLength),
					"terminal score must dominate on %dx%d, %d in a row", size, size, winLength)
			}
		}
	}

	t.Run("small boards keep the configured score", func(t *testing.T) {
		e := NewEvaluator(DefaultWeights())
		for size := 3; size <= 7; size++ {
			require.Equal(t, DefaultWeights().Win, e.WinScore(size, min(size, 4)))
		}
	})
}

func TestWeightsCheck(t *testing.T) {
	require.NoError(t, DefaultWeights().Check(15, 15))
	require.ErrorIs(t, Weights{Base: 1000, Win: 1}.Check(15, 15), ErrWeightsOverflow)
}

// randomBoard plays random legal moves until the game ends or a random
// stopping point is reached.
func randomBoard(t *testing.T, rng *rand.Rand, size int) *Board {
	t.Helper()
	b, err := NewBoard(size, min(size, 3+rng.Intn(2)))
	require.NoError(t, err)
	plies := rng.Intn(size*size + 1)
	for i := 0; i < plies && !b.Outcome().IsTerminal(); i++ {
		moves := b.LegalMoves()
		b.Place(moves[rng.Intn(len(moves))], b.ToMove())
	}
	return b
}
