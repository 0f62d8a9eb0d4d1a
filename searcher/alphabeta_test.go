package searcher

import (
	"fmt"
	"testing"

	"mnk/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// randomPosition plays between minPlies and maxPlies random moves, stopping
// early if the game ends.
func randomPosition(t *testing.T, rng *rand.Rand, size, winLength, minPlies, maxPlies int) *game.Board {
	t.Helper()
	b, err := game.NewBoard(size, winLength)
	require.NoError(t, err)
	plies := minPlies + rng.Intn(maxPlies-minPlies+1)
	for i := 0; i < plies && !b.Outcome().IsTerminal(); i++ {
		moves := b.LegalMoves()
		b.Place(moves[rng.Intn(len(moves))], b.ToMove())
	}
	return b
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	configs := []struct {
		size, winLength    int
		minPlies, maxPlies int
		depths             []int
	}{
		{size: 3, winLength: 3, minPlies: 2, maxPlies: 8, depths: []int{1, 2, 3, 9}},
		{size: 4, winLength: 3, minPlies: 1, maxPlies: 10, depths: []int{1, 2, 3}},
		{size: 4, winLength: 4, minPlies: 4, maxPlies: 12, depths: []int{4}},
		{size: 5, winLength: 4, minPlies: 2, maxPlies: 12, depths: []int{2}},
	}

	rng := rand.New(rand.NewSource(2024))
	for _, cfg := range configs {
		for _, depth := range cfg.depths {
			name := fmt.Sprintf("%dx%d k=%d depth=%d", cfg.size, cfg.size, cfg.winLength, depth)
			t.Run(name, func(t *testing.T) {
				for i := 0; i < 25; i++ {
					b := randomPosition(t, rng, cfg.size, cfg.winLength, cfg.minPlies, cfg.maxPlies)

					full, err := NewMinimax(depth).Search(b)
					require.NoError(t, err)
					pruned, err := NewAlphaBeta(depth).Search(b)
					require.NoError(t, err)

					require.Equal(t, full.Score, pruned.Score, "board %s", b)
					require.Equal(t, full.Move, pruned.Move, "board %s", b)
					require.Equal(t, full.HasMove, pruned.HasMove, "board %s", b)

					require.LessOrEqual(t, pruned.Nodes, full.Nodes, "board %s", b)
					if pruned.Cutoffs == 0 {
						require.Equal(t, full.Nodes, pruned.Nodes, "no cutoff means the same tree, board %s", b)
					} else {
						require.Less(t, pruned.Nodes, full.Nodes, "a cutoff skips at least one node, board %s", b)
					}
					require.Zero(t, full.Cutoffs)
				}
			})
		}
	}
}

func TestAlphaBetaPrunesOpening(t *testing.T) {
	b, err := game.NewBoard(3, 3)
	require.NoError(t, err)

	full, err := NewMinimax(9).Search(b)
	require.NoError(t, err)
	pruned, err := NewAlphaBeta(9).Search(b)
	require.NoError(t, err)

	// 549946 is the size of the full tic-tac-toe game tree.
	require.Equal(t, 549946, full.Nodes)
	require.Less(t, pruned.Nodes, full.Nodes/4)
	require.Positive(t, pruned.Cutoffs)
}
