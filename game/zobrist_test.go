package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestZobristTablesAreShared(t *testing.T) {
	require.Same(t, GetZobrist(4), GetZobrist(4))
	require.NotSame(t, GetZobrist(3), GetZobrist(4))
}

func TestIncrementalHashMatchesCompute(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		b := randomBoard(t, rng, 3+rng.Intn(3))
		require.Equal(t, b.zobrist.Compute(b, b.ToMove()), b.Hash(), "board %s", b)

		parsed, err := ParseBoard(b.Rows(), b.WinLength())
		require.NoError(t, err)
		require.Equal(t, b.Hash(), parsed.Hash())
	}
}

func TestHashDistinguishesSideToMove(t *testing.T) {
	b := mustParse(t, "...,...,...", 3)
	z := GetZobrist(3)
	require.NotEqual(t, z.Compute(b, X), z.Compute(b, O))
}
