package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name      string
		board     string
		winLength int
		expected  Outcome
	}{
		{"empty board", "...,...,...", 3, Outcome{Status: InProgress}},
		{"row", "XXX,OO.,...", 3, Outcome{Status: Win, Winner: X}},
		{"column", "OX.,OX.,.XO", 3, Outcome{Status: Win, Winner: X}},
		{"diagonal", "OX.,XO.,X.O", 3, Outcome{Status: Win, Winner: O}},
		{"anti-diagonal", "OOX,.X.,X..", 3, Outcome{Status: Win, Winner: X}},
		{"draw", "XOX,XOO,OXX", 3, Outcome{Status: Draw}},
		{"in progress", "XO.,...,...", 3, Outcome{Status: InProgress}},
		{"short line on a big board", "XXX..,OO...,.....,.....,.....", 4, Outcome{Status: InProgress}},
		{"win length below size", "XXX..,OO...,.....,.....,.....", 3, Outcome{Status: Win, Winner: X}},
		{"off-center diagonal", "....,X...,OX..,O.X.", 3, Outcome{Status: Win, Winner: X}},
		{"off-center anti-diagonal", "...O,..OX,.O.X,X...", 3, Outcome{Status: Win, Winner: O}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.board, tt.winLength)
			require.Equal(t, tt.expected, b.Outcome())
			require.Equal(t, tt.expected.Status != InProgress, b.Outcome().IsTerminal())
		})
	}
}

func TestWinningLine(t *testing.T) {
	b := mustParse(t, "OX.,XO.,X.O", 3)
	require.Equal(t, []Move{{0, 0}, {1, 1}, {2, 2}}, b.WinningLine())

	b = mustParse(t, "XO.,...,...", 3)
	require.Nil(t, b.WinningLine())
}
