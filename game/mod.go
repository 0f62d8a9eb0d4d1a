package game

// Mark is the content of a single board cell.
type Mark int8

const (
	Empty Mark = iota
	X
	O
)

// First is the mark that opens every game.
const First = X

func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

type Hash uint64

// Grid is the read-only view of a board that evaluators need.
type Grid interface {
	Size() int
	WinLength() int
	At(row, col int) Mark
}

// Position is what a searcher walks. Place and Undo mutate in place; every
// Place must be reverted by an Undo of the same move before the caller
// returns, so sibling branches never observe each other's moves.
type Position interface {
	Grid
	ToMove() Mark
	LegalMoves() []Move
	Place(move Move, mark Mark)
	Undo(move Move)
	Outcome() Outcome
	Hash() Hash
}

// Evaluate scores a non-terminal grid from the perspective mark. Positive
// values favor perspective.
type Evaluate func(grid Grid, perspective Mark) int
