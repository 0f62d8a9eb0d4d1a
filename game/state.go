package game

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrInvalidSize      = errors.New("invalid board size")
	ErrInvalidWinLength = errors.New("invalid win length")
	ErrInvalidParity    = errors.New("mark counts inconsistent with turn order")
	ErrOutOfBounds      = errors.New("move out of bounds")
	ErrOccupied         = errors.New("cell already occupied")
)

// MinWinLength is the shortest line that counts as a win.
const MinWinLength = 3

// Board is an N×N grid with a win length K. The side to move is derived
// from how many marks have been placed, X always opening.
type Board struct {
	size      int
	winLength int
	cells     []Mark
	placed    int
	hash      Hash
	zobrist   *ZobristTable
	order     []Move // all cells, center first
}

// NewBoard returns an empty board. K must satisfy MinWinLength <= K <= N,
// except that boards smaller than MinWinLength accept K == N.
func NewBoard(size, winLength int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if winLength > size || winLength < min(MinWinLength, size) {
		return nil, fmt.Errorf("%w: %d on a %dx%d board", ErrInvalidWinLength, winLength, size, size)
	}
	return &Board{
		size:      size,
		winLength: winLength,
		cells:     make([]Mark, size*size),
		zobrist:   GetZobrist(size),
		order:     centerOrder(size),
	}, nil
}

// ParseBoard builds a position from rows made of 'X', 'O' and '.' (also '_'
// or '-' for empty). Mark counts must match X having moved first.
func ParseBoard(rows []string, winLength int) (*Board, error) {
	b, err := NewBoard(len(rows), winLength)
	if err != nil {
		return nil, err
	}
	var xCount, oCount int
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != b.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, row, len(line), b.size)
		}
		for col, ch := range line {
			switch ch {
			case 'X', 'x':
				b.cells[b.index(row, col)] = X
				xCount++
			case 'O', 'o':
				b.cells[b.index(row, col)] = O
				oCount++
			case '.', '_', '-':
			default:
				return nil, fmt.Errorf("unknown cell %q at (%d,%d)", ch, row, col)
			}
		}
	}
	if xCount != oCount && xCount != oCount+1 {
		return nil, fmt.Errorf("%w: X=%d O=%d", ErrInvalidParity, xCount, oCount)
	}
	b.placed = xCount + oCount
	b.hash = b.zobrist.Compute(b, b.ToMove())
	return b, nil
}

// ParseRows splits a comma or slash separated board such as "X..,.O.,...".
func ParseRows(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == '\n'
	})
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) WinLength() int {
	return b.winLength
}

func (b *Board) At(row, col int) Mark {
	return b.cells[b.index(row, col)]
}

func (b *Board) Hash() Hash {
	return b.hash
}

// Placed is the number of marks on the board.
func (b *Board) Placed() int {
	return b.placed
}

func (b *Board) IsFull() bool {
	return b.placed == len(b.cells)
}

func (b *Board) IsEmpty() bool {
	return b.placed == 0
}

func (b *Board) ToMove() Mark {
	if b.placed%2 == 0 {
		return First
	}
	return First.Opponent()
}

// Validate reports whether move may be played on the board as it stands.
func (b *Board) Validate(move Move) error {
	if !move.InBounds(b.size) {
		return fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, move, b.size, b.size)
	}
	if b.At(move.Row, move.Col) != Empty {
		return fmt.Errorf("%w: %v", ErrOccupied, move)
	}
	return nil
}

// Place sets the cell without validation. Search code pairs it with Undo.
func (b *Board) Place(move Move, mark Mark) {
	b.cells[b.index(move.Row, move.Col)] = mark
	b.placed++
	b.hash ^= Hash(b.zobrist.mark(move.Row, move.Col, mark) ^ b.zobrist.side)
}

func (b *Board) Undo(move Move) {
	idx := b.index(move.Row, move.Col)
	mark := b.cells[idx]
	if mark == Empty {
		return
	}
	b.cells[idx] = Empty
	b.placed--
	b.hash ^= Hash(b.zobrist.mark(move.Row, move.Col, mark) ^ b.zobrist.side)
}

// Apply returns a copy of the board with move played by mark. The receiver
// is left untouched.
func (b *Board) Apply(move Move, mark Mark) *Board {
	next := b.Clone()
	next.Place(move, mark)
	return next
}

// Play validates move and applies it for the side to move.
func (b *Board) Play(move Move) (*Board, error) {
	if err := b.Validate(move); err != nil {
		return nil, err
	}
	return b.Apply(move, b.ToMove()), nil
}

func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = make([]Mark, len(b.cells))
	copy(clone.cells, b.cells)
	return &clone
}

// LegalMoves returns every empty cell, nearest the center first. Ties keep
// row-major order, so the sequence is deterministic for a given board.
func (b *Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b.cells)-b.placed)
	for _, move := range b.order {
		if b.cells[b.index(move.Row, move.Col)] == Empty {
			moves = append(moves, move)
		}
	}
	return moves
}

// Rows is the compact form accepted by ParseBoard.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	var sb strings.Builder
	for row := 0; row < b.size; row++ {
		sb.Reset()
		for col := 0; col < b.size; col++ {
			sb.WriteString(b.At(row, col).String())
		}
		rows[row] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), ",")
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}

type orderCache struct {
	mu     sync.Mutex
	orders map[int][]Move
}

var cachedOrders = &orderCache{orders: make(map[int][]Move)}

// centerOrder is shared between boards and must not be modified.
func centerOrder(size int) []Move {
	cachedOrders.mu.Lock()
	defer cachedOrders.mu.Unlock()
	if order, ok := cachedOrders.orders[size]; ok {
		return order
	}
	order := make([]Move, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			order = append(order, NewMove(row, col))
		}
	}
	slices.SortStableFunc(order, func(a, b Move) int {
		return cmp.Compare(a.centerDistance(size), b.centerDistance(size))
	})
	cachedOrders.orders[size] = order
	return order
}
