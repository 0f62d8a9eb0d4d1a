package game

type Status int

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in-progress"
	}
}

type Outcome struct {
	Status Status
	Winner Mark // Empty unless Status == Win
}

func (o Outcome) IsTerminal() bool {
	return o.Status != InProgress
}

func (o Outcome) String() string {
	if o.Status == Win {
		return o.Winner.String() + " wins"
	}
	return o.Status.String()
}

// directions covers rows, columns, diagonals and anti-diagonals.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Outcome scans every line for WinLength identical marks. Positions where
// both sides own a line cannot arise in play; the first line found in
// row-major order decides them.
func (b *Board) Outcome() Outcome {
	if line := b.WinningLine(); line != nil {
		return Outcome{Status: Win, Winner: b.At(line[0].Row, line[0].Col)}
	}
	if b.IsFull() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// WinningLine returns the cells of the first completed line, or nil.
func (b *Board) WinningLine() []Move {
	k := b.winLength
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			mark := b.At(row, col)
			if mark == Empty {
				continue
			}
			for _, d := range directions {
				endRow, endCol := row+d[0]*(k-1), col+d[1]*(k-1)
				if !NewMove(endRow, endCol).InBounds(b.size) {
					continue
				}
				count := 1
				for count < k && b.At(row+d[0]*count, col+d[1]*count) == mark {
					count++
				}
				if count == k {
					line := make([]Move, k)
					for i := range line {
						line[i] = NewMove(row+d[0]*i, col+d[1]*i)
					}
					return line
				}
			}
		}
	}
	return nil
}
