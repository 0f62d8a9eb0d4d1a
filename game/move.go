package game

import (
	"fmt"
	"mnk/utils"
)

type Move struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) InBounds(size int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < size && m.Col < size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// centerDistance is the Manhattan distance to the board center, doubled so
// even sizes stay integral.
func (m Move) centerDistance(size int) int {
	center := size - 1
	return utils.Abs(2*m.Row-center) + utils.Abs(2*m.Col-center)
}
