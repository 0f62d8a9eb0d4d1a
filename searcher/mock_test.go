package searcher

import "mnk/game"

// mockPosition is an in-progress position that offers a fixed move list.
type mockPosition struct {
	toMove  game.Mark
	moves   []game.Move
	outcome game.Outcome
	placed  []game.Move
}

func (m *mockPosition) Size() int {
	return 3
}

func (m *mockPosition) WinLength() int {
	return 3
}

func (m *mockPosition) At(row, col int) game.Mark {
	return game.Empty
}

func (m *mockPosition) ToMove() game.Mark {
	return m.toMove
}

func (m *mockPosition) LegalMoves() []game.Move {
	return m.moves
}

func (m *mockPosition) Place(move game.Move, mark game.Mark) {
	m.placed = append(m.placed, move)
}

func (m *mockPosition) Undo(move game.Move) {
	m.placed = m.placed[:len(m.placed)-1]
}

func (m *mockPosition) Outcome() game.Outcome {
	return m.outcome
}

func (m *mockPosition) Hash() game.Hash {
	return 0
}
