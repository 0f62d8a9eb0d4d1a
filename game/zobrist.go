package game

import "sync"

type ZobristTable struct {
	size  int
	cells []uint64
	side  uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*ZobristTable)}

// GetZobrist returns the shared table for a board size. Tables are seeded
// from the size alone, so hashes are stable across runs.
func GetZobrist(size int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	table := &ZobristTable{size: size, cells: make([]uint64, size*size*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	table.side = rng.next()
	zobristTables.tables[size] = table
	return table
}

func (z *ZobristTable) mark(row, col int, mark Mark) uint64 {
	idx := (row*z.size + col) * 2
	if mark == O {
		idx++
	}
	return z.cells[idx]
}

// Compute hashes a grid from scratch. Boards keep their hash incrementally;
// this is the reference they must agree with.
func (z *ZobristTable) Compute(grid Grid, toMove Mark) Hash {
	var hash uint64
	for row := 0; row < z.size; row++ {
		for col := 0; col < z.size; col++ {
			mark := grid.At(row, col)
			if mark == Empty {
				continue
			}
			hash ^= z.mark(row, col, mark)
		}
	}
	if toMove == O {
		hash ^= z.side
	}
	return Hash(hash)
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
