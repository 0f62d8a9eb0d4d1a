package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Algorithm       string
	Depth           int
	Duration        time.Duration
	Nodes           int
	Leaves          int
	Cutoffs         int
	BudgetExhausted bool
}

type MoveMetric struct {
	Step   int
	Player string // Mark that moved
	Row    int
	Col    int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" for a draw
	Size           int
	WinLength      int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(algorithm string, depth int)
	AddNode()
	AddLeaf()
	AddCutoff()
	SetBudgetExhausted()
	Complete() SearchMetric
}

type collector struct {
	algorithm       string
	depth           int
	startTime       time.Time
	nodes           atomic.Int64
	leaves          atomic.Int64
	cutoffs         atomic.Int64
	budgetExhausted atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(algorithm string, depth int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.depth = depth
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.budgetExhausted.Store(false)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) SetBudgetExhausted() {
	m.budgetExhausted.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:       m.algorithm,
		Depth:           m.depth,
		Duration:        time.Since(m.startTime),
		Nodes:           int(m.nodes.Load()),
		Leaves:          int(m.leaves.Load()),
		Cutoffs:         int(m.cutoffs.Load()),
		BudgetExhausted: m.budgetExhausted.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, depth int) {}
func (m *dummyCollector) AddNode()                          {}
func (m *dummyCollector) AddLeaf()                          {}
func (m *dummyCollector) AddCutoff()                        {}
func (m *dummyCollector) SetBudgetExhausted()               {}
func (m *dummyCollector) Complete() SearchMetric            { return SearchMetric{} }

type AgentConfig struct {
	ID         int           `yaml:"id"`
	Kind       string        `yaml:"kind" validate:"oneof=alphabeta minimax random remote"`
	Depth      int           `yaml:"depth" validate:"gte=0"`
	NodeBudget int           `yaml:"node_budget" validate:"gte=0"`
	Duration   time.Duration `yaml:"duration" validate:"gte=0"`
	Seed       uint64        `yaml:"seed"`
	URL        string        `yaml:"url" validate:"required_if=Kind remote"` // Agent server for remote agents
}
