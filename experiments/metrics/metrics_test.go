package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start("alphabeta", 3)
	for i := 0; i < 5; i++ {
		c.AddNode()
	}
	c.AddLeaf()
	c.AddCutoff()
	c.SetBudgetExhausted()

	m := c.Complete()
	require.Equal(t, "alphabeta", m.Algorithm)
	require.Equal(t, 3, m.Depth)
	require.Equal(t, 5, m.Nodes)
	require.Equal(t, 1, m.Leaves)
	require.Equal(t, 1, m.Cutoffs)
	require.True(t, m.BudgetExhausted)

	t.Run("start resets", func(t *testing.T) {
		c.Start("minimax", 1)
		m := c.Complete()
		require.Equal(t, "minimax", m.Algorithm)
		require.Zero(t, m.Nodes)
		require.False(t, m.BudgetExhausted)
	})

	t.Run("dummy records nothing", func(t *testing.T) {
		d := NewDummyCollector()
		d.Start("minimax", 2)
		d.AddNode()
		require.Equal(t, SearchMetric{}, d.Complete())
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "unit")
	require.NoError(t, err)
	require.Equal(t, w.RunID().String(), filepath.Base(w.Dir()))

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 1, Kind: "alphabeta", Depth: 4, Duration: time.Second},
		{ID: 2, Kind: "random", Seed: 7},
	}))
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID: 1, Agent1: 1, Agent2: 2,
		GameMetric: GameMetric{StartingPlayer: "X", Winner: "X", Size: 3, WinLength: 3, StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 5},
	}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game:       1,
		MoveMetric: MoveMetric{Step: 2, Player: "O", Row: 0, Col: 2, SearchMetric: SearchMetric{Algorithm: "alphabeta", Depth: 4, Nodes: 120, Cutoffs: 9}},
	}}))

	read := func(name string) [][]string {
		f, err := os.Open(filepath.Join(w.Dir(), name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	configs := read("agent_configs.csv")
	require.Len(t, configs, 3)
	require.Equal(t, []string{"1", "alphabeta", "4", "0", "1s", "0", ""}, configs[1])
	require.Equal(t, "7", configs[2][5])

	games := read("game_records.csv")
	require.Len(t, games, 2)
	require.Equal(t, w.RunID().String(), games[1][0])
	require.Equal(t, "X", games[1][7])
	require.Equal(t, "2024-01-02T03:04:05Z", games[1][9])

	moves := read("move_records.csv")
	require.Len(t, moves, 2)
	require.Equal(t, []string{"1", "2", "O", "0", "2", "alphabeta", "4", "0s", "120", "0", "9", "false"}, moves[1])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.ObserveMove(MoveMetric{SearchMetric: SearchMetric{Algorithm: "alphabeta", Depth: 2, Nodes: 40, Cutoffs: 3, Duration: time.Millisecond}})
	r.ObserveMove(MoveMetric{SearchMetric: SearchMetric{Algorithm: "alphabeta", Depth: 2, Nodes: 10, BudgetExhausted: true}})
	r.ObserveGame(GameMetric{Winner: "", TotalMoves: 9})
	r.ObserveGame(GameMetric{Winner: "O", TotalMoves: 6})

	require.Equal(t, 2.0, testutil.ToFloat64(r.searches.WithLabelValues("alphabeta", "2")))
	require.Equal(t, 50.0, testutil.ToFloat64(r.nodes.WithLabelValues("alphabeta", "2")))
	require.Equal(t, 3.0, testutil.ToFloat64(r.cutoffs.WithLabelValues("alphabeta", "2")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.budget.WithLabelValues("alphabeta", "2")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.games.WithLabelValues("draw")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.games.WithLabelValues("O")))

	series, err := testutil.GatherAndCount(r.Gatherer(), "mnk_games_total", "mnk_search_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 3, series, "two game results and one timed algorithm")

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, r.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `mnk_search_nodes_total{algorithm="alphabeta",depth="2"} 50`))
	require.True(t, strings.Contains(string(data), "mnk_game_moves_count 2"))
}
