package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry aggregates an experiment's move and game metrics for export in
// the Prometheus text format.
type Registry struct {
	registry *prometheus.Registry
	searches *prometheus.CounterVec
	nodes    *prometheus.CounterVec
	cutoffs  *prometheus.CounterVec
	budget   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	games    *prometheus.CounterVec
	moves    prometheus.Histogram
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		registry: reg,
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnk",
			Name:      "searches_total",
			Help:      "Searches run, by algorithm and depth",
		}, []string{"algorithm", "depth"}),
		nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnk",
			Name:      "search_nodes_total",
			Help:      "Nodes visited, by algorithm and depth",
		}, []string{"algorithm", "depth"}),
		cutoffs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnk",
			Name:      "search_cutoffs_total",
			Help:      "Alpha-beta cutoffs that skipped at least one sibling",
		}, []string{"algorithm", "depth"}),
		budget: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnk",
			Name:      "search_budget_exhausted_total",
			Help:      "Searches stopped by a node or time budget",
		}, []string{"algorithm", "depth"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mnk",
			Name:      "search_duration_seconds",
			Help:      "Wall time per search",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"algorithm"}),
		games: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnk",
			Name:      "games_total",
			Help:      "Finished games, by result",
		}, []string{"result"}),
		moves: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mnk",
			Name:      "game_moves",
			Help:      "Moves per finished game",
			Buckets:   prometheus.LinearBuckets(1, 4, 10),
		}),
	}
}

// ObserveMove records one move's search. Moves made without a search
// (openings, random agents) only count towards searches_total.
func (r *Registry) ObserveMove(m MoveMetric) {
	depth := fmt.Sprint(m.Depth)
	r.searches.WithLabelValues(m.Algorithm, depth).Inc()
	r.nodes.WithLabelValues(m.Algorithm, depth).Add(float64(m.Nodes))
	r.cutoffs.WithLabelValues(m.Algorithm, depth).Add(float64(m.Cutoffs))
	if m.BudgetExhausted {
		r.budget.WithLabelValues(m.Algorithm, depth).Inc()
	}
	if m.Duration > 0 {
		r.duration.WithLabelValues(m.Algorithm).Observe(m.Duration.Seconds())
	}
}

func (r *Registry) ObserveGame(m GameMetric) {
	result := "draw"
	if m.Winner != "" {
		result = m.Winner
	}
	r.games.WithLabelValues(result).Inc()
	r.moves.Observe(float64(m.TotalMoves))
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
