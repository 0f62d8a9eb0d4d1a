package gametree

import (
	"math"

	"github.com/rs/zerolog/log"
)

type Result struct {
	Value   int
	Best    string   // Root child reaching Value, "" for a leaf root
	Visited int      // Nodes visited, root included
	Pruned  []string // Children skipped by cutoffs, in visit order
}

type Comparison struct {
	Minimax   Result
	AlphaBeta Result
}

// Saved is the number of nodes alpha-beta did not need to visit.
func (c Comparison) Saved() int {
	return c.Minimax.Visited - c.AlphaBeta.Visited
}

func Compare(root *Node) Comparison {
	return Comparison{
		Minimax:   Minimax(root),
		AlphaBeta: AlphaBeta(root),
	}
}

func Minimax(root *Node) Result {
	var result Result
	result.Value, result.Best = minimax(root, 0, true, &result)
	return result
}

func AlphaBeta(root *Node) Result {
	var result Result
	result.Value, result.Best = alphaBeta(root, 0, math.MinInt, math.MaxInt, true, &result)
	return result
}

func minimax(node *Node, ply int, maximizing bool, result *Result) (int, string) {
	result.Visited++
	if node.IsLeaf() {
		return *node.Value, ""
	}

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	bestChild := ""
	for _, child := range node.Children {
		value, _ := minimax(child, ply+1, !maximizing, result)
		if (maximizing && value > best) || (!maximizing && value < best) {
			best, bestChild = value, child.Name
		}
		log.Trace().Int("ply", ply).Bool("max", maximizing).Str("child", child.Name).Int("best", best).Msg("minimax explored child")
	}
	return best, bestChild
}

func alphaBeta(node *Node, ply int, alpha, beta int, maximizing bool, result *Result) (int, string) {
	result.Visited++
	if node.IsLeaf() {
		return *node.Value, ""
	}

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	bestChild := ""
	for i, child := range node.Children {
		value, _ := alphaBeta(child, ply+1, alpha, beta, !maximizing, result)
		if maximizing {
			if value > best {
				best, bestChild = value, child.Name
			}
			alpha = max(alpha, best)
		} else {
			if value < best {
				best, bestChild = value, child.Name
			}
			beta = min(beta, best)
		}
		log.Trace().Int("ply", ply).Bool("max", maximizing).Str("child", child.Name).Int("alpha", alpha).Int("beta", beta).Msg("alpha-beta explored child")

		if beta <= alpha {
			for _, skipped := range node.Children[i+1:] {
				result.Pruned = append(result.Pruned, skipped.Name)
				log.Trace().Int("ply", ply).Str("child", skipped.Name).Msg("pruned branch (beta <= alpha)")
			}
			break
		}
	}
	return best, bestChild
}
