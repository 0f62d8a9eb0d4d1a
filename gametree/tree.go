// Package gametree searches explicit, hand-written game trees. Leaves carry
// their value; interior nodes alternate between the maximizing and the
// minimizing player, starting with the maximizer at the root.
package gametree

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrMalformedTree = errors.New("malformed game tree")

type Node struct {
	Name     string  `yaml:"name"`
	Value    *int    `yaml:"value,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

func Leaf(name string, value int) *Node {
	return &Node{Name: name, Value: &value}
}

func Branch(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

func (n *Node) IsLeaf() bool {
	return n.Value != nil
}

// Size counts every node in the tree.
func (n *Node) Size() int {
	count := 1
	for _, child := range n.Children {
		count += child.Size()
	}
	return count
}

// Validate checks that every leaf has a value and no children, and that
// every other node has at least one child.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrMalformedTree)
	}
	if n.IsLeaf() && len(n.Children) > 0 {
		return fmt.Errorf("%w: leaf %q has children", ErrMalformedTree, n.Name)
	}
	if !n.IsLeaf() && len(n.Children) == 0 {
		return fmt.Errorf("%w: node %q has neither value nor children", ErrMalformedTree, n.Name)
	}
	for _, child := range n.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func Parse(data []byte) (*Node, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse game tree: %w", err)
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return &root, nil
}

func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game tree: %w", err)
	}
	return Parse(data)
}
