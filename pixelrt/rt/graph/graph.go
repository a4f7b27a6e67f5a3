// Package graph is a small render graph: labelled nodes, explicit edges and a
// deterministic topological schedule that is rebuilt only when the graph changes.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrUnknownNode   = errors.New("graph: unknown node")
	ErrCycle         = errors.New("graph: cycle detected")
	ErrMissingInput  = errors.New("graph: required node is not upstream")
)

// Label names a node within a graph.
type Label string

// Node is one unit of render work. C is the per-run context handed to every node.
type Node[C any] interface {
	Run(ctx C) error
}

// Requirer is implemented by nodes that read resources produced by other
// nodes. Every required label must be an ancestor in the schedule.
type Requirer interface {
	Requires() []Label
}

// NodeFunc adapts a function to Node.
type NodeFunc[C any] func(ctx C) error

func (f NodeFunc[C]) Run(ctx C) error { return f(ctx) }

// Empty is an ordering anchor that does no work.
type Empty[C any] struct{}

func (Empty[C]) Run(C) error { return nil }

type Graph[C any] struct {
	labels []Label
	nodes  map[Label]Node[C]
	edges  map[Label][]Label

	order []Label
	dirty bool
}

func New[C any]() *Graph[C] {
	return &Graph[C]{
		nodes: make(map[Label]Node[C]),
		edges: make(map[Label][]Label),
		dirty: true,
	}
}

func (g *Graph[C]) AddNode(label Label, node Node[C]) error {
	if _, ok := g.nodes[label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, label)
	}
	g.labels = append(g.labels, label)
	g.nodes[label] = node
	g.dirty = true
	return nil
}

func (g *Graph[C]) Node(label Label) (Node[C], bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// AddEdge orders from before to.
func (g *Graph[C]) AddEdge(from, to Label) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	for _, existing := range g.edges[from] {
		if existing == to {
			return nil
		}
	}
	g.edges[from] = append(g.edges[from], to)
	g.dirty = true
	return nil
}

// AddEdges chains labels in order: a -> b -> c.
func (g *Graph[C]) AddEdges(labels ...Label) error {
	for i := 1; i < len(labels); i++ {
		if err := g.AddEdge(labels[i-1], labels[i]); err != nil {
			return err
		}
	}
	return nil
}

// Order returns the schedule. Ties are broken by insertion order so the same
// graph always runs the same way.
func (g *Graph[C]) Order() ([]Label, error) {
	if !g.dirty {
		return g.order, nil
	}

	indegree := make(map[Label]int, len(g.labels))
	for _, l := range g.labels {
		indegree[l] += 0
		for _, to := range g.edges[l] {
			indegree[to]++
		}
	}

	order := make([]Label, 0, len(g.labels))
	done := make(map[Label]bool, len(g.labels))
	for len(order) < len(g.labels) {
		progressed := false
		for _, l := range g.labels {
			if done[l] || indegree[l] != 0 {
				continue
			}
			done[l] = true
			order = append(order, l)
			for _, to := range g.edges[l] {
				indegree[to]--
			}
			progressed = true
			break
		}
		if !progressed {
			var stuck []string
			for _, l := range g.labels {
				if !done[l] {
					stuck = append(stuck, string(l))
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
		}
	}

	if err := g.checkRequirements(order); err != nil {
		return nil, err
	}

	g.order = order
	g.dirty = false
	return order, nil
}

func (g *Graph[C]) checkRequirements(order []Label) error {
	for _, l := range order {
		req, ok := g.nodes[l].(Requirer)
		if !ok {
			continue
		}
		ancestors := g.ancestors(l)
		for _, r := range req.Requires() {
			if _, ok := g.nodes[r]; !ok {
				return fmt.Errorf("%w: %s requires missing node %s", ErrMissingInput, l, r)
			}
			if !ancestors[r] {
				return fmt.Errorf("%w: %s requires %s", ErrMissingInput, l, r)
			}
		}
	}
	return nil
}

func (g *Graph[C]) ancestors(target Label) map[Label]bool {
	parents := make(map[Label][]Label)
	for from, tos := range g.edges {
		for _, to := range tos {
			parents[to] = append(parents[to], from)
		}
	}

	seen := make(map[Label]bool)
	stack := append([]Label(nil), parents[target]...)
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[l] {
			continue
		}
		seen[l] = true
		stack = append(stack, parents[l]...)
	}
	return seen
}

// Run executes every node in schedule order and stops at the first error.
func (g *Graph[C]) Run(ctx C) error {
	order, err := g.Order()
	if err != nil {
		return err
	}
	for _, l := range order {
		if err := g.nodes[l].Run(ctx); err != nil {
			return fmt.Errorf("node %s: %w", l, err)
		}
	}
	return nil
}
