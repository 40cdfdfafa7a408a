// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
//
// A Graph stores the parent of every node it contains,
// rooted at an implicit world node. Nodes themselves do
// not point to their parents; the Graph is the only
// reverse lookup.
package node

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Interface of a node.
type Interface interface {
	comparable

	// Local returns the local transform of the node.
	Local() mgl64.Mat4
}

var (
	// ErrPresent means that the node is already in the graph.
	ErrPresent = errors.New("node: node already in graph")

	// ErrAbsent means that the node is not in the graph.
	ErrAbsent = errors.New("node: node not in graph")

	// ErrParent means that the requested parent is not in
	// the graph.
	ErrParent = errors.New("node: parent not in graph")
)

// Graph is a node graph.
// The zero value for a Graph is an empty graph whose
// world node is the zero value of N.
type Graph[N Interface] struct {
	parent map[N]N
	sub    map[N][]N
	order  []N
	// Paths from a node to the world node, computed on
	// demand and discarded whenever the topology changes.
	paths map[N][]N
}

// Root returns the value that identifies the world node.
func (g *Graph[N]) Root() (root N) { return }

// Len returns the number of nodes in g.
func (g *Graph[N]) Len() int { return len(g.order) }

// Has reports whether n is in g.
func (g *Graph[N]) Has(n N) bool {
	_, ok := g.parent[n]
	return ok
}

// Nodes returns the nodes of g in insertion order.
// The slice must not be modified.
func (g *Graph[N]) Nodes() []N { return g.order }

// Parent returns the parent of n.
// It returns g.Root() for nodes inserted under the
// world node.
func (g *Graph[N]) Parent(n N) (N, error) {
	p, ok := g.parent[n]
	if !ok {
		return g.Root(), ErrAbsent
	}
	return p, nil
}

// Children returns the immediate descendants of n that
// are in g. The slice must not be modified.
func (g *Graph[N]) Children(n N) []N { return g.sub[n] }

// Insert inserts n as immediate descendant of parent.
// parent may be g.Root().
func (g *Graph[N]) Insert(n, parent N) error {
	if n == g.Root() {
		return errors.New("node: cannot insert the world node")
	}
	if g.Has(n) {
		return ErrPresent
	}
	if parent != g.Root() && !g.Has(parent) {
		return ErrParent
	}
	if g.parent == nil {
		g.parent = make(map[N]N)
		g.sub = make(map[N][]N)
	}
	g.parent[n] = parent
	g.sub[parent] = append(g.sub[parent], n)
	g.order = append(g.order, n)
	g.paths = nil
	return nil
}

// Remove removes n and every node descending from it.
// It returns the removed nodes, n first.
func (g *Graph[N]) Remove(n N) ([]N, error) {
	if !g.Has(n) {
		return nil, ErrAbsent
	}
	removed := []N{n}
	for i := 0; i < len(removed); i++ {
		removed = append(removed, g.sub[removed[i]]...)
	}
	p := g.parent[n]
	sub := g.sub[p]
	for i := range sub {
		if sub[i] == n {
			g.sub[p] = append(sub[:i:i], sub[i+1:]...)
			break
		}
	}
	gone := make(map[N]struct{}, len(removed))
	for _, x := range removed {
		gone[x] = struct{}{}
		delete(g.parent, x)
		delete(g.sub, x)
	}
	order := g.order[:0]
	for _, x := range g.order {
		if _, ok := gone[x]; !ok {
			order = append(order, x)
		}
	}
	clear(g.order[len(order):])
	g.order = order
	g.paths = nil
	return removed, nil
}

// Clear removes every node from g.
func (g *Graph[N]) Clear() { *g = Graph[N]{} }

// Path returns the path from n to the world node,
// excluding the world node itself.
// The slice is cached and must not be modified.
func (g *Graph[N]) Path(n N) ([]N, error) {
	if p, ok := g.paths[n]; ok {
		return p, nil
	}
	if !g.Has(n) {
		return nil, ErrAbsent
	}
	var path []N
	for x := n; x != g.Root(); x = g.parent[x] {
		path = append(path, x)
	}
	if g.paths == nil {
		g.paths = make(map[N][]N)
	}
	g.paths[n] = path
	return path, nil
}

// World returns the world transform of n, computed as
// the product of the local transforms along the path
// from the world node down to n.
func (g *Graph[N]) World(n N) (mgl64.Mat4, error) {
	path, err := g.Path(n)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	w := mgl64.Ident4()
	for _, x := range path {
		w = x.Local().Mul4(w)
	}
	return w, nil
}
