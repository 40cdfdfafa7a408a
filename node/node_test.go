// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type testNode struct {
	name  string
	local mgl64.Mat4
}

func (n *testNode) Local() mgl64.Mat4 { return n.local }

func newTestNode(name string, local mgl64.Mat4) *testNode {
	return &testNode{name, local}
}

// testInsert calls g.Insert and checks that it works
// as expected.
func testInsert(g *Graph[*testNode], n, parent *testNode, t *testing.T) {
	cnt := g.Len()
	if err := g.Insert(n, parent); err != nil {
		t.Fatalf("g.Insert(%s): unexpected error: %v", n.name, err)
	}
	if x := g.Len(); x != cnt+1 {
		t.Fatalf("g.Insert: g.Len\nhave %d\nwant %d", x, cnt+1)
	}
	if p, _ := g.Parent(n); p != parent {
		t.Fatalf("g.Insert: g.Parent\nhave %p\nwant %p", p, parent)
	}
}

func TestInsert(t *testing.T) {
	var g Graph[*testNode]
	a := newTestNode("a", mgl64.Ident4())
	b := newTestNode("b", mgl64.Ident4())
	c := newTestNode("c", mgl64.Ident4())

	testInsert(&g, a, nil, t)
	testInsert(&g, b, a, t)
	testInsert(&g, c, a, t)

	if err := g.Insert(b, nil); !errors.Is(err, ErrPresent) {
		t.Fatalf("g.Insert: present node\nhave %v\nwant %v", err, ErrPresent)
	}
	if err := g.Insert(newTestNode("d", mgl64.Ident4()), newTestNode("x", mgl64.Ident4())); !errors.Is(err, ErrParent) {
		t.Fatalf("g.Insert: missing parent\nhave %v\nwant %v", err, ErrParent)
	}
	if err := g.Insert(nil, a); err == nil {
		t.Fatal("g.Insert: world node\nhave nil\nwant error")
	}
	if sub := g.Children(a); len(sub) != 2 || sub[0] != b || sub[1] != c {
		t.Fatalf("g.Children\nhave %v\nwant [b c]", sub)
	}
	if n := g.Nodes(); len(n) != 3 || n[0] != a || n[1] != b || n[2] != c {
		t.Fatalf("g.Nodes\nhave %v\nwant [a b c]", n)
	}
}

func TestRemove(t *testing.T) {
	var g Graph[*testNode]
	nodes := make([]*testNode, 6)
	for i := range nodes {
		nodes[i] = newTestNode(string(rune('a'+i)), mgl64.Ident4())
	}
	// a -> b -> c
	//   -> d -> e
	// f
	testInsert(&g, nodes[0], nil, t)
	testInsert(&g, nodes[1], nodes[0], t)
	testInsert(&g, nodes[2], nodes[1], t)
	testInsert(&g, nodes[3], nodes[0], t)
	testInsert(&g, nodes[4], nodes[3], t)
	testInsert(&g, nodes[5], nil, t)

	if _, err := g.Path(nodes[2]); err != nil {
		t.Fatalf("g.Path: unexpected error: %v", err)
	}
	removed, err := g.Remove(nodes[1])
	if err != nil {
		t.Fatalf("g.Remove: unexpected error: %v", err)
	}
	if len(removed) != 2 || removed[0] != nodes[1] || removed[1] != nodes[2] {
		t.Fatalf("g.Remove\nhave %v\nwant [b c]", removed)
	}
	if g.Has(nodes[2]) {
		t.Fatal("g.Remove: descendant still in graph")
	}
	if _, err := g.Path(nodes[2]); !errors.Is(err, ErrAbsent) {
		t.Fatalf("g.Path: removed node\nhave %v\nwant %v", err, ErrAbsent)
	}
	if sub := g.Children(nodes[0]); len(sub) != 1 || sub[0] != nodes[3] {
		t.Fatalf("g.Remove: g.Children(a)\nhave %v\nwant [d]", sub)
	}
	if n := g.Len(); n != 4 {
		t.Fatalf("g.Remove: g.Len\nhave %d\nwant 4", n)
	}
	if _, err := g.Remove(nodes[1]); !errors.Is(err, ErrAbsent) {
		t.Fatalf("g.Remove: absent node\nhave %v\nwant %v", err, ErrAbsent)
	}

	removed, _ = g.Remove(nodes[0])
	if len(removed) != 3 {
		t.Fatalf("g.Remove(a)\nhave %d nodes\nwant 3", len(removed))
	}
	if n := g.Nodes(); len(n) != 1 || n[0] != nodes[5] {
		t.Fatalf("g.Nodes\nhave %v\nwant [f]", n)
	}
	g.Clear()
	if g.Len() != 0 || g.Has(nodes[5]) {
		t.Fatal("g.Clear: graph not empty")
	}
}

func TestWorld(t *testing.T) {
	var g Graph[*testNode]
	a := newTestNode("a", mgl64.Translate3D(1, 0, 0))
	b := newTestNode("b", mgl64.HomogRotate3D(1.1, mgl64.Vec3{0, 1, 0}))
	c := newTestNode("c", mgl64.Scale3D(2, 3, 4).Mul4(mgl64.Translate3D(0, 0, -5)))
	testInsert(&g, a, nil, t)
	testInsert(&g, b, a, t)
	testInsert(&g, c, b, t)

	want := a.local.Mul4(b.local).Mul4(c.local)
	w, err := g.World(c)
	if err != nil {
		t.Fatalf("g.World: unexpected error: %v", err)
	}
	if !w.ApproxEqualThreshold(want, 1e-12) {
		t.Fatalf("g.World\nhave %v\nwant %v", w, want)
	}

	// Local changes are visible without invalidating paths.
	a.local = mgl64.Translate3D(0, 7, 0)
	want = a.local.Mul4(b.local).Mul4(c.local)
	if w, _ = g.World(c); !w.ApproxEqualThreshold(want, 1e-12) {
		t.Fatalf("g.World after local change\nhave %v\nwant %v", w, want)
	}

	path, _ := g.Path(c)
	if len(path) != 3 || path[0] != c || path[2] != a {
		t.Fatalf("g.Path\nhave %v\nwant [c b a]", path)
	}
	if _, err := g.World(newTestNode("x", mgl64.Ident4())); !errors.Is(err, ErrAbsent) {
		t.Fatalf("g.World: absent node\nhave %v\nwant %v", err, ErrAbsent)
	}
}
