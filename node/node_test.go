// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"testing"

	"s72engine/linear"
)

// fixedNode is a minimal node.Interface: a fixed local transform and
// an explicit dirty flag the test flips to drive Graph.Update's
// change propagation, mirroring how scene.sceneNode exposes its own
// composed transform.
type fixedNode struct {
	local   linear.M4
	changed bool
}

func newFixedNode() *fixedNode {
	n := &fixedNode{}
	n.local.I()
	return n
}

func (n *fixedNode) Local() *linear.M4 { return &n.local }
func (n *fixedNode) Changed() bool     { return n.changed }

func (n *fixedNode) translate(x, y, z float32) {
	n.local.I()
	n.local[0][3], n.local[1][3], n.local[2][3] = x, y, z
	n.changed = true
}

func TestGraphInsertGetLen(t *testing.T) {
	var g Graph
	root := newFixedNode()
	child := newFixedNode()

	rootN := g.Insert(root, Nil)
	if rootN == Nil {
		t.Fatal("Insert: root node must not be Nil")
	}
	childN := g.Insert(child, rootN)
	if childN == Nil {
		t.Fatal("Insert: child node must not be Nil")
	}
	if g.Len() != 2 {
		t.Fatalf("Len: have %d, want 2", g.Len())
	}
	if g.Get(rootN) != Interface(root) {
		t.Error("Get: did not return the inserted root Interface")
	}
	if g.Get(childN) != Interface(child) {
		t.Error("Get: did not return the inserted child Interface")
	}
}

func TestGraphInsertPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Insert(nil, ...): expected panic")
		}
	}()
	var g Graph
	g.Insert(nil, Nil)
}

// TestGraphUpdatePropagatesToDescendants checks that translating a
// root node and marking it changed recomputes the world transform of
// every node in its sub-graph, not just the node itself.
func TestGraphUpdatePropagatesToDescendants(t *testing.T) {
	var g Graph
	root := newFixedNode()
	child := newFixedNode()
	grandchild := newFixedNode()

	rootN := g.Insert(root, Nil)
	childN := g.Insert(child, rootN)
	grandchildN := g.Insert(grandchild, childN)

	g.Update()
	for _, n := range []Node{rootN, childN, grandchildN} {
		w := g.World(n)
		var id linear.M4
		id.I()
		if *w != id {
			t.Fatalf("World(%v) after initial Update: have %v, want identity", n, w)
		}
	}

	root.translate(1, 2, 3)
	g.Update()

	w := g.World(grandchildN)
	if w[0][3] != 1 || w[1][3] != 2 || w[2][3] != 3 {
		t.Errorf("World(grandchild) did not inherit root's translation: %v", w)
	}
}

// TestGraphSetWorldAppliesToUnconnectedNodes checks that SetWorld
// invalidates every root-level node, per its documented contract.
func TestGraphSetWorldAppliesToUnconnectedNodes(t *testing.T) {
	var g Graph
	n := newFixedNode()
	nN := g.Insert(n, Nil)
	n.changed = false
	g.Update()

	var w linear.M4
	w.I()
	w[0][3] = 5
	g.SetWorld(w)
	g.Update()

	if got := g.World(nN); got[0][3] != 5 {
		t.Errorf("World after SetWorld: have %v, want x offset 5", got)
	}
	if got := g.World(Nil); *got != w {
		t.Errorf("World(Nil): have %v, want %v", got, w)
	}
}

// TestGraphRemoveReturnsSubGraphInDepthOrder checks that Remove
// returns the removed node's Interface before any of its
// descendants', that Len drops to zero, and that a later Insert
// still returns a valid node handle.
func TestGraphRemoveReturnsSubGraphInDepthOrder(t *testing.T) {
	var g Graph
	root := newFixedNode()
	child := newFixedNode()
	grandchild := newFixedNode()

	rootN := g.Insert(root, Nil)
	childN := g.Insert(child, rootN)
	g.Insert(grandchild, childN)

	removed := g.Remove(rootN)
	if len(removed) != 3 {
		t.Fatalf("Remove: have %d Interfaces, want 3", len(removed))
	}
	if removed[0] != Interface(root) {
		t.Error("Remove: first element must be the removed node's own Interface")
	}
	if g.Len() != 0 {
		t.Fatalf("Len after Remove: have %d, want 0", g.Len())
	}

	// Inserting into the emptied graph must yield a valid handle.
	other := newFixedNode()
	otherN := g.Insert(other, Nil)
	if otherN == Nil {
		t.Error("Insert after Remove: node handle must be reusable")
	}
	_ = childN
}

func TestGraphRemoveNilIsNoop(t *testing.T) {
	var g Graph
	if removed := g.Remove(Nil); removed != nil {
		t.Errorf("Remove(Nil): have %v, want nil", removed)
	}
}

// alwaysChangedNode always reports Changed, modeling a node whose
// local transform is driven by a clock external to the graph.
type alwaysChangedNode struct{ local linear.M4 }

func (n *alwaysChangedNode) Local() *linear.M4 { return &n.local }
func (n *alwaysChangedNode) Changed() bool     { return true }

// TestGraphRefreshRebuildsEveryFrame checks that Refresh recomputes
// world transforms from scratch on every call, as required by nodes
// that unconditionally report Changed.
func TestGraphRefreshRebuildsEveryFrame(t *testing.T) {
	var g Graph
	n := &alwaysChangedNode{}
	n.local.I()
	n.local[0][3] = 7
	nN := g.Insert(n, Nil)

	g.Refresh()
	if w := g.World(nN); w[0][3] != 7 {
		t.Fatalf("World after first Refresh: have %v, want x offset 7", w)
	}

	n.local[0][3] = 9
	g.Refresh()
	if w := g.World(nN); w[0][3] != 9 {
		t.Fatalf("World after second Refresh: have %v, want x offset 9", w)
	}
}
