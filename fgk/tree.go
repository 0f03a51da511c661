// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fgk

import (
	"fmt"
	"math"

	"github.com/dsnet/dynhuff/internal"
)

const (
	maxSyms   = 256
	maxNodes  = 2*(maxSyms+1) - 1 // Every symbol plus the NYT leaf
	topRank   = maxNodes - 1      // Rank of the root
	nodeBlock = 16                // Number of nodes the arena grows by

	// maxWeight is the largest root weight. Weights are bounded by this so
	// that the depth of the tree, and thus every code, fits in 64 bits.
	maxWeight = math.MaxUint32

	none int32 = -1
)

type node struct {
	weight uint32
	parent int32
	child0 int32 // Child reached by a 0 bit, or none for leaves
	child1 int32 // Child reached by a 1 bit, or none for leaves
	rank   int32
	sym    byte
}

// Tree is an adaptive Huffman tree satisfying the sibling property.
//
// All nodes are ordered by rank such that weights never decrease as the rank
// increases. The root always holds the top rank and the NYT leaf the lowest
// rank in use. Nodes at ranks (lo, lo+1), (lo+2, lo+3), and so on, where lo
// is the rank of the NYT leaf, are siblings.
//
// The zero value is an empty tree that must be initialized with Init.
type Tree struct {
	nodes []node
	order [maxNodes]int32 // Maps rank to node index
	syms  symbolTable
	root  int32
	nyt   int32
}

// Init resets the tree to hold a single symbol of weight 1, which is the
// 0 child of the root, and the NYT leaf as the 1 child.
func (t *Tree) Init(first byte) {
	t.nodes = t.nodes[:0]
	t.syms.reset()
	t.root = t.newNode(1, none, topRank)
	leaf := t.newNode(1, t.root, topRank-1)
	t.nyt = t.newNode(0, t.root, topRank-2)
	t.nodes[leaf].sym = first
	t.nodes[t.root].child0 = leaf
	t.nodes[t.root].child1 = t.nyt
	t.syms.insert(first, leaf)
}

func (t *Tree) newNode(w uint32, parent, rank int32) int32 {
	if len(t.nodes) == cap(t.nodes) {
		nodes := make([]node, len(t.nodes), cap(t.nodes)+nodeBlock)
		copy(nodes, t.nodes)
		t.nodes = nodes
	}
	n := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{
		weight: w, parent: parent, child0: none, child1: none, rank: rank,
	})
	t.order[rank] = n
	return n
}

// Len reports the number of nodes, which is zero before Init.
func (t *Tree) Len() int { return len(t.nodes) }

// NumSyms reports the number of distinct symbols in the tree.
func (t *Tree) NumSyms() int { return t.syms.len() }

// Root returns the root node.
func (t *Tree) Root() int32 { return t.root }

// NYT returns the leaf that stands for all symbols not yet transmitted.
func (t *Tree) NYT() int32 { return t.nyt }

// Weight returns the weight of node n.
func (t *Tree) Weight(n int32) uint32 { return t.nodes[n].weight }

// Rank returns the position of node n in weight order.
func (t *Tree) Rank(n int32) int32 { return t.nodes[n].rank }

// IsLeaf reports whether n is a leaf, which may be the NYT leaf.
func (t *Tree) IsLeaf(n int32) bool { return t.nodes[n].child0 == none }

// Symbol returns the symbol of leaf n.
func (t *Tree) Symbol(n int32) byte { return t.nodes[n].sym }

// Child returns the child of n selected by bit b.
func (t *Tree) Child(n int32, b uint) int32 {
	if b == 0 {
		return t.nodes[n].child0
	}
	return t.nodes[n].child1
}

// Full reports whether the root weight is at capacity, in which case no
// further Update is allowed.
func (t *Tree) Full() bool { return t.nodes[t.root].weight == maxWeight }

// Lookup returns the leaf of sym if the symbol has been seen.
func (t *Tree) Lookup(sym byte) (int32, bool) {
	return t.syms.lookup(sym)
}

// Insert adds a leaf for a new symbol by splitting the NYT leaf.
//
// The old NYT leaf becomes an internal node of weight 1 with the new symbol
// leaf (weight 1) as its 0 child and a new NYT leaf as its 1 child.
// It returns the parent of the split node, which is where Update must start
// since the split node already carries its final weight.
func (t *Tree) Insert(sym byte) int32 {
	if _, ok := t.syms.lookup(sym); ok {
		panic("fgk: duplicate symbol insertion")
	}
	split := t.nyt
	r := t.nodes[split].rank
	if r < 2 {
		panic("fgk: alphabet exhausted")
	}
	leaf := t.newNode(1, split, r-1)
	t.nyt = t.newNode(0, split, r-2)
	t.nodes[leaf].sym = sym

	n := &t.nodes[split]
	n.weight = 1
	n.child0, n.child1 = leaf, t.nyt
	t.syms.insert(sym, leaf)
	return n.parent
}

// Update records one more occurrence at node n. The root weight is
// incremented, then every node from n up to the root is moved to the top of
// its weight block and incremented.
func (t *Tree) Update(n int32) {
	t.nodes[t.root].weight++
	for n != t.root {
		n = t.increment(n)
	}
	if internal.Debug {
		if err := t.check(); err != nil {
			panic(fmt.Sprintf("fgk: invariant violation: %v", err))
		}
	}
}

// increment swaps n with the leader of its block, unless the leader is n
// itself or its parent, and then increments n. It returns the parent of n
// after the swap.
func (t *Tree) increment(n int32) int32 {
	w := t.nodes[n].weight
	r := t.nodes[n].rank
	for r < topRank && t.nodes[t.order[r+1]].weight == w {
		r++
	}
	if lead := t.order[r]; lead != n && lead != t.nodes[n].parent {
		t.swap(n, lead)
	}
	t.nodes[n].weight++
	return t.nodes[n].parent
}

// swap exchanges the positions of the subtrees rooted at a and b.
// Neither node may be an ancestor of the other.
func (t *Tree) swap(a, b int32) {
	na, nb := &t.nodes[a], &t.nodes[b]
	pa, pb := na.parent, nb.parent
	if pa == pb {
		p := &t.nodes[pa]
		p.child0, p.child1 = p.child1, p.child0
	} else {
		t.relink(pa, a, b)
		t.relink(pb, b, a)
		na.parent, nb.parent = pb, pa
	}
	t.order[na.rank], t.order[nb.rank] = b, a
	na.rank, nb.rank = nb.rank, na.rank
}

// relink replaces the child link of p that points at from with to.
func (t *Tree) relink(p, from, to int32) {
	if t.nodes[p].child0 == from {
		t.nodes[p].child0 = to
	} else {
		t.nodes[p].child1 = to
	}
}

// Path returns the code of node n. The code is nb bits long and the edge
// leaving the root is its most-significant bit, so writing the code most
// significant bit first emits it in the order the decoder walks the tree.
func (t *Tree) Path(n int32) (code uint64, nb uint) {
	for n != t.root {
		p := t.nodes[n].parent
		if t.nodes[p].child1 == n {
			code |= 1 << nb
		}
		nb++
		n = p
	}
	return code, nb
}

// Code describes the current code of a single symbol.
type Code struct {
	Sym    byte
	Weight uint32
	Val    uint64 // Code value, with the root edge as the most-significant bit
	Len    uint   // Number of bits in Val
}

// Codes is a list of codes.
type Codes []Code

// Alphabet returns the current code of every symbol in the order in which
// the symbols first appeared.
func (t *Tree) Alphabet() Codes {
	cs := make(Codes, 0, t.syms.len())
	for _, e := range t.syms.ents {
		val, nb := t.Path(e.leaf)
		cs = append(cs, Code{Sym: e.sym, Weight: t.nodes[e.leaf].weight, Val: val, Len: nb})
	}
	return cs
}

// check verifies every structural invariant of the tree.
func (t *Tree) check() error {
	if len(t.nodes) == 0 {
		return nil
	}
	lo := int32(maxNodes - len(t.nodes))
	if got := t.nodes[t.nyt].rank; got != lo {
		return fmt.Errorf("NYT leaf at rank %d, want %d", got, lo)
	}
	if t.nodes[t.nyt].weight != 0 || !t.IsLeaf(t.nyt) {
		return fmt.Errorf("NYT leaf is not a leaf of weight 0")
	}
	if t.nodes[t.root].rank != topRank || t.nodes[t.root].parent != none {
		return fmt.Errorf("root is not at the top rank")
	}

	for r := lo; r <= topRank; r++ {
		n := t.order[r]
		nd := &t.nodes[n]
		if nd.rank != r {
			return fmt.Errorf("node %d has rank %d, but is ordered at %d", n, nd.rank, r)
		}
		if r > lo && t.nodes[t.order[r-1]].weight > nd.weight {
			return fmt.Errorf("weight decreases between rank %d and %d", r-1, r)
		}
		if (r-lo)%2 == 1 && r < topRank && t.nodes[t.order[r-1]].parent != nd.parent {
			return fmt.Errorf("ranks %d and %d are not siblings", r-1, r)
		}
		if n != t.root {
			p := &t.nodes[nd.parent]
			if p.child0 != n && p.child1 != n {
				return fmt.Errorf("node %d is not a child of its parent %d", n, nd.parent)
			}
		}
		switch {
		case nd.child0 == none && nd.child1 == none:
			if n != t.nyt && nd.weight == 0 {
				return fmt.Errorf("symbol leaf %d has weight 0", n)
			}
		case nd.child0 == none || nd.child1 == none:
			return fmt.Errorf("internal node %d has one child", n)
		default:
			c0, c1 := &t.nodes[nd.child0], &t.nodes[nd.child1]
			if c0.parent != n || c1.parent != n {
				return fmt.Errorf("children of node %d do not point back to it", n)
			}
			if uint64(c0.weight)+uint64(c1.weight) != uint64(nd.weight) {
				return fmt.Errorf("node %d weight %d is not the sum of its children", n, nd.weight)
			}
		}
	}

	var leaves int
	for _, e := range t.syms.ents {
		if !t.IsLeaf(e.leaf) || e.leaf == t.nyt || t.nodes[e.leaf].sym != e.sym {
			return fmt.Errorf("symbol %d does not map to its leaf", e.sym)
		}
		leaves++
	}
	if want := (len(t.nodes) - 1) / 2; leaves != want {
		return fmt.Errorf("got %d symbols, want %d", leaves, want)
	}
	return nil
}
