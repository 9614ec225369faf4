// Package bvt implements a bounding volume tree over axis-aligned boxes. Composite shapes index
// their children with it and every composite query descends it, either best-first through a
// priority queue or depth-first with pruning.
package bvt

import (
	"sort"

	"go.viam.com/collide/spatialmath"
)

// Leaf is an element to be indexed: an opaque index, usually the position of a child in its
// composite, and the volume of that child in the composite's local frame.
type Leaf struct {
	Index  int
	Volume spatialmath.AABB
}

// Node is a node of a BVT. Internal nodes have exactly two children and a volume equal to
// the union of their children's volumes. Leaf nodes carry an index and its volume.
type Node struct {
	Volume spatialmath.AABB
	Left   *Node
	Right  *Node
	Index  int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BVT is an immutable bounding volume tree. It is safe for concurrent readers.
type BVT struct {
	root *Node
	// leaves in input order, with the position of the first leaf carrying each index
	leaves     []Leaf
	byPosition map[int]int
}

// BuildBalanced builds a tree by recursively splitting the leaves at the median of their
// centers along the longest axis of the centers' bounding box. Ties on the split axis keep
// the input order. An empty input yields an empty tree.
// Every leaf is kept even when indices repeat; BoundingVolumeOf then reports the first one.
func BuildBalanced(leaves []Leaf) *BVT {
	t := &BVT{
		leaves:     append([]Leaf(nil), leaves...),
		byPosition: make(map[int]int, len(leaves)),
	}
	if len(leaves) == 0 {
		return t
	}
	for pos, l := range leaves {
		if _, seen := t.byPosition[l.Index]; !seen {
			t.byPosition[l.Index] = pos
		}
	}
	work := make([]Leaf, len(leaves))
	copy(work, leaves)
	t.root = buildNode(work)
	return t
}

func buildNode(leaves []Leaf) *Node {
	if len(leaves) == 1 {
		return &Node{Volume: leaves[0].Volume, Index: leaves[0].Index}
	}

	centers := spatialmath.EmptyAABB()
	for _, l := range leaves {
		centers = centers.MergedPoint(l.Volume.Center())
	}
	axis := centers.LongestAxis()
	sort.SliceStable(leaves, func(i, j int) bool {
		return spatialmath.Component(leaves[i].Volume.Center(), axis) < spatialmath.Component(leaves[j].Volume.Center(), axis)
	})

	mid := len(leaves) / 2
	left := buildNode(leaves[:mid])
	right := buildNode(leaves[mid:])
	return &Node{
		Volume: left.Volume.Merged(right.Volume),
		Left:   left,
		Right:  right,
		Index:  -1,
	}
}

// Root returns the root node, nil for an empty tree.
func (t *BVT) Root() *Node {
	return t.root
}

// Len returns the number of leaves in the tree.
func (t *BVT) Len() int {
	return len(t.leaves)
}

// Depth returns the number of nodes on the longest root to leaf path. An empty tree has depth 0.
func (t *BVT) Depth() int {
	return depth(t.root)
}

func depth(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

// BoundingVolumeOf returns the volume the leaf with the given index was built with.
func (t *BVT) BoundingVolumeOf(index int) (spatialmath.AABB, bool) {
	pos, ok := t.byPosition[index]
	if !ok {
		return spatialmath.AABB{}, false
	}
	return t.leaves[pos].Volume, true
}

// Walk calls fn on every node in pre-order with its depth, the root being at depth 0.
func (t *BVT) Walk(fn func(n *Node, depth int)) {
	walk(t.root, 0, fn)
}

func walk(n *Node, d int, fn func(n *Node, depth int)) {
	if n == nil {
		return
	}
	fn(n, d)
	walk(n.Left, d+1, fn)
	walk(n.Right, d+1, fn)
}
