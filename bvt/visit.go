package bvt

import (
	"container/heap"

	"go.viam.com/collide/spatialmath"
)

// Visitor drives a depth-first traversal.
type Visitor interface {
	// VisitVolume reports whether the subtree bounded by vol should be descended into.
	VisitVolume(vol spatialmath.AABB) bool
	// VisitLeaf is called on every reached leaf. Returning false stops the traversal.
	VisitLeaf(index int, vol spatialmath.AABB) bool
}

// VisitorFuncs adapts a pair of functions to the Visitor interface. A nil Volume descends everywhere.
type VisitorFuncs struct {
	Volume func(vol spatialmath.AABB) bool
	Leaf   func(index int, vol spatialmath.AABB) bool
}

// VisitVolume calls Volume.
func (f VisitorFuncs) VisitVolume(vol spatialmath.AABB) bool {
	if f.Volume == nil {
		return true
	}
	return f.Volume(vol)
}

// VisitLeaf calls Leaf.
func (f VisitorFuncs) VisitLeaf(index int, vol spatialmath.AABB) bool {
	return f.Leaf(index, vol)
}

// Visit traverses the tree depth-first, left child before right, skipping pruned subtrees.
// Leaf volumes are offered to VisitVolume too.
func (t *BVT) Visit(v Visitor) {
	visit(t.root, v)
}

func visit(n *Node, v Visitor) bool {
	if n == nil || !v.VisitVolume(n.Volume) {
		return true
	}
	if n.IsLeaf() {
		return v.VisitLeaf(n.Index, n.Volume)
	}
	return visit(n.Left, v) && visit(n.Right, v)
}

// BestFirstVisitor drives a best-first search for the leaf of lowest cost.
type BestFirstVisitor[R any] interface {
	// VisitVolume returns a lower bound on the cost of every leaf inside vol, or false to prune it.
	VisitVolume(vol spatialmath.AABB) (float64, bool)
	// VisitLeaf returns the exact cost of a leaf and the value to report for it, or false to reject it.
	VisitLeaf(index int, vol spatialmath.AABB) (R, float64, bool)
}

// BestFirstFuncs adapts a pair of functions to the BestFirstVisitor interface.
type BestFirstFuncs[R any] struct {
	Volume func(vol spatialmath.AABB) (float64, bool)
	Leaf   func(index int, vol spatialmath.AABB) (R, float64, bool)
}

// VisitVolume calls Volume.
func (f BestFirstFuncs[R]) VisitVolume(vol spatialmath.AABB) (float64, bool) {
	return f.Volume(vol)
}

// VisitLeaf calls Leaf.
func (f BestFirstFuncs[R]) VisitLeaf(index int, vol spatialmath.AABB) (R, float64, bool) {
	return f.Leaf(index, vol)
}

// Result is the outcome of a best-first search.
type Result[R any] struct {
	Index int
	Cost  float64
	Value R
}

// BestFirstSearch returns the accepted leaf of lowest cost. Nodes are expanded in order of their
// lower bound and the search stops as soon as no pending bound is strictly better than the best
// exact cost found. Of several leaves with equal cost the first one found is kept.
func BestFirstSearch[R any](t *BVT, v BestFirstVisitor[R]) (Result[R], bool) {
	var best Result[R]
	found := false
	if t == nil || t.root == nil {
		return best, false
	}

	rootCost, ok := v.VisitVolume(t.root.Volume)
	if !ok {
		return best, false
	}
	queue := &nodeQueue{}
	heap.Push(queue, queueItem{node: t.root, cost: rootCost})

	for queue.Len() > 0 {
		item := heap.Pop(queue).(queueItem)
		if found && item.cost >= best.Cost {
			break
		}
		n := item.node
		if n.IsLeaf() {
			value, cost, ok := v.VisitLeaf(n.Index, n.Volume)
			if ok && (!found || cost < best.Cost) {
				best = Result[R]{Index: n.Index, Cost: cost, Value: value}
				found = true
			}
			continue
		}
		for _, child := range [2]*Node{n.Left, n.Right} {
			cost, ok := v.VisitVolume(child.Volume)
			if !ok || (found && cost >= best.Cost) {
				continue
			}
			queue.seq++
			heap.Push(queue, queueItem{node: child, cost: cost, seq: queue.seq})
		}
	}
	return best, found
}

type queueItem struct {
	node *Node
	cost float64
	seq  int
}

// nodeQueue is a min-heap on cost. Equal costs pop in insertion order.
type nodeQueue struct {
	items []queueItem
	seq   int
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.items[i].cost == q.items[j].cost {
		return q.items[i].seq < q.items[j].seq
	}
	return q.items[i].cost < q.items[j].cost
}

func (q *nodeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *nodeQueue) Push(x any) { q.items = append(q.items, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}
