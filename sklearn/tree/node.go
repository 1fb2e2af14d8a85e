package tree

import (
	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// Sample is one labeled point. Samples are owned by the caller; tree nodes
// reference them and never modify them.
type Sample struct {
	Features []float64 `json:"features"`
	Label    string    `json:"label"`
}

// NodeKind records the build decision taken for a node.
type NodeKind string

const (
	// KindPending marks a node that is queued but not yet decided.
	KindPending NodeKind = "pending"
	// KindLeaf marks a terminal node. A leaf never has children.
	KindLeaf NodeKind = "leaf"
	// KindSplit marks an internal node. A split always has both children.
	KindSplit NodeKind = "split"
)

// Node is one node of the partition tree.
//
// Prediction and Impurity are computed when the node is created, so internal
// nodes also carry the majority label of their samples. FeatureIndex,
// Threshold and InfoGain are meaningful only when Kind is KindSplit.
type Node struct {
	ID         int       `json:"id"`
	Samples    []*Sample `json:"samples"`
	Depth      int       `json:"depth"`
	Prediction string    `json:"prediction"`
	Impurity   float64   `json:"impurity"`
	Kind       NodeKind  `json:"kind"`

	FeatureIndex int     `json:"feature_index"`
	Threshold    float64 `json:"threshold"`
	InfoGain     float64 `json:"info_gain"`

	Left  *Node `json:"left,omitempty"`
	Right *Node `json:"right,omitempty"`
}

// IsLeaf reports whether the node was finalized as a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// IsSplit reports whether the node routes samples to two children.
func (n *Node) IsSplit() bool {
	return n.Kind == KindSplit && n.Left != nil && n.Right != nil
}

func (n *Node) makeLeaf() {
	n.Kind = KindLeaf
	n.Left, n.Right = nil, nil
}

// makeSplit attaches both children at once so that a node can never hold a
// single child.
func (n *Node) makeSplit(c SplitCandidate, left, right *Node) {
	n.Kind = KindSplit
	n.FeatureIndex = c.FeatureIndex
	n.Threshold = c.Threshold
	n.InfoGain = c.Gain
	n.Left, n.Right = left, right
}

// Walk visits the subtree rooted at n in breadth-first order, which matches
// node id order for a freshly built tree. It stops early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !fn(cur) {
			return
		}
		if cur.Left != nil {
			queue = append(queue, cur.Left)
		}
		if cur.Right != nil {
			queue = append(queue, cur.Right)
		}
	}
}

// Leaves returns the leaves of the subtree in breadth-first order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(cur *Node) bool {
		if !cur.IsSplit() {
			leaves = append(leaves, cur)
		}
		return true
	})
	return leaves
}

// MaxDepth returns the depth of the deepest node in the subtree.
func (n *Node) MaxDepth() int {
	depth := 0
	n.Walk(func(cur *Node) bool {
		if cur.Depth > depth {
			depth = cur.Depth
		}
		return true
	})
	return depth
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Validate checks the structural invariants of a finished tree: every node is
// decided, splits have two children whose samples partition the parent's on
// the recorded threshold, leaves have none, and ids are unique. It is meant for
// trees loaded from disk.
func (n *Node) Validate() error {
	const op = "Node.Validate"
	if n == nil {
		return errors.NewModelError(op, "nil tree", nil)
	}
	seen := make(map[int]bool)
	var err error
	n.Walk(func(cur *Node) bool {
		if seen[cur.ID] {
			err = errors.NewModelError(op, "duplicate node id", errors.Newf("id %d", cur.ID))
			return false
		}
		seen[cur.ID] = true

		switch cur.Kind {
		case KindLeaf:
			if cur.Left != nil || cur.Right != nil {
				err = errors.NewModelError(op, "leaf with children", errors.Newf("id %d", cur.ID))
			}
		case KindSplit:
			if cur.Left == nil || cur.Right == nil {
				err = errors.NewModelError(op, "split without both children", errors.Newf("id %d", cur.ID))
			} else if cur.FeatureIndex < 0 {
				err = errors.NewModelError(op, "negative feature index", errors.Newf("id %d", cur.ID))
			} else if len(cur.Left.Samples)+len(cur.Right.Samples) != len(cur.Samples) {
				err = errors.NewModelError(op, "children do not partition samples", errors.Newf("id %d", cur.ID))
			}
		default:
			err = errors.NewModelError(op, "undecided node", errors.Newf("id %d kind %q", cur.ID, cur.Kind))
		}
		return err == nil
	})
	return err
}
