package tree

import (
	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// Classify walks the tree from root and returns the prediction of the node
// where the walk stops. Values equal to a threshold go left.
//
// A nil root yields ok == false and no error. A feature vector that is too
// short for a node on the path yields a DimensionError.
func Classify(root *Node, x []float64) (label string, ok bool, err error) {
	path, err := ClassifyPath(root, x)
	if err != nil || len(path) == 0 {
		return "", false, err
	}
	return path[len(path)-1].Prediction, true, nil
}

// ClassifyPath returns every node visited while classifying x, root first and
// the deciding leaf last. It returns nil for a nil root. The tree is only read.
func ClassifyPath(root *Node, x []float64) ([]*Node, error) {
	if root == nil {
		return nil, nil
	}

	var path []*Node
	node := root
	for {
		path = append(path, node)
		if !node.IsSplit() {
			return path, nil
		}
		if node.FeatureIndex < 0 || node.FeatureIndex >= len(x) {
			return nil, errors.NewDimensionError("Classify", node.FeatureIndex+1, len(x), 1)
		}
		if x[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
}
