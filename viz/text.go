package viz

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// FormatNumber は値を小数点以下3桁までに丸め、末尾のゼロを省いて表示する
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func featureLabel(i int, names []string) string {
	if i >= 0 && i < len(names) && names[i] != "" {
		return names[i]
	}
	return "x[" + strconv.Itoa(i) + "]"
}

func splitLabel(feature int, threshold float64, names []string) string {
	return featureLabel(feature, names) + " <= " + FormatNumber(threshold)
}

// WriteTree は木をインデント付きテキストで書き出す
// 未確定のノードは pending と表示される
func WriteTree(w io.Writer, root *tree.Node, featureNames ...string) error {
	if root == nil {
		_, err := io.WriteString(w, "(empty tree)\n")
		return errors.WithStack(err)
	}
	var sb strings.Builder
	writeNode(&sb, root, "", "", featureNames)
	_, err := io.WriteString(w, sb.String())
	return errors.WithStack(err)
}

func writeNode(sb *strings.Builder, n *tree.Node, indent, branch string, names []string) {
	stats := fmt.Sprintf("impurity=%s, samples=%d", FormatNumber(n.Impurity), len(n.Samples))

	sb.WriteString(indent)
	sb.WriteString(branch)
	switch {
	case n.IsSplit():
		fmt.Fprintf(sb, "[%d] %s (%s, gain=%s)\n", n.ID, splitLabel(n.FeatureIndex, n.Threshold, names), stats, FormatNumber(n.InfoGain))
		child := indent + strings.Repeat(" ", len(branch))
		writeNode(sb, n.Left, child, "yes: ", names)
		writeNode(sb, n.Right, child, "no:  ", names)
	case n.IsLeaf():
		fmt.Fprintf(sb, "[%d] leaf %s (%s)\n", n.ID, n.Prediction, stats)
	default:
		fmt.Fprintf(sb, "[%d] pending (%s)\n", n.ID, stats)
	}
}
