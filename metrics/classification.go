package metrics

import (
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（予測ラベルが正解ラベルと一致した割合）を計算する
func Accuracy(yTrue, yPred []string) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewModelError("Accuracy", "empty labels", errors.ErrEmptyData)
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Labels は出現順にユニークなラベルを返す
func Labels(ys ...[]string) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, y := range ys {
		for _, l := range y {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	return labels
}

// ConfusionMatrix は混同行列を計算する
// 行が正解ラベル、列が予測ラベルで、順序は labels に従う。
// labels が nil の場合は Labels(yTrue, yPred) を使う。
// labels に含まれないラベルを持つサンプルは集計から除外される。
func ConfusionMatrix(yTrue, yPred []string, labels []string) (*mat.Dense, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, errors.NewModelError("ConfusionMatrix", "empty labels", errors.ErrEmptyData)
	}
	if len(yPred) != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, len(yPred), 0)
	}
	if labels == nil {
		labels = Labels(yTrue, yPred)
	}
	if len(labels) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "labels must not be empty")
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := range yTrue {
		r, okT := index[yTrue[i]]
		c, okP := index[yPred[i]]
		if !okT || !okP {
			continue
		}
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, nil
}
