// Package dataset loads, generates and converts labeled samples for tree
// construction.
//
// The wire format shared by every reader and writer is a list of
// {"features": [...], "label": "..."} records.
package dataset

import (
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// Dataset is a list of samples together with the names of their feature
// columns. FeatureNames may be empty when the source carries no header.
type Dataset struct {
	FeatureNames []string      `json:"feature_names,omitempty"`
	Samples      []tree.Sample `json:"samples"`
}

// FeatureName returns the name of column i, or "x[i]" when unnamed.
func (d *Dataset) FeatureName(i int) string {
	if i >= 0 && i < len(d.FeatureNames) && d.FeatureNames[i] != "" {
		return d.FeatureNames[i]
	}
	return "x[" + strconv.Itoa(i) + "]"
}

// NumFeatures returns the feature dimension of the first sample.
func (d *Dataset) NumFeatures() int {
	if len(d.Samples) == 0 {
		return len(d.FeatureNames)
	}
	return len(d.Samples[0].Features)
}

// Fruit は決定木の可視化デモで使う固定データセット（幅・高さ → 果物）
func Fruit() *Dataset {
	rows := []struct {
		width, height float64
		label         string
	}{
		{7.1, 7.3, "apple"},
		{7.9, 7.5, "apple"},
		{7.4, 7.0, "apple"},
		{8.2, 7.3, "apple"},
		{7.6, 6.9, "apple"},
		{7.8, 8.0, "apple"},
		{7.0, 4.5, "mandarin"},
		{6.8, 4.3, "mandarin"},
		{6.5, 4.1, "mandarin"},
		{7.2, 4.7, "mandarin"},
		{6.2, 4.0, "mandarin"},
		{5.9, 4.6, "mandarin"},
		{4.0, 9.0, "lemon"},
		{4.5, 8.5, "lemon"},
		{3.9, 8.7, "lemon"},
		{4.2, 9.5, "lemon"},
		{5.1, 9.1, "lemon"},
		{4.8, 8.8, "lemon"},
	}

	d := &Dataset{FeatureNames: []string{"width", "height"}}
	for _, r := range rows {
		d.Samples = append(d.Samples, tree.Sample{
			Features: []float64{r.width, r.height},
			Label:    r.label,
		})
	}
	return d
}

// Blobs は各中心の周りに等方ガウス分布でサンプルを生成する
// ラベルは中心のインデックス（"0", "1", ...）。同じ seed からは常に同じデータが得られる
func Blobs(centers [][]float64, nPerClass int, sigma float64, seed uint64) (*Dataset, error) {
	if len(centers) == 0 {
		return nil, errors.NewValidationError("centers", "must not be empty", len(centers))
	}
	if nPerClass < 1 {
		return nil, errors.NewValidationError("n_per_class", "must be >= 1", nPerClass)
	}
	if !(sigma > 0) {
		return nil, errors.NewValidationError("sigma", "must be > 0", sigma)
	}
	nFeatures := len(centers[0])
	if nFeatures == 0 {
		return nil, errors.NewValidationError("centers", "must have at least one feature", nFeatures)
	}

	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}

	d := &Dataset{Samples: make([]tree.Sample, 0, len(centers)*nPerClass)}
	for c, center := range centers {
		if len(center) != nFeatures {
			return nil, errors.NewDimensionError("Blobs", nFeatures, len(center), 1)
		}
		label := strconv.Itoa(c)
		for i := 0; i < nPerClass; i++ {
			features := make([]float64, nFeatures)
			for j, mu := range center {
				features[j] = mu + noise.Rand()
			}
			d.Samples = append(d.Samples, tree.Sample{Features: features, Label: label})
		}
	}
	return d, nil
}

// ToMatrix は特徴量を (サンプル数 × 特徴量数) の行列に変換し、ラベルを並べて返す
func ToMatrix(samples []tree.Sample) (*mat.Dense, []string, error) {
	if len(samples) == 0 {
		return nil, nil, errors.NewModelError("ToMatrix", "empty dataset", errors.ErrEmptyData)
	}
	nFeatures := len(samples[0].Features)
	if nFeatures == 0 {
		return nil, nil, errors.NewValueError("ToMatrix", "samples have no features")
	}

	X := mat.NewDense(len(samples), nFeatures, nil)
	labels := make([]string, len(samples))
	for i, s := range samples {
		if len(s.Features) != nFeatures {
			return nil, nil, errors.NewDimensionError("ToMatrix", nFeatures, len(s.Features), 1)
		}
		X.SetRow(i, s.Features)
		labels[i] = s.Label
	}
	return X, labels, nil
}
