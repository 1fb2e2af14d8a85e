package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(rows ...Sample) []*Sample {
	refs := make([]*Sample, len(rows))
	for i := range rows {
		refs[i] = &rows[i]
	}
	return refs
}

func TestFindBestSplit_PerfectSeparation(t *testing.T) {
	samples := points(
		Sample{[]float64{0}, "A"},
		Sample{[]float64{1}, "A"},
		Sample{[]float64{10}, "B"},
		Sample{[]float64{11}, "B"},
	)

	split, ok := FindBestSplit(samples)
	require.True(t, ok)
	assert.Equal(t, 0, split.FeatureIndex)
	assert.Equal(t, 5.5, split.Threshold)
	// Gini of a balanced binary set is 0.5 and both children are pure
	assert.InDelta(t, 0.5, split.Gain, 1e-12)
	assert.Zero(t, split.LeftImpurity)
	assert.Zero(t, split.RightImpurity)
}

func TestFindBestSplit_NoCandidate(t *testing.T) {
	t.Run("pure", func(t *testing.T) {
		_, ok := FindBestSplit(labeled("A", "A", "A"))
		assert.False(t, ok)
	})
	t.Run("single sample", func(t *testing.T) {
		_, ok := FindBestSplit(labeled("A"))
		assert.False(t, ok)
	})
	t.Run("identical features", func(t *testing.T) {
		samples := points(
			Sample{[]float64{2, 2}, "A"},
			Sample{[]float64{2, 2}, "B"},
		)
		_, ok := FindBestSplit(samples)
		assert.False(t, ok)
	})
}

func TestFindBestSplit_PicksInformativeFeature(t *testing.T) {
	samples := points(
		Sample{[]float64{5, 0}, "A"},
		Sample{[]float64{1, 1}, "A"},
		Sample{[]float64{4, 8}, "B"},
		Sample{[]float64{2, 9}, "B"},
	)
	split, ok := FindBestSplit(samples)
	require.True(t, ok)
	assert.Equal(t, 1, split.FeatureIndex)
	assert.Equal(t, 4.5, split.Threshold)
}

func TestFindBestSplit_TieKeepsEarliest(t *testing.T) {
	// Both features separate the classes perfectly; feature 0 is visited first
	samples := points(
		Sample{[]float64{0, 0}, "A"},
		Sample{[]float64{1, 1}, "B"},
	)
	split, ok := FindBestSplit(samples)
	require.True(t, ok)
	assert.Equal(t, 0, split.FeatureIndex)
	assert.Equal(t, 0.5, split.Threshold)
}

func TestFindBestSplit_GainNeverNegative(t *testing.T) {
	samples := points(
		Sample{[]float64{1, 3}, "A"},
		Sample{[]float64{2, 1}, "B"},
		Sample{[]float64{3, 2}, "A"},
		Sample{[]float64{4, 5}, "C"},
		Sample{[]float64{5, 4}, "B"},
	)
	for _, c := range []Criterion{CriterionGini, CriterionEntropy} {
		split, ok := FindBestSplitWith(samples, c)
		require.True(t, ok, c)
		assert.GreaterOrEqual(t, split.Gain, 0.0, c)

		left, right := Partition(samples, split.FeatureIndex, split.Threshold)
		assert.NotEmpty(t, left)
		assert.NotEmpty(t, right)
		assert.InDelta(t, split.LeftImpurity, c.Impurity(left), 1e-12)
		assert.InDelta(t, split.RightImpurity, c.Impurity(right), 1e-12)
	}
}

func TestFindBestSplit_DoesNotReorderInput(t *testing.T) {
	samples := points(
		Sample{[]float64{3}, "B"},
		Sample{[]float64{1}, "A"},
		Sample{[]float64{2}, "A"},
	)
	before := append([]*Sample(nil), samples...)
	_, ok := FindBestSplit(samples)
	require.True(t, ok)
	assert.Equal(t, before, samples)
}

func TestPartition(t *testing.T) {
	samples := points(
		Sample{[]float64{3}, "x"},
		Sample{[]float64{1}, "y"},
		Sample{[]float64{2}, "z"},
	)
	left, right := Partition(samples, 0, 2)
	assert.Equal(t, []*Sample{samples[1], samples[2]}, left)
	assert.Equal(t, []*Sample{samples[0]}, right)
}
