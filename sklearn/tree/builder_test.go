package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
)

func twoClusters() []Sample {
	return []Sample{
		{Features: []float64{0}, Label: "A"},
		{Features: []float64{1}, Label: "A"},
		{Features: []float64{10}, Label: "B"},
		{Features: []float64{11}, Label: "B"},
	}
}

func grid() []Sample {
	var samples []Sample
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			label := "low"
			switch {
			case i >= 4 && j >= 3:
				label = "high"
			case i+j == 5:
				label = "mid"
			}
			samples = append(samples, Sample{Features: []float64{float64(i), float64(j) * 0.5}, Label: label})
		}
	}
	return samples
}

func eventStrings(events []Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.String()
	}
	return out
}

// captureWarnings routes errors.Warn into a slice for the duration of the test.
func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	t.Cleanup(func() {
		errors.SetWarningHandler(func(error) {})
	})
	return &warnings
}

func TestBuildTree_PerfectSeparation(t *testing.T) {
	root, events, err := BuildTree(twoClusters(), 3, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"split(1)", "leaf(2)", "leaf(3)", "done"}, eventStrings(events))

	require.True(t, root.IsSplit())
	assert.Equal(t, 1, root.ID)
	assert.Equal(t, 0, root.FeatureIndex)
	assert.Equal(t, 5.5, root.Threshold)
	assert.InDelta(t, 0.5, root.InfoGain, 1e-12)

	assert.True(t, root.Left.IsLeaf())
	assert.Equal(t, "A", root.Left.Prediction)
	assert.True(t, root.Right.IsLeaf())
	assert.Equal(t, "B", root.Right.Prediction)

	split := events[0]
	assert.Same(t, root, split.Node)
	assert.Same(t, root.Left, split.Left)
	assert.Same(t, root.Right, split.Right)
	require.NotNil(t, split.Split)
	assert.Equal(t, 5.5, split.Split.Threshold)

	done := events[len(events)-1]
	assert.Equal(t, EventDone, done.Type)
	assert.Same(t, root, done.Root)
}

func TestBuildTree_PureRoot(t *testing.T) {
	samples := []Sample{
		{Features: []float64{1}, Label: "A"},
		{Features: []float64{2}, Label: "A"},
		{Features: []float64{3}, Label: "A"},
	}
	warnings := captureWarnings(t)

	root, events, err := BuildTree(samples, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf(1)", "done"}, eventStrings(events))
	assert.True(t, root.IsLeaf())
	assert.Equal(t, "A", root.Prediction)
	assert.Empty(t, *warnings)
}

func TestBuildTree_ForcedRootLeaf(t *testing.T) {
	tests := []struct {
		name            string
		maxDepth        int
		minSamplesSplit int
	}{
		{"min_samples_split above dataset size", 5, 10},
		{"max_depth zero", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := captureWarnings(t)

			root, events, err := BuildTree(twoClusters(), tt.maxDepth, tt.minSamplesSplit)
			require.NoError(t, err)
			assert.Equal(t, []string{"leaf(1)", "done"}, eventStrings(events))
			assert.True(t, root.IsLeaf())
			assert.Equal(t, 0.5, root.Impurity)
			assert.Equal(t, "A", root.Prediction)

			require.Len(t, *warnings, 1)
			var degenerate *errors.DegenerateTreeWarning
			require.True(t, errors.As((*warnings)[0], &degenerate))
			assert.Equal(t, 4, degenerate.Samples)
		})
	}
}

func TestBuildTreeStepwise_Deterministic(t *testing.T) {
	first, firstEvents, err := BuildTree(grid(), 4, 2)
	require.NoError(t, err)
	second, secondEvents, err := BuildTree(grid(), 4, 2)
	require.NoError(t, err)

	assert.Equal(t, eventStrings(firstEvents), eventStrings(secondEvents))

	var a, b []*Node
	first.Walk(func(n *Node) bool { a = append(a, n); return true })
	second.Walk(func(n *Node) bool { b = append(b, n); return true })
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Kind, b[i].Kind)
		assert.Equal(t, a[i].FeatureIndex, b[i].FeatureIndex)
		assert.Equal(t, a[i].Threshold, b[i].Threshold)
		assert.Equal(t, a[i].Prediction, b[i].Prediction)
		assert.Equal(t, len(a[i].Samples), len(b[i].Samples))
	}
}

func TestBuildTreeStepwise_IDsStartAtOneForEachBuild(t *testing.T) {
	b1, err := BuildTreeStepwise(grid(), 3, 2)
	require.NoError(t, err)
	b1.Take(3)

	b2, err := BuildTreeStepwise(twoClusters(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, b2.Root().ID)

	events := b2.Drain()
	assert.Equal(t, []string{"split(1)", "leaf(2)", "leaf(3)", "done"}, eventStrings(events))
}

func TestBuilder_StateMachine(t *testing.T) {
	b, err := BuildTreeStepwise(twoClusters(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Pending())
	assert.False(t, b.Done())
	assert.Equal(t, KindPending, b.Root().Kind)

	ev, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, EventSplit, ev.Type)
	assert.Equal(t, 1, ev.Step)
	assert.Equal(t, 2, b.Pending())
	assert.Equal(t, KindPending, ev.Left.Kind)

	rest := b.Take(10)
	assert.Equal(t, []string{"leaf(2)", "leaf(3)", "done"}, eventStrings(rest))
	assert.True(t, b.Done())
	assert.Equal(t, 4, b.Steps())

	_, ok = b.Next()
	assert.False(t, ok)
	assert.Empty(t, b.Drain())
	assert.NoError(t, b.Root().Validate())
}

func TestBuilder_AbandonedEarly(t *testing.T) {
	b, err := BuildTreeStepwise(grid(), 4, 2)
	require.NoError(t, err)
	events := b.Take(2)
	require.Len(t, events, 2)
	assert.False(t, b.Done())

	// Undecided nodes remain in the partial tree
	assert.Error(t, b.Root().Validate())
}

func TestBuildTree_Invariants(t *testing.T) {
	for _, c := range []Criterion{CriterionGini, CriterionEntropy} {
		for _, maxDepth := range []int{0, 1, 2, 3, 10} {
			root, events, err := BuildTree(grid(), maxDepth, 2, WithCriterion(c))
			require.NoError(t, err)
			require.NoError(t, root.Validate())

			// Exactly one done event, last
			assert.Equal(t, EventDone, events[len(events)-1].Type)
			for _, ev := range events[:len(events)-1] {
				assert.NotEqual(t, EventDone, ev.Type)
			}

			// One decision event per node, in BFS id order
			assert.Equal(t, root.Count(), len(events)-1)
			for i, ev := range events[:len(events)-1] {
				assert.Equal(t, i+1, ev.Node.ID)
				assert.Equal(t, i+1, ev.Step)
			}

			root.Walk(func(n *Node) bool {
				assert.LessOrEqual(t, n.Depth, maxDepth)
				if !n.IsSplit() {
					assert.Nil(t, n.Left)
					assert.Nil(t, n.Right)
					return true
				}
				assert.Greater(t, n.InfoGain, 0.0)
				assert.Equal(t, n.Depth+1, n.Left.Depth)
				assert.Equal(t, n.Depth+1, n.Right.Depth)

				weighted := (float64(len(n.Left.Samples))*n.Left.Impurity +
					float64(len(n.Right.Samples))*n.Right.Impurity) / float64(len(n.Samples))
				assert.LessOrEqual(t, weighted, n.Impurity+1e-12)

				for _, s := range n.Left.Samples {
					assert.LessOrEqual(t, s.Features[n.FeatureIndex], n.Threshold)
				}
				for _, s := range n.Right.Samples {
					assert.Greater(t, s.Features[n.FeatureIndex], n.Threshold)
				}
				return true
			})
		}
	}
}

func TestBuildTree_LeavesCoverEverySample(t *testing.T) {
	samples := grid()
	root, _, err := BuildTree(samples, 10, 2)
	require.NoError(t, err)

	seen := make(map[*Sample]int)
	for _, leaf := range root.Leaves() {
		for _, s := range leaf.Samples {
			seen[s]++
		}
	}
	require.Len(t, seen, len(samples))
	for i := range samples {
		assert.Equal(t, 1, seen[&samples[i]])
	}

	// Each training sample is routed to the leaf that holds it
	for _, leaf := range root.Leaves() {
		for _, s := range leaf.Samples {
			path, err := ClassifyPath(root, s.Features)
			require.NoError(t, err)
			assert.Same(t, leaf, path[len(path)-1])
		}
	}
}

func TestBuildTreeStepwise_InvalidInput(t *testing.T) {
	t.Run("negative max depth", func(t *testing.T) {
		_, err := BuildTreeStepwise(twoClusters(), -1, 2)
		var validationErr *errors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "max_depth", validationErr.ParamName)
	})
	t.Run("zero min samples split", func(t *testing.T) {
		_, err := BuildTreeStepwise(twoClusters(), 3, 0)
		var validationErr *errors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "min_samples_split", validationErr.ParamName)
	})
	t.Run("empty dataset", func(t *testing.T) {
		_, err := BuildTreeStepwise(nil, 3, 2)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})
	t.Run("ragged features", func(t *testing.T) {
		samples := []Sample{
			{Features: []float64{0, 1}, Label: "A"},
			{Features: []float64{1}, Label: "B"},
		}
		_, err := BuildTreeStepwise(samples, 3, 2)
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 2, dimErr.Expected)
		assert.Equal(t, 1, dimErr.Got)
	})
	t.Run("non-finite feature", func(t *testing.T) {
		samples := []Sample{
			{Features: []float64{0}, Label: "A"},
			{Features: []float64{math.Inf(1)}, Label: "B"},
		}
		_, err := BuildTreeStepwise(samples, 3, 2)
		var numErr *errors.NumericalInstabilityError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, 1, numErr.Index)
	})
	t.Run("unknown criterion", func(t *testing.T) {
		_, err := BuildTreeStepwise(twoClusters(), 3, 2, WithCriterion("variance"))
		var validationErr *errors.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestBuildTreeStepwise_LogsEvents(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	_, _, err := BuildTree(twoClusters(), 3, 2, WithLogger(logger))
	require.NoError(t, err)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	// build started, one record per event
	require.Len(t, entries, 5)
	assert.Equal(t, "build started", entries[0]["message"])
	assert.Equal(t, "split", entries[1][log.EventKey])
	assert.Equal(t, 5.5, entries[1][log.ThresholdKey])
	assert.Equal(t, "done", entries[4][log.EventKey])
	assert.True(t, logger.ContainsField(log.ComponentKey, "builder"))
}
