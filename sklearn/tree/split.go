package tree

import (
	"sort"
)

// SplitCandidate describes a binary partition of a sample set on
// Features[FeatureIndex] <= Threshold.
type SplitCandidate struct {
	FeatureIndex  int     `json:"feature_index"`
	Threshold     float64 `json:"threshold"`
	Gain          float64 `json:"gain"`
	LeftImpurity  float64 `json:"left_impurity"`
	RightImpurity float64 `json:"right_impurity"`
}

// FindBestSplit searches every feature and every midpoint threshold for the
// partition with the largest Gini gain. It reports false when samples are
// already pure or no threshold leaves both sides non-empty.
func FindBestSplit(samples []*Sample) (SplitCandidate, bool) {
	return FindBestSplitWith(samples, CriterionGini)
}

// FindBestSplitWith is FindBestSplit with an explicit impurity criterion.
//
// Candidates are visited feature by feature, and within a feature in sorted
// order of the midpoints between adjacent sorted values (duplicates included).
// The first valid candidate seeds the search and only a strictly larger gain
// replaces it, so ties resolve to the earliest candidate.
func FindBestSplitWith(samples []*Sample, criterion Criterion) (SplitCandidate, bool) {
	n := len(samples)
	if n < 2 {
		return SplitCandidate{}, false
	}
	parent := criterion.Impurity(samples)
	if parent == 0 {
		return SplitCandidate{}, false
	}

	var (
		best  SplitCandidate
		found bool
	)
	nFeatures := len(samples[0].Features)
	values := make([]float64, n)
	left := make([]*Sample, 0, n)
	right := make([]*Sample, 0, n)

	for f := 0; f < nFeatures; f++ {
		for i, s := range samples {
			values[i] = s.Features[f]
		}
		sort.Float64s(values)

		for i := 0; i+1 < n; i++ {
			threshold := (values[i] + values[i+1]) / 2
			left, right = partitionInto(samples, f, threshold, left[:0], right[:0])
			if len(left) == 0 || len(right) == 0 {
				continue
			}

			li := criterion.Impurity(left)
			ri := criterion.Impurity(right)
			weighted := float64(len(left))/float64(n)*li + float64(len(right))/float64(n)*ri
			gain := parent - weighted

			if !found || gain > best.Gain {
				best = SplitCandidate{
					FeatureIndex:  f,
					Threshold:     threshold,
					Gain:          gain,
					LeftImpurity:  li,
					RightImpurity: ri,
				}
				found = true
			}
		}
	}
	return best, found
}

// Partition splits samples into those with Features[feature] <= threshold and
// the rest, preserving input order on both sides.
func Partition(samples []*Sample, feature int, threshold float64) (left, right []*Sample) {
	return partitionInto(samples, feature, threshold, nil, nil)
}

func partitionInto(samples []*Sample, feature int, threshold float64, left, right []*Sample) ([]*Sample, []*Sample) {
	for _, s := range samples {
		if s.Features[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}
