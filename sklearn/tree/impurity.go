package tree

import (
	"math"
	"strings"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// Criterion selects the impurity measure used to score splits.
type Criterion string

const (
	// CriterionGini is 1 - Σ p_k². It is the default.
	CriterionGini Criterion = "gini"
	// CriterionEntropy is -Σ p_k log2 p_k.
	CriterionEntropy Criterion = "entropy"
)

// ParseCriterion maps a criterion name to a Criterion.
func ParseCriterion(name string) (Criterion, error) {
	switch Criterion(strings.ToLower(strings.TrimSpace(name))) {
	case CriterionGini, "":
		return CriterionGini, nil
	case CriterionEntropy:
		return CriterionEntropy, nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownCriterion, "%q", name)
	}
}

// Impurity evaluates the criterion over samples. Unknown criteria fall back to Gini.
func (c Criterion) Impurity(samples []*Sample) float64 {
	if c == CriterionEntropy {
		return Entropy(samples)
	}
	return Gini(samples)
}

// LabelCount is the number of samples carrying Label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ClassCounts tallies labels in the order they are first encountered.
func ClassCounts(samples []*Sample) []LabelCount {
	var counts []LabelCount
	index := make(map[string]int)
	for _, s := range samples {
		i, ok := index[s.Label]
		if !ok {
			i = len(counts)
			index[s.Label] = i
			counts = append(counts, LabelCount{Label: s.Label})
		}
		counts[i].Count++
	}
	return counts
}

// Gini returns the Gini impurity of samples, a value in [0, 1).
// An empty set is treated as pure and yields 0.
func Gini(samples []*Sample) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, lc := range ClassCounts(samples) {
		p := float64(lc.Count) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

// Entropy returns the Shannon entropy of the label distribution in bits.
// An empty set yields 0.
func Entropy(samples []*Sample) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	h := 0.0
	for _, lc := range ClassCounts(samples) {
		p := float64(lc.Count) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// MajorityLabel returns the most frequent label. On a tie the label seen first
// in samples wins. Empty input returns errors.ErrEmptyData.
func MajorityLabel(samples []*Sample) (string, error) {
	if len(samples) == 0 {
		return "", errors.WithStack(errors.ErrEmptyData)
	}
	return majority(samples), nil
}

func majority(samples []*Sample) string {
	counts := ClassCounts(samples)
	if len(counts) == 0 {
		return ""
	}
	best := counts[0]
	for _, lc := range counts[1:] {
		if lc.Count > best.Count {
			best = lc
		}
	}
	return best.Label
}
