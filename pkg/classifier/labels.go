package classifier

import (
	"fmt"
	"math"
	"strings"

	"newsclassifier/internal/models"
)

// DefaultLabels is the built-in label order, see models.DefaultLabels.
var DefaultLabels = models.DefaultLabels

// LabelSet is an immutable, ordered set of category labels.
type LabelSet struct {
	labels []string
	index  map[string]int
}

func NewLabelSet(labels []string) (LabelSet, error) {
	if len(labels) == 0 {
		return LabelSet{}, fmt.Errorf("label set must not be empty")
	}
	ls := LabelSet{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return LabelSet{}, fmt.Errorf("label set contains a blank label")
		}
		if _, dup := ls.index[l]; dup {
			return LabelSet{}, fmt.Errorf("label set contains duplicate label %q", l)
		}
		ls.index[l] = len(ls.labels)
		ls.labels = append(ls.labels, l)
	}
	return ls, nil
}

// MustLabelSet is NewLabelSet for static label lists.
func MustLabelSet(labels []string) LabelSet {
	ls, err := NewLabelSet(labels)
	if err != nil {
		panic(err)
	}
	return ls
}

// Labels returns a copy of the labels in enumeration order.
func (s LabelSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s LabelSet) Len() int { return len(s.labels) }

// Index returns the position of label in the enumeration.
func (s LabelSet) Index(label string) (int, bool) {
	i, ok := s.index[label]
	return i, ok
}

func (s LabelSet) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

// SameLabels reports whether labels holds exactly the members of s, in any order.
func (s LabelSet) SameLabels(labels []string) bool {
	if len(labels) != len(s.labels) {
		return false
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if !s.Contains(l) || seen[l] {
			return false
		}
		seen[l] = true
	}
	return true
}

// Result packages scores aligned with the enumeration order. The label is the
// first label holding the maximum score.
func (s LabelSet) Result(scores []float64) models.ClassificationResult {
	m := make(map[string]float64, len(s.labels))
	for i, l := range s.labels {
		m[l] = scores[i]
	}
	return models.ClassificationResult{
		Scores: m,
		Label:  s.labels[ArgMax(scores)],
	}
}

// ArgMax returns the index of the first maximum. NaN never wins.
func ArgMax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] || (math.IsNaN(xs[best]) && !math.IsNaN(xs[i])) {
			best = i
		}
	}
	return best
}

// Softmax converts logits into probabilities.
func Softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	top := logits[ArgMax(logits)]
	var sum float64
	for i, x := range logits {
		out[i] = math.Exp(x - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Normalize clamps negative and non-finite scores to zero and rescales the
// rest to sum to one. All-zero input becomes uniform.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	var sum float64
	for i, x := range scores {
		if x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x) {
			out[i] = x
			sum += x
		}
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
