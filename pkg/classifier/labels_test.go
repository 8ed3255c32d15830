package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLabelSet(t *testing.T) {
	ls, err := NewLabelSet(DefaultLabels)
	require.NoError(t, err)
	assert.Equal(t, 8, ls.Len())
	assert.Equal(t, DefaultLabels, ls.Labels())

	i, ok := ls.Index("Sci/Tech")
	assert.True(t, ok)
	assert.Equal(t, 4, i)
	assert.False(t, ls.Contains("Software and Developement"))

	_, err = NewLabelSet(nil)
	assert.Error(t, err)
	_, err = NewLabelSet([]string{"A", "A"})
	assert.ErrorContains(t, err, "duplicate")
	_, err = NewLabelSet([]string{"A", " "})
	assert.ErrorContains(t, err, "blank")
}

func TestLabelSet_LabelsIsACopy(t *testing.T) {
	ls := MustLabelSet([]string{"A", "B"})
	got := ls.Labels()
	got[0] = "Z"
	assert.Equal(t, []string{"A", "B"}, ls.Labels())
}

func TestLabelSet_SameLabels(t *testing.T) {
	ls := MustLabelSet([]string{"A", "B", "C"})
	assert.True(t, ls.SameLabels([]string{"C", "A", "B"}))
	assert.False(t, ls.SameLabels([]string{"A", "B"}))
	assert.False(t, ls.SameLabels([]string{"A", "B", "B"}))
	assert.False(t, ls.SameLabels([]string{"A", "B", "D"}))
}

func TestArgMax_TieGoesToFirstLabel(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{0.1, 0.45, 0.45}))
	assert.Equal(t, 0, ArgMax([]float64{0.25, 0.25, 0.25, 0.25}))
	assert.Equal(t, 1, ArgMax([]float64{math.NaN(), 0.2, 0.1}))

	ls := MustLabelSet([]string{"A", "B", "C"})
	res := ls.Result([]float64{0.2, 0.4, 0.4})
	assert.Equal(t, "B", res.Label)
	assert.Equal(t, map[string]float64{"A": 0.2, "B": 0.4, "C": 0.4}, res.Scores)
}

func TestSoftmax(t *testing.T) {
	p := Softmax([]float64{1000, 1000, 999})
	var sum float64
	for _, x := range p {
		assert.False(t, math.IsNaN(x))
		sum += x
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, p[0], p[1], 1e-12)
	assert.Greater(t, p[0], p[2])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0.25, 0, 0.75}, Normalize([]float64{1, -4, 3}))
	assert.Equal(t, []float64{0.5, 0.5}, Normalize([]float64{0, 0}))
	assert.Equal(t, []float64{0, 1}, Normalize([]float64{math.Inf(1), 2}))
}
