package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsclassifier/internal/models"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestGeminiClassifier_Classify(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return assert.Contains(t, p, "Title: System gremlins resolved at HSBC")
	})).Return(`{"scores": {"Business": 3, "Sci/Tech": 1}}`, nil).Once()

	c := NewGeminiClassifier(gen, MustLabelSet(DefaultLabels), nil, nil, GeminiOptions{})
	res, err := c.Classify(context.Background(), enArticle)
	require.NoError(t, err)

	assert.Equal(t, "Business", res.Label)
	assert.InDelta(t, 0.75, res.Scores["Business"], 1e-9)
	assert.InDelta(t, 0.25, res.Scores["Sci/Tech"], 1e-9)
	gen.AssertExpectations(t)
}

func TestGeminiClassifier_GeneratorError(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

	c := NewGeminiClassifier(gen, MustLabelSet(DefaultLabels), nil, nil, GeminiOptions{})
	_, err := c.Classify(context.Background(), enArticle)
	assert.ErrorIs(t, err, models.ErrClassification)
	assert.ErrorContains(t, err, "quota exceeded")
	gen.AssertExpectations(t)
}
