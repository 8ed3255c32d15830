// Package classifier maps news articles to a probability distribution over a
// fixed label set.
package classifier

import (
	"context"

	"newsclassifier/internal/models"
)

// Classifier classifies one article. Implementations must return scores for
// every label of their LabelSet and a label equal to the arg-max score.
type Classifier interface {
	Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error)

func (f Func) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	return f(ctx, article)
}
