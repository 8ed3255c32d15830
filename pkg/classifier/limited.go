package classifier

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"newsclassifier/internal/models"
)

// Limited bounds the number of concurrent calls into the wrapped classifier.
// Callers wait for a slot until their context is done.
type Limited struct {
	inner Classifier
	sem   *semaphore.Weighted
}

func NewLimited(inner Classifier, maxConcurrent int64) *Limited {
	return &Limited{inner: inner, sem: semaphore.NewWeighted(maxConcurrent)}
}

func (l *Limited) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %w", models.ErrBusy, err)
	}
	defer l.sem.Release(1)
	return l.inner.Classify(ctx, article)
}
