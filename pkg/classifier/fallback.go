package classifier

import (
	"context"

	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/models"
)

// Fallback answers with secondary whenever primary fails, unless the caller
// has already given up.
type Fallback struct {
	primary   Classifier
	secondary Classifier
}

func NewFallback(primary, secondary Classifier) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	res, err := f.primary.Classify(ctx, article)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return models.ClassificationResult{}, err
	}
	log.WithError(err).Warn("Primary classifier failed, answering with fallback classifier")
	return f.secondary.Classify(ctx, article)
}
