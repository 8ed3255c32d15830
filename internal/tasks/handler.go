package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/metrics"
	"newsclassifier/internal/models"
	"newsclassifier/internal/validator"
	"newsclassifier/pkg/classifier"
)

// ClassifyHandler processes article:classify tasks.
type ClassifyHandler struct {
	classifier classifier.Classifier
	metrics    *metrics.Metrics
}

func NewClassifyHandler(c classifier.Classifier, m *metrics.Metrics) *ClassifyHandler {
	return &ClassifyHandler{classifier: c, metrics: m}
}

// ProcessTask implements asynq.Handler. Payloads that can never succeed
// return asynq.SkipRetry.
func (h *ClassifyHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var raw struct {
		RequestID string         `json:"request_id"`
		Article   map[string]any `json:"article"`
	}
	if err := json.Unmarshal(t.Payload(), &raw); err != nil {
		return fmt.Errorf("failed to unmarshal classify payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := log.WithFields(log.Fields{"task_type": t.Type(), "request_id": raw.RequestID})

	if raw.Article == nil {
		raw.Article = map[string]any{}
	}
	article, err := validator.ValidateFields(raw.Article)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) && h.metrics != nil {
			h.metrics.ValidationFailures.Inc()
		}
		logger.WithError(err).Warn("Rejecting invalid article")
		return fmt.Errorf("invalid article: %w: %w", err, asynq.SkipRetry)
	}

	start := time.Now()
	result, err := h.classifier.Classify(ctx, article)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordClassifierError("task")
		}
		logger.WithError(err).Error("Failed to classify article")
		return fmt.Errorf("classify article: %w", err)
	}
	if h.metrics != nil {
		h.metrics.RecordPrediction(result.Label, time.Since(start).Seconds())
	}

	logger.WithFields(log.Fields{
		"title": article.Title,
		"label": result.Label,
		"score": result.Scores[result.Label],
	}).Info("Classified article")
	return nil
}
