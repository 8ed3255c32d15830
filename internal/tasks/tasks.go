package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"newsclassifier/internal/models"
)

// Defines constants for task types used in Asynq.

const (
	// TypeClassifyArticle is the task type for classifying one article off the request path.
	TypeClassifyArticle = "article:classify"
)

// ClassifyPayload is the task body: the same four fields /predict accepts,
// plus the ID of the request that produced it when there was one.
type ClassifyPayload struct {
	RequestID string                `json:"request_id,omitempty"`
	Article   models.ArticleRequest `json:"article"`
}

// NewClassifyTask builds an article:classify task.
func NewClassifyTask(requestID string, article models.ArticleRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(ClassifyPayload{RequestID: requestID, Article: article})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify payload: %w", err)
	}
	return asynq.NewTask(TypeClassifyArticle, payload), nil
}
