package replay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"newsclassifier/internal/models"
	"newsclassifier/internal/tasks"
	"newsclassifier/internal/validator"
)

// OutcomeEnqueued and OutcomeRejected are the outcomes of queue delivery.
const (
	OutcomeEnqueued = "enqueued"
	OutcomeRejected = "rejected"
)

// Sender delivers one record and reports an outcome, such as an HTTP status.
type Sender interface {
	Send(ctx context.Context, body []byte) (string, error)
}

// HTTPSender POSTs records to <target>/predict, exactly once each.
type HTTPSender struct {
	client *resty.Client
}

func NewHTTPSender(target string, timeout time.Duration) *HTTPSender {
	client := resty.New().
		SetBaseURL(target).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &HTTPSender{client: client}
}

// Send returns the response status code. Responses are not inspected.
func (s *HTTPSender) Send(ctx context.Context, body []byte) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/predict")
	if err != nil {
		return "", fmt.Errorf("POST /predict: %w", err)
	}
	return strconv.Itoa(resp.StatusCode()), nil
}

// QueueSender enqueues records as article:classify tasks. Records that would
// fail validation are rejected locally instead of being enqueued.
type QueueSender struct {
	jobs tasks.JobClient
}

func NewQueueSender(jobs tasks.JobClient) *QueueSender {
	return &QueueSender{jobs: jobs}
}

func (s *QueueSender) Send(ctx context.Context, body []byte) (string, error) {
	article, err := validator.DecodeArticle(body)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			return OutcomeRejected, nil
		}
		return "", err
	}
	if _, err := s.jobs.EnqueueClassify(ctx, "", article); err != nil {
		return "", err
	}
	return OutcomeEnqueued, nil
}
