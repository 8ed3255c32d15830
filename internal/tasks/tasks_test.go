package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsclassifier/internal/metrics"
	"newsclassifier/internal/models"
	"newsclassifier/pkg/classifier"
)

var testArticle = models.ArticleRequest{
	Source:      "BBC Technology",
	URL:         "http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm",
	Title:       "System gremlins resolved at HSBC",
	Description: "Computer glitches which led to chaos for HSBC customers on Monday are fixed, the High Street bank confirms.",
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func (m *mockEnqueuer) Close() error {
	return m.Called().Error(0)
}

func recordingClassifier(seen *[]models.ArticleRequest) classifier.Classifier {
	return classifier.Func(func(ctx context.Context, a models.ArticleRequest) (models.ClassificationResult, error) {
		*seen = append(*seen, a)
		return models.ClassificationResult{Label: "Business", Scores: map[string]float64{"Business": 1}}, nil
	})
}

func TestNewClassifyTask(t *testing.T) {
	task, err := NewClassifyTask("req-1", testArticle)
	require.NoError(t, err)
	assert.Equal(t, TypeClassifyArticle, task.Type())

	var payload ClassifyPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "req-1", payload.RequestID)
	assert.Equal(t, testArticle, payload.Article)
}

func TestClassifyHandler_ProcessTask(t *testing.T) {
	var seen []models.ArticleRequest
	m := metrics.New()
	h := NewClassifyHandler(recordingClassifier(&seen), m)

	task, err := NewClassifyTask("req-1", testArticle)
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, seen, 1)
	assert.Equal(t, testArticle, seen[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("Business")))
}

func TestClassifyHandler_InvalidPayloadsSkipRetry(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"article":`},
		{"missing article", `{"request_id":"x"}`},
		{"missing field", `{"article":{"source":"a","url":"b","title":"c"}}`},
		{"non-string field", `{"article":{"source":"a","url":"b","title":"c","description":5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []models.ArticleRequest
			h := NewClassifyHandler(recordingClassifier(&seen), metrics.New())

			err := h.ProcessTask(context.Background(), asynq.NewTask(TypeClassifyArticle, []byte(tt.payload)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, asynq.SkipRetry))
			assert.Empty(t, seen)
		})
	}
}

func TestClassifyHandler_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	h := NewClassifyHandler(classifier.Func(func(ctx context.Context, a models.ArticleRequest) (models.ClassificationResult, error) {
		return models.ClassificationResult{}, boom
	}), nil)

	task, err := NewClassifyTask("", testArticle)
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestAsynqJobClient_EnqueueClassify(t *testing.T) {
	enq := new(mockEnqueuer)
	enq.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == TypeClassifyArticle
	}), mock.MatchedBy(func(opts []asynq.Option) bool {
		return len(opts) == 2
	})).Return(&asynq.TaskInfo{ID: "task-1", Queue: "articles"}, nil).Once()
	enq.On("Close").Return(nil).Once()

	jc := NewJobClientWithEnqueuer(enq, "articles")
	info, err := jc.EnqueueClassify(context.Background(), "req-1", testArticle)
	require.NoError(t, err)
	assert.Equal(t, "task-1", info.ID)
	require.NoError(t, jc.Close())

	enq.AssertExpectations(t)
}

func TestAsynqJobClient_EnqueueError(t *testing.T) {
	enq := new(mockEnqueuer)
	enq.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()

	jc := NewJobClientWithEnqueuer(enq, "")
	_, err := jc.EnqueueClassify(context.Background(), "", testArticle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	enq.AssertExpectations(t)
}
