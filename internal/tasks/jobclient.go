package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/models"
)

// Enqueuer is the subset of *asynq.Client the job client needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// JobClient enqueues classification tasks.
type JobClient interface {
	EnqueueClassify(ctx context.Context, requestID string, article models.ArticleRequest) (*asynq.TaskInfo, error)
	Close() error
}

// Ensure AsynqJobClient implements JobClient
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client Enqueuer
	queue  string
}

// RedisOpt collects the Redis connection settings for asynq.
type RedisOpt struct {
	Addr     string
	Password string
	DB       int
}

func (o RedisOpt) ClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: o.Addr, Password: o.Password, DB: o.DB}
}

func NewAsynqJobClient(redis RedisOpt, queue string) *AsynqJobClient {
	return NewJobClientWithEnqueuer(asynq.NewClient(redis.ClientOpt()), queue)
}

// NewJobClientWithEnqueuer wraps an existing enqueuer, e.g. a test double.
func NewJobClientWithEnqueuer(e Enqueuer, queue string) *AsynqJobClient {
	if queue == "" {
		queue = "default"
	}
	return &AsynqJobClient{client: e, queue: queue}
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// EnqueueClassify enqueues one article. Classification is pure, so failed
// tasks are never retried.
func (jc *AsynqJobClient) EnqueueClassify(ctx context.Context, requestID string, article models.ArticleRequest) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("AsynqJobClient internal client is not initialized")
	}
	task, err := NewClassifyTask(requestID, article)
	if err != nil {
		return nil, err
	}
	info, err := jc.client.EnqueueContext(ctx, task, asynq.Queue(jc.queue), asynq.MaxRetry(0))
	if err != nil {
		return nil, fmt.Errorf("enqueue %s task: %w", task.Type(), err)
	}
	log.Debugf("Enqueued task type '%s', id %s on queue %s", task.Type(), info.ID, info.Queue)
	return info, nil
}
