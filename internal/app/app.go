package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/config"
	"newsclassifier/internal/costtracker"
	"newsclassifier/internal/metrics"
	"newsclassifier/internal/tasks"
	"newsclassifier/internal/textproc"
	"newsclassifier/pkg/classifier"
)

// App holds everything a command needs, built once from the config.
type App struct {
	Config *config.Config

	Labels      classifier.LabelSet
	Tokenizer   *textproc.Tokenizer
	Splitter    *textproc.SentenceSplitter
	Classifier  classifier.Classifier
	Metrics     *metrics.Metrics
	CostTracker costtracker.CostTracker

	jobOnce   sync.Once
	jobClient tasks.JobClient

	closers []func() error
}

// Option adjusts what NewApp builds.
type Option func(*options)

type options struct {
	skipClassifier bool
}

// WithoutClassifier skips text processing and classifier construction, for
// commands that only talk to a running service or the queue. Classifier,
// Tokenizer and Splitter stay nil.
func WithoutClassifier() Option {
	return func(o *options) { o.skipClassifier = true }
}

func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()
	app := &App{Config: cfg}

	app.Metrics = metrics.New()
	app.CostTracker = costtracker.New(app.Metrics.RecordCost)
	if o.skipClassifier {
		log.Debug("Application initialized without a classifier.")
		return app, nil
	}

	if err := app.initTextProcessing(); err != nil {
		return nil, err
	}

	if err := app.initClassifier(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.WithFields(log.Fields{
		"classifier":      cfg.Classifier.Type,
		"labels":          app.Labels.Len(),
		"max_concurrency": cfg.Classifier.MaxConcurrency,
		"fallback":        cfg.Classifier.Fallback,
	}).Debug("Application initialization complete.")
	return app, nil
}

// JobClient returns the asynq client, connecting on first use.
func (a *App) JobClient() tasks.JobClient {
	a.jobOnce.Do(func() {
		jc := tasks.NewAsynqJobClient(tasks.RedisOpt{
			Addr:     a.Config.Redis.Address,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		}, firstQueue(a.Config.Worker.Queues))
		a.jobClient = jc
		a.closers = append(a.closers, jc.Close)
	})
	return a.jobClient
}

// Close releases provider clients and the job client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// --- Private Helper Methods ---

func (a *App) initTextProcessing() error {
	labels, err := classifier.NewLabelSet(a.Config.Classifier.Labels)
	if err != nil {
		return fmt.Errorf("init labels: %w", err)
	}
	a.Labels = labels

	tok, err := textproc.NewTokenizer(textproc.Options{JapaneseSegmentation: a.Config.Classifier.JapaneseSegmentation})
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}
	a.Tokenizer = tok

	splitter, err := textproc.NewSentenceSplitter()
	if err != nil {
		return fmt.Errorf("init sentence splitter: %w", err)
	}
	a.Splitter = splitter
	return nil
}

func (a *App) initClassifier(ctx context.Context) error {
	cfg := a.Config.Classifier

	var primary classifier.Classifier
	var err error
	switch cfg.Type {
	case "linear":
		primary, err = a.newLinear()
	case "llm":
		primary, err = a.newLLM()
	case "gemini":
		primary, err = a.newGemini(ctx)
	default:
		err = fmt.Errorf("unknown classifier type '%s'", cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("init classifier: %w", err)
	}

	if cfg.Fallback && cfg.Type != "linear" {
		secondary, err := a.newLinear()
		if err != nil {
			return fmt.Errorf("init fallback classifier: %w", err)
		}
		primary = classifier.NewFallback(primary, secondary)
	}
	if cfg.MaxConcurrency > 0 {
		primary = classifier.NewLimited(primary, int64(cfg.MaxConcurrency))
	}
	a.Classifier = primary
	return nil
}

func (a *App) newLinear() (classifier.Classifier, error) {
	m, err := classifier.LoadModel(a.Config.Classifier.ModelPath)
	if err != nil {
		return nil, err
	}
	c, err := classifier.NewLinearClassifier(a.Labels, m, a.Tokenizer)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded linear model %s", c.Name())
	return c, nil
}

func (a *App) newLLM() (classifier.Classifier, error) {
	cfg := a.Config.Classifier.LLM
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for the llm classifier but not set")
	}
	prompt, err := config.LoadPromptContent(cfg.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("load classification prompt: %w", err)
	}
	client := classifier.NewOpenAIClient(cfg.APIKey, cfg.BaseURL)
	return classifier.NewLLMClassifier(client, a.Labels, a.Tokenizer, a.Splitter, classifier.LLMOptions{
		Model:          cfg.Model,
		PromptTemplate: prompt,
		MaxSentences:   cfg.MaxSentences,
		CostTracker:    a.CostTracker,
		Pricing:        a.Config.Pricing["openai"],
	}), nil
}

func (a *App) newGemini(ctx context.Context) (classifier.Classifier, error) {
	cfg := a.Config.Classifier.Gemini
	prompt, err := config.LoadPromptContent(cfg.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("load classification prompt: %w", err)
	}
	gen, err := classifier.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, gen.Close)
	return classifier.NewGeminiClassifier(gen, a.Labels, a.Tokenizer, a.Splitter, classifier.GeminiOptions{
		PromptTemplate: prompt,
		MaxSentences:   cfg.MaxSentences,
	}), nil
}

func (a *App) cleanupPartialInit() {
	if err := a.Close(); err != nil {
		log.Printf("Error closing partially initialized app: %v", err)
	}
}

// firstQueue picks the highest-priority queue, breaking ties by name.
func firstQueue(queues map[string]int) string {
	best, bestPriority := "", 0
	for name, priority := range queues {
		if best == "" || priority > bestPriority || (priority == bestPriority && name < best) {
			best, bestPriority = name, priority
		}
	}
	if best == "" {
		return "default"
	}
	return best
}
