package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/config"
	"newsclassifier/internal/costtracker"
	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
)

// ChatCompletionCreator is the subset of the OpenAI client the LLM classifier uses.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMOptions configures an LLMClassifier.
type LLMOptions struct {
	Model          string
	PromptTemplate string
	MaxSentences   int

	// Dependencies for cost tracking
	CostTracker costtracker.CostTracker
	Pricing     map[string]config.PricingInfo
}

// LLMClassifier asks an OpenAI-compatible chat model for per-label scores.
type LLMClassifier struct {
	client      ChatCompletionCreator
	model       string
	prompt      promptBuilder
	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

func NewLLMClassifier(client ChatCompletionCreator, labels LabelSet, prep *textproc.Tokenizer, splitter *textproc.SentenceSplitter, opts LLMOptions) *LLMClassifier {
	return &LLMClassifier{
		client: client,
		model:  opts.Model,
		prompt: promptBuilder{
			template:     opts.PromptTemplate,
			labels:       labels,
			prep:         prep,
			splitter:     splitter,
			maxSentences: opts.MaxSentences,
		},
		costTracker: opts.CostTracker,
		pricing:     opts.Pricing,
	}
}

// NewOpenAIClient builds a client for apiKey, pointed at baseURL when set.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (c *LLMClassifier) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	if c.client == nil {
		return models.ClassificationResult{}, fmt.Errorf("LLM classifier is not initialized with an OpenAI client")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.prompt.build(article),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "article_scores",
				Schema: responseSchema(c.prompt.labels),
			},
		},
	})
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: openai chat completion failed: %w", models.ErrClassification, err)
	}
	if len(resp.Choices) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("%w: no choices returned from OpenAI", models.ErrClassification)
	}

	c.recordCost(ctx, resp.Usage, article)

	return c.prompt.parse(resp.Choices[0].Message.Content)
}

func (c *LLMClassifier) recordCost(ctx context.Context, usage openai.Usage, article models.ArticleRequest) {
	if c.costTracker == nil || usage.TotalTokens == 0 {
		return
	}
	priceInfo, ok := c.pricing[c.model]
	if !ok {
		log.Warnf("Pricing info not found for model '%s'. Cannot record cost for classification.", c.model)
		return
	}

	event := costtracker.CostEvent{
		Operation: "classification",
		AmountUSD: float64(usage.PromptTokens)*priceInfo.InputPerToken +
			float64(usage.CompletionTokens)*priceInfo.OutputPerToken,
		Details: map[string]interface{}{
			"provider_name": "openai",
			"model_name":    c.model,
			"input_tokens":  usage.PromptTokens,
			"output_tokens": usage.CompletionTokens,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"title":         article.Title,
		},
	}
	if err := c.costTracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for classification: %v", err)
		return
	}
	log.Debugf("Recorded AI usage: Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		c.model, usage.PromptTokens, usage.CompletionTokens, event.AmountUSD)
}
