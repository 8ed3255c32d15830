package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
)

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is a TextGenerator backed by the Gemini API. It asks for
// JSON output with temperature 0.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// GeminiOptions configures a GeminiClassifier.
type GeminiOptions struct {
	PromptTemplate string
	MaxSentences   int
}

// GeminiClassifier asks a Gemini model for per-label scores.
type GeminiClassifier struct {
	gen    TextGenerator
	prompt promptBuilder
}

func NewGeminiClassifier(gen TextGenerator, labels LabelSet, prep *textproc.Tokenizer, splitter *textproc.SentenceSplitter, opts GeminiOptions) *GeminiClassifier {
	return &GeminiClassifier{
		gen: gen,
		prompt: promptBuilder{
			template:     opts.PromptTemplate,
			labels:       labels,
			prep:         prep,
			splitter:     splitter,
			maxSentences: opts.MaxSentences,
		},
	}
}

func (c *GeminiClassifier) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	text, err := c.gen.GenerateText(ctx, c.prompt.build(article))
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %w", models.ErrClassification, err)
	}
	return c.prompt.parse(text)
}
