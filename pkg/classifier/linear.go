package classifier

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
)

//go:embed model/default.json
var defaultModel []byte

// Model is the on-disk form of a linear lexicon model: a per-label bias and a
// per-token weight for each label the token is evidence for.
type Model struct {
	Name    string                        `json:"name"`
	Labels  []string                      `json:"labels"`
	Bias    map[string]float64            `json:"bias"`
	Weights map[string]map[string]float64 `json:"weights"`
}

// LoadModel reads a model file. An empty path loads the built-in model.
func LoadModel(path string) (*Model, error) {
	if path == "" {
		return ParseModel(defaultModel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file '%s': %w", path, err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("model file '%s': %w", path, err)
	}
	return m, nil
}

func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if len(m.Labels) == 0 {
		return nil, fmt.Errorf("model declares no labels")
	}
	return &m, nil
}

// LinearClassifier scores an article as bias(l) + sum of token weights, then
// applies softmax. Unknown tokens contribute nothing, so text the model has
// never seen falls back to the bias prior instead of failing.
type LinearClassifier struct {
	name      string
	labels    LabelSet
	bias      []float64
	weights   map[string][]float64
	tokenizer *textproc.Tokenizer
}

func NewLinearClassifier(labels LabelSet, m *Model, tok *textproc.Tokenizer) (*LinearClassifier, error) {
	if m == nil {
		return nil, fmt.Errorf("linear classifier requires a model")
	}
	if tok == nil {
		return nil, fmt.Errorf("linear classifier requires a tokenizer")
	}
	if !labels.SameLabels(m.Labels) {
		return nil, fmt.Errorf("%w: model labels %v do not match configured labels %v",
			models.ErrUnknownLabel, m.Labels, labels.Labels())
	}

	c := &LinearClassifier{
		name:      m.Name,
		labels:    labels,
		bias:      make([]float64, labels.Len()),
		weights:   make(map[string][]float64, len(m.Weights)),
		tokenizer: tok,
	}
	for label, b := range m.Bias {
		i, ok := labels.Index(label)
		if !ok {
			return nil, fmt.Errorf("%w: bias for %q", models.ErrUnknownLabel, label)
		}
		c.bias[i] = b
	}
	for token, perLabel := range m.Weights {
		key := textproc.Normalize(token)
		vec, ok := c.weights[key]
		if !ok {
			vec = make([]float64, labels.Len())
			c.weights[key] = vec
		}
		for label, w := range perLabel {
			i, ok := labels.Index(label)
			if !ok {
				return nil, fmt.Errorf("%w: weight %q for %q", models.ErrUnknownLabel, token, label)
			}
			vec[i] += w
		}
	}
	return c, nil
}

// Name identifies the loaded model.
func (c *LinearClassifier) Name() string { return c.name }

func (c *LinearClassifier) Classify(ctx context.Context, article models.ArticleRequest) (models.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ClassificationResult{}, err
	}

	logits := make([]float64, len(c.bias))
	copy(logits, c.bias)
	for _, tok := range c.tokenizer.Tokens(ArticleText(article)) {
		if w, ok := c.weights[tok]; ok {
			for i := range logits {
				logits[i] += w[i]
			}
		}
	}
	return c.labels.Result(Softmax(logits)), nil
}

// ArticleText is the text a classifier reads: the title followed by the
// description. Source and URL are metadata and are not scored.
func ArticleText(article models.ArticleRequest) string {
	return strings.TrimSpace(article.Title + "\n" + article.Description)
}
