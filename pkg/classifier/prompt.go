package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	log "github.com/sirupsen/logrus"

	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
)

// DefaultPromptTemplate is used when no prompt file is configured.
const DefaultPromptTemplate = `You classify news articles into exactly these categories: {{LABELS}}.

Return a JSON object {"scores": {...}} giving every category a probability between 0 and 1.
The probabilities should sum to 1. Do not add categories.

Source: {{SOURCE}}
Title: {{TITLE}}
Description: {{DESCRIPTION}}`

// promptBuilder renders prompts for model-backed classifiers and parses their
// JSON replies back into results.
type promptBuilder struct {
	template     string
	labels       LabelSet
	prep         *textproc.Tokenizer
	splitter     *textproc.SentenceSplitter
	maxSentences int
}

func (p *promptBuilder) build(article models.ArticleRequest) string {
	description := article.Description
	if p.prep != nil {
		description = p.prep.Prepare(description)
	}
	if p.splitter != nil {
		description = p.splitter.First(description, p.maxSentences)
	}

	tmpl := p.template
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	return strings.NewReplacer(
		"{{LABELS}}", strings.Join(p.labels.Labels(), ", "),
		"{{SOURCE}}", article.Source,
		"{{TITLE}}", article.Title,
		"{{DESCRIPTION}}", description,
	).Replace(tmpl)
}

// parse maps a {"scores": {...}} reply onto the label set. Labels the model
// invents are dropped, labels it omits score zero.
func (p *promptBuilder) parse(content string) (models.ClassificationResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("failed to parse LLM response as JSON: %w\nResponse content: %s", err, content)
	}
	if len(parsed.Scores) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("%w: LLM response has no scores", models.ErrClassification)
	}

	scores := make([]float64, p.labels.Len())
	for label, v := range parsed.Scores {
		i, ok := p.labels.Index(label)
		if !ok {
			log.Debugf("Dropping unknown label %q from LLM response", label)
			continue
		}
		scores[i] = v
	}
	return p.labels.Result(Normalize(scores)), nil
}

// responseSchema describes the expected reply: one required number per label.
func responseSchema(labels LabelSet) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, l := range labels.Labels() {
		props.Set(l, &jsonschema.Schema{Type: "number"})
	}
	scores := &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             labels.Labels(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	root := jsonschema.NewProperties()
	root.Set("scores", scores)
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           root,
		Required:             []string{"scores"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
