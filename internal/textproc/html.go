package textproc

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripper removes markup from feed descriptions.
type HTMLStripper struct {
	policy *bluemonday.Policy
}

func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{policy: bluemonday.StrictPolicy()}
}

// Strip removes every tag and decodes entities. Text without markup passes
// through unchanged apart from surrounding whitespace.
func (s *HTMLStripper) Strip(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}
