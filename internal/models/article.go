package models

import (
	"fmt"
	"strings"
)

// ArticleRequest is the four-field record accepted by /predict.
type ArticleRequest struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ClassificationResult is the body returned by a successful /predict.
type ClassificationResult struct {
	Scores map[string]float64 `json:"scores"`
	Label  string             `json:"label"`
}

// FieldError is one entry of a 422 "detail" list.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError collects every field that failed validation, in field order.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Detail))
	for _, d := range e.Detail {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(d.Loc, "."), d.Msg))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }
