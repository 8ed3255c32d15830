package textproc

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter finds sentence boundaries in English-like text.
type SentenceSplitter struct {
	tok *sentences.DefaultSentenceTokenizer
}

func NewSentenceSplitter() (*SentenceSplitter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("init sentence tokenizer: %w", err)
	}
	return &SentenceSplitter{tok: tok}, nil
}

// Split returns the trimmed, non-empty sentences of text.
func (s *SentenceSplitter) Split(text string) []string {
	var out []string
	for _, sent := range s.tok.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// First returns at most n sentences of text joined by a space. n <= 0 keeps
// the whole text.
func (s *SentenceSplitter) First(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return text
	}
	sents := s.Split(text)
	if len(sents) <= n {
		return strings.Join(sents, " ")
	}
	return strings.Join(sents[:n], " ")
}
