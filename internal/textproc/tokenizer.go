package textproc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options controls optional tokenizer stages.
type Options struct {
	// JapaneseSegmentation splits Japanese/Han runs into words with a
	// morphological analyzer instead of keeping each run whole.
	JapaneseSegmentation bool
}

// Tokenizer turns raw article text into normalized word tokens. It is safe
// for concurrent use.
type Tokenizer struct {
	html     *HTMLStripper
	japanese *tokenizer.Tokenizer
}

func NewTokenizer(opts Options) (*Tokenizer, error) {
	t := &Tokenizer{html: NewHTMLStripper()}
	if opts.JapaneseSegmentation {
		jt, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			return nil, fmt.Errorf("init japanese tokenizer: %w", err)
		}
		t.japanese = jt
	}
	return t, nil
}

// Prepare cleans text and strips markup without normalizing it.
func (t *Tokenizer) Prepare(text string) string {
	return t.html.Strip(Clean(text))
}

// Tokens returns the normalized tokens of text in order of appearance.
func (t *Tokenizer) Tokens(text string) []string {
	text = strings.ToLower(norm.NFKC.String(t.Prepare(text)))

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if ContainsJapanese(f) {
			tokens = append(tokens, t.segment(f)...)
			continue
		}
		f = foldWord(f)
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func (t *Tokenizer) segment(run string) []string {
	if t.japanese == nil {
		return []string{run}
	}
	var out []string
	for _, w := range t.japanese.Wakati(run) {
		w = strings.TrimSpace(w)
		if w == "" || strings.IndexFunc(w, isWordRune) < 0 {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Normalize maps a single lexicon word onto the form Tokens produces for it,
// so model keys and article tokens compare equal.
func Normalize(word string) string {
	return foldWord(strings.ToLower(norm.NFKC.String(word)))
}

func foldWord(w string) string {
	if ContainsJapanese(w) {
		return w
	}
	return FoldMarks(w)
}

// ContainsJapanese reports whether text has Hiragana, Katakana or Han runes.
func ContainsJapanese(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// FoldMarks removes combining marks, so "informáticos" becomes "informaticos".
// Only apply it to non-Japanese text: it would strip dakuten.
func FoldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
