// Package textproc prepares article text for classification: cleaning,
// HTML stripping, Unicode normalization, tokenization and sentence splitting.
package textproc

import (
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const utf8BOM = "\ufeff"

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
	"\u0096", "-", "\u0097", "--", "\u0091", "'", "\u0092", "'",
	"\u0093", "\"", "\u0094", "\"",
)

// Clean drops a leading BOM, replaces invalid UTF-8 and maps typographic
// punctuation to ASCII.
func Clean(text string) string {
	text = strings.TrimPrefix(text, utf8BOM)
	if !utf8.ValidString(text) {
		log.Debug("textproc: invalid UTF-8 in input, replacing invalid bytes")
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return charReplacer.Replace(text)
}
