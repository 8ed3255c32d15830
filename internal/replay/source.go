// Package replay feeds recorded articles to a running classifier, either over
// HTTP or through the async queue.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsclassifier/internal/models"
	"newsclassifier/internal/textproc"
)

// maxLineBytes bounds one JSONL record.
const maxLineBytes = 4 << 20

// Record is one article to replay. Body is sent as-is; Invalid is set when
// the source line is not JSON at all.
type Record struct {
	Line    int
	Body    []byte
	Invalid error
}

// Source yields records until it returns io.EOF.
type Source interface {
	Next() (Record, error)
}

// JSONLSource reads newline-delimited JSON records. Blank lines are skipped.
type JSONLSource struct {
	scanner *bufio.Scanner
	line    int
}

func NewJSONLSource(r io.Reader) *JSONLSource {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &JSONLSource{scanner: s}
}

func (s *JSONLSource) Next() (Record, error) {
	for s.scanner.Scan() {
		s.line++
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		body := append([]byte(nil), line...)
		rec := Record{Line: s.line, Body: body}
		if !json.Valid(body) {
			rec.Invalid = fmt.Errorf("line %d is not valid JSON", s.line)
		}
		return rec, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("read line %d: %w", s.line+1, err)
	}
	return Record{}, io.EOF
}

// FeedSource turns the items of an RSS/Atom feed into article records.
type FeedSource struct {
	records []Record
	next    int
}

// FetchFeed downloads and parses the feed at url.
func FetchFeed(ctx context.Context, url string) (*FeedSource, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	return NewFeedSource(feed)
}

// ParseFeed parses a feed document already in memory.
func ParseFeed(doc string) (*FeedSource, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return NewFeedSource(feed)
}

// NewFeedSource maps feed items to articles: source is the feed title, and
// descriptions lose their HTML markup.
func NewFeedSource(feed *gofeed.Feed) (*FeedSource, error) {
	stripper := textproc.NewHTMLStripper()
	records := make([]Record, 0, len(feed.Items))
	for i, item := range feed.Items {
		description := item.Description
		if description == "" {
			description = item.Content
		}
		article := models.ArticleRequest{
			Source:      strings.TrimSpace(feed.Title),
			URL:         item.Link,
			Title:       strings.TrimSpace(stripper.Strip(item.Title)),
			Description: strings.TrimSpace(stripper.Strip(textproc.Clean(description))),
		}
		body, err := json.Marshal(article)
		if err != nil {
			return nil, fmt.Errorf("encode feed item %d: %w", i, err)
		}
		records = append(records, Record{Line: i + 1, Body: body})
	}
	return &FeedSource{records: records}, nil
}

func (s *FeedSource) Next() (Record, error) {
	if s.next >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.next]
	s.next++
	return rec, nil
}

// Len reports how many items the feed had.
func (s *FeedSource) Len() int { return len(s.records) }
