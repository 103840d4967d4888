package navigator

import (
	"context"
	"time"
)

// Metadata keys set on fetched documents.
const (
	MetaSource      = "source"
	MetaTitle       = "title"
	MetaContentHash = "content_hash"
	MetaFetchedAt   = "fetched_at"
	MetaStartIndex  = "start_index"
)

// Document is a fetched page.
type Document struct {
	SourceURL string            `json:"sourceUrl"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
}

// NewDocument returns a document for content fetched from sourceURL with the
// source and fetch time recorded in its metadata.
func NewDocument(sourceURL, title, content string, fetchedAt time.Time) *Document {
	meta := map[string]string{
		MetaSource:    sourceURL,
		MetaFetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
	if title != "" {
		meta[MetaTitle] = title
	}
	return &Document{SourceURL: sourceURL, Content: content, Metadata: meta}
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// Title returns the document title, or the source URL when none is known.
func (d *Document) Title() string {
	if t := d.Metadata[MetaTitle]; t != "" {
		return t
	}
	return d.SourceURL
}

// FetchResult is the outcome of fetching one URL.
type FetchResult struct {
	URL      string
	Document *Document
	Err      error
}

// FetchBatch holds the results of a fetch run in input order.
type FetchBatch struct {
	Results []FetchResult
}

// Documents returns the successfully fetched documents in input order.
func (b *FetchBatch) Documents() []*Document {
	docs := make([]*Document, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err == nil && r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs
}

// Succeeded returns the number of successful fetches.
func (b *FetchBatch) Succeeded() int {
	var n int
	for _, r := range b.Results {
		if r.Err == nil && r.Document != nil {
			n++
		}
	}
	return n
}

// Failed returns the number of failed fetches.
func (b *FetchBatch) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// FetchProgress reports the state of a fetch run after each URL completes.
type FetchProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// FetchProgressFunc is called after each URL is fetched.
type FetchProgressFunc func(FetchProgress)

// DocumentLoader fetches documents for a list of URLs.
type DocumentLoader interface {
	// Load fetches every URL. A failed URL is recorded in its FetchResult
	// and never aborts the batch. Returns an error only when ctx is done.
	Load(ctx context.Context, urls []string, progress FetchProgressFunc) (*FetchBatch, error)
}
