// Package jsonl reads and writes document snapshots as line-delimited JSON.
package jsonl

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/navigator"
)

// documentType is the type tag written on every line.
const documentType = "Document"

// maxLineSize bounds a single encoded document.
const maxLineSize = 64 << 20

type line struct {
	PageContent string            `json:"page_content"`
	Metadata    map[string]string `json:"metadata"`
	Type        string            `json:"type,omitempty"`
}

// rawLine accepts metadata values of any JSON type.
type rawLine struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// Encode writes one JSON object per document.
func Encode(w io.Writer, docs []*navigator.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		if _, ok := meta[navigator.MetaSource]; !ok {
			meta = copyWithSource(meta, doc.SourceURL)
		}
		if err := enc.Encode(line{PageContent: doc.Content, Metadata: meta, Type: documentType}); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads documents written by Encode. Blank lines and unknown keys
// are ignored. The source URL comes from the "source" metadata key.
func Decode(r io.Reader) ([]*navigator.Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var docs []*navigator.Document
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var l rawLine
		if err := json.Unmarshal([]byte(text), &l); err != nil {
			return nil, navigator.Errorf(navigator.EINVALID, "line %d: invalid document JSON: %v", n, err)
		}
		meta := stringify(l.Metadata)
		docs = append(docs, &navigator.Document{
			SourceURL: meta[navigator.MetaSource],
			Content:   l.PageContent,
			Metadata:  meta,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, navigator.WrapError(navigator.EINVALID, err, "reading documents")
	}
	return docs, nil
}

// stringify flattens metadata values to strings. Nested values keep their
// JSON encoding and nulls are dropped.
func stringify(raw map[string]any) map[string]string {
	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			meta[k] = v
		case float64:
			meta[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			meta[k] = strconv.FormatBool(v)
		default:
			b, _ := json.Marshal(v)
			meta[k] = string(b)
		}
	}
	return meta
}

func copyWithSource(meta map[string]string, source string) map[string]string {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[navigator.MetaSource] = source
	return out
}
