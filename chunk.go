package navigator

import (
	"maps"
	"strconv"
)

// Splitter defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 0
)

// Passage is a contiguous span of a document's content.
type Passage struct {
	Text      string            `json:"text"`
	SourceURL string            `json:"source"`
	Offset    int               `json:"offset"` // in runes
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Splitter cuts documents into fixed-size passages measured in runes.
// Consecutive passages share Overlap runes.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter returns a validated splitter.
func NewSplitter(size, overlap int) (*Splitter, error) {
	s := &Splitter{Size: size, Overlap: overlap}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate returns an error if the splitter settings are invalid.
func (s *Splitter) Validate() error {
	if s.Size <= 0 {
		return Errorf(EINVALID, "chunk size must be positive, got %d", s.Size)
	}
	if s.Overlap < 0 || s.Overlap >= s.Size {
		return Errorf(EINVALID, "chunk overlap must be in [0, %d), got %d", s.Size, s.Overlap)
	}
	return nil
}

// Split returns the passages of every document in order. Empty documents
// produce no passages. Each passage copies the document metadata and adds
// its start index.
func (s *Splitter) Split(docs []*Document) []*Passage {
	var passages []*Passage
	for _, doc := range docs {
		passages = append(passages, s.splitDocument(doc)...)
	}
	return passages
}

func (s *Splitter) splitDocument(doc *Document) []*Passage {
	runes := []rune(doc.Content)
	n := len(runes)
	step := s.Size - s.Overlap

	var passages []*Passage
	for start := 0; start < n; start += step {
		end := min(start+s.Size, n)

		meta := make(map[string]string, len(doc.Metadata)+1)
		maps.Copy(meta, doc.Metadata)
		meta[MetaStartIndex] = strconv.Itoa(start)

		passages = append(passages, &Passage{
			Text:      string(runes[start:end]),
			SourceURL: doc.SourceURL,
			Offset:    start,
			Metadata:  meta,
		})
		if end == n {
			break
		}
	}
	return passages
}
