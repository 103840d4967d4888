package navigator

import "strings"

// DocumentSeparator separates documents in FormatDocuments output.
const DocumentSeparator = "\n\n---\n\n"

// FormatPassages joins passage texts with blank lines, in the given order,
// for the prompt's context slot.
func FormatPassages(passages []*Passage) string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

// FormatDocuments renders documents as one markdown stream: a title heading
// and source line, then the content. Fetch time is shown when recorded.
func FormatDocuments(docs []*Document) string {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString(DocumentSeparator)
		}
		b.WriteString("# " + doc.Title() + "\n")
		if doc.SourceURL != "" {
			b.WriteString("Source: " + doc.SourceURL + "\n")
		}
		if at := doc.Metadata[MetaFetchedAt]; at != "" {
			b.WriteString("Fetched: " + at + "\n")
		}
		b.WriteString("\n" + doc.Content)
	}
	return b.String()
}
