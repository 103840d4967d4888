// Package fs exports documents as a tree of markdown files.
package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/navigator"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
// Returns EINVALID for unparseable URLs or paths escaping the host directory.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", navigator.Errorf(navigator.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", navigator.Errorf(navigator.EINVALID, "URL %q has no host", rawURL)
	}
	host := strings.ReplaceAll(u.Host, ":", "_")

	p := u.Path
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", navigator.Errorf(navigator.EINVALID, "path traversal in %q", rawURL)
		}
	}

	switch {
	case p == "" || p == "/":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p = strings.TrimPrefix(p, "/") + "index.md"
	default:
		p = strings.TrimPrefix(p, "/") + ".md"
	}
	return path.Join(host, path.Clean(p)), nil
}

// FormatDocument renders a document with YAML frontmatter.
func FormatDocument(doc *navigator.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title())
	if fetched := doc.Metadata[navigator.MetaFetchedAt]; fetched != "" {
		b.WriteString("\nfetched: ")
		b.WriteString(fetched)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Content)
	return b.String()
}

// Export writes docs as markdown files under dir and returns the number of
// files written. Files are staged in dir+".tmp" and moved into place only
// when every document was written, replacing any earlier export. Documents
// mapping to the same path keep the last one.
func Export(dir string, docs []*navigator.Document) (int, error) {
	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return 0, err
	}

	written := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			os.RemoveAll(tmp)
			return 0, err
		}
		rel, err := URLToPath(doc.SourceURL)
		if err != nil {
			os.RemoveAll(tmp)
			return 0, err
		}

		full := filepath.Join(tmp, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			os.RemoveAll(tmp)
			return 0, err
		}
		if err := os.WriteFile(full, []byte(FormatDocument(doc)), 0o644); err != nil {
			os.RemoveAll(tmp)
			return 0, err
		}
		written[rel] = struct{}{}
	}

	if len(docs) == 0 {
		if err := os.MkdirAll(tmp, 0o755); err != nil {
			return 0, err
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, dir); err != nil {
		return 0, err
	}
	return len(written), nil
}
