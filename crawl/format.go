package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the hex xxhash of a document's content. Documents
// with equal content share a hash, so refetches can be compared cheaply.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ShortURL fits a URL into width columns for progress lines. The path tail
// is kept since the host repeats across a session.
func ShortURL(u string, width int) string {
	switch {
	case width <= 0:
		return ""
	case len(u) <= width:
		return u
	case width <= 3:
		return strings.Repeat(".", width)
	}
	return "..." + u[len(u)-width+3:]
}

// Size summarizes the stored content of a fetch.
type Size struct {
	Bytes int

	// Tokens is only reported when Counted is set.
	Tokens  int
	Counted bool
}

func (s Size) String() string {
	var b strings.Builder
	switch {
	case s.Bytes >= 1<<20:
		fmt.Fprintf(&b, "%.1f MB", float64(s.Bytes)/(1<<20))
	case s.Bytes >= 1<<10:
		fmt.Fprintf(&b, "%.1f KB", float64(s.Bytes)/(1<<10))
	default:
		fmt.Fprintf(&b, "%d B", s.Bytes)
	}
	if !s.Counted {
		return b.String()
	}
	if s.Tokens < 1000 {
		fmt.Fprintf(&b, ", ~%d tokens", s.Tokens)
	} else {
		fmt.Fprintf(&b, ", ~%dk tokens", (s.Tokens+500)/1000)
	}
	return b.String()
}
