package navigator

import (
	"strconv"
	"strings"
	"unicode"
)

// Section is an ATX heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// Outline returns the document's headings in order. Documents that were
// stored as raw HTML have no outline.
func (d *Document) Outline() []Section {
	return ExtractSections(d.Content)
}

// ExtractSections returns the H1 to H6 headings of markdown, skipping fenced
// code. Anchors follow GitHub's slug rules; repeated slugs get -1, -2 and so
// on appended.
func ExtractSections(markdown string) []Section {
	var sections []Section
	seen := make(map[string]int)
	var fence string

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			fence = f
			continue
		}

		level, title, ok := parseHeading(line)
		if !ok {
			continue
		}

		anchor := slugify(title)
		if n, dup := seen[anchor]; dup {
			seen[anchor] = n + 1
			anchor += "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		sections = append(sections, Section{Level: level, Title: title, Anchor: anchor})
	}
	return sections
}

func fenceMarker(line string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, f) {
			return f
		}
	}
	return ""
}

// parseHeading recognizes "## Title ##" lines. The closing hashes are optional.
func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || (line[level] != ' ' && line[level] != '\t') {
		return 0, "", false
	}
	title := strings.TrimSpace(line[level:])
	if stripped := strings.TrimRight(title, "#"); stripped != title && (stripped == "" || strings.HasSuffix(stripped, " ")) {
		title = strings.TrimSpace(stripped)
	}
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}

func slugify(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case (unicode.IsSpace(r) || r == '-') && !hyphen && sb.Len() > 0:
			sb.WriteRune('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
