package navigator

import "context"

// TagDetail describes a media element found on a page.
type TagDetail struct {
	Tag string  `json:"tag"`
	Src string  `json:"src"`
	Alt *string `json:"alt,omitempty"`
}

// TagAnalyzer lists the images, videos and audio elements of a page.
type TagAnalyzer interface {
	Analyze(ctx context.Context, html string) ([]TagDetail, error)
}
