package navigator

import (
	"time"
)

// ScanTimeLayout is the layout used to display and serialize scan timestamps.
const ScanTimeLayout = "2006-01-02 15:04:05"

// URLRecord is a row in the URL registry.
type URLRecord struct {
	URL       string    `json:"url"`
	Type      LinkType  `json:"type"`
	PageName  string    `json:"pageName"`
	ScannedAt time.Time `json:"scannedAt"`
	Ignore    bool      `json:"ignore"`
}

// Validate returns an error if the record contains invalid fields.
func (r *URLRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if _, err := ParseLinkType(string(r.Type)); err != nil {
		return err
	}
	return nil
}

// Registry is an ordered table of discovered URLs.
// No two records in a registry are equal in every field.
type Registry struct {
	Records []URLRecord `json:"records"`
}

// Validate returns an error if any record is invalid or duplicated.
func (r *Registry) Validate() error {
	seen := make(map[URLRecord]struct{}, len(r.Records))
	for i := range r.Records {
		if err := r.Records[i].Validate(); err != nil {
			return err
		}
		k := rowKey(r.Records[i])
		if _, ok := seen[k]; ok {
			return Errorf(ECONFLICT, "duplicate registry row for %q", r.Records[i].URL)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// NewRecords builds registry rows for the links of a scanned page. Internal
// links come first, each block in discovery order. scannedAt is truncated to
// whole seconds so rows from the same scan compare equal.
func NewRecords(links *PageLinks, scannedAt time.Time) []URLRecord {
	scannedAt = scannedAt.Truncate(time.Second)
	records := make([]URLRecord, 0, links.Len())
	for _, u := range links.Internal {
		records = append(records, URLRecord{URL: u, Type: LinkInternal, PageName: links.Title, ScannedAt: scannedAt})
	}
	for _, u := range links.External {
		records = append(records, URLRecord{URL: u, Type: LinkExternal, PageName: links.Title, ScannedAt: scannedAt})
	}
	return records
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.Records)
}

// Merge appends records that are not already present and returns how many
// were added. Records are duplicates only when every field matches, so a
// re-scan at a different timestamp adds new rows.
func (r *Registry) Merge(records []URLRecord) int {
	seen := make(map[URLRecord]struct{}, len(r.Records)+len(records))
	for _, rec := range r.Records {
		seen[rowKey(rec)] = struct{}{}
	}

	var added int
	for _, rec := range records {
		k := rowKey(rec)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		r.Records = append(r.Records, rec)
		added++
	}
	return added
}

// Replace swaps the registry contents for an edited table. Exact duplicate
// rows in the edited table are dropped.
func (r *Registry) Replace(records []URLRecord) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return Errorf(EINVALID, "row %d: %s", i+1, ErrorMessage(err))
		}
	}
	r.Records = nil
	r.Merge(records)
	return nil
}

// Remove deletes the records at the given zero-based indexes.
// Returns EINVALID if any index is out of range; the registry is then unchanged.
func (r *Registry) Remove(indexes ...int) error {
	drop := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(r.Records) {
			return Errorf(EINVALID, "row index %d out of range", i)
		}
		drop[i] = struct{}{}
	}

	kept := make([]URLRecord, 0, len(r.Records)-len(drop))
	for i, rec := range r.Records {
		if _, ok := drop[i]; !ok {
			kept = append(kept, rec)
		}
	}
	r.Records = kept
	return nil
}

// SetIgnore sets the ignore flag on every row for rawURL and returns the
// number of rows changed. Rows that become identical collapse into one.
func (r *Registry) SetIgnore(rawURL string, ignore bool) int {
	var n int
	for i := range r.Records {
		if r.Records[i].URL == rawURL && r.Records[i].Ignore != ignore {
			r.Records[i].Ignore = ignore
			n++
		}
	}
	if n > 0 {
		records := r.Records
		r.Records = nil
		r.Merge(records)
	}
	return n
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.Records = nil
}

// Fetchable returns the distinct URLs that are not ignored and have both a
// scheme and a network location, in registry order. Other rows are skipped
// silently.
func (r *Registry) Fetchable() []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, rec := range r.Records {
		if rec.Ignore || !IsFetchableURL(rec.URL) {
			continue
		}
		if _, ok := seen[rec.URL]; ok {
			continue
		}
		seen[rec.URL] = struct{}{}
		urls = append(urls, rec.URL)
	}
	return urls
}

// rowKey normalizes a record for equality checks. time.Time carries a
// location and monotonic reading that == would otherwise compare.
func rowKey(rec URLRecord) URLRecord {
	rec.ScannedAt = time.Unix(rec.ScannedAt.Unix(), int64(rec.ScannedAt.Nanosecond())).UTC()
	return rec
}
