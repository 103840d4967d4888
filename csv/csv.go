// Package csv reads and writes the URL registry as a CSV table.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/navigator"
)

// Column names, in export order.
const (
	ColumnURL       = "URL"
	ColumnType      = "Type"
	ColumnPageName  = "Page Name"
	ColumnScannedAt = "Scanned DateTime"
	ColumnIgnore    = "Ignore"
)

// Header is the fixed header row.
var Header = []string{ColumnURL, ColumnType, ColumnPageName, ColumnScannedAt, ColumnIgnore}

// Encode writes records as CSV with the fixed header.
func Encode(w io.Writer, records []navigator.URLRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.URL,
			string(r.Type),
			r.PageName,
			r.ScannedAt.Format(navigator.ScanTimeLayout),
			formatBool(r.Ignore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads records written by Encode or edited by hand. Columns may
// appear in any order. A missing Ignore column or an empty Ignore cell
// means false. Timestamps are read as UTC.
func Decode(r io.Reader) ([]navigator.URLRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, navigator.Errorf(navigator.EINVALID, "CSV is empty")
	} else if err != nil {
		return nil, navigator.WrapError(navigator.EINVALID, err, "reading CSV header")
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var records []navigator.URLRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, navigator.WrapError(navigator.EINVALID, err, "reading CSV")
		}

		rec, err := decodeRow(row, cols)
		if err != nil {
			return nil, navigator.Errorf(navigator.EINVALID, "line %d: %s", line, navigator.ErrorMessage(err))
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(Header))
	for _, h := range Header {
		known[h] = true
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if !known[h] {
			return nil, navigator.Errorf(navigator.EINVALID, "unknown CSV column %q", h)
		}
		cols[h] = i
	}

	for _, h := range Header[:4] {
		if _, ok := cols[h]; !ok {
			return nil, navigator.Errorf(navigator.EINVALID, "missing CSV column %q", h)
		}
	}
	return cols, nil
}

func decodeRow(row []string, cols map[string]int) (navigator.URLRecord, error) {
	// URL and Page Name are kept verbatim so rows match the scanned ones.
	raw := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	cell := func(name string) string {
		return strings.TrimSpace(raw(name))
	}

	typ, err := navigator.ParseLinkType(cell(ColumnType))
	if err != nil {
		return navigator.URLRecord{}, err
	}

	var scannedAt time.Time
	if s := cell(ColumnScannedAt); s != "" {
		scannedAt, err = time.Parse(navigator.ScanTimeLayout, s)
		if err != nil {
			return navigator.URLRecord{}, navigator.Errorf(navigator.EINVALID, "invalid scan time %q", s)
		}
	}

	ignore, err := parseBool(cell(ColumnIgnore))
	if err != nil {
		return navigator.URLRecord{}, err
	}

	if cell(ColumnURL) == "" {
		return navigator.URLRecord{}, navigator.Errorf(navigator.EINVALID, "record URL required")
	}

	rec := navigator.URLRecord{
		URL:       raw(ColumnURL),
		Type:      typ,
		PageName:  raw(ColumnPageName),
		ScannedAt: scannedAt,
		Ignore:    ignore,
	}
	if err := rec.Validate(); err != nil {
		return navigator.URLRecord{}, err
	}
	return rec, nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return false, navigator.Errorf(navigator.EINVALID, "invalid ignore value %q", s)
	}
	return b, nil
}
