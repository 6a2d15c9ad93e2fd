package precompute

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// findTable locates a table file in dir by case-insensitive name match.
// Returns "" when the table is absent.
func findTable(dir, name string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	lower := strings.ToLower(name)
	for _, e := range entries {
		if !e.IsDir() && strings.ToLower(e.Name()) == lower {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// tableReader streams one CSV table row by row. Column names are
// normalized to uppercase so extracts with inconsistent header casing
// join cleanly.
type tableReader struct {
	f      *os.File
	r      *csv.Reader
	colIdx map[string]int
}

// openTable opens a table for streaming. The whole table is never held
// in memory; callers iterate with Next.
func openTable(path string) (*tableReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "precompute: open table %s", filepath.Base(path))
	}

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "precompute: read header %s", filepath.Base(path))
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToUpper(strings.TrimSpace(col))] = i
	}

	return &tableReader{f: f, r: r, colIdx: colIdx}, nil
}

// Next returns the next record, or false at end of stream. Rows that
// fail CSV parsing are skipped rather than aborting the table.
func (t *tableReader) Next() ([]string, bool) {
	for {
		rec, err := t.r.Read()
		if err == io.EOF {
			return nil, false
		}
		if err != nil {
			continue
		}
		return rec, true
	}
}

// Col returns the named column of a record, "" when the column is
// missing from the header or the record is short.
func (t *tableReader) Col(rec []string, name string) string {
	idx, ok := t.colIdx[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(rec[idx]), `"`))
}

// Close releases the underlying file.
func (t *tableReader) Close() error { return t.f.Close() }

// parseIntOr parses a string as an integer, returning def on empty or
// malformed input.
func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// parseFloatOr parses a string as a float64, returning def on empty or
// malformed input.
func parseFloatOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// digitsOnly strips every non-digit rune, for codes like "1E" or "8D".
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var incidentDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"02-Jan-06",
	"02-Jan-06 15:04:05",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05",
	"01/02/2006",
}

var monthTitle = cases.Title(language.English)

// parseIncidentDate parses the incident date formats seen across
// jurisdiction-year extracts: ISO (with optional time and fraction),
// DD-Mon-YY / DD-Mon-YYYY (any case), and MM/DD/YYYY. Returns the zero
// time when nothing matches.
func parseIncidentDate(raw string) (time.Time, bool) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return time.Time{}, false
	}
	// Month abbreviations arrive as "DEC" or "dec"; Go layouts want "Dec".
	if strings.IndexFunc(raw, func(r rune) bool { return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' }) >= 0 {
		raw = monthTitle.String(strings.ToLower(raw))
	}
	for _, layout := range incidentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mondayIndexed maps a weekday to the 0=Monday..6=Sunday index used by
// the day-of-week histograms.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}
