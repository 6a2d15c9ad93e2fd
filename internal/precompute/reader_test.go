package precompute

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncidentDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2023-06-15", "2023-06-15", true},
		{"2010-01-25 00:00:00", "2010-01-25", true},
		{"2010-01-25 13:45:12.000000", "2010-01-25", true},
		{"09-DEC-18", "2018-12-09", true},
		{"09-dec-18", "2018-12-09", true},
		{"09-Dec-2018", "2018-12-09", true},
		{`"09-DEC-18"`, "2018-12-09", true},
		{"01/15/2024", "2024-01-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"2023-13-45", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseIncidentDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestMondayIndexed(t *testing.T) {
	assert.Equal(t, 0, mondayIndexed(time.Monday))
	assert.Equal(t, 4, mondayIndexed(time.Friday))
	assert.Equal(t, 6, mondayIndexed(time.Sunday))
}

func TestParseIntOr(t *testing.T) {
	assert.Equal(t, 42, parseIntOr("42", 0))
	assert.Equal(t, 42, parseIntOr(" 42 ", 0))
	assert.Equal(t, -1, parseIntOr("", -1))
	assert.Equal(t, -1, parseIntOr("12.5", -1))
	assert.Equal(t, -1, parseIntOr("abc", -1))
}

func TestParseFloatOr(t *testing.T) {
	assert.InDelta(t, 3.5, parseFloatOr("3.5", 0), 1e-9)
	assert.InDelta(t, 7, parseFloatOr("", 7), 1e-9)
	assert.InDelta(t, 7, parseFloatOr("n/a", 7), 1e-9)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "1", digitsOnly("1E"))
	assert.Equal(t, "8", digitsOnly("8D"))
	assert.Equal(t, "123", digitsOnly("1a2b3c"))
	assert.Equal(t, "", digitsOnly("GA"))
}

func TestFindTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nibrs_incident.csv"), []byte("a\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, "nibrs_incident.csv"), findTable(dir, "NIBRS_incident.csv"))
	assert.Empty(t, findTable(dir, "NIBRS_OFFENSE.csv"))
	assert.Empty(t, findTable(filepath.Join(dir, "missing"), "NIBRS_incident.csv"))
}

func TestTableReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agencies.csv")
	csv := "agency_id,Pub_Agency_Name,POPULATION\n" +
		"1,\"Columbus Division of Police\",900000\n" +
		"2,Dayton PD\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	tr, err := openTable(path)
	require.NoError(t, err)
	defer tr.Close()

	rec, ok := tr.Next()
	require.True(t, ok)
	// Header lookup is case-normalized regardless of the file's casing.
	assert.Equal(t, "1", tr.Col(rec, "AGENCY_ID"))
	assert.Equal(t, "Columbus Division of Police", tr.Col(rec, "PUB_AGENCY_NAME"))
	assert.Equal(t, "900000", tr.Col(rec, "POPULATION"))

	rec, ok = tr.Next()
	require.True(t, ok)
	// Short records return "" for trailing columns instead of panicking.
	assert.Equal(t, "Dayton PD", tr.Col(rec, "PUB_AGENCY_NAME"))
	assert.Empty(t, tr.Col(rec, "POPULATION"))
	assert.Empty(t, tr.Col(rec, "NO_SUCH_COLUMN"))

	_, ok = tr.Next()
	assert.False(t, ok)
}

func TestOpenTableMissingFile(t *testing.T) {
	_, err := openTable(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
