package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAgencies() map[string]*AgencyProfile {
	nightHeavy := make([]float64, 24)
	nightHeavy[22] = 0.6
	nightHeavy[2] = 0.4
	dayHeavy := make([]float64, 24)
	dayHeavy[14] = 1.0

	return map[string]*AgencyProfile{
		"columbus division of police": {
			Name:             "Columbus Division of Police",
			RegionCode:       "OH",
			Population:       900000,
			TotalIncidents:   900,
			PartIRate:        4800,
			WeaponRate:       0.2,
			StrangerRate:     0.4,
			VictimMaleRate:   0.6,
			VictimFemaleRate: 0.4,
			HourlyDist:       nightHeavy,
		},
		"dayton pd": {
			Name:             "Dayton PD",
			RegionCode:       "OH",
			Population:       140000,
			TotalIncidents:   100,
			PartIRate:        5200,
			WeaponRate:       0.1,
			StrangerRate:     0.2,
			VictimMaleRate:   0.5,
			VictimFemaleRate: 0.5,
			HourlyDist:       dayHeavy,
		},
		"savannah pd": {
			Name:           "Savannah PD",
			RegionCode:     "GA",
			Population:     150000,
			TotalIncidents: 200,
			PartIRate:      4100,
		},
	}
}

func testRegions() map[string]*RegionProfile {
	hourly := make([]float64, 24)
	for h := range hourly {
		hourly[h] = 1.0 / 24
	}
	return map[string]*RegionProfile{
		"OH": {HourlyDist: hourly, TotalIncidents: 1000, AgencyCount: 2, WeaponRate: 0.19},
	}
}

func TestSnapshotGlobals(t *testing.T) {
	s := New(testAgencies(), testRegions())

	assert.Equal(t, 3, s.AgencyCount())
	assert.Equal(t, 1, s.RegionCount())
	assert.Equal(t, []string{"OH"}, s.RegionCodes())
	assert.Equal(t, []string{"columbus division of police", "dayton pd", "savannah pd"}, s.AgencyKeys())

	hourly := s.GlobalHourly()
	require.Len(t, hourly, 24)
	var sum float64
	for _, v := range hourly {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	// The 900-incident night-heavy agency dominates the global curve.
	assert.Greater(t, hourly[22], hourly[14])

	// Incident-weighted: (0.2*900 + 0.1*100 + 0*200) / 1200.
	assert.InDelta(t, 190.0/1200, s.GlobalWeaponRate(), 1e-9)
	assert.InDelta(t, (0.4*900+0.2*100)/1200, s.GlobalStrangerRate(), 1e-9)
}

func TestSnapshotEmpty(t *testing.T) {
	s := New(map[string]*AgencyProfile{}, map[string]*RegionProfile{})
	assert.Zero(t, s.AgencyCount())
	hourly := s.GlobalHourly()
	for _, v := range hourly {
		assert.Zero(t, v)
	}
}

func writeArtifact(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, AgencyArtifact, testAgencies())
	writeArtifact(t, dir, RegionArtifact, testRegions())

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, s.AgencyCount())

	p, ok := s.Agency("dayton pd")
	require.True(t, ok)
	assert.InDelta(t, 5200, p.PartIRate, 1e-9)

	r, ok := s.Region("OH")
	require.True(t, ok)
	assert.Equal(t, 2, r.AgencyCount)
}

func TestLoadMissingRegionArtifactDegrades(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, AgencyArtifact, testAgencies())

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, s.AgencyCount())
	assert.Zero(t, s.RegionCount())
}

func TestLoadMissingAgencyArtifactFails(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadMalformedAgencyArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AgencyArtifact), []byte("{broken"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
