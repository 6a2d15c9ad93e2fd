package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "columbus", NormalizeKey("Columbus"))
	assert.Equal(t, "columbus", NormalizeKey("  Columbus, OH, USA "))
	assert.Equal(t, "", NormalizeKey(""))
	assert.Equal(t, "", NormalizeKey(" , OH"))
}

func TestResolveExact(t *testing.T) {
	s := New(testAgencies(), testRegions())

	m := s.Resolve("Dayton PD", "")
	require.True(t, m.Resolved())
	assert.Equal(t, SourceExact, m.Source)
	assert.Equal(t, "dayton pd", m.Key)
	assert.Equal(t, "Dayton PD", m.Profile.Name)
}

func TestResolveSubstring(t *testing.T) {
	s := New(testAgencies(), testRegions())

	// "columbus" is contained in "columbus division of police".
	m := s.Resolve("Columbus, OH", "")
	require.True(t, m.Resolved())
	assert.Equal(t, SourceSubstring, m.Source)
	assert.Equal(t, "columbus division of police", m.Key)
}

func TestResolveSubstringPrefersShortestKey(t *testing.T) {
	agencies := testAgencies()
	agencies["dayton township pd"] = &AgencyProfile{
		Name:       "Dayton Township PD",
		RegionCode: "OH",
		Population: 8000,
	}
	s := New(agencies, nil)

	m := s.Resolve("Dayton", "")
	require.True(t, m.Resolved())
	assert.Equal(t, SourceSubstring, m.Source)
	assert.Equal(t, "dayton pd", m.Key)
}

func TestResolveRegionFallback(t *testing.T) {
	s := New(testAgencies(), testRegions())

	m := s.Resolve("Chillicothe", "oh ")
	require.True(t, m.Resolved())
	assert.Equal(t, SourceRegionFallback, m.Source)
	// Highest-population agency in the region wins.
	assert.Equal(t, "columbus division of police", m.Key)
}

func TestResolveNoMatch(t *testing.T) {
	s := New(testAgencies(), testRegions())

	m := s.Resolve("Chillicothe", "")
	assert.False(t, m.Resolved())
	assert.Equal(t, SourceNone, m.Source)
	assert.Equal(t, "none", m.Source.String())

	m = s.Resolve("Chillicothe", "ZZ")
	assert.False(t, m.Resolved())
}

func TestResolveEmptyNameUsesRegion(t *testing.T) {
	s := New(testAgencies(), testRegions())

	m := s.Resolve("", "GA")
	require.True(t, m.Resolved())
	assert.Equal(t, SourceRegionFallback, m.Source)
	assert.Equal(t, "savannah pd", m.Key)
}

func TestResolveRegion(t *testing.T) {
	s := New(testAgencies(), testRegions())

	r, code, ok := s.ResolveRegion("", "oh")
	require.True(t, ok)
	assert.Equal(t, "OH", code)
	assert.Equal(t, 2, r.AgencyCount)

	// No direct region profile for GA, but the agency match carries one
	// only when its region has a profile.
	_, _, ok = s.ResolveRegion("Savannah", "GA")
	assert.False(t, ok)

	r, code, ok = s.ResolveRegion("Columbus", "")
	require.True(t, ok)
	assert.Equal(t, "OH", code)
	assert.NotNil(t, r)
}
