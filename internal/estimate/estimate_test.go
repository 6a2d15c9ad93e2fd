package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

func TestLocalRateAgencyWins(t *testing.T) {
	snap := profile.New(
		map[string]*profile.AgencyProfile{
			"cincinnati": {
				AgencyID:   "OH123",
				Name:       "Cincinnati",
				RegionCode: "OH",
				Population: 300_000,
				PartIRate:  5200,
			},
		},
		map[string]*profile.RegionProfile{},
	)

	est := LocalRate(snap, "Cincinnati, OH", "OH", 2800, 300_000)
	assert.Equal(t, "agency", est.Source)
	assert.Equal(t, 5200.0, est.RatePer100k)
	assert.True(t, est.Agency.Resolved())
}

func TestLocalRateRegionAdjusted(t *testing.T) {
	cases := []struct {
		name       string
		place      string
		population int
		multiplier float64
		areaType   string
	}{
		{"major city overrides county population", "Atlanta, GA", 1_000_000, 1.35, "urban core"},
		{"big county non-major name reads as suburb", "Alpharetta", 1_000_000, 0.55, "suburb (large county)"},
		{"mid-size area", "Somewhere", 300_000, 0.75, "mid-size area"},
		{"mid-size city", "Somewhere", 150_000, 0.85, "mid-size city"},
		{"small city", "Somewhere", 40_000, 0.60, "suburb/small city"},
		{"suburb", "Somewhere", 15_000, 0.45, "suburb"},
		{"rural", "Somewhere", 2_000, 0.40, "rural/small town"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := LocalRate(nil, tc.place, "GA", 3000, tc.population)
			assert.Equal(t, "region_adjusted", est.Source)
			assert.Equal(t, tc.areaType, est.AreaType)
			assert.InDelta(t, 3000*tc.multiplier, est.RatePer100k, 1e-9)
		})
	}
}

func TestLocalRateIgnoresZeroRateAgency(t *testing.T) {
	snap := profile.New(
		map[string]*profile.AgencyProfile{
			"tinyville": {Name: "Tinyville", RegionCode: "GA", Population: 400},
		},
		map[string]*profile.RegionProfile{},
	)

	est := LocalRate(snap, "Tinyville", "GA", 3000, 400)
	assert.Equal(t, "region_adjusted", est.Source)
}
