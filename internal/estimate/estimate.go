// Package estimate derives a local Part I crime rate for an arbitrary
// place from whatever data is actually available for it.
package estimate

import (
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// Well-known large urban cores. A place whose normalized name is in
// this set gets the urban multiplier even when the population figure
// we hold is a county total.
var majorCities = map[string]bool{
	"new york": true, "los angeles": true, "chicago": true, "houston": true,
	"phoenix": true, "philadelphia": true, "san antonio": true,
	"san diego": true, "dallas": true, "san jose": true, "austin": true,
	"jacksonville": true, "fort worth": true, "columbus": true,
	"charlotte": true, "indianapolis": true, "san francisco": true,
	"seattle": true, "denver": true, "washington": true, "nashville": true,
	"oklahoma city": true, "el paso": true, "boston": true, "portland": true,
	"las vegas": true, "memphis": true, "louisville": true,
	"baltimore": true, "milwaukee": true, "albuquerque": true,
	"tucson": true, "fresno": true, "sacramento": true, "mesa": true,
	"kansas city": true, "atlanta": true, "omaha": true,
	"colorado springs": true, "raleigh": true, "long beach": true,
	"virginia beach": true, "miami": true, "oakland": true,
	"minneapolis": true, "tampa": true, "tulsa": true, "arlington": true,
	"new orleans": true, "detroit": true, "st. louis": true,
	"st louis": true, "cleveland": true, "pittsburgh": true,
	"cincinnati": true,
}

// Estimate is the chosen local rate plus how it was derived.
type Estimate struct {
	RatePer100k float64
	Source      string // "agency" or "region_adjusted"
	AreaType    string
	Multiplier  float64
	Agency      profile.Match
}

// LocalRate picks the best available Part I rate for a place.
//
// An agency profile resolved from the snapshot wins outright: it is a
// real per-city rate. Otherwise the region rate is scaled by an
// urban/suburban/rural multiplier inferred from the place name and
// population. Population figures often describe the surrounding county,
// so a non-major-city name with a huge population reads as a suburb,
// not an urban core.
func LocalRate(snap *profile.Snapshot, placeName, regionCode string, regionRate float64, population int) Estimate {
	if snap != nil {
		match := snap.Resolve(placeName, regionCode)
		if match.Resolved() && match.Profile.PartIRate > 0 {
			zap.L().Info("using agency rate",
				zap.String("place", placeName),
				zap.String("agency", match.Profile.Name),
				zap.Float64("rate_per_100k", match.Profile.PartIRate),
				zap.String("match", match.Source.String()),
			)
			return Estimate{
				RatePer100k: match.Profile.PartIRate,
				Source:      "agency",
				AreaType:    "agency",
				Multiplier:  1,
				Agency:      match,
			}
		}
	}

	multiplier, areaType := areaMultiplier(placeName, population)
	adjusted := regionRate * multiplier
	zap.L().Info("adjusted region rate",
		zap.String("place", placeName),
		zap.Int("population", population),
		zap.String("area_type", areaType),
		zap.Float64("multiplier", multiplier),
		zap.Float64("rate_per_100k", adjusted),
	)
	return Estimate{
		RatePer100k: adjusted,
		Source:      "region_adjusted",
		AreaType:    areaType,
		Multiplier:  multiplier,
	}
}

func areaMultiplier(placeName string, population int) (float64, string) {
	if majorCities[profile.NormalizeKey(placeName)] {
		return 1.35, "urban core"
	}
	switch {
	case population >= 500_000:
		return 0.55, "suburb (large county)"
	case population >= 250_000:
		return 0.75, "mid-size area"
	case population >= 100_000:
		return 0.85, "mid-size city"
	case population >= 30_000:
		return 0.60, "suburb/small city"
	case population >= 10_000:
		return 0.45, "suburb"
	default:
		return 0.40, "rural/small town"
	}
}
