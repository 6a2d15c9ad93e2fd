package scoring

import (
	"math"
	"time"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// FeatureNames fixes the feature-vector order. The trained model's
// weight vector is aligned to this order, so it must never be
// reordered, only appended to.
var FeatureNames = []string{
	"agency_part1_rate",
	"agency_violent_rate",
	"agency_property_rate",
	"agency_weapon_rate",
	"agency_stranger_rate",
	"agency_severity_score",
	"state_crime_rate_norm",
	"population_group",
	"hourly_risk_ratio",
	"dow_risk_ratio",
	"monthly_risk_ratio",
	"time_sin",
	"time_cos",
	"is_weekend",
	"people_count_norm",
	"gender_factor",
	"weather_severity",
	"officer_density",
	"is_college_town",
	"is_urban",
	"poi_density",
	"live_events_norm",
	"live_incidents_norm",
	"moon_illumination",
	"spatial_density",
}

// Features builds the 25-element vector for one scoring context. Every
// element is clipped to [0,1] at the end, matching what the trained
// model saw during fit.
func Features(ctx *Context) []float64 {
	f := make([]float64, len(FeatureNames))

	rate := ctx.CrimeRatePer100k
	if agency := ctx.Agency.Profile; agency != nil {
		f[0] = agency.PartIRate / 8000
		f[1] = agency.ViolentRate / 2000
		f[2] = agency.PropertyRate / 6000
		f[3] = agency.WeaponRate
		f[4] = agency.StrangerRate
		f[5] = agency.SeverityScore / 10
		f[17] = agency.OfficersPer1000 / 5
	} else {
		// No profile resolved: approximate the agency block from
		// the caller-supplied area rate. This path is explicit so
		// the blend policy can reason about it.
		f[0] = rate / 8000
		f[1] = rate * 0.2 / 2000
		f[2] = rate * 0.7 / 6000
		f[3] = 0.15
		f[4] = 0.35
		f[5] = 0.3
		f[17] = 0.2
	}

	f[6] = rate / 5000
	f[7] = populationGroup(ctx.Population)
	f[8] = hourlyRiskRatio(ctx.Region, ctx.Hour)
	f[9] = dowRiskRatio(ctx.Region, ctx.Weekday)
	f[10] = monthlyRiskRatio(ctx.Region, ctx.Month)
	f[11] = math.Sin(2 * math.Pi * float64(ctx.Hour) / 24)
	f[12] = math.Cos(2 * math.Pi * float64(ctx.Hour) / 24)
	if ctx.IsWeekend {
		f[13] = 1
	}
	f[14] = float64(ctx.Travelers) / 4
	f[15] = genderFactor(ctx.Gender)
	f[16] = ctx.WeatherSeverity
	if ctx.IsCollegeTown {
		f[18] = 1
	}
	if ctx.IsUrban {
		f[19] = 1
	}
	f[20] = ctx.POIDensity
	f[21] = float64(ctx.LiveEvents) / 30
	f[22] = float64(ctx.LiveIncidents) / 50
	f[23] = ctx.MoonIllumination
	f[24] = 0.6*clip01(float64(ctx.LiveIncidents)/50) + 0.4*ctx.POIDensity

	for i := range f {
		f[i] = clip01(f[i])
	}
	return f
}

// populationGroup maps raw population onto a coarse 0.1..1.0 scale.
func populationGroup(pop int) float64 {
	switch {
	case pop >= 1_000_000:
		return 1.0
	case pop >= 500_000:
		return 0.85
	case pop >= 250_000:
		return 0.7
	case pop >= 100_000:
		return 0.55
	case pop >= 50_000:
		return 0.4
	case pop >= 10_000:
		return 0.25
	default:
		return 0.1
	}
}

// hourlyRiskRatio compares the region's incident share at this hour to
// the uniform mean. Without a region profile it falls back to a smooth
// published-statistics curve peaking in the evening.
func hourlyRiskRatio(region *profile.RegionProfile, hour int) float64 {
	if region != nil && len(region.HourlyDist) == 24 {
		var sum float64
		for _, v := range region.HourlyDist {
			sum += v
		}
		if sum > 0 {
			mean := sum / 24
			ratio := region.HourlyDist[hour] / mean
			if ratio > 3 {
				ratio = 3
			}
			return ratio / 3
		}
	}
	return clip01(0.5 + 0.3*math.Sin(2*math.Pi*float64(hour-6)/24))
}

func dowRiskRatio(region *profile.RegionProfile, weekday time.Weekday) float64 {
	if region != nil && len(region.DowDist) == 7 {
		var sum float64
		for _, v := range region.DowDist {
			sum += v
		}
		if sum > 0 {
			mean := sum / 7
			ratio := region.DowDist[mondayIndex(weekday)] / mean
			if ratio > 2 {
				ratio = 2
			}
			return ratio / 2
		}
	}
	if weekday == time.Saturday || weekday == time.Sunday {
		return 0.55
	}
	return 0.45
}

func monthlyRiskRatio(region *profile.RegionProfile, month time.Month) float64 {
	if region != nil && len(region.MonthlyDist) == 12 {
		var sum float64
		for _, v := range region.MonthlyDist {
			sum += v
		}
		if sum > 0 {
			mean := sum / 12
			ratio := region.MonthlyDist[int(month)-1] / mean
			if ratio > 2 {
				ratio = 2
			}
			return ratio / 2
		}
	}
	return 0.5
}

func genderFactor(gender string) float64 {
	switch gender {
	case "female":
		return 0.7
	case "male":
		return 0.4
	default:
		return 0.5
	}
}

func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
