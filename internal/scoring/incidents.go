package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/hxxtsxxh/lumos.ai/internal/nibrs"
	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// Temporal multipliers per offense code. Time of day shifts the
// expected share of each offense: violent and disorder offenses peak at
// night, theft and fraud during business hours.
//
//	night   22:00-05:59
//	evening 18:00-21:59
//	day     06:00-17:59
type temporalMultiplier struct {
	Night, Evening, Day float64
}

var temporalMultipliers = map[string]temporalMultiplier{
	// violent
	"09A": {1.9, 1.3, 0.5},
	"09B": {1.4, 1.1, 0.7},
	"11A": {1.8, 1.3, 0.5},
	"11B": {1.7, 1.2, 0.6},
	"11C": {1.7, 1.2, 0.6},
	"11D": {1.5, 1.2, 0.7},
	"120": {1.7, 1.4, 0.5},
	"13A": {1.6, 1.4, 0.6},
	"13B": {1.3, 1.3, 0.7},
	"13C": {1.2, 1.1, 0.8},
	// property, mostly day-heavy
	"220": {1.4, 0.9, 0.8},
	"23A": {0.5, 1.1, 1.2},
	"23B": {0.6, 1.2, 1.1},
	"23C": {0.3, 0.9, 1.4},
	"23D": {0.6, 0.9, 1.2},
	"23E": {1.3, 1.0, 0.8},
	"23F": {1.4, 1.0, 0.7},
	"23G": {0.8, 1.0, 1.1},
	"23H": {0.6, 1.0, 1.2},
	"240": {1.5, 1.1, 0.6},
	"290": {1.4, 1.1, 0.7},
	// fraud, business hours
	"250": {0.3, 0.7, 1.5},
	"26A": {0.3, 0.6, 1.5},
	"26B": {0.4, 0.7, 1.4},
	"26C": {0.3, 0.6, 1.5},
	"26F": {0.4, 0.7, 1.3},
	"270": {0.2, 0.5, 1.6},
	// drugs
	"30A": {1.4, 1.2, 0.7},
	"35A": {1.5, 1.2, 0.6},
	"35B": {1.3, 1.1, 0.8},
	// weapons
	"520": {1.6, 1.3, 0.5},
	"526": {1.6, 1.3, 0.5},
	// disorder
	"720": {1.7, 1.3, 0.5},
}

func (m temporalMultiplier) at(hour int) float64 {
	switch {
	case hour >= 22 || hour < 6:
		return m.Night
	case hour >= 18:
		return m.Evening
	default:
		return m.Day
	}
}

// IncidentType is one entry of the ranked likely-incident list.
type IncidentType struct {
	Type        string  `json:"type"`
	Probability float64 `json:"probability"`
	CrimeLevel  string  `json:"crime_level"`
}

// PredictIncidentTypes shifts an agency's historical offense mix by the
// hour's temporal multipliers, renormalizes, aggregates codes that share
// a display name, and returns up to six types with probability >= 2%.
// Returns nil when the agency has no offense mix to work from.
func PredictIncidentTypes(agency *profile.AgencyProfile, hour int, ratePer100k float64) []IncidentType {
	if agency == nil || len(agency.OffenseMix) == 0 {
		return nil
	}

	adjusted := make(map[string]float64, len(agency.OffenseMix))
	var total float64
	for code, share := range agency.OffenseMix {
		mult, ok := temporalMultipliers[code]
		if !ok {
			mult = temporalMultiplier{1, 1, 1}
		}
		v := share * mult.at(hour)
		adjusted[code] = v
		total += v
	}
	if total == 0 {
		total = 1
	}

	nameProbs := make(map[string]float64, len(adjusted))
	for code, v := range adjusted {
		name, ok := nibrs.CodeName[code]
		if !ok {
			name = fmt.Sprintf("Other (%s)", code)
		}
		nameProbs[name] += v / total
	}

	names := make([]string, 0, len(nameProbs))
	for name := range nameProbs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := nameProbs[names[i]], nameProbs[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	level := CrimeLevel(ratePer100k)
	out := make([]IncidentType, 0, 6)
	for _, name := range names {
		if len(out) == 6 || nameProbs[name] < 0.02 {
			break
		}
		out = append(out, IncidentType{
			Type:        name,
			Probability: math.Round(nameProbs[name]*1000) / 1000,
			CrimeLevel:  level,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
