package heatmap

import (
	"math"
	"math/rand"
	"strings"
)

// sparseThreshold is the point count below which synthetic fill kicks in.
const sparseThreshold = 20

// POI categories that attract incidents, with relative weighting.
// Anything unlisted anchors at 0.6.
var poiCrimeWeights = map[string]float64{
	"bar": 1.5, "night_club": 1.6, "liquor_store": 1.3,
	"atm": 1.4, "bank": 0.8, "gas_station": 1.2,
	"convenience_store": 1.1, "parking": 1.3,
	"transit_station": 1.2, "bus_station": 1.1,
	"subway_station": 1.2, "train_station": 1.0,
	"shopping_mall": 0.9, "store": 0.7,
	"restaurant": 0.5, "park": 0.6,
}

// POI is a nearby point of interest used as a synthetic anchor.
type POI struct {
	Lat  float64
	Lng  float64
	Type string
	Name string
}

// TypeWeight is one crime type with its sampling probability.
type TypeWeight struct {
	Type        string
	Probability float64
}

var defaultTypeWeights = []TypeWeight{
	{"Theft", 0.4},
	{"Assault", 0.25},
	{"Burglary", 0.2},
	{"Vehicle Theft", 0.15},
}

// FillSparse pads a sparse point set with plausible synthetic points so
// the map does not render empty. Points anchor on nearby POIs weighted
// by how strongly each category attracts incidents, falling back to
// existing real points, then to a spread around the center. The count
// scales with risk. Seeding from the quantized center keeps output
// stable for a given place.
//
// Sets with at least 20 real points pass through untouched.
func FillSparse(existing []Point, centerLat, centerLng float64, safetyIndex int, pois []POI, types []TypeWeight) []Point {
	if len(existing) >= sparseThreshold {
		return existing
	}

	seed := int64(math.Abs(centerLat*1000)) + int64(math.Abs(centerLng*1000))
	rng := rand.New(rand.NewSource(seed))

	riskFactor := float64(100-safetyIndex) / 100
	n := int(80*riskFactor) + 15

	anchors := poiAnchors(pois)
	sampler := newTypeSampler(types)

	points := make([]Point, len(existing), len(existing)+n)
	copy(points, existing)

	for i := 0; i < n; i++ {
		var baseLat, baseLng, spread, baseWeight float64
		switch {
		case len(anchors) > 0 && rng.Float64() < 0.75:
			a := anchors[rng.Intn(len(anchors))]
			baseLat, baseLng = a.Lat, a.Lng
			spread = 0.003 + rng.Float64()*0.003
			baseWeight = a.weight
		case len(existing) > 0:
			p := existing[rng.Intn(len(existing))]
			baseLat, baseLng = p.Lat, p.Lng
			spread = 0.004
			baseWeight = 1.0
		default:
			baseLat, baseLng = centerLat, centerLng
			spread = 0.008
			baseWeight = 0.8
		}

		weight := (0.15 + rng.Float64()*0.6) * riskFactor * baseWeight
		points = append(points, Point{
			Lat:    round6(baseLat + rng.NormFloat64()*spread),
			Lng:    round6(baseLng + rng.NormFloat64()*spread),
			Weight: round3(math.Min(weight, 1.0)),
			Type:   sampler.sample(rng),
		})
	}
	return points
}

type poiAnchor struct {
	Lat, Lng float64
	weight   float64
}

func poiAnchors(pois []POI) []poiAnchor {
	anchors := make([]poiAnchor, 0, len(pois))
	for _, poi := range pois {
		if poi.Lat == 0 || poi.Lng == 0 {
			continue
		}
		poiType := strings.ToLower(poi.Type)
		poiName := strings.ToLower(poi.Name)
		weight := 0.6
		for key, w := range poiCrimeWeights {
			if strings.Contains(poiType, key) || strings.Contains(poiName, key) {
				if w > weight {
					weight = w
				}
			}
		}
		anchors = append(anchors, poiAnchor{Lat: poi.Lat, Lng: poi.Lng, weight: weight})
	}
	return anchors
}

// typeSampler draws crime types from a normalized cumulative
// distribution.
type typeSampler struct {
	types      []string
	cumulative []float64
}

func newTypeSampler(types []TypeWeight) *typeSampler {
	if len(types) == 0 {
		types = defaultTypeWeights
	}
	var total float64
	for _, t := range types {
		total += t.Probability
	}

	s := &typeSampler{
		types:      make([]string, len(types)),
		cumulative: make([]float64, len(types)),
	}
	var acc float64
	for i, t := range types {
		s.types[i] = t.Type
		if total > 0 {
			acc += t.Probability / total
		} else {
			acc += 1 / float64(len(types))
		}
		s.cumulative[i] = acc
	}
	return s
}

func (s *typeSampler) sample(rng *rand.Rand) string {
	r := rng.Float64()
	for i, c := range s.cumulative {
		if r <= c {
			return s.types[i]
		}
	}
	return s.types[len(s.types)-1]
}
