// Package heatmap aggregates raw incident positions into weighted map
// points, with density gridding for large datasets and synthetic
// gap-fill for sparse ones.
package heatmap

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hxxtsxxh/lumos.ai/internal/nibrs"
)

const (
	// DefaultRadius is the half-width of the bounding box in degrees,
	// roughly three miles.
	DefaultRadius = 0.044
	// gridSize is the per-axis cell count for density aggregation.
	gridSize = 40
	// MaxPoints caps the emitted point count.
	MaxPoints = 2000

	// jitterSeed fixes the grid jitter stream so repeated builds over
	// the same data emit identical points.
	jitterSeed = 42
)

var titleCaser = cases.Title(language.English)

// Incident is one raw input observation.
type Incident struct {
	Lat    float64
	Lng    float64
	Type   string
	Date   string
	Source string
}

// Point is one weighted heatmap entry.
type Point struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
	Source string  `json:"source,omitempty"`
	Date   string  `json:"date,omitempty"`
}

// Build turns raw incidents into heatmap points around a center.
//
// Incidents outside the bounding box or with zero coordinates are
// dropped. Small datasets pass through as one point per incident,
// weighted by distance from center. Large datasets are aggregated on a
// 40x40 grid: one point per occupied cell at the mean incident
// position (plus a small seeded jitter so the grid does not show),
// weighted by relative density, carrying the cell's dominant type and
// most recent date.
func Build(incidents []Incident, centerLat, centerLng float64) []Point {
	return BuildRadius(incidents, centerLat, centerLng, DefaultRadius)
}

// BuildRadius is Build with a caller-supplied bounding-box half-width.
func BuildRadius(incidents []Incident, centerLat, centerLng, radius float64) []Point {
	if radius <= 0 {
		radius = DefaultRadius
	}
	bounds := geom.NewBounds(geom.XY).Set(
		centerLng-radius, centerLat-radius,
		centerLng+radius, centerLat+radius,
	)

	valid := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.Lat == 0 || inc.Lng == 0 {
			continue
		}
		if !bounds.OverlapsPoint(geom.XY, geom.Coord{inc.Lng, inc.Lat}) {
			continue
		}
		inc.Type = displayType(inc.Type)
		if len(inc.Date) > 19 {
			inc.Date = inc.Date[:19]
		}
		valid = append(valid, inc)
	}
	if len(valid) == 0 {
		return nil
	}

	if len(valid) <= MaxPoints {
		return rawPoints(valid, centerLat, centerLng, radius)
	}
	return gridPoints(valid, centerLat, centerLng, radius)
}

func rawPoints(valid []Incident, centerLat, centerLng, radius float64) []Point {
	maxDist := radius * math.Sqrt2
	points := make([]Point, 0, len(valid))
	for _, inc := range valid {
		dist := math.Hypot(inc.Lat-centerLat, inc.Lng-centerLng)
		weight := math.Max(0.15, 1-dist/maxDist)
		points = append(points, Point{
			Lat:    inc.Lat,
			Lng:    inc.Lng,
			Weight: round3(weight),
			Type:   inc.Type,
			Source: inc.Source,
			Date:   inc.Date,
		})
	}
	return points
}

type gridCell struct {
	incidents []Incident
}

func gridPoints(valid []Incident, centerLat, centerLng, radius float64) []Point {
	cellSize := 2 * radius / gridSize

	grid := make(map[[2]int]*gridCell)
	for _, inc := range valid {
		row := int((inc.Lat - (centerLat - radius)) / cellSize)
		col := int((inc.Lng - (centerLng - radius)) / cellSize)
		if row > gridSize-1 {
			row = gridSize - 1
		}
		if col > gridSize-1 {
			col = gridSize - 1
		}
		key := [2]int{row, col}
		if grid[key] == nil {
			grid[key] = &gridCell{}
		}
		grid[key].incidents = append(grid[key].incidents, inc)
	}

	maxCount := 0
	keys := make([][2]int, 0, len(grid))
	for key, cell := range grid {
		keys = append(keys, key)
		if len(cell.incidents) > maxCount {
			maxCount = len(cell.incidents)
		}
	}
	// iterate cells in a fixed order so the jitter stream is stable
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	rng := rand.New(rand.NewSource(jitterSeed))
	points := make([]Point, 0, len(grid))
	for _, key := range keys {
		cell := grid[key]
		count := len(cell.incidents)
		weight := math.Max(0.05, float64(count)/float64(maxCount))

		var sumLat, sumLng float64
		typeCounts := make(map[string]int)
		sourceCounts := make(map[string]int)
		mostRecent := ""
		for _, inc := range cell.incidents {
			sumLat += inc.Lat
			sumLng += inc.Lng
			typeCounts[inc.Type]++
			if inc.Source != "" {
				sourceCounts[inc.Source]++
			}
			if inc.Date > mostRecent {
				mostRecent = inc.Date
			}
		}

		points = append(points, Point{
			Lat:    round5(sumLat/float64(count) + rng.NormFloat64()*cellSize*0.15),
			Lng:    round5(sumLng/float64(count) + rng.NormFloat64()*cellSize*0.15),
			Weight: round3(weight),
			Type:   dominant(typeCounts),
			Source: dominant(sourceCounts),
			Date:   mostRecent,
		})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Weight > points[j].Weight })
	if len(points) > MaxPoints {
		points = points[:MaxPoints]
	}
	return points
}

// displayType normalizes a raw incident type to a display name. NIBRS
// codes map through the code table; numeric junk becomes Unknown.
func displayType(raw string) string {
	t := strings.TrimSpace(raw)
	switch t {
	case "", "0", "None", "Null", "N/A":
		return "Unknown"
	}
	if name, ok := nibrs.CodeName[strings.ToUpper(t)]; ok {
		return name
	}
	if len(t) <= 2 && isDigits(t) {
		return "Unknown"
	}
	return titleCaser.String(strings.ToLower(t))
}

func dominant(counts map[string]int) string {
	best, bestCount := "", 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round5(v float64) float64 { return math.Round(v*100000) / 100000 }
func round6(v float64) float64 { return math.Round(v*1000000) / 1000000 }
