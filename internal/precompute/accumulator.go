package precompute

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hxxtsxxh/lumos.ai/internal/nibrs"
)

// agencyStats holds the running sums for one agency. All counters are
// commutative so unit accumulators can be merged in any order.
type agencyStats struct {
	Hourly  [24]int
	Dow     [7]int
	Monthly [12]int

	TotalIncidents int
	Years          map[int]bool

	OffenseCounts    map[string]int
	PartICount       int
	ViolentCount     int
	PropertyCount    int
	SeverityWeighted float64
	TotalOffenses    int
	WeaponOffenses   int

	VictimMale     int
	VictimFemale   int
	VictimAgeSum   float64
	VictimAgeCount int

	StrangerCount int
	TotalRels     int
}

func newAgencyStats() *agencyStats {
	return &agencyStats{
		Years:         make(map[int]bool),
		OffenseCounts: make(map[string]int),
	}
}

// agencyInfo is the latest-known agency metadata. It is replaced only by
// a record reporting a strictly higher population.
type agencyInfo struct {
	Name            string
	Population      int
	County          string
	RegionCode      string
	AgencyType      string
	PopulationGroup int
	MaleOfficers    int
	FemaleOfficers  int
}

// Accumulator carries per-agency running sums keyed by agency ID. One
// exists per processed unit; a batch-level one is produced by merging.
type Accumulator struct {
	Stats map[string]*agencyStats
	Info  map[string]*agencyInfo
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		Stats: make(map[string]*agencyStats),
		Info:  make(map[string]*agencyInfo),
	}
}

func (a *Accumulator) stats(agencyID string) *agencyStats {
	s, ok := a.Stats[agencyID]
	if !ok {
		s = newAgencyStats()
		a.Stats[agencyID] = s
	}
	return s
}

// observeInfo keeps the highest-population metadata record for an agency.
func (a *Accumulator) observeInfo(agencyID string, info *agencyInfo) {
	prev, ok := a.Info[agencyID]
	if !ok || info.Population > prev.Population {
		a.Info[agencyID] = info
	}
}

// Merge folds src into a. Iteration goes over sorted agency IDs so the
// floating-point severity sums accumulate in a stable order and repeated
// runs over identical input produce matching artifacts.
func (a *Accumulator) Merge(src *Accumulator) {
	ids := make([]string, 0, len(src.Stats))
	for id := range src.Stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := src.Stats[id]
		dst := a.stats(id)
		for i := 0; i < 24; i++ {
			dst.Hourly[i] += s.Hourly[i]
		}
		for i := 0; i < 7; i++ {
			dst.Dow[i] += s.Dow[i]
		}
		for i := 0; i < 12; i++ {
			dst.Monthly[i] += s.Monthly[i]
		}
		dst.TotalIncidents += s.TotalIncidents
		for y := range s.Years {
			dst.Years[y] = true
		}
		codes := make([]string, 0, len(s.OffenseCounts))
		for code := range s.OffenseCounts {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			dst.OffenseCounts[code] += s.OffenseCounts[code]
		}
		dst.PartICount += s.PartICount
		dst.ViolentCount += s.ViolentCount
		dst.PropertyCount += s.PropertyCount
		dst.SeverityWeighted += s.SeverityWeighted
		dst.TotalOffenses += s.TotalOffenses
		dst.WeaponOffenses += s.WeaponOffenses
		dst.VictimMale += s.VictimMale
		dst.VictimFemale += s.VictimFemale
		dst.VictimAgeSum += s.VictimAgeSum
		dst.VictimAgeCount += s.VictimAgeCount
		dst.StrangerCount += s.StrangerCount
		dst.TotalRels += s.TotalRels
	}

	for id, info := range src.Info {
		a.observeInfo(id, info)
	}
}

// SeverityTable resolves offense severity weights, layering user
// overrides on top of the built-in NIBRS tables.
type SeverityTable map[string]float64

// Weight returns the severity for an offense name, falling back to the
// built-in name table and then the crime-against category weight.
func (t SeverityTable) Weight(offenseName, crimeAgainst string) float64 {
	if t != nil {
		if w, ok := t[offenseName]; ok {
			return w
		}
	}
	return nibrs.Severity(offenseName, crimeAgainst)
}

// LoadSeverityOverrides reads an optional YAML file mapping offense
// names to severity weights. An empty path yields a nil table, meaning
// built-in weights only.
func LoadSeverityOverrides(path string) (SeverityTable, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "precompute: read severity overrides")
	}
	var t SeverityTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, eris.Wrap(err, "precompute: parse severity overrides")
	}
	return t, nil
}
