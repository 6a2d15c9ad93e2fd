package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Artifact file names produced by the precompute pipeline.
const (
	AgencyArtifact = "agency_profiles.json"
	RegionArtifact = "region_profiles.json"
)

// Snapshot is the immutable profile store. It is built once at startup
// and safe for unsynchronized concurrent reads; a new batch run replaces
// it wholesale.
type Snapshot struct {
	agencies map[string]*AgencyProfile
	regions  map[string]*RegionProfile

	// regionIndex maps region code to the agency keys in that region.
	regionIndex map[string][]string

	// Global aggregates derived at load time, incident-weighted across
	// all agencies. Used as fallbacks when a region has no profile.
	globalHourly   []float64
	globalWeapon   float64
	globalStranger float64
	globalVictim   map[string]float64
}

// Load reads both profile artifacts from dir and builds the snapshot.
// A missing region artifact degrades to agency-only operation; a missing
// agency artifact is an error since nothing can be resolved without it.
func Load(dir string) (*Snapshot, error) {
	agencies := make(map[string]*AgencyProfile)
	if err := readJSON(filepath.Join(dir, AgencyArtifact), &agencies); err != nil {
		return nil, eris.Wrap(err, "profile: load agency artifact")
	}

	regions := make(map[string]*RegionProfile)
	regionPath := filepath.Join(dir, RegionArtifact)
	if err := readJSON(regionPath, &regions); err != nil {
		if !os.IsNotExist(eris.Cause(err)) {
			return nil, eris.Wrap(err, "profile: load region artifact")
		}
		zap.L().Warn("region artifact missing, region lookups disabled",
			zap.String("path", regionPath))
		regions = map[string]*RegionProfile{}
	}

	s := New(agencies, regions)
	zap.L().Info("profile snapshot loaded",
		zap.Int("agencies", len(agencies)),
		zap.Int("regions", len(regions)),
	)
	return s, nil
}

// New builds a snapshot from already-decoded profile maps.
func New(agencies map[string]*AgencyProfile, regions map[string]*RegionProfile) *Snapshot {
	s := &Snapshot{
		agencies:     agencies,
		regions:      regions,
		regionIndex:  make(map[string][]string),
		globalHourly: make([]float64, 24),
		globalVictim: map[string]float64{"M": 0.5, "F": 0.5},
	}

	keys := make([]string, 0, len(agencies))
	for key := range agencies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var weight, weapon, stranger, male, female float64
	for _, key := range keys {
		p := agencies[key]
		if p.RegionCode != "" {
			s.regionIndex[p.RegionCode] = append(s.regionIndex[p.RegionCode], key)
		}

		w := float64(p.TotalIncidents)
		if w <= 0 {
			w = 1
		}
		weight += w
		if len(p.HourlyDist) == 24 {
			for h := 0; h < 24; h++ {
				s.globalHourly[h] += p.HourlyDist[h] * w
			}
		}
		weapon += p.WeaponRate * w
		stranger += p.StrangerRate * w
		male += p.VictimMaleRate * w
		female += p.VictimFemaleRate * w
	}

	if weight > 0 {
		var sum float64
		for _, v := range s.globalHourly {
			sum += v
		}
		if sum > 0 {
			for h := range s.globalHourly {
				s.globalHourly[h] /= sum
			}
		}
		s.globalWeapon = weapon / weight
		s.globalStranger = stranger / weight
		if vt := male + female; vt > 0 {
			s.globalVictim = map[string]float64{"M": male / vt, "F": female / vt}
		}
	}

	return s
}

// Agency returns the profile stored under the exact key, if any.
func (s *Snapshot) Agency(key string) (*AgencyProfile, bool) {
	p, ok := s.agencies[key]
	return p, ok
}

// Region returns the region profile for a region code, if any.
func (s *Snapshot) Region(code string) (*RegionProfile, bool) {
	p, ok := s.regions[code]
	return p, ok
}

// AgencyCount reports how many agency profiles are loaded.
func (s *Snapshot) AgencyCount() int { return len(s.agencies) }

// RegionCount reports how many region profiles are loaded.
func (s *Snapshot) RegionCount() int { return len(s.regions) }

// RegionCodes returns the sorted set of region codes with a profile.
func (s *Snapshot) RegionCodes() []string {
	codes := make([]string, 0, len(s.regions))
	for code := range s.regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// AgencyKeys returns the sorted agency profile keys.
func (s *Snapshot) AgencyKeys() []string {
	keys := make([]string, 0, len(s.agencies))
	for key := range s.agencies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GlobalHourly returns the incident-weighted hourly distribution across
// all agencies, normalized to sum to 1 (all-zero when no data loaded).
func (s *Snapshot) GlobalHourly() []float64 {
	out := make([]float64, 24)
	copy(out, s.globalHourly)
	return out
}

// GlobalWeaponRate returns the incident-weighted weapon involvement rate.
func (s *Snapshot) GlobalWeaponRate() float64 { return s.globalWeapon }

// GlobalStrangerRate returns the incident-weighted stranger rate.
func (s *Snapshot) GlobalStrangerRate() float64 { return s.globalStranger }

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "open")
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return eris.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return nil
}
