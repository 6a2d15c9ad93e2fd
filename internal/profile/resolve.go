package profile

import "strings"

// Source identifies which lookup tier produced a resolution. The scoring
// blend policy branches on this explicitly, so it is a tagged value
// rather than an implicit nil check.
type Source int

const (
	SourceNone Source = iota
	SourceExact
	SourceSubstring
	SourceRegionFallback
)

// String returns the tier name for logging.
func (s Source) String() string {
	switch s {
	case SourceExact:
		return "exact"
	case SourceSubstring:
		return "substring"
	case SourceRegionFallback:
		return "region_fallback"
	default:
		return "none"
	}
}

// Match is the result of a resolver lookup.
type Match struct {
	Key     string
	Profile *AgencyProfile
	Source  Source
}

// Resolved reports whether the lookup found a profile.
func (m Match) Resolved() bool { return m.Source != SourceNone }

// NormalizeKey reduces a free-text place name to the profile key form:
// the first comma segment, trimmed and lower-cased.
func NormalizeKey(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve looks up an agency profile for a free-text place name.
//
// Tier 1: exact match on the normalized name.
// Tier 2: substring containment in either direction; the shortest
// matching key wins on the theory that it is the most specific.
// Tier 3: with a region code, the highest-population agency in that
// region.
// Tier 4: no match.
func (s *Snapshot) Resolve(name, regionCode string) Match {
	key := NormalizeKey(name)
	if key == "" {
		return s.regionFallback(regionCode)
	}

	if p, ok := s.agencies[key]; ok {
		return Match{Key: key, Profile: p, Source: SourceExact}
	}

	bestLen := int(^uint(0) >> 1)
	var best Match
	for _, candidate := range s.AgencyKeys() {
		if !strings.Contains(candidate, key) && !strings.Contains(key, candidate) {
			continue
		}
		if len(candidate) < bestLen {
			bestLen = len(candidate)
			best = Match{Key: candidate, Profile: s.agencies[candidate], Source: SourceSubstring}
		}
	}
	if best.Resolved() {
		return best
	}

	return s.regionFallback(regionCode)
}

func (s *Snapshot) regionFallback(regionCode string) Match {
	if regionCode == "" {
		return Match{}
	}
	var best Match
	bestPop := 0
	for _, key := range s.regionIndex[strings.ToUpper(strings.TrimSpace(regionCode))] {
		p := s.agencies[key]
		if p.Population > bestPop {
			bestPop = p.Population
			best = Match{Key: key, Profile: p, Source: SourceRegionFallback}
		}
	}
	return best
}

// ResolveRegion looks up a region profile by code, falling back to the
// region of the best agency match for the name. Mirrors the agency
// resolver's tier shape at region granularity.
func (s *Snapshot) ResolveRegion(name, regionCode string) (*RegionProfile, string, bool) {
	code := strings.ToUpper(strings.TrimSpace(regionCode))
	if p, ok := s.regions[code]; ok {
		return p, code, true
	}
	if m := s.Resolve(name, ""); m.Resolved() {
		if p, ok := s.regions[m.Profile.RegionCode]; ok {
			return p, m.Profile.RegionCode, true
		}
	}
	return nil, "", false
}
