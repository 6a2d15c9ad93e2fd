package precompute

import (
	"math"
	"sort"
	"strings"

	"github.com/hxxtsxxh/lumos.ai/internal/nibrs"
	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// minIncidents is the emission threshold: agencies with fewer total
// incidents across the batch are dropped, not zero-filled — the sample
// is too small to be meaningful.
const minIncidents = 50

// offenseMixSize caps the offense mix at the top codes by count.
const offenseMixSize = 20

// BuildAgencyProfiles converts the batch accumulator into normalized,
// annualized agency profiles keyed by lower-cased display name. Name
// collisions are deduplicated by appending the region code.
func BuildAgencyProfiles(acc *Accumulator) map[string]*profile.AgencyProfile {
	profiles := make(map[string]*profile.AgencyProfile)

	ids := make([]string, 0, len(acc.Info))
	for id := range acc.Info {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, aid := range ids {
		info := acc.Info[aid]
		s, ok := acc.Stats[aid]
		if !ok || s.TotalIncidents < minIncidents {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(info.Name))
		if key == "" {
			continue
		}
		if _, taken := profiles[key]; taken {
			key = key + " (" + info.RegionCode + ")"
		}

		nYears := len(s.Years)
		if nYears < 1 {
			nYears = 1
		}
		latestYear := 0
		for y := range s.Years {
			if y > latestYear {
				latestYear = y
			}
		}

		p := &profile.AgencyProfile{
			AgencyID:        aid,
			Name:            info.Name,
			RegionCode:      info.RegionCode,
			County:          info.County,
			Population:      info.Population,
			PopulationGroup: info.PopulationGroup,
			AgencyType:      info.AgencyType,
			YearsObserved:   nYears,
			TotalIncidents:  s.TotalIncidents,
			LatestYear:      latestYear,
		}

		if info.Population > 0 {
			pop := float64(info.Population)
			years := float64(nYears)
			p.PartIRate = round1(float64(s.PartICount) / years / pop * 100_000)
			p.ViolentRate = round1(float64(s.ViolentCount) / years / pop * 100_000)
			p.PropertyRate = round1(float64(s.PropertyCount) / years / pop * 100_000)
			p.TotalRate = round1(float64(s.TotalIncidents) / years / pop * 100_000)
			officers := float64(info.MaleOfficers + info.FemaleOfficers)
			p.OfficersPer1000 = round2(officers / pop * 1000)
		}

		totalOff := s.TotalOffenses
		if totalOff < 1 {
			totalOff = 1
		}
		p.WeaponRate = round4(float64(s.WeaponOffenses) / float64(totalOff))
		p.SeverityScore = round3(s.SeverityWeighted / float64(totalOff))

		totalRels := s.TotalRels
		if totalRels < 1 {
			totalRels = 1
		}
		p.StrangerRate = round4(float64(s.StrangerCount) / float64(totalRels))

		if victims := s.VictimMale + s.VictimFemale; victims > 0 {
			p.VictimMaleRate = round4(float64(s.VictimMale) / float64(victims))
			p.VictimFemaleRate = round4(float64(s.VictimFemale) / float64(victims))
		} else {
			p.VictimMaleRate = 0.5
			p.VictimFemaleRate = 0.5
		}
		if s.VictimAgeCount > 0 {
			p.MeanVictimAge = round1(s.VictimAgeSum / float64(s.VictimAgeCount))
		}

		p.OffenseMix = buildOffenseMix(s.OffenseCounts)
		p.HourlyDist = normalizeCounts(s.Hourly[:])
		p.DowDist = normalizeCounts(s.Dow[:])
		p.MonthlyDist = normalizeCounts(s.Monthly[:])

		profiles[key] = p
	}

	return profiles
}

// buildOffenseMix keeps the top offenseMixSize codes by count and
// renormalizes them to sum to 1. Ties break on code order so output is
// stable across runs.
func buildOffenseMix(counts map[string]int) map[string]float64 {
	if len(counts) == 0 {
		return map[string]float64{}
	}
	type codeCount struct {
		code  string
		count int
	}
	sorted := make([]codeCount, 0, len(counts))
	for code, c := range counts {
		sorted = append(sorted, codeCount{code, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].code < sorted[j].code
	})
	if len(sorted) > offenseMixSize {
		sorted = sorted[:offenseMixSize]
	}

	total := 0
	for _, cc := range sorted {
		total += cc.count
	}
	if total < 1 {
		total = 1
	}
	mix := make(map[string]float64, len(sorted))
	for _, cc := range sorted {
		mix[cc.code] = round4(float64(cc.count) / float64(total))
	}
	return mix
}

// normalizeCounts divides a histogram by its sum. An all-zero histogram
// stays all-zero rather than being replaced by a uniform prior.
func normalizeCounts(counts []int) []float64 {
	out := make([]float64, len(counts))
	sum := 0
	for _, c := range counts {
		sum += c
	}
	if sum == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = round6(float64(c) / float64(sum))
	}
	return out
}

// regionSums carries the incident-weighted running sums for one region.
type regionSums struct {
	hourly  [24]float64
	dow     [7]float64
	monthly [12]float64

	totalIncidents int
	agencies       int

	weapon   float64
	stranger float64
	male     float64
	female   float64

	person   float64
	property float64
	society  float64
	caTotal  float64
}

// BuildRegionProfiles rolls agency profiles up into per-region profiles,
// weighting every distribution and rate by the agency's incident count.
// The crime-against distribution intersects each offense mix with the
// fixed violent/property code sets.
func BuildRegionProfiles(profiles map[string]*profile.AgencyProfile) map[string]*profile.RegionProfile {
	sums := make(map[string]*regionSums)

	keys := make([]string, 0, len(profiles))
	for key := range profiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p := profiles[key]
		if p.RegionCode == "" {
			continue
		}
		rs, ok := sums[p.RegionCode]
		if !ok {
			rs = &regionSums{}
			sums[p.RegionCode] = rs
		}

		w := float64(p.TotalIncidents)
		rs.totalIncidents += p.TotalIncidents
		rs.agencies++

		for h := 0; h < 24 && h < len(p.HourlyDist); h++ {
			rs.hourly[h] += p.HourlyDist[h] * w
		}
		for d := 0; d < 7 && d < len(p.DowDist); d++ {
			rs.dow[d] += p.DowDist[d] * w
		}
		for m := 0; m < 12 && m < len(p.MonthlyDist); m++ {
			rs.monthly[m] += p.MonthlyDist[m] * w
		}

		rs.weapon += p.WeaponRate * w
		rs.stranger += p.StrangerRate * w
		rs.male += p.VictimMaleRate * w
		rs.female += p.VictimFemaleRate * w

		codes := make([]string, 0, len(p.OffenseMix))
		for code := range p.OffenseMix {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			weighted := p.OffenseMix[code] * w
			switch {
			case nibrs.ViolentCodes[code]:
				rs.person += weighted
			case nibrs.PropertyCodes[code]:
				rs.property += weighted
			default:
				rs.society += weighted
			}
			rs.caTotal += weighted
		}
	}

	out := make(map[string]*profile.RegionProfile, len(sums))
	for code, rs := range sums {
		weight := float64(rs.totalIncidents)
		if weight < 1 {
			weight = 1
		}
		victims := rs.male + rs.female
		if victims <= 0 {
			victims = 1
		}
		caTotal := rs.caTotal
		if caTotal <= 0 {
			caTotal = 1
		}

		out[code] = &profile.RegionProfile{
			HourlyDist:     normalizeFloats(rs.hourly[:]),
			DowDist:        normalizeFloats(rs.dow[:]),
			MonthlyDist:    normalizeFloats(rs.monthly[:]),
			TotalIncidents: rs.totalIncidents,
			AgencyCount:    rs.agencies,
			WeaponRate:     round4(rs.weapon / weight),
			StrangerRate:   round4(rs.stranger / weight),
			VictimSexRates: map[string]float64{
				"M": round4(rs.male / victims),
				"F": round4(rs.female / victims),
			},
			CrimeAgainst: map[string]float64{
				"Person":   round4(rs.person / caTotal),
				"Property": round4(rs.property / caTotal),
				"Society":  round4(rs.society / caTotal),
			},
		}
	}
	return out
}

func normalizeFloats(vals []float64) []float64 {
	out := make([]float64, len(vals))
	var sum float64
	for _, v := range vals {
		sum += v
	}
	if sum == 0 {
		return out
	}
	for i, v := range vals {
		out[i] = round6(v / sum)
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
