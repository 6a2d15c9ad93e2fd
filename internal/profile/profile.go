// Package profile defines the persisted statistical profile types and the
// immutable in-memory Snapshot loaded from the precompute artifacts.
package profile

// AgencyProfile is the compact statistical profile of one reporting
// agency, keyed in the artifact by the normalized agency display name.
type AgencyProfile struct {
	AgencyID        string  `json:"agency_id"`
	Name            string  `json:"name"`
	RegionCode      string  `json:"region_code"`
	County          string  `json:"county"`
	Population      int     `json:"population"`
	PopulationGroup int     `json:"population_group"`
	AgencyType      string  `json:"agency_type"`
	YearsObserved   int     `json:"n_years"`
	TotalIncidents  int     `json:"total_incidents"`
	LatestYear      int     `json:"latest_year"`

	// Annualized rates per 100k population. Zero when population is
	// unknown, never an estimate.
	PartIRate    float64 `json:"part1_rate"`
	ViolentRate  float64 `json:"violent_rate"`
	PropertyRate float64 `json:"property_rate"`
	TotalRate    float64 `json:"total_rate"`

	WeaponRate       float64 `json:"weapon_rate"`
	StrangerRate     float64 `json:"stranger_rate"`
	VictimFemaleRate float64 `json:"victim_female_rate"`
	VictimMaleRate   float64 `json:"victim_male_rate"`
	MeanVictimAge    float64 `json:"mean_victim_age"`
	OfficersPer1000  float64 `json:"officers_per_1000"`
	SeverityScore    float64 `json:"severity_score"`

	// OffenseMix holds the top offense codes renormalized to sum to 1.
	OffenseMix map[string]float64 `json:"offense_mix"`

	// Temporal histograms, each normalized to sum to 1 (or all-zero when
	// the underlying counts were all zero).
	HourlyDist  []float64 `json:"hourly_dist"`
	DowDist     []float64 `json:"dow_dist"`
	MonthlyDist []float64 `json:"monthly_dist"`
}

// RegionProfile aggregates the agency profiles of one region, weighted by
// each agency's incident count.
type RegionProfile struct {
	HourlyDist     []float64 `json:"hourly_dist"`
	DowDist        []float64 `json:"dow_dist"`
	MonthlyDist    []float64 `json:"monthly_dist"`
	TotalIncidents int       `json:"total_incidents"`
	AgencyCount    int       `json:"n_agencies"`
	WeaponRate     float64   `json:"weapon_rate"`
	StrangerRate   float64   `json:"stranger_rate"`

	// VictimSexRates keys are "M" and "F".
	VictimSexRates map[string]float64 `json:"victim_gender_rates"`

	// CrimeAgainst keys are "Person", "Property" and "Society".
	CrimeAgainst map[string]float64 `json:"crime_against_distribution"`
}

// OfficerCount returns the agency's absolute officer headcount derived
// from the stored per-1000 density.
func (p *AgencyProfile) OfficerCount() float64 {
	if p.Population <= 0 {
		return 0
	}
	return p.OfficersPer1000 * float64(p.Population) / 1000
}
