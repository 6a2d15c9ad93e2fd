package precompute

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/nibrs"
)

// Table names expected inside each {REGION}-{YEAR} directory, matched
// case-insensitively.
const (
	tableAgencies    = "agencies.csv"
	tableAgenciesCDE = "cde_agencies.csv"
	tableIncident    = "NIBRS_incident.csv"
	tableOffense     = "NIBRS_OFFENSE.csv"
	tableOffenseType = "NIBRS_OFFENSE_TYPE.csv"
	tableWeapon      = "NIBRS_WEAPON.csv"
	tableVictim      = "NIBRS_VICTIM.csv"
	tableVictimRel   = "NIBRS_VICTIM_OFFENDER_REL.csv"
	tableRelLookup   = "NIBRS_RELATIONSHIP.csv"
)

// ErrMissingTable marks a unit that lacks its incident table and must be
// skipped without failing the batch.
var ErrMissingTable = eris.New("precompute: required table missing")

// offenseType describes one row of the per-unit offense-type lookup.
type offenseType struct {
	Name         string
	CrimeAgainst string
	Severity     float64
	Code         string
}

// unitJoins holds the foreign-key caches scoped to a single unit. They
// are local to processUnit and released when the unit finishes, keeping
// memory bounded across a long batch run.
type unitJoins struct {
	incidentAgency  map[string]string
	offenseIncident map[string]string
}

// processUnit streams every table of one jurisdiction-year directory
// into a fresh accumulator. Rows whose foreign keys do not resolve are
// dropped silently; only a missing incident table fails the unit.
func processUnit(region string, year int, dir string, severity SeverityTable) (*Accumulator, error) {
	acc := NewAccumulator()
	log := zap.L().With(zap.String("unit", dir))

	loadAgencies(dir, region, acc)

	incidentPath := findTable(dir, tableIncident)
	if incidentPath == "" {
		return nil, eris.Wrapf(ErrMissingTable, "%s", tableIncident)
	}

	joins := &unitJoins{
		incidentAgency:  make(map[string]string),
		offenseIncident: make(map[string]string),
	}

	if err := streamIncidents(incidentPath, year, acc, joins); err != nil {
		return nil, err
	}

	types := loadOffenseTypes(dir, severity)
	streamOffenses(dir, acc, joins, types)
	streamWeapons(dir, acc, joins)
	streamVictims(dir, acc, joins)
	streamRelationships(dir, acc, joins)

	log.Debug("unit accumulated",
		zap.Int("agencies", len(acc.Stats)),
	)
	return acc, nil
}

// loadAgencies reads agency metadata, keeping the highest-population
// record per agency ID. Missing metadata is tolerated; incidents for
// unknown agencies still accumulate and are filtered at build time.
func loadAgencies(dir, region string, acc *Accumulator) {
	path := findTable(dir, tableAgencies)
	if path == "" {
		path = findTable(dir, tableAgenciesCDE)
	}
	if path == "" {
		return
	}
	t, err := openTable(path)
	if err != nil {
		zap.L().Warn("agency table unreadable", zap.String("dir", dir), zap.Error(err))
		return
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		aid := t.Col(rec, "AGENCY_ID")
		if aid == "" {
			continue
		}
		name := t.Col(rec, "PUB_AGENCY_NAME")
		if name == "" {
			name = t.Col(rec, "UCR_AGENCY_NAME")
		}
		regionCode := t.Col(rec, "STATE_ABBR")
		if regionCode == "" {
			regionCode = region
		}
		acc.observeInfo(aid, &agencyInfo{
			Name:            name,
			Population:      parseIntOr(t.Col(rec, "POPULATION"), 0),
			County:          t.Col(rec, "COUNTY_NAME"),
			RegionCode:      regionCode,
			AgencyType:      t.Col(rec, "AGENCY_TYPE_NAME"),
			PopulationGroup: parseIntOr(digitsOnly(t.Col(rec, "POPULATION_GROUP_CODE")), 0),
			MaleOfficers:    parseIntOr(t.Col(rec, "MALE_OFFICER"), 0),
			FemaleOfficers:  parseIntOr(t.Col(rec, "FEMALE_OFFICER"), 0),
		})
	}
}

// streamIncidents assigns each incident to its agency and fills the
// temporal histograms. An unparsable date skips the dow/month buckets
// but a valid hour still counts toward the hourly histogram.
func streamIncidents(path string, year int, acc *Accumulator, joins *unitJoins) error {
	t, err := openTable(path)
	if err != nil {
		return err
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		incID := t.Col(rec, "INCIDENT_ID")
		aid := t.Col(rec, "AGENCY_ID")
		if incID == "" || aid == "" {
			continue
		}

		joins.incidentAgency[incID] = aid
		s := acc.stats(aid)
		s.TotalIncidents++
		s.Years[year] = true

		if hour := parseIntOr(t.Col(rec, "INCIDENT_HOUR"), -1); hour >= 0 && hour <= 23 {
			s.Hourly[hour]++
		}
		if dt, ok := parseIncidentDate(t.Col(rec, "INCIDENT_DATE")); ok {
			s.Dow[mondayIndexed(dt.Weekday())]++
			s.Monthly[int(dt.Month())-1]++
		}
	}
	return nil
}

// offenseTypeLookup indexes the per-unit offense-type table by numeric
// type ID and by offense code.
type offenseTypeLookup struct {
	byID   map[int]offenseType
	byCode map[string]offenseType
}

// loadOffenseTypes reads the per-unit offense-type lookup table.
func loadOffenseTypes(dir string, severity SeverityTable) offenseTypeLookup {
	lookup := offenseTypeLookup{
		byID:   make(map[int]offenseType),
		byCode: make(map[string]offenseType),
	}

	path := findTable(dir, tableOffenseType)
	if path == "" {
		return lookup
	}
	t, err := openTable(path)
	if err != nil {
		return lookup
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		name := t.Col(rec, "OFFENSE_NAME")
		if name == "" {
			name = "Unknown"
		}
		ca := t.Col(rec, "CRIME_AGAINST")
		ot := offenseType{
			Name:         name,
			CrimeAgainst: ca,
			Severity:     severity.Weight(name, ca),
			Code:         t.Col(rec, "OFFENSE_CODE"),
		}
		if id := t.Col(rec, "OFFENSE_TYPE_ID"); id != "" {
			lookup.byID[parseIntOr(id, 0)] = ot
		}
		if ot.Code != "" {
			lookup.byCode[ot.Code] = ot
		}
	}
	return lookup
}

// streamOffenses resolves each offense to an agency via the incident
// join, classifies it against the fixed code sets and accumulates the
// severity-weighted sum.
func streamOffenses(dir string, acc *Accumulator, joins *unitJoins, types offenseTypeLookup) {
	path := findTable(dir, tableOffense)
	if path == "" {
		return
	}
	t, err := openTable(path)
	if err != nil {
		return
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		offID := t.Col(rec, "OFFENSE_ID")
		incID := t.Col(rec, "INCIDENT_ID")
		aid := joins.incidentAgency[incID]
		if aid == "" {
			continue
		}
		if offID != "" {
			joins.offenseIncident[offID] = incID
		}

		code := t.Col(rec, "OFFENSE_CODE")
		var ot offenseType
		var haveType bool
		if idVal := t.Col(rec, "OFFENSE_TYPE_ID"); idVal != "" {
			ot, haveType = types.byID[parseIntOr(idVal, 0)]
		}
		if code == "" && haveType {
			code = ot.Code
		}
		if !haveType && code != "" {
			ot, haveType = types.byCode[code]
		}
		code = strings.ToUpper(code)

		s := acc.stats(aid)
		s.TotalOffenses++
		if code != "" {
			s.OffenseCounts[code]++
		}

		if haveType {
			s.SeverityWeighted += ot.Severity
		} else {
			s.SeverityWeighted += nibrs.DefaultSeverity
		}

		switch {
		case nibrs.ViolentCodes[code]:
			s.ViolentCount++
			s.PartICount++
		case nibrs.PropertyCodes[code]:
			s.PropertyCount++
			s.PartICount++
		}
	}
}

// streamWeapons counts weapon-involved offenses, resolving the agency
// through the offense to incident chain, with a direct incident ID as a
// fallback for extracts that carry one.
func streamWeapons(dir string, acc *Accumulator, joins *unitJoins) {
	path := findTable(dir, tableWeapon)
	if path == "" {
		return
	}
	t, err := openTable(path)
	if err != nil {
		return
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		incID := joins.offenseIncident[t.Col(rec, "OFFENSE_ID")]
		if incID == "" {
			incID = t.Col(rec, "INCIDENT_ID")
		}
		if aid := joins.incidentAgency[incID]; aid != "" {
			acc.stats(aid).WeaponOffenses++
		}
	}
}

// streamVictims accumulates victim sex counters and the age sum. Ages
// outside (0,120) are excluded.
func streamVictims(dir string, acc *Accumulator, joins *unitJoins) {
	path := findTable(dir, tableVictim)
	if path == "" {
		return
	}
	t, err := openTable(path)
	if err != nil {
		return
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		aid := joins.incidentAgency[t.Col(rec, "INCIDENT_ID")]
		if aid == "" {
			continue
		}
		s := acc.stats(aid)
		switch t.Col(rec, "SEX_CODE") {
		case "M":
			s.VictimMale++
		case "F":
			s.VictimFemale++
		}
		if age := parseIntOr(t.Col(rec, "AGE_NUM"), -1); age > 0 && age < 120 {
			s.VictimAgeSum += float64(age)
			s.VictimAgeCount++
		}
	}
}

// streamRelationships counts stranger relationships out of all
// victim-offender relationships, using the per-unit relationship-code
// lookup table.
func streamRelationships(dir string, acc *Accumulator, joins *unitJoins) {
	path := findTable(dir, tableVictimRel)
	if path == "" {
		return
	}

	relNames := make(map[int]string)
	if lookupPath := findTable(dir, tableRelLookup); lookupPath != "" {
		if t, err := openTable(lookupPath); err == nil {
			for rec, ok := t.Next(); ok; rec, ok = t.Next() {
				id := parseIntOr(t.Col(rec, "RELATIONSHIP_ID"), 0)
				relNames[id] = t.Col(rec, "RELATIONSHIP_NAME")
			}
			t.Close()
		}
	}

	t, err := openTable(path)
	if err != nil {
		return
	}
	defer t.Close()

	for rec, ok := t.Next(); ok; rec, ok = t.Next() {
		aid := joins.incidentAgency[t.Col(rec, "INCIDENT_ID")]
		if aid == "" {
			continue
		}
		s := acc.stats(aid)
		s.TotalRels++
		name := strings.ToLower(relNames[parseIntOr(t.Col(rec, "RELATIONSHIP_ID"), 0)])
		if strings.Contains(name, "stranger") || strings.Contains(name, "unknown") {
			s.StrangerCount++
		}
	}
}
