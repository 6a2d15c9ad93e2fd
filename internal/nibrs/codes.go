// Package nibrs holds the fixed FBI NIBRS code tables used by both the
// offline aggregation pipeline and the online scoring engine: Part I
// index-offense code sets, offense severity weights, and the code to
// human-readable name mapping.
package nibrs

// PartICodes is the FBI UCR Part I index-crime set (NIBRS offense codes).
var PartICodes = map[string]bool{
	"09A": true, "09B": true, "11A": true, "11B": true, "11C": true,
	"11D": true, "120": true, "13A": true,
	"200": true, "220": true, "23A": true, "23B": true, "23C": true,
	"23D": true, "23E": true, "23F": true, "23G": true, "23H": true,
	"240": true,
}

// ViolentCodes is the violent Part I subset.
var ViolentCodes = map[string]bool{
	"09A": true, "09B": true, "11A": true, "11B": true, "11C": true,
	"11D": true, "120": true, "13A": true,
}

// PropertyCodes is the property Part I subset.
var PropertyCodes = map[string]bool{
	"200": true, "220": true, "23A": true, "23B": true, "23C": true,
	"23D": true, "23E": true, "23F": true, "23G": true, "23H": true,
	"240": true,
}

// crimeAgainstWeight maps the NIBRS CRIME_AGAINST category to a default
// severity weight, used when an offense name has no explicit override.
var crimeAgainstWeight = map[string]float64{
	"Person":      8.0,
	"Property":    3.0,
	"Society":     2.0,
	"Not a Crime": 0.5,
}

// DefaultSeverity applies when neither the offense name nor the
// crime-against category is recognized.
const DefaultSeverity = 2.0

// severityOverrides maps NIBRS offense names to severity weights.
var severityOverrides = map[string]float64{
	"Murder and Nonnegligent Manslaughter":       10.0,
	"Justifiable Homicide":                       7.0,
	"Kidnapping/Abduction":                       9.0,
	"Rape":                                       9.0,
	"Sodomy":                                     9.0,
	"Sexual Assault With An Object":              9.0,
	"Aggravated Assault":                         8.0,
	"Simple Assault":                             5.0,
	"Intimidation":                               4.0,
	"Robbery":                                    7.0,
	"Arson":                                      7.0,
	"Extortion/Blackmail":                        6.0,
	"Burglary/Breaking & Entering":               5.0,
	"Motor Vehicle Theft":                        5.0,
	"Counterfeiting/Forgery":                     3.0,
	"False Pretenses/Swindle/Confidence Game":    3.0,
	"Credit Card/Automated Teller Machine Fraud": 3.0,
	"Wire Fraud":                                 3.0,
	"Embezzlement":                               3.0,
	"Stolen Property Offenses":                   3.0,
	"Destruction/Damage/Vandalism of Property":   3.0,
	"Drug/Narcotic Violations":                   2.0,
	"Drug Equipment Violations":                  1.5,
	"Weapon Law Violations":                      4.0,
	"Pornography/Obscene Material":               2.0,
	"Prostitution":                               1.5,
	"Gambling Violations":                        1.0,
	"Disorderly Conduct":                         1.0,
	"Trespass of Real Property":                  2.0,
	"Liquor Law Violations":                      1.0,
	"Drunkenness":                                1.0,
	"Curfew/Loitering/Vagrancy Violations":       0.5,
}

// Severity returns the severity weight for an offense, preferring the
// per-name override, then the crime-against category weight, then
// DefaultSeverity.
func Severity(offenseName, crimeAgainst string) float64 {
	if w, ok := severityOverrides[offenseName]; ok {
		return w
	}
	if w, ok := crimeAgainstWeight[crimeAgainst]; ok {
		return w
	}
	return DefaultSeverity
}

// SeverityOverrides returns a copy of the built-in offense-name severity
// table so callers can layer user overrides on top without mutating it.
func SeverityOverrides() map[string]float64 {
	m := make(map[string]float64, len(severityOverrides))
	for k, v := range severityOverrides {
		m[k] = v
	}
	return m
}

// CodeName maps NIBRS offense codes to concise human-readable crime types.
// Codes from the FBI CJIS NIBRS User Manual.
var CodeName = map[string]string{
	"09A": "Murder",
	"09B": "Negligent Manslaughter",
	"09C": "Justifiable Homicide",
	"100": "Kidnapping",
	"11A": "Forcible Rape",
	"11B": "Forcible Sodomy",
	"11C": "Sexual Assault With Object",
	"11D": "Forcible Fondling",
	"120": "Robbery",
	"13A": "Aggravated Assault",
	"13B": "Simple Assault",
	"13C": "Intimidation",
	"200": "Arson",
	"210": "Extortion",
	"220": "Burglary",
	"23A": "Pocket-Picking",
	"23B": "Purse-Snatching",
	"23C": "Shoplifting",
	"23D": "Theft From Building",
	"23E": "Theft From Vehicle",
	"23F": "Theft of Vehicle Parts",
	"23G": "Theft (Other)",
	"23H": "Larceny/Theft",
	"240": "Motor Vehicle Theft",
	"250": "Counterfeiting/Forgery",
	"26A": "Fraud (False Pretense)",
	"26B": "Credit Card Fraud",
	"26C": "Impersonation",
	"26D": "Welfare Fraud",
	"26E": "Wire Fraud",
	"26F": "Identity Theft",
	"26G": "Hacking",
	"270": "Embezzlement",
	"280": "Stolen Property",
	"290": "Vandalism",
	"30A": "Drug Possession",
	"35A": "Drug Violation",
	"35B": "Drug Equipment Violation",
	"36A": "Illegal Gambling",
	"36B": "Gambling Equipment Violation",
	"370": "Pornography",
	"39A": "Betting/Wagering",
	"39B": "Operating Gambling House",
	"39C": "Sports Tampering",
	"40A": "Prostitution",
	"40B": "Assisting Prostitution",
	"40C": "Purchasing Prostitution",
	"49B": "Curfew Violation",
	"510": "Bribery",
	"520": "Weapon Law Violation",
	"526": "Weapon Offense",
	"61A": "Animal Cruelty",
	"64A": "Human Trafficking (Labor)",
	"64B": "Human Trafficking (Sex)",
	"720": "Disorderly Conduct",
}
