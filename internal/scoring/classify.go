package scoring

// CrimeLevel buckets a Part I rate per 100k into a display label.
func CrimeLevel(ratePer100k float64) string {
	switch {
	case ratePer100k < 1500:
		return "Very Low"
	case ratePer100k < 2500:
		return "Low"
	case ratePer100k < 3500:
		return "Moderate"
	case ratePer100k < 5000:
		return "High"
	default:
		return "Very High"
	}
}

// RiskTag buckets a safety index into a risk label. Higher index means
// safer, so the bands run in the opposite direction to CrimeLevel.
func RiskTag(index int) string {
	switch {
	case index >= 75:
		return "Very Low"
	case index >= 60:
		return "Low"
	case index >= 45:
		return "Moderate"
	case index >= 30:
		return "High"
	default:
		return "Very High"
	}
}
