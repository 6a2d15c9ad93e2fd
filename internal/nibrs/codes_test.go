package nibrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_NameOverride(t *testing.T) {
	assert.Equal(t, 10.0, Severity("Murder and Nonnegligent Manslaughter", "Person"))
	assert.Equal(t, 1.5, Severity("Prostitution", "Society"))
}

func TestSeverity_CrimeAgainstFallback(t *testing.T) {
	assert.Equal(t, 8.0, Severity("Some New Offense", "Person"))
	assert.Equal(t, 3.0, Severity("Some New Offense", "Property"))
	assert.Equal(t, 0.5, Severity("Some New Offense", "Not a Crime"))
}

func TestSeverity_Default(t *testing.T) {
	assert.Equal(t, DefaultSeverity, Severity("Unknown", ""))
}

func TestPartISubsets(t *testing.T) {
	// Violent and property subsets partition Part I.
	for code := range ViolentCodes {
		assert.True(t, PartICodes[code], "violent code %s must be Part I", code)
		assert.False(t, PropertyCodes[code], "code %s in both subsets", code)
	}
	for code := range PropertyCodes {
		assert.True(t, PartICodes[code], "property code %s must be Part I", code)
	}
	assert.Len(t, PartICodes, len(ViolentCodes)+len(PropertyCodes))
}

func TestSeverityOverrides_Copy(t *testing.T) {
	m := SeverityOverrides()
	m["Robbery"] = 1.0
	assert.Equal(t, 7.0, Severity("Robbery", ""))
}
