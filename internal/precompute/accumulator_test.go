package precompute

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	a := NewAccumulator()
	as := a.stats("agency")
	as.TotalIncidents = 10
	as.Hourly[3] = 5
	as.Years[2021] = true
	as.OffenseCounts["13A"] = 4
	as.SeverityWeighted = 12.5
	as.TotalOffenses = 4

	b := NewAccumulator()
	bs := b.stats("agency")
	bs.TotalIncidents = 7
	bs.Hourly[3] = 2
	bs.Hourly[22] = 1
	bs.Years[2022] = true
	bs.OffenseCounts["13A"] = 1
	bs.OffenseCounts["23C"] = 3
	bs.SeverityWeighted = 7.5
	bs.TotalOffenses = 4
	b.stats("other").TotalIncidents = 2

	a.Merge(b)

	merged := a.Stats["agency"]
	assert.Equal(t, 17, merged.TotalIncidents)
	assert.Equal(t, 7, merged.Hourly[3])
	assert.Equal(t, 1, merged.Hourly[22])
	assert.Equal(t, map[int]bool{2021: true, 2022: true}, merged.Years)
	assert.Equal(t, 5, merged.OffenseCounts["13A"])
	assert.Equal(t, 3, merged.OffenseCounts["23C"])
	assert.InDelta(t, 20.0, merged.SeverityWeighted, 1e-9)
	assert.Equal(t, 8, merged.TotalOffenses)

	assert.Equal(t, 2, a.Stats["other"].TotalIncidents)
}

func TestObserveInfoKeepsHighestPopulation(t *testing.T) {
	acc := NewAccumulator()
	acc.observeInfo("a1", &agencyInfo{Name: "Old Record", Population: 1000})
	acc.observeInfo("a1", &agencyInfo{Name: "New Record", Population: 2000})
	acc.observeInfo("a1", &agencyInfo{Name: "Stale Record", Population: 500})

	assert.Equal(t, "New Record", acc.Info["a1"].Name)
	assert.Equal(t, 2000, acc.Info["a1"].Population)
}

func TestSeverityTableWeight(t *testing.T) {
	table := SeverityTable{"Murder and Nonnegligent Manslaughter": 12}

	assert.InDelta(t, 12, table.Weight("Murder and Nonnegligent Manslaughter", "Person"), 1e-9)

	// Unlisted names fall through to the built-in tables.
	builtin := table.Weight("Shoplifting", "Property")
	assert.Positive(t, builtin)
	assert.NotEqual(t, 12.0, builtin)

	var nilTable SeverityTable
	assert.Positive(t, nilTable.Weight("Shoplifting", "Property"))
}

func TestLoadSeverityOverrides(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		table, err := LoadSeverityOverrides("")
		require.NoError(t, err)
		assert.Nil(t, table)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "severity.yaml")
		require.NoError(t, os.WriteFile(path, []byte("Robbery: 8.5\nShoplifting: 1.0\n"), 0o644))

		table, err := LoadSeverityOverrides(path)
		require.NoError(t, err)
		assert.InDelta(t, 8.5, table.Weight("Robbery", "Person"), 1e-9)
		assert.InDelta(t, 1.0, table.Weight("Shoplifting", "Property"), 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeverityOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "severity.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

		_, err := LoadSeverityOverrides(path)
		assert.Error(t, err)
	})
}
