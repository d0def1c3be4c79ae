package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/fogworld/internal/roster"
)

func testRoster() *roster.MemoryRoster {
	r := roster.NewMemoryRoster()
	r.AddCharacter(&roster.Character{ID: 1, Faction: 10, Region: 100, Alive: true})
	r.AddCharacter(&roster.Character{ID: 2, Faction: 20, Region: 100, Alive: true})
	return r
}

func snapshot() RegionSnapshot {
	return RegionSnapshot{
		Resources:  []string{"water", "berries"},
		Species:    []string{"hare", "deer"},
		Threats:    []string{"predators"},
		Population: 80,
	}
}

func TestRecordExploration(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(1, 100, snapshot(), 100)

	entry := m.RegionIntel(10, 100)
	require.NotNil(t, entry)
	assert.Equal(t, 1.0, entry.Reliability)
	assert.Equal(t, SourceExploration, entry.Src)
	assert.Equal(t, uint64(100), entry.DiscoveredTick)
	require.NotNil(t, entry.ReporterID)
	assert.Equal(t, roster.CharacterID(1), *entry.ReporterID)
	assert.True(t, m.HasExplored(10, 100))
	assert.False(t, m.HasExplored(20, 100))
}

func TestRecordExplorationUnknownCharacterIsNoop(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(999, 100, snapshot(), 5)

	assert.Empty(t, m.Factions())
}

func TestRecordExplorationPreservesDiscoveryTick(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(1, 100, snapshot(), 100)
	m.RecordExploration(1, 100, snapshot(), 250)

	entry := m.RegionIntel(10, 100)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(100), entry.DiscoveredTick)
	assert.Equal(t, uint64(250), entry.UpdatedTick)
}

func TestShareIntelReducesReliability(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(1, 100, snapshot(), 100)
	m.ShareIntel(10, 20, 100, 110)

	entry := m.RegionIntel(20, 100)
	require.NotNil(t, entry)
	assert.Equal(t, 0.8, entry.Reliability)
	assert.Equal(t, SourceShared, entry.Src)
	assert.False(t, m.HasExplored(20, 100))
}

func TestShareIntelNeverDowngrades(t *testing.T) {
	m := NewMap(testRoster())

	// Both factions explored first hand; sharing at 0.8 must not replace
	// the receiver's 1.0 entry.
	m.RecordExploration(1, 100, snapshot(), 100)
	m.RecordExploration(2, 100, snapshot(), 100)
	m.ShareIntel(10, 20, 100, 110)

	entry := m.RegionIntel(20, 100)
	require.NotNil(t, entry)
	assert.Equal(t, 1.0, entry.Reliability)
	assert.Equal(t, SourceExploration, entry.Src)
}

func TestShareIntelMissingSourceIsNoop(t *testing.T) {
	m := NewMap(testRoster())

	m.ShareIntel(10, 20, 100, 5)

	assert.Nil(t, m.RegionIntel(20, 100))
}

func TestPlantMisinformationOverwritesWeakKnowledge(t *testing.T) {
	m := NewMap(testRoster())

	// No prior entry: full overwrite.
	m.PlantMisinformation(20, 100, MisinfoPayload{
		Threats:     []string{"wolves"},
		Population:  500,
		Reliability: 0.6,
	}, 50)

	entry := m.RegionIntel(20, 100)
	require.NotNil(t, entry)
	assert.True(t, entry.Misinformation)
	assert.Equal(t, SourceRumor, entry.Src)
	assert.Equal(t, 0.6, entry.Reliability)
	assert.Equal(t, 500, entry.PopEstimate)
}

func TestPlantMisinformationBlendsEstablishedKnowledge(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(2, 100, snapshot(), 100)
	m.PlantMisinformation(20, 100, MisinfoPayload{
		Threats:     []string{"predators", "plague"},
		Population:  500,
		Reliability: 0.6,
	}, 120)

	entry := m.RegionIntel(20, 100)
	require.NotNil(t, entry)
	assert.True(t, entry.Misinformation)
	assert.InDelta(t, 0.8, entry.Reliability, 1e-9) // 1.0 − 0.2 exactly.
	assert.Equal(t, SourceExploration, entry.Src)

	// Resources, species and population untouched; threats unioned
	// without duplicates.
	assert.Equal(t, []string{"water", "berries"}, entry.Resources)
	assert.Equal(t, 80, entry.PopEstimate)
	assert.ElementsMatch(t, []string{"predators", "plague"}, entry.Threats)
}

func TestPlantMisinformationZeroReliabilityNeverResides(t *testing.T) {
	m := NewMap(testRoster())

	// No prior entry: nothing to store, nothing left behind.
	m.PlantMisinformation(20, 100, MisinfoPayload{Threats: []string{"wolves"}}, 50)
	assert.Nil(t, m.RegionIntel(20, 100))

	// Weak prior knowledge: a worthless plant erases it outright instead
	// of parking a reliability-0 entry until the next decay pass.
	m.PlantMisinformation(20, 100, MisinfoPayload{Population: 40, Reliability: 0.4}, 60)
	require.NotNil(t, m.RegionIntel(20, 100))
	m.PlantMisinformation(20, 100, MisinfoPayload{Threats: []string{"wolves"}}, 70)
	assert.Nil(t, m.RegionIntel(20, 100))
	assert.Empty(t, m.KnownRegions(20))
}

func TestDecayEvictsDeadIntel(t *testing.T) {
	m := NewMap(testRoster())

	m.RecordExploration(1, 100, snapshot(), 0)
	m.DecayAll(500)

	entry := m.RegionIntel(10, 100)
	require.NotNil(t, entry)
	assert.InDelta(t, 0.5, entry.Reliability, 1e-9)

	// A second pass only covers the ticks since the first.
	m.DecayAll(999)
	entry = m.RegionIntel(10, 100)
	require.NotNil(t, entry)
	assert.InDelta(t, 0.001, entry.Reliability, 1e-9)

	m.DecayAll(1100)
	assert.Nil(t, m.RegionIntel(10, 100))
	assert.Empty(t, m.KnownRegions(10))
}

func TestReliabilityStaysBoundedUnderMixedOps(t *testing.T) {
	m := NewMap(testRoster())

	for tick := uint64(0); tick < 2000; tick += 37 {
		m.RecordExploration(1, 100, snapshot(), tick)
		m.ShareIntel(10, 20, 100, tick)
		m.PlantMisinformation(20, 100, MisinfoPayload{Threats: []string{"x"}, Reliability: 0.4}, tick)
		m.DecayAll(tick)

		for _, f := range []roster.FactionID{10, 20} {
			for _, region := range m.KnownRegions(f) {
				entry := m.RegionIntel(f, region)
				assert.GreaterOrEqual(t, entry.Reliability, 0.0)
				assert.LessOrEqual(t, entry.Reliability, 1.0)
			}
		}
	}
}

func TestExploreThenShareScenario(t *testing.T) {
	m := NewMap(testRoster())

	// Faction 10 explores at tick 100, then shares with faction 20 at 110.
	m.RecordExploration(1, 100, snapshot(), 100)
	src := m.RegionIntel(10, 100)
	require.NotNil(t, src)
	assert.Equal(t, 1.0, src.Reliability)
	assert.Equal(t, "exploration", src.Src.String())

	m.ShareIntel(10, 20, 100, 110)
	dst := m.RegionIntel(20, 100)
	require.NotNil(t, dst)
	assert.Equal(t, 0.8, dst.Reliability)
	assert.Equal(t, "shared", dst.Src.String())
}
