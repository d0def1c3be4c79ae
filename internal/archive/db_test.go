package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/fogworld/internal/betrayal"
	"github.com/talgya/fogworld/internal/engine"
	"github.com/talgya/fogworld/internal/entropy"
	"github.com/talgya/fogworld/internal/espionage"
	"github.com/talgya/fogworld/internal/intel"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/world"
)

func testSim(seed int64) (*engine.Simulation, *world.World) {
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	w := world.Generate(cfg)
	sim := engine.NewSimulation(engine.Deps{
		Directory: w.Roster,
		Species:   w.Roster,
		Roles:     w.Roster,
		Surveyor:  w,
		Rand:      entropy.NewSource(seed),
	})
	return sim, w
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "fogworld.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("seed", "42"))
	require.NoError(t, db.SaveMeta("seed", "43")) // Upsert.

	got, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "43", got)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sim, w := testSim(42)
	factions := []roster.FactionID{1, 2, 3, 4}

	// Exploration and a planted rumor.
	member := w.Roster.Characters()[0]
	sim.Intel.RecordExploration(member.ID, member.Region, w.Survey(member.Region), 100)
	sim.Intel.PlantMisinformation(2, member.Region, intel.MisinfoPayload{
		Threats:     []string{"predators"},
		Population:  80,
		Reliability: 0.6,
	}, 120)

	// Trust history.
	sim.Trust.RecordCooperation(1, 2, 110)
	sim.Trust.RecordCooperation(1, 2, 115)
	sim.Trust.RecordBetrayal(3, 1, 118)

	// Heartlands and a discovery.
	sim.Heartland.RecalculateAll(120)
	sim.Heartland.RecordDiscovery(2, 1)

	// One mission run to completion, one still in flight.
	var spy *roster.Character
	for _, c := range w.Roster.Characters() {
		if c.Role == roster.RoleSpy {
			spy = c
			break
		}
	}
	require.NotNil(t, spy)
	done := sim.Espionage.StartMission(espionage.MissionSpy, spy.ID, nil, spy.Region, nil, 120)
	require.NotNil(t, done)
	for tick := uint64(121); tick <= 160 && !done.Completed; tick++ {
		sim.Tick(tick)
	}
	require.True(t, done.Completed)

	var second *roster.Character
	for _, c := range w.Roster.Characters() {
		if c.Role == roster.RoleSpy && c.Faction != spy.Faction {
			second = c
			break
		}
	}
	require.NotNil(t, second)
	open := sim.Espionage.StartMission(espionage.MissionInfiltrate, second.ID, nil, second.Region, nil, sim.LastTick)
	require.NotNil(t, open)

	// A betrayal on the record.
	sim.CommitBetrayal(betrayal.CommitParams{
		Betrayer: 4,
		Victim:   1,
		Type:     betrayal.TypeTheft,
		Tick:     150,
	})

	require.NoError(t, db.SaveSnapshot(sim, factions))

	// Restore into a fresh core over the same world.
	restored, _ := testSim(42)
	require.NoError(t, db.LoadSnapshot(restored))

	assert.Equal(t, sim.LastTick, restored.LastTick)

	// Intel entries survive field for field.
	for _, f := range factions {
		assert.ElementsMatch(t, sim.Intel.KnownRegions(f), restored.Intel.KnownRegions(f), "faction %d", f)
		for _, region := range sim.Intel.KnownRegions(f) {
			want := sim.Intel.RegionIntel(f, region)
			got := restored.Intel.RegionIntel(f, region)
			require.NotNil(t, got)
			assert.InDelta(t, want.Reliability, got.Reliability, 1e-9)
			assert.Equal(t, want.Src, got.Src)
			assert.Equal(t, want.Misinformation, got.Misinformation)
			assert.Equal(t, want.DiscoveredTick, got.DiscoveredTick)
			assert.Equal(t, want.UpdatedTick, got.UpdatedTick)
			assert.ElementsMatch(t, want.Resources, got.Resources)
			assert.ElementsMatch(t, want.Threats, got.Threats)
			assert.Equal(t, want.PopEstimate, got.PopEstimate)
		}
	}
	assert.Equal(t, sim.Intel.HasExplored(member.Faction, member.Region),
		restored.Intel.HasExplored(member.Faction, member.Region))

	// Trust records.
	for _, a := range factions {
		for _, b := range factions {
			want := sim.Trust.Record(a, b)
			got := restored.Trust.Record(a, b)
			if want == nil {
				assert.Nil(t, got)
				continue
			}
			require.NotNil(t, got, "trust %d→%d", a, b)
			assert.InDelta(t, want.Score, got.Score, 1e-9)
			assert.Equal(t, want.CooperationCount, got.CooperationCount)
			assert.Equal(t, want.BetrayalCount, got.BetrayalCount)
			assert.Equal(t, want.LastTick, got.LastTick)
		}
	}

	// Heartland profiles with exposure and discoverers intact.
	for _, f := range factions {
		want := sim.Heartland.Profile(f)
		got := restored.Heartland.Profile(f)
		if want == nil {
			continue
		}
		require.NotNil(t, got, "heartland %d", f)
		assert.InDelta(t, want.Strength, got.Strength, 1e-9)
		assert.InDelta(t, want.Exposure, got.Exposure, 1e-9)
		if want.Region == nil {
			assert.Nil(t, got.Region)
		} else {
			require.NotNil(t, got.Region)
			assert.Equal(t, *want.Region, *got.Region)
		}
	}
	assert.True(t, restored.Heartland.KnowsHeartland(2, 1))

	// Missions: history, active set, cooldowns.
	require.Len(t, restored.Espionage.History(), len(sim.Espionage.History()))
	wantDone := sim.Espionage.History()[0]
	gotDone := restored.Espionage.History()[0]
	assert.Equal(t, wantDone.ID, gotDone.ID)
	assert.Equal(t, wantDone.Result, gotDone.Result)
	assert.Equal(t, wantDone.Detected, gotDone.Detected)

	require.Len(t, restored.Espionage.ActiveMissions(), 1)
	gotOpen := restored.Espionage.ActiveMissions()[0]
	assert.Equal(t, open.ID, gotOpen.ID)
	assert.Equal(t, espionage.MissionInfiltrate, gotOpen.Type)
	assert.Equal(t, open.Duration, gotOpen.Duration)
	assert.True(t, restored.Espionage.OnCooldown(spy.ID, sim.LastTick))

	// Betrayal log and reputation.
	require.Len(t, restored.Betrayal.Events(), 1)
	assert.Equal(t, betrayal.TypeTheft, restored.Betrayal.Events()[0].Type)
	assert.InDelta(t, sim.Betrayal.Reputation(4), restored.Betrayal.Reputation(4), 1e-9)

	// The event feed was archived.
	events, err := db.RecentEvents(10)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestLoadSnapshotFromEmptyDB(t *testing.T) {
	db := openTestDB(t)
	sim, _ := testSim(42)

	require.NoError(t, db.LoadSnapshot(sim))
	assert.Empty(t, sim.Intel.Factions())
	assert.Empty(t, sim.Espionage.ActiveMissions())
	assert.Empty(t, sim.Betrayal.Events())
}
