package betrayal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/fogworld/internal/heartland"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/trust"
)

func actor(faction roster.FactionID) *roster.Character {
	return &roster.Character{ID: 1, Faction: faction, Alive: true}
}

func TestEconomicsBaseline(t *testing.T) {
	e := NewEngine(trust.NewLedger(), nil)

	ec := e.CalculateEconomics(actor(1), 2, TypeTheft)
	assert.InDelta(t, 0.3, ec.PotentialGain, 1e-9)
	assert.InDelta(t, 0.5, ec.PotentialLoss, 1e-9)
	assert.InDelta(t, -0.2, ec.NetValue, 1e-9)
}

func TestEconomicsPricesStandingTrust(t *testing.T) {
	ledger := trust.NewLedger()
	e := NewEngine(ledger, nil)

	// The victim trusts the actor: betraying burns that capital.
	for i := 0; i < 20; i++ {
		ledger.RecordCooperation(1, 2, uint64(i))
	}
	require.InDelta(t, 0.4, ledger.Trust(2, 1), 1e-9)

	ec := e.CalculateEconomics(actor(1), 2, TypeAmbush)
	assert.InDelta(t, 0.4, ec.PotentialGain, 1e-9)
	assert.InDelta(t, 0.5+0.4*0.5, ec.PotentialLoss, 1e-9)
}

func TestEconomicsKnownHeartlandCheapensStrike(t *testing.T) {
	ledger := trust.NewLedger()
	dir := roster.NewMemoryRoster()
	hearts := heartland.NewTracker(dir)
	e := NewEngine(ledger, hearts)

	region := roster.RegionID(7)
	hearts.SetProfile(2, &heartland.Profile{Region: &region, Strength: 0.9})

	without := e.CalculateEconomics(actor(1), 2, TypeAmbush)
	hearts.RecordDiscovery(1, 2)
	with := e.CalculateEconomics(actor(1), 2, TypeAmbush)

	assert.InDelta(t, without.PotentialGain+0.2, with.PotentialGain, 1e-9)
}

func TestEconomicsIsPure(t *testing.T) {
	ledger := trust.NewLedger()
	e := NewEngine(ledger, nil)

	e.CalculateEconomics(actor(1), 2, TypeAmbush)
	e.CalculateEconomics(actor(1), 2, TypeTerritory)

	assert.Empty(t, e.Events())
	assert.Equal(t, 0.0, e.Reputation(1))
	assert.Equal(t, 0.0, ledger.Trust(2, 1))
}

func TestCommitPipeline(t *testing.T) {
	ledger := trust.NewLedger()
	e := NewEngine(ledger, nil)

	region := roster.RegionID(7)
	ev := e.Commit(CommitParams{
		Betrayer:          1,
		BetrayerCharacter: 11,
		Victim:            2,
		Type:              TypeAmbush,
		Tick:              300,
		Region:            &region,
		Witnesses:         []roster.FactionID{3, 4},
	})

	assert.Equal(t, roster.FactionID(1), ev.Betrayer)
	assert.Equal(t, TypeAmbush, ev.Type)

	// The victim's view takes the full betrayal penalty.
	assert.InDelta(t, -0.5, ledger.Trust(2, 1), 1e-9)
	rec := ledger.Record(2, 1)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.BetrayalCount)

	// Witnesses think less of the betrayer; the betrayer's own view of
	// the victim is untouched.
	assert.InDelta(t, -0.15, ledger.Trust(3, 1), 1e-9)
	assert.InDelta(t, -0.15, ledger.Trust(4, 1), 1e-9)
	assert.Equal(t, 0.0, ledger.Trust(1, 2))

	assert.InDelta(t, 1.0, e.Reputation(1), 1e-9)
	require.Len(t, e.Events(), 1)
	require.Len(t, e.EventsByFaction(1), 1)
	assert.Empty(t, e.EventsByFaction(2))
}

func TestReputationAccumulatesByType(t *testing.T) {
	e := NewEngine(trust.NewLedger(), nil)

	e.Commit(CommitParams{Betrayer: 1, Victim: 2, Type: TypeTheft, Tick: 10})
	e.Commit(CommitParams{Betrayer: 1, Victim: 3, Type: TypeFalseIntel, Tick: 20})
	assert.InDelta(t, 0.9, e.Reputation(1), 1e-9)

	// Unknown types still weigh something.
	e.Commit(CommitParams{Betrayer: 1, Victim: 2, Type: EventType("sabotage"), Tick: 30})
	assert.InDelta(t, 1.4, e.Reputation(1), 1e-9)
}

func TestReputationRaisesFutureLoss(t *testing.T) {
	e := NewEngine(trust.NewLedger(), nil)

	before := e.CalculateEconomics(actor(1), 2, TypeTheft)
	e.Commit(CommitParams{Betrayer: 1, Victim: 3, Type: TypeAmbush, Tick: 10})
	after := e.CalculateEconomics(actor(1), 2, TypeTheft)

	assert.InDelta(t, before.PotentialLoss+1.0*0.05, after.PotentialLoss, 1e-9)
	assert.Less(t, after.NetValue, before.NetValue)
}

func TestRestoreRoundTrip(t *testing.T) {
	e := NewEngine(trust.NewLedger(), nil)
	e.Commit(CommitParams{Betrayer: 1, Victim: 2, Type: TypeBrokenPact, Tick: 50})

	events := e.Events()
	rep := map[roster.FactionID]float64{1: e.Reputation(1)}

	restored := NewEngine(trust.NewLedger(), nil)
	restored.Restore(events, rep)

	require.Len(t, restored.Events(), 1)
	assert.Equal(t, TypeBrokenPact, restored.Events()[0].Type)
	assert.InDelta(t, 0.6, restored.Reputation(1), 1e-9)
}
