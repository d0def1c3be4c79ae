// Package betrayal records betrayals between factions and prices them
// before they happen: a pure economics estimate for decision logic, and a
// consequence pipeline (trust penalty, reputation, witness propagation)
// for when a faction goes through with it.
package betrayal

import (
	"log/slog"

	"github.com/talgya/fogworld/internal/heartland"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/trust"
)

// EventType classifies what kind of betrayal occurred.
type EventType string

const (
	TypeAmbush     EventType = "ambush"         // Attacking a cooperating faction.
	TypeTheft      EventType = "theft"          // Raiding a partner's caches.
	TypeTerritory  EventType = "territory_grab" // Seizing ground from an ally.
	TypeBrokenPact EventType = "broken_pact"    // Reneging on an agreed exchange.
	TypeFalseIntel EventType = "false_intel"    // Knowingly trading bad intelligence.
)

// Event is one recorded betrayal. The log is append-only.
type Event struct {
	Betrayer          roster.FactionID   `json:"betrayer"`
	BetrayerCharacter roster.CharacterID `json:"betrayer_character"`
	Victim            roster.FactionID   `json:"victim"`
	Type              EventType          `json:"type"`
	Tick              uint64             `json:"tick"`
	Region            *roster.RegionID   `json:"region,omitempty"`
}

// Economics is the expected-value estimate of a contemplated betrayal.
// Pure data: computing it commits nothing.
type Economics struct {
	PotentialGain float64 `json:"potential_gain"`
	PotentialLoss float64 `json:"potential_loss"`
	NetValue      float64 `json:"net_value"`
}

// Per-type base gain of a successful betrayal.
var baseGain = map[EventType]float64{
	TypeAmbush:     0.4,
	TypeTheft:      0.3,
	TypeTerritory:  0.5,
	TypeBrokenPact: 0.25,
	TypeFalseIntel: 0.2,
}

// Engine owns the betrayal log and the per-faction reputation accumulator.
type Engine struct {
	ledger *trust.Ledger
	hearts *heartland.Tracker // Optional; enriches territory economics.

	events     []Event
	reputation map[roster.FactionID]float64
}

// NewEngine creates a betrayal engine. hearts may be nil.
func NewEngine(ledger *trust.Ledger, hearts *heartland.Tracker) *Engine {
	return &Engine{
		ledger:     ledger,
		hearts:     hearts,
		reputation: make(map[roster.FactionID]float64),
	}
}

// CalculateEconomics estimates whether betraying victim is worth it for
// actor. No side effects.
func (e *Engine) CalculateEconomics(actor *roster.Character, victim roster.FactionID, kind EventType) Economics {
	gain := baseGain[kind]
	if e.hearts != nil && actor != nil && e.hearts.KnowsHeartland(actor.Faction, victim) {
		// A known heartland makes any strike against the victim cheaper.
		gain += 0.2
	}

	loss := 0.5 // The trust penalty the victim will apply.
	if actor != nil {
		if held := e.ledger.Trust(victim, actor.Faction); held > 0 {
			// Standing trust is capital that burns with the act.
			loss += held * 0.5
		}
		loss += e.reputation[actor.Faction] * 0.05
	}

	return Economics{
		PotentialGain: gain,
		PotentialLoss: loss,
		NetValue:      gain - loss,
	}
}

// CommitParams describes a betrayal being carried out.
type CommitParams struct {
	Betrayer          roster.FactionID
	BetrayerCharacter roster.CharacterID
	Victim            roster.FactionID
	Type              EventType
	Tick              uint64
	Region            *roster.RegionID
	Witnesses         []roster.FactionID
}

// Reputation weight accumulated per betrayal type.
var reputationWeight = map[EventType]float64{
	TypeAmbush:     1.0,
	TypeTheft:      0.5,
	TypeTerritory:  0.8,
	TypeBrokenPact: 0.6,
	TypeFalseIntel: 0.4,
}

// Commit records the betrayal, applies the victim's trust penalty, grows
// the betrayer's reputation, and spreads word to any witnesses.
func (e *Engine) Commit(p CommitParams) Event {
	ev := Event{
		Betrayer:          p.Betrayer,
		BetrayerCharacter: p.BetrayerCharacter,
		Victim:            p.Victim,
		Type:              p.Type,
		Tick:              p.Tick,
		Region:            p.Region,
	}
	e.events = append(e.events, ev)

	e.ledger.RecordBetrayal(p.Betrayer, p.Victim, p.Tick)

	weight := reputationWeight[p.Type]
	if weight == 0 {
		weight = 0.5
	}
	e.reputation[p.Betrayer] += weight

	if len(p.Witnesses) > 0 {
		e.ledger.SpreadBetrayalReputation(p.Betrayer, p.Witnesses, p.Tick)
	}

	slog.Info("betrayal committed",
		"betrayer", p.Betrayer,
		"victim", p.Victim,
		"type", string(p.Type),
		"witnesses", len(p.Witnesses),
		"tick", p.Tick,
	)
	return ev
}

// Reputation returns the faction's accumulated betrayal reputation.
// Monotone: it only ever grows.
func (e *Engine) Reputation(f roster.FactionID) float64 {
	return e.reputation[f]
}

// EventsByFaction returns every recorded betrayal committed by the faction.
func (e *Engine) EventsByFaction(f roster.FactionID) []Event {
	var out []Event
	for _, ev := range e.events {
		if ev.Betrayer == f {
			out = append(out, ev)
		}
	}
	return out
}

// Events returns the full append-only log.
func (e *Engine) Events() []Event {
	return e.events
}

// Restore reinstates a saved log and reputation table; used when loading
// a snapshot.
func (e *Engine) Restore(events []Event, reputation map[roster.FactionID]float64) {
	e.events = events
	e.reputation = make(map[roster.FactionID]float64, len(reputation))
	for f, r := range reputation {
		e.reputation[f] = r
	}
}
