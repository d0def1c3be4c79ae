// Package engine ties the intelligence registries together into a single
// world-state value and drives them once per tick. Nothing here is global:
// two Simulations in one process never share state, so parallel test runs
// and independent worlds cannot cross-contaminate.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/fogworld/internal/betrayal"
	"github.com/talgya/fogworld/internal/entropy"
	"github.com/talgya/fogworld/internal/espionage"
	"github.com/talgya/fogworld/internal/heartland"
	"github.com/talgya/fogworld/internal/intel"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/trust"
)

// Simulation holds one instance of every registry plus the collaborators
// they read. All mutation happens synchronously inside a tick.
type Simulation struct {
	Dir      roster.Directory
	Species  roster.SpeciesCatalog
	Roles    roster.RoleDirectory
	Surveyor intel.Surveyor
	Rand     *entropy.Source

	Intel     *intel.Map
	Trust     *trust.Ledger
	Heartland *heartland.Tracker
	Espionage *espionage.Engine
	Betrayal  *betrayal.Engine

	Events   []Event // Recent notable outcomes for narrative consumers.
	LastTick uint64
}

// Event is a notable occurrence surfaced to outer layers.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "espionage", "betrayal", "intel".
}

// Deps bundles the external collaborators a Simulation reads.
type Deps struct {
	Directory roster.Directory
	Species   roster.SpeciesCatalog
	Roles     roster.RoleDirectory
	Surveyor  intel.Surveyor
	Rand      *entropy.Source
}

// NewSimulation wires one instance of each registry around the given
// collaborators.
func NewSimulation(d Deps) *Simulation {
	intelMap := intel.NewMap(d.Directory)
	ledger := trust.NewLedger()
	hearts := heartland.NewTracker(d.Directory)

	return &Simulation{
		Dir:       d.Directory,
		Species:   d.Species,
		Roles:     d.Roles,
		Surveyor:  d.Surveyor,
		Rand:      d.Rand,
		Intel:     intelMap,
		Trust:     ledger,
		Heartland: hearts,
		Espionage: espionage.NewEngine(espionage.Deps{
			Directory: d.Directory,
			Species:   d.Species,
			Roles:     d.Roles,
			Surveyor:  d.Surveyor,
			Intel:     intelMap,
			Trust:     ledger,
			Heartland: hearts,
			Rand:      d.Rand,
		}),
		Betrayal: betrayal.NewEngine(ledger, hearts),
	}
}

// Tick advances the whole core by one world tick. Decay and the heartland
// census are applied before missions resolve, so espionage always reads
// tick-N state. Each sub-entry point is also public for hosts that own
// their own scheduling; this method documents the required order. The
// decay cadence here is once per tick — hosts calling less often get a
// proportionally longer trust and intel half-life.
func (s *Simulation) Tick(tick uint64) {
	s.LastTick = tick

	s.Intel.DecayAll(tick)
	s.Trust.TickDecay(tick)
	s.Heartland.RecalculateAll(tick)

	for _, m := range s.Espionage.TickMissions(tick) {
		s.recordMissionEvent(m, tick)
	}

	// Bound the event feed.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

func (s *Simulation) recordMissionEvent(m *espionage.Mission, tick uint64) {
	var desc string
	switch {
	case m.Result == espionage.ResultFailed:
		desc = fmt.Sprintf("%s mission in region %d was discovered", m.Type, m.Region)
	case m.Result == espionage.ResultSuccess:
		desc = fmt.Sprintf("%s mission in region %d succeeded", m.Type, m.Region)
	default:
		desc = fmt.Sprintf("%s mission in region %d went dark", m.Type, m.Region)
	}
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Description: desc,
		Category:    "espionage",
	})
}

// CommitBetrayal routes a betrayal through the consequence pipeline and
// records it on the event feed.
func (s *Simulation) CommitBetrayal(p betrayal.CommitParams) betrayal.Event {
	ev := s.Betrayal.Commit(p)
	s.Events = append(s.Events, Event{
		Tick:        p.Tick,
		Description: fmt.Sprintf("faction %d betrayed faction %d (%s)", p.Betrayer, p.Victim, p.Type),
		Category:    "betrayal",
	})
	return ev
}

// ── Read-only query surface ─────────────────────────────────────────────

// RegionIntel returns what faction f believes about region, nil if nothing.
func (s *Simulation) RegionIntel(f roster.FactionID, region roster.RegionID) *intel.RegionIntel {
	return s.Intel.RegionIntel(f, region)
}

// TrustBetween returns holder's trust toward subject.
func (s *Simulation) TrustBetween(holder, subject roster.FactionID) float64 {
	return s.Trust.Trust(holder, subject)
}

// HeartlandProfile returns the faction's territorial profile, nil if none.
func (s *Simulation) HeartlandProfile(f roster.FactionID) *heartland.Profile {
	return s.Heartland.Profile(f)
}

// ActiveMissions returns every mission still in flight.
func (s *Simulation) ActiveMissions() []*espionage.Mission {
	return s.Espionage.ActiveMissions()
}

// BetrayalReputation returns the faction's accumulated betrayal reputation.
func (s *Simulation) BetrayalReputation(f roster.FactionID) float64 {
	return s.Betrayal.Reputation(f)
}

// LogSummary emits a one-line structured summary of the core's state.
func (s *Simulation) LogSummary() {
	slog.Info("intelligence core",
		"tick", s.LastTick,
		"active_missions", len(s.Espionage.ActiveMissions()),
		"mission_history", len(s.Espionage.History()),
		"betrayals", len(s.Betrayal.Events()),
		"events", len(s.Events),
	)
}
