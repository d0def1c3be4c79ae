package espionage

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/fogworld/internal/heartland"
	"github.com/talgya/fogworld/internal/intel"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/trust"
)

// Rand is the slice of the entropy source the mission machine consumes.
// *entropy.Source satisfies it; tests substitute scripted outcomes.
type Rand interface {
	Float() float64
	Chance(p float64) bool
	Pick(weights []float64) int
	UUID() uuid.UUID
}

// Lifecycle tuning.
const (
	cooldownTicks    = 30  // Ticks an agent must rest after a mission.
	historyRetention = 500 // Ticks past StartTick before history is pruned.

	detectionTrustPenalty = 0.3 // Applied when a caught spy is identified.

	absorbEnergyLoss = 15 // Minor outcome: the casualty is only winded.
	absorbHealthLoss = 30 // Injury outcome: the casualty is hurt.

	packSupportWeight    = 0.7 // Support strength counts at this weight.
	detectorStrengthEdge = 1.5 // Detector strength multiplier in the scuffle.
)

// Engine drives every active mission forward one tick at a time.
type Engine struct {
	dir      roster.Directory
	species  roster.SpeciesCatalog
	roles    roster.RoleDirectory
	surveyor intel.Surveyor

	intelMap *intel.Map
	ledger   *trust.Ledger
	hearts   *heartland.Tracker
	rng      Rand

	missions       []*Mission
	history        []*Mission
	lastCompletion map[roster.CharacterID]uint64
}

// Deps bundles the collaborators an espionage engine reads and writes.
type Deps struct {
	Directory roster.Directory
	Species   roster.SpeciesCatalog
	Roles     roster.RoleDirectory
	Surveyor  intel.Surveyor
	Intel     *intel.Map
	Trust     *trust.Ledger
	Heartland *heartland.Tracker
	Rand      Rand
}

// NewEngine creates an espionage engine with no missions in flight.
func NewEngine(d Deps) *Engine {
	return &Engine{
		dir:            d.Directory,
		species:        d.Species,
		roles:          d.Roles,
		surveyor:       d.Surveyor,
		intelMap:       d.Intel,
		ledger:         d.Trust,
		hearts:         d.Heartland,
		rng:            d.Rand,
		lastCompletion: make(map[roster.CharacterID]uint64),
	}
}

// TickMissions advances every open mission by one world tick and returns
// the missions that reached a terminal state this tick. Each mission gets
// at most one outcome per tick: a support member is absorbed, or the lead
// agent is exposed, or the mission resolves — never more than one.
func (e *Engine) TickMissions(tick uint64) []*Mission {
	var completed []*Mission

	for _, m := range e.missions {
		if m.Completed {
			continue
		}

		agent := e.dir.Character(m.Agent)
		if agent == nil || !agent.Alive {
			// The mission dies quietly with its agent. No result, no
			// report; the agent still burns its cooldown.
			m.Completed = true
			e.lastCompletion[m.Agent] = tick
			completed = append(completed, m)
			continue
		}

		if !m.Detected {
			sentinels := e.gatherSentinels(m)
			chance := e.DetectionChance(agent, e.livingSupport(m), sentinels)
			if e.rng.Chance(chance) {
				if e.absorbDetection(m, agent, sentinels) {
					// Pack absorbed the hit; the lead agent is never
					// exposed in the same tick a support member is caught.
					continue
				}
				e.exposeAgent(m, agent, sentinels, tick)
				completed = append(completed, m)
				continue
			}
		}

		if tick-m.StartTick >= m.Duration {
			e.resolve(m, agent, tick)
			e.complete(m, tick)
			completed = append(completed, m)
		}
	}

	e.pruneHistory(tick)
	return completed
}

// gatherSentinels finds alive sentinels present in the mission's target
// region. Only the mission's own members (agent and support) never raise
// the alarm; everyone else watches, faction-mates included.
func (e *Engine) gatherSentinels(m *Mission) []*roster.Character {
	var out []*roster.Character
	for _, c := range e.dir.InRegion(m.Region) {
		if !c.Alive || c.Role != roster.RoleSentinel {
			continue
		}
		if c.ID == m.Agent || m.isSupport(c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// livingSupport counts support members still alive and not yet caught.
func (e *Engine) livingSupport(m *Mission) int {
	n := 0
	for _, id := range m.Support {
		if m.caught(id) {
			continue
		}
		if c := e.dir.Character(id); c != nil && c.Alive {
			n++
		}
	}
	return n
}

// absorbDetection tries to shield the lead agent by sacrificing the first
// living, uncaught support member. Returns false if no one is left to
// absorb the hit.
func (e *Engine) absorbDetection(m *Mission, agent *roster.Character, sentinels []*roster.Character) bool {
	var casualty *roster.Character
	for _, id := range m.Support {
		if m.caught(id) {
			continue
		}
		if c := e.dir.Character(id); c != nil && c.Alive {
			casualty = c
			break
		}
	}
	if casualty == nil {
		return false
	}

	m.Casualties = append(m.Casualties, casualty.ID)

	detector := e.pickDetector(agent, sentinels)

	// The pack closes ranks: lead agent plus the rest of the support at
	// reduced weight, against the detector's home-ground advantage.
	packStrength := agent.Gene("strength")
	for _, id := range m.Support {
		if id == casualty.ID || m.caught(id) {
			continue
		}
		if c := e.dir.Character(id); c != nil && c.Alive {
			packStrength += packSupportWeight * c.Gene("strength")
		}
	}

	detectorStrength := 0.0
	if detector != nil {
		detectorStrength = detector.Gene("strength") * detectorStrengthEdge
	}

	if packStrength >= detectorStrength {
		casualty.Energy = max(0, casualty.Energy-absorbEnergyLoss)
	} else {
		casualty.Health = max(0, casualty.Health-absorbHealthLoss)
	}

	slog.Debug("support member absorbed detection",
		"mission", m.ID,
		"casualty", casualty.ID,
		"pack_strength", packStrength,
		"detector_strength", detectorStrength,
	)
	return true
}

// exposeAgent marks the lead agent detected and fails the mission. If the
// detector can identify the intruding faction precisely enough and the
// mission named a target, the target learns who came for it.
func (e *Engine) exposeAgent(m *Mission, agent *roster.Character, sentinels []*roster.Character, tick uint64) {
	detector := e.pickDetector(agent, sentinels)

	m.Detected = true
	if detector != nil {
		id := detector.ID
		m.DetectedBy = &id
	}
	m.Result = ResultFailed

	report := e.GenerateDetectionReport(agent, detector)
	m.Report = &report

	if m.TargetFaction != nil && report.Fidelity >= FidelitySpecies {
		e.ledger.Penalize(*m.TargetFaction, agent.Faction, detectionTrustPenalty, tick)
		e.ledger.RecordBetrayal(agent.Faction, *m.TargetFaction, tick)
	}

	e.complete(m, tick)

	slog.Info("spy detected",
		"mission", m.ID,
		"type", m.Type.String(),
		"agent", m.Agent,
		"fidelity", report.Fidelity.String(),
		"tick", tick,
	)
}

// pickDetector chooses which sentinel made the catch, weighted by how well
// each one perceives the spy. Nil when no sentinels are present.
func (e *Engine) pickDetector(agent *roster.Character, sentinels []*roster.Character) *roster.Character {
	if len(sentinels) == 0 {
		return nil
	}
	spySize := e.sizeOf(agent)
	weights := make([]float64, len(sentinels))
	for i, s := range sentinels {
		weights[i] = e.sizeEffectiveness(s, spySize)
	}
	idx := e.rng.Pick(weights)
	if idx < 0 {
		return sentinels[0]
	}
	return sentinels[idx]
}

// resolve applies a surviving mission's payoff by type. Types with no
// listed effect succeed without touching any registry.
func (e *Engine) resolve(m *Mission, agent *roster.Character, tick uint64) {
	m.Result = ResultSuccess

	switch m.Type {
	case MissionSpy:
		snap := e.surveyor.Survey(m.Region)
		e.intelMap.RecordMissionIntel(agent.Faction, m.Region, snap, 0.8, tick)

	case MissionInfiltrate:
		snap := e.surveyor.Survey(m.Region)
		e.intelMap.RecordMissionIntel(agent.Faction, m.Region, snap, 0.9, tick)
		// Living that deep inside a region uncovers every rival heartland
		// rooted in it, possibly several at once.
		for _, target := range e.hearts.FactionsWithHeartlandIn(m.Region) {
			if target == agent.Faction {
				continue
			}
			e.hearts.RecordDiscovery(agent.Faction, target)
		}

	case MissionSpreadRumors:
		if m.TargetFaction == nil {
			return
		}
		snap := e.surveyor.Survey(m.Region)
		e.intelMap.PlantMisinformation(*m.TargetFaction, m.Region, intel.MisinfoPayload{
			Threats:     []string{"predators", "plague"},
			Population:  snap.Population * 2,
			Reliability: 0.6,
		}, tick)
	}
}

// complete moves a mission into history and starts everyone's cooldown.
func (e *Engine) complete(m *Mission, tick uint64) {
	if m.Completed {
		return
	}
	m.Completed = true
	e.lastCompletion[m.Agent] = tick
	for _, id := range m.Support {
		e.lastCompletion[id] = tick
	}
}

// pruneHistory moves newly completed missions into the bounded history and
// drops entries older than the retention window.
func (e *Engine) pruneHistory(tick uint64) {
	open := e.missions[:0]
	for _, m := range e.missions {
		if m.Completed {
			e.history = append(e.history, m)
		} else {
			open = append(open, m)
		}
	}
	e.missions = open

	kept := e.history[:0]
	for _, m := range e.history {
		if tick <= m.StartTick+historyRetention {
			kept = append(kept, m)
		}
	}
	e.history = kept
}

// Restore reinstates saved missions; used when loading a snapshot.
func (e *Engine) Restore(active, history []*Mission, lastCompletion map[roster.CharacterID]uint64) {
	e.missions = active
	e.history = history
	e.lastCompletion = make(map[roster.CharacterID]uint64, len(lastCompletion))
	for id, t := range lastCompletion {
		e.lastCompletion[id] = t
	}
}

// LastCompletions exposes the cooldown table for snapshotting.
func (e *Engine) LastCompletions() map[roster.CharacterID]uint64 {
	return e.lastCompletion
}
