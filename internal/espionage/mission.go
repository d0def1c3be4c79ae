// Package espionage runs covert missions between factions: infiltration,
// rumor-planting, counter-spying. A mission is a small state machine that
// either survives to resolution, gets its lead agent caught, or burns
// through its support pack absorbing detection hits along the way.
package espionage

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// MissionType classifies what a mission is trying to achieve.
type MissionType uint8

const (
	MissionSpy MissionType = iota
	MissionInfiltrate
	MissionSpreadRumors
	MissionCounterSpy
	MissionShareIntel
	MissionPlantMisinfo
)

// String returns the storage name of the mission type.
func (t MissionType) String() string {
	switch t {
	case MissionSpy:
		return "spy"
	case MissionInfiltrate:
		return "infiltrate"
	case MissionSpreadRumors:
		return "spread_rumors"
	case MissionCounterSpy:
		return "counter_spy"
	case MissionShareIntel:
		return "share_intel"
	case MissionPlantMisinfo:
		return "plant_misinformation"
	default:
		return "unknown"
	}
}

// MissionTypeFromString is the inverse of String; unknown names map to
// MissionSpy.
func MissionTypeFromString(s string) MissionType {
	for _, t := range []MissionType{MissionSpy, MissionInfiltrate, MissionSpreadRumors, MissionCounterSpy, MissionShareIntel, MissionPlantMisinfo} {
		if t.String() == s {
			return t
		}
	}
	return MissionSpy
}

// Base durations in ticks, before the agent's speed factor.
var baseDuration = map[MissionType]float64{
	MissionSpy:          5,
	MissionInfiltrate:   15,
	MissionSpreadRumors: 10,
	MissionCounterSpy:   20,
	MissionShareIntel:   1,
	MissionPlantMisinfo: 8,
}

// Mission results.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Mission is one covert operation in flight or in history.
type Mission struct {
	ID   uuid.UUID   `json:"id"`
	Type MissionType `json:"type"`

	Agent   roster.CharacterID   `json:"agent"`
	Support []roster.CharacterID `json:"support,omitempty"` // Ordered: absorbed in this order.

	Region        roster.RegionID   `json:"region"`
	TargetFaction *roster.FactionID `json:"target_faction,omitempty"`

	StartTick uint64 `json:"start_tick"`
	Duration  uint64 `json:"duration"`

	Detected   bool                 `json:"detected"`
	DetectedBy *roster.CharacterID  `json:"detected_by,omitempty"`
	Casualties []roster.CharacterID `json:"casualties,omitempty"`

	Completed bool   `json:"completed"`
	Result    string `json:"result,omitempty"` // Empty until terminal; empty forever if the agent died.

	Report *DetectionReport `json:"report,omitempty"`
}

// caught reports whether the character has already been burned on this
// mission (listed as a casualty).
func (m *Mission) caught(id roster.CharacterID) bool {
	for _, c := range m.Casualties {
		if c == id {
			return true
		}
	}
	return false
}

// isSupport reports whether the character rides along on this mission.
func (m *Mission) isSupport(id roster.CharacterID) bool {
	for _, c := range m.Support {
		if c == id {
			return true
		}
	}
	return false
}

// MissionDuration computes how long a mission takes for the given agent:
// the type's base duration scaled by the agent's species speed. Slow
// species take longer, fast ones finish early, never instantly.
func (e *Engine) MissionDuration(t MissionType, agent *roster.Character) uint64 {
	base := baseDuration[t]
	if base == 0 {
		base = baseDuration[MissionSpy]
	}

	speed := 50.0
	if agent != nil {
		if sp := e.species.Species(agent.Species); sp != nil && sp.Speed > 0 {
			speed = sp.Speed
		}
	}
	factor := num.Clamp(50/speed, 0.4, 2.5)

	d := uint64(math.Round(base * factor))
	if d < 1 {
		d = 1
	}
	return d
}

// StartMission allocates a mission in the active, undetected state.
// Returns nil if the agent is unknown or dead.
func (e *Engine) StartMission(t MissionType, agent roster.CharacterID, support []roster.CharacterID, region roster.RegionID, targetFaction *roster.FactionID, tick uint64) *Mission {
	ch := e.dir.Character(agent)
	if ch == nil || !ch.Alive {
		return nil
	}

	m := &Mission{
		ID:        e.rng.UUID(),
		Type:      t,
		Agent:     agent,
		Support:   append([]roster.CharacterID(nil), support...),
		Region:    region,
		StartTick: tick,
		Duration:  e.MissionDuration(t, ch),
	}
	if targetFaction != nil {
		f := *targetFaction
		m.TargetFaction = &f
	}
	e.missions = append(e.missions, m)
	return m
}

// OnCooldown reports whether the character completed a mission too recently
// to start another.
func (e *Engine) OnCooldown(id roster.CharacterID, tick uint64) bool {
	last, ok := e.lastCompletion[id]
	return ok && tick-last < cooldownTicks
}

// ActiveMissions returns missions that have not yet completed.
func (e *Engine) ActiveMissions() []*Mission {
	var out []*Mission
	for _, m := range e.missions {
		if !m.Completed {
			out = append(out, m)
		}
	}
	return out
}

// History returns completed missions still within the retention window.
func (e *Engine) History() []*Mission {
	return e.history
}
