// Package intel implements per-faction fog-of-war knowledge of the world:
// what each faction believes about each region, how that belief degrades
// over time, and how it can be shared or corrupted.
package intel

import (
	"slices"

	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// Source records how a piece of intelligence was obtained.
type Source uint8

const (
	SourceExploration Source = iota // First-hand observation.
	SourceShared                    // Received from another faction.
	SourceRumor                     // Unverified or planted.
	SourceUnknown                   // Redacted copies only; never stored.
)

// String returns the storage name of the source.
func (s Source) String() string {
	switch s {
	case SourceExploration:
		return "exploration"
	case SourceShared:
		return "shared"
	case SourceRumor:
		return "rumor"
	default:
		return "unknown"
	}
}

// Decay and sharing constants.
const (
	decayPerTick   = 0.001 // Reliability lost per tick since last decay.
	shareFactor    = 0.8   // Reliability multiplier applied on sharing.
	blendThreshold = 0.6   // Reliability at or above which planting blends.
	blendPenalty   = 0.2   // Reliability lost when planting blends.
)

// RegionIntel is one faction's belief about one region.
type RegionIntel struct {
	Region RegionID `json:"region"`

	DiscoveredTick uint64 `json:"discovered_tick"`
	UpdatedTick    uint64 `json:"updated_tick"`
	DecayTick      uint64 `json:"decay_tick"`

	Reliability float64 `json:"reliability"` // 0–1, clamped at every write.

	Resources []string `json:"resources"` // Unordered tag sets.
	Species   []string `json:"species"`
	Threats   []string `json:"threats"`

	PopEstimate int `json:"pop_estimate"`

	Src            Source              `json:"source"`
	ReporterID     *roster.CharacterID `json:"reporter_id,omitempty"` // Strippable.
	Misinformation bool                `json:"misinformation"`
}

// RegionID aliases the roster type for brevity within this package.
type RegionID = roster.RegionID

// Clone returns an independent copy, so redaction and sharing never alias
// the stored entry's slices.
func (ri *RegionIntel) Clone() *RegionIntel {
	cp := *ri
	cp.Resources = append([]string(nil), ri.Resources...)
	cp.Species = append([]string(nil), ri.Species...)
	cp.Threats = append([]string(nil), ri.Threats...)
	if ri.ReporterID != nil {
		id := *ri.ReporterID
		cp.ReporterID = &id
	}
	return &cp
}

// RegionSnapshot is the ground truth a surveyor reports for a region.
type RegionSnapshot struct {
	Resources  []string
	Species    []string
	Threats    []string
	Population int
}

// Surveyor reports a region's current ground truth. The demo world
// implements it; a real host wires its ecosystem in.
type Surveyor interface {
	Survey(region RegionID) RegionSnapshot
}

// FactionMap is one faction's complete intelligence picture.
type FactionMap struct {
	Regions        map[RegionID]*RegionIntel `json:"regions"`
	Explored       map[RegionID]bool         `json:"explored"` // Directly-explored regions.
	LastSurveyTick uint64                    `json:"last_survey_tick"`
}

// Map holds every faction's intelligence picture.
type Map struct {
	factions map[roster.FactionID]*FactionMap
	dir      roster.Directory
}

// NewMap creates an empty intelligence map reading characters from dir.
func NewMap(dir roster.Directory) *Map {
	return &Map{
		factions: make(map[roster.FactionID]*FactionMap),
		dir:      dir,
	}
}

// FactionMap returns the faction's picture, creating it lazily.
func (m *Map) FactionMap(f roster.FactionID) *FactionMap {
	fm, ok := m.factions[f]
	if !ok {
		fm = &FactionMap{
			Regions:  make(map[RegionID]*RegionIntel),
			Explored: make(map[RegionID]bool),
		}
		m.factions[f] = fm
	}
	return fm
}

// Factions returns the ids of all factions holding any intelligence.
func (m *Map) Factions() []roster.FactionID {
	out := make([]roster.FactionID, 0, len(m.factions))
	for f := range m.factions {
		out = append(out, f)
	}
	return out
}

// RecordExploration writes first-hand intelligence for the explorer's
// faction at full reliability. Unknown characters are ignored: exploration
// by someone the directory cannot place is a fog-of-war non-event.
func (m *Map) RecordExploration(characterID roster.CharacterID, region RegionID, snap RegionSnapshot, tick uint64) {
	ch := m.dir.Character(characterID)
	if ch == nil {
		return
	}
	fm := m.FactionMap(ch.Faction)

	discovered := tick
	if prior, ok := fm.Regions[region]; ok {
		discovered = prior.DiscoveredTick
	}

	id := characterID
	fm.Regions[region] = &RegionIntel{
		Region:         region,
		DiscoveredTick: discovered,
		UpdatedTick:    tick,
		DecayTick:      tick,
		Reliability:    1.0,
		Resources:      append([]string(nil), snap.Resources...),
		Species:        append([]string(nil), snap.Species...),
		Threats:        append([]string(nil), snap.Threats...),
		PopEstimate:    snap.Population,
		Src:            SourceExploration,
		ReporterID:     &id,
	}
	fm.Explored[region] = true
}

// ShareIntel copies from's entry for region into to's map at reduced
// reliability. The copy only lands if the receiver has no entry or a less
// reliable one; sharing never downgrades a better-informed faction.
func (m *Map) ShareIntel(from, to roster.FactionID, region RegionID, tick uint64) {
	src, ok := m.factions[from]
	if !ok {
		return
	}
	entry, ok := src.Regions[region]
	if !ok {
		return
	}

	shared := entry.Clone()
	shared.Reliability = num.Unit(entry.Reliability * shareFactor)
	shared.Src = SourceShared
	shared.UpdatedTick = tick
	shared.DecayTick = tick

	dst := m.FactionMap(to)
	if existing, ok := dst.Regions[region]; ok && existing.Reliability >= shared.Reliability {
		return
	}
	if prior, ok := dst.Regions[region]; ok {
		shared.DiscoveredTick = prior.DiscoveredTick
	} else {
		shared.DiscoveredTick = tick
	}
	dst.Regions[region] = shared
}

// RecordMissionIntel writes second-hand intelligence gathered by an agent
// in the field into its faction's map, at the reliability the mission type
// warrants. Any prior entry is replaced, keeping its discovery tick.
func (m *Map) RecordMissionIntel(f roster.FactionID, region RegionID, snap RegionSnapshot, reliability float64, tick uint64) {
	fm := m.FactionMap(f)
	discovered := tick
	if prior, ok := fm.Regions[region]; ok {
		discovered = prior.DiscoveredTick
	}
	fm.Regions[region] = &RegionIntel{
		Region:         region,
		DiscoveredTick: discovered,
		UpdatedTick:    tick,
		DecayTick:      tick,
		Reliability:    num.Unit(reliability),
		Resources:      append([]string(nil), snap.Resources...),
		Species:        append([]string(nil), snap.Species...),
		Threats:        append([]string(nil), snap.Threats...),
		PopEstimate:    snap.Population,
		Src:            SourceShared,
	}
}

// RegionIntel returns the faction's entry for region, or nil if unknown.
func (m *Map) RegionIntel(f roster.FactionID, region RegionID) *RegionIntel {
	fm, ok := m.factions[f]
	if !ok {
		return nil
	}
	return fm.Regions[region]
}

// KnownRegions returns every region the faction holds intelligence on,
// in ascending region order.
func (m *Map) KnownRegions(f roster.FactionID) []RegionID {
	fm, ok := m.factions[f]
	if !ok {
		return nil
	}
	out := make([]RegionID, 0, len(fm.Regions))
	for id := range fm.Regions {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// HasExplored reports whether the faction has directly explored region.
func (m *Map) HasExplored(f roster.FactionID, region RegionID) bool {
	fm, ok := m.factions[f]
	if !ok {
		return false
	}
	return fm.Explored[region]
}

// DecayAll applies reliability decay to every faction's map.
func (m *Map) DecayAll(tick uint64) {
	for _, fm := range m.factions {
		DecayReliability(fm, tick)
	}
}

// DecayReliability degrades every entry in a faction map by elapsed time
// since its last decay, evicting entries whose reliability reaches zero.
// The pass touches every entry, so it doubles as the map's survey mark.
func DecayReliability(fm *FactionMap, tick uint64) {
	for id, entry := range fm.Regions {
		since := entry.DecayTick
		if since == 0 {
			since = entry.UpdatedTick
		}
		if tick > since {
			entry.Reliability -= float64(tick-since) * decayPerTick
		}
		entry.DecayTick = tick
		if entry.Reliability <= 0 {
			delete(fm.Regions, id)
			continue
		}
		entry.Reliability = num.Unit(entry.Reliability)
	}
	fm.LastSurveyTick = tick
}
