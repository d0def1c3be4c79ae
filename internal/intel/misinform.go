package intel

import (
	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// MisinfoPayload is the fabricated picture pushed into a target faction's
// map. Empty fields fall back to whatever the target already believed.
type MisinfoPayload struct {
	Resources   []string
	Species     []string
	Threats     []string
	Population  int
	Reliability float64 // Reliability assigned when the plant overwrites.
}

// plantMode is the resolved handling for one plant call: weak or absent
// knowledge is overwritten outright; established knowledge only blends.
type plantMode uint8

const (
	plantOverwrite plantMode = iota
	plantBlend
)

func plantModeFor(existing *RegionIntel) plantMode {
	if existing == nil || existing.Reliability < blendThreshold {
		return plantOverwrite
	}
	return plantBlend
}

// PlantMisinformation corrupts the target faction's picture of region.
// Well-established knowledge (reliability ≥ 0.6) resists a full rewrite:
// it keeps its resources, species and population but absorbs the planted
// threats and loses reliability. Anything weaker is replaced wholesale.
func (m *Map) PlantMisinformation(target roster.FactionID, region RegionID, payload MisinfoPayload, tick uint64) {
	fm := m.FactionMap(target)
	existing := fm.Regions[region]

	switch plantModeFor(existing) {
	case plantOverwrite:
		if payload.Reliability <= 0 {
			// A zero-reliability entry is never resident; the plant lands
			// as an outright erasure of what little the target knew.
			delete(fm.Regions, region)
			return
		}
		planted := &RegionIntel{
			Region:         region,
			DiscoveredTick: tick,
			UpdatedTick:    tick,
			DecayTick:      tick,
			Reliability:    num.Unit(payload.Reliability),
			Resources:      append([]string(nil), payload.Resources...),
			Species:        append([]string(nil), payload.Species...),
			Threats:        append([]string(nil), payload.Threats...),
			PopEstimate:    payload.Population,
			Src:            SourceRumor,
			Misinformation: true,
		}
		if existing != nil {
			planted.DiscoveredTick = existing.DiscoveredTick
			if len(payload.Resources) == 0 {
				planted.Resources = append([]string(nil), existing.Resources...)
			}
			if len(payload.Species) == 0 {
				planted.Species = append([]string(nil), existing.Species...)
			}
			if len(payload.Threats) == 0 {
				planted.Threats = append([]string(nil), existing.Threats...)
			}
			if payload.Population == 0 {
				planted.PopEstimate = existing.PopEstimate
			}
		}
		fm.Regions[region] = planted

	case plantBlend:
		existing.Reliability = num.Unit(existing.Reliability - blendPenalty)
		existing.Threats = unionTags(existing.Threats, payload.Threats)
		existing.Misinformation = true
		existing.UpdatedTick = tick
	}
}

// unionTags appends the tags of add not already present in base.
func unionTags(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, t := range base {
		seen[t] = true
	}
	for _, t := range add {
		if !seen[t] {
			base = append(base, t)
			seen[t] = true
		}
	}
	return base
}
