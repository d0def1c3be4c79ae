// Package heartland tracks where each faction's population is concentrated
// and which rivals have discovered that concentration. A discovered
// heartland is an asset for the discoverer and a liability for the owner.
package heartland

import (
	"github.com/talgya/fogworld/internal/roster"
)

// Thresholds and bonus magnitudes.
const (
	heartlandShare    = 0.7  // Member share that flags a full heartland.
	subThresholdShare = 0.5  // Below this, no signal at all.
	subThresholdScale = 0.7  // Strength scale for the 0.5–0.7 band.
	defenseScale      = 0.25 // Defense bonus per unit of strength.
	foragingScale     = 0.2  // Foraging bonus per unit of strength.
	huntBonus         = 0.15 // Flat bonus for hunting in a known heartland.
	exposurePerSpy    = 0.2  // Exposure gained per newly-aware rival.
)

// Profile is the recomputed territorial concentration of one faction.
type Profile struct {
	Region       *roster.RegionID          `json:"region,omitempty"` // Absent below threshold.
	Strength     float64                   `json:"strength"`         // 0–1.
	Exposure     float64                   `json:"exposure"`         // Monotonically non-decreasing.
	DiscoveredBy map[roster.FactionID]bool `json:"discovered_by"`
}

// Tracker holds every faction's heartland profile.
type Tracker struct {
	profiles map[roster.FactionID]*Profile
	dir      roster.Directory
}

// NewTracker creates a tracker reading census data from dir.
func NewTracker(dir roster.Directory) *Tracker {
	return &Tracker{
		profiles: make(map[roster.FactionID]*Profile),
		dir:      dir,
	}
}

// profile returns the faction's profile, creating it lazily.
func (t *Tracker) profile(f roster.FactionID) *Profile {
	p, ok := t.profiles[f]
	if !ok {
		p = &Profile{DiscoveredBy: make(map[roster.FactionID]bool)}
		t.profiles[f] = p
	}
	return p
}

// Profile returns the faction's current profile, or nil if the faction has
// never appeared in a census or discovery.
func (t *Tracker) Profile(f roster.FactionID) *Profile {
	return t.profiles[f]
}

// RecalculateAll recomputes every faction's concentration from a census of
// living members per region. Exposure and discoverers persist across
// recalculations; region and strength are derived wholesale each pass.
func (t *Tracker) RecalculateAll(tick uint64) {
	// Census: faction → region → living members.
	census := make(map[roster.FactionID]map[roster.RegionID]int)
	totals := make(map[roster.FactionID]int)
	for _, c := range t.dir.Characters() {
		if !c.Alive {
			continue
		}
		byRegion, ok := census[c.Faction]
		if !ok {
			byRegion = make(map[roster.RegionID]int)
			census[c.Faction] = byRegion
		}
		byRegion[c.Region]++
		totals[c.Faction]++
	}

	for faction, byRegion := range census {
		total := totals[faction]
		if total == 0 {
			continue
		}

		// Densest region; ties break toward the lowest region id so a
		// replayed run lands on the same answer.
		var best roster.RegionID
		bestCount := 0
		for region, count := range byRegion {
			if count > bestCount || (count == bestCount && region < best) {
				best = region
				bestCount = count
			}
		}

		share := float64(bestCount) / float64(total)
		p := t.profile(faction)
		switch {
		case share >= heartlandShare:
			region := best
			p.Region = &region
			p.Strength = share
		case share >= subThresholdShare:
			// Concentrated but not yet a flagged heartland: a weak signal
			// with no region attached.
			p.Region = nil
			p.Strength = share * subThresholdScale
		default:
			p.Region = nil
			p.Strength = 0
		}
	}

	// Factions that vanished from the census lose their concentration but
	// keep their exposure history.
	for faction, p := range t.profiles {
		if _, ok := census[faction]; !ok {
			p.Region = nil
			p.Strength = 0
		}
	}
}

// DefenseBonus returns the defensive advantage the faction enjoys when
// fighting in its own heartland; zero anywhere else.
func (t *Tracker) DefenseBonus(f roster.FactionID, region roster.RegionID) float64 {
	p := t.profiles[f]
	if p == nil || p.Region == nil || *p.Region != region {
		return 0
	}
	return p.Strength * defenseScale
}

// ForagingBonus returns the foraging advantage in the faction's heartland.
func (t *Tracker) ForagingBonus(f roster.FactionID, region roster.RegionID) float64 {
	p := t.profiles[f]
	if p == nil || p.Region == nil || *p.Region != region {
		return 0
	}
	return p.Strength * foragingScale
}

// RecordDiscovery notes that discoverer has learned target's heartland.
// Idempotent: a rival only raises exposure the first time it learns.
func (t *Tracker) RecordDiscovery(discoverer, target roster.FactionID) {
	p := t.profile(target)
	if p.DiscoveredBy[discoverer] {
		return
	}
	p.DiscoveredBy[discoverer] = true
	p.Exposure += exposurePerSpy
}

// KnowsHeartland reports whether observer has discovered target's heartland.
func (t *Tracker) KnowsHeartland(observer, target roster.FactionID) bool {
	p := t.profiles[target]
	return p != nil && p.DiscoveredBy[observer]
}

// HuntBonus returns the attacker's advantage when hunting in region: fixed
// if some faction's known-to-the-attacker heartland sits there, else zero.
func (t *Tracker) HuntBonus(attacker roster.FactionID, region roster.RegionID) float64 {
	for target, p := range t.profiles {
		if target == attacker {
			continue
		}
		if p.Region != nil && *p.Region == region && p.DiscoveredBy[attacker] {
			return huntBonus
		}
	}
	return 0
}

// FactionsWithHeartlandIn returns every faction whose current heartland is
// the given region.
func (t *Tracker) FactionsWithHeartlandIn(region roster.RegionID) []roster.FactionID {
	var out []roster.FactionID
	for faction, p := range t.profiles {
		if p.Region != nil && *p.Region == region {
			out = append(out, faction)
		}
	}
	return out
}

// Factions returns every faction holding a profile.
func (t *Tracker) Factions() []roster.FactionID {
	out := make([]roster.FactionID, 0, len(t.profiles))
	for f := range t.profiles {
		out = append(out, f)
	}
	return out
}

// SetProfile installs a profile wholesale; used when restoring a snapshot.
func (t *Tracker) SetProfile(f roster.FactionID, p *Profile) {
	if p.DiscoveredBy == nil {
		p.DiscoveredBy = make(map[roster.FactionID]bool)
	}
	t.profiles[f] = p
}
