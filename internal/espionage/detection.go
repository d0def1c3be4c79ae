package espionage

import (
	"math"

	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// Detection tuning.
const (
	baseDetection      = 0.05
	supportCover       = 0.005 // Detection shed per living, uncaught support member.
	sentinelWeight     = 0.12
	spyRoleDiscount    = 0.15
	smartGeneThreshold = 50
	smartGeneDiscount  = 0.001
	minDetection       = 0.01
	maxDetection       = 0.8
)

// Fidelity is how precisely a detection report identifies the intruder.
// Higher tiers narrow the identification; FidelityFamily names the faction.
type Fidelity uint8

const (
	FidelitySizeClass Fidelity = iota // "Something wolf-sized" — the vaguest.
	FidelityTaxonomy                  // Taxonomy class.
	FidelitySpecies                   // Exact species.
	FidelityFamily                    // Names the intruding faction.
)

// String returns the storage name of the fidelity tier.
func (f Fidelity) String() string {
	switch f {
	case FidelityFamily:
		return "family"
	case FidelitySpecies:
		return "species"
	case FidelityTaxonomy:
		return "taxonomy_class"
	default:
		return "size_class"
	}
}

// Observation thresholds for each tier.
const (
	familyObservation   = 80
	speciesObservation  = 60
	taxonomyObservation = 30
)

// DetectionReport is what a sentinel can tell its faction about a caught
// intruder. Fields beyond the tier's fidelity stay empty.
type DetectionReport struct {
	Fidelity  Fidelity          `json:"fidelity"`
	SizeClass string            `json:"size_class"`         // Always present.
	Class     string            `json:"class,omitempty"`    // Taxonomy tier and up.
	Species   *roster.SpeciesID `json:"species,omitempty"`  // Species tier and up.
	Faction   *roster.FactionID `json:"faction,omitempty"`  // Family tier only.
}

// DetectionChance computes the per-tick probability that a mission with
// the given spy and remaining support is noticed by the sentinels present.
// Big spies stand out, a pack provides cover, trained spies and smart
// spies slip by, and sentinel effectiveness saturates logarithmically.
func (e *Engine) DetectionChance(spy *roster.Character, supportCount int, sentinels []*roster.Character) float64 {
	spySize := e.sizeOf(spy)

	chance := baseDetection * num.Clamp(spySize/40, 0.3, 2.0)
	chance -= float64(supportCount) * supportCover

	if len(sentinels) > 0 {
		total := 0.0
		for _, s := range sentinels {
			total += sentinelWeight * e.sizeEffectiveness(s, spySize)
		}
		chance += sentinelWeight * math.Log(1+total/sentinelWeight)
	}

	if spy != nil && spy.Role == roster.RoleSpy {
		chance -= e.roles.Proficiency(spy.ID) * spyRoleDiscount
	}
	if iq := spy.Gene("intelligence"); iq > smartGeneThreshold {
		chance -= (iq - smartGeneThreshold) * smartGeneDiscount
	}

	return num.Clamp(chance, minDetection, maxDetection)
}

// sizeEffectiveness scores how well a sentinel perceives a spy of the
// given size: comparable sizes see best, extremes are clamped.
func (e *Engine) sizeEffectiveness(sentinel *roster.Character, spySize float64) float64 {
	if spySize < 1 {
		spySize = 1
	}
	return num.Clamp(e.sizeOf(sentinel)/spySize, 0.2, 2.0)
}

// GenerateDetectionReport builds the report a detector can produce about
// spy. Fidelity comes from the detector's trained observation, discounted
// by size mismatch: judging a creature much bigger or smaller than
// yourself is hard. No detector means only the vaguest tier.
func (e *Engine) GenerateDetectionReport(spy, detector *roster.Character) DetectionReport {
	report := DetectionReport{
		Fidelity:  FidelitySizeClass,
		SizeClass: sizeClassOf(e.sizeOf(spy)),
	}
	if detector == nil {
		return report
	}

	spySize := math.Max(e.sizeOf(spy), 1)
	detSize := math.Max(e.sizeOf(detector), 1)
	mismatch := math.Abs(math.Log2(spySize/detSize)) * 15
	effective := math.Max(0, e.roles.Observation(detector.ID)-mismatch)

	switch {
	case effective >= familyObservation:
		report.Fidelity = FidelityFamily
	case effective >= speciesObservation:
		report.Fidelity = FidelitySpecies
	case effective >= taxonomyObservation:
		report.Fidelity = FidelityTaxonomy
	default:
		return report
	}

	if sp := e.species.Species(spy.Species); sp != nil {
		report.Class = sp.Class
		if report.Fidelity >= FidelitySpecies {
			id := sp.ID
			report.Species = &id
		}
	}
	if report.Fidelity >= FidelityFamily {
		f := spy.Faction
		report.Faction = &f
	}
	return report
}

// sizeOf reads a character's species size, defaulting to a mid-range size
// when the species is unknown.
func (e *Engine) sizeOf(c *roster.Character) float64 {
	if c == nil {
		return 40
	}
	if sp := e.species.Species(c.Species); sp != nil && sp.Size > 0 {
		return sp.Size
	}
	return 40
}

// sizeClassOf buckets a raw size into the vaguest identification tier.
func sizeClassOf(size float64) string {
	switch {
	case size < 15:
		return "small"
	case size < 45:
		return "medium"
	default:
		return "large"
	}
}
