// Package roster defines the read-side contracts through which the
// intelligence core observes the wider simulation: who exists, where they
// are, what species they belong to, and what role they have been trained
// for. The core never owns this data; it only reads it here.
package roster

// CharacterID is a unique identifier for a character.
type CharacterID uint64

// FactionID is a unique identifier for a faction (a lineage grouping).
type FactionID uint64

// RegionID is a unique identifier for a world region.
type RegionID uint64

// SpeciesID is a unique identifier for a species.
type SpeciesID uint64

// Role is a character's trained assignment within its faction.
type Role uint8

const (
	RoleNone Role = iota
	RoleForager
	RoleSentinel // Watches for intruders; drives detection rolls.
	RoleSpy      // Trained infiltrator; proficiency lowers detection.
	RoleHunter
	RoleElder
)

// Character is a member of a faction as seen by the intelligence core.
type Character struct {
	ID      CharacterID `json:"id"`
	Name    string      `json:"name"`
	Faction FactionID   `json:"faction"`
	Species SpeciesID   `json:"species"`
	Region  RegionID    `json:"region"`
	Alive   bool        `json:"alive"`

	Role   Role    `json:"role"`
	Energy float64 `json:"energy"` // 0–100
	Health float64 `json:"health"` // 0–100

	// Named gene expressions, 0–100 ("intelligence", "strength", ...).
	Genes map[string]float64 `json:"genes"`
}

// Gene returns the named gene expression, or 0 if the character does not
// carry it.
func (c *Character) Gene(name string) float64 {
	if c == nil || c.Genes == nil {
		return 0
	}
	return c.Genes[name]
}

// Species describes the biological constants the core reads per species.
type Species struct {
	ID    SpeciesID `json:"id"`
	Name  string    `json:"name"`
	Class string    `json:"class"` // Taxonomy class, e.g. "mammal".
	Size  float64   `json:"size"`  // Typical adult size, arbitrary units.
	Speed float64   `json:"speed"` // Typical travel speed.
}

// Directory looks up characters by id and by location.
type Directory interface {
	Character(id CharacterID) *Character
	InRegion(region RegionID) []*Character
	Characters() []*Character
}

// SpeciesCatalog looks up species constants.
type SpeciesCatalog interface {
	Species(id SpeciesID) *Species
}

// RoleDirectory reports trained ability: role proficiency and the trained
// observation level that governs detection-report fidelity.
type RoleDirectory interface {
	Proficiency(id CharacterID) float64 // 0–1 for the assigned role
	Observation(id CharacterID) float64 // 0–100 trained observation level
}
