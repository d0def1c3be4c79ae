package roster

// MemoryRoster is an in-memory implementation of the collaborator contracts,
// used by the demo world and the tests. A real host plugs in its own.
type MemoryRoster struct {
	characters map[CharacterID]*Character
	order      []*Character // Insertion order, so iteration is replay-stable.
	byRegion   map[RegionID][]*Character
	species    map[SpeciesID]*Species

	proficiency map[CharacterID]float64
	observation map[CharacterID]float64
}

// NewMemoryRoster creates an empty roster.
func NewMemoryRoster() *MemoryRoster {
	return &MemoryRoster{
		characters:  make(map[CharacterID]*Character),
		byRegion:    make(map[RegionID][]*Character),
		species:     make(map[SpeciesID]*Species),
		proficiency: make(map[CharacterID]float64),
		observation: make(map[CharacterID]float64),
	}
}

// AddSpecies registers a species.
func (r *MemoryRoster) AddSpecies(s *Species) {
	r.species[s.ID] = s
}

// AddCharacter registers a character and indexes it by region.
func (r *MemoryRoster) AddCharacter(c *Character) {
	r.characters[c.ID] = c
	r.order = append(r.order, c)
	r.byRegion[c.Region] = append(r.byRegion[c.Region], c)
}

// SetTraining records role proficiency and trained observation for a character.
func (r *MemoryRoster) SetTraining(id CharacterID, proficiency, observation float64) {
	r.proficiency[id] = proficiency
	r.observation[id] = observation
}

// MoveCharacter relocates a character and keeps the region index current.
func (r *MemoryRoster) MoveCharacter(id CharacterID, to RegionID) {
	c := r.characters[id]
	if c == nil || c.Region == to {
		return
	}
	old := r.byRegion[c.Region]
	for i, rc := range old {
		if rc.ID == id {
			r.byRegion[c.Region] = append(old[:i], old[i+1:]...)
			break
		}
	}
	c.Region = to
	r.byRegion[to] = append(r.byRegion[to], c)
}

func (r *MemoryRoster) Character(id CharacterID) *Character {
	return r.characters[id]
}

func (r *MemoryRoster) InRegion(region RegionID) []*Character {
	return r.byRegion[region]
}

func (r *MemoryRoster) Characters() []*Character {
	return r.order
}

func (r *MemoryRoster) Species(id SpeciesID) *Species {
	return r.species[id]
}

func (r *MemoryRoster) Proficiency(id CharacterID) float64 {
	return r.proficiency[id]
}

func (r *MemoryRoster) Observation(id CharacterID) float64 {
	return r.observation[id]
}
