// Package world generates the demo world the intelligence core is
// exercised against: regions with noise-derived resources and threats,
// and faction rosters distributed across them. Deterministic from seed.
package world

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/fogworld/internal/intel"
	"github.com/talgya/fogworld/internal/roster"
)

// GenConfig holds demo world generation parameters.
type GenConfig struct {
	Seed              int64
	Regions           int
	Factions          int
	MembersPerFaction int
}

// DefaultGenConfig returns a small world that still exhibits every
// mechanic: several factions, enough regions for distinct heartlands.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:              42,
		Regions:           12,
		Factions:          4,
		MembersPerFaction: 10,
	}
}

// Region is ground truth for one area of the demo world.
type Region struct {
	ID         roster.RegionID
	Name       string
	Resources  []string
	Species    []string
	Threats    []string
	Population int
}

// World is the generated demo world: ground-truth regions plus the roster
// of every faction's members. It implements the surveyor contract.
type World struct {
	Regions []*Region
	Roster  *roster.MemoryRoster

	byID map[roster.RegionID]*Region
}

var (
	resourcePool = []string{"water", "berries", "game", "shelter", "salt", "fish", "roots", "carrion"}
	speciesPool  = []string{"hare", "deer", "boar", "grouse", "vole", "trout"}
	threatPool   = []string{"predators", "floods", "scarcity", "harsh_terrain"}
)

// Generate builds a demo world from the config. Region richness comes
// from layered simplex noise; rosters come from a seeded spawn pass.
func Generate(cfg GenConfig) *World {
	richNoise := opensimplex.NewNormalized(cfg.Seed)
	threatNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	popNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	rng := rand.New(rand.NewSource(cfg.Seed + 300))

	w := &World{
		Roster: roster.NewMemoryRoster(),
		byID:   make(map[roster.RegionID]*Region),
	}

	for i := 0; i < cfg.Regions; i++ {
		x := float64(i) * 0.7
		richness := richNoise.Eval2(x, 0)
		threat := threatNoise.Eval2(x, 1)
		popScale := popNoise.Eval2(x, 2)

		r := &Region{
			ID:         roster.RegionID(i + 1),
			Name:       fmt.Sprintf("region-%02d", i+1),
			Population: 20 + int(popScale*180),
		}

		nRes := 1 + int(richness*float64(len(resourcePool)-1))
		for j := 0; j < nRes; j++ {
			r.Resources = append(r.Resources, resourcePool[(i+j)%len(resourcePool)])
		}
		nSpec := 1 + int(richness*3)
		for j := 0; j < nSpec; j++ {
			r.Species = append(r.Species, speciesPool[(i*2+j)%len(speciesPool)])
		}
		if threat > 0.5 {
			r.Threats = append(r.Threats, threatPool[i%len(threatPool)])
		}
		if threat > 0.8 {
			r.Threats = append(r.Threats, threatPool[(i+1)%len(threatPool)])
		}

		w.Regions = append(w.Regions, r)
		w.byID[r.ID] = r
	}

	w.spawnSpecies()
	w.spawnFactions(cfg, rng)
	return w
}

// spawnSpecies registers the demo species catalog.
func (w *World) spawnSpecies() {
	for _, s := range []*roster.Species{
		{ID: 1, Name: "gray wolf", Class: "mammal", Size: 40, Speed: 55},
		{ID: 2, Name: "red fox", Class: "mammal", Size: 12, Speed: 48},
		{ID: 3, Name: "brown bear", Class: "mammal", Size: 180, Speed: 40},
		{ID: 4, Name: "raven", Class: "bird", Size: 2, Speed: 70},
	} {
		w.Roster.AddSpecies(s)
	}
}

// spawnFactions creates each faction's members, concentrated in a home
// region with a scattered minority, so heartland mechanics have something
// to find.
func (w *World) spawnFactions(cfg GenConfig, rng *rand.Rand) {
	nextID := roster.CharacterID(1)
	for f := 1; f <= cfg.Factions; f++ {
		faction := roster.FactionID(f)
		home := w.Regions[(f*3)%len(w.Regions)].ID
		species := roster.SpeciesID(1 + (f-1)%4)

		for i := 0; i < cfg.MembersPerFaction; i++ {
			region := home
			if rng.Float64() > 0.8 {
				region = w.Regions[rng.Intn(len(w.Regions))].ID
			}

			role := roster.RoleForager
			switch i {
			case 0:
				role = roster.RoleSpy
			case 1, 2:
				role = roster.RoleSentinel
			case 3:
				role = roster.RoleHunter
			}

			c := &roster.Character{
				ID:      nextID,
				Name:    fmt.Sprintf("f%d-%02d", f, i+1),
				Faction: faction,
				Species: species,
				Region:  region,
				Alive:   true,
				Role:    role,
				Energy:  60 + rng.Float64()*40,
				Health:  70 + rng.Float64()*30,
				Genes: map[string]float64{
					"intelligence": 30 + rng.Float64()*60,
					"strength":     30 + rng.Float64()*60,
				},
			}
			w.Roster.AddCharacter(c)
			w.Roster.SetTraining(c.ID, 0.3+rng.Float64()*0.6, 20+rng.Float64()*70)
			nextID++
		}
	}
}

// Survey reports a region's current ground truth.
func (w *World) Survey(region roster.RegionID) intel.RegionSnapshot {
	r := w.byID[region]
	if r == nil {
		return intel.RegionSnapshot{}
	}
	return intel.RegionSnapshot{
		Resources:  append([]string(nil), r.Resources...),
		Species:    append([]string(nil), r.Species...),
		Threats:    append([]string(nil), r.Threats...),
		Population: r.Population,
	}
}

// Region returns ground truth by id, nil if unknown.
func (w *World) Region(id roster.RegionID) *Region {
	return w.byID[id]
}
