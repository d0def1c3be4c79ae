// Command fogsim runs the intelligence core against a generated demo
// world: factions explore, share, spy on and betray each other for a
// fixed number of ticks, then the final state is snapshotted to SQLite.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/talgya/fogworld/internal/archive"
	"github.com/talgya/fogworld/internal/betrayal"
	"github.com/talgya/fogworld/internal/engine"
	"github.com/talgya/fogworld/internal/entropy"
	"github.com/talgya/fogworld/internal/espionage"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/world"
)

func main() {
	var (
		seed   = flag.Int64("seed", 42, "world and entropy seed")
		ticks  = flag.Uint64("ticks", 600, "number of world ticks to run")
		dbPath = flag.String("db", "data/fogworld.db", "snapshot database path")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("fogworld — faction intelligence simulation", "seed", *seed, "ticks", *ticks)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := archive.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// ── Demo world (deterministic from seed) ──────────────────────────
	cfg := world.DefaultGenConfig()
	cfg.Seed = *seed
	w := world.Generate(cfg)
	slog.Info("world generated",
		"regions", len(w.Regions),
		"characters", len(w.Roster.Characters()),
	)

	// ── Core ──────────────────────────────────────────────────────────
	rng := entropy.NewSource(*seed)
	sim := engine.NewSimulation(engine.Deps{
		Directory: w.Roster,
		Species:   w.Roster,
		Roles:     w.Roster,
		Surveyor:  w,
		Rand:      rng,
	})

	factions := make([]roster.FactionID, cfg.Factions)
	for i := range factions {
		factions[i] = roster.FactionID(i + 1)
	}

	// ── Run ───────────────────────────────────────────────────────────
	for tick := uint64(1); tick <= *ticks; tick++ {
		driveFactions(sim, w, factions, rng, tick)
		sim.Tick(tick)

		if tick%200 == 0 {
			sim.LogSummary()
		}
	}

	// ── Snapshot ──────────────────────────────────────────────────────
	if err := db.SaveSnapshot(sim, factions); err != nil {
		slog.Error("snapshot failed", "error", err)
		os.Exit(1)
	}

	missions := len(sim.Espionage.History()) + len(sim.Espionage.ActiveMissions())
	fmt.Printf("\nRan %s ticks: %s missions, %s betrayals, %s events recorded.\n",
		humanize.Comma(int64(*ticks)),
		humanize.Comma(int64(missions)),
		humanize.Comma(int64(len(sim.Betrayal.Events()))),
		humanize.Comma(int64(len(sim.Events))),
	)
	for _, f := range factions {
		p := sim.HeartlandProfile(f)
		if p == nil || p.Region == nil {
			continue
		}
		fmt.Printf("faction %d heartland: region %d (strength %.2f, exposure %.2f, known to %d rivals)\n",
			f, *p.Region, p.Strength, p.Exposure, len(p.DiscoveredBy))
	}
}

// driveFactions plays a simple scripted decision layer on top of the core
// so every mechanic gets exercised: periodic exploration, trust-gated
// sharing, espionage launches and the occasional priced-in betrayal.
func driveFactions(sim *engine.Simulation, w *world.World, factions []roster.FactionID, rng *entropy.Source, tick uint64) {
	// Foragers explore their own region every 25 ticks.
	if tick%25 == 0 {
		for _, c := range w.Roster.Characters() {
			if c.Alive && c.Role == roster.RoleForager && rng.Chance(0.3) {
				sim.Intel.RecordExploration(c.ID, c.Region, w.Survey(c.Region), tick)
			}
		}
	}

	// Neighbourly cooperation and trust-gated sharing every 40 ticks.
	if tick%40 == 0 {
		for i, a := range factions {
			b := factions[(i+1)%len(factions)]
			sim.Trust.RecordCooperation(a, b, tick)
			for _, region := range sim.Intel.KnownRegions(a) {
				entry := sim.Intel.RegionIntel(a, region)
				if entry == nil {
					continue
				}
				willing, _ := sim.Trust.EvaluateIntelSharingWillingness(a, b, entry.Reliability)
				if willing {
					sim.Intel.ShareIntel(a, b, region, tick)
					break
				}
			}
		}
	}

	// Spies go out every 60 ticks, rumor campaigns every 150.
	if tick%60 == 0 {
		for _, f := range factions {
			launchMission(sim, w, f, espionage.MissionSpy, tick)
		}
	}
	if tick%150 == 0 {
		for _, f := range factions {
			launchMission(sim, w, f, espionage.MissionSpreadRumors, tick)
		}
	}

	// A faction betrays a partner when the economics look good.
	if tick%250 == 0 {
		betrayer := factions[int(tick/250)%len(factions)]
		victim := factions[(int(tick/250)+1)%len(factions)]
		actor := firstMember(w, betrayer)
		if actor == nil {
			return
		}
		econ := sim.Betrayal.CalculateEconomics(actor, victim, betrayal.TypeTheft)
		if econ.NetValue > -0.5 {
			region := actor.Region
			sim.CommitBetrayal(betrayal.CommitParams{
				Betrayer:          betrayer,
				BetrayerCharacter: actor.ID,
				Victim:            victim,
				Type:              betrayal.TypeTheft,
				Tick:              tick,
				Region:            &region,
				Witnesses:         witnessesExcept(factions, betrayer, victim),
			})
		}
	}
}

// launchMission sends a faction's spy (with a hunter as support) at the
// next faction's home ground, if the spy is rested.
func launchMission(sim *engine.Simulation, w *world.World, f roster.FactionID, t espionage.MissionType, tick uint64) {
	var agent *roster.Character
	var support []roster.CharacterID
	for _, c := range w.Roster.Characters() {
		if c.Faction != f || !c.Alive {
			continue
		}
		switch c.Role {
		case roster.RoleSpy:
			agent = c
		case roster.RoleHunter:
			support = append(support, c.ID)
		}
	}
	if agent == nil || sim.Espionage.OnCooldown(agent.ID, tick) {
		return
	}

	target := roster.FactionID(uint64(f)%4 + 1)
	if target == f {
		return
	}
	targetMember := firstMember(w, target)
	if targetMember == nil {
		return
	}

	sim.Espionage.StartMission(t, agent.ID, support, targetMember.Region, &target, tick)
}

func firstMember(w *world.World, f roster.FactionID) *roster.Character {
	var best *roster.Character
	for _, c := range w.Roster.Characters() {
		if c.Faction == f && c.Alive && (best == nil || c.ID < best.ID) {
			best = c
		}
	}
	return best
}

func witnessesExcept(factions []roster.FactionID, exclude ...roster.FactionID) []roster.FactionID {
	var out []roster.FactionID
	for _, f := range factions {
		skip := false
		for _, e := range exclude {
			if f == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, f)
		}
	}
	return out
}
