// Package archive provides SQLite-based snapshot storage for the
// intelligence core. The core itself defines no persistence format; this
// is the host-side store that round-trips every registry field.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/fogworld/internal/betrayal"
	"github.com/talgya/fogworld/internal/engine"
	"github.com/talgya/fogworld/internal/espionage"
	"github.com/talgya/fogworld/internal/heartland"
	"github.com/talgya/fogworld/internal/intel"
	"github.com/talgya/fogworld/internal/roster"
	"github.com/talgya/fogworld/internal/trust"
)

// DB wraps a SQLite connection for intelligence-core snapshots.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS region_intel (
		faction INTEGER NOT NULL,
		region INTEGER NOT NULL,
		discovered_tick INTEGER NOT NULL,
		updated_tick INTEGER NOT NULL,
		decay_tick INTEGER NOT NULL,
		reliability REAL NOT NULL,
		resources_json TEXT NOT NULL,
		species_json TEXT NOT NULL,
		threats_json TEXT NOT NULL,
		pop_estimate INTEGER NOT NULL,
		source TEXT NOT NULL,
		reporter_id INTEGER,
		misinformation INTEGER NOT NULL,
		PRIMARY KEY (faction, region)
	);

	CREATE TABLE IF NOT EXISTS faction_maps (
		faction INTEGER PRIMARY KEY,
		last_survey_tick INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS explored_regions (
		faction INTEGER NOT NULL,
		region INTEGER NOT NULL,
		PRIMARY KEY (faction, region)
	);

	CREATE TABLE IF NOT EXISTS trust_records (
		holder INTEGER NOT NULL,
		subject INTEGER NOT NULL,
		score REAL NOT NULL,
		cooperation_count INTEGER NOT NULL,
		betrayal_count INTEGER NOT NULL,
		last_tick INTEGER NOT NULL,
		intel_shared INTEGER NOT NULL,
		intel_accuracy REAL NOT NULL,
		PRIMARY KEY (holder, subject)
	);

	CREATE TABLE IF NOT EXISTS heartland_profiles (
		faction INTEGER PRIMARY KEY,
		region INTEGER,
		strength REAL NOT NULL,
		exposure REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS heartland_discoverers (
		faction INTEGER NOT NULL,
		discoverer INTEGER NOT NULL,
		PRIMARY KEY (faction, discoverer)
	);

	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		agent INTEGER NOT NULL,
		support_json TEXT NOT NULL,
		region INTEGER NOT NULL,
		target_faction INTEGER,
		start_tick INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		detected INTEGER NOT NULL,
		detected_by INTEGER,
		casualties_json TEXT NOT NULL,
		completed INTEGER NOT NULL,
		result TEXT NOT NULL,
		report_json TEXT
	);

	CREATE TABLE IF NOT EXISTS mission_cooldowns (
		character INTEGER PRIMARY KEY,
		last_completion INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS betrayal_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		betrayer INTEGER NOT NULL,
		betrayer_character INTEGER NOT NULL,
		victim INTEGER NOT NULL,
		type TEXT NOT NULL,
		tick INTEGER NOT NULL,
		region INTEGER
	);

	CREATE TABLE IF NOT EXISTS betrayal_reputation (
		faction INTEGER PRIMARY KEY,
		score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS core_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_betrayals_betrayer ON betrayal_events(betrayer);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveIntel writes every faction's intelligence picture (full replace).
func (db *DB) SaveIntel(m *intel.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"region_intel", "faction_maps", "explored_regions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, faction := range m.Factions() {
		fm := m.FactionMap(faction)

		if _, err := tx.Exec(
			"INSERT INTO faction_maps (faction, last_survey_tick) VALUES (?, ?)",
			faction, fm.LastSurveyTick,
		); err != nil {
			return err
		}

		for region := range fm.Explored {
			if _, err := tx.Exec(
				"INSERT INTO explored_regions (faction, region) VALUES (?, ?)",
				faction, region,
			); err != nil {
				return err
			}
		}

		for _, entry := range fm.Regions {
			resJSON, _ := json.Marshal(entry.Resources)
			specJSON, _ := json.Marshal(entry.Species)
			thrJSON, _ := json.Marshal(entry.Threats)

			_, err := tx.Exec(`INSERT INTO region_intel
				(faction, region, discovered_tick, updated_tick, decay_tick, reliability,
				 resources_json, species_json, threats_json, pop_estimate, source,
				 reporter_id, misinformation)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				faction, entry.Region, entry.DiscoveredTick, entry.UpdatedTick,
				entry.DecayTick, entry.Reliability,
				string(resJSON), string(specJSON), string(thrJSON),
				entry.PopEstimate, entry.Src.String(),
				entry.ReporterID, boolInt(entry.Misinformation),
			)
			if err != nil {
				return fmt.Errorf("insert intel %d/%d: %w", faction, entry.Region, err)
			}
		}
	}

	return tx.Commit()
}

// SaveTrust writes the full trust ledger (full replace).
func (db *DB) SaveTrust(l *trust.Ledger) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trust_records"); err != nil {
		return err
	}

	for _, holder := range l.Holders() {
		for _, subject := range l.Subjects(holder) {
			rec := l.Record(holder, subject)
			if rec == nil {
				continue
			}
			_, err := tx.Exec(`INSERT INTO trust_records
				(holder, subject, score, cooperation_count, betrayal_count,
				 last_tick, intel_shared, intel_accuracy)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				holder, subject, rec.Score, rec.CooperationCount,
				rec.BetrayalCount, rec.LastTick, rec.IntelShared, rec.IntelAccuracy,
			)
			if err != nil {
				return fmt.Errorf("insert trust %d→%d: %w", holder, subject, err)
			}
		}
	}

	return tx.Commit()
}

// SaveHeartlands writes every heartland profile (full replace).
func (db *DB) SaveHeartlands(t *heartland.Tracker) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM heartland_profiles"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM heartland_discoverers"); err != nil {
		return err
	}

	for _, faction := range t.Factions() {
		p := t.Profile(faction)
		if p == nil {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO heartland_profiles (faction, region, strength, exposure) VALUES (?, ?, ?, ?)",
			faction, p.Region, p.Strength, p.Exposure,
		)
		if err != nil {
			return fmt.Errorf("insert heartland %d: %w", faction, err)
		}
		for discoverer := range p.DiscoveredBy {
			if _, err := tx.Exec(
				"INSERT INTO heartland_discoverers (faction, discoverer) VALUES (?, ?)",
				faction, discoverer,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// SaveMissions writes active and historical missions plus cooldowns.
func (db *DB) SaveMissions(e *espionage.Engine) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM missions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM mission_cooldowns"); err != nil {
		return err
	}

	save := func(m *espionage.Mission) error {
		supportJSON, _ := json.Marshal(m.Support)
		casualtiesJSON, _ := json.Marshal(m.Casualties)

		var reportJSON *string
		if m.Report != nil {
			raw, _ := json.Marshal(m.Report)
			s := string(raw)
			reportJSON = &s
		}

		_, err := tx.Exec(`INSERT INTO missions
			(id, type, agent, support_json, region, target_faction, start_tick,
			 duration, detected, detected_by, casualties_json, completed, result, report_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID.String(), m.Type.String(), m.Agent, string(supportJSON),
			m.Region, m.TargetFaction, m.StartTick, m.Duration,
			boolInt(m.Detected), m.DetectedBy, string(casualtiesJSON),
			boolInt(m.Completed), m.Result, reportJSON,
		)
		return err
	}

	for _, m := range e.ActiveMissions() {
		if err := save(m); err != nil {
			return fmt.Errorf("insert mission %s: %w", m.ID, err)
		}
	}
	for _, m := range e.History() {
		if err := save(m); err != nil {
			return fmt.Errorf("insert mission %s: %w", m.ID, err)
		}
	}

	for character, last := range e.LastCompletions() {
		if _, err := tx.Exec(
			"INSERT INTO mission_cooldowns (character, last_completion) VALUES (?, ?)",
			character, last,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveBetrayals writes the betrayal log and reputation table (full replace).
func (db *DB) SaveBetrayals(e *betrayal.Engine, factions []roster.FactionID) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM betrayal_events"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM betrayal_reputation"); err != nil {
		return err
	}

	for _, ev := range e.Events() {
		_, err := tx.Exec(`INSERT INTO betrayal_events
			(betrayer, betrayer_character, victim, type, tick, region)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ev.Betrayer, ev.BetrayerCharacter, ev.Victim, string(ev.Type), ev.Tick, ev.Region,
		)
		if err != nil {
			return err
		}
	}

	for _, f := range factions {
		if rep := e.Reputation(f); rep > 0 {
			if _, err := tx.Exec(
				"INSERT INTO betrayal_reputation (faction, score) VALUES (?, ?)",
				f, rep,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// SaveEvents appends the simulation's event feed.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in snapshot metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO core_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM core_meta WHERE key = ?", key)
	return value, err
}

// SaveSnapshot performs a full save of the core's state.
func (db *DB) SaveSnapshot(sim *engine.Simulation, factions []roster.FactionID) error {
	slog.Info("saving intelligence snapshot", "tick", sim.LastTick)

	if err := db.SaveIntel(sim.Intel); err != nil {
		return fmt.Errorf("save intel: %w", err)
	}
	if err := db.SaveTrust(sim.Trust); err != nil {
		return fmt.Errorf("save trust: %w", err)
	}
	if err := db.SaveHeartlands(sim.Heartland); err != nil {
		return fmt.Errorf("save heartlands: %w", err)
	}
	if err := db.SaveMissions(sim.Espionage); err != nil {
		return fmt.Errorf("save missions: %w", err)
	}
	if err := db.SaveBetrayals(sim.Betrayal, factions); err != nil {
		return fmt.Errorf("save betrayals: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", sim.LastTick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("intelligence snapshot saved")
	return nil
}

// sourceFromString is the inverse of intel.Source.String.
func sourceFromString(s string) intel.Source {
	switch s {
	case "exploration":
		return intel.SourceExploration
	case "shared":
		return intel.SourceShared
	case "rumor":
		return intel.SourceRumor
	default:
		return intel.SourceUnknown
	}
}

// LoadSnapshot restores the core's state into sim. Missing tables simply
// leave the corresponding registry empty.
func (db *DB) LoadSnapshot(sim *engine.Simulation) error {
	if err := db.loadIntel(sim.Intel); err != nil {
		return fmt.Errorf("load intel: %w", err)
	}
	if err := db.loadTrust(sim.Trust); err != nil {
		return fmt.Errorf("load trust: %w", err)
	}
	if err := db.loadHeartlands(sim.Heartland); err != nil {
		return fmt.Errorf("load heartlands: %w", err)
	}
	if err := db.loadMissions(sim.Espionage); err != nil {
		return fmt.Errorf("load missions: %w", err)
	}
	if err := db.loadBetrayals(sim.Betrayal); err != nil {
		return fmt.Errorf("load betrayals: %w", err)
	}

	if tickStr, err := db.GetMeta("last_tick"); err == nil {
		fmt.Sscanf(tickStr, "%d", &sim.LastTick)
	}
	return nil
}

func (db *DB) loadIntel(m *intel.Map) error {
	type mapRow struct {
		Faction        uint64 `db:"faction"`
		LastSurveyTick uint64 `db:"last_survey_tick"`
	}
	var mapRows []mapRow
	if err := db.conn.Select(&mapRows, "SELECT faction, last_survey_tick FROM faction_maps"); err != nil {
		return err
	}
	for _, r := range mapRows {
		m.FactionMap(roster.FactionID(r.Faction)).LastSurveyTick = r.LastSurveyTick
	}

	type exploredRow struct {
		Faction uint64 `db:"faction"`
		Region  uint64 `db:"region"`
	}
	var explored []exploredRow
	if err := db.conn.Select(&explored, "SELECT faction, region FROM explored_regions"); err != nil {
		return err
	}
	for _, r := range explored {
		m.FactionMap(roster.FactionID(r.Faction)).Explored[roster.RegionID(r.Region)] = true
	}

	type intelRow struct {
		Faction        uint64         `db:"faction"`
		Region         uint64         `db:"region"`
		DiscoveredTick uint64         `db:"discovered_tick"`
		UpdatedTick    uint64         `db:"updated_tick"`
		DecayTick      uint64         `db:"decay_tick"`
		Reliability    float64        `db:"reliability"`
		ResourcesJSON  string         `db:"resources_json"`
		SpeciesJSON    string         `db:"species_json"`
		ThreatsJSON    string         `db:"threats_json"`
		PopEstimate    int            `db:"pop_estimate"`
		Source         string         `db:"source"`
		ReporterID     sql.NullInt64  `db:"reporter_id"`
		Misinformation int            `db:"misinformation"`
	}
	var rows []intelRow
	if err := db.conn.Select(&rows, "SELECT * FROM region_intel"); err != nil {
		return err
	}
	for _, r := range rows {
		entry := &intel.RegionIntel{
			Region:         roster.RegionID(r.Region),
			DiscoveredTick: r.DiscoveredTick,
			UpdatedTick:    r.UpdatedTick,
			DecayTick:      r.DecayTick,
			Reliability:    r.Reliability,
			PopEstimate:    r.PopEstimate,
			Src:            sourceFromString(r.Source),
			Misinformation: r.Misinformation != 0,
		}
		json.Unmarshal([]byte(r.ResourcesJSON), &entry.Resources)
		json.Unmarshal([]byte(r.SpeciesJSON), &entry.Species)
		json.Unmarshal([]byte(r.ThreatsJSON), &entry.Threats)
		if r.ReporterID.Valid {
			id := roster.CharacterID(r.ReporterID.Int64)
			entry.ReporterID = &id
		}
		m.FactionMap(roster.FactionID(r.Faction)).Regions[entry.Region] = entry
	}
	return nil
}

func (db *DB) loadTrust(l *trust.Ledger) error {
	type trustRow struct {
		Holder           uint64  `db:"holder"`
		Subject          uint64  `db:"subject"`
		Score            float64 `db:"score"`
		CooperationCount int     `db:"cooperation_count"`
		BetrayalCount    int     `db:"betrayal_count"`
		LastTick         uint64  `db:"last_tick"`
		IntelShared      int     `db:"intel_shared"`
		IntelAccuracy    float64 `db:"intel_accuracy"`
	}
	var rows []trustRow
	if err := db.conn.Select(&rows, "SELECT * FROM trust_records"); err != nil {
		return err
	}
	for _, r := range rows {
		l.SetRecord(roster.FactionID(r.Holder), roster.FactionID(r.Subject), &trust.Record{
			Score:            r.Score,
			CooperationCount: r.CooperationCount,
			BetrayalCount:    r.BetrayalCount,
			LastTick:         r.LastTick,
			IntelShared:      r.IntelShared,
			IntelAccuracy:    r.IntelAccuracy,
		})
	}
	return nil
}

func (db *DB) loadHeartlands(t *heartland.Tracker) error {
	type profileRow struct {
		Faction  uint64        `db:"faction"`
		Region   sql.NullInt64 `db:"region"`
		Strength float64       `db:"strength"`
		Exposure float64       `db:"exposure"`
	}
	var rows []profileRow
	if err := db.conn.Select(&rows, "SELECT * FROM heartland_profiles"); err != nil {
		return err
	}
	for _, r := range rows {
		p := &heartland.Profile{
			Strength:     r.Strength,
			Exposure:     r.Exposure,
			DiscoveredBy: make(map[roster.FactionID]bool),
		}
		if r.Region.Valid {
			region := roster.RegionID(r.Region.Int64)
			p.Region = &region
		}
		t.SetProfile(roster.FactionID(r.Faction), p)
	}

	type discovererRow struct {
		Faction    uint64 `db:"faction"`
		Discoverer uint64 `db:"discoverer"`
	}
	var discoverers []discovererRow
	if err := db.conn.Select(&discoverers, "SELECT faction, discoverer FROM heartland_discoverers"); err != nil {
		return err
	}
	for _, r := range discoverers {
		if p := t.Profile(roster.FactionID(r.Faction)); p != nil {
			p.DiscoveredBy[roster.FactionID(r.Discoverer)] = true
		}
	}
	return nil
}

func (db *DB) loadMissions(e *espionage.Engine) error {
	type missionRow struct {
		ID             string         `db:"id"`
		Type           string         `db:"type"`
		Agent          uint64         `db:"agent"`
		SupportJSON    string         `db:"support_json"`
		Region         uint64         `db:"region"`
		TargetFaction  sql.NullInt64  `db:"target_faction"`
		StartTick      uint64         `db:"start_tick"`
		Duration       uint64         `db:"duration"`
		Detected       int            `db:"detected"`
		DetectedBy     sql.NullInt64  `db:"detected_by"`
		CasualtiesJSON string         `db:"casualties_json"`
		Completed      int            `db:"completed"`
		Result         string         `db:"result"`
		ReportJSON     sql.NullString `db:"report_json"`
	}
	var rows []missionRow
	if err := db.conn.Select(&rows, "SELECT * FROM missions"); err != nil {
		return err
	}

	var active, history []*espionage.Mission
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return fmt.Errorf("parse mission id %q: %w", r.ID, err)
		}
		m := &espionage.Mission{
			ID:        id,
			Type:      espionage.MissionTypeFromString(r.Type),
			Agent:     roster.CharacterID(r.Agent),
			Region:    roster.RegionID(r.Region),
			StartTick: r.StartTick,
			Duration:  r.Duration,
			Detected:  r.Detected != 0,
			Completed: r.Completed != 0,
			Result:    r.Result,
		}
		json.Unmarshal([]byte(r.SupportJSON), &m.Support)
		json.Unmarshal([]byte(r.CasualtiesJSON), &m.Casualties)
		if r.TargetFaction.Valid {
			f := roster.FactionID(r.TargetFaction.Int64)
			m.TargetFaction = &f
		}
		if r.DetectedBy.Valid {
			c := roster.CharacterID(r.DetectedBy.Int64)
			m.DetectedBy = &c
		}
		if r.ReportJSON.Valid {
			var report espionage.DetectionReport
			if err := json.Unmarshal([]byte(r.ReportJSON.String), &report); err == nil {
				m.Report = &report
			}
		}

		if m.Completed {
			history = append(history, m)
		} else {
			active = append(active, m)
		}
	}

	type cooldownRow struct {
		Character      uint64 `db:"character"`
		LastCompletion uint64 `db:"last_completion"`
	}
	var cooldowns []cooldownRow
	if err := db.conn.Select(&cooldowns, "SELECT character, last_completion FROM mission_cooldowns"); err != nil {
		return err
	}
	lastCompletion := make(map[roster.CharacterID]uint64, len(cooldowns))
	for _, r := range cooldowns {
		lastCompletion[roster.CharacterID(r.Character)] = r.LastCompletion
	}

	e.Restore(active, history, lastCompletion)
	return nil
}

func (db *DB) loadBetrayals(e *betrayal.Engine) error {
	type eventRow struct {
		Betrayer          uint64        `db:"betrayer"`
		BetrayerCharacter uint64        `db:"betrayer_character"`
		Victim            uint64        `db:"victim"`
		Type              string        `db:"type"`
		Tick              uint64        `db:"tick"`
		Region            sql.NullInt64 `db:"region"`
	}
	var rows []eventRow
	if err := db.conn.Select(&rows, "SELECT betrayer, betrayer_character, victim, type, tick, region FROM betrayal_events ORDER BY id"); err != nil {
		return err
	}

	events := make([]betrayal.Event, 0, len(rows))
	for _, r := range rows {
		ev := betrayal.Event{
			Betrayer:          roster.FactionID(r.Betrayer),
			BetrayerCharacter: roster.CharacterID(r.BetrayerCharacter),
			Victim:            roster.FactionID(r.Victim),
			Type:              betrayal.EventType(r.Type),
			Tick:              r.Tick,
		}
		if r.Region.Valid {
			region := roster.RegionID(r.Region.Int64)
			ev.Region = &region
		}
		events = append(events, ev)
	}

	type repRow struct {
		Faction uint64  `db:"faction"`
		Score   float64 `db:"score"`
	}
	var reps []repRow
	if err := db.conn.Select(&reps, "SELECT faction, score FROM betrayal_reputation"); err != nil {
		return err
	}
	reputation := make(map[roster.FactionID]float64, len(reps))
	for _, r := range reps {
		reputation[roster.FactionID(r.Faction)] = r.Score
	}

	e.Restore(events, reputation)
	return nil
}

// RecentEvents returns the most recent N events from the feed.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
