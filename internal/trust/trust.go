// Package trust maintains the directed inter-faction trust ledger.
// Trust is asymmetric: A's view of B and B's view of A are distinct
// records, and most updates touch only one direction.
package trust

import (
	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// Update magnitudes.
const (
	cooperationGain = 0.02
	betrayalPenalty = 0.5
	witnessPenalty  = 0.15
	decayPerTick    = 0.002
)

// Record is one faction's standing view of another.
type Record struct {
	Score            float64 `json:"score"` // -1–1, clamped at every write.
	CooperationCount int     `json:"cooperation_count"`
	BetrayalCount    int     `json:"betrayal_count"`
	LastTick         uint64  `json:"last_tick"`
	IntelShared      int     `json:"intel_shared"`
	IntelAccuracy    float64 `json:"intel_accuracy"` // Rolling average.
}

// Ledger holds every directed trust record. Records are created lazily and
// live for the rest of the simulation, decaying toward zero.
type Ledger struct {
	records map[roster.FactionID]map[roster.FactionID]*Record
}

// NewLedger creates an empty trust ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[roster.FactionID]map[roster.FactionID]*Record)}
}

// record returns holder's view of subject, creating it lazily.
func (l *Ledger) record(holder, subject roster.FactionID) *Record {
	inner, ok := l.records[holder]
	if !ok {
		inner = make(map[roster.FactionID]*Record)
		l.records[holder] = inner
	}
	rec, ok := inner[subject]
	if !ok {
		rec = &Record{}
		inner[subject] = rec
	}
	return rec
}

// Trust returns holder's trust score toward subject, zero if no history.
func (l *Ledger) Trust(holder, subject roster.FactionID) float64 {
	if inner, ok := l.records[holder]; ok {
		if rec, ok := inner[subject]; ok {
			return rec.Score
		}
	}
	return 0
}

// Record returns holder's view of subject, or nil if no history exists.
// Read-only consumers should prefer Trust.
func (l *Ledger) Record(holder, subject roster.FactionID) *Record {
	if inner, ok := l.records[holder]; ok {
		return inner[subject]
	}
	return nil
}

// SetRecord installs a record wholesale; used when restoring a snapshot.
func (l *Ledger) SetRecord(holder, subject roster.FactionID, rec *Record) {
	inner, ok := l.records[holder]
	if !ok {
		inner = make(map[roster.FactionID]*Record)
		l.records[holder] = inner
	}
	inner[subject] = rec
}

// Holders returns every faction holding at least one record.
func (l *Ledger) Holders() []roster.FactionID {
	out := make([]roster.FactionID, 0, len(l.records))
	for f := range l.records {
		out = append(out, f)
	}
	return out
}

// Subjects returns every faction the holder has a record on.
func (l *Ledger) Subjects(holder roster.FactionID) []roster.FactionID {
	inner, ok := l.records[holder]
	if !ok {
		return nil
	}
	out := make([]roster.FactionID, 0, len(inner))
	for f := range inner {
		out = append(out, f)
	}
	return out
}

// RecordCooperation notes a mutually beneficial interaction. The only
// symmetric update in the ledger: both directions gain equally.
func (l *Ledger) RecordCooperation(a, b roster.FactionID, tick uint64) {
	for _, pair := range [2][2]roster.FactionID{{a, b}, {b, a}} {
		rec := l.record(pair[0], pair[1])
		rec.Score = num.Signed(rec.Score + cooperationGain)
		rec.CooperationCount++
		rec.LastTick = tick
	}
}

// RecordBetrayal notes betrayer wronging victim. Deliberately one-sided:
// only the victim's view of the betrayer suffers; the betrayer's own view
// of the victim is untouched.
func (l *Ledger) RecordBetrayal(betrayer, victim roster.FactionID, tick uint64) {
	rec := l.record(victim, betrayer)
	rec.Score = num.Signed(rec.Score - betrayalPenalty)
	rec.BetrayalCount++
	rec.LastTick = tick
}

// Penalize applies a direct trust reduction to holder's view of subject.
func (l *Ledger) Penalize(holder, subject roster.FactionID, amount float64, tick uint64) {
	rec := l.record(holder, subject)
	rec.Score = num.Signed(rec.Score - amount)
	rec.LastTick = tick
}

// SpreadBetrayalReputation lowers each witness's view of the betrayer.
// The betrayer itself never witnesses its own act.
func (l *Ledger) SpreadBetrayalReputation(betrayer roster.FactionID, witnesses []roster.FactionID, tick uint64) {
	for _, w := range witnesses {
		if w == betrayer {
			continue
		}
		rec := l.record(w, betrayer)
		rec.Score = num.Signed(rec.Score - witnessPenalty)
		rec.LastTick = tick
	}
}

// TickDecay erodes every score toward zero, sign-aware, never overshooting.
// Grudges fade and alliances weaken alike.
func (l *Ledger) TickDecay(tick uint64) {
	for _, inner := range l.records {
		for _, rec := range inner {
			switch {
			case rec.Score > 0:
				rec.Score -= decayPerTick
				if rec.Score < 0 {
					rec.Score = 0
				}
			case rec.Score < 0:
				rec.Score += decayPerTick
				if rec.Score > 0 {
					rec.Score = 0
				}
			}
		}
	}
}

// RecordIntelAccuracy folds an accuracy observation into the rolling
// average of intel received from subject, weighted 1/count.
func (l *Ledger) RecordIntelAccuracy(holder, subject roster.FactionID, accuracy float64, tick uint64) {
	rec := l.record(holder, subject)
	rec.IntelShared++
	rec.IntelAccuracy += (accuracy - rec.IntelAccuracy) / float64(rec.IntelShared)
	rec.LastTick = tick
}
