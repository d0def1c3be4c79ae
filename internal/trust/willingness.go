package trust

import "github.com/talgya/fogworld/internal/roster"

// Willingness reasons, surfaced to narrative consumers.
const (
	ReasonTrustedAlly       = "trusted ally"
	ReasonLowRiskExchange   = "low-risk exchange"
	ReasonKnownBetrayer     = "known betrayer"
	ReasonUnknownEntity     = "unknown entity"
	ReasonInsufficientTrust = "insufficient trust"
)

// EvaluateIntelSharingWillingness decides whether sharer would hand intel
// of the given value to receiver. The clauses form an ordered decision
// table; earlier clauses win outright.
func (l *Ledger) EvaluateIntelSharingWillingness(sharer, receiver roster.FactionID, intelValue float64) (willing bool, reason string) {
	score := l.Trust(sharer, receiver)

	if score > 0.3 {
		return true, ReasonTrustedAlly
	}
	if score > 0 && intelValue < 0.5 {
		return true, ReasonLowRiskExchange
	}
	if rec := l.Record(sharer, receiver); rec != nil && rec.BetrayalCount > 0 {
		return false, ReasonKnownBetrayer
	}
	if score == 0 {
		return intelValue < 0.3, ReasonUnknownEntity
	}
	return false, ReasonInsufficientTrust
}
