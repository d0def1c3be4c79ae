// Pure policy functions governing how intelligence is redacted before
// handing it over, how trades are judged, and what sharing reveals about
// the sharer. Nothing here mutates stored state.

package intel

import (
	"github.com/talgya/fogworld/internal/num"
	"github.com/talgya/fogworld/internal/roster"
)

// Redaction tiers keyed on the viewer's intelligence gene: the smarter the
// recipient, the more a cautious sharer strips before handing intel over.
const (
	redactSourceGene = 40 // At this gene level the reporter is stripped.
	redactHeavyGene  = 70 // At this level detail is capped and rounded.
	redactTagCap     = 3
)

// Compartmentalize returns a redacted copy of full suitable for a viewer
// with the given intelligence gene. The original is never modified.
func Compartmentalize(full *RegionIntel, viewerIntelligence float64) *RegionIntel {
	cp := full.Clone()
	if viewerIntelligence < redactSourceGene {
		return cp
	}

	cp.ReporterID = nil
	if viewerIntelligence < redactHeavyGene {
		return cp
	}

	cp.Src = SourceUnknown
	if len(cp.Resources) > redactTagCap {
		cp.Resources = cp.Resources[:redactTagCap]
	}
	if len(cp.Species) > redactTagCap {
		cp.Species = cp.Species[:redactTagCap]
	}
	cp.PopEstimate = num.RoundTo(cp.PopEstimate, 10)
	return cp
}

// TradeValue scores a piece of intelligence for bargaining: reliability
// weighted by how much it actually describes.
func TradeValue(ri *RegionIntel) float64 {
	if ri == nil {
		return 0
	}
	return ri.Reliability * float64(len(ri.Resources)+len(ri.Species))
}

// EvaluateTrade judges whether an exchange is fair. Each side's value is
// adjusted by its holder's trust in the counterparty; the trade is fair if
// the adjusted ratio stays within [0.5, 2.0].
func EvaluateTrade(offered, requested *RegionIntel, sharerTrust, recipientTrust float64) (fair bool, ratio float64) {
	offerVal := TradeValue(offered) * (1 + sharerTrust*0.2)
	requestVal := TradeValue(requested) * (1 + recipientTrust*0.2)
	if requestVal <= 0 {
		return offerVal <= 0, 0
	}
	ratio = offerVal / requestVal
	return ratio >= 0.5 && ratio <= 2.0, ratio
}

// SharingExposure describes what handing over a piece of intelligence
// reveals about the sharer itself.
type SharingExposure struct {
	RevealsPosition bool    // Always: you cannot share without being met.
	RevealsHistory  bool    // First-hand intel betrays where you have been.
	Level           float64 // 0–1; grows with trust, since allies are told more.
}

// CalculateSharingExposure reports the exposure incurred by sharing ri with
// a counterparty at the given trust level.
func CalculateSharingExposure(ri *RegionIntel, trust float64) SharingExposure {
	exp := SharingExposure{
		RevealsPosition: true,
		RevealsHistory:  ri != nil && ri.Src == SourceExploration,
		Level:           0.3,
	}
	if trust > 0 {
		exp.Level += trust * 0.3
	}
	exp.Level = num.Unit(exp.Level)
	return exp
}

// ViewerGene names the gene consulted by compartmentalization.
const ViewerGene = "intelligence"

// CompartmentalizeFor is a convenience wrapper reading the viewer's
// intelligence gene from a character record.
func CompartmentalizeFor(full *RegionIntel, viewer *roster.Character) *RegionIntel {
	return Compartmentalize(full, viewer.Gene(ViewerGene))
}
