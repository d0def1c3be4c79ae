package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/fogworld/internal/roster"
)

func fullEntry() *RegionIntel {
	id := roster.CharacterID(7)
	return &RegionIntel{
		Region:      100,
		Reliability: 0.9,
		Resources:   []string{"water", "berries", "game", "salt", "fish"},
		Species:     []string{"hare", "deer", "boar", "grouse"},
		Threats:     []string{"predators"},
		PopEstimate: 87,
		Src:         SourceExploration,
		ReporterID:  &id,
	}
}

func TestCompartmentalizeTiers(t *testing.T) {
	tests := []struct {
		name         string
		gene         float64
		wantReporter bool
		wantSource   Source
		wantResCount int
		wantPop      int
	}{
		{"dull viewer gets everything", 30, true, SourceExploration, 5, 87},
		{"mid viewer loses the reporter", 55, false, SourceExploration, 5, 87},
		{"sharp viewer gets the redacted cut", 80, false, SourceUnknown, 3, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compartmentalize(fullEntry(), tt.gene)
			assert.Equal(t, tt.wantReporter, got.ReporterID != nil)
			assert.Equal(t, tt.wantSource, got.Src)
			assert.Len(t, got.Resources, tt.wantResCount)
			assert.Equal(t, tt.wantPop, got.PopEstimate)
		})
	}
}

func TestCompartmentalizeNeverMutatesOriginal(t *testing.T) {
	full := fullEntry()
	_ = Compartmentalize(full, 90)

	require.NotNil(t, full.ReporterID)
	assert.Len(t, full.Resources, 5)
	assert.Equal(t, SourceExploration, full.Src)
}

func TestEvaluateTrade(t *testing.T) {
	offered := &RegionIntel{Reliability: 0.8, Resources: []string{"a", "b"}, Species: []string{"x"}}
	requested := &RegionIntel{Reliability: 0.8, Resources: []string{"a", "b"}, Species: []string{"x"}}

	fair, ratio := EvaluateTrade(offered, requested, 0, 0)
	assert.True(t, fair)
	assert.InDelta(t, 1.0, ratio, 1e-9)

	// A worthless offer against a rich request falls outside [0.5, 2.0].
	junk := &RegionIntel{Reliability: 0.1, Resources: []string{"a"}}
	fair, ratio = EvaluateTrade(junk, requested, 0, 0)
	assert.False(t, fair)
	assert.Less(t, ratio, 0.5)

	// Trust inflates the trusted side's perceived value.
	fair, _ = EvaluateTrade(offered, requested, 1.0, -1.0)
	assert.True(t, fair)
}

func TestSharingExposure(t *testing.T) {
	firstHand := &RegionIntel{Src: SourceExploration}
	secondHand := &RegionIntel{Src: SourceShared}

	exp := CalculateSharingExposure(firstHand, 0.5)
	assert.True(t, exp.RevealsPosition)
	assert.True(t, exp.RevealsHistory)
	assert.InDelta(t, 0.45, exp.Level, 1e-9)

	// Negative trust grants no exposure bonus; second-hand intel betrays
	// no movement history.
	exp = CalculateSharingExposure(secondHand, -0.8)
	assert.True(t, exp.RevealsPosition)
	assert.False(t, exp.RevealsHistory)
	assert.InDelta(t, 0.3, exp.Level, 1e-9)
}
