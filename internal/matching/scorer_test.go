package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantive/appmatch/pkg/models"
)

func TestOverlapRatio_EmptyRequirementsYieldBaseline(t *testing.T) {
	assert.Equal(t, 0.1, OverlapRatio(nil, []string{"CRM"}))
	assert.Equal(t, 0.1, OverlapRatio([]string{}, nil))
}

func TestOverlapRatio_RequirementsAreTheDenominator(t *testing.T) {
	ratio := OverlapRatio([]string{"CRM", "Sales"}, []string{"CRM", "Accounting", "Invoicing"})
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestOverlapRatio_CaseAndWhitespaceInsensitive(t *testing.T) {
	ratio := OverlapRatio([]string{"crm", " Sales "}, []string{"CRM", "sales"})
	assert.InDelta(t, 1.0, ratio, 1e-9)
}

func TestOverlapRatio_NoIntersection(t *testing.T) {
	assert.Zero(t, OverlapRatio([]string{"CRM"}, []string{"Accounting"}))
}

func TestHybridScore_PerfectMatch(t *testing.T) {
	query := models.BuyerQuery{
		LabelsNice:       []string{"CRM"},
		TagsNice:         []string{"SME"},
		IntegrationsNice: []string{"stripe"},
	}
	candidate := models.Candidate{
		Labels:       []string{"CRM"},
		Tags:         []string{"SME"},
		Integrations: []string{"Stripe"},
	}

	score := HybridScore(1.0, query, candidate)

	// All four terms at 1.0: weighted sum 1.0, rescaled to 1.0*0.3+0.7.
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestHybridScore_NoNiceCriteriaUsesBaselines(t *testing.T) {
	score := HybridScore(0.5, models.BuyerQuery{}, models.Candidate{})

	// 0.60*0.5 + (0.15+0.10+0.15)*0.1 = 0.34, rescaled: 0.34*0.3+0.7.
	assert.InDelta(t, 0.802, score, 1e-9)
}

func TestHybridScore_IntegrationsNormalizedBeforeOverlap(t *testing.T) {
	query := models.BuyerQuery{IntegrationsNice: []string{" STRIPE "}}
	candidate := models.Candidate{Integrations: []string{"stripe"}}

	withMatch := HybridScore(0, query, candidate)
	withoutMatch := HybridScore(0, query, models.Candidate{})

	assert.Greater(t, withMatch, withoutMatch)
}

func TestScoreToPercentage_MidpointIsFifty(t *testing.T) {
	assert.Equal(t, 50, ScoreToPercentage(0.5))
}

func TestScoreToPercentage_MonotoneInScore(t *testing.T) {
	prev := -1
	for _, score := range []float64{0.0, 0.3, 0.5, 0.7, 0.85, 1.0} {
		pct := ScoreToPercentage(score)
		assert.Greater(t, pct, prev, "score %v", score)
		prev = pct
	}
}

func TestScoreToPercentage_ClampedToValidRange(t *testing.T) {
	assert.Equal(t, 100, ScoreToPercentage(5.0))
	assert.Equal(t, 0, ScoreToPercentage(-5.0))
}

func TestScoreToPercentage_TypicalRescaledRange(t *testing.T) {
	// Scores land in [0.7, 1.0] after rescaling; the sigmoid keeps the
	// resulting percentages high but still discriminating.
	low := ScoreToPercentage(0.7)
	high := ScoreToPercentage(1.0)

	assert.Equal(t, 88, low)
	assert.Equal(t, 99, high)
}
