package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/internal/catalog"
	"github.com/quantive/appmatch/pkg/models"
)

// fakeAIProvider implements ai.Provider with canned responses.
type fakeAIProvider struct {
	parsed    models.BuyerQuery
	parseErr  error
	embedding []float32
	embedErr  error
}

func (f *fakeAIProvider) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

func (f *fakeAIProvider) Extract(_ context.Context, _ string, _, _ []string) (ai.Extraction, error) {
	return ai.Extraction{}, nil
}

func (f *fakeAIProvider) AskQuestion(_ context.Context, _ string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeAIProvider) ParseBuyer(_ context.Context, _ string) (models.BuyerQuery, error) {
	return f.parsed, f.parseErr
}

func (f *fakeAIProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.embedding, f.embedErr
}

func validState() models.SessionState {
	return models.SessionState{
		Turns: []models.Turn{{EnglishText: "I need a CRM with Stripe"}},
		Accumulated: models.RequirementProfile{
			Labels:       []string{"CRM", "Sales"},
			Tags:         []string{"Sme"},
			Integrations: []string{"Stripe"},
		},
		IsValid: true,
	}
}

func matchableStore() *fakeStore {
	return &fakeStore{
		nearest: []catalog.NearestResult{{AppID: "app-1", Similarity: 0.8}},
		labels:  map[string][]string{"app-1": {"CRM", "Sales"}},
		tags:    map[string][]string{"app-1": {"Sme"}},
		integrations: map[string][]string{
			"app-1": {"Stripe"},
		},
		names: map[string]string{"app-1": "Acme CRM"},
	}
}

func TestFinalizeSession_RejectsInvalidState(t *testing.T) {
	svc := NewService(&fakeAIProvider{}, &fakeStore{})

	_, _, err := svc.FinalizeSession(context.Background(), models.SessionState{}, 30, 10)

	assert.ErrorIs(t, err, ErrSessionNotReady)
}

func TestFinalizeSession_ReturnsPromptAndEnrichedResults(t *testing.T) {
	svc := NewService(&fakeAIProvider{embedding: []float32{0.1, 0.2}}, matchableStore())

	prompt, results, err := svc.FinalizeSession(context.Background(), validState(), 30, 10)

	require.NoError(t, err)
	assert.Contains(t, prompt, "User need: I need a CRM with Stripe")
	assert.Contains(t, prompt, "Extracted labels: CRM, Sales")
	require.Len(t, results, 1)
	assert.Equal(t, "app-1", results[0].AppID)
	assert.Equal(t, "Acme CRM", results[0].Name)
	assert.Greater(t, results[0].Percent, FilteredOutPercent)
}

func TestFinalizeSession_EmbeddingFailureIsAnError(t *testing.T) {
	svc := NewService(&fakeAIProvider{embedErr: errors.New("provider down")}, matchableStore())

	_, _, err := svc.FinalizeSession(context.Background(), validState(), 30, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query text")
}

func TestMatchPrompt_ParserFailureDegradesToMinimalQuery(t *testing.T) {
	provider := &fakeAIProvider{
		parseErr:  errors.New("bad json"),
		embedding: []float32{0.1},
	}
	svc := NewService(provider, matchableStore())

	// The minimal query carries no criteria, so the ranker rejects it.
	_, _, err := svc.MatchPrompt(context.Background(), "find me something", 30, 10)

	assert.ErrorIs(t, err, ErrNoCriteria)
}

func TestMatchPrompt_SanitizesParsedQuery(t *testing.T) {
	provider := &fakeAIProvider{
		parsed: models.BuyerQuery{
			BuyerText:  "I need a CRM",
			LabelsMust: []string{"crm", "CRM", "Made-Up Label"},
			TagsMust:   []string{"SME", "sme"},
		},
		embedding: []float32{0.1},
	}
	svc := NewService(provider, matchableStore())

	query, results, err := svc.MatchPrompt(context.Background(), "I need a CRM", 30, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"CRM"}, query.LabelsMust)
	assert.Equal(t, []string{"SME"}, query.TagsMust)
	require.Len(t, results, 1)
}

func TestMatchPrompt_NameLookupFailureIsNotFatal(t *testing.T) {
	store := matchableStore()
	store.namesErr = errors.New("names table gone")
	provider := &fakeAIProvider{
		parsed:    models.BuyerQuery{BuyerText: "crm", LabelsMust: []string{"CRM"}},
		embedding: []float32{0.1},
	}
	svc := NewService(provider, store)

	_, results, err := svc.MatchPrompt(context.Background(), "crm", 30, 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Name)
}
