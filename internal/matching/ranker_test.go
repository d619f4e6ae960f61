package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/appmatch/internal/catalog"
	"github.com/quantive/appmatch/pkg/models"
)

// fakeStore is an in-memory catalog.Store for ranker and service tests.
type fakeStore struct {
	nearest      []catalog.NearestResult
	nearestErr   error
	labels       map[string][]string
	integrations map[string][]string
	tags         map[string][]string
	synonyms     map[string][]string
	names        map[string]string
	namesErr     error
}

func (f *fakeStore) Nearest(_ context.Context, _ []float32, k int) ([]catalog.NearestResult, error) {
	if f.nearestErr != nil {
		return nil, f.nearestErr
	}
	if k < len(f.nearest) {
		return f.nearest[:k], nil
	}
	return f.nearest, nil
}

func (f *fakeStore) LabelsFor(_ context.Context, appIDs []string) (map[string][]string, error) {
	return pick(f.labels, appIDs), nil
}

func (f *fakeStore) IntegrationsFor(_ context.Context, appIDs []string) (map[string][]string, error) {
	return pick(f.integrations, appIDs), nil
}

func (f *fakeStore) TagsFor(_ context.Context, appIDs []string) (map[string][]string, error) {
	return pick(f.tags, appIDs), nil
}

func (f *fakeStore) SynonymsFor(_ context.Context, _ []string) (map[string][]string, error) {
	return f.synonyms, nil
}

func (f *fakeStore) NamesFor(_ context.Context, _ []string) (map[string]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return f.names, nil
}

func pick(source map[string][]string, appIDs []string) map[string][]string {
	result := make(map[string][]string, len(appIDs))
	for _, id := range appIDs {
		result[id] = source[id]
	}
	return result
}

func crmQuery() models.BuyerQuery {
	return models.BuyerQuery{
		BuyerText:  "I need a CRM",
		LabelsMust: []string{"CRM"},
		LabelsNice: []string{"Sales"},
	}
}

func TestRunMatch_NoCriteriaRejected(t *testing.T) {
	ranker := NewRanker(&fakeStore{})

	_, err := ranker.RunMatch(context.Background(), models.BuyerQuery{BuyerText: "anything"}, nil, 30, 10)

	assert.ErrorIs(t, err, ErrNoCriteria)
}

func TestRunMatch_EmptyCatalogYieldsEmptyResults(t *testing.T) {
	ranker := NewRanker(&fakeStore{})

	results, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 10)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestRunMatch_FailedMustHaveKeepsCandidateAtFloor(t *testing.T) {
	store := &fakeStore{
		nearest: []catalog.NearestResult{
			{AppID: "app-good", Similarity: 0.9},
			{AppID: "app-bad", Similarity: 0.95},
		},
		labels: map[string][]string{
			"app-good": {"CRM", "Sales"},
			"app-bad":  {"Accounting"},
		},
	}
	ranker := NewRanker(store)

	results, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 10)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "app-good", results[0].AppID)
	assert.Greater(t, results[0].Percent, FilteredOutPercent)
	assert.Equal(t, "app-bad", results[1].AppID)
	assert.Equal(t, FilteredOutPercent, results[1].Percent)
}

func TestRunMatch_SortedDescendingAndTruncated(t *testing.T) {
	store := &fakeStore{
		nearest: []catalog.NearestResult{
			{AppID: "app-1", Similarity: 0.2},
			{AppID: "app-2", Similarity: 0.9},
			{AppID: "app-3", Similarity: 0.6},
		},
		labels: map[string][]string{
			"app-1": {"CRM"},
			"app-2": {"CRM"},
			"app-3": {"CRM"},
		},
	}
	ranker := NewRanker(store)

	results, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "app-2", results[0].AppID)
	assert.Equal(t, "app-3", results[1].AppID)
	assert.GreaterOrEqual(t, results[0].Percent, results[1].Percent)
}

func TestRunMatch_TiesKeepRetrievalOrder(t *testing.T) {
	store := &fakeStore{
		nearest: []catalog.NearestResult{
			{AppID: "app-first", Similarity: 0.5},
			{AppID: "app-second", Similarity: 0.5},
		},
		labels: map[string][]string{
			"app-first":  {"CRM"},
			"app-second": {"CRM"},
		},
	}
	ranker := NewRanker(store)

	results, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 10)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "app-first", results[0].AppID)
	assert.Equal(t, "app-second", results[1].AppID)
}

func TestRunMatch_SynonymSatisfiesRequiredLabel(t *testing.T) {
	store := &fakeStore{
		nearest: []catalog.NearestResult{{AppID: "app-1", Similarity: 0.8}},
		labels:  map[string][]string{"app-1": {"Customer Relationship Management"}},
		synonyms: map[string][]string{
			"crm": {"crm", "customer relationship management"},
		},
	}
	ranker := NewRanker(store)

	results, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Percent, FilteredOutPercent)
}

func TestRunMatch_RetrievalErrorPropagates(t *testing.T) {
	ranker := NewRanker(&fakeStore{nearestErr: errors.New("connection refused")})

	_, err := ranker.RunMatch(context.Background(), crmQuery(), nil, 30, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve candidates")
}

func TestRunMatch_PriceCeilingFiltersExpensiveCandidates(t *testing.T) {
	store := &fakeStore{
		nearest: []catalog.NearestResult{
			{AppID: "app-cheap", Similarity: 0.5, PriceText: "19 CHF/month"},
			{AppID: "app-pricey", Similarity: 0.9, PriceText: "99 CHF/month"},
		},
		labels: map[string][]string{
			"app-cheap":  {"CRM"},
			"app-pricey": {"CRM"},
		},
	}
	ranker := NewRanker(store)

	query := crmQuery()
	ceiling := 50.0
	query.PriceMax = &ceiling

	results, err := ranker.RunMatch(context.Background(), query, nil, 30, 10)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "app-cheap", results[0].AppID)
	assert.Equal(t, FilteredOutPercent, results[1].Percent)
}
