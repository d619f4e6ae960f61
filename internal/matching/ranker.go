package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/quantive/appmatch/internal/catalog"
	"github.com/quantive/appmatch/pkg/models"
)

// ErrNoCriteria is returned when a query carries no must or nice criteria at
// all. Matching without any criteria is disallowed.
var ErrNoCriteria = errors.New("matching requires at least one label, tag or integration criterion")

// Ranker orchestrates retrieval, filtering, scoring and truncation.
type Ranker struct {
	store catalog.Store
}

// NewRanker creates a Ranker over the given catalog store.
func NewRanker(store catalog.Store) *Ranker {
	return &Ranker{store: store}
}

// RunMatch ranks catalog entries against the query: top-k vector retrieval,
// batched attribute lookups, must-have filtering, hybrid scoring and a
// stable descending sort truncated to topN. Candidates failing the must-have
// filter stay visible with FilteredOutPercent instead of being dropped.
func (r *Ranker) RunMatch(ctx context.Context, query models.BuyerQuery, embedding []float32, topK, topN int) ([]models.MatchResult, error) {
	if !query.HasCriteria() {
		return nil, ErrNoCriteria
	}

	candidates, err := r.retrieve(ctx, embedding, topK, query.LabelsMust)
	if err != nil {
		return nil, err
	}
	if len(candidates.entries) == 0 {
		return []models.MatchResult{}, nil
	}

	results := make([]models.MatchResult, 0, len(candidates.entries))
	for _, candidate := range candidates.entries {
		percent := FilteredOutPercent
		if MeetsMustHaves(candidate, query, candidates.synonyms) {
			percent = ScoreToPercentage(HybridScore(candidate.Similarity, query, candidate))
		}
		results = append(results, models.MatchResult{
			AppID:   candidate.AppID,
			Percent: percent,
		})
	}

	// Stable sort: ties keep original candidate (retrieval) order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Percent > results[j].Percent
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

// retrieved bundles candidates with the synonym sets for the query's
// required labels.
type retrieved struct {
	entries  []models.Candidate
	synonyms map[string][]string
}

// retrieve runs the vector search and the batched attribute lookups. The
// per-attribute lookups are pure reads keyed by candidate ID, so they run
// concurrently without changing results.
func (r *Ranker) retrieve(ctx context.Context, embedding []float32, topK int, requiredLabels []string) (retrieved, error) {
	nearest, err := r.store.Nearest(ctx, embedding, topK)
	if err != nil {
		return retrieved{}, fmt.Errorf("retrieve candidates: %w", err)
	}
	if len(nearest) == 0 {
		return retrieved{}, nil
	}

	appIDs := make([]string, len(nearest))
	for i, n := range nearest {
		appIDs[i] = n.AppID
	}

	var (
		labels       map[string][]string
		integrations map[string][]string
		tags         map[string][]string
		synonyms     map[string][]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		labels, err = r.store.LabelsFor(gctx, appIDs)
		return err
	})
	g.Go(func() error {
		var err error
		integrations, err = r.store.IntegrationsFor(gctx, appIDs)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = r.store.TagsFor(gctx, appIDs)
		return err
	})
	g.Go(func() error {
		var err error
		synonyms, err = r.store.SynonymsFor(gctx, requiredLabels)
		return err
	})
	if err := g.Wait(); err != nil {
		return retrieved{}, fmt.Errorf("batch candidate lookups: %w", err)
	}

	entries := make([]models.Candidate, len(nearest))
	for i, n := range nearest {
		entries[i] = models.Candidate{
			AppID:        n.AppID,
			Similarity:   n.Similarity,
			Labels:       labels[n.AppID],
			Integrations: integrations[n.AppID],
			Tags:         tags[n.AppID],
			PriceText:    n.PriceText,
		}
	}
	return retrieved{entries: entries, synonyms: synonyms}, nil
}
