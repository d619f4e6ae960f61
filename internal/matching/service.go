package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/internal/catalog"
	"github.com/quantive/appmatch/internal/session"
	"github.com/quantive/appmatch/pkg/models"
)

// ErrSessionNotReady is returned when finalize is called on a session whose
// profile has not met the validity thresholds.
var ErrSessionNotReady = errors.New("session state is not valid, cannot run matching")

// Service composes the AI provider, catalog store and ranker into the two
// matching entry points: one-shot prompt matching and session finalization.
type Service struct {
	provider ai.Provider
	store    catalog.Store
	ranker   *Ranker
}

// NewService creates a matching service.
func NewService(provider ai.Provider, store catalog.Store) *Service {
	return &Service{
		provider: provider,
		store:    store,
		ranker:   NewRanker(store),
	}
}

// FinalizeSession runs the final match for a gathered session: compose the
// final prompt, map the profile onto the must/nice query schema, embed, rank
// and enrich with application names. Callable only on a valid state.
//
// Embedding failure is surfaced as an error — there is no substitute for the
// query vector.
func (s *Service) FinalizeSession(ctx context.Context, state models.SessionState, topK, topN int) (string, []models.MatchResult, error) {
	if !state.IsValid {
		return "", nil, ErrSessionNotReady
	}

	finalPrompt := session.ComposeFinalPrompt(state)
	query := session.ToBuyerQuery(state)

	results, err := s.matchQuery(ctx, query, finalPrompt, topK, topN)
	if err != nil {
		return "", nil, err
	}
	return finalPrompt, results, nil
}

// MatchPrompt is the one-shot flow: parse the buyer prompt into a structured
// query, embed the buyer text and rank. A failed parse degrades to a minimal
// query rather than aborting; the ranker's no-criteria check still applies.
func (s *Service) MatchPrompt(ctx context.Context, buyerPrompt string, topK, topN int) (models.BuyerQuery, []models.MatchResult, error) {
	query, err := s.provider.ParseBuyer(ctx, buyerPrompt)
	if err != nil {
		log.Warn().Err(err).Msg("buyer parsing failed, using minimal query")
		query = models.BuyerQuery{
			BuyerText: buyerPrompt,
			Notes:     fmt.Sprintf("parser failed: %v", err),
		}
	}
	sanitizeQuery(&query)

	results, err := s.matchQuery(ctx, query, query.BuyerText, topK, topN)
	if err != nil {
		return models.BuyerQuery{}, nil, err
	}
	return query, results, nil
}

// matchQuery embeds the text, runs the ranker and fills in display names.
func (s *Service) matchQuery(ctx context.Context, query models.BuyerQuery, embedText string, topK, topN int) ([]models.MatchResult, error) {
	if !query.HasCriteria() {
		return nil, ErrNoCriteria
	}

	embedding, err := s.provider.Embed(ctx, embedText)
	if err != nil {
		return nil, fmt.Errorf("embed query text: %w", err)
	}

	results, err := s.ranker.RunMatch(ctx, query, embedding, topK, topN)
	if err != nil {
		return nil, err
	}

	if err := s.enrichNames(ctx, results); err != nil {
		// Names are cosmetic; a failed lookup degrades one response,
		// it does not fail the match.
		log.Warn().Err(err).Msg("name enrichment failed")
	}
	return results, nil
}

// enrichNames fills the Name field of each result via a batched lookup.
func (s *Service) enrichNames(ctx context.Context, results []models.MatchResult) error {
	if len(results) == 0 {
		return nil
	}

	appIDs := make([]string, len(results))
	for i, r := range results {
		appIDs[i] = r.AppID
	}

	names, err := s.store.NamesFor(ctx, appIDs)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Name = names[results[i].AppID]
	}
	return nil
}

// sanitizeQuery enforces the one-shot schema invariants the provider is
// asked for but not trusted on: catalog-only labels, dedup, per-list caps.
func sanitizeQuery(query *models.BuyerQuery) {
	query.LabelsMust = capAt(filterCatalog(query.LabelsMust), models.MustLabelCount)
	query.LabelsNice = capAt(filterCatalog(query.LabelsNice), models.NiceLabelCount)
	query.TagsMust = capAt(models.DedupFold(query.TagsMust), models.MustTagCount)
	query.TagsNice = capAt(models.DedupFold(query.TagsNice), models.NiceTagCount)
	query.IntegrationsRequired = capAt(models.DedupFold(query.IntegrationsRequired), models.MustIntegrationCount)
	query.IntegrationsNice = capAt(models.DedupFold(query.IntegrationsNice), models.NiceIntegrationCount)
}

func filterCatalog(labels []string) []string {
	kept := make([]string, 0, len(labels))
	for _, label := range labels {
		if models.IsCatalogLabel(label) {
			kept = append(kept, models.CanonicalLabel(label))
		}
	}
	return models.DedupFold(kept)
}

func capAt(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
