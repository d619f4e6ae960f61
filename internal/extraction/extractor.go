// Package extraction turns one natural-language turn into normalized English
// text plus label/tag/integration lists.
//
// Extraction is best-effort end to end: a failed translation keeps the
// original text, a failed or malformed extraction yields empty lists. Neither
// is a hard stop for the caller; both are reported via explicit fallback
// flags so the caller (and tests) can tell a degraded result from a real one.
package extraction

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/pkg/models"
)

// Result is the outcome of extracting one turn.
type Result struct {
	// EnglishText is the turn normalized to English, or the original text
	// when translation fell back.
	EnglishText string

	Labels       []string
	Tags         []string
	Integrations []string

	// TranslationFellBack is true when the provider call failed and the
	// original text was used unchanged.
	TranslationFellBack bool
	// ExtractionFellBack is true when the provider call failed or returned
	// malformed JSON and all lists are empty as a consequence.
	ExtractionFellBack bool
}

// provider is the subset of AI capabilities the extractor needs.
type provider interface {
	ai.Translator
	ai.Extractor
}

// Extractor performs best-effort attribute extraction for single turns.
type Extractor struct {
	provider provider
}

// New creates an Extractor backed by the given provider.
func New(p provider) *Extractor {
	return &Extractor{provider: p}
}

// ExtractTurn normalizes userText to English and extracts attributes from it.
// Guarantees: output lists never exceed models.MaxPerCategory entries and
// never contain empty strings. Never returns an error.
func (e *Extractor) ExtractTurn(ctx context.Context, userText string) Result {
	result := Result{EnglishText: userText}

	english, err := e.provider.Translate(ctx, userText)
	if err != nil || english == "" {
		log.Warn().Err(err).Msg("translation failed, using original text")
		result.TranslationFellBack = true
	} else {
		result.EnglishText = english
	}

	extracted, err := e.provider.Extract(ctx, result.EnglishText, models.LabelCatalog, models.TagCatalog)
	if err != nil {
		log.Warn().Err(err).Msg("attribute extraction failed, returning empty lists")
		result.ExtractionFellBack = true
		result.Labels = []string{}
		result.Tags = []string{}
		result.Integrations = []string{}
		return result
	}

	result.Labels = filterCatalogLabels(extracted.Labels)
	result.Tags = normalizeTags(extracted.Tags)
	result.Integrations = normalizeIntegrations(extracted.Integrations)
	return result
}

// filterCatalogLabels drops labels outside the closed catalog, canonicalizes
// spelling, and dedups case-insensitively up to the category cap.
func filterCatalogLabels(labels []string) []string {
	kept := make([]string, 0, len(labels))
	for _, label := range labels {
		if models.IsCatalogLabel(label) {
			kept = append(kept, models.CanonicalLabel(label))
		}
	}
	return capList(models.DedupFold(kept))
}

// normalizeTags Title-Cases tags and dedups case-insensitively up to the cap.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := models.NormalizeTag(tag); t != "" {
			normalized = append(normalized, t)
		}
	}
	return capList(models.DedupFold(normalized))
}

// normalizeIntegrations trims and Title-Cases integration names, deduping
// in first-seen order up to the cap.
func normalizeIntegrations(integrations []string) []string {
	normalized := make([]string, 0, len(integrations))
	for _, key := range integrations {
		if k := models.NormalizeIntegration(key); k != "" {
			normalized = append(normalized, k)
		}
	}
	return capList(models.DedupPreserveOrder(normalized))
}

func capList(items []string) []string {
	if len(items) > models.MaxPerCategory {
		return items[:models.MaxPerCategory]
	}
	return items
}
