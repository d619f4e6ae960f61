// Package matching implements the hybrid matching engine: must-have
// filtering with synonym expansion, weighted hybrid scoring with sigmoid
// percentage compression, and the retrieval→filter→score→rank pipeline.
package matching

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quantive/appmatch/pkg/models"
)

// freeIndicators are price-text keywords that mean "costs nothing".
var freeIndicators = []string{"gratis", "free", "kostenlos", "gratuit"}

// priceTokenPattern matches the leading numeric token of a price text,
// allowing either decimal separator.
var priceTokenPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// MeetsMustHaves reports whether a candidate satisfies every must-have
// criterion of the query: required labels (with synonym expansion), required
// tags, required integrations and the price ceiling.
func MeetsMustHaves(candidate models.Candidate, query models.BuyerQuery, labelSynonyms map[string][]string) bool {
	return hasRequiredLabels(candidate.Labels, query.LabelsMust, labelSynonyms) &&
		hasRequiredTags(candidate.Tags, query.TagsMust) &&
		hasRequiredIntegrations(candidate.Integrations, query.IntegrationsRequired) &&
		PriceWithinBudget(candidate.PriceText, query.PriceMax)
}

// hasRequiredLabels checks each required label against the candidate's label
// set, case-insensitively, accepting any known synonym as a match. The
// synonym map is keyed by lower-cased label and holds the label itself plus
// its synonyms.
func hasRequiredLabels(candidateLabels, required []string, synonyms map[string][]string) bool {
	if len(required) == 0 {
		return true
	}

	have := foldSet(candidateLabels)
	for _, label := range required {
		key := strings.ToLower(label)
		if _, ok := have[key]; ok {
			continue
		}
		matched := false
		for _, syn := range synonyms[key] {
			if _, ok := have[syn]; ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// hasRequiredTags is case-insensitive set containment, no synonym expansion.
func hasRequiredTags(candidateTags, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := foldSet(candidateTags)
	for _, tag := range required {
		if _, ok := have[strings.ToLower(tag)]; !ok {
			return false
		}
	}
	return true
}

// hasRequiredIntegrations normalizes both sides (trim + Title Case) before
// the containment check, so "stripe " and "Stripe" compare equal.
func hasRequiredIntegrations(candidateIntegrations, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(candidateIntegrations))
	for _, key := range candidateIntegrations {
		have[strings.ToLower(models.NormalizeIntegration(key))] = struct{}{}
	}
	for _, key := range required {
		if _, ok := have[strings.ToLower(models.NormalizeIntegration(key))]; !ok {
			return false
		}
	}
	return true
}

// PriceWithinBudget checks the candidate's raw price text against an optional
// maximum. Free-indicator keywords count as zero; text with no parsable
// numeric token passes optimistically — ambiguity never excludes.
func PriceWithinBudget(priceText string, priceMax *float64) bool {
	if priceMax == nil {
		return true
	}

	price, ok := ParsePriceText(priceText)
	if !ok {
		return true
	}
	return price <= *priceMax
}

// ParsePriceText extracts a numeric price from raw price text. Returns the
// value and whether parsing succeeded.
func ParsePriceText(priceText string) (float64, bool) {
	lowered := strings.ToLower(priceText)
	for _, keyword := range freeIndicators {
		if strings.Contains(lowered, keyword) {
			return 0, true
		}
	}

	token := priceTokenPattern.FindString(priceText)
	if token == "" {
		return 0, false
	}
	token = strings.ReplaceAll(token, ",", ".")

	price, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// foldSet builds a lower-cased, trimmed membership set.
func foldSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return set
}
