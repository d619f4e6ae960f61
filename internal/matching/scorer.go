package matching

import (
	"math"

	"github.com/quantive/appmatch/pkg/models"
)

// Hybrid score weights. The weighted combination is then rescaled into the
// upper part of [0,1] so even weak matches score respectably.
const (
	similarityWeight   = 0.60
	labelsWeight       = 0.15
	tagsWeight         = 0.10
	integrationsWeight = 0.15

	rescaleFactor = 0.3
	rescaleOffset = 0.7

	// emptyOverlapBaseline is the overlap ratio when a nice-to-have list is
	// empty, so an absent requirement doesn't zero out its term.
	emptyOverlapBaseline = 0.1

	// sigmoidSteepness controls how discriminating the percentage mapping is
	// around the midpoint.
	sigmoidSteepness = 10.0

	// FilteredOutPercent is assigned to candidates failing the must-have
	// filter: visible, but ranked last.
	FilteredOutPercent = 5
)

// OverlapRatio returns |A∩B| / |A| with case- and whitespace-insensitive
// comparison, requirements as the denominator. An empty requirement list
// yields the baseline 0.1.
func OverlapRatio(requirements, candidate []string) float64 {
	if len(requirements) == 0 {
		return emptyOverlapBaseline
	}

	reqSet := foldSet(requirements)
	candSet := foldSet(candidate)

	intersection := 0
	for item := range reqSet {
		if _, ok := candSet[item]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(reqSet))
}

// HybridScore combines vector similarity with nice-to-have overlap ratios.
// Integrations are normalized on both sides before comparison.
func HybridScore(cosineSimilarity float64, query models.BuyerQuery, candidate models.Candidate) float64 {
	labelsOverlap := OverlapRatio(query.LabelsNice, candidate.Labels)
	tagsOverlap := OverlapRatio(query.TagsNice, candidate.Tags)
	integrationsOverlap := OverlapRatio(
		normalizeAll(query.IntegrationsNice),
		normalizeAll(candidate.Integrations),
	)

	weighted := similarityWeight*cosineSimilarity +
		labelsWeight*labelsOverlap +
		tagsWeight*tagsOverlap +
		integrationsWeight*integrationsOverlap

	return weighted*rescaleFactor + rescaleOffset
}

// ScoreToPercentage converts a [0,1] hybrid score to an integer percentage
// via a sigmoid centered at 0.5, clamped to [0,100]. The sigmoid steepens
// the mapping around the midpoint, making it more discriminating than a
// linear mapping near typical score values.
func ScoreToPercentage(score float64) int {
	transformed := sigmoid(sigmoidSteepness * (score - 0.5))
	percentage := int(math.Round(100 * transformed))

	if percentage < 0 {
		return 0
	}
	if percentage > 100 {
		return 100
	}
	return percentage
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func normalizeAll(items []string) []string {
	normalized := make([]string, len(items))
	for i, item := range items {
		normalized[i] = models.NormalizeIntegration(item)
	}
	return normalized
}
