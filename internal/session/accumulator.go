// Package session implements the multi-turn requirement gathering protocol:
// accumulation across turns, validity gating, clarification questions and the
// start/continue state machine over a caller-held session state.
package session

import (
	"strings"

	"github.com/quantive/appmatch/pkg/models"
)

// MergeLists concatenates existing and incoming, removes duplicates
// case-insensitively while preserving first-seen order and spelling, and
// truncates to maxItems. Empty strings are skipped.
func MergeLists(existing, incoming []string, maxItems int) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	result := make([]string, 0, maxItems)

	for _, item := range append(append([]string{}, existing...), incoming...) {
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
		if len(result) >= maxItems {
			break
		}
	}
	return result
}

// Accumulate merges a new extraction into the current profile. Pure function:
// the input profile is not modified, and merging empty lists yields an
// identical profile.
func Accumulate(current models.RequirementProfile, labels, tags, integrations []string) models.RequirementProfile {
	return models.RequirementProfile{
		Labels:       MergeLists(current.Labels, labels, models.MaxPerCategory),
		Tags:         MergeLists(current.Tags, tags, models.MaxPerCategory),
		Integrations: MergeLists(current.Integrations, integrations, models.MaxPerCategory),
	}
}
