package session

import (
	"fmt"
	"strings"

	"github.com/quantive/appmatch/pkg/models"
)

// ComposeFinalPrompt builds the single text fed to embedding generation from
// a gathered session: the first turn as the primary need, later turns as
// clarifications, then the accumulated lists as labeled lines. Sections whose
// source is empty are omitted.
func ComposeFinalPrompt(state models.SessionState) string {
	if len(state.Turns) == 0 {
		return ""
	}

	sections := []string{
		fmt.Sprintf("User need: %s", state.Turns[0].EnglishText),
	}

	if len(state.Turns) > 1 {
		var clarifications []string
		for _, turn := range state.Turns[1:] {
			clarifications = append(clarifications, "- "+turn.EnglishText)
		}
		sections = append(sections, "Clarifications:\n"+strings.Join(clarifications, "\n"))
	}

	if len(state.Accumulated.Labels) > 0 {
		sections = append(sections, "Extracted labels: "+strings.Join(state.Accumulated.Labels, ", "))
	}
	if len(state.Accumulated.Tags) > 0 {
		sections = append(sections, "Extracted tags: "+strings.Join(state.Accumulated.Tags, ", "))
	}
	if len(state.Accumulated.Integrations) > 0 {
		sections = append(sections, "Extracted integrations: "+strings.Join(state.Accumulated.Integrations, ", "))
	}

	return strings.Join(sections, "\n\n")
}

// ToBuyerQuery maps a gathered session onto the must/nice query schema via
// the positional split: first 6 labels/tags are "must", the next 6 "nice";
// integrations split 10/10. The split follows extraction order, not stated
// priority.
func ToBuyerQuery(state models.SessionState) models.BuyerQuery {
	labelsMust, labelsNice := splitAt(state.Accumulated.Labels, models.MustLabelCount, models.NiceLabelCount)
	tagsMust, tagsNice := splitAt(state.Accumulated.Tags, models.MustTagCount, models.NiceTagCount)
	integrationsMust, integrationsNice := splitAt(state.Accumulated.Integrations, models.MustIntegrationCount, models.NiceIntegrationCount)

	return models.BuyerQuery{
		BuyerText:            ComposeFinalPrompt(state),
		LabelsMust:           labelsMust,
		LabelsNice:           labelsNice,
		TagsMust:             tagsMust,
		TagsNice:             tagsNice,
		IntegrationsRequired: integrationsMust,
		IntegrationsNice:     integrationsNice,
		Notes:                fmt.Sprintf("Interactive session with %d turn(s)", len(state.Turns)),
	}
}

// splitAt slices items into a must prefix of up to mustN entries and a nice
// slice of up to niceN entries following it.
func splitAt(items []string, mustN, niceN int) (must, nice []string) {
	if len(items) <= mustN {
		return append([]string{}, items...), []string{}
	}
	must = append([]string{}, items[:mustN]...)
	end := mustN + niceN
	if end > len(items) {
		end = len(items)
	}
	nice = append([]string{}, items[mustN:end]...)
	return must, nice
}
