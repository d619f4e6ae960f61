package session

import "github.com/quantive/appmatch/pkg/models"

// Evaluate checks a profile against the minimum-count thresholds and returns
// the validity flag plus the per-category missing counts. Pure, deterministic
// and total.
func Evaluate(profile models.RequirementProfile) (bool, models.MissingRequirements) {
	missing := models.MissingRequirements{
		LabelsNeeded:       needed(models.MinLabelsRequired, len(profile.Labels)),
		TagsNeeded:         needed(models.MinTagsRequired, len(profile.Tags)),
		IntegrationsNeeded: needed(models.MinIntegrationsRequired, len(profile.Integrations)),
	}
	return missing.None(), missing
}

func needed(minimum, count int) int {
	if count >= minimum {
		return 0
	}
	return minimum - count
}
