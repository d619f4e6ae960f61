// Package models contains domain models for appmatch.
package models

// Per-category limits for accumulated requirement profiles.
const (
	// MaxPerCategory caps each profile list in the interactive flow.
	MaxPerCategory = 10

	// MinLabelsRequired is the minimum number of catalog labels for a valid profile.
	MinLabelsRequired = 2
	// MinTagsRequired is the minimum number of free-form tags for a valid profile.
	MinTagsRequired = 1
	// MinIntegrationsRequired is the minimum number of integrations for a valid profile.
	MinIntegrationsRequired = 1
)

// RequirementProfile is the accumulated, canonical buyer requirement.
// Each list is deduplicated case-insensitively, preserves first-seen order,
// and never exceeds MaxPerCategory entries.
type RequirementProfile struct {
	Labels       []string `json:"labels"`
	Tags         []string `json:"tags"`
	Integrations []string `json:"integrations"`
}

// IsEmpty reports whether the profile holds no extracted data at all.
func (p RequirementProfile) IsEmpty() bool {
	return len(p.Labels) == 0 && len(p.Tags) == 0 && len(p.Integrations) == 0
}

// MissingRequirements counts how many items each category still needs
// before the profile is considered valid. All counts are non-negative.
type MissingRequirements struct {
	LabelsNeeded       int `json:"labels_needed"`
	TagsNeeded         int `json:"tags_needed"`
	IntegrationsNeeded int `json:"integrations_needed"`
}

// None reports whether nothing is missing, i.e. the profile is valid.
func (m MissingRequirements) None() bool {
	return m.LabelsNeeded == 0 && m.TagsNeeded == 0 && m.IntegrationsNeeded == 0
}
