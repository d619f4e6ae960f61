package models

// Slice boundaries when mapping an accumulated profile onto the must/nice
// query schema. The split is positional by extraction order: a deliberate
// simplification trading recall for determinism.
const (
	MustLabelCount        = 6
	NiceLabelCount        = 6
	MustTagCount          = 6
	NiceTagCount          = 6
	MustIntegrationCount  = 10
	NiceIntegrationCount  = 10
)

// BuyerQuery is the structured requirement fed to the match ranker, either
// produced by the one-shot AI parser or sliced from a Ready session profile.
type BuyerQuery struct {
	BuyerText            string   `json:"buyer_text"`
	LabelsMust           []string `json:"labels_must"`
	LabelsNice           []string `json:"labels_nice"`
	TagsMust             []string `json:"tag_must"`
	TagsNice             []string `json:"tag_nice"`
	IntegrationsRequired []string `json:"integration_required"`
	IntegrationsNice     []string `json:"integration_nice"`
	PriceMax             *float64 `json:"price_max,omitempty"`
	Notes                string   `json:"notes"`
}

// HasCriteria reports whether at least one must or nice list is non-empty.
// Matching with zero criteria is disallowed.
func (q BuyerQuery) HasCriteria() bool {
	return len(q.LabelsMust)+len(q.LabelsNice)+
		len(q.TagsMust)+len(q.TagsNice)+
		len(q.IntegrationsRequired)+len(q.IntegrationsNice) > 0
}

// Candidate is one catalog entry under consideration during a ranking pass.
// Constructed per match request, never persisted.
type Candidate struct {
	AppID        string
	Similarity   float64 // cosine similarity in [0,1] relative to the query
	Labels       []string
	Integrations []string
	Tags         []string
	PriceText    string
}

// MatchResult pairs an application with its match percentage.
type MatchResult struct {
	AppID   string `json:"app_id"`
	Name    string `json:"name,omitempty"`
	Percent int    `json:"similarity_percent"`
}
