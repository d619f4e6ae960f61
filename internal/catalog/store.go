// Package catalog defines the read-only store boundary for the application
// catalog: vector search plus batched attribute lookups keyed by application
// identifier.
package catalog

import "context"

// NearestResult is one row from the vector search.
type NearestResult struct {
	AppID      string
	Similarity float64 // cosine similarity, 1 - distance
	PriceText  string  // raw price text as scraped, may be empty
}

// Store is the catalog collaborator consumed by the match ranker. All lookups
// are pure reads; an empty catalog yields empty results, not errors.
type Store interface {
	// Nearest returns the k catalog entries closest to the query embedding
	// by cosine distance.
	Nearest(ctx context.Context, embedding []float32, k int) ([]NearestResult, error)

	// LabelsFor batch-fetches labels for the given application IDs. Every
	// requested ID is present in the result, possibly with an empty list.
	LabelsFor(ctx context.Context, appIDs []string) (map[string][]string, error)

	// IntegrationsFor batch-fetches integration keys per application ID.
	IntegrationsFor(ctx context.Context, appIDs []string) (map[string][]string, error)

	// TagsFor batch-fetches tags per application ID.
	TagsFor(ctx context.Context, appIDs []string) (map[string][]string, error)

	// SynonymsFor returns, for each known label, the lower-cased label itself
	// plus its lower-cased synonyms. Keys are lower-cased label names.
	SynonymsFor(ctx context.Context, labels []string) (map[string][]string, error)

	// NamesFor batch-fetches display names per application ID.
	NamesFor(ctx context.Context, appIDs []string) (map[string]string, error)
}
