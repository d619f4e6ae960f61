// Package pgvector provides the PostgreSQL+pgvector implementation of the
// catalog store.
package pgvector

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvec "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/quantive/appmatch/internal/catalog"
)

// Client provides catalog lookups via PostgreSQL+pgvector.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient connects a pool to databaseURL and registers the pgvector types
// on every connection.
func NewClient(ctx context.Context, databaseURL string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect catalog store: %w", err)
	}
	return &Client{pool: pool}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// Ping checks whether the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Nearest returns the k entries closest to embedding by cosine distance,
// with similarity precomputed as 1 - distance. An unindexed catalog yields
// an empty slice.
func (c *Client) Nearest(ctx context.Context, embedding []float32, k int) ([]catalog.NearestResult, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := c.pool.Query(ctx, `
		SELECT s.app_id,
		       1 - (s.embedding <=> $1) AS cosine_similarity,
		       COALESCE(s.price_text, '') AS price_text
		FROM application_search s
		WHERE s.embedding IS NOT NULL
		ORDER BY s.embedding <=> $1
		LIMIT $2`,
		pgvec.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []catalog.NearestResult
	for rows.Next() {
		var (
			appID      uuid.UUID
			similarity float64
			priceText  string
		)
		if err := rows.Scan(&appID, &similarity, &priceText); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		results = append(results, catalog.NearestResult{
			AppID:      appID.String(),
			Similarity: similarity,
			PriceText:  priceText,
		})
	}
	return results, rows.Err()
}

// LabelsFor batch-fetches labels for the given application IDs.
func (c *Client) LabelsFor(ctx context.Context, appIDs []string) (map[string][]string, error) {
	return c.attributesFor(ctx, appIDs, `
		SELECT app_id, label
		FROM application_labels
		WHERE app_id = ANY($1)`)
}

// IntegrationsFor batch-fetches integration keys for the given IDs.
func (c *Client) IntegrationsFor(ctx context.Context, appIDs []string) (map[string][]string, error) {
	return c.attributesFor(ctx, appIDs, `
		SELECT app_id, integration_key
		FROM application_integration_keys
		WHERE app_id = ANY($1)`)
}

// TagsFor batch-fetches tags for the given IDs.
func (c *Client) TagsFor(ctx context.Context, appIDs []string) (map[string][]string, error) {
	return c.attributesFor(ctx, appIDs, `
		SELECT app_id, tag
		FROM application_tags
		WHERE app_id = ANY($1)`)
}

// attributesFor runs a two-column (app_id, value) batch query and groups the
// values per requested ID. IDs with no rows map to an empty list.
func (c *Client) attributesFor(ctx context.Context, appIDs []string, query string) (map[string][]string, error) {
	result := make(map[string][]string, len(appIDs))
	for _, id := range appIDs {
		result[id] = []string{}
	}
	if len(appIDs) == 0 {
		return result, nil
	}

	ids, err := parseIDs(appIDs)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("batch attribute lookup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appID uuid.UUID
			value string
		)
		if err := rows.Scan(&appID, &value); err != nil {
			return nil, fmt.Errorf("scan attribute row: %w", err)
		}
		key := appID.String()
		result[key] = append(result[key], value)
	}
	return result, rows.Err()
}

// SynonymsFor returns lower-cased synonym sets keyed by lower-cased label.
// Each set includes the label itself.
func (c *Client) SynonymsFor(ctx context.Context, labels []string) (map[string][]string, error) {
	result := make(map[string][]string, len(labels))
	if len(labels) == 0 {
		return result, nil
	}

	lowered := make([]string, len(labels))
	for i, label := range labels {
		lowered[i] = strings.ToLower(label)
	}

	rows, err := c.pool.Query(ctx, `
		SELECT label, COALESCE(synonyms, '{}')
		FROM labels
		WHERE LOWER(label) = ANY($1)`,
		lowered)
	if err != nil {
		return nil, fmt.Errorf("synonym lookup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label    string
			synonyms []string
		)
		if err := rows.Scan(&label, &synonyms); err != nil {
			return nil, fmt.Errorf("scan synonym row: %w", err)
		}
		key := strings.ToLower(label)
		set := []string{key}
		for _, syn := range synonyms {
			set = append(set, strings.ToLower(syn))
		}
		result[key] = set
	}
	return result, rows.Err()
}

// NamesFor batch-fetches application display names.
func (c *Client) NamesFor(ctx context.Context, appIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(appIDs))
	if len(appIDs) == 0 {
		return result, nil
	}

	ids, err := parseIDs(appIDs)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `
		SELECT id, name
		FROM application
		WHERE id = ANY($1)`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("name lookup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appID uuid.UUID
			name  string
		)
		if err := rows.Scan(&appID, &name); err != nil {
			return nil, fmt.Errorf("scan name row: %w", err)
		}
		result[appID.String()] = name
	}
	return result, rows.Err()
}

// parseIDs validates and converts string IDs to UUIDs for array binding.
func parseIDs(appIDs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(appIDs))
	for i, raw := range appIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid app id %q: %w", raw, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// Compile-time check: Client must satisfy catalog.Store.
var _ catalog.Store = (*Client)(nil)
