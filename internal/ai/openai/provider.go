// Package openai implements the ai.Provider interfaces against an
// OpenAI-compatible API via langchaingo. Works with the hosted API or any
// compatible proxy (LiteLLM, vLLM) by overriding the base URL.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/internal/config"
	"github.com/quantive/appmatch/pkg/models"
)

// embedInputLimit truncates embedding input to stay inside the model's
// context window.
const embedInputLimit = 8000

// Provider implements ai.Provider using langchaingo's OpenAI client.
type Provider struct {
	chat     llms.Model
	embedder embeddings.Embedder
	retries  int
}

// New creates a Provider from the given configuration.
func New(cfg *config.Config) (*Provider, error) {
	chatOpts := []lcopenai.Option{
		lcopenai.WithToken(cfg.OpenAIAPIKey),
		lcopenai.WithModel(cfg.ChatModel),
	}
	embedOpts := []lcopenai.Option{
		lcopenai.WithToken(cfg.OpenAIAPIKey),
		lcopenai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.OpenAIBaseURL != "" {
		chatOpts = append(chatOpts, lcopenai.WithBaseURL(cfg.OpenAIBaseURL))
		embedOpts = append(embedOpts, lcopenai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	chat, err := lcopenai.New(chatOpts...)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}

	embedClient, err := lcopenai.New(embedOpts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedClient, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	retries := cfg.ProviderRetries
	if retries <= 0 {
		retries = config.DefaultProviderRetries
	}

	return &Provider{chat: chat, embedder: embedder, retries: retries}, nil
}

// Translate normalizes text to English.
func (p *Provider) Translate(ctx context.Context, text string) (string, error) {
	resp, err := p.complete(ctx, translationSystemPrompt, text, 0.2, false)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

// Extract pulls labels, tags and integrations out of English text.
// The wire contract is strict JSON; malformed output is retried a bounded
// number of times before the error is returned to the caller.
func (p *Provider) Extract(ctx context.Context, englishText string, labelCatalog, tagCatalog []string) (ai.Extraction, error) {
	userPrompt := formatExtractionPrompt(englishText, labelCatalog, tagCatalog)

	var result ai.Extraction
	if err := p.completeJSON(ctx, extractionSystemPrompt, userPrompt, 0.3, &result); err != nil {
		return ai.Extraction{}, fmt.Errorf("extract attributes: %w", err)
	}
	return result, nil
}

// AskQuestion phrases one clarification question for the given context block.
func (p *Provider) AskQuestion(ctx context.Context, contextBlock string) (string, error) {
	var result struct {
		Question string `json:"question"`
	}
	if err := p.completeJSON(ctx, questionSystemPrompt, contextBlock, 0.3, &result); err != nil {
		return "", fmt.Errorf("generate question: %w", err)
	}
	if result.Question == "" {
		return "", fmt.Errorf("generate question: provider returned empty question")
	}
	return result.Question, nil
}

// ParseBuyer parses a one-shot buyer prompt into a structured query.
func (p *Provider) ParseBuyer(ctx context.Context, buyerPrompt string) (models.BuyerQuery, error) {
	userPrompt := formatBuyerParserPrompt(buyerPrompt, models.LabelCatalog)

	var query models.BuyerQuery
	if err := p.completeJSON(ctx, buyerParserSystemPrompt, userPrompt, 0.3, &query); err != nil {
		return models.BuyerQuery{}, fmt.Errorf("parse buyer prompt: %w", err)
	}
	if query.BuyerText == "" {
		query.BuyerText = buyerPrompt
	}
	return query, nil
}

// Embed produces the embedding vector for text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > embedInputLimit {
		text = text[:embedInputLimit]
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed text: provider returned no vectors")
	}
	return vectors[0], nil
}

// complete runs a single chat completion and returns the raw text.
func (p *Provider) complete(ctx context.Context, system, user string, temperature float64, jsonMode bool) (string, error) {
	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(system)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(user)}},
	}

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := p.chat.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Content, nil
}

// completeJSON runs a JSON-mode completion and unmarshals the response into
// out, retrying on malformed output up to the configured attempt budget.
func (p *Provider) completeJSON(ctx context.Context, system, user string, temperature float64, out any) error {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		raw, err := p.complete(ctx, system, user, temperature, true)
		if err != nil {
			return err
		}

		cleaned := stripCodeFences(raw)
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastErr = err
			log.Warn().
				Int("attempt", attempt+1).
				Err(err).
				Msg("malformed JSON from provider, retrying")
			continue
		}
		return nil
	}
	return fmt.Errorf("parse provider JSON after %d attempts: %w", p.retries+1, lastErr)
}

// stripCodeFences removes markdown code fences some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Compile-time check: Provider must satisfy ai.Provider.
var _ ai.Provider = (*Provider)(nil)
