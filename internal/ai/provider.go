// Package ai defines the capability interfaces for the external AI provider.
//
// The provider is an injected dependency: the host process constructs one
// implementation (see the openai subpackage) and hands it to every component
// that needs it. The core treats every call as fallible I/O and recovers
// locally wherever a sane fallback exists.
package ai

import (
	"context"

	"github.com/quantive/appmatch/pkg/models"
)

// Extraction is the structured result of attribute extraction from one turn.
type Extraction struct {
	Labels       []string `json:"labels"`
	Tags         []string `json:"tags"`
	Integrations []string `json:"integrations"`
}

// Translator normalizes arbitrary-language text to English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Extractor turns English text into label/tag/integration lists, constrained
// by the supplied catalogs (labels closed, tags suggested).
type Extractor interface {
	Extract(ctx context.Context, englishText string, labelCatalog, tagCatalog []string) (Extraction, error)
}

// QuestionGenerator phrases one clarification question for the given context
// block. The contract is strict JSON {"question": str} on the wire.
type QuestionGenerator interface {
	AskQuestion(ctx context.Context, contextBlock string) (string, error)
}

// BuyerParser parses a one-shot buyer prompt into the structured query used
// by the ranking engine.
type BuyerParser interface {
	ParseBuyer(ctx context.Context, buyerPrompt string) (models.BuyerQuery, error)
}

// Embedder produces the query vector for catalog search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider aggregates every AI capability the matching core consumes.
type Provider interface {
	Translator
	Extractor
	QuestionGenerator
	BuyerParser
	Embedder
}
