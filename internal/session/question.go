package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/pkg/models"
)

// Example counts for question context blocks and fallback templates.
const (
	contextExampleCount  = 8
	fallbackExampleCount = 4
)

// commonIntegrations are the integration names surfaced as examples when the
// user has not yet named any.
var commonIntegrations = []string{
	"Stripe", "DATEV", "Shopify", "Zapier", "PayPal", "Twint", "Bexio", "SAP",
}

// QuestionGenerator produces one targeted clarification question for the
// highest-priority missing category: labels first, then integrations, then
// tags. Phrasing is delegated to the AI provider with a deterministic
// templated fallback, so the caller always receives some question.
type QuestionGenerator struct {
	provider ai.QuestionGenerator
}

// NewQuestionGenerator creates a QuestionGenerator backed by the provider.
func NewQuestionGenerator(p ai.QuestionGenerator) *QuestionGenerator {
	return &QuestionGenerator{provider: p}
}

// Generate returns the next question to ask given what is missing. The
// returned flag reports whether the deterministic fallback phrasing was used.
func (g *QuestionGenerator) Generate(ctx context.Context, missing models.MissingRequirements, accumulated models.RequirementProfile) (string, bool) {
	seed := profileSeed(accumulated)

	block := contextBlock(missing, accumulated, seed)
	if block == "" {
		return "Can you provide any additional details about your requirements?", false
	}

	question, err := g.provider.AskQuestion(ctx, block)
	if err != nil {
		log.Warn().Err(err).Msg("question generation failed, using template")
		return fallbackQuestion(missing, seed), true
	}
	return question, false
}

// profileSeed derives a stable seed from the accumulated profile contents so
// that repeated calls with the same profile surface the same examples.
func profileSeed(profile models.RequirementProfile) uint64 {
	h := fnv.New64a()
	for _, list := range [][]string{profile.Labels, profile.Tags, profile.Integrations} {
		for _, item := range list {
			h.Write([]byte(strings.ToLower(item)))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return h.Sum64()
}

// pickExamples deterministically selects up to n entries from pool using the
// given seed. Same seed, same selection.
func pickExamples(pool []string, n int, seed uint64) []string {
	if n >= len(pool) {
		return append([]string{}, pool...)
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	perm := rng.Perm(len(pool))
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}

// contextBlock builds the provider context for the highest-priority missing
// category. Returns "" when nothing is missing.
func contextBlock(missing models.MissingRequirements, accumulated models.RequirementProfile, seed uint64) string {
	switch {
	case missing.LabelsNeeded > 0:
		examples := pickExamples(models.LabelCatalog, contextExampleCount, seed)
		return fmt.Sprintf(`The user needs %d more functional labels for their business application.

Current labels: [%s]

Available label options (sample): [%s]

Generate a question asking what main functions/features they need. Mention 3-4 examples from the available labels but allow free text.`,
			missing.LabelsNeeded, strings.Join(accumulated.Labels, ", "), strings.Join(examples, ", "))

	case missing.IntegrationsNeeded > 0:
		examples := pickExamples(commonIntegrations, contextExampleCount, seed)
		return fmt.Sprintf(`The user needs to specify at least %d integration(s) with external tools/platforms.

Current integrations: [%s]

Generate a question asking which external services or platforms their application must integrate with. Mention common examples like %s.`,
			missing.IntegrationsNeeded, strings.Join(accumulated.Integrations, ", "), strings.Join(examples, ", "))

	case missing.TagsNeeded > 0:
		examples := pickExamples(models.TagCatalog, contextExampleCount, seed)
		return fmt.Sprintf(`The user needs %d more tag(s) for business context.

Current tags: [%s]

Generate a question asking about their business context - industry, company type, region, or key characteristics (e.g. %s). Ask for short keywords.`,
			missing.TagsNeeded, strings.Join(accumulated.Tags, ", "), strings.Join(examples, ", "))
	}
	return ""
}

// fallbackQuestion is the deterministic templated question used when the
// provider is unavailable. Uses the same seeded example selection as the
// provider context, so retries don't flip-flop.
func fallbackQuestion(missing models.MissingRequirements, seed uint64) string {
	switch {
	case missing.LabelsNeeded > 0:
		examples := pickExamples(models.LabelCatalog, fallbackExampleCount, seed)
		return fmt.Sprintf("What main functions do you need? (e.g., %s)", strings.Join(examples, ", "))
	case missing.IntegrationsNeeded > 0:
		examples := pickExamples(commonIntegrations, fallbackExampleCount, seed)
		return fmt.Sprintf("Which external tools must it integrate with? (e.g., %s)", strings.Join(examples, ", "))
	default:
		return "Can you describe your business context? (e.g., industry, company size, region)"
	}
}
