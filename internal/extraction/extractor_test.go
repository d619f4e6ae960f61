package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/appmatch/internal/ai"
	"github.com/quantive/appmatch/pkg/models"
)

type fakeProvider struct {
	translated   string
	translateErr error
	extraction   ai.Extraction
	extractErr   error

	extractedFrom string
}

func (f *fakeProvider) Translate(_ context.Context, _ string) (string, error) {
	return f.translated, f.translateErr
}

func (f *fakeProvider) Extract(_ context.Context, englishText string, _, _ []string) (ai.Extraction, error) {
	f.extractedFrom = englishText
	return f.extraction, f.extractErr
}

func TestExtractTurn_HappyPath(t *testing.T) {
	provider := &fakeProvider{
		translated: "I need invoicing and a CRM",
		extraction: ai.Extraction{
			Labels:       []string{"Invoicing", "CRM"},
			Tags:         []string{"sme"},
			Integrations: []string{"stripe"},
		},
	}

	result := New(provider).ExtractTurn(context.Background(), "Ich brauche Rechnungen und ein CRM")

	assert.False(t, result.TranslationFellBack)
	assert.False(t, result.ExtractionFellBack)
	assert.Equal(t, "I need invoicing and a CRM", result.EnglishText)
	assert.Equal(t, "I need invoicing and a CRM", provider.extractedFrom)
	assert.Equal(t, []string{"Invoicing", "CRM"}, result.Labels)
	assert.Equal(t, []string{"Sme"}, result.Tags)
	assert.Equal(t, []string{"Stripe"}, result.Integrations)
}

func TestExtractTurn_TranslationFailureKeepsOriginalText(t *testing.T) {
	provider := &fakeProvider{
		translateErr: errors.New("provider down"),
		extraction:   ai.Extraction{Labels: []string{"CRM"}},
	}

	result := New(provider).ExtractTurn(context.Background(), "Ich brauche ein CRM")

	assert.True(t, result.TranslationFellBack)
	assert.False(t, result.ExtractionFellBack)
	assert.Equal(t, "Ich brauche ein CRM", result.EnglishText)
	assert.Equal(t, "Ich brauche ein CRM", provider.extractedFrom)
	assert.Equal(t, []string{"CRM"}, result.Labels)
}

func TestExtractTurn_EmptyTranslationCountsAsFallback(t *testing.T) {
	provider := &fakeProvider{translated: ""}

	result := New(provider).ExtractTurn(context.Background(), "original")

	assert.True(t, result.TranslationFellBack)
	assert.Equal(t, "original", result.EnglishText)
}

func TestExtractTurn_ExtractionFailureYieldsEmptyLists(t *testing.T) {
	provider := &fakeProvider{
		translated: "some text",
		extractErr: errors.New("malformed json"),
	}

	result := New(provider).ExtractTurn(context.Background(), "some text")

	assert.True(t, result.ExtractionFellBack)
	assert.Empty(t, result.Labels)
	assert.Empty(t, result.Tags)
	assert.Empty(t, result.Integrations)
	assert.NotNil(t, result.Labels)
}

func TestExtractTurn_NonCatalogLabelsDropped(t *testing.T) {
	provider := &fakeProvider{
		translated: "text",
		extraction: ai.Extraction{
			Labels: []string{"CRM", "Blockchain Mining", "crm", "sales"},
		},
	}

	result := New(provider).ExtractTurn(context.Background(), "text")

	assert.Equal(t, []string{"CRM", "Sales"}, result.Labels)
}

func TestExtractTurn_ListsCappedAtMaxPerCategory(t *testing.T) {
	tags := make([]string, 0, models.MaxPerCategory+5)
	for i := 0; i < models.MaxPerCategory+5; i++ {
		tags = append(tags, fmt.Sprintf("tag-%d", i))
	}
	provider := &fakeProvider{
		translated: "text",
		extraction: ai.Extraction{Tags: tags},
	}

	result := New(provider).ExtractTurn(context.Background(), "text")

	require.Len(t, result.Tags, models.MaxPerCategory)
	assert.Equal(t, "Tag-0", result.Tags[0])
}

func TestExtractTurn_IntegrationsTrimmedAndTitleCased(t *testing.T) {
	provider := &fakeProvider{
		translated: "text",
		extraction: ai.Extraction{
			Integrations: []string{" stripe ", "STRIPE", "shopify", ""},
		},
	}

	result := New(provider).ExtractTurn(context.Background(), "text")

	assert.Equal(t, []string{"Stripe", "Shopify"}, result.Integrations)
}
