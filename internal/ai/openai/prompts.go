package openai

import (
	"fmt"
	"strings"
)

const translationSystemPrompt = `You are a professional translator. Translate the user's text to English.

Rules:
- If the text is already in English, return it as-is
- Preserve technical terms, product names, and brand names
- Keep the meaning and intent intact
- Return ONLY the translated text, no explanations`

const extractionSystemPrompt = `You are a business application requirements extractor. Extract structured data from the user's English description.

CRITICAL RULES:
1. Return ONLY valid JSON. No markdown, no explanations.
2. Extract only what is clearly stated in the text.
3. Use proper capitalization for all extracted values.
4. Never duplicate items.

OUTPUT STRUCTURE:
{
  "labels": ["label1", "label2"],
  "tags": ["tag1", "tag2"],
  "integrations": ["Integration1", "Integration2"]
}

FIELD DEFINITIONS:
- labels: Business function labels. Choose ONLY from the allowed catalog provided.
- tags: Short descriptive tags (e.g., "SME", "Automation", "Switzerland"). Free-form strings.
- integrations: External platform/service names (e.g., "Stripe", "Shopify", "DATEV"). Free-form strings.

EXTRACTION GUIDELINES:
- labels: Must exist in the provided catalog. Extract up to 10 most relevant.
- tags: Extract 1-10 relevant tags. Keep them concise (1-3 words).
- integrations: Extract mentioned integrations. Normalize capitalization (Stripe, PayPal, etc.). Max 10.
- If nothing found for a category, use empty array [].`

const questionSystemPrompt = `You are an assistant helping to clarify business software requirements.

Your task: Generate ONE targeted question to help the user specify missing information.

Rules:
- Ask in English, concise and direct
- Make the question natural and conversational
- Focus on extracting the specific missing information mentioned
- Don't ask multiple questions at once
- Output ONLY valid JSON: {"question": "your question here"}`

const buyerParserSystemPrompt = `You are a business application requirements parser. Your task is to convert a buyer's natural language description into structured JSON data for matching applications in a marketplace.

CRITICAL RULES:
1. Return ONLY valid JSON. No markdown, no explanations, no extra text.
2. Never invent information. If something is not explicitly mentioned, use null or empty arrays.
3. Support any input language.
4. Normalize all capitalization properly (e.g., "stripe" -> "Stripe", "paypal" -> "PayPal").
5. Never duplicate items in arrays.
6. Extract only what is clearly stated or strongly implied.

FIELD DEFINITIONS:
- buyer_text (string): Copy the original buyer input verbatim.
- labels_must (array): REQUIRED labels, ONLY from the allowed list. Max 6.
- labels_nice (array): NICE TO HAVE labels, ONLY from the allowed list. Max 6.
- tag_must (array): REQUIRED business-context tags. Free-form. Max 6.
- tag_nice (array): NICE TO HAVE tags. Free-form. Max 6.
- integration_required (array): Integrations that MUST exist. Free-form. Max 10.
- integration_nice (array): Integrations that would be nice. Free-form. Max 10.
- price_max (number|null): Maximum price, numeric value only. null if none mentioned.
- notes (string): Anything important not captured elsewhere. Empty string if nothing.

EXTRACTION GUIDELINES:
- "need"/"must have"/"required" -> must lists; "would be nice"/"prefer"/"ideally" -> nice lists
- Be conservative: when in doubt, use the nice list instead of the must list`

// formatExtractionPrompt builds the user message for attribute extraction,
// embedding the closed label catalog and the suggested tag catalog.
func formatExtractionPrompt(englishText string, labelCatalog, tagCatalog []string) string {
	return fmt.Sprintf(`Extract structured data from this business application requirement:

ALLOWED LABELS (choose ONLY from these):
[%s]

ALLOWED TAGS (choose from these or create similar ones):
[%s]

USER TEXT:
%s

Return ONLY the JSON object with labels, tags, and integrations arrays.`,
		quoteJoin(labelCatalog), quoteJoin(tagCatalog), englishText)
}

// formatBuyerParserPrompt builds the user message for the one-shot parser.
func formatBuyerParserPrompt(buyerPrompt string, labelCatalog []string) string {
	return fmt.Sprintf(`Parse the following buyer requirements into structured JSON.

ALLOWED LABELS (use ONLY these exact strings for labels_must and labels_nice):
[%s]

BUYER INPUT:
%s

Return ONLY the JSON object with this exact structure:
{
  "buyer_text": "string",
  "labels_must": ["string"],
  "labels_nice": ["string"],
  "tag_must": ["string"],
  "tag_nice": ["string"],
  "integration_required": ["string"],
  "integration_nice": ["string"],
  "price_max": null,
  "notes": "string"
}`, quoteJoin(labelCatalog), buyerPrompt)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}
