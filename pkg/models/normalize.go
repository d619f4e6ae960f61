package models

import (
	"strings"
	"unicode"
)

// TitleCase upper-cases the first letter of every space-separated word and
// lower-cases the rest, mirroring how extracted values are canonicalized.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevIsLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevIsLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevIsLetter = true
		} else {
			b.WriteRune(r)
			prevIsLetter = false
		}
	}
	return b.String()
}

// NormalizeTag canonicalizes a free-form tag: trimmed, Title Case.
func NormalizeTag(tag string) string {
	return TitleCase(strings.TrimSpace(tag))
}

// NormalizeIntegration canonicalizes an integration name so that variants
// like "stripe " and "Stripe" compare equal after normalization.
func NormalizeIntegration(key string) string {
	return TitleCase(strings.TrimSpace(key))
}

// DedupPreserveOrder removes duplicates (exact match) while preserving
// first-seen order and skipping empty strings.
func DedupPreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

// DedupFold removes duplicates case-insensitively while preserving the
// first-seen spelling and order, skipping empty strings.
func DedupFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}
