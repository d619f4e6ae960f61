package models

import "strings"

// LabelCatalog is the closed catalog of business-function labels. Extracted
// labels outside this list are dropped; the extraction prompt embeds it so
// the model can only choose from here.
var LabelCatalog = []string{
	"Accounting", "Analytics", "Banking", "CRM", "Communication", "Compliance",
	"Customer Support", "Data Management", "Debt Collection", "Document Management",
	"E-commerce", "Email Marketing", "Financial Planning", "HR & Payroll", "Invoicing",
	"Inventory Management", "Legal Services", "Liquidity Management", "Marketing Automation",
	"Multi-Banking", "Online Payments", "Point of Sale", "Project Management", "Reporting",
	"Sales", "Shipping & Logistics", "Tax Management", "Time Tracking", "Workflow Automation",
}

// TagCatalog is a suggested (non-closed) vocabulary of business-context tags
// shown to the extraction model. Unlike labels, tags outside this list are
// kept.
var TagCatalog = []string{
	"SME", "Startup", "Enterprise", "Freelancer", "Switzerland", "Germany",
	"Austria", "Europe", "Retail", "Hospitality", "Manufacturing", "Healthcare",
	"Construction", "Consulting", "Automation", "Cloud", "Mobile", "Multi-Currency",
	"Multilingual", "Remote Teams", "Subscription Business", "B2B", "B2C",
}

var labelCatalogIndex = func() map[string]struct{} {
	idx := make(map[string]struct{}, len(LabelCatalog))
	for _, l := range LabelCatalog {
		idx[strings.ToLower(l)] = struct{}{}
	}
	return idx
}()

// IsCatalogLabel reports whether label belongs to the closed catalog.
// Comparison is case-insensitive.
func IsCatalogLabel(label string) bool {
	_, ok := labelCatalogIndex[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// CanonicalLabel returns the catalog spelling for a label, or the input
// unchanged when it is not a catalog entry.
func CanonicalLabel(label string) string {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, l := range LabelCatalog {
		if strings.ToLower(l) == needle {
			return l
		}
	}
	return label
}
