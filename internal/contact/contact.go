// Package contact derives a mock work email for each lead.
package contact

import (
	"strings"

	"github.com/sells-group/leadscope/internal/model"
)

const (
	fallbackLocal  = "info"
	fallbackDomain = "company.com"
)

// Enrich returns a copy of lead with an email derived from its name and
// company. A lead that already has an email is returned unchanged.
func Enrich(lead model.Lead) model.Lead {
	if lead.Email != "" {
		return lead
	}
	lead.Email = LocalPart(lead.Name) + "@" + Domain(lead.Company)
	return lead
}

// LocalPart returns "first.last" from the first and last whitespace
// separated tokens of the lower-cased name, or "info" when fewer than two
// exist. Middle names are dropped.
func LocalPart(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) < 2 {
		return fallbackLocal
	}
	return parts[0] + "." + parts[len(parts)-1]
}

// Domain returns the company with spaces removed, lower-cased, plus ".com".
func Domain(company string) string {
	if company == "" {
		return fallbackDomain
	}
	return strings.ToLower(strings.ReplaceAll(company, " ", "")) + ".com"
}
