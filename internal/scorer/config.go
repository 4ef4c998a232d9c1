// Package scorer computes a rule-based propensity score for each lead.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscope/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with the stock weights
// and keyword sets.
func DefaultScorerConfig() config.ScorerConfig {
	return config.DefaultScorerConfig()
}

// WeightSum returns the best score the rules can award before the cap.
// Only the stronger branch of each either/or rule counts.
func WeightSum(c config.ScorerConfig) int {
	return max(c.RoleFitWeight, c.RoleRelevantWeight) +
		c.ScientificIntentWeight +
		c.CompanyIntentWeight +
		max(c.LocationWeight, c.HQLocationWeight) +
		c.TechnographicWeight
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	// All weights must be non-negative.
	weights := []struct {
		name  string
		value int
	}{
		{"role_fit_weight", c.RoleFitWeight},
		{"role_relevant_weight", c.RoleRelevantWeight},
		{"scientific_intent_weight", c.ScientificIntentWeight},
		{"company_intent_weight", c.CompanyIntentWeight},
		{"location_weight", c.LocationWeight},
		{"hq_location_weight", c.HQLocationWeight},
		{"technographic_weight", c.TechnographicWeight},
	}
	for _, w := range weights {
		if w.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", w.name))
		}
	}

	if c.MaxScore <= 0 || c.MaxScore > 100 {
		errs = append(errs, "max_score must be between 1 and 100")
	}

	// An empty keyword would match every lead.
	keywords := []struct {
		name  string
		value []string
	}{
		{"high_intent_roles", c.HighIntentRoles},
		{"medium_intent_roles", c.MediumIntentRoles},
		{"hubs", c.Hubs},
		{"funded_companies", c.FundedCompanies},
		{"tech_companies", c.TechCompanies},
	}
	for _, k := range keywords {
		if len(k.value) == 0 {
			errs = append(errs, fmt.Sprintf("%s must not be empty", k.name))
			continue
		}
		for _, v := range k.value {
			if strings.TrimSpace(v) == "" {
				errs = append(errs, fmt.Sprintf("%s must not contain blank entries", k.name))
				break
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
