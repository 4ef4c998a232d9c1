package scorer

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/model"
)

// ReasonSeparator joins the rule trace in score_reasons.
const ReasonSeparator = "; "

// Scorer applies the propensity rules. It is safe for concurrent use.
type Scorer struct {
	cfg    config.ScorerConfig
	high   []string
	medium []string
	hubs   []string
}

// New validates cfg and builds a Scorer.
func New(cfg config.ScorerConfig) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{
		cfg:    cfg,
		high:   foldAll(cfg.HighIntentRoles),
		medium: foldAll(cfg.MediumIntentRoles),
		hubs:   foldAll(cfg.Hubs),
	}, nil
}

// Config returns the rules the Scorer was built with.
func (s *Scorer) Config() config.ScorerConfig {
	return s.cfg
}

// Score returns a copy of lead with score and score_reasons set. Rules run in
// a fixed order and each adds its weight; the total is capped at MaxScore.
func (s *Scorer) Score(lead model.Lead) model.Lead {
	var (
		total   int
		reasons []string
	)
	add := func(weight int, reason string) {
		total += weight
		reasons = append(reasons, reason)
	}

	// Role fit.
	title := fold(lead.Title)
	switch {
	case containsAny(title, s.high):
		add(s.cfg.RoleFitWeight, fmt.Sprintf("Role Fit: '%s' matches key terms (+%d)", lead.Title, s.cfg.RoleFitWeight))
	case containsAny(title, s.medium):
		add(s.cfg.RoleRelevantWeight, fmt.Sprintf("Role Fit: '%s' is relevant (+%d)", lead.Title, s.cfg.RoleRelevantWeight))
	}

	// Scientific intent.
	if lead.Source == model.SourcePublication || lead.HasRecentPaper {
		add(s.cfg.ScientificIntentWeight, fmt.Sprintf("Scientific Intent: Recent Publication (+%d)", s.cfg.ScientificIntentWeight))
	}

	// Company intent.
	if slices.Contains(s.cfg.FundedCompanies, lead.Company) {
		add(s.cfg.CompanyIntentWeight, fmt.Sprintf("Company Intent: %s recently funded (+%d)", lead.Company, s.cfg.CompanyIntentWeight))
	}

	// Location.
	switch {
	case containsAny(fold(lead.Location), s.hubs):
		add(s.cfg.LocationWeight, fmt.Sprintf("Location: Located in hub '%s' (+%d)", lead.Location, s.cfg.LocationWeight))
	case containsAny(fold(lead.CompanyHQ), s.hubs):
		add(s.cfg.HQLocationWeight, fmt.Sprintf("Location: HQ in hub (+%d)", s.cfg.HQLocationWeight))
	}

	// Technographic.
	if slices.Contains(s.cfg.TechCompanies, lead.Company) {
		add(s.cfg.TechnographicWeight, fmt.Sprintf("Technographic: Uses similar tech (+%d)", s.cfg.TechnographicWeight))
	}

	lead.Score = min(max(total, 0), s.cfg.MaxScore)
	lead.ScoreReasons = strings.Join(reasons, ReasonSeparator)
	return lead
}

// fold builds a fresh Caser per call; Casers are not safe to share.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fold(v)
	}
	return out
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
