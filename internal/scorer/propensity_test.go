package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscope/internal/model"
)

func newDefaultScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(DefaultScorerConfig())
	require.NoError(t, err)
	return s
}

func TestScore_Examples(t *testing.T) {
	s := newDefaultScorer(t)

	tests := []struct {
		name        string
		lead        model.Lead
		wantScore   int
		wantReasons []string
	}{
		{
			name: "toxicology publication author in boston",
			lead: model.Lead{
				Title:     "Toxicology Lead",
				Company:   "Harvard Medical School",
				Location:  "Boston, MA",
				Source:    model.SourcePublication,
				CompanyHQ: model.UnknownHQ,
			},
			wantScore: 80,
			wantReasons: []string{
				"Role Fit: 'Toxicology Lead' matches key terms (+30)",
				"Scientific Intent: Recent Publication (+40)",
				"Location: Located in hub 'Boston, MA' (+10)",
			},
		},
		{
			name: "funded company in hub reaches the cap",
			lead: model.Lead{
				Title:     "Director of Toxicology",
				Company:   "Moderna",
				Location:  "Cambridge, MA",
				Source:    model.SourcePublication,
				CompanyHQ: "Cambridge, MA",
			},
			wantScore: 100,
			wantReasons: []string{
				"Role Fit: 'Director of Toxicology' matches key terms (+30)",
				"Scientific Intent: Recent Publication (+40)",
				"Company Intent: Moderna recently funded (+20)",
				"Location: Located in hub 'Cambridge, MA' (+10)",
			},
		},
		{
			name: "nothing fires",
			lead: model.Lead{
				Title:     "Research Associate",
				Company:   "Unknown Org",
				Location:  "Durham, NC",
				Source:    model.SourceProfile,
				CompanyHQ: model.UnknownHQ,
			},
			wantScore: 0,
		},
		{
			name: "high and medium keywords only award high",
			lead: model.Lead{
				Title:    "Senior Scientist, Liver Toxicity",
				Location: "Durham, NC",
				Source:   model.SourceProfile,
			},
			wantScore: 30,
			wantReasons: []string{
				"Role Fit: 'Senior Scientist, Liver Toxicity' matches key terms (+30)",
			},
		},
		{
			name: "medium keyword only",
			lead: model.Lead{
				Title:  "Principal Investigator",
				Source: model.SourceProfile,
			},
			wantScore: 15,
			wantReasons: []string{
				"Role Fit: 'Principal Investigator' is relevant (+15)",
			},
		},
		{
			name: "recent paper flag on a profile",
			lead: model.Lead{
				Title:          "Research Associate",
				Source:         model.SourceProfile,
				HasRecentPaper: true,
			},
			wantScore: 40,
			wantReasons: []string{
				"Scientific Intent: Recent Publication (+40)",
			},
		},
		{
			name: "hq hub and technographic",
			lead: model.Lead{
				Title:     "Research Associate",
				Company:   "Roche",
				Location:  "Durham, NC",
				Source:    model.SourceProfile,
				CompanyHQ: "Basel, Switzerland",
			},
			wantScore: 20,
			wantReasons: []string{
				"Location: HQ in hub (+5)",
				"Technographic: Uses similar tech (+15)",
			},
		},
		{
			name: "location hub wins over hq hub",
			lead: model.Lead{
				Company:   "Novartis",
				Location:  "London, UK",
				Source:    model.SourceProfile,
				CompanyHQ: "Basel, Switzerland",
			},
			wantScore: 25,
			wantReasons: []string{
				"Location: Located in hub 'London, UK' (+10)",
				"Technographic: Uses similar tech (+15)",
			},
		},
		{
			name: "keyword and hub matching ignore case",
			lead: model.Lead{
				Title:    "head of PRECLINICAL safety",
				Location: "oxford, uk",
				Source:   model.SourceProfile,
			},
			wantScore: 40,
			wantReasons: []string{
				"Role Fit: 'head of PRECLINICAL safety' matches key terms (+30)",
				"Location: Located in hub 'oxford, uk' (+10)",
			},
		},
		{
			name: "company sets are exact match",
			lead: model.Lead{
				Company: "moderna",
				Source:  model.SourceProfile,
			},
			wantScore: 0,
		},
		{
			name:      "empty lead",
			lead:      model.Lead{},
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.lead)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, strings.Join(tt.wantReasons, "; "), got.ScoreReasons)
		})
	}
}

func TestScore_Clamped(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.FundedCompanies = append(cfg.FundedCompanies, "Roche")
	s, err := New(cfg)
	require.NoError(t, err)

	// 30 + 40 + 20 + 10 + 15 = 115 before the cap.
	got := s.Score(model.Lead{
		Title:     "VP Drug Safety",
		Company:   "Roche",
		Location:  "Basel, Switzerland",
		Source:    model.SourcePublication,
		CompanyHQ: "Basel, Switzerland",
	})
	assert.Equal(t, 100, got.Score)
	assert.Len(t, strings.Split(got.ScoreReasons, ReasonSeparator), 5)
}

func TestScore_CustomWeights(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.ScientificIntentWeight = 25
	cfg.MaxScore = 60
	s, err := New(cfg)
	require.NoError(t, err)

	// 30 + 25 + 10 = 65 before the cap.
	got := s.Score(model.Lead{Title: "Toxicology Fellow", Location: "Boston, MA", Source: model.SourcePublication})
	assert.Equal(t, 60, got.Score)
	assert.Contains(t, got.ScoreReasons, "Scientific Intent: Recent Publication (+25)")
}

func TestScore_Deterministic(t *testing.T) {
	s := newDefaultScorer(t)
	lead := model.Lead{Title: "Director of Toxicology", Company: "Moderna", Location: "Cambridge, MA", Source: model.SourceProfile, CompanyHQ: "Cambridge, MA"}

	first := s.Score(lead)
	for range 10 {
		assert.Equal(t, first, s.Score(lead))
	}
}

func TestScore_PreservesFields(t *testing.T) {
	s := newDefaultScorer(t)
	in := model.Lead{ID: "x", Name: "Jane Doe", Email: "jane.doe@moderna.com", Company: "Moderna", CompanyHQ: "Cambridge, MA"}
	in.SetCoords(1, 2)

	got := s.Score(in)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, "jane.doe@moderna.com", got.Email)
	assert.True(t, got.HasCoords())
	assert.Equal(t, 0, in.Score)
}

func TestScore_Bounds(t *testing.T) {
	s := newDefaultScorer(t)
	titles := []string{"", "Director of Toxicology", "Principal Investigator", "Research Associate"}
	companies := []string{"", "Moderna", "Roche", "Unknown Org"}
	locations := []string{"", "Boston, MA", "Durham, NC", "Remote, TX"}
	sources := []model.Source{model.SourceProfile, model.SourcePublication}

	for _, title := range titles {
		for _, company := range companies {
			for _, loc := range locations {
				for _, src := range sources {
					got := s.Score(model.Lead{Title: title, Company: company, Location: loc, Source: src, CompanyHQ: "Cambridge, MA"})
					assert.GreaterOrEqual(t, got.Score, 0)
					assert.LessOrEqual(t, got.Score, 100)
				}
			}
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.Hubs = nil
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hubs must not be empty")
}
