package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
)

// ProfileSource generates professional-network style profiles.
type ProfileSource struct {
	tables          *reference.Tables
	faker           *gofakeit.Faker
	recentPaperRate float64
}

// NewProfileSource creates a ProfileSource. recentPaperRate is the
// probability in [0, 1] that a profile is flagged with a recent publication.
func NewProfileSource(tables *reference.Tables, f *gofakeit.Faker, recentPaperRate float64) *ProfileSource {
	return &ProfileSource{tables: tables, faker: f, recentPaperRate: recentPaperRate}
}

// Name implements Source.
func (s *ProfileSource) Name() model.Source { return model.SourceProfile }

// Fetch implements Source.
func (s *ProfileSource) Fetch(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		return []model.Lead{}, nil
	}

	titles := s.tables.ProfileTitles()
	companies := s.tables.Companies()
	cities := s.tables.Cities()
	topics := s.tables.ResearchTopics()

	leads := make([]model.Lead, 0, limit)
	for range limit {
		if err := checkCtx(ctx, s.Name()); err != nil {
			return nil, err
		}

		f := s.faker
		leads = append(leads, model.Lead{
			ID:         uuid.NewString(),
			Name:       f.Name(),
			Title:      f.RandomString(titles),
			Company:    f.RandomString(companies),
			Location:   f.RandomString(cities),
			Source:     model.SourceProfile,
			ProfileURL: "https://linkedin.com/in/" + strings.ToLower(f.Username()),
			Summary: fmt.Sprintf("%s %s lead working on %s.",
				f.JobDescriptor(), f.JobLevel(), strings.ToLower(f.RandomString(topics))),
			HasRecentPaper: f.Float64() < s.recentPaperRate,
		})
	}
	return leads, nil
}
