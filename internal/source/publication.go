package source

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
)

// publicationWindow is how far back publication dates reach.
const publicationWindow = 2 * 365 * 24 * time.Hour

// PublicationSource generates publication authors with a recent paper.
type PublicationSource struct {
	tables *reference.Tables
	faker  *gofakeit.Faker
	now    func() time.Time
}

// NewPublicationSource creates a PublicationSource.
func NewPublicationSource(tables *reference.Tables, f *gofakeit.Faker) *PublicationSource {
	return &PublicationSource{tables: tables, faker: f, now: time.Now}
}

// Name implements Source.
func (s *PublicationSource) Name() model.Source { return model.SourcePublication }

// Fetch implements Source.
func (s *PublicationSource) Fetch(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		return []model.Lead{}, nil
	}

	titles := s.tables.PublicationTitles()
	institutes := s.tables.Institutes()
	cities := s.tables.Cities()
	topics := s.tables.ResearchTopics()

	end := s.now().UTC()
	start := end.Add(-publicationWindow)

	leads := make([]model.Lead, 0, limit)
	for range limit {
		if err := checkCtx(ctx, s.Name()); err != nil {
			return nil, err
		}

		f := s.faker
		leads = append(leads, model.Lead{
			ID:              uuid.NewString(),
			Name:            f.Name(),
			Title:           f.RandomString(titles),
			Company:         f.RandomString(institutes),
			Location:        f.RandomString(cities),
			Source:          model.SourcePublication,
			PaperTitle:      fmt.Sprintf("Novel approaches in %s: %s", f.RandomString(topics), f.Phrase()),
			PublicationDate: f.DateRange(start, end).Format(time.DateOnly),
		})
	}
	return leads, nil
}
