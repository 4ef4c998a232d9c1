// Package source generates synthetic leads in the style of professional
// profiles and publication authors.
package source

import (
	"context"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
)

// Source produces leads tagged with its provenance.
type Source interface {
	Name() model.Source
	// Fetch returns up to limit leads. A non-positive limit yields none.
	Fetch(ctx context.Context, limit int) ([]model.Lead, error)
}

// New builds the generator for name. All generators of one run should share
// the same Faker so a seeded run is reproducible.
func New(name model.Source, tables *reference.Tables, f *gofakeit.Faker, cfg config.SourcesConfig) (Source, error) {
	switch name {
	case model.SourceProfile:
		return NewProfileSource(tables, f, cfg.Profile.RecentPaperRate), nil
	case model.SourcePublication:
		return NewPublicationSource(tables, f), nil
	default:
		return nil, eris.Errorf("source: unknown source %q", name)
	}
}

// ParseSources maps a comma separated list such as "profile,publication" to
// sources, in input order and without duplicates. Blank input yields an
// empty list.
func ParseSources(raw string) ([]model.Source, error) {
	return ParseSourceList(strings.Split(raw, ","))
}

// ParseSourceList is ParseSources for already split input.
func ParseSourceList(names []string) ([]model.Source, error) {
	out := make([]model.Source, 0, len(names))
	seen := make(map[model.Source]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		s, ok := model.ParseSource(n)
		if !ok {
			return nil, eris.Errorf("source: unknown source %q", strings.TrimSpace(n))
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func checkCtx(ctx context.Context, name model.Source) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "source: %s generation cancelled", name)
	}
	return nil
}
