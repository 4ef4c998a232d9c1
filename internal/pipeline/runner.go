// Package pipeline runs lead generation, enrichment and scoring end to end.
package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/contact"
	"github.com/sells-group/leadscope/internal/geo"
	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
	"github.com/sells-group/leadscope/internal/scorer"
	"github.com/sells-group/leadscope/internal/source"
)

// Options configures a Runner beyond its required dependencies.
type Options struct {
	Sources config.SourcesConfig
}

// Request selects what a single run generates.
type Request struct {
	Sources []model.Source
	// Limit is the total lead count, split evenly across sources with
	// integer division.
	Limit int
	// Seed makes generation reproducible. Zero means random.
	Seed uint64
}

// Phase records the outcome of one pipeline stage.
type Phase struct {
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// Result is the output of a run. Leads keep generation order.
type Result struct {
	Leads      []model.Lead `json:"leads"`
	TotalFound int          `json:"total_found"`
	Phases     []Phase      `json:"phases"`
}

// Runner wires the sources, enrichers and scorer together. It holds no
// per-run state and is safe for concurrent use.
type Runner struct {
	tables *reference.Tables
	scorer *scorer.Scorer
	opts   Options
}

// New creates a Runner, validating the scorer rules.
func New(tables *reference.Tables, scorerCfg config.ScorerConfig, opts Options) (*Runner, error) {
	if tables == nil {
		return nil, eris.New("pipeline: reference tables are required")
	}
	sc, err := scorer.New(scorerCfg)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build scorer")
	}
	return &Runner{tables: tables, scorer: sc, opts: opts}, nil
}

// Run fetches leads from each requested source in order, then enriches and
// scores every lead sequentially.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Sources) == 0 {
		return nil, eris.New("pipeline: no sources selected")
	}
	if req.Limit <= 0 {
		return nil, eris.Errorf("pipeline: limit must be > 0, got %d", req.Limit)
	}

	log := zap.L().With(
		zap.String("component", "pipeline"),
		zap.Any("sources", req.Sources),
		zap.Int("limit", req.Limit),
		zap.Uint64("seed", req.Seed),
	)
	log.Info("pipeline: starting run")
	start := time.Now()

	faker := gofakeit.New(req.Seed)
	perSource := req.Limit / len(req.Sources)

	result := &Result{}
	var leads []model.Lead
	for _, name := range req.Sources {
		phaseStart := time.Now()

		src, err := source.New(name, r.tables, faker, r.opts.Sources)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: build source")
		}
		fetched, err := src.Fetch(ctx, perSource)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: fetch %s", name)
		}

		leads = append(leads, fetched...)
		result.Phases = append(result.Phases, Phase{
			Name:     "fetch_" + string(name),
			Count:    len(fetched),
			Duration: time.Since(phaseStart),
		})
		log.Debug("pipeline: fetched leads", zap.String("source", string(name)), zap.Int("count", len(fetched)))
	}

	phaseStart := time.Now()
	enricher := geo.NewEnricher(r.tables, jitterSource(req.Seed))
	for i := range leads {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: enrich cancelled")
		}
		l := enricher.Enrich(leads[i])
		l = contact.Enrich(l)
		leads[i] = r.scorer.Score(l)
	}
	result.Phases = append(result.Phases, Phase{
		Name:     "enrich_score",
		Count:    len(leads),
		Duration: time.Since(phaseStart),
	})

	if leads == nil {
		leads = []model.Lead{}
	}
	result.Leads = leads
	result.TotalFound = len(leads)

	log.Info("pipeline: run complete",
		zap.Int("total_found", result.TotalFound),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// jitterSource returns a seeded generator for reproducible runs, or nil to
// use the process-wide source.
func jitterSource(seed uint64) geo.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, ^seed))
}
