package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/pipeline"
	"github.com/sells-group/leadscope/internal/reference"
	"github.com/sells-group/leadscope/internal/source"
)

// loadTables returns the embedded reference tables unless the config points
// at a replacement file.
func loadTables(c *config.Config) (*reference.Tables, error) {
	if c.Reference.TablesPath == "" {
		return reference.Default(), nil
	}
	t, err := reference.Load(c.Reference.TablesPath)
	if err != nil {
		return nil, eris.Wrap(err, "env: load reference tables")
	}
	zap.L().Info("loaded reference tables", zap.String("path", c.Reference.TablesPath))
	return t, nil
}

// defaultSources parses sources.default from the config.
func defaultSources(c *config.Config) ([]model.Source, error) {
	srcs, err := source.ParseSourceList(c.Sources.Default)
	if err != nil {
		return nil, eris.Wrap(err, "env: sources.default")
	}
	if len(srcs) == 0 {
		return model.AllSources, nil
	}
	return srcs, nil
}

// newRunner validates the config and builds the pipeline runner.
func newRunner(c *config.Config) (*pipeline.Runner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tables, err := loadTables(c)
	if err != nil {
		return nil, err
	}
	return pipeline.New(tables, c.Scorer, pipeline.Options{Sources: c.Sources})
}
