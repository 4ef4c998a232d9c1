//go:build !integration

package main

import (
	"github.com/sells-group/leadscope/internal/config"
)

// testConfig returns a Config with all defaults populated.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8501},
		Log:    config.LogConfig{Level: "info", Format: "json"},
		Sources: config.SourcesConfig{
			Default: []string{"profile", "publication"},
		},
		Dashboard: config.DashboardConfig{
			DefaultLimit:    50,
			MinLimit:        10,
			MaxLimit:        100,
			DefaultMinScore: 50,
			TopHubs:         5,
			RunsPerSecond:   1000,
			Burst:           1000,
		},
		Scorer: config.DefaultScorerConfig(),
	}
}
