package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadscope",
	Short: "Synthetic lead generation, enrichment and propensity scoring",
	Long:  "Generates mock professional-profile and publication leads, enriches them with location and contact data, scores their propensity and serves the results as a dashboard.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.L().Debug("config loaded",
			zap.String("command", cmd.Name()),
			zap.Strings("default_sources", cfg.Sources.Default),
			zap.String("tables_path", cfg.Reference.TablesPath),
		)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
