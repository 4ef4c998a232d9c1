package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscope/internal/config"
	"github.com/sells-group/leadscope/internal/dashboard"
	"github.com/sells-group/leadscope/internal/export"
	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/pipeline"
	"github.com/sells-group/leadscope/internal/source"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Generate, enrich and score leads once",
	Long: `Generate synthetic leads, enrich them with location and contact data,
score their propensity and print the qualified ones.

The limit is split evenly across the selected sources.

Examples:
  # Top leads from both sources with the configured defaults
  leads

  # 100 leads, keep those scoring 60+ near Boston
  leads --limit 100 --min-score 60 --location boston

  # Reproducible run written to a spreadsheet
  leads --seed 42 --format xlsx --output leads.xlsx

  # Emphasise different hubs for this run only
  leads --hubs Basel,Oxford --format json`,
	RunE: runLeads,
}

func init() {
	registerLeadsFlags(leadsCmd)
	rootCmd.AddCommand(leadsCmd)
}

func registerLeadsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("sources", "", "comma-separated sources: profile,publication (default from config)")
	f.Int("limit", 0, "total leads to generate (0=use config default)")
	f.Int("min-score", 0, "minimum propensity score (default from config)")
	f.String("location", "", "keep leads whose location contains this text")
	f.Uint64("seed", 0, "random seed for reproducible runs (0=random)")
	f.String("hubs", "", "comma-separated hub keywords (overrides config)")
	f.String("high-intent-roles", "", "comma-separated high intent title keywords (overrides config)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "table", "output format: table, csv, json, yaml or xlsx")
}

func runLeads(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	if format == string(export.FormatXLSX) && outputPath == "" {
		return eris.New("leads: xlsx output requires --output")
	}
	if format != "table" {
		if _, err := export.ParseFormat(format); err != nil {
			return eris.Wrap(err, "leads")
		}
	}

	runCfg := *cfg
	runCfg.Scorer = applyScorerOverrides(cmd, cfg.Scorer)

	req, filter, err := leadsRequest(cmd, &runCfg)
	if err != nil {
		return err
	}

	runner, err := newRunner(&runCfg)
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	qualified := dashboard.Apply(res.Leads, filter)
	metrics := dashboard.Summarize(res.TotalFound, qualified, runCfg.Dashboard.TopHubs)

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "leads: create output file %s", outputPath)
		}
		defer file.Close() //nolint:errcheck
		w = file
	}

	if format == "table" {
		if err := writeLeadsTable(w, qualified); err != nil {
			return err
		}
		printLeadsSummary(w, metrics)
		return nil
	}
	return export.Write(w, export.Format(format), qualified)
}

// leadsRequest builds the pipeline request and filter from flags, falling
// back to config defaults.
func leadsRequest(cmd *cobra.Command, c *config.Config) (pipeline.Request, dashboard.Filter, error) {
	req := pipeline.Request{Limit: c.Dashboard.DefaultLimit}
	filter := dashboard.Filter{MinScore: c.Dashboard.DefaultMinScore}

	srcs, err := defaultSources(c)
	if err != nil {
		return req, filter, err
	}
	if v, _ := cmd.Flags().GetString("sources"); v != "" {
		srcs, err = source.ParseSources(v)
		if err != nil {
			return req, filter, eris.Wrap(err, "leads: --sources")
		}
	}
	req.Sources = srcs

	if v, _ := cmd.Flags().GetInt("limit"); v != 0 {
		if v < 0 {
			return req, filter, eris.Errorf("leads: --limit must be > 0, got %d", v)
		}
		req.Limit = v
	}
	if cmd.Flags().Changed("min-score") {
		v, _ := cmd.Flags().GetInt("min-score")
		if v < 0 || v > 100 {
			return req, filter, eris.Errorf("leads: --min-score must be between 0 and 100, got %d", v)
		}
		filter.MinScore = v
	}
	filter.Location, _ = cmd.Flags().GetString("location")
	req.Seed, _ = cmd.Flags().GetUint64("seed")

	return req, filter, nil
}

// applyScorerOverrides returns a copy of the base config with CLI flag overrides applied.
func applyScorerOverrides(cmd *cobra.Command, base config.ScorerConfig) config.ScorerConfig {
	c := base

	if v, _ := cmd.Flags().GetString("hubs"); len(splitAndTrim(v)) > 0 {
		c.Hubs = splitAndTrim(v)
	}
	if v, _ := cmd.Flags().GetString("high-intent-roles"); len(splitAndTrim(v)) > 0 {
		c.HighIntentRoles = splitAndTrim(v)
	}

	return c
}

func writeLeadsTable(w io.Writer, leads []model.Lead) error {
	header := fmt.Sprintf("%5s  %-24s %-34s %-26s %-40s %s\n",
		"Score", "Name", "Title", "Company", "Location", "Email")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "leads: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 160)); err != nil {
		return eris.Wrap(err, "leads: write table separator")
	}

	for _, l := range leads {
		line := fmt.Sprintf("%5d  %-24s %-34s %-26s %-40s %s\n",
			l.Score, truncate(l.Name, 24), truncate(l.Title, 34), truncate(l.Company, 26),
			truncate(l.LocationDetails, 40), l.Email)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "leads: write table row")
		}
		if l.ScoreReasons != "" {
			if _, err := fmt.Fprintf(w, "%7s%s\n", "", l.ScoreReasons); err != nil {
				return eris.Wrap(err, "leads: write table row")
			}
		}
	}
	return nil
}

func printLeadsSummary(w io.Writer, m dashboard.Metrics) {
	if m.Qualified == 0 {
		fmt.Fprintf(w, "\nNo qualified leads out of %d found. Try a lower --min-score or a wider --location.\n", m.TotalFound)
		return
	}
	fmt.Fprintf(w, "\n--- Summary ---\n")
	fmt.Fprintf(w, "Total found:   %d\n", m.TotalFound)
	fmt.Fprintf(w, "Qualified:     %d (%.1f%%)\n", m.Qualified, float64(m.Qualified)/float64(m.TotalFound)*100)
	fmt.Fprintf(w, "Average score: %.1f\n", m.AvgScore)
	fmt.Fprintf(w, "Remote / HQ:   %d / %d\n", m.Remote, m.HQBased)
	if len(m.TopHubs) > 0 {
		fmt.Fprintf(w, "Top hubs:\n")
		for _, h := range m.TopHubs {
			fmt.Fprintf(w, "  %-28s %d\n", h.HQ, h.Count)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
