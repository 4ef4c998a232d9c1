package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ReferenceConfig points at an optional replacement for the embedded lookup tables.
type ReferenceConfig struct {
	TablesPath string `yaml:"tables_path" mapstructure:"tables_path"`
}

// SourcesConfig configures the synthetic lead generators.
type SourcesConfig struct {
	Default []string      `yaml:"default" mapstructure:"default"`
	Profile ProfileConfig `yaml:"profile" mapstructure:"profile"`
}

// ProfileConfig configures the professional profile generator.
type ProfileConfig struct {
	// RecentPaperRate is the probability that a profile lead is flagged as
	// having a recent publication.
	RecentPaperRate float64 `yaml:"recent_paper_rate" mapstructure:"recent_paper_rate"`
}

// DashboardConfig configures the presentation layer.
type DashboardConfig struct {
	DefaultLimit    int     `yaml:"default_limit" mapstructure:"default_limit"`
	MinLimit        int     `yaml:"min_limit" mapstructure:"min_limit"`
	MaxLimit        int     `yaml:"max_limit" mapstructure:"max_limit"`
	DefaultMinScore int     `yaml:"default_min_score" mapstructure:"default_min_score"`
	TopHubs         int     `yaml:"top_hubs" mapstructure:"top_hubs"`
	RunsPerSecond   float64 `yaml:"runs_per_second" mapstructure:"runs_per_second"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// ScorerConfig holds the propensity rule weights and keyword sets.
type ScorerConfig struct {
	RoleFitWeight          int `yaml:"role_fit_weight" mapstructure:"role_fit_weight"`
	RoleRelevantWeight     int `yaml:"role_relevant_weight" mapstructure:"role_relevant_weight"`
	ScientificIntentWeight int `yaml:"scientific_intent_weight" mapstructure:"scientific_intent_weight"`
	CompanyIntentWeight    int `yaml:"company_intent_weight" mapstructure:"company_intent_weight"`
	LocationWeight         int `yaml:"location_weight" mapstructure:"location_weight"`
	HQLocationWeight       int `yaml:"hq_location_weight" mapstructure:"hq_location_weight"`
	TechnographicWeight    int `yaml:"technographic_weight" mapstructure:"technographic_weight"`
	MaxScore               int `yaml:"max_score" mapstructure:"max_score"`

	HighIntentRoles   []string `yaml:"high_intent_roles" mapstructure:"high_intent_roles"`
	MediumIntentRoles []string `yaml:"medium_intent_roles" mapstructure:"medium_intent_roles"`
	Hubs              []string `yaml:"hubs" mapstructure:"hubs"`
	FundedCompanies   []string `yaml:"funded_companies" mapstructure:"funded_companies"`
	TechCompanies     []string `yaml:"tech_companies" mapstructure:"tech_companies"`
}

// DefaultScorerConfig returns the stock propensity rules.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		RoleFitWeight:          30,
		RoleRelevantWeight:     15,
		ScientificIntentWeight: 40,
		CompanyIntentWeight:    20,
		LocationWeight:         10,
		HQLocationWeight:       5,
		TechnographicWeight:    15,
		MaxScore:               100,

		HighIntentRoles:   []string{"Toxicology", "Safety", "Hepatic", "3D", "Liver", "Preclinical"},
		MediumIntentRoles: []string{"Scientist", "Investigator"},
		Hubs:              []string{"Boston", "Cambridge", "San Francisco", "Bay Area", "Basel", "London", "Oxford"},
		FundedCompanies:   []string{"StartUp Bio", "Moderna", "BioTech Inc"},
		TechCompanies:     []string{"Roche", "Novartis", "Genentech"},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables still win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8501)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("reference.tables_path", "")
	v.SetDefault("sources.default", []string{"profile", "publication"})
	v.SetDefault("sources.profile.recent_paper_rate", 0.0)
	v.SetDefault("dashboard.default_limit", 50)
	v.SetDefault("dashboard.min_limit", 10)
	v.SetDefault("dashboard.max_limit", 100)
	v.SetDefault("dashboard.default_min_score", 50)
	v.SetDefault("dashboard.top_hubs", 5)
	v.SetDefault("dashboard.runs_per_second", 2.0)
	v.SetDefault("dashboard.burst", 5)

	sc := DefaultScorerConfig()
	v.SetDefault("scorer.role_fit_weight", sc.RoleFitWeight)
	v.SetDefault("scorer.role_relevant_weight", sc.RoleRelevantWeight)
	v.SetDefault("scorer.scientific_intent_weight", sc.ScientificIntentWeight)
	v.SetDefault("scorer.company_intent_weight", sc.CompanyIntentWeight)
	v.SetDefault("scorer.location_weight", sc.LocationWeight)
	v.SetDefault("scorer.hq_location_weight", sc.HQLocationWeight)
	v.SetDefault("scorer.technographic_weight", sc.TechnographicWeight)
	v.SetDefault("scorer.max_score", sc.MaxScore)
	v.SetDefault("scorer.high_intent_roles", sc.HighIntentRoles)
	v.SetDefault("scorer.medium_intent_roles", sc.MediumIntentRoles)
	v.SetDefault("scorer.hubs", sc.Hubs)
	v.SetDefault("scorer.funded_companies", sc.FundedCompanies)
	v.SetDefault("scorer.tech_companies", sc.TechCompanies)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the server, source and dashboard sections. Scorer rules are
// validated by the scorer package.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be 1..65535")
	}
	if c.Sources.Profile.RecentPaperRate < 0 || c.Sources.Profile.RecentPaperRate > 1 {
		errs = append(errs, "sources.profile.recent_paper_rate must be between 0 and 1")
	}

	d := c.Dashboard
	if d.MinLimit <= 0 {
		errs = append(errs, "dashboard.min_limit must be > 0")
	}
	if d.MaxLimit < d.MinLimit {
		errs = append(errs, "dashboard.max_limit must be >= dashboard.min_limit")
	}
	if d.DefaultLimit < d.MinLimit || d.DefaultLimit > d.MaxLimit {
		errs = append(errs, fmt.Sprintf("dashboard.default_limit must be between %d and %d", d.MinLimit, d.MaxLimit))
	}
	if d.DefaultMinScore < 0 || d.DefaultMinScore > 100 {
		errs = append(errs, "dashboard.default_min_score must be between 0 and 100")
	}
	if d.TopHubs <= 0 {
		errs = append(errs, "dashboard.top_hubs must be > 0")
	}
	if d.RunsPerSecond <= 0 {
		errs = append(errs, "dashboard.runs_per_second must be > 0")
	}
	if d.Burst < 1 {
		errs = append(errs, "dashboard.burst must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger replaces the global zap logger. "console" gives the
// human-readable development encoder; "json" or empty gives production JSON.
// Every entry carries app=leadscope.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	case "json", "":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return eris.Errorf("config: unknown log format %q", cfg.Format)
	}
	zapCfg.InitialFields = map[string]any{"app": "leadscope"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
