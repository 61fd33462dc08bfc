package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	Resolver       ResolverConfig       `yaml:"resolver" mapstructure:"resolver"`
	Extract        ExtractConfig        `yaml:"extract" mapstructure:"extract"`
	ClinicalTrials ClinicalTrialsConfig `yaml:"clinicaltrials" mapstructure:"clinicaltrials"`
	OpenAlex       OpenAlexConfig       `yaml:"openalex" mapstructure:"openalex"`
	PatentsView    PatentsViewConfig    `yaml:"patentsview" mapstructure:"patentsview"`
	Server         ServerConfig         `yaml:"server" mapstructure:"server"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ResolverConfig configures source chain resolution.
type ResolverConfig struct {
	ChainsFile       string `yaml:"chains_file" mapstructure:"chains_file"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	DefaultLimit     int    `yaml:"default_limit" mapstructure:"default_limit"`
}

// ExtractConfig configures term extraction.
type ExtractConfig struct {
	ConfigFile string `yaml:"config_file" mapstructure:"config_file"`
}

// ClinicalTrialsConfig holds ClinicalTrials.gov API settings.
type ClinicalTrialsConfig struct {
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	Disabled bool    `yaml:"disabled" mapstructure:"disabled"`
}

// OpenAlexConfig holds OpenAlex API settings.
type OpenAlexConfig struct {
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	Mailto   string  `yaml:"mailto" mapstructure:"mailto"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	Disabled bool    `yaml:"disabled" mapstructure:"disabled"`
}

// PatentsViewConfig holds PatentsView API settings.
type PatentsViewConfig struct {
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string  `yaml:"api_key" mapstructure:"api_key"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	Disabled bool    `yaml:"disabled" mapstructure:"disabled"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PHARMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "pharma-intel.db")
	v.SetDefault("resolver.fetch_timeout_secs", 10)
	v.SetDefault("resolver.default_limit", 10)
	v.SetDefault("clinicaltrials.base_url", "https://clinicaltrials.gov/api/v2")
	v.SetDefault("clinicaltrials.rate_rps", 3)
	v.SetDefault("openalex.base_url", "https://api.openalex.org")
	v.SetDefault("openalex.rate_rps", 10)
	v.SetDefault("patentsview.base_url", "https://search.patentsview.org/api/v1")
	v.SetDefault("patentsview.rate_rps", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks configuration for a run mode. Modes differ in what they
// require: resolve works with defaults alone, serve and report need a
// reachable store.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Store.Driver == "sqlite" || c.Store.Driver == "postgres",
		"store.driver must be sqlite or postgres")
	check(c.Resolver.FetchTimeoutSecs > 0, "resolver.fetch_timeout_secs must be > 0")
	check(c.Resolver.DefaultLimit > 0 && c.Resolver.DefaultLimit <= 100,
		"resolver.default_limit must be between 1 and 100")

	switch mode {
	case "resolve":
		// No store required; lookups can run entirely from live sources
		// and the synthetic fallback.
	case "report", "serve":
		check(c.Store.DatabaseURL != "", "store.database_url is required")
		if mode == "serve" {
			check(c.Server.Port > 0, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

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
