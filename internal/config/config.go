// Package config loads foodmood-api settings from the environment, an
// optional config.yaml and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"

	ScoreTableWeighted = "weighted"
	ScoreTableFlat     = "flat"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Insights  InsightsConfig  `mapstructure:"insights"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Env         string   `mapstructure:"env"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// StoreConfig selects where food logs and insights live. Auth always goes
// through Supabase regardless of driver.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	DatabaseURL string `mapstructure:"database_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type InsightsConfig struct {
	ScoreTable              string `mapstructure:"score_table"`
	ChronologicalTrendSplit bool   `mapstructure:"chronological_trend_split"`
}

type RateLimitConfig struct {
	GeneratePerMinute int `mapstructure:"generate_per_minute"`
}

// IsProduction reports whether server.env is "production".
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads configuration. Precedence is env > config.yaml > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("store.driver", StoreSupabase)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "foodmood-api")
	v.SetDefault("insights.score_table", ScoreTableWeighted)
	v.SetDefault("insights.chronological_trend_split", false)
	v.SetDefault("ratelimit.generate_per_minute", 10)

	v.SetEnvPrefix("FOODMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Un-prefixed names used by the deployment scripts.
	_ = v.BindEnv("server.port", "FOODMOOD_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", "FOODMOOD_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "FOODMOOD_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_ROLE_KEY")
	_ = v.BindEnv("store.database_url", "FOODMOOD_STORE_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.cors_origins", "FOODMOOD_SERVER_CORS_ORIGINS", "CORS_ORIGIN")
	_ = v.BindEnv("logging.level", "FOODMOOD_LOGGING_LEVEL", "LOG_LEVEL")

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Server.CORSOrigins = splitOrigins(cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitOrigins accepts both a YAML list and a comma separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// Validate checks required values and enumerations.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return errors.New("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return errors.New("SUPABASE_SERVICE_ROLE_KEY is required")
	}

	switch c.Store.Driver {
	case StoreSupabase:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when store.driver is postgres")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	switch c.Insights.ScoreTable {
	case ScoreTableWeighted, ScoreTableFlat:
	default:
		return fmt.Errorf("unknown insights.score_table %q", c.Insights.ScoreTable)
	}

	if c.RateLimit.GeneratePerMinute < 0 {
		return errors.New("ratelimit.generate_per_minute must not be negative")
	}
	return nil
}
