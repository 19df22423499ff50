package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

const configPathEnv = "ENRICHMENT_CONFIG"

// TextGenConfig describes the optional OpenAI-compatible generator. An empty
// APIKey leaves the pipeline on template generation.
type TextGenConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// Config holds all settings for the service. Values come from defaults, then
// an optional YAML file, then environment overrides.
type Config struct {
	Port         int    `yaml:"port"`
	LogLevel     string `yaml:"logLevel"`
	DatabaseURL  string `yaml:"databaseUrl"`
	RedisURL     string `yaml:"redisUrl"`
	DBPoolSize   int    `yaml:"dbPoolSize"`
	CacheTTLText string `yaml:"cacheTtl"`
	BatchWorkers int    `yaml:"batchWorkers"`
	MaxBatchSize int    `yaml:"maxBatchSize"`
	FeedDir      string `yaml:"feedDir"`

	TextGen  TextGenConfig           `yaml:"textgen"`
	Defaults domain.EnrichmentConfig `yaml:"enrichmentDefaults"`

	CacheTTL time.Duration `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Port:         8080,
		LogLevel:     "info",
		DBPoolSize:   20,
		BatchWorkers: 5,
		MaxBatchSize: 500,
		CacheTTL:     10 * time.Minute,
		Defaults: domain.EnrichmentConfig{
			EnabledTypes: []string{
				domain.TypeSEOOptimization,
				domain.TypeContentGeneration,
				domain.TypeAmazonOptimization,
				domain.TypeCategorization,
				domain.TypeQualityScoring,
			},
			TargetChannels: []string{"website", "amazon"},
			Languages:      []string{"en"},
		},
	}
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.CacheTTLText != "" {
		if d, err := time.ParseDuration(cfg.CacheTTLText); err == nil {
			cfg.CacheTTL = d
		} else {
			log.Printf("config: invalid cacheTtl %q, keeping %s", cfg.CacheTTLText, cfg.CacheTTL)
		}
	}
	if len(cfg.Defaults.EnabledTypes) == 0 {
		cfg.Defaults.EnabledTypes = defaultConfig().Defaults.EnabledTypes
	}
	if len(cfg.Defaults.Languages) == 0 {
		cfg.Defaults.Languages = []string{"en"}
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnvInt("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.DBPoolSize = getEnvInt("DB_POOL_SIZE", c.DBPoolSize)
	c.BatchWorkers = getEnvInt("BATCH_WORKERS", c.BatchWorkers)
	c.MaxBatchSize = getEnvInt("MAX_BATCH_SIZE", c.MaxBatchSize)
	c.FeedDir = getEnv("FEED_DIR", c.FeedDir)
	c.CacheTTLText = getEnv("CACHE_TTL", c.CacheTTLText)
	c.TextGen.Endpoint = getEnv("TEXTGEN_ENDPOINT", c.TextGen.Endpoint)
	c.TextGen.Model = getEnv("TEXTGEN_MODEL", c.TextGen.Model)
	c.TextGen.APIKey = getEnv("TEXTGEN_API_KEY", c.TextGen.APIKey)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
