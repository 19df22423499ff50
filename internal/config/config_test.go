package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENRICHMENT_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("BATCH_WORKERS", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.BatchWorkers != 5 {
		t.Errorf("batch workers = %d, want 5", cfg.BatchWorkers)
	}
	if cfg.MaxBatchSize != 500 {
		t.Errorf("max batch size = %d, want 500", cfg.MaxBatchSize)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("cache ttl = %s, want 10m", cfg.CacheTTL)
	}
	if len(cfg.Defaults.EnabledTypes) != 5 {
		t.Errorf("enabled types = %v, want all five", cfg.Defaults.EnabledTypes)
	}
	if !reflect.DeepEqual(cfg.Defaults.Languages, []string{"en"}) {
		t.Errorf("languages = %v, want [en]", cfg.Defaults.Languages)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENRICHMENT_CONFIG", "")
	t.Setenv("PORT", "9090")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("TEXTGEN_API_KEY", "secret")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.BatchWorkers != 8 {
		t.Errorf("batch workers = %d, want 8", cfg.BatchWorkers)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("cache ttl = %s, want 30s", cfg.CacheTTL)
	}
	if cfg.TextGen.APIKey != "secret" {
		t.Errorf("textgen api key = %q", cfg.TextGen.APIKey)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	raw := `
port: 7070
logLevel: debug
cacheTtl: 5m
enrichmentDefaults:
  enabledTypes: [quality_scoring]
  languages: [en, de]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ENRICHMENT_CONFIG", path)
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()

	if cfg.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %s, want 5m", cfg.CacheTTL)
	}
	if !reflect.DeepEqual(cfg.Defaults.EnabledTypes, []string{domain.TypeQualityScoring}) {
		t.Errorf("enabled types = %v, want [quality_scoring]", cfg.Defaults.EnabledTypes)
	}
	if !reflect.DeepEqual(cfg.Defaults.Languages, []string{"en", "de"}) {
		t.Errorf("languages = %v, want [en de]", cfg.Defaults.Languages)
	}
}

func TestLoadInvalidEnvIntKeepsDefault(t *testing.T) {
	t.Setenv("ENRICHMENT_CONFIG", "")
	t.Setenv("PORT", "not-a-number")

	if cfg := Load(); cfg.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Port)
	}
}
