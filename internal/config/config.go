package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings, read once at startup.
type Config struct {
	Port                   int    `yaml:"port"`
	SPARQLEndpoint         string `yaml:"sparqlEndpoint"`
	CacheTTLSeconds        int    `yaml:"cacheTTLSeconds"`
	CleanupIntervalSeconds int    `yaml:"cleanupIntervalSeconds"`
	AdminToken             string `yaml:"adminToken"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Port:                   8008,
		SPARQLEndpoint:         "https://query.wikidata.org/sparql",
		CacheTTLSeconds:        600,
		CleanupIntervalSeconds: 300,
	}
}

// Load reads the YAML config file at path (a missing file is fine) and then
// applies environment overrides. There is no runtime mutation after this.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults + env only
	case err != nil:
		return cfg, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("SPARQL_ENDPOINT"); v != "" {
		cfg.SPARQLEndpoint = v
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.CacheTTLSeconds = secs
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.CleanupIntervalSeconds = secs
		}
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.AdminToken = v
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// CacheTTL is the default time-to-live for cache entries.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CleanupInterval is how often the janitor sweeps expired entries.
func (c Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}
