package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, 8008, cfg.Port)
	require.Equal(t, "https://query.wikidata.org/sparql", cfg.SPARQLEndpoint)
	require.Equal(t, 10*time.Minute, cfg.CacheTTL())
	require.Equal(t, 5*time.Minute, cfg.CleanupInterval())
	require.Empty(t, cfg.AdminToken)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: 9100\nsparqlEndpoint: http://localhost:7200/sparql\ncacheTTLSeconds: 30\nadminToken: hunter2\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, ":9100", cfg.Addr())
	require.Equal(t, "http://localhost:7200/sparql", cfg.SPARQLEndpoint)
	require.Equal(t, 30*time.Second, cfg.CacheTTL())
	require.Equal(t, "hunter2", cfg.AdminToken)
	// untouched keys keep their defaults
	require.Equal(t, 5*time.Minute, cfg.CleanupInterval())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9100\n"), 0o600))

	t.Setenv("PORT", "9200")
	t.Setenv("CACHE_TTL_SECONDS", "45")
	t.Setenv("ADMIN_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9200, cfg.Port)
	require.Equal(t, 45*time.Second, cfg.CacheTTL())
	require.Equal(t, "from-env", cfg.AdminToken)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
