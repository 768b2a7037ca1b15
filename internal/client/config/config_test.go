package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.AuthorityAddr)
	assert.Equal(t, "http://127.0.0.1:8090", cfg.WorkerAddr)
	assert.Equal(t, "remindsync.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("REMINDSYNC_AUTHORITY_ADDR", "http://10.0.0.5:9000")
	t.Setenv("REMINDSYNC_PROBE_INTERVAL", "45s")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.AuthorityAddr)
	assert.Equal(t, 45*time.Second, cfg.ProbeInterval)
	// untouched fields keep defaults
	assert.Equal(t, "remindsync.db", cfg.DatabasePath)
}

func TestParseEnv_InvalidIntervalIgnored(t *testing.T) {
	t.Setenv("REMINDSYNC_PROBE_INTERVAL", "soon")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
}

func TestParseJson_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"authority_addr": "http://remote:8080",
		"probe_interval": "10s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"client", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "http://remote:8080", cfg.AuthorityAddr)
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
	assert.Equal(t, "remindsync.db", cfg.DatabasePath)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"client", "-a", "http://edge:8081", "-i", "5"}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "http://edge:8081", cfg.AuthorityAddr)
	assert.Equal(t, 5*time.Second, cfg.ProbeInterval)
}
