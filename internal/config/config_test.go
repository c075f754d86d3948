package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "MARKING_API_KEY", "MARKING_TIMEOUT", "MARKING_REQUIRE_API_KEY", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.MarkingAPIKey)
	assert.Equal(t, time.Duration(0), cfg.MarkingTimeout)
	assert.False(t, cfg.MarkingRequireAPIKey)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("MARKING_BASE_URL", "https://marker.example")
	t.Setenv("MARKING_API_KEY", "k")
	t.Setenv("MARKING_TIMEOUT", "30s")
	t.Setenv("MARKING_REQUIRE_API_KEY", "yes")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")

	cfg := FromEnv()
	assert.Equal(t, ModeOnline, cfg.Mode)
	assert.Equal(t, "https://marker.example", cfg.MarkingBaseURL)
	assert.Equal(t, "k", cfg.MarkingAPIKey)
	assert.Equal(t, 30*time.Second, cfg.MarkingTimeout)
	assert.True(t, cfg.MarkingRequireAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	t.Setenv("MARKING_TIMEOUT", "soon")
	assert.Equal(t, time.Duration(0), FromEnv().MarkingTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EXAMPREP_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("EXAMPREP_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("EXAMPREP_TEST_KEY"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("EXAMPREP_TEST_KEY"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
