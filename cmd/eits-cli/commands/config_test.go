package commands

import (
	"os"
	"path/filepath"
	"testing"

	"eitsapi/internal/scraper"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"EITS_URL", "EITS_VERSION", "EITS_OUTPUT_FORMAT_HTML", "EITS_OUTPUT_JSON", "EITS_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "eits.json5"), filepath.Join(dir, ".env"))
	require.NoError(t, err)
	require.Equal(t, scraper.DefaultBaseUrl, cfg.Url)
	require.Equal(t, 2023, cfg.Version)
	require.False(t, cfg.Html)
	require.Equal(t, "modules_and_measures.json", cfg.Output)
	require.Equal(t, "risks.json", cfg.RisksOutput)
	require.Equal(t, 60, cfg.TimeoutSeconds)
	require.True(t, cfg.verifyTls())
}

func TestLoadConfigLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "eits.json5")

	require.NoError(t, os.WriteFile(path, []byte(`{
		// shared settings
		url: "https://eits.example",
		version: 2022,
		verify_tls: false,
		output: "out.json",
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eits.local.json5"), []byte(`{
		version: 2023,
		html: true,
	}`), 0644))

	cfg, err := LoadConfig(path, filepath.Join(dir, ".env"))
	require.NoError(t, err)
	require.Equal(t, "https://eits.example", cfg.Url)
	require.Equal(t, 2023, cfg.Version)
	require.True(t, cfg.Html)
	require.Equal(t, "out.json", cfg.Output)
	require.False(t, cfg.verifyTls())
}

func TestLoadConfigEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "eits.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{url: "https://eits.example", version: 2022}`), 0644))

	t.Setenv("EITS_VERSION", "2023")
	t.Setenv("EITS_OUTPUT_FORMAT_HTML", "true")
	t.Setenv("EITS_OUTPUT_JSON", "env.json")
	t.Setenv("EITS_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig(path, filepath.Join(dir, ".env"))
	require.NoError(t, err)
	require.Equal(t, "https://eits.example", cfg.Url)
	require.Equal(t, 2023, cfg.Version)
	require.True(t, cfg.Html)
	require.Equal(t, "env.json", cfg.Output)
	require.Equal(t, 15, cfg.TimeoutSeconds)

	t.Setenv("EITS_VERSION", "kahekümne")
	_, err = LoadConfig(path, filepath.Join(dir, ".env"))
	require.ErrorContains(t, err, "EITS_VERSION")
}

func TestLoadConfigInvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "eits.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{url: `), 0644))

	_, err := LoadConfig(path, filepath.Join(dir, ".env"))
	require.Error(t, err)
}
