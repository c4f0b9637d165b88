package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoad_MissingChatID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300000, cfg.Filter.MinPrice)
	assert.Equal(t, 500000, cfg.Filter.MaxPrice)
	assert.Equal(t, 2, cfg.Filter.MaxOwners)
	assert.Equal(t, 20*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.DetailTimeout)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, []string{"drom", "autoru", "avito"}, cfg.Sites)
	assert.Equal(t, "json", cfg.SeenStore)
	assert.Equal(t, "http", cfg.FetchMode)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("MIN_PRICE", "100000")
	t.Setenv("MAX_PRICE", "900000")
	t.Setenv("MAX_OWNERS", "1")
	t.Setenv("CHECK_INTERVAL", "5m")
	t.Setenv("SITES", "Drom, avito")
	t.Setenv("SEEN_STORE", "SQLite")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100000, cfg.Filter.MinPrice)
	assert.Equal(t, 900000, cfg.Filter.MaxPrice)
	assert.Equal(t, 1, cfg.Filter.MaxOwners)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, []string{"drom", "avito"}, cfg.Sites)
	assert.Equal(t, "sqlite", cfg.SeenStore)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setSecrets(t)
	t.Setenv("MIN_PRICE", "cheap")
	t.Setenv("CHECK_INTERVAL", "often")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300000, cfg.Filter.MinPrice)
	assert.Equal(t, 20*time.Minute, cfg.CheckInterval)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	setSecrets(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `filter:
  min_price: 200000
  max_price: 400000
  max_owners: 3
schedule:
  interval: 45m
sites:
  autoru:
    enabled: false
  drom:
    pages:
      - https://www.drom.ru/auto/all/
      - https://www.drom.ru/auto/all/page2/
      - https://www.drom.ru/auto/all/page3/
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_OWNERS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 200000, cfg.Filter.MinPrice)
	assert.Equal(t, 400000, cfg.Filter.MaxPrice)
	assert.Equal(t, 1, cfg.Filter.MaxOwners, "env should win over file")
	assert.Equal(t, 45*time.Minute, cfg.CheckInterval)
	assert.Equal(t, []string{"drom", "avito"}, cfg.Sites)
	assert.Len(t, cfg.Pages("drom", nil), 3)
	assert.Equal(t, []string{"x"}, cfg.Pages("avito", []string{"x"}))
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  - not a map\n"), 0o600))

	fc, err := LoadFile(path)
	assert.Error(t, err)
	assert.Nil(t, fc)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate_Bounds(t *testing.T) {
	cfg := Defaults()
	cfg.TelegramToken = "t"
	cfg.TelegramChatID = "c"
	require.NoError(t, cfg.Validate())

	cfg.Filter.MinPrice = 600000
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.TelegramToken = "t"
	cfg.TelegramChatID = "c"
	cfg.FetchMode = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg.FetchMode = "http"
	cfg.SeenStore = "redis"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := Defaults()
	cfg.PostgresPassword = "secret"

	assert.Equal(t,
		"host=localhost port=5432 user=scraper password=secret dbname=car_scraper sslmode=disable",
		cfg.DSN())
}
