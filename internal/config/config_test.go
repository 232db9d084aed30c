package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	if cfg.Similarity.Threshold != 0.70 {
		t.Fatalf("default threshold = %f, want 0.70", cfg.Similarity.Threshold)
	}
	if cfg.KillSwitch.DefaultPauseHours != 24 {
		t.Fatalf("default pause hours = %d, want 24", cfg.KillSwitch.DefaultPauseHours)
	}
	if cfg.Publishing.SlugMaxLength != 80 {
		t.Fatalf("default slug max = %d, want 80", cfg.Publishing.SlugMaxLength)
	}
	if cfg.Schedule.Location() == nil {
		t.Fatal("expected a bound timezone location")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
site:
  baseUrl: https://blog.example.org
killSwitch:
  maxPublicationsPerDay: 3
similarity:
  threshold: 0.85
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Site.BaseURL != "https://blog.example.org" {
		t.Fatalf("baseUrl = %s, want file value", cfg.Site.BaseURL)
	}
	if cfg.KillSwitch.MaxPublicationsPerDay != 3 {
		t.Fatalf("maxPublicationsPerDay = %d, want 3", cfg.KillSwitch.MaxPublicationsPerDay)
	}
	if cfg.Similarity.Threshold != 0.85 {
		t.Fatalf("threshold = %f, want 0.85", cfg.Similarity.Threshold)
	}
	// Untouched sections keep their defaults.
	if cfg.KillSwitch.MaxPendingDrafts != 20 {
		t.Fatalf("maxPendingDrafts = %d, want default 20", cfg.KillSwitch.MaxPendingDrafts)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
database:
  path: /tmp/from-file.db
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(databasePathEnv, "/tmp/from-env.db")
	t.Setenv(telegramTokenEnv, "token-from-env")

	cfg := Load()

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Fatalf("database path = %s, want env value", cfg.Database.Path)
	}
	if cfg.Notifications.Telegram.BotToken != "token-from-env" {
		t.Fatalf("bot token = %s, want env value", cfg.Notifications.Telegram.BotToken)
	}
}

func TestBindTimezoneFallsBackOnUnknown(t *testing.T) {
	cfg := defaultConfig()
	cfg.Schedule.Timezone = "Not/AZone"
	cfg.bindTimezone()

	if cfg.Schedule.Location().String() != "UTC" {
		t.Fatalf("location = %s, want UTC fallback", cfg.Schedule.Location())
	}
}
