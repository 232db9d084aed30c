package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "SEO_GOVERNOR_CONFIG"
	databasePathEnv  = "DATABASE_PATH"
	siteRootEnv      = "SITE_ROOT"
	siteBaseURLEnv   = "SITE_BASE_URL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	openAIKeyEnv     = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Site          SiteConfig         `yaml:"site"`
	Schedule      ScheduleConfig     `yaml:"schedule"`
	Publishing    PublishingConfig   `yaml:"publishing"`
	Similarity    SimilarityConfig   `yaml:"similarity"`
	KillSwitch    KillSwitchConfig   `yaml:"killSwitch"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SiteConfig describes the public site the governor publishes to.
type SiteConfig struct {
	Name    string `yaml:"name"`
	RootDir string `yaml:"rootDir"`
	BaseURL string `yaml:"baseUrl"`
}

// ScheduleConfig defines the working-hours window and the loop interval.
type ScheduleConfig struct {
	WorkingHourStart int            `yaml:"workingHourStart"`
	WorkingHourEnd   int            `yaml:"workingHourEnd"`
	IntervalHours    int            `yaml:"intervalHours"`
	Timezone         string         `yaml:"timezone"`
	location         *time.Location `yaml:"-"`
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PublishingConfig bounds the decision engine's daily output.
type PublishingConfig struct {
	DailyQuota    int    `yaml:"dailyQuota"`
	SlugMaxLength int    `yaml:"slugMaxLength"`
	DefaultBrief  string `yaml:"defaultBrief"`
}

// SimilarityConfig tunes the duplicate-content gate.
type SimilarityConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// KillSwitchConfig holds the circuit-breaker thresholds.
type KillSwitchConfig struct {
	MaxPublicationsPerDay int     `yaml:"maxPublicationsPerDay"`
	MaxPendingDrafts      int     `yaml:"maxPendingDrafts"`
	MaxAverageSimilarity  float64 `yaml:"maxAverageSimilarity"`
	MaxSiteErrors         int     `yaml:"maxSiteErrors"`
	DefaultPauseHours     int     `yaml:"defaultPauseHours"`
}

// GeneratorConfig defines how to contact the content-generation API.
type GeneratorConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(siteRootEnv); v != "" {
		c.Site.RootDir = v
	}

	if v := os.Getenv(siteBaseURLEnv); v != "" {
		c.Site.BaseURL = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Generator.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Generator.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Site.Name != "" {
		base.Site.Name = override.Site.Name
	}
	if override.Site.RootDir != "" {
		base.Site.RootDir = override.Site.RootDir
	}
	if override.Site.BaseURL != "" {
		base.Site.BaseURL = override.Site.BaseURL
	}

	if override.Schedule.WorkingHourStart != 0 {
		base.Schedule.WorkingHourStart = override.Schedule.WorkingHourStart
	}
	if override.Schedule.WorkingHourEnd != 0 {
		base.Schedule.WorkingHourEnd = override.Schedule.WorkingHourEnd
	}
	if override.Schedule.IntervalHours != 0 {
		base.Schedule.IntervalHours = override.Schedule.IntervalHours
	}
	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}

	if override.Publishing.DailyQuota != 0 {
		base.Publishing.DailyQuota = override.Publishing.DailyQuota
	}
	if override.Publishing.SlugMaxLength != 0 {
		base.Publishing.SlugMaxLength = override.Publishing.SlugMaxLength
	}
	if override.Publishing.DefaultBrief != "" {
		base.Publishing.DefaultBrief = override.Publishing.DefaultBrief
	}

	if override.Similarity.Threshold != 0 {
		base.Similarity.Threshold = override.Similarity.Threshold
	}

	if override.KillSwitch.MaxPublicationsPerDay != 0 {
		base.KillSwitch.MaxPublicationsPerDay = override.KillSwitch.MaxPublicationsPerDay
	}
	if override.KillSwitch.MaxPendingDrafts != 0 {
		base.KillSwitch.MaxPendingDrafts = override.KillSwitch.MaxPendingDrafts
	}
	if override.KillSwitch.MaxAverageSimilarity != 0 {
		base.KillSwitch.MaxAverageSimilarity = override.KillSwitch.MaxAverageSimilarity
	}
	if override.KillSwitch.MaxSiteErrors != 0 {
		base.KillSwitch.MaxSiteErrors = override.KillSwitch.MaxSiteErrors
	}
	if override.KillSwitch.DefaultPauseHours != 0 {
		base.KillSwitch.DefaultPauseHours = override.KillSwitch.DefaultPauseHours
	}

	if override.Generator.Endpoint != "" {
		base.Generator.Endpoint = override.Generator.Endpoint
	}
	if override.Generator.Model != "" {
		base.Generator.Model = override.Generator.Model
	}
	if override.Generator.APIKey != "" {
		base.Generator.APIKey = override.Generator.APIKey
	}
	if override.Generator.SystemPrompt != "" {
		base.Generator.SystemPrompt = override.Generator.SystemPrompt
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "data/seo_governor.db"},
		Site: SiteConfig{
			Name:    "example",
			RootDir: "/var/www/site",
			BaseURL: "https://example.com",
		},
		Schedule: ScheduleConfig{
			WorkingHourStart: 8,
			WorkingHourEnd:   20,
			IntervalHours:    4,
			Timezone:         defaultTimezone,
			location:         tz,
		},
		Publishing: PublishingConfig{
			DailyQuota:    2,
			SlugMaxLength: 80,
			DefaultBrief:  "Article de blog informatif sur un sujet du domaine",
		},
		Similarity: SimilarityConfig{Threshold: 0.70},
		KillSwitch: KillSwitchConfig{
			MaxPublicationsPerDay: 5,
			MaxPendingDrafts:      20,
			MaxAverageSimilarity:  0.60,
			MaxSiteErrors:         10,
			DefaultPauseHours:     24,
		},
		Generator: GeneratorConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You write SEO-optimized articles in French.",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
