package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "Asia/Tokyo"
	configPathEnv     = "NEWSRADAR_CONFIG"
	keywordEnv        = "NEWS_KEYWORD"
	spreadsheetIDEnv  = "SPREADSHEET_ID"
	serviceAccountEnv = "GCP_SERVICE_ACCOUNT_KEY"
	credentialsEnv    = "GOOGLE_CREDENTIALS"
	openAIKeyEnv      = "OPENAI_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Keyword       string             `yaml:"keyword"`
	SpreadsheetID string             `yaml:"spreadsheetId"`
	Logging       LoggingConfig      `yaml:"logging"`
	Sheets        SheetsConfig       `yaml:"sheets"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SheetsConfig describes the spreadsheet backend: credential source, retry
// budget for transient API errors, and the optional pre-append re-check of
// the URL set (the single-writer assumption stays the documented contract;
// the flag only narrows the race window).
type SheetsConfig struct {
	CredentialsFile      string `yaml:"credentialsFile"`
	MaxAttempts          int    `yaml:"maxAttempts"`
	ReverifyBeforeAppend bool   `yaml:"reverifyBeforeAppend"`
}

// ResolveCredentials returns the service-account JSON key material. Env
// variables win over the local credentials file.
func (s SheetsConfig) ResolveCredentials() ([]byte, error) {
	if v := os.Getenv(serviceAccountEnv); v != "" {
		return []byte(v), nil
	}
	if v := os.Getenv(credentialsEnv); v != "" {
		return []byte(v), nil
	}

	path := s.CredentialsFile
	if path == "" {
		path = "credentials.json"
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file %s: %w", path, err)
	}
	return raw, nil
}

// ClassifierConfig defines how to contact the classification backend. An
// empty API key disables classification entirely.
type ClassifierConfig struct {
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey"`
	BatchSize int    `yaml:"batchSize"`
}

// FetcherConfig controls the browser used to load search pages. Headless is
// a pointer so a YAML override can be told apart from the default.
type FetcherConfig struct {
	Headless *bool `yaml:"headless"`
}

// HeadlessEnabled reports the effective headless setting (default true).
func (f FetcherConfig) HeadlessEnabled() bool {
	if f.Headless == nil {
		return true
	}
	return *f.Headless
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send the run summary.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines how often the pipeline repeats. Zero hours means a
// single run per process invocation.
type SchedulerConfig struct {
	IntervalHours int            `yaml:"intervalHours"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Location resolves the configured timezone string.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourceConfig describes one news surface: its worksheet, its search URL
// template (with a {keyword} placeholder), and fetch pacing.
type SourceConfig struct {
	Name              string `yaml:"name"`
	Worksheet         string `yaml:"worksheet"`
	URLTemplate       string `yaml:"urlTemplate"`
	SettleSeconds     int    `yaml:"settleSeconds"`
	ScrollCount       int    `yaml:"scrollCount"`
	ScrollWaitSeconds int    `yaml:"scrollWaitSeconds"`
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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(keywordEnv); v != "" {
		c.Keyword = v
	}

	if v := os.Getenv(spreadsheetIDEnv); v != "" {
		c.SpreadsheetID = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Keyword != "" {
		base.Keyword = override.Keyword
	}
	if override.SpreadsheetID != "" {
		base.SpreadsheetID = override.SpreadsheetID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Sheets.CredentialsFile != "" {
		base.Sheets.CredentialsFile = override.Sheets.CredentialsFile
	}
	if override.Sheets.MaxAttempts > 0 {
		base.Sheets.MaxAttempts = override.Sheets.MaxAttempts
	}
	if override.Sheets.ReverifyBeforeAppend {
		base.Sheets.ReverifyBeforeAppend = true
	}

	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.BatchSize > 0 {
		base.Classifier.BatchSize = override.Classifier.BatchSize
	}

	if override.Fetcher.Headless != nil {
		base.Fetcher.Headless = override.Fetcher.Headless
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Keyword: "トヨタ",
		Logging: LoggingConfig{Level: "info"},
		Sheets: SheetsConfig{
			CredentialsFile: "credentials.json",
			MaxAttempts:     5,
		},
		Classifier: ClassifierConfig{
			Model:     "gpt-4o-mini",
			BatchSize: 40,
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Sources: []SourceConfig{
			{
				Name:              "Google",
				Worksheet:         "Google",
				URLTemplate:       "https://news.google.com/search?q={keyword}&hl=ja&gl=JP&ceid=JP:ja",
				SettleSeconds:     5,
				ScrollCount:       3,
				ScrollWaitSeconds: 2,
			},
			{
				Name:          "Yahoo",
				Worksheet:     "Yahoo",
				URLTemplate:   "https://news.yahoo.co.jp/search?p={keyword}&ei=utf-8&categories=domestic,world,business,it,science,life,local",
				SettleSeconds: 5,
			},
			{
				Name:          "MSN",
				Worksheet:     "MSN",
				URLTemplate:   "https://www.bing.com/news/search?q={keyword}&qft=sortbydate%3d'1'&form=YFNR",
				SettleSeconds: 5,
			},
		},
	}
}
