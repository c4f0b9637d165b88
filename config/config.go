package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"car-scraper/models"
)

// ErrMissingSecret is returned by Load when a required secret is not set.
var ErrMissingSecret = errors.New("missing required secret")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	TelegramToken  string
	TelegramChatID string
	Port           string

	Filter models.FilterConfig

	CheckInterval  time.Duration
	RequestTimeout time.Duration
	DetailTimeout  time.Duration
	PageDelay      time.Duration
	NotifyInterval time.Duration
	MaxEntries     int

	Sites     []string
	SitePages map[string][]string

	FetchMode string
	ChromeBin string
	UserAgent string

	SeenStore  string
	SeenFile   string
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	LogLevel string
}

// FileConfig is the optional YAML configuration file. Every field is
// optional; zero values leave the defaults untouched.
type FileConfig struct {
	Filter struct {
		MinPrice  *int `yaml:"min_price"`
		MaxPrice  *int `yaml:"max_price"`
		MaxOwners *int `yaml:"max_owners"`
	} `yaml:"filter"`
	Schedule struct {
		Interval string `yaml:"interval"`
	} `yaml:"schedule"`
	Sites map[string]struct {
		Enabled *bool    `yaml:"enabled"`
		Pages   []string `yaml:"pages"`
	} `yaml:"sites"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Port: "5000",

		Filter: models.FilterConfig{
			MinPrice:  300000,
			MaxPrice:  500000,
			MaxOwners: 2,
		},

		CheckInterval:  20 * time.Minute,
		RequestTimeout: 15 * time.Second,
		DetailTimeout:  10 * time.Second,
		PageDelay:      3 * time.Second,
		NotifyInterval: time.Second,
		MaxEntries:     50,

		Sites:     []string{"drom", "autoru", "avito"},
		SitePages: map[string][]string{},

		FetchMode: "http",
		UserAgent: defaultUserAgent,

		SeenStore:  "json",
		SeenFile:   "./data/seen_ads.json",
		SQLitePath: "./data/seen_ads.db",

		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "scraper",
		PostgresDB:      "car_scraper",
		PostgresSSLMode: "disable",

		LogLevel: "info",
	}
}

// Load reads the .env file, the optional YAML file named by CONFIG_FILE and
// the environment, in that order of increasing precedence, then validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyFile(fc); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &fc, nil
}

func (c *Config) applyFile(fc *FileConfig) error {
	if fc.Filter.MinPrice != nil {
		c.Filter.MinPrice = *fc.Filter.MinPrice
	}
	if fc.Filter.MaxPrice != nil {
		c.Filter.MaxPrice = *fc.Filter.MaxPrice
	}
	if fc.Filter.MaxOwners != nil {
		c.Filter.MaxOwners = *fc.Filter.MaxOwners
	}

	if fc.Schedule.Interval != "" {
		d, err := time.ParseDuration(fc.Schedule.Interval)
		if err != nil {
			return fmt.Errorf("config: invalid schedule.interval %q: %w", fc.Schedule.Interval, err)
		}
		c.CheckInterval = d
	}

	if len(fc.Sites) > 0 {
		var enabled []string
		for _, name := range c.Sites {
			site, ok := fc.Sites[name]
			if ok && site.Enabled != nil && !*site.Enabled {
				continue
			}
			enabled = append(enabled, name)
		}
		c.Sites = enabled

		for name, site := range fc.Sites {
			if len(site.Pages) > 0 {
				c.SitePages[name] = site.Pages
			}
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.TelegramToken)
	c.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", c.TelegramChatID)
	c.Port = getEnv("PORT", c.Port)

	c.Filter.MinPrice = getEnvInt("MIN_PRICE", c.Filter.MinPrice)
	c.Filter.MaxPrice = getEnvInt("MAX_PRICE", c.Filter.MaxPrice)
	c.Filter.MaxOwners = getEnvInt("MAX_OWNERS", c.Filter.MaxOwners)

	c.CheckInterval = getEnvDuration("CHECK_INTERVAL", c.CheckInterval)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.DetailTimeout = getEnvDuration("DETAIL_TIMEOUT", c.DetailTimeout)
	c.PageDelay = getEnvDuration("PAGE_DELAY", c.PageDelay)
	c.NotifyInterval = getEnvDuration("NOTIFY_INTERVAL", c.NotifyInterval)
	c.MaxEntries = getEnvInt("MAX_ENTRIES_PER_PAGE", c.MaxEntries)

	if v := os.Getenv("SITES"); v != "" {
		var sites []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				sites = append(sites, s)
			}
		}
		c.Sites = sites
	}

	c.FetchMode = strings.ToLower(getEnv("FETCH_MODE", c.FetchMode))
	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)

	c.SeenStore = strings.ToLower(getEnv("SEEN_STORE", c.SeenStore))
	c.SeenFile = getEnv("SEEN_FILE", c.SeenFile)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)

	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
}

// Validate checks that the secrets are present and the bounds are sane.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN", ErrMissingSecret)
	}
	if c.TelegramChatID == "" {
		return fmt.Errorf("%w: TELEGRAM_CHAT_ID", ErrMissingSecret)
	}
	if c.Filter.MinPrice < 0 || c.Filter.MaxPrice < c.Filter.MinPrice {
		return fmt.Errorf("config: invalid price range %d-%d", c.Filter.MinPrice, c.Filter.MaxPrice)
	}
	if c.Filter.MaxOwners < 0 {
		return fmt.Errorf("config: MAX_OWNERS must not be negative, got %d", c.Filter.MaxOwners)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("config: CHECK_INTERVAL must be positive, got %v", c.CheckInterval)
	}
	switch c.FetchMode {
	case "http", "browser":
	default:
		return fmt.Errorf("config: unknown FETCH_MODE %q (use 'http' or 'browser')", c.FetchMode)
	}
	switch c.SeenStore {
	case "json", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown SEEN_STORE %q (use 'json', 'sqlite' or 'postgres')", c.SeenStore)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Pages returns the configured page URLs for a site, or fallback when none
// were configured.
func (c *Config) Pages(site string, fallback []string) []string {
	if pages, ok := c.SitePages[site]; ok && len(pages) > 0 {
		return pages
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
