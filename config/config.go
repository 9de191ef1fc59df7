package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Search      SearchConfig
	Scheduler   SchedulerConfig
	Scraper     ScraperConfig
	DBPath      string
	PostgresDSN string
	LogLevel    string
	Sites       map[string]*SiteConfig
}

type SearchConfig struct {
	APIKey string
	CSEID  string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type ScraperConfig struct {
	DelayMS int
}

type SiteConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Handler      string `yaml:"handler"` // "browser" or "http"
	ListingURL   string `yaml:"listing_url"`
	LinkSelector string `yaml:"link_selector"`
	RateLimitMS  int    `yaml:"rate_limit_ms"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Search: SearchConfig{
			APIKey: os.Getenv("GOOGLE_API_KEY"),
			CSEID:  os.Getenv("GOOGLE_CSE_ID"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		Scraper: ScraperConfig{
			DelayMS: getEnvInt("SCRAPE_DELAY_MS", 1200),
		},
		DBPath:      getEnv("DB_PATH", "watcher.db"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Sites:       make(map[string]*SiteConfig),
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadSiteConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSiteConfigs() error {
	configDir := "config/sites"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var site SiteConfig
		if err := yaml.Unmarshal(data, &site); err != nil {
			return err
		}

		c.Sites[site.ID] = &site
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
