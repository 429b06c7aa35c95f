// Package config loads deployment configuration: defaults, overridden by an
// optional YAML file, overridden by POURHOUSE_* environment variables. A
// .env file in the working directory is honored the usual way.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the full deployment configuration.
type Config struct {
	// DataDir holds the blob store files (the persisted database image).
	DataDir string `yaml:"data_dir"`

	// EmailBaseURL is the email relay, e.g. "https://relay.example.com".
	EmailBaseURL string `yaml:"email_base_url"`

	// Locale is a BCP 47 tag driving number formatting in exports.
	Locale string `yaml:"locale"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// DefaultPrices maps container size (ml) to the price of one cup.
	// The settings table overrides these per deployment.
	DefaultPrices map[int]float64 `yaml:"default_prices"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		DataDir:      "data",
		EmailBaseURL: "http://localhost:8025",
		Locale:       "de-DE",
		DefaultPrices: map[int]float64{
			200: 3.0,
			300: 4.0,
			400: 5.0,
		},
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads configuration from path (optional; "" skips the file) and
// applies environment overrides.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if _, err := cfg.LanguageTag(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("POURHOUSE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("POURHOUSE_EMAIL_URL"); v != "" {
		cfg.EmailBaseURL = v
	}
	if v := os.Getenv("POURHOUSE_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("POURHOUSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("POURHOUSE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// LanguageTag parses the configured locale.
func (c *Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("config: bad locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
