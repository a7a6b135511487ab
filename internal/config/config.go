// Package config loads runtime settings: an optional folio.yaml for defaults,
// a .env file, and environment variables which override everything.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable the CLI and store need.
type Config struct {
	// Base is the store's base directory; subjects/ lives under it.
	Base string `yaml:"base"`
	// Model is the Gemini model id used for generation.
	Model string `yaml:"model"`
	// Offline disables the real client and uses the deterministic fake.
	Offline bool `yaml:"offline"`
	// CacheSize bounds the in-memory generation cache.
	CacheSize int `yaml:"cache_size"`
	// DefaultTopicFlags seed the per-topic feature flags of new modules.
	DefaultTopicFlags []string `yaml:"default_topic_flags"`
}

// DefaultConfigFile is consulted when no explicit path is given.
const DefaultConfigFile = "folio.yaml"

// Load reads the config file (when present), applies env overrides, and fills
// defaults. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Base:      ".",
		Model:     "gemini-2.5-flash",
		CacheSize: 256,
	}

	if path == "" {
		path = DefaultConfigFile
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("FOLIO_BASE")); v != "" {
		cfg.Base = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_OFFLINE")); v != "" {
		cfg.Offline = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_CACHE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheSize = n
		}
	}
	return cfg, nil
}

// HasAPIKey reports whether a Gemini API key is available in the environment.
func HasAPIKey() bool {
	return strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != ""
}
