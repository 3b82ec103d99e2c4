// Package config loads server settings from an optional YAML file.
// Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProfileAPI is the Mojang session server used to resolve player
// UUIDs to usernames.
const DefaultProfileAPI = "https://sessionserver.mojang.com/session/minecraft/profile"

// Duration wraps time.Duration so YAML values like "5s" or "24h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the server settings.
type Config struct {
	Addr       string `yaml:"addr"`
	DB         string `yaml:"db"`
	ProfileAPI string `yaml:"profile_api"`

	// LookupTimeout bounds each upstream username lookup so a slow profile
	// service can't stall requests.
	LookupTimeout Duration `yaml:"lookup_timeout"`

	// CacheTTL is the username cache freshness window; NegativeTTL covers
	// cached unknown-player results (0 retries them every request).
	CacheTTL    Duration `yaml:"cache_ttl"`
	NegativeTTL Duration `yaml:"negative_ttl"`

	// PreviewCache bounds the rendered armor preview cache (entries).
	PreviewCache int `yaml:"preview_cache"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          ":8080",
		DB:            "exotics.sqlite3",
		ProfileAPI:    DefaultProfileAPI,
		LookupTimeout: Duration(5 * time.Second),
		CacheTTL:      Duration(24 * time.Hour),
		NegativeTTL:   Duration(5 * time.Minute),
		PreviewCache:  512,
	}
}

// Load reads a YAML config file over the defaults. A missing path is not an
// error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
