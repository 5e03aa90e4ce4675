/*
File: config.go
Version: 1.1.0
Description: YAML configuration loading with defaulting. Duration strings are
             parsed once at load time into private fields so hot paths never
             call time.ParseDuration.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type LoggingConfig struct {
	Level   string   `yaml:"level"`
	Format  string   `yaml:"format"`
	Outputs []string `yaml:"outputs"`
	File    struct {
		Path        string `yaml:"path"`
		Permissions int    `yaml:"permissions"`
	} `yaml:"file"`
}

type ClassifierConfig struct {
	// WeightsPath points at a JSON weights file. Empty or unreadable means
	// the rule-based fallback scorer handles every request.
	WeightsPath string  `yaml:"weights_path"`
	Threshold   float64 `yaml:"threshold"`
}

type CollectorsConfig struct {
	UserAgent string `yaml:"user_agent"`

	DNS struct {
		Upstream string `yaml:"upstream"`
		Timeout  string `yaml:"timeout"`

		parsedTimeout time.Duration
	} `yaml:"dns"`

	Geo struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`

		parsedTimeout time.Duration
	} `yaml:"geo"`

	Whois struct {
		Server  string `yaml:"server"`
		Timeout string `yaml:"timeout"`

		parsedTimeout time.Duration
	} `yaml:"whois"`

	CTLog struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`

		parsedTimeout time.Duration
	} `yaml:"ctlog"`

	Content struct {
		Timeout string `yaml:"timeout"`

		parsedTimeout time.Duration
	} `yaml:"content"`
}

type CacheConfig struct {
	DomainInfoSize int `yaml:"domain_info_size"`
	GeoSize        int `yaml:"geo_size"`
	TrustSize      int `yaml:"trust_size"`
	ResolveSize    int `yaml:"resolve_size"`
	CTSize         int `yaml:"ct_size"`
}

type RateLimitConfig struct {
	Enabled  bool    `yaml:"enabled"`
	HostQPS  float64 `yaml:"host_qps"`
	Burst    int     `yaml:"burst"`
	MaxDelay string  `yaml:"max_delay"`

	parsedMaxDelay time.Duration
}

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Collectors CollectorsConfig `yaml:"collectors"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// DefaultConfig returns a fully usable configuration requiring no file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	_ = cfg.parseDurations()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if len(cfg.Logging.Outputs) == 0 {
		cfg.Logging.Outputs = []string{"console"}
	}

	if cfg.Classifier.Threshold == 0 {
		cfg.Classifier.Threshold = 0.5
	}

	if cfg.Collectors.UserAgent == "" {
		cfg.Collectors.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if cfg.Collectors.DNS.Upstream == "" {
		cfg.Collectors.DNS.Upstream = "8.8.8.8:53"
	}
	if cfg.Collectors.DNS.Timeout == "" {
		cfg.Collectors.DNS.Timeout = "3s"
	}
	if cfg.Collectors.Geo.BaseURL == "" {
		cfg.Collectors.Geo.BaseURL = "http://ip-api.com/json"
	}
	if cfg.Collectors.Geo.Timeout == "" {
		cfg.Collectors.Geo.Timeout = "5s"
	}
	if cfg.Collectors.Whois.Server == "" {
		cfg.Collectors.Whois.Server = "whois.iana.org:43"
	}
	if cfg.Collectors.Whois.Timeout == "" {
		cfg.Collectors.Whois.Timeout = "5s"
	}
	if cfg.Collectors.CTLog.BaseURL == "" {
		cfg.Collectors.CTLog.BaseURL = "https://crt.sh"
	}
	if cfg.Collectors.CTLog.Timeout == "" {
		cfg.Collectors.CTLog.Timeout = "5s"
	}
	if cfg.Collectors.Content.Timeout == "" {
		cfg.Collectors.Content.Timeout = "10s"
	}

	if cfg.Cache.DomainInfoSize == 0 {
		cfg.Cache.DomainInfoSize = 4096
	}
	if cfg.Cache.GeoSize == 0 {
		cfg.Cache.GeoSize = 4096
	}
	if cfg.Cache.TrustSize == 0 {
		cfg.Cache.TrustSize = 8192
	}
	if cfg.Cache.ResolveSize == 0 {
		cfg.Cache.ResolveSize = 8192
	}
	if cfg.Cache.CTSize == 0 {
		cfg.Cache.CTSize = 2048
	}

	if cfg.RateLimit.HostQPS == 0 {
		cfg.RateLimit.HostQPS = 2
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 4
	}
	if cfg.RateLimit.MaxDelay == "" {
		cfg.RateLimit.MaxDelay = "2s"
	}
}

func (cfg *Config) parseDurations() error {
	parse := func(name, s string, dst *time.Duration) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid %s duration %q: %w", name, s, err)
		}
		*dst = d
		return nil
	}

	if err := parse("collectors.dns.timeout", cfg.Collectors.DNS.Timeout, &cfg.Collectors.DNS.parsedTimeout); err != nil {
		return err
	}
	if err := parse("collectors.geo.timeout", cfg.Collectors.Geo.Timeout, &cfg.Collectors.Geo.parsedTimeout); err != nil {
		return err
	}
	if err := parse("collectors.whois.timeout", cfg.Collectors.Whois.Timeout, &cfg.Collectors.Whois.parsedTimeout); err != nil {
		return err
	}
	if err := parse("collectors.ctlog.timeout", cfg.Collectors.CTLog.Timeout, &cfg.Collectors.CTLog.parsedTimeout); err != nil {
		return err
	}
	if err := parse("collectors.content.timeout", cfg.Collectors.Content.Timeout, &cfg.Collectors.Content.parsedTimeout); err != nil {
		return err
	}
	if err := parse("rate_limit.max_delay", cfg.RateLimit.MaxDelay, &cfg.RateLimit.parsedMaxDelay); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a YAML config file, applies defaults and pre-parses
// durations. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	return cfg, nil
}
