package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Ahrefs    AhrefsConfig    `mapstructure:"ahrefs"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr is the listen address for the dashboard server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AhrefsConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIToken   string        `mapstructure:"api_token"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	MaxConcurrent    int           `mapstructure:"max_concurrent"`
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`

	// UseMockData is kept as text: only "false", "0" and "no" turn mock
	// data off. Resolved into MockEnabled by the manager.
	UseMockData string `mapstructure:"use_mock_data"`

	// MockEnabled is the resolved mock-data switch.
	MockEnabled bool `mapstructure:"-"`
	// MockForced is set when live data was requested without a token.
	MockForced bool `mapstructure:"-"`
}

// HasToken reports whether a non-blank API token is configured.
func (a AhrefsConfig) HasToken() bool {
	return strings.TrimSpace(a.APIToken) != ""
}

type DashboardConfig struct {
	Title           string         `mapstructure:"title"`
	Caption         string         `mapstructure:"caption"`
	Domains         []DomainTarget `mapstructure:"domains"`
	Periods         []string       `mapstructure:"periods"`
	DefaultPeriod   string         `mapstructure:"default_period"`
	CacheTTL        time.Duration  `mapstructure:"cache_ttl"`
	CacheSize       int            `mapstructure:"cache_size"`
	RefreshInterval time.Duration  `mapstructure:"refresh_interval"`
}

// DomainTarget is one monitored domain+country card.
type DomainTarget struct {
	Domain  string `mapstructure:"domain" json:"domain"`
	Country string `mapstructure:"country" json:"country"`
	Label   string `mapstructure:"label" json:"label"`
	Flag    string `mapstructure:"flag" json:"flag"`
}

// DisplayLabel falls back to "domain country" when no label is set.
func (d DomainTarget) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Domain + " " + d.Country
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// DefaultDomains is the monitored list used when none is configured.
func DefaultDomains() []DomainTarget {
	return []DomainTarget{
		{Domain: "gambling.com", Country: "AU", Label: "gambling.com AU", Flag: "🇦🇺"},
		{Domain: "gambling.com", Country: "NZ", Label: "gambling.com NZ", Flag: "🇳🇿"},
	}
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
