package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const envPrefix = "SEOMON"

// Token and mock-flag variables read when the config file leaves them blank,
// in lookup order.
var (
	tokenEnvVars = []string{"AHREFS_API_TOKEN", "A_HREFS_API_TOKEN"}
	mockEnvVar   = "USE_MOCK_DATA"

	debugEnvVar    = "DEBUG"
	logLevelEnvVar = "LOG_LEVEL"
)

type manager struct {
	mu         sync.RWMutex
	envFile    string
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager loads .env from the working directory before reading config.
func NewManager() Manager {
	return NewManagerWithEnvFile(".env")
}

// NewManagerWithEnvFile loads envFile instead of .env. An empty path skips
// dotenv loading.
func NewManagerWithEnvFile(envFile string) Manager {
	return &manager{envFile: envFile}
}

// Load reads configPath (optional; "" means defaults and environment only).
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configPath = configPath
	return m.load()
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.viper == nil {
		return fmt.Errorf("config not loaded")
	}
	_, err := m.load()
	return err
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) load() (*Config, error) {
	if m.envFile != "" {
		if err := godotenv.Load(m.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", m.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if m.configPath != "" {
		v.SetConfigFile(m.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := resolve(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.viper = v
	m.config = &config
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)

	v.SetDefault("ahrefs.base_url", "https://api.ahrefs.com/v3")
	v.SetDefault("ahrefs.api_token", "")
	v.SetDefault("ahrefs.timeout", 30*time.Second)
	v.SetDefault("ahrefs.max_retries", 3)
	v.SetDefault("ahrefs.retry_delay", time.Second)
	v.SetDefault("ahrefs.max_concurrent", 4)
	v.SetDefault("ahrefs.breaker_threshold", 5)
	v.SetDefault("ahrefs.breaker_cooldown", time.Minute)
	v.SetDefault("ahrefs.use_mock_data", "")

	v.SetDefault("dashboard.title", "Domains for monitoring")
	v.SetDefault("dashboard.caption", "Simple Ahrefs monitoring dashboard.")
	v.SetDefault("dashboard.periods", []string{"Month", "Year"})
	v.SetDefault("dashboard.default_period", "Month")
	v.SetDefault("dashboard.cache_ttl", time.Hour)
	v.SetDefault("dashboard.cache_size", 64)
	v.SetDefault("dashboard.refresh_interval", 30*time.Minute)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stderr")
}

// resolve fills values that come from legacy environment variables or are
// derived from other settings.
func resolve(config *Config) error {
	config.Ahrefs.APIToken = strings.TrimSpace(config.Ahrefs.APIToken)
	for _, name := range tokenEnvVars {
		if config.Ahrefs.APIToken != "" {
			break
		}
		config.Ahrefs.APIToken = strings.TrimSpace(os.Getenv(name))
	}

	raw := strings.TrimSpace(config.Ahrefs.UseMockData)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv(mockEnvVar))
	}
	config.Ahrefs.MockEnabled = ParseMockFlag(raw)
	if !config.Ahrefs.MockEnabled && !config.Ahrefs.HasToken() {
		config.Ahrefs.MockEnabled = true
		config.Ahrefs.MockForced = true
	}

	config.Logger.Level = resolveLogLevel(config.Logger.Level)

	if len(config.Dashboard.Domains) == 0 {
		config.Dashboard.Domains = DefaultDomains()
	}
	for i := range config.Dashboard.Domains {
		d := &config.Dashboard.Domains[i]
		d.Domain = strings.ToLower(strings.TrimSpace(d.Domain))

		region, err := language.ParseRegion(strings.TrimSpace(d.Country))
		if err != nil || !region.IsCountry() {
			return fmt.Errorf("domain %q: unknown country code %q", d.Domain, d.Country)
		}
		d.Country = region.String()
		if d.Flag == "" {
			d.Flag = FlagEmoji(d.Country)
		}
	}

	return nil
}

// resolveLogLevel keeps a configured level. Otherwise DEBUG=true selects
// debug, then LOG_LEVEL, then info.
func resolveLogLevel(configured string) string {
	if level := strings.ToLower(strings.TrimSpace(configured)); level != "" {
		return level
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(debugEnvVar)), "true") {
		return "debug"
	}
	if level := strings.ToLower(strings.TrimSpace(os.Getenv(logLevelEnvVar))); level != "" {
		return level
	}
	return "info"
}

// ParseMockFlag treats everything except false/0/no (any case) as enabled,
// including an empty value.
func ParseMockFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "false", "0", "no":
		return false
	}
	return true
}

// FlagEmoji turns a two-letter country code into its regional-indicator flag.
func FlagEmoji(country string) string {
	if len(country) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(country) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	for _, d := range config.Dashboard.Domains {
		if d.Domain == "" {
			return fmt.Errorf("monitored domain cannot be empty")
		}
	}

	if len(config.Dashboard.Periods) == 0 {
		return fmt.Errorf("at least one period is required")
	}
	known := map[string]bool{}
	for _, p := range config.Dashboard.Periods {
		switch strings.ToLower(p) {
		case "month", "year":
			known[strings.ToLower(p)] = true
		default:
			return fmt.Errorf("unknown period %q", p)
		}
	}
	if !known[strings.ToLower(config.Dashboard.DefaultPeriod)] {
		return fmt.Errorf("default_period %q is not among periods", config.Dashboard.DefaultPeriod)
	}

	if config.Dashboard.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative")
	}
	if config.Dashboard.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive")
	}
	if config.Dashboard.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval cannot be negative")
	}
	if config.Ahrefs.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	return nil
}
