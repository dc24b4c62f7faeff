package api

import (
	"time"

	"github.com/valyala/fasthttp"

	"seo-monitor/pkg/logger"
)

// ConnectionConfig holds settings for the pooled fasthttp client.
type ConnectionConfig struct {
	MaxConnsPerHost     int
	MaxIdleConnDuration time.Duration
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	// Dial overrides the network dialer. Tests use it to route requests
	// to an in-memory listener.
	Dial fasthttp.DialFunc
}

// DefaultConnectionConfig suits a handful of sequential dashboard requests.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     8,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        15 * time.Second,
	}
}

// ConnectionManager owns the fasthttp client used for API calls.
type ConnectionManager struct {
	client *fasthttp.Client
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	client := &fasthttp.Client{
		Name:                     userAgent,
		MaxConnsPerHost:          config.MaxConnsPerHost,
		MaxIdleConnDuration:      config.MaxIdleConnDuration,
		ReadTimeout:              config.ReadTimeout,
		WriteTimeout:             config.WriteTimeout,
		NoDefaultUserAgentHeader: false,
		Dial:                     config.Dial,
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"component":          "connection_manager",
		"max_conns_per_host": config.MaxConnsPerHost,
		"max_idle_conn":      config.MaxIdleConnDuration.String(),
		"read_timeout":       config.ReadTimeout.String(),
		"write_timeout":      config.WriteTimeout.String(),
	}).Debug("API connection pool configured")

	return &ConnectionManager{client: client}
}

func (cm *ConnectionManager) GetFastHTTPClient() *fasthttp.Client {
	return cm.client
}
