package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/metrics"
)

const (
	// DefaultBaseURL is the Ahrefs v3 API root.
	DefaultBaseURL = "https://api.ahrefs.com/v3"

	userAgent = "seo-monitor/1.0"
	isoDate   = "2006-01-02"

	EndpointPositions = "positions-overview"
	EndpointBacklinks = "backlinks-overview"
	EndpointBatch     = "batch-analysis"
)

// ClientConfig configures the Ahrefs client.
type ClientConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// MaxConcurrent caps in-flight calls; 0 means unlimited.
	MaxConcurrent int
	// BreakerThreshold consecutive failed calls open the circuit for
	// BreakerCooldown; 0 disables the breaker.
	BreakerThreshold int
	BreakerCooldown  time.Duration
	Connection       ConnectionConfig
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,

		MaxConcurrent:    4,
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
		Connection:       DefaultConnectionConfig(),
	}
}

type httpAPIClient struct {
	baseURL     string
	token       string
	timeout     time.Duration
	connManager *ConnectionManager
	retry       *SimpleRetry
	limiter     *ConcurrencyLimiter
	breaker     *CircuitBreaker
	log         *logger.Logger
}

// NewClient builds an Ahrefs client. It fails with ErrMissingToken when
// cfg.Token is blank.
func NewClient(cfg ClientConfig) (Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	sl := logger.GetSecurityLogger()
	sl.SafeDebug("Ahrefs client configured", map[string]interface{}{
		"base_url":    baseURL,
		"api_token":   token,
		"max_retries": cfg.MaxRetries,
	})

	return &httpAPIClient{
		baseURL:     baseURL,
		token:       token,
		timeout:     timeout,
		connManager: NewConnectionManager(cfg.Connection),
		retry:       NewSimpleRetry(cfg.MaxRetries, cfg.RetryDelay),
		limiter:     NewConcurrencyLimiter(cfg.MaxConcurrent),
		breaker:     NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		log:         logger.GetLogger().WithField("component", "api_client"),
	}, nil
}

func (c *httpAPIClient) PositionsOverview(ctx context.Context, domain, country string, from, to time.Time) (Payload, error) {
	query := url.Values{}
	query.Set("target", domain)
	query.Set("target_type", "domain")
	query.Set("country", country)
	query.Set("date_from", from.Format(isoDate))
	query.Set("date_to", to.Format(isoDate))
	query.Set("metrics", "organic_keywords,organic_traffic,paid_keywords,paid_traffic")
	query.Set("interval", "day")

	return c.call(ctx, EndpointPositions, fasthttp.MethodGet, "/seo-metrics/positions-overview", query, nil)
}

func (c *httpAPIClient) BacklinksOverview(ctx context.Context, domain string, from, to time.Time) (Payload, error) {
	query := url.Values{}
	query.Set("target", domain)
	query.Set("target_type", "domain")
	query.Set("date_from", from.Format(isoDate))
	query.Set("date_to", to.Format(isoDate))
	query.Set("metrics", "refdomains")
	query.Set("interval", "day")

	return c.call(ctx, EndpointBacklinks, fasthttp.MethodGet, "/seo-metrics/backlinks-overview", query, nil)
}

func (c *httpAPIClient) BatchDomainMetrics(ctx context.Context, domains []string) (Payload, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("no domains provided")
	}

	body, err := json.Marshal(struct {
		Targets []string `json:"targets"`
		Metrics []string `json:"metrics"`
	}{
		Targets: domains,
		Metrics: []string{"domain_rating"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch request: %w", err)
	}

	return c.call(ctx, EndpointBatch, fasthttp.MethodPost, "/batch-analysis/batch-analysis", nil, body)
}

func (c *httpAPIClient) call(ctx context.Context, endpoint, method, path string, query url.Values, body []byte) (Payload, error) {
	start := time.Now()
	log := c.log.WithField("endpoint", endpoint)

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.Release()

	var payload Payload
	err := c.breaker.Execute(func() error {
		return c.retry.ExecuteWithNotify(ctx, func() error {
			p, err := c.do(ctx, endpoint, method, path, query, body)
			if err != nil {
				return err
			}
			payload = p
			return nil
		}, func(attempt int, err error, delay time.Duration) {
			metrics.VendorRetries.WithLabelValues(endpoint).Inc()
			log.WithError(err).WithFields(map[string]interface{}{
				"attempt":  attempt,
				"delay_ms": delay.Milliseconds(),
			}).Warn("Retrying API request")
		})
	})

	metrics.VendorLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if errors.Is(err, ErrCircuitOpen) {
		metrics.VendorRequests.WithLabelValues(endpoint, "circuit_open").Inc()
		return nil, err
	}
	if err != nil {
		metrics.VendorRequests.WithLabelValues(endpoint, "error").Inc()
		log.WithError(err).Error("API request failed")
		return nil, err
	}

	metrics.VendorRequests.WithLabelValues(endpoint, "success").Inc()
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("API request completed")
	return payload, nil
}

func (c *httpAPIClient) do(ctx context.Context, endpoint, method, path string, query url.Values, body []byte) (Payload, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.connManager.GetFastHTTPClient().DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: status,
			Body:       string(resp.Body()),
		}
	}

	var payload Payload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, nil
}
