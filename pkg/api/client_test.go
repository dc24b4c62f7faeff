package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	auth   string
	body   []byte
}

type fakeAhrefs struct {
	mu       sync.Mutex
	requests []recordedRequest
	calls    atomic.Int32
	handler  func(ctx *fasthttp.RequestCtx, call int32)
}

func (f *fakeAhrefs) serve(ctx *fasthttp.RequestCtx) {
	rec := recordedRequest{
		method: string(ctx.Method()),
		path:   string(ctx.Path()),
		query:  map[string]string{},
		auth:   string(ctx.Request.Header.Peek("Authorization")),
		body:   append([]byte(nil), ctx.PostBody()...),
	}
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		rec.query[string(key)] = string(value)
	})

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	call := f.calls.Add(1)
	f.handler(ctx, call)
}

func (f *fakeAhrefs) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler func(ctx *fasthttp.RequestCtx, call int32)) (Client, *fakeAhrefs) {
	t.Helper()

	fake := &fakeAhrefs{handler: handler}
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: fake.serve}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	cfg := DefaultClientConfig()
	cfg.BaseURL = "http://ahrefs.test/v3/"
	cfg.Token = "test-token"
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 2
	cfg.RetryDelay = time.Millisecond
	cfg.Connection.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client, fake
}

func jsonReply(body string) func(ctx *fasthttp.RequestCtx, call int32) {
	return func(ctx *fasthttp.RequestCtx, call int32) {
		ctx.SetContentType("application/json")
		ctx.SetBodyString(body)
	}
}

func TestNewClient_MissingToken(t *testing.T) {
	_, err := NewClient(ClientConfig{Token: "   "})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestPositionsOverview_RequestShape(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`{"metrics":{"organic_keywords":{"total":6400}}}`))

	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	payload, err := client.PositionsOverview(context.Background(), "gambling.com", "AU", from, to)
	require.NoError(t, err)
	assert.Contains(t, payload, "metrics")

	req := fake.last()
	assert.Equal(t, "GET", req.method)
	assert.Equal(t, "/v3/seo-metrics/positions-overview", req.path)
	assert.Equal(t, "Bearer test-token", req.auth)
	assert.Equal(t, map[string]string{
		"target":      "gambling.com",
		"target_type": "domain",
		"country":     "AU",
		"date_from":   "2024-09-01",
		"date_to":     "2024-10-01",
		"metrics":     "organic_keywords,organic_traffic,paid_keywords,paid_traffic",
		"interval":    "day",
	}, req.query)
}

func TestBacklinksOverview_RequestShape(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`{"refdomains":41000}`))

	day := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.BacklinksOverview(context.Background(), "gambling.com", day, day)
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "/v3/seo-metrics/backlinks-overview", req.path)
	assert.Equal(t, "refdomains", req.query["metrics"])
	assert.NotContains(t, req.query, "country")
}

func TestBatchDomainMetrics_PostsTargets(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`{"results":{"gambling.com":{"domain_rating":52}}}`))

	_, err := client.BatchDomainMetrics(context.Background(), []string{"gambling.com"})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "POST", req.method)
	assert.Equal(t, "/v3/batch-analysis/batch-analysis", req.path)

	var body struct {
		Targets []string `json:"targets"`
		Metrics []string `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(req.body, &body))
	assert.Equal(t, []string{"gambling.com"}, body.Targets)
	assert.Equal(t, []string{"domain_rating"}, body.Metrics)
}

func TestBatchDomainMetrics_NoDomains(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`{}`))

	_, err := client.BatchDomainMetrics(context.Background(), nil)
	assert.Error(t, err)
	assert.Zero(t, fake.calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	client, fake := newTestClient(t, func(ctx *fasthttp.RequestCtx, call int32) {
		if call < 3 {
			ctx.SetStatusCode(fasthttp.StatusBadGateway)
			return
		}
		ctx.SetBodyString(`{"refdomains":1}`)
	})

	day := time.Now()
	payload, err := client.BacklinksOverview(context.Background(), "example.com", day, day)
	require.NoError(t, err)
	assert.EqualValues(t, 1, payload["refdomains"])
	assert.EqualValues(t, 3, fake.calls.Load())
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	client, fake := newTestClient(t, func(ctx *fasthttp.RequestCtx, call int32) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString(`{"error":"endpoint not in plan"}`)
	})

	day := time.Now()
	_, err := client.PositionsOverview(context.Background(), "example.com", "US", day, day)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.StatusCode)
	assert.Equal(t, EndpointPositions, se.Endpoint)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestClient_InvalidJSON(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`[1,2,3]`))

	day := time.Now()
	_, err := client.BacklinksOverview(context.Background(), "example.com", day, day)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestClient_ExpiredContext(t *testing.T) {
	client, fake := newTestClient(t, jsonReply(`{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	day := time.Now()
	_, err := client.BacklinksOverview(ctx, "example.com", day, day)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.calls.Load())
}

func TestClient_CircuitOpensOnPersistentServerErrors(t *testing.T) {
	client, fake := newTestClient(t, func(ctx *fasthttp.RequestCtx, call int32) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	})
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultClientConfig().BreakerThreshold; i++ {
		_, err := client.BacklinksOverview(context.Background(), "example.com", from, from)
		require.Error(t, err)
	}
	calls := fake.calls.Load()

	_, err := client.BacklinksOverview(context.Background(), "example.com", from, from)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, calls, fake.calls.Load(), "open circuit sends nothing")
}
