package stats

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// nestedContainers are probed after the top level, in this order.
	nestedContainers = []string{"metrics", "data"}

	// seriesContainers may hold a list of dated points instead of an object.
	seriesContainers = []string{"metrics", "data", "history", "series"}

	totalKeys  = []string{"total", "value", "current"}
	seriesKeys = []string{"history", "series", "values", "sparkline"}
	pointKeys  = []string{"value", "v"}
	matchKeys  = []string{"target", "domain", "url"}
)

// ExtractNumber returns the first numeric value found under keys. For each
// key in order it checks the top level, then "metrics", then "data"; a list
// container contributes its first object. Numeric strings count; nulls,
// booleans and non-finite values do not. The default is 0.
func ExtractNumber(payload map[string]any, keys ...string) float64 {
	v, _ := lookupNumber(payload, keys)
	return v
}

func lookupNumber(payload map[string]any, keys []string) (float64, bool) {
	scopes := containers(payload, true)
	for _, key := range keys {
		for _, scope := range scopes {
			if f, ok := toFloat(scope[key]); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// ExtractMetric recovers a metric's total and sparkline from a payload.
//
// The metric node is looked up key-major across the top level and the
// "metrics"/"data" objects. A numeric node is the total. An object node
// carries total/value/current and a history/series/values list. A list node
// is the history itself. Nodes holding no number at all are skipped like
// nulls, so a later candidate can still win. Failing that, a "metrics"/"data"/"history"/"series"
// list of dated points carrying the field's keys is read as the history. A
// metric with history but no total takes its last point.
func ExtractMetric(payload map[string]any, field Field) Metric {
	if m, ok := metricFromScopes(containers(payload, false), field); ok {
		return m
	}

	for _, name := range seriesContainers {
		list, ok := payload[name].([]any)
		if !ok {
			continue
		}
		if series, found := seriesFrom(list, field.Keys); found {
			return withSeries(Metric{}, series, false)
		}
	}

	if m, ok := metricFromScopes(containers(payload, true), field); ok {
		return m
	}
	return Metric{Sparkline: []float64{}}
}

func metricFromScopes(scopes []map[string]any, field Field) (Metric, bool) {
	for _, key := range field.Keys {
		for _, scope := range scopes {
			node, ok := scope[key]
			if !ok || node == nil {
				continue
			}
			if m, ok := metricFromNode(node, field); ok {
				return m, true
			}
		}
	}
	return Metric{}, false
}

func metricFromNode(node any, field Field) (Metric, bool) {
	if f, ok := toFloat(node); ok {
		return Metric{Value: f, Sparkline: []float64{}}, true
	}

	switch n := node.(type) {
	case map[string]any:
		total, hasTotal := lookupNumber(n, totalKeys)
		series, hasSeries := []float64{}, false
		for _, key := range seriesKeys {
			if list, ok := n[key].([]any); ok {
				series, hasSeries = seriesFrom(list, field.Keys)
				break
			}
		}
		if !hasTotal && !hasSeries {
			return Metric{}, false
		}
		return withSeries(Metric{Value: total}, series, hasTotal), true
	case []any:
		series, found := seriesFrom(n, field.Keys)
		if !found {
			return Metric{}, false
		}
		return withSeries(Metric{}, series, false), true
	}

	return Metric{}, false
}

func withSeries(m Metric, series []float64, hasTotal bool) Metric {
	m.Sparkline = series
	if !hasTotal && len(series) > 0 {
		m.Value = series[len(series)-1]
	}
	return m
}

// seriesFrom reads history points. A point is a number or an object holding
// value/v or one of keys. Object points without a number count as 0 so the
// series stays aligned with its dates. found reports whether any point held
// a number.
func seriesFrom(list []any, keys []string) (series []float64, found bool) {
	series = make([]float64, 0, len(list))
	candidates := append(append([]string{}, pointKeys...), keys...)

	for _, item := range list {
		if f, ok := toFloat(item); ok {
			series = append(series, f)
			found = true
			continue
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value := 0.0
		for _, key := range candidates {
			if f, ok := toFloat(obj[key]); ok {
				value = f
				found = true
				break
			}
		}
		series = append(series, value)
	}

	return series, found
}

// ExtractDomainRating finds the domain rating for domain in a batch payload.
// It accepts results keyed by domain, results as a list of objects naming
// their target, the same two shapes under "data", and a flat single-domain
// payload. The default is 0.
func ExtractDomainRating(batch map[string]any, domain string) float64 {
	for _, name := range []string{"results", "data", "targets"} {
		if obj, ok := findTarget(batch[name], domain); ok {
			return ratingFrom(obj)
		}
	}
	return ratingFrom(batch)
}

func findTarget(node any, domain string) (map[string]any, bool) {
	want := normalizeDomain(domain)

	switch n := node.(type) {
	case map[string]any:
		if obj, ok := targetValue(n[domain]); ok {
			return obj, true
		}
		// Sorted so that "gambling.com" and "www.gambling.com" resolve the
		// same way on every call.
		keys := make([]string, 0, len(n))
		for key := range n {
			if normalizeDomain(key) == want {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			if obj, ok := targetValue(n[key]); ok {
				return obj, true
			}
		}
	case []any:
		for _, item := range n {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range matchKeys {
				if s, ok := obj[key].(string); ok && normalizeDomain(s) == want {
					return obj, true
				}
			}
		}
	}
	return nil, false
}

func targetValue(value any) (map[string]any, bool) {
	if obj, ok := value.(map[string]any); ok {
		return obj, true
	}
	if _, ok := toFloat(value); ok {
		return map[string]any{DomainRating.Keys[0]: value}, true
	}
	return nil, false
}

// ratingFrom also unwraps the {"domain_rating": {"domain_rating": 52}} shape.
func ratingFrom(obj map[string]any) float64 {
	if v, ok := lookupNumber(obj, DomainRating.Keys); ok {
		return v
	}
	for _, key := range DomainRating.Keys {
		if inner, ok := obj[key].(map[string]any); ok {
			if v, ok := lookupNumber(inner, DomainRating.Keys); ok {
				return v
			}
		}
	}
	return 0
}

func normalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// containers returns the top level followed by any nested metrics/data
// objects. With lists set, a list container contributes its first object.
func containers(payload map[string]any, lists bool) []map[string]any {
	scopes := []map[string]any{payload}
	for _, name := range nestedContainers {
		switch c := payload[name].(type) {
		case map[string]any:
			scopes = append(scopes, c)
		case []any:
			if !lists {
				continue
			}
			for _, item := range c {
				if obj, ok := item.(map[string]any); ok {
					scopes = append(scopes, obj)
					break
				}
			}
		}
	}
	return scopes
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
