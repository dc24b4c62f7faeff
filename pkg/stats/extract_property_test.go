package stats

import (
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_ExtractNumberKeyMajorPrecedence checks that the winning value
// always belongs to the earliest candidate key present anywhere, and within
// that key to the earliest container.
func TestProperty_ExtractNumberKeyMajorPrecedence(t *testing.T) {
	keys := RefDomains.Keys
	scopeNames := []string{"", "metrics", "data"}

	rapid.Check(t, func(rt *rapid.T) {
		payload := map[string]any{}
		scopes := map[string]map[string]any{"": payload}
		for _, name := range scopeNames[1:] {
			if rapid.Bool().Draw(rt, "has_"+name) {
				nested := map[string]any{}
				payload[name] = nested
				scopes[name] = nested
			}
		}

		want := 0.0
		found := false
		for _, key := range keys {
			for _, name := range scopeNames {
				scope, ok := scopes[name]
				if !ok {
					continue
				}
				kind := rapid.IntRange(0, 3).Draw(rt, "kind_"+name+"_"+key)
				switch kind {
				case 0: // absent
				case 1:
					scope[key] = nil
				case 2:
					scope[key] = "not a number"
				case 3:
					v := float64(rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "value_"+name+"_"+key))
					scope[key] = v
					if !found {
						want, found = v, true
					}
				}
			}
		}

		if got := ExtractNumber(payload, keys...); got != want {
			rt.Fatalf("ExtractNumber = %v, want %v (payload %v)", got, want, payload)
		}
	})
}

// TestProperty_PctChangeRoundTrip checks that applying the change to the
// previous value recovers the current value.
func TestProperty_PctChangeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prev := float64(rapid.IntRange(1, 10_000_000).Draw(rt, "prev"))
		cur := float64(rapid.IntRange(0, 10_000_000).Draw(rt, "cur"))

		change := PctChange(cur, prev)
		if change == nil {
			rt.Fatalf("PctChange(%v, %v) = nil for non-zero previous", cur, prev)
		}
		got := prev * (1 + *change/100)
		if diff := got - cur; diff > 1e-6 || diff < -1e-6 {
			rt.Fatalf("prev*(1+change) = %v, want %v", got, cur)
		}
	})
}

// TestProperty_ExtractMetricKeyMajorPrecedence mixes numeric nodes with
// nodes that hold no number (nulls, text, empty objects, objects with a null
// total, empty lists). Those must never stop the search: the metric total
// comes from the earliest key, then earliest container, holding a number.
// ExtractNumber ignores object nodes and picks the earliest bare number.
func TestProperty_ExtractMetricKeyMajorPrecedence(t *testing.T) {
	field := OrganicKeywords
	scopeNames := []string{"", "metrics", "data"}

	rapid.Check(t, func(rt *rapid.T) {
		payload := map[string]any{}
		scopes := map[string]map[string]any{"": payload}
		for _, name := range scopeNames[1:] {
			if rapid.Bool().Draw(rt, "has_"+name) {
				nested := map[string]any{}
				payload[name] = nested
				scopes[name] = nested
			}
		}

		want, wantNumber := 0.0, 0.0
		found, foundNumber := false, false
		for _, key := range field.Keys {
			for _, name := range scopeNames {
				scope, ok := scopes[name]
				if !ok {
					continue
				}
				switch rapid.IntRange(0, 7).Draw(rt, "kind_"+name+"_"+key) {
				case 0: // absent
				case 1:
					scope[key] = nil
				case 2:
					scope[key] = "not a number"
				case 3:
					scope[key] = map[string]any{}
				case 4:
					scope[key] = map[string]any{"total": nil}
				case 5:
					scope[key] = []any{}
				case 6:
					v := float64(rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "value_"+name+"_"+key))
					scope[key] = v
					if !found {
						want, found = v, true
					}
					if !foundNumber {
						wantNumber, foundNumber = v, true
					}
				case 7:
					v := float64(rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "total_"+name+"_"+key))
					scope[key] = map[string]any{"total": v}
					if !found {
						want, found = v, true
					}
				}
			}
		}

		if got := ExtractMetric(payload, field).Value; got != want {
			rt.Fatalf("ExtractMetric = %v, want %v (payload %v)", got, want, payload)
		}
		if got := ExtractNumber(payload, field.Keys...); got != wantNumber {
			rt.Fatalf("ExtractNumber = %v, want %v (payload %v)", got, wantNumber, payload)
		}
	})
}
