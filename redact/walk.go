package redact

import "strings"

const maxWalkDepth = 16

// secretKeys name function-call fields whose string values are masked whole
// when secret redaction is on. Keys are compared lowercased with "_" and "-"
// removed, so "card_cvv", "cardCvv" and "card-cvv" all match "cardcvv".
var secretKeys = map[string]bool{
	"password": true,
	"passcode": true,
	"pin":      true,
	"otp":      true,
	"cvv":      true,
	"cardcvv":  true,
	"token":    true,
	"apikey":   true,
	"secret":   true,
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	k = strings.NewReplacer("_", "", "-", "").Replace(k)
	return secretKeys[k]
}

// walkAny applies fn to every string leaf in v, recursively.
func walkAny(v any, fn func(string) string) any {
	return walkPayload(v, func(_, s string) string { return fn(s) }, "", 0)
}

// walkPayload rebuilds a decoded JSON payload, passing every string leaf to
// fn with the map key it sits under. Slice elements inherit their parent's
// key. Values nested deeper than maxWalkDepth are returned unchanged.
func walkPayload(v any, fn func(key, s string) string, key string, depth int) any {
	if depth > maxWalkDepth {
		return v
	}
	switch val := v.(type) {
	case string:
		return fn(key, val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = walkPayload(child, fn, k, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = walkPayload(child, fn, key, depth+1)
		}
		return out
	default:
		return v
	}
}
