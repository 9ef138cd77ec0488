package terminal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sonnes/bellhop/core"
)

// extractArgumentSummary picks the most telling argument values for a call.
func extractArgumentSummary(name string, args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	switch name {
	case "check_availability", "get_rates":
		return joinFields(args, "check_in", "check_out", "date", "room_type")
	case core.BookingFunction:
		return joinFields(args, "guest_name", "room_type", "check_in", "check_out")
	case "cancel_booking", "modify_booking":
		return joinFields(args, "booking_id", "bookingId")
	default:
		for _, key := range []string{"query", "booking_id", "date", "check_in", "room_type", "name"} {
			if v := stringField(args, key); v != "" {
				return v
			}
		}
		return fallbackSummary(args)
	}
}

// joinFields joins the present values of keys with " → ".
func joinFields(m map[string]any, keys ...string) string {
	var parts []string
	for _, key := range keys {
		if v := stringField(m, key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " → ")
}

// fallbackSummary lists argument keys in sorted order.
func fallbackSummary(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// stringField safely extracts a scalar value from a map as a string.
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%g", s)
	case bool:
		return fmt.Sprintf("%t", s)
	default:
		return ""
	}
}
