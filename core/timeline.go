package core

import (
	"fmt"
	"time"
)

// DateLayout is the label format used for timeline date separators.
const DateLayout = "January 2, 2006"

// DateGroup is a run of messages that share a calendar date.
type DateGroup struct {
	Label    string
	Messages []Message
}

// GroupByDate buckets messages by their calendar date in loc, preserving the
// input order within each bucket. Groups are returned in order of first
// appearance. Messages with a zero timestamp land in an "Unknown date" group.
func GroupByDate(messages []Message, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.UTC
	}

	var groups []DateGroup
	index := make(map[string]int)
	for _, msg := range messages {
		label := "Unknown date"
		if !msg.Timestamp.IsZero() {
			label = msg.Timestamp.In(loc).Format(DateLayout)
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}
	return groups
}

// RoleLabel returns the display name for a message author. AI messages use
// the hotel name when known.
func RoleLabel(role Role, hotelName string) string {
	switch role {
	case RoleAI:
		if hotelName != "" {
			return hotelName
		}
		return "AI Assistant"
	case RoleOwner:
		return "Human Agent"
	case RoleUser:
		return "Guest"
	default:
		return string(role)
	}
}

// RelativeTime formats a time.Time as a human-readable relative string.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

// FormatDuration renders d compactly, e.g. "4s", "2m 30s", "1h 5m".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatNumber inserts thousands separators into n.
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return FormatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
