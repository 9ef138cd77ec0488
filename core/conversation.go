// Package core defines the normalized conversation format that all readers
// produce and that the metrics engine and renderers consume.
package core

import (
	"fmt"
	"time"
)

// Conversation is the top-level container for a single chatbot conversation.
type Conversation struct {
	ID        string    `json:"id"`
	HotelName string    `json:"hotel_name,omitempty"` // display name for AI messages
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message is a single entry in the conversation.
type Message struct {
	ID           string        `json:"id,omitempty"`
	Role         Role          `json:"role"`
	Text         string        `json:"text"`
	Timestamp    time.Time     `json:"timestamp"` // zero when missing or unparsable
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	Error        string        `json:"error,omitempty"` // set when an automated action failed
}

// FunctionCall records an automated action invoked by the assistant, such as
// a booking attempt, together with its result.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Output    any            `json:"output,omitempty"`
}

// Role enumerates who produced a message.
type Role string

const (
	RoleAI    Role = "AI"
	RoleUser  Role = "user"
	RoleOwner Role = "Owner" // human agent
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAI, RoleUser, RoleOwner:
		return true
	default:
		return false
	}
}

// HasFunctionCall reports whether the message carries a function call record.
func (m Message) HasFunctionCall() bool {
	return m.FunctionCall != nil
}

// Bounds returns the timestamps of the first and last messages. Both are zero
// for an empty conversation.
func (c *Conversation) Bounds() (first, last time.Time) {
	if len(c.Messages) == 0 {
		return time.Time{}, time.Time{}
	}
	return c.Messages[0].Timestamp, c.Messages[len(c.Messages)-1].Timestamp
}

// Title returns a short human-readable title for the conversation.
func (c *Conversation) Title() string {
	if c.HotelName != "" {
		return c.HotelName + " · " + c.ID
	}
	return "Conversation " + c.ID
}

// BookingFunction is the function name the assistant uses to place a reservation.
const BookingFunction = "booking"

// IsBooking reports whether the call placed a reservation that returned output.
func (fc *FunctionCall) IsBooking() bool {
	return fc != nil && fc.Name == BookingFunction && fc.Output != nil
}

// BookingID returns output.data.bookingId from a booking call, if present.
func (fc *FunctionCall) BookingID() string {
	if fc == nil {
		return ""
	}
	out, ok := fc.Output.(map[string]any)
	if !ok {
		return ""
	}
	data, ok := out["data"].(map[string]any)
	if !ok {
		return ""
	}
	switch id := data["bookingId"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
