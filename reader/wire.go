package reader

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/sonnes/bellhop/core"
)

// RawMessage mirrors a message as served by the chatbot widget API.
type RawMessage struct {
	ID           string           `json:"_id"`
	Role         string           `json:"role"`
	Message      string           `json:"message"`
	Timestamp    string           `json:"timestamp"`
	FunctionCall *RawFunctionCall `json:"function_call,omitempty"`
	Error        string           `json:"error,omitempty"`
	Hotel        *RawHotel        `json:"hotel,omitempty"`
}

// RawFunctionCall is the function_call object on an AI message. Arguments
// arrive either as an object or as a JSON-encoded string.
type RawFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Output    any             `json:"output,omitempty"`
}

// RawHotel is the hotel reference attached to messages.
type RawHotel struct {
	Name string `json:"name"`
}

// Payload is the envelope returned by the messages endpoint.
type Payload struct {
	Data []RawMessage `json:"data"`
}

// ToMessage maps a wire message to a core.Message.
func ToMessage(raw RawMessage) core.Message {
	m := core.Message{
		ID:        raw.ID,
		Role:      normalizeRole(raw.Role),
		Text:      raw.Message,
		Timestamp: ParseTime(raw.Timestamp),
		Error:     raw.Error,
	}
	if raw.FunctionCall != nil {
		m.FunctionCall = &core.FunctionCall{
			Name:      raw.FunctionCall.Name,
			Arguments: decodeArguments(raw.FunctionCall.Arguments),
			Output:    raw.FunctionCall.Output,
		}
	}
	return m
}

// BuildConversation assembles a conversation from wire messages, taking the
// hotel name from the first message that carries one. Messages are sorted
// ascending by timestamp; ties keep their input order.
func BuildConversation(id string, raws []RawMessage) *core.Conversation {
	c := &core.Conversation{
		ID:       id,
		Messages: make([]core.Message, 0, len(raws)),
	}
	for _, raw := range raws {
		if c.HotelName == "" && raw.Hotel != nil {
			c.HotelName = raw.Hotel.Name
		}
		c.Messages = append(c.Messages, ToMessage(raw))
	}
	SortMessages(c.Messages, false)
	return c
}

// SortMessages orders messages by timestamp, newest first when desc is set.
// The sort is stable.
func SortMessages(messages []core.Message, desc bool) {
	sort.SliceStable(messages, func(i, j int) bool {
		if desc {
			return messages[i].Timestamp.After(messages[j].Timestamp)
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}

// ParseTime parses an API timestamp. It returns the zero time when s is
// empty or unparsable.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeRole maps wire role names onto core roles. Unknown roles pass
// through unchanged.
func normalizeRole(role string) core.Role {
	switch strings.ToLower(role) {
	case "ai", "assistant", "bot":
		return core.RoleAI
	case "user", "guest":
		return core.RoleUser
	case "owner", "agent":
		return core.RoleOwner
	default:
		return core.Role(role)
	}
}

func decodeArguments(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err == nil {
		return args
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil || encoded == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return map[string]any{"raw": encoded}
	}
	return args
}
