package core

// Turn groups a guest message with all replies that follow it, representing
// one request-response cycle in the conversation.
type Turn struct {
	GuestMessage *Message // nil if the turn starts with a reply
	Replies      []Message
}

// GroupTurns splits a flat message list into turns. A new turn starts at each
// user message. AI and human agent messages are folded into the current turn.
func GroupTurns(messages []Message) []Turn {
	var turns []Turn
	var current *Turn

	for i := range messages {
		msg := &messages[i]
		if msg.Role == RoleUser {
			if current != nil {
				turns = append(turns, *current)
			}
			current = &Turn{GuestMessage: msg}
			continue
		}
		if current == nil {
			current = &Turn{}
		}
		current.Replies = append(current.Replies, *msg)
	}
	if current != nil {
		turns = append(turns, *current)
	}
	return turns
}

// ActionCount returns the number of function calls made in this turn.
func (t Turn) ActionCount() int {
	n := 0
	for _, msg := range t.Replies {
		if msg.FunctionCall != nil {
			n++
		}
	}
	return n
}

// HandedOff reports whether a human agent replied in this turn.
func (t Turn) HandedOff() bool {
	for _, msg := range t.Replies {
		if msg.Role == RoleOwner {
			return true
		}
	}
	return false
}
