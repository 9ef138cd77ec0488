// Package reader defines the interface for loading chatbot conversations
// into the normalized core format, and the wire schema shared by the
// API and file readers.
package reader

import (
	"context"

	"github.com/sonnes/bellhop/core"
)

// Reader loads a conversation by its ID. Messages are always returned
// sorted ascending by timestamp.
type Reader interface {
	ReadConversation(ctx context.Context, id string) (*core.Conversation, error)
}
