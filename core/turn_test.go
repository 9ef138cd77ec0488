package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTurns(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     int // number of turns
		checks   func(t *testing.T, turns []Turn)
	}{
		{
			name:     "empty",
			messages: nil,
			want:     0,
		},
		{
			name: "single guest message",
			messages: []Message{
				{Role: RoleUser, Text: "hello"},
			},
			want: 1,
			checks: func(t *testing.T, turns []Turn) {
				require.NotNil(t, turns[0].GuestMessage)
				assert.Equal(t, "hello", turns[0].GuestMessage.Text)
				assert.Empty(t, turns[0].Replies)
			},
		},
		{
			name: "greeting before first guest message",
			messages: []Message{
				{Role: RoleAI, Text: "Welcome!"},
				{Role: RoleUser, Text: "hi"},
				{Role: RoleAI, Text: "How can I help?"},
			},
			want: 2,
			checks: func(t *testing.T, turns []Turn) {
				assert.Nil(t, turns[0].GuestMessage)
				require.Len(t, turns[0].Replies, 1)
				assert.NotNil(t, turns[1].GuestMessage)
			},
		},
		{
			name: "multi turn",
			messages: []Message{
				{Role: RoleUser, Text: "first"},
				{Role: RoleAI, Text: "reply1"},
				{Role: RoleUser, Text: "second"},
				{Role: RoleAI, Text: "reply2"},
			},
			want: 2,
			checks: func(t *testing.T, turns []Turn) {
				assert.Equal(t, "first", turns[0].GuestMessage.Text)
				assert.Equal(t, "second", turns[1].GuestMessage.Text)
			},
		},
		{
			name: "agent and assistant replies share a turn",
			messages: []Message{
				{Role: RoleUser, Text: "I need a person"},
				{Role: RoleAI, Text: "Connecting you"},
				{Role: RoleOwner, Text: "Hi, this is Priya"},
			},
			want: 1,
			checks: func(t *testing.T, turns []Turn) {
				require.Len(t, turns[0].Replies, 2)
				assert.True(t, turns[0].HandedOff())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns := GroupTurns(tt.messages)
			assert.Len(t, turns, tt.want)
			if tt.checks != nil {
				tt.checks(t, turns)
			}
		})
	}
}

func TestActionCount(t *testing.T) {
	turn := Turn{
		Replies: []Message{
			{Role: RoleAI, Text: "checking", FunctionCall: &FunctionCall{Name: "check_availability"}},
			{Role: RoleAI, Text: "booked", FunctionCall: &FunctionCall{Name: "booking"}},
			{Role: RoleAI, Text: "anything else?"},
		},
	}
	assert.Equal(t, 2, turn.ActionCount())
	assert.False(t, turn.HandedOff())
}
