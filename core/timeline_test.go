package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDate(t *testing.T) {
	day1 := time.Date(2024, 11, 4, 23, 50, 0, 0, time.UTC)
	day2 := day1.Add(20 * time.Minute)

	messages := []Message{
		{Role: RoleUser, Text: "late question", Timestamp: day1},
		{Role: RoleAI, Text: "late answer", Timestamp: day1.Add(5 * time.Second)},
		{Role: RoleUser, Text: "next day", Timestamp: day2},
		{Role: RoleAI, Text: "no timestamp"},
	}

	groups := GroupByDate(messages, time.UTC)
	require.Len(t, groups, 3)
	assert.Equal(t, "November 4, 2024", groups[0].Label)
	assert.Len(t, groups[0].Messages, 2)
	assert.Equal(t, "November 5, 2024", groups[1].Label)
	assert.Equal(t, "Unknown date", groups[2].Label)

	t.Run("location shifts the boundary", func(t *testing.T) {
		ist := time.FixedZone("IST", 5*3600+1800)
		groups := GroupByDate(messages[:3], ist)
		require.Len(t, groups, 1)
		assert.Equal(t, "November 5, 2024", groups[0].Label)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, GroupByDate(nil, nil))
	})
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Sea Breeze Resort", RoleLabel(RoleAI, "Sea Breeze Resort"))
	assert.Equal(t, "AI Assistant", RoleLabel(RoleAI, ""))
	assert.Equal(t, "Human Agent", RoleLabel(RoleOwner, "Sea Breeze Resort"))
	assert.Equal(t, "Guest", RoleLabel(RoleUser, ""))
	assert.Equal(t, "bot", RoleLabel(Role("bot"), ""))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "<1s"},
		{4 * time.Second, "4s"},
		{2*time.Minute + 30*time.Second, "2m 30s"},
		{3 * time.Minute, "3m"},
		{time.Hour + 5*time.Minute, "1h 5m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,228,873", FormatNumber(1228873))
	assert.Equal(t, "-4,500", FormatNumber(-4500))
}

func TestConversationBoundsAndTitle(t *testing.T) {
	start := time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC)
	c := &Conversation{
		ID: "c-1",
		Messages: []Message{
			{Role: RoleUser, Timestamp: start},
			{Role: RoleAI, Timestamp: start.Add(time.Minute)},
		},
	}
	first, last := c.Bounds()
	assert.Equal(t, start, first)
	assert.Equal(t, start.Add(time.Minute), last)
	assert.Equal(t, "Conversation c-1", c.Title())

	c.HotelName = "Sea Breeze"
	assert.Equal(t, "Sea Breeze · c-1", c.Title())

	empty := &Conversation{}
	first, last = empty.Bounds()
	assert.True(t, first.IsZero())
	assert.True(t, last.IsZero())
}

func TestCloneIsolatesFunctionCalls(t *testing.T) {
	c := &Conversation{
		ID: "c-1",
		Messages: []Message{
			{Role: RoleAI, FunctionCall: &FunctionCall{Name: "booking", Arguments: map[string]any{"nights": 2}}},
		},
	}
	cp := c.Clone()
	cp.Messages[0].FunctionCall.Arguments["nights"] = 3
	cp.Messages[0].Text = "changed"

	assert.Equal(t, 2, c.Messages[0].FunctionCall.Arguments["nights"])
	assert.Empty(t, c.Messages[0].Text)
}
