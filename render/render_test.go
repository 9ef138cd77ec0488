package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/bellhop/compact"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/redact"
)

func TestNewView(t *testing.T) {
	t0 := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	c := &core.Conversation{
		ID: "conv-1",
		Messages: []core.Message{
			{Role: core.RoleUser, Text: "I want to book a room", Timestamp: t0},
			{Role: core.RoleAI, Text: "Sure, confirmed", Timestamp: t0.Add(2 * time.Second), FunctionCall: &core.FunctionCall{Name: "booking"}},
		},
	}

	v, err := NewView(c, metrics.NewEngine(metrics.StrategyAdjacent))
	require.NoError(t, err)
	require.True(t, v.HasMetrics())
	assert.Equal(t, metrics.CategoryBooking, v.Metrics.Category)
	assert.Equal(t, 2, v.Summary.TotalMessages)
	assert.Len(t, v.Scores, 5)
	assert.Equal(t, time.UTC, v.Loc())
}

func TestNewViewEmpty(t *testing.T) {
	v, err := NewView(&core.Conversation{ID: "empty"}, &metrics.Engine{})
	require.NoError(t, err)
	assert.False(t, v.HasMetrics())
	assert.Nil(t, v.Summary)
}

func TestNewViewInvalidTimestamp(t *testing.T) {
	c := &core.Conversation{Messages: []core.Message{{Role: core.RoleUser, Text: "hi"}}}
	_, err := NewView(c, &metrics.Engine{})
	assert.ErrorIs(t, err, metrics.ErrInvalidTimestamp)
}

func TestNewViewMetricsIgnoreTransformers(t *testing.T) {
	t0 := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	c := &core.Conversation{
		ID: "conv-1",
		Messages: []core.Message{
			{Role: core.RoleUser, Text: "Please email booking@grandhotel.com\nthank you, great", Timestamp: t0},
			{Role: core.RoleAI, Text: "Done", Timestamp: t0.Add(time.Second)},
		},
	}
	want, err := metrics.Compute(c.Messages)
	require.NoError(t, err)
	require.Equal(t, metrics.CategoryBooking, want.Category)

	v, err := NewView(c, &metrics.Engine{},
		redact.New(redact.Config{Secrets: true, PII: true}),
		compact.New(compact.Config{MaxTextLines: 1}),
	)
	require.NoError(t, err)

	assert.Equal(t, want, v.Metrics)
	assert.Equal(t, metrics.Scores(c.Messages), v.Scores)

	assert.NotContains(t, v.Conversation.Messages[0].Text, "booking@grandhotel.com")
	assert.Contains(t, v.Conversation.Messages[0].Text, "[+1 more lines]")
	assert.Equal(t, "Please email booking@grandhotel.com\nthank you, great", c.Messages[0].Text)
}
