package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
)

func entry(id string, started time.Time) Entry {
	return Entry{
		ConversationID: id,
		Title:          "Conversation " + id,
		StartedAt:      started,
		Href:           id + "/index.html",
	}
}

func TestReadFileNotExist(t *testing.T) {
	m, err := ReadFile(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestReadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	now := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	e := entry("abc", now)
	e.Category = metrics.CategoryBooking
	e.AutomationRate = "67%"
	e.ResponseTimeSeconds = 2.5
	e.MessageCount = 8

	m := &Manifest{Entries: []Entry{e}}
	require.NoError(t, m.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "abc", got.Entries[0].ConversationID)
	assert.Equal(t, metrics.CategoryBooking, got.Entries[0].Category)
	assert.Equal(t, "67%", got.Entries[0].AutomationRate)
	assert.Equal(t, 2.5, got.Entries[0].ResponseTimeSeconds)
	assert.Equal(t, 8, got.Entries[0].MessageCount)
}

func TestUpsertAppend(t *testing.T) {
	now := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	m := &Manifest{}

	m.Upsert(entry("a", now))
	m.Upsert(entry("b", now.Add(time.Hour)))

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "b", m.Entries[0].ConversationID, "newest first")
	assert.Equal(t, "a", m.Entries[1].ConversationID)
}

func TestUpsertReplace(t *testing.T) {
	now := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	m := &Manifest{}

	m.Upsert(entry("a", now))
	m.Upsert(entry("b", now.Add(time.Hour)))

	updated := entry("a", now)
	updated.Title = "Updated title"
	m.Upsert(updated)

	require.Len(t, m.Entries, 2)
	got, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Updated title", got.Title)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestUpsertSortsNewestFirst(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m := &Manifest{}
	m.Upsert(entry("old", t0))
	m.Upsert(entry("new", t0.Add(2*time.Hour)))
	m.Upsert(entry("mid", t0.Add(time.Hour)))

	require.Len(t, m.Entries, 3)
	assert.Equal(t, "new", m.Entries[0].ConversationID)
	assert.Equal(t, "mid", m.Entries[1].ConversationID)
	assert.Equal(t, "old", m.Entries[2].ConversationID)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	m := &Manifest{Entries: []Entry{entry("x", time.Now())}}
	require.NoError(t, m.WriteFile(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "manifest.json", entries[0].Name())
}

func TestWriteFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.json")

	m := &Manifest{}
	require.NoError(t, m.WriteFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestNewEntry(t *testing.T) {
	t0 := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	c := &core.Conversation{
		ID:        "conv-1",
		HotelName: "Sea View Resort",
		Messages: []core.Message{
			{Role: core.RoleUser, Text: "Can I book a room?", Timestamp: t0},
			{Role: core.RoleAI, Text: "Yes", Timestamp: t0.Add(2 * time.Second)},
		},
	}
	rec, err := metrics.Compute(c.Messages)
	require.NoError(t, err)

	e := NewEntry(c, rec, "conv-1/index.html")

	assert.Equal(t, "conv-1", e.ConversationID)
	assert.Equal(t, "Sea View Resort · conv-1", e.Title)
	assert.Equal(t, "Sea View Resort", e.HotelName)
	assert.Equal(t, t0, e.StartedAt)
	assert.Equal(t, t0.Add(2*time.Second), e.EndedAt)
	assert.Equal(t, 2, e.MessageCount)
	assert.Equal(t, metrics.CategoryBooking, e.Category)
	assert.Equal(t, "50%", e.AutomationRate)
	assert.Equal(t, 2.0, e.ResponseTimeSeconds)
	assert.Equal(t, rec.Quality.Rating, e.QualityRating)
	assert.Equal(t, "conv-1/index.html", e.Href)
}

func TestNewEntryWithoutMetrics(t *testing.T) {
	e := NewEntry(&core.Conversation{ID: "empty"}, nil, "empty/index.html")
	assert.Equal(t, 0, e.MessageCount)
	assert.Empty(t, e.Category)
	assert.True(t, e.StartedAt.IsZero())
}
