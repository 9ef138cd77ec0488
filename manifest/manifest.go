// Package manifest manages the conversation index file (manifest.json) that
// tracks every rendered conversation and its headline metrics.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
)

// Entry holds lightweight metadata for one conversation, used by the
// manifest file and the index page. It carries the headline metrics without
// the full message list.
type Entry struct {
	ConversationID      string           `json:"conversation_id"`
	Title               string           `json:"title,omitempty"`
	HotelName           string           `json:"hotel_name,omitempty"`
	StartedAt           time.Time        `json:"started_at"`
	EndedAt             time.Time        `json:"ended_at,omitempty"`
	FetchedAt           time.Time        `json:"fetched_at,omitempty"`
	MessageCount        int              `json:"message_count"`
	Category            metrics.Category `json:"category,omitempty"`
	AutomationRate      string           `json:"automation_rate,omitempty"`
	ResponseTimeSeconds float64          `json:"response_time_seconds"`
	QualityRating       string           `json:"quality_rating,omitempty"`
	Href                string           `json:"href"`
}

// NewEntry extracts metadata from a conversation and its metrics record and
// pairs it with href (relative link to the rendered page). rec may be nil for
// a conversation without messages.
func NewEntry(c *core.Conversation, rec *metrics.Record, href string) Entry {
	first, last := c.Bounds()
	e := Entry{
		ConversationID: c.ID,
		Title:          c.Title(),
		HotelName:      c.HotelName,
		StartedAt:      first,
		EndedAt:        last,
		FetchedAt:      c.FetchedAt,
		MessageCount:   len(c.Messages),
		Href:           href,
	}
	if rec != nil {
		e.Category = rec.Category
		e.AutomationRate = rec.AutomationRate
		e.ResponseTimeSeconds = rec.ResponseTimeSeconds
		e.QualityRating = rec.Quality.Rating
	}
	return e
}

// Manifest holds the list of conversation entries.
type Manifest struct {
	Entries []Entry `json:"entries"`
}

// ReadFile reads a manifest from disk. Returns an empty Manifest if the file
// does not exist.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert adds or replaces an entry matched by ConversationID. After
// upserting, the entries are sorted newest-first by StartedAt.
func (m *Manifest) Upsert(entry Entry) {
	for i, e := range m.Entries {
		if e.ConversationID == entry.ConversationID {
			m.Entries[i] = entry
			m.sort()
			return
		}
	}
	m.Entries = append(m.Entries, entry)
	m.sort()
}

// Get returns the entry for id.
func (m *Manifest) Get(id string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.ConversationID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (m *Manifest) sort() {
	sort.SliceStable(m.Entries, func(i, j int) bool {
		return m.Entries[i].StartedAt.After(m.Entries[j].StartedAt)
	})
}

// WriteFile writes the manifest to disk atomically using a temporary file and
// rename, which is safe against concurrent writers.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
