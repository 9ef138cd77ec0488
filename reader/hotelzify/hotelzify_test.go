package hotelzify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/ratelimit"
)

const testToken = "test-token"

const messagesBody = `{
	"data": [
		{"_id": "m2", "role": "AI", "message": "Sure, confirmed", "timestamp": "2024-11-05T10:00:02Z",
		 "function_call": {"name": "booking", "arguments": {"nights": 2}, "output": {"ok": true}}},
		{"_id": "m1", "role": "user", "message": "I want to book a room", "timestamp": "2024-11-05T10:00:00Z",
		 "hotel": {"name": "Sea View Resort"}},
		{"_id": "m3", "role": "Owner", "message": "Welcome!", "timestamp": "2024-11-05T10:05:00Z"}
	]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchMessages(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, messagesPath, r.URL.Path)
		assert.Equal(t, "conv-1", r.URL.Query().Get("conversationId"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "X-Request-ID should be a UUID")

		fmt.Fprint(w, messagesBody)
	})

	c := New(Config{BaseURL: srv.URL, Token: testToken})
	resp, err := c.FetchMessages(context.Background(), "conv-1", Options{})
	require.NoError(t, err)

	require.Len(t, resp.Data, 3)
	assert.Equal(t, "m1", resp.Data[0].ID)
	assert.Equal(t, "m2", resp.Data[1].ID)
	assert.Equal(t, "m3", resp.Data[2].ID)
	assert.Equal(t, core.RoleOwner, resp.Data[2].Role)
	assert.Equal(t, "Sea View Resort", resp.HotelName)
	require.NotNil(t, resp.Data[1].FunctionCall)
	assert.Equal(t, "booking", resp.Data[1].FunctionCall.Name)
}

func TestFetchMessagesDescending(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		fmt.Fprint(w, messagesBody)
	})

	c := New(Config{BaseURL: srv.URL + "/", Token: testToken})
	resp, err := c.FetchMessages(context.Background(), "conv-1", Options{PageSize: 10, Page: 2, SortOrder: SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2", "m1"}, []string{resp.Data[0].ID, resp.Data[1].ID, resp.Data[2].ID})
}

func TestFetchMessagesHTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"conversation not found"}`)
	})

	c := New(Config{BaseURL: srv.URL, Token: testToken})
	_, err := c.FetchMessages(context.Background(), "missing", Options{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, contextMessages, apiErr.Context)
	assert.Equal(t, map[string]any{"error": "conversation not found"}, apiErr.Data)
	assert.False(t, apiErr.Timestamp.IsZero())
	assert.Contains(t, apiErr.Error(), "status 404")
}

func TestFetchMessagesMalformedBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [`)
	})

	c := New(Config{BaseURL: srv.URL, Token: testToken})
	_, err := c.FetchMessages(context.Background(), "conv-1", Options{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "decode response")
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing token", Config{BaseURL: DefaultBaseURL}},
		{"missing base url", Config{Token: testToken}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)

			_, err := c.FetchMessages(context.Background(), "conv-1", Options{})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "invalid API configuration", apiErr.Message)
			assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

			_, err = c.FetchDetails(context.Background(), "conv-1")
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, contextDetails, apiErr.Context)
		})
	}
}

func TestFetchDetails(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, conversationPath+"/conv-9", r.URL.Path)
		fmt.Fprint(w, `{"id":"conv-9","status":"closed","guest":{"name":"Asha"}}`)
	})

	c := New(Config{BaseURL: srv.URL, Token: testToken})
	details, err := c.FetchDetails(context.Background(), "conv-9")
	require.NoError(t, err)
	assert.Equal(t, "closed", details["status"])
}

func TestRateLimited(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"data":[]}`)
	})

	limiter := ratelimit.New(ratelimit.Config{Limit: 2, Window: time.Hour})
	c := New(Config{BaseURL: srv.URL, Token: testToken}, WithLimiter(limiter))

	for range 2 {
		_, err := c.FetchMessages(context.Background(), "conv-1", Options{})
		require.NoError(t, err)
	}
	_, err := c.FetchMessages(context.Background(), "conv-1", Options{})
	require.ErrorIs(t, err, ratelimit.ErrLimitExceeded)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, int32(2), hits.Load())

	// details use their own bucket
	_, err = c.FetchDetails(context.Background(), "conv-1")
	assert.NoError(t, err)
}

func TestReadConversationPages(t *testing.T) {
	base := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	const pageSize = 50
	total := pageSize + 3

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * pageSize
		end := min(start+pageSize, total)

		type raw struct {
			ID        string `json:"_id"`
			Role      string `json:"role"`
			Message   string `json:"message"`
			Timestamp string `json:"timestamp"`
		}
		var data []raw
		for i := start; i < end; i++ {
			role := "user"
			if i%2 == 1 {
				role = "AI"
			}
			data = append(data, raw{
				ID:        strconv.Itoa(i),
				Role:      role,
				Message:   "msg",
				Timestamp: base.Add(time.Duration(i) * time.Second).Format(time.RFC3339),
			})
		}
		assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
	})

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(Config{BaseURL: srv.URL, Token: testToken})
	c.now = func() time.Time { return now }

	conv, err := c.ReadConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conv.ID)
	assert.Equal(t, now, conv.FetchedAt)
	require.Len(t, conv.Messages, total)
	assert.Equal(t, "0", conv.Messages[0].ID)
	assert.Equal(t, strconv.Itoa(total-1), conv.Messages[total-1].ID)
}

// pageBody returns a full page of 50 user messages with IDs prefix-0..49.
func pageBody(t *testing.T, prefix string) []byte {
	t.Helper()
	var page []map[string]string
	for i := range 50 {
		page = append(page, map[string]string{
			"_id":       prefix + strconv.Itoa(i),
			"role":      "user",
			"message":   "hi",
			"timestamp": "2024-11-05T10:00:00Z",
		})
	}
	body, err := json.Marshal(map[string]any{"data": page})
	require.NoError(t, err)
	return body
}

func TestReadConversationMaxPages(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pageBody(t, "p"+r.URL.Query().Get("page")+"-"))
	})

	c := New(Config{BaseURL: srv.URL, Token: testToken, MaxPages: 3}, WithHTTPClient(srv.Client()))

	conv, err := c.ReadConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.Len(t, conv.Messages, 150)
}

func TestReadConversationRepeatedPages(t *testing.T) {
	tests := []struct {
		name     string
		pages    map[string]string // page number -> ID prefix
		wantHits int32
		wantLen  int
	}{
		{
			name:     "page parameter ignored",
			pages:    map[string]string{"1": "a", "2": "a", "3": "a"},
			wantHits: 2,
			wantLen:  50,
		},
		{
			name:     "repeat after new pages",
			pages:    map[string]string{"1": "a", "2": "b", "3": "b", "4": "c"},
			wantHits: 3,
			wantLen:  100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.Write(pageBody(t, tt.pages[r.URL.Query().Get("page")]))
			})

			c := New(Config{BaseURL: srv.URL, Token: testToken, MaxPages: 10}, WithHTTPClient(srv.Client()))

			conv, err := c.ReadConversation(context.Background(), "conv-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantHits, hits.Load())
			assert.Len(t, conv.Messages, tt.wantLen)

			ids := make(map[string]bool)
			for _, m := range conv.Messages {
				assert.False(t, ids[m.ID], "duplicate %s", m.ID)
				ids[m.ID] = true
			}
		})
	}
}

func TestRateLimitedWait(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"data":[]}`)
	})

	limiter := ratelimit.New(ratelimit.Config{Limit: 1, Window: 50 * time.Millisecond})
	c := New(Config{BaseURL: srv.URL, Token: testToken}, WithLimiter(limiter), WithWait())

	start := time.Now()
	for range 2 {
		_, err := c.FetchMessages(context.Background(), "conv-1", Options{})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, int32(2), hits.Load())

	slow := New(Config{BaseURL: srv.URL, Token: testToken},
		WithLimiter(ratelimit.New(ratelimit.Config{Limit: 1, Window: time.Hour})), WithWait())
	_, err := slow.FetchMessages(context.Background(), "conv-1", Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = slow.FetchMessages(ctx, "conv-1", Options{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFormatResponse(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, FormatResponse(nil, now))
	assert.Nil(t, FormatResponse(&MessagesResponse{}, now))

	resp := &MessagesResponse{Data: []core.Message{{ID: "a"}, {ID: "b"}}}
	f := FormatResponse(resp, now)
	require.NotNil(t, f)
	assert.Equal(t, 2, f.Metadata.TotalCount)
	assert.Equal(t, now, f.Metadata.Timestamp)
	assert.Len(t, f.Messages, 2)
}
