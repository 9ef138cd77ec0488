// Package hotelzify fetches chatbot widget conversations from the Hotelzify
// API.
package hotelzify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/ratelimit"
	"github.com/sonnes/bellhop/reader"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.hotelzify.com"

const (
	messagesPath     = "/hotel/authorised/v1/chatbot-widget/messages"
	conversationPath = "/hotel/authorised/v1/chatbot-widget/conversation"

	contextMessages = "fetchConversationData"
	contextDetails  = "fetchConversationDetails"
)

// SortOrder is the timestamp order of returned messages.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Options controls paging and ordering for FetchMessages.
type Options struct {
	PageSize  int
	Page      int
	SortOrder SortOrder
}

// DefaultOptions returns the first page of 50 messages, oldest first.
func DefaultOptions() Options {
	return Options{PageSize: 50, Page: 1, SortOrder: SortAsc}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PageSize <= 0 {
		o.PageSize = def.PageSize
	}
	if o.Page <= 0 {
		o.Page = def.Page
	}
	if o.SortOrder != SortDesc {
		o.SortOrder = SortAsc
	}
	return o
}

// Config holds connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// MaxPages bounds how many pages ReadConversation follows.
	MaxPages int
}

// Client talks to the chatbot widget endpoints. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	wait       bool
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter throttles requests through l. Each endpoint is its own key.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithWait makes a limited client block until a token is free instead of
// failing with a 429 APIError. The wait is bounded by the request context.
func WithWait() Option {
	return func(c *Client) { c.wait = true }
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ reader.Reader = (*Client)(nil)

// MessagesResponse is a page of messages.
type MessagesResponse struct {
	Data      []core.Message `json:"data"`
	HotelName string         `json:"hotel_name,omitempty"`
}

// FetchMessages fetches one page of messages, sorted by timestamp in the
// requested order. Errors are always *APIError.
func (c *Client) FetchMessages(ctx context.Context, conversationID string, opts Options) (*MessagesResponse, error) {
	opts = opts.withDefaults()

	q := url.Values{}
	q.Set("conversationId", conversationID)
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("pageSize", strconv.Itoa(opts.PageSize))

	var payload reader.Payload
	if err := c.get(ctx, contextMessages, messagesPath+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	conv := reader.BuildConversation(conversationID, payload.Data)
	if opts.SortOrder == SortDesc {
		reader.SortMessages(conv.Messages, true)
	}
	return &MessagesResponse{Data: conv.Messages, HotelName: conv.HotelName}, nil
}

// FetchDetails fetches conversation metadata as untyped JSON.
func (c *Client) FetchDetails(ctx context.Context, conversationID string) (map[string]any, error) {
	var details map[string]any
	path := conversationPath + "/" + url.PathEscape(conversationID)
	if err := c.get(ctx, contextDetails, path, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// ReadConversation fetches every page of a conversation, oldest message
// first. Messages already seen by ID are dropped, so an endpoint that
// ignores the page parameter cannot duplicate them. Paging stops at the
// first short page, a page with nothing new, or after MaxPages.
func (c *Client) ReadConversation(ctx context.Context, id string) (*core.Conversation, error) {
	opts := DefaultOptions()
	conv := &core.Conversation{ID: id, FetchedAt: c.now()}
	seen := make(map[string]bool)

	for page := 1; page <= c.cfg.MaxPages; page++ {
		opts.Page = page
		resp, err := c.FetchMessages(ctx, id, opts)
		if err != nil {
			return nil, err
		}
		if conv.HotelName == "" {
			conv.HotelName = resp.HotelName
		}

		added := 0
		for _, m := range resp.Data {
			if m.ID != "" {
				if seen[m.ID] {
					continue
				}
				seen[m.ID] = true
			}
			conv.Messages = append(conv.Messages, m)
			added++
		}
		if added < len(resp.Data) {
			log.Warn("dropped repeated messages", "conversation_id", id, "page", page, "dropped", len(resp.Data)-added)
		}
		if len(resp.Data) < opts.PageSize || added == 0 {
			break
		}
	}

	reader.SortMessages(conv.Messages, false)
	return conv, nil
}

func (c *Client) get(ctx context.Context, opContext, path string, out any) error {
	if c.cfg.BaseURL == "" || c.cfg.Token == "" {
		return c.fail(&APIError{
			Message: "invalid API configuration",
			Context: opContext,
			Status:  http.StatusInternalServerError,
		})
	}

	call := func(ctx context.Context) error {
		return c.do(ctx, opContext, path, out)
	}
	if c.limiter == nil {
		return call(ctx)
	}
	if c.wait {
		if err := c.limiter.Wait(ctx, opContext); err != nil {
			return c.fail(&APIError{
				Message: "rate limit wait: " + err.Error(),
				Context: opContext,
				Status:  http.StatusTooManyRequests,
				Err:     err,
			})
		}
		return call(ctx)
	}

	err := c.limiter.Do(ctx, opContext, call)
	var apiErr *APIError
	switch {
	case err == nil || errors.As(err, &apiErr):
		return err
	case errors.Is(err, ratelimit.ErrLimitExceeded):
		return c.fail(&APIError{
			Message: "rate limit exceeded, try again later",
			Context: opContext,
			Status:  http.StatusTooManyRequests,
			Err:     err,
		})
	default:
		return c.fail(&APIError{Message: err.Error(), Context: opContext, Status: http.StatusInternalServerError, Err: err})
	}
}

func (c *Client) do(ctx context.Context, opContext, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return c.fail(&APIError{Message: fmt.Sprintf("create request: %v", err), Context: opContext, Status: http.StatusInternalServerError, Err: err})
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(&APIError{Message: err.Error(), Context: opContext, Status: http.StatusInternalServerError, Err: err})
	}
	defer resp.Body.Close()

	log.Debug("api request", "context", opContext, "status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(&APIError{Message: fmt.Sprintf("read response: %v", err), Context: opContext, Status: resp.StatusCode, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(&APIError{
			Message: fmt.Sprintf("HTTP error, status %d", resp.StatusCode),
			Context: opContext,
			Status:  resp.StatusCode,
			Data:    decodeBody(body),
		})
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(&APIError{Message: fmt.Sprintf("decode response: %v", err), Context: opContext, Status: resp.StatusCode, Err: err})
	}
	return nil
}

// fail stamps and logs an API error before it is returned.
func (c *Client) fail(e *APIError) *APIError {
	if e.Timestamp.IsZero() {
		e.Timestamp = c.now().UTC()
	}
	log.Error("api error", "context", e.Context, "status", e.Status, "message", e.Message)
	return e
}

func decodeBody(body []byte) any {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}
