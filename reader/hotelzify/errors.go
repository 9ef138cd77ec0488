package hotelzify

import (
	"fmt"
	"time"
)

// APIError is the structured failure returned by every Client call.
type APIError struct {
	Message   string    `json:"message"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Data      any       `json:"data,omitempty"` // decoded response body, when there was one

	Err error `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Context, e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
