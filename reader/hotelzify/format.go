package hotelzify

import (
	"time"

	"github.com/sonnes/bellhop/core"
)

// Formatted is a page of messages wrapped with summary metadata.
type Formatted struct {
	Messages []core.Message `json:"messages"`
	Metadata Metadata       `json:"metadata"`
}

// Metadata describes a Formatted response.
type Metadata struct {
	TotalCount int       `json:"totalCount"`
	Timestamp  time.Time `json:"timestamp"`
}

// FormatResponse wraps resp for display. It returns nil when resp carries
// no data.
func FormatResponse(resp *MessagesResponse, now time.Time) *Formatted {
	if resp == nil || resp.Data == nil {
		return nil
	}
	return &Formatted{
		Messages: resp.Data,
		Metadata: Metadata{
			TotalCount: len(resp.Data),
			Timestamp:  now.UTC(),
		},
	}
}
