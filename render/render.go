// Package render defines the interface for rendering a conversation together
// with its metrics into various output formats.
package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sonnes/bellhop/analysis"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
)

// View is everything a renderer needs for one conversation. Metrics and
// Summary are nil when the conversation has no messages; Analysis is nil
// unless a model review was requested.
type View struct {
	Conversation *core.Conversation      `json:"conversation"`
	Metrics      *metrics.Record         `json:"metrics,omitempty"`
	Summary      *metrics.Summary        `json:"summary,omitempty"`
	Analysis     *analysis.Analysis      `json:"analysis,omitempty"`
	Scores       []metrics.CategoryScore `json:"categoryScores,omitempty"`

	// Location groups the timeline by calendar date. Defaults to UTC.
	Location *time.Location `json:"-"`
}

// Renderer writes a view to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, v *View) error
}

// NewView computes metrics for c with engine. Metrics always see the messages
// as read; transformers run on a copy that becomes the displayed
// Conversation, leaving c untouched. An empty conversation yields a view
// without metrics so renderers can show a fallback state; any other metrics
// failure is returned.
func NewView(c *core.Conversation, engine *metrics.Engine, transformers ...core.Transformer) (*View, error) {
	v := &View{Conversation: c}
	if len(transformers) > 0 {
		display := c.Clone()
		if err := core.Chain(display, transformers...); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		v.Conversation = display
	}
	if len(c.Messages) == 0 {
		return v, nil
	}

	rec, err := engine.Compute(c.Messages)
	if errors.Is(err, metrics.ErrEmptyConversation) {
		return v, nil
	}
	if err != nil {
		return nil, err
	}
	sum, err := engine.Summarize(c.Messages)
	if err != nil {
		return nil, err
	}

	v.Metrics = rec
	v.Summary = sum
	v.Scores = metrics.Scores(c.Messages)
	return v, nil
}

// Loc returns the timeline location.
func (v *View) Loc() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// HasMetrics reports whether metrics were computed.
func (v *View) HasMetrics() bool {
	return v.Metrics != nil
}
