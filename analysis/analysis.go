// Package analysis asks a language model for a qualitative review of a
// conversation: sales approach, response quality, customer service and the
// booking outcome.
package analysis

import (
	"context"
	"strings"

	"github.com/sonnes/bellhop/core"
)

// Analyzer produces a qualitative review of a conversation.
type Analyzer interface {
	Analyze(ctx context.Context, c *core.Conversation) (*Analysis, error)
}

// Analysis is the structured review returned by the model.
type Analysis struct {
	Metrics         []Section       `json:"metrics"`
	SalesApproach   []string        `json:"salesApproach"`
	ResponseQuality []string        `json:"responseQuality"`
	CustomerService []string        `json:"customerService"`
	BookingOutcome  *BookingOutcome `json:"bookingOutcome,omitempty"`
}

// Section is a titled list of observations.
type Section struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// BookingOutcome describes how the conversation ended commercially.
type BookingOutcome struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Quality string `json:"quality"`
}

// Label joins status and type, e.g. "Completed - Direct booking".
func (b *BookingOutcome) Label() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{b.Status, b.Type} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

// Sections returns the fixed review lists as titled sections, in display
// order, skipping empty ones.
func (a *Analysis) Sections() []Section {
	all := []Section{
		{Title: "Sales Approach", Points: a.SalesApproach},
		{Title: "Response Quality", Points: a.ResponseQuality},
		{Title: "Customer Service", Points: a.CustomerService},
	}
	out := all[:0]
	for _, s := range all {
		if len(s.Points) > 0 {
			out = append(out, s)
		}
	}
	return out
}
