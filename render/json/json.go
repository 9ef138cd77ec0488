// Package json renders a conversation view as JSON: the normalized
// conversation with its metrics, summary and optional analysis.
package json

import (
	"encoding/json"
	"io"

	"github.com/sonnes/bellhop/render"
)

// Renderer renders a view to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
	// MetricsOnly writes just the metrics record.
	MetricsOnly bool
}

// New creates an indented JSON Renderer.
func New() *Renderer {
	return &Renderer{Indent: true}
}

// Render implements render.Renderer.
func (r *Renderer) Render(w io.Writer, v *render.View) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	if r.MetricsOnly {
		return enc.Encode(v.Metrics)
	}
	return enc.Encode(v)
}
