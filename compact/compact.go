// Package compact provides a Transformer that replaces verbose function-call
// payloads with short summaries for compact conversation viewing.
package compact

import (
	"fmt"
	"strings"

	"github.com/sonnes/bellhop/core"
)

// Config controls the compact transformer behavior.
type Config struct {
	// DropArguments removes function-call arguments entirely.
	DropArguments bool
	// MaxTextLines truncates longer message text. Zero keeps all lines.
	MaxTextLines int
}

// Compactor replaces verbose function-call content with size summaries.
type Compactor struct {
	dropArguments bool
	maxTextLines  int
}

// New creates a Compactor from the given config.
func New(cfg Config) *Compactor {
	return &Compactor{dropArguments: cfg.DropArguments, maxTextLines: cfg.MaxTextLines}
}

// Transform implements core.Transformer.
func (c *Compactor) Transform(conv *core.Conversation) error {
	for i := range conv.Messages {
		c.compactMessage(&conv.Messages[i])
	}
	return nil
}

func (c *Compactor) compactMessage(m *core.Message) {
	if c.maxTextLines > 0 {
		m.Text = truncateLines(m.Text, c.maxTextLines)
	}
	if countLines(m.Error) > 1 {
		m.Error = lineSummary("error", m.Error)
	}
	if m.FunctionCall == nil {
		return
	}
	if c.dropArguments {
		m.FunctionCall.Arguments = nil
	}
	m.FunctionCall.Output = summarize("output", m.FunctionCall.Output)
}

// summarize returns a one-line description of v's size, or nil for nil.
func summarize(label string, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return lineSummary(label, val)
	case map[string]any:
		return countSummary(label, len(val), "field")
	case []any:
		return countSummary(label, len(val), "item")
	default:
		return fmt.Sprintf("[%s: %v]", label, val)
	}
}

func countSummary(label string, n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("[%s: 1 %s]", label, noun)
	}
	return fmt.Sprintf("[%s: %d %ss]", label, n, noun)
}

// lineSummary returns a summary like "[output: 245 lines]" or "[error: 12 lines]".
func lineSummary(label, s string) string {
	return countSummary(label, countLines(s), "line")
}

// truncateLines keeps the first limit lines of s and notes how many were cut.
func truncateLines(s string, limit int) string {
	n := countLines(s)
	if n <= limit {
		return s
	}
	lines := strings.SplitN(s, "\n", limit+1)
	return strings.Join(lines[:limit], "\n") + fmt.Sprintf("\n[+%d more lines]", n-limit)
}

// countLines returns the number of lines in s.
// An empty string has 0 lines. A string with no newline has 1 line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}
