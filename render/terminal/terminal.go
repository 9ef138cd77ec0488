// Package terminal renders a conversation as ANSI-colored metric cards and a
// message timeline.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/sonnes/bellhop/analysis"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/render"
)

const defaultWidth = 100

// Renderer pretty-prints a conversation view to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int
	// MetricsOnly skips the message timeline.
	MetricsOnly bool
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the view as ANSI-colored cards and message blocks to w.
func (r *Renderer) Render(w io.Writer, v *render.View) error {
	width := r.termWidth()
	c := v.Conversation

	writeHeader(w, c)
	fmt.Fprintln(w)

	if v.HasMetrics() {
		writeCards(w, v.Metrics)
		writeIndicators(w, v.Metrics)
	} else {
		fmt.Fprintln(w, styleMeta.Render("  No metrics available for this conversation."))
	}
	if v.Summary != nil {
		writeSummary(w, v.Summary)
	}
	if v.Analysis != nil {
		writeAnalysis(w, v.Analysis)
	}

	if !r.MetricsOnly {
		writeTimeline(w, c, v.Loc(), width)
	}

	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// writeHeader renders the conversation title and fetch metadata.
func writeHeader(w io.Writer, c *core.Conversation) {
	fmt.Fprintln(w, styleTitle.Render(c.Title()))

	parts := []string{fmt.Sprintf("%s messages", core.FormatNumber(len(c.Messages)))}
	first, last := c.Bounds()
	if !first.IsZero() && !last.IsZero() {
		parts = append(parts, core.FormatDuration(last.Sub(first)))
	}
	if !c.FetchedAt.IsZero() {
		parts = append(parts, "fetched "+core.RelativeTime(c.FetchedAt))
	}
	fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
}

// writeCards renders the four headline metrics as bordered cards.
func writeCards(w io.Writer, rec *metrics.Record) {
	type card struct {
		value string
		label string
	}
	cards := []card{
		{rec.ResponseTimeLabel(), "Response Time"},
		{core.FormatNumber(rec.TotalMessages), "Messages"},
		{rec.AutomationRate, "Automation"},
		{string(rec.Category), "Category"},
	}

	boxes := make([]string, 0, len(cards))
	for _, c := range cards {
		colWidth := max(lipgloss.Width(c.value), lipgloss.Width(c.label))
		body := styleStat.Width(colWidth).Render(c.value) + "\n" + styleStatLabel.Width(colWidth).Render(c.label)
		boxes = append(boxes, styleCard.Render(body))
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

// writeIndicators renders the secondary ratings under the cards.
func writeIndicators(w io.Writer, rec *metrics.Record) {
	rows := [][2]string{
		{"Quality", fmt.Sprintf("%s (%.1f)", rec.Quality.Rating, rec.Quality.Score)},
		{"Response speed", rec.Performance.ResponseSpeed},
		{"Automation", rec.Performance.AutomationEfficiency},
		{"Duration", fmt.Sprintf("%dm %ds", rec.Duration.Minutes, rec.Duration.Seconds%60)},
		{"Messages", fmt.Sprintf("%d guest · %d AI · %d agent", rec.Distribution.User, rec.Distribution.AI, rec.Distribution.Owner)},
		{"Functions", functionLine(rec.FunctionMetrics)},
	}
	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row[0]))
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s  %s\n", styleStatLabel.Render(fmt.Sprintf("%-*s", labelWidth, row[0])), row[1])
	}
}

func functionLine(fm metrics.FunctionMetrics) string {
	if fm.TotalCalls == 0 {
		return "none"
	}
	return fmt.Sprintf("%d calls, %d unique (%s)", fm.TotalCalls, fm.UniqueFunctionCount, strings.Join(fm.FunctionsUsed, ", "))
}

// writeSummary renders the conversation summary panel.
func writeSummary(w io.Writer, s *metrics.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+styleHeading.Render("Conversation Summary"))
	fmt.Fprintf(w, "  %s AI responses, %d%% with function calls\n", core.FormatNumber(s.AIResponses), s.FunctionalShare)
	fmt.Fprintf(w, "  %d guest turns, %d answered by staff\n", s.Turns, s.Handoffs)
	if len(s.TopFunctions) > 0 {
		names := make([]string, 0, len(s.TopFunctions))
		for _, f := range s.TopFunctions {
			names = append(names, fmt.Sprintf("%s ×%d", f.Name, f.Count))
		}
		fmt.Fprintf(w, "  %s %s\n", styleStatLabel.Render("Top functions:"), strings.Join(names, ", "))
	}
	for _, h := range s.Highlights {
		fmt.Fprintf(w, "  %s %s\n", styleCheck.Render("✓"), h)
	}
}

// writeAnalysis renders the model review sections and booking outcome.
func writeAnalysis(w io.Writer, a *analysis.Analysis) {
	sections := append([]analysis.Section{}, a.Metrics...)
	sections = append(sections, a.Sections()...)
	for _, s := range sections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " "+styleHeading.Render(s.Title))
		for _, p := range s.Points {
			fmt.Fprintf(w, "  • %s\n", p)
		}
	}
	if b := a.BookingOutcome; b != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " "+styleHeading.Render("Booking Outcome"))
		if label := b.Label(); label != "" {
			fmt.Fprintln(w, "  "+label)
		}
		if b.Quality != "" {
			fmt.Fprintln(w, "  "+styleMeta.Render(b.Quality))
		}
	}
}

// writeTimeline renders messages grouped under calendar date separators.
func writeTimeline(w io.Writer, c *core.Conversation, loc *time.Location, width int) {
	var prev time.Time
	for _, group := range core.GroupByDate(c.Messages, loc) {
		writeSeparator(w, width)
		fmt.Fprintln(w, " "+styleDate.Render(group.Label))
		for _, msg := range group.Messages {
			var gap string
			if !msg.Timestamp.IsZero() && !prev.IsZero() {
				gap = core.FormatDuration(msg.Timestamp.Sub(prev))
			}
			if !msg.Timestamp.IsZero() {
				prev = msg.Timestamp
			}
			writeMessage(w, msg, c.HotelName, loc, gap, width)
		}
	}
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

// writeMessage renders a single message block: role badge, metadata, text,
// and any function call, booking or error lines.
func writeMessage(w io.Writer, msg core.Message, hotelName string, loc *time.Location, gap string, width int) {
	contentWidth := width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var lines []string
	if text := core.CleanText(msg.Text); text != "" {
		wrapped := lipgloss.NewStyle().Width(contentWidth).Render(text)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	if fc := msg.FunctionCall; fc != nil {
		name := strings.ToUpper(fc.Name)
		toolLine := styleToolName.Render("⚙ " + name)
		if summary := extractArgumentSummary(strings.ToLower(fc.Name), fc.Arguments); summary != "" {
			nameWidth := lipgloss.Width("⚙ " + name + "  ")
			toolLine += "  " + styleToolDetail.Render(truncate(summary, contentWidth-nameWidth))
		}
		lines = append(lines, toolLine)
		if fc.IsBooking() {
			booking := styleBooking.Render("✓ Completed Reservation")
			if id := fc.BookingID(); id != "" {
				booking += "  " + styleToolDetail.Render(id)
			}
			lines = append(lines, booking)
		}
	}
	if msg.Error != "" {
		lines = append(lines, styleError.Render("✗ "+truncate(msg.Error, contentWidth-2)))
	}

	if len(lines) == 0 {
		return
	}

	header := roleBadge(msg.Role, hotelName)
	var metaParts []string
	if !msg.Timestamp.IsZero() {
		metaParts = append(metaParts, formatTime(msg.Timestamp.In(loc)))
	}
	if gap != "" {
		metaParts = append(metaParts, "+"+gap)
	}
	if len(metaParts) > 0 {
		header += "    " + styleMeta.Render(strings.Join(metaParts, "    "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+header)

	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
}

func roleBadge(role core.Role, hotelName string) string {
	label := core.RoleLabel(role, hotelName)
	switch role {
	case core.RoleUser:
		return styleGuestBadge.Render(label)
	case core.RoleAI:
		return styleAIBadge.Render(label)
	case core.RoleOwner:
		return styleOwnerBadge.Render(label)
	default:
		return styleMeta.Render(label)
	}
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func formatTime(t time.Time) string {
	return t.Format("3:04 PM")
}
