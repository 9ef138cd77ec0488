// Package html renders conversations as standalone HTML pages styled with
// Tailwind CSS v4 (CDN) and syntax highlighting via goldmark + chroma.
package html

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/manifest"
	"github.com/sonnes/bellhop/render"
)

// Renderer renders a conversation view to a standalone HTML page.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template

	// ConversationHref, when non-nil, overrides the entry href on the index
	// page. Used by the serve command to generate server-routed URLs.
	ConversationHref func(id string) string
}

// New creates an HTML Renderer with goldmark configured for GFM and syntax
// highlighting. Raw HTML in message text is not passed through.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
				),
			),
		),
	)

	tmpl := template.Must(
		template.New("page.html").
			Funcs(funcMap()).
			ParseFS(content, "templates/*.html"),
	)

	return &Renderer{md: md, tmpl: tmpl}
}

// pageData is the top-level template data passed to page.html.
type pageData struct {
	View   *render.View
	Title  string
	Groups []groupData
}

// groupData is one calendar date of the timeline.
type groupData struct {
	Label    string
	Messages []messageData
}

// messageData is the per-message template data.
type messageData struct {
	ID          string // anchor ID, e.g. "msg-0"
	Message     core.Message
	RoleLabel   string
	BorderClass string
	BadgeClass  string
	Time        string
	Gap         string // time since previous message, e.g. "4s"
	Body        template.HTML
	Call        template.HTML
	Booking     template.HTML
	Error       template.HTML
}

// indexData is the template data passed to index.html.
type indexData struct {
	Entries []indexEntry
}

type indexEntry struct {
	manifest.Entry
	Link string
}

// RenderIndex writes an HTML index page listing the given entries to w.
// Entries are sorted newest-first by StartedAt.
func (r *Renderer) RenderIndex(w io.Writer, entries []manifest.Entry) error {
	sorted := make([]manifest.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	data := indexData{Entries: make([]indexEntry, 0, len(sorted))}
	for _, e := range sorted {
		link := e.Href
		if r.ConversationHref != nil {
			link = r.ConversationHref(e.ConversationID)
		}
		data.Entries = append(data.Entries, indexEntry{Entry: e, Link: link})
	}
	return r.tmpl.ExecuteTemplate(w, "index.html", data)
}

// Render writes the view as a complete HTML page to w.
func (r *Renderer) Render(w io.Writer, v *render.View) error {
	c := v.Conversation
	loc := v.Loc()

	var groups []groupData
	var prev time.Time
	idx := 0
	for _, g := range core.GroupByDate(c.Messages, loc) {
		gd := groupData{Label: g.Label}
		for _, msg := range g.Messages {
			md, err := r.buildMessage(idx, msg, c.HotelName, loc)
			if err != nil {
				return fmt.Errorf("render message %d: %w", idx, err)
			}
			if !msg.Timestamp.IsZero() && !prev.IsZero() {
				md.Gap = core.FormatDuration(msg.Timestamp.Sub(prev))
			}
			if !msg.Timestamp.IsZero() {
				prev = msg.Timestamp
			}
			gd.Messages = append(gd.Messages, md)
			idx++
		}
		groups = append(groups, gd)
	}

	data := pageData{
		View:   v,
		Title:  c.Title(),
		Groups: groups,
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

func (r *Renderer) buildMessage(i int, msg core.Message, hotelName string, loc *time.Location) (messageData, error) {
	md := messageData{
		ID:          fmt.Sprintf("msg-%d", i),
		Message:     msg,
		RoleLabel:   core.RoleLabel(msg.Role, hotelName),
		BorderClass: borderClass(msg.Role),
		BadgeClass:  badgeClass(msg.Role),
	}
	if !msg.Timestamp.IsZero() {
		md.Time = formatClock(msg.Timestamp.In(loc))
	}

	body, err := r.renderText(msg)
	if err != nil {
		return md, err
	}
	md.Body = body

	if fc := msg.FunctionCall; fc != nil {
		md.Call = r.renderFunctionCall(fc)
		if fc.IsBooking() {
			md.Booking = renderBooking(fc)
		}
	}
	if msg.Error != "" {
		md.Error = renderError(strings.TrimSpace(msg.Error))
	}
	return md, nil
}

func borderClass(role core.Role) string {
	switch role {
	case core.RoleUser:
		return "border-l-4 border-l-blue-500"
	case core.RoleAI:
		return "border-l-4 border-l-emerald-500"
	case core.RoleOwner:
		return "border-l-4 border-l-amber-500"
	default:
		return ""
	}
}

func badgeClass(role core.Role) string {
	switch role {
	case core.RoleUser:
		return "text-blue-700 dark:text-blue-400 bg-blue-50 dark:bg-blue-950"
	case core.RoleAI:
		return "text-emerald-700 dark:text-emerald-400 bg-emerald-50 dark:bg-emerald-950"
	case core.RoleOwner:
		return "text-amber-700 dark:text-amber-400 bg-amber-50 dark:bg-amber-950"
	default:
		return ""
	}
}
