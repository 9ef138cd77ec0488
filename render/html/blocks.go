package html

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/sonnes/bellhop/core"
)

// renderText converts a message body to HTML. Assistant and agent replies
// are rendered as markdown; guest text is escaped verbatim.
func (r *Renderer) renderText(msg core.Message) (template.HTML, error) {
	text := core.CleanText(msg.Text)
	if text == "" {
		return "", nil
	}
	if msg.Role == core.RoleUser {
		escaped := template.HTMLEscapeString(text)
		return template.HTML(`<p class="whitespace-pre-wrap text-sm">` + escaped + `</p>`), nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return template.HTML(`<div class="prose prose-sm dark:prose-invert max-w-none">` + buf.String() + `</div>`), nil
}

// renderFunctionCall renders a function call card with highlighted arguments
// and output.
func (r *Renderer) renderFunctionCall(fc *core.FunctionCall) template.HTML {
	var sections []string
	if len(fc.Arguments) > 0 {
		sections = append(sections, r.renderJSONSection("Arguments", fc.Arguments))
	}
	if fc.Output != nil {
		sections = append(sections, r.renderJSONSection("Output", fc.Output))
	}

	name := template.HTMLEscapeString(strings.ToUpper(fc.Name))
	h := `<div class="bg-slate-50 dark:bg-slate-900 border border-slate-200 dark:border-slate-700 rounded-lg overflow-hidden">` +
		`<div class="px-4 py-2 flex items-center gap-2 text-slate-900 dark:text-white">` +
		`<span class="text-xs">&#9881;</span>` +
		`<span class="text-xs font-semibold font-mono">` + name + `</span>` +
		`</div>` +
		strings.Join(sections, "") +
		`</div>`
	return template.HTML(h)
}

// renderJSONSection renders v as a highlighted JSON code block, falling back
// to an escaped <pre> when highlighting fails.
func (r *Renderer) renderJSONSection(label string, v any) string {
	body := formatJSON(v)
	header := `<div class="border-t border-slate-200 dark:border-slate-700 px-4 pt-2 text-[10px] uppercase tracking-wide text-slate-400">` + label + `</div>`

	var buf bytes.Buffer
	fenced := "```json\n" + body + "\n```"
	if err := r.md.Convert([]byte(fenced), &buf); err != nil {
		return header + `<pre class="px-4 py-3 text-xs font-mono overflow-x-auto">` + template.HTMLEscapeString(body) + `</pre>`
	}
	return header + `<div class="px-4 py-2 text-xs overflow-x-auto max-h-96 overflow-y-auto">` + buf.String() + `</div>`
}

// renderBooking renders the completed reservation card for a booking call.
func renderBooking(fc *core.FunctionCall) template.HTML {
	id := fc.BookingID()
	detail := ""
	if id != "" {
		detail = `<span class="ml-auto text-xs font-mono">` + template.HTMLEscapeString(id) + `</span>`
	}
	h := `<div class="rounded-lg border border-emerald-300 dark:border-emerald-700 bg-emerald-50 dark:bg-emerald-950 px-4 py-2 flex items-center gap-2 text-emerald-700 dark:text-emerald-400">` +
		`<span class="text-sm">&#10003;</span>` +
		`<span class="text-xs font-semibold">Completed Reservation</span>` +
		detail +
		`</div>`
	return template.HTML(h)
}

// renderError renders a failed-action notice.
func renderError(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	h := `<pre class="text-xs font-mono rounded p-3 overflow-x-auto border-l-4 border-red-500 bg-red-50 dark:bg-red-950 text-red-700 dark:text-red-400">` + escaped + `</pre>`
	return template.HTML(h)
}

func formatJSON(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
