package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/bellhop/core"
)

func testRenderer() *Renderer {
	return New()
}

func TestRenderTextMarkdown(t *testing.T) {
	r := testRenderer()
	tests := []struct {
		name     string
		msg      core.Message
		contains []string
	}{
		{
			name:     "bold text",
			msg:      core.Message{Role: core.RoleAI, Text: "Hello **world**"},
			contains: []string{"<strong>world</strong>", `class="prose`},
		},
		{
			name:     "inline code",
			msg:      core.Message{Role: core.RoleAI, Text: "Use code `WELCOME10` at checkout."},
			contains: []string{"<code>WELCOME10</code>"},
		},
		{
			name:     "list",
			msg:      core.Message{Role: core.RoleOwner, Text: "Options:\n\n- Deluxe\n- Suite"},
			contains: []string{"<li>Deluxe</li>", "<li>Suite</li>"},
		},
		{
			name:     "widget html stripped",
			msg:      core.Message{Role: core.RoleAI, Text: "Rooms<br>from <span class=\"x\">₹5,000</span>"},
			contains: []string{"Rooms", "₹5,000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.renderText(tt.msg)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, string(out), s)
			}
			assert.NotContains(t, string(out), "<span")
		})
	}
}

func TestRenderTextGuest(t *testing.T) {
	r := testRenderer()

	out, err := r.renderText(core.Message{Role: core.RoleUser, Text: "Is **this** bold?"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "whitespace-pre-wrap")
	assert.Contains(t, string(out), "**this**")

	out, err = r.renderText(core.Message{Role: core.RoleUser, Text: "  "})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderFunctionCall(t *testing.T) {
	r := testRenderer()

	t.Run("arguments and output", func(t *testing.T) {
		out := string(r.renderFunctionCall(&core.FunctionCall{
			Name:      "get_rates",
			Arguments: map[string]any{"room_type": "Deluxe"},
			Output:    map[string]any{"rate": 6500.0},
		}))
		assert.Contains(t, out, "GET_RATES")
		assert.Contains(t, out, "Arguments")
		assert.Contains(t, out, "Deluxe")
		assert.Contains(t, out, "Output")
		assert.Contains(t, out, "6500")
		assert.Contains(t, out, "<pre")
	})

	t.Run("string output", func(t *testing.T) {
		out := string(r.renderFunctionCall(&core.FunctionCall{Name: "notify", Output: "sent"}))
		assert.NotContains(t, out, "Arguments")
		assert.Contains(t, out, "sent")
	})

	t.Run("name escaped", func(t *testing.T) {
		out := string(r.renderFunctionCall(&core.FunctionCall{Name: "<x>"}))
		assert.Contains(t, out, "&lt;X&gt;")
	})
}

func TestRenderBooking(t *testing.T) {
	out := string(renderBooking(&core.FunctionCall{
		Name:   "booking",
		Output: map[string]any{"data": map[string]any{"bookingId": "BK-1"}},
	}))
	assert.Contains(t, out, "Completed Reservation")
	assert.Contains(t, out, "BK-1")

	out = string(renderBooking(&core.FunctionCall{Name: "booking", Output: map[string]any{}}))
	assert.Contains(t, out, "Completed Reservation")
	assert.NotContains(t, out, "font-mono")
}

func TestRenderError(t *testing.T) {
	out := string(renderError("payment <declined>"))
	assert.Contains(t, out, "border-red-500")
	assert.Contains(t, out, "payment &lt;declined&gt;")
}

func TestFormatJSON(t *testing.T) {
	assert.Equal(t, "plain", formatJSON("plain"))
	assert.Equal(t, "{\n  \"a\": 1\n}", formatJSON(map[string]any{"a": 1}))
}
