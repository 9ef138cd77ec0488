// Generates an example conversation page and writes it to stdout.
// Usage: go run ./render/html/cmd/example > example.html
package main

import (
	"os"
	"time"

	"github.com/sonnes/bellhop/analysis"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/render"
	htmlrender "github.com/sonnes/bellhop/render/html"
)

func main() {
	now := time.Date(2024, 12, 18, 18, 30, 0, 0, time.UTC)

	c := &core.Conversation{
		ID:        "675f2a1c9e4b2d0012a7c3f1",
		HotelName: "Sea View Resort",
		FetchedAt: now.Add(time.Hour),
		Messages: []core.Message{
			{Role: core.RoleUser, Text: "Hi! Do you have a sea-facing room for 2 nights from Dec 20?", Timestamp: now},
			{
				Role:      core.RoleAI,
				Text:      "Let me check availability for **Dec 20 - Dec 22**.",
				Timestamp: now.Add(3 * time.Second),
				FunctionCall: &core.FunctionCall{
					Name:      "check_availability",
					Arguments: map[string]any{"check_in": "2024-12-20", "check_out": "2024-12-22", "room_type": "Sea View Deluxe"},
					Output:    map[string]any{"available": true, "rate": 6500.0, "currency": "INR"},
				},
			},
			{Role: core.RoleAI, Text: "Good news! The Sea View Deluxe is available at ₹6,500 per night.", Timestamp: now.Add(5 * time.Second)},
			{Role: core.RoleUser, Text: "Great, please book it for Asha Rao.", Timestamp: now.Add(40 * time.Second)},
			{
				Role:      core.RoleAI,
				Text:      "Your reservation is confirmed. Thank you for choosing us!",
				Timestamp: now.Add(44 * time.Second),
				FunctionCall: &core.FunctionCall{
					Name:      "booking",
					Arguments: map[string]any{"guest_name": "Asha Rao", "room_type": "Sea View Deluxe", "check_in": "2024-12-20", "check_out": "2024-12-22"},
					Output:    map[string]any{"data": map[string]any{"bookingId": "BK-20241220-01", "status": "confirmed"}},
				},
			},
			{Role: core.RoleUser, Text: "Thanks, that was quick!", Timestamp: now.Add(time.Minute)},
			{
				Role:      core.RoleAI,
				Text:      "We've sent the confirmation to your email.",
				Timestamp: now.Add(time.Minute + 2*time.Second),
				Error:     "email gateway timeout",
			},
			{Role: core.RoleOwner, Text: "Hi Asha, I've resent the confirmation manually. See you on the 20th!", Timestamp: now.Add(26 * time.Hour)},
		},
	}

	v, err := render.NewView(c, metrics.NewEngine(metrics.StrategyAdjacent))
	if err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
	v.Analysis = &analysis.Analysis{
		SalesApproach:   []string{"Confirmed dates and room preference before quoting", "Quoted the nightly rate up front"},
		ResponseQuality: []string{"Replies arrived within seconds", "Booking details were repeated back to the guest"},
		CustomerService: []string{"Human agent followed up after the email failure"},
		BookingOutcome:  &analysis.BookingOutcome{Status: "Completed", Type: "Direct booking", Quality: "Smooth, single-pass booking"},
	}

	r := htmlrender.New()
	if err := r.Render(os.Stdout, v); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
