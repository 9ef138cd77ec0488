package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sonnes/bellhop/core"
)

const systemPrompt = "You review hotel booking chatbot conversations. Reply with a single JSON object and nothing else."

const promptTemplate = `Analyze this hotel booking conversation and provide:
1. Key success metrics
2. Sales approach characteristics
3. Response quality assessment
4. Customer service evaluation
5. Booking outcome analysis

Conversation:
%s

Format the response as JSON with the following structure:
{
  "metrics": [{"title": "string", "points": ["string"]}],
  "salesApproach": ["string"],
  "responseQuality": ["string"],
  "customerService": ["string"],
  "bookingOutcome": {"status": "string", "type": "string", "quality": "string"}
}`

// promptMessage is the trimmed view of a message sent to the model.
type promptMessage struct {
	Role         string             `json:"role"`
	Message      string             `json:"message"`
	Timestamp    string             `json:"timestamp,omitempty"`
	FunctionCall *core.FunctionCall `json:"function_call,omitempty"`
	Error        string             `json:"error,omitempty"`
}

func buildPrompt(c *core.Conversation) (string, error) {
	msgs := make([]promptMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		pm := promptMessage{
			Role:         string(m.Role),
			Message:      core.CleanText(m.Text),
			FunctionCall: m.FunctionCall,
			Error:        m.Error,
		}
		if !m.Timestamp.IsZero() {
			pm.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
		}
		msgs = append(msgs, pm)
	}

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode conversation: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data), nil
}
