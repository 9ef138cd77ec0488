package metrics

import (
	"fmt"
	"math"

	"github.com/sonnes/bellhop/core"
)

// Automation efficiency labels.
const (
	EfficiencyOptimal  = "Optimal"
	EfficiencyHigh     = "High"
	EfficiencyGood     = "Good"
	EfficiencyModerate = "Moderate"
)

// AutomationRate returns the share of AI-authored messages as a rounded
// percentage string such as "50%".
func AutomationRate(messages []core.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}
	return formatPercent(automationPercent(messages)), nil
}

// automationPercent assumes a non-empty list.
func automationPercent(messages []core.Message) int {
	ai := 0
	for _, m := range messages {
		if m.Role == core.RoleAI {
			ai++
		}
	}
	return int(math.Round(float64(ai) / float64(len(messages)) * 100))
}

func formatPercent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// AutomationEfficiency rates an automation percentage, rewarding fully
// automated conversations that also performed actions.
func AutomationEfficiency(percent, functionCalls int) string {
	switch {
	case percent == 100 && functionCalls > 0:
		return EfficiencyOptimal
	case percent >= 90:
		return EfficiencyHigh
	case percent >= 75:
		return EfficiencyGood
	default:
		return EfficiencyModerate
	}
}
