package metrics

import (
	"math"

	"github.com/sonnes/bellhop/core"
)

// fastResponseSeconds is the average latency under which response
// performance is called out as excellent.
const fastResponseSeconds = 3.0

const topFunctionLimit = 3

// Summary is the reduced view shown on the analysis panel.
type Summary struct {
	TotalMessages          int             `json:"totalMessages"`
	AIResponses            int             `json:"aiResponses"`
	FunctionalResponses    int             `json:"functionalResponses"`
	UniqueFunctionCount    int             `json:"uniqueFunctionCount"`
	AvgResponseTimeSeconds float64         `json:"avgResponseTimeSeconds"`
	AutomationRate         string          `json:"automationRate"`
	FunctionalShare        int             `json:"functionalShare"` // % of AI responses that ran a function
	TopFunctions           []FunctionCount `json:"topFunctions"`
	Highlights             []string        `json:"highlights"`
	Turns                  int             `json:"turns"`
	Handoffs               int             `json:"handoffs"` // turns where staff replied
}

// FastResponses reports whether the average latency is under three seconds.
func (s *Summary) FastResponses() bool {
	return s.AvgResponseTimeSeconds < fastResponseSeconds
}

// Summarize builds the analysis-panel view with the same pairing strategy
// and counting rules as Compute.
func (e *Engine) Summarize(messages []core.Message) (*Summary, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyConversation
	}

	avg, err := ResponseTime(messages, e.strategy())
	if err != nil {
		return nil, err
	}

	fm := Functions(messages)
	dist := distribution(messages)
	s := &Summary{
		TotalMessages:          len(messages),
		AIResponses:            dist.AI,
		FunctionalResponses:    fm.TotalCalls,
		UniqueFunctionCount:    fm.UniqueFunctionCount,
		AvgResponseTimeSeconds: avg,
		AutomationRate:         formatPercent(automationPercent(messages)),
		TopFunctions:           TopFunctions(messages, topFunctionLimit),
	}
	for _, t := range core.GroupTurns(messages) {
		if t.GuestMessage == nil {
			continue
		}
		s.Turns++
		if t.HandedOff() {
			s.Handoffs++
		}
	}
	if dist.AI > 0 {
		s.FunctionalShare = int(math.Round(float64(fm.TotalCalls) / float64(dist.AI) * 100))
	}
	s.Highlights = highlights(s)
	return s, nil
}

// Summarize builds the analysis-panel view using the default strategy.
func Summarize(messages []core.Message) (*Summary, error) {
	return defaultEngine.Summarize(messages)
}

func highlights(s *Summary) []string {
	speed := RatingGood
	if s.FastResponses() {
		speed = RatingExcellent
	}
	usage := "Limited"
	if s.FunctionalResponses > 0 {
		usage = "Active"
	}
	out := []string{
		speed + " response time performance",
		usage + " use of functional operations",
	}
	if s.AutomationRate == "100%" {
		out = append(out, "Full automation achieved")
	}
	return out
}
