// Package metrics derives descriptive statistics from a conversation's
// message list: response latency, automation rate, topic category,
// function-call usage and a sentiment-based quality rating.
//
// Every function in this package is pure. Inputs are never mutated and the
// same message sequence always yields the same result.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/sonnes/bellhop/core"
)

var (
	// ErrEmptyConversation is returned when a computation needs at least one message.
	ErrEmptyConversation = errors.New("conversation has no messages")
	// ErrInvalidTimestamp is returned when a message needed for a time-based
	// computation has no usable timestamp.
	ErrInvalidTimestamp = errors.New("invalid message timestamp")
)

// Record is the full set of statistics for one conversation.
type Record struct {
	TotalMessages       int             `json:"totalMessages"`
	ResponseTimeSeconds float64         `json:"responseTimeSeconds"`
	AutomationRate      string          `json:"automationRate"`
	Category            Category        `json:"category"`
	FunctionMetrics     FunctionMetrics `json:"functionMetrics"`
	Quality             QualityScore    `json:"qualityScore"`
	Duration            Duration        `json:"duration"`
	Distribution        Distribution    `json:"messageDistribution"`
	Performance         Performance     `json:"performanceIndicators"`
}

// ResponseTimeLabel formats the average response time, e.g. "2.00s".
func (r *Record) ResponseTimeLabel() string {
	return fmt.Sprintf("%.2fs", r.ResponseTimeSeconds)
}

// Duration is the elapsed time between the first and last message.
type Duration struct {
	Milliseconds int64 `json:"milliseconds"`
	Seconds      int64 `json:"seconds"`
	Minutes      int64 `json:"minutes"`
}

// Distribution counts messages per author role.
type Distribution struct {
	AI    int `json:"ai"`
	User  int `json:"user"`
	Owner int `json:"owner"`
}

// Performance holds coarse ratings derived from the other metrics.
type Performance struct {
	ResponseSpeed        string `json:"responseSpeed"`
	AutomationEfficiency string `json:"automationEfficiency"`
}

// Engine computes metrics with a fixed response-time strategy. The zero
// value uses StrategyAdjacent.
type Engine struct {
	Strategy ResponseStrategy
}

// NewEngine returns an Engine that pairs messages using strategy.
func NewEngine(strategy ResponseStrategy) *Engine {
	return &Engine{Strategy: strategy}
}

var defaultEngine = &Engine{}

// Compute assembles a Record using the default adjacent-pair strategy.
func Compute(messages []core.Message) (*Record, error) {
	return defaultEngine.Compute(messages)
}

func (e *Engine) strategy() ResponseStrategy {
	if e == nil || e.Strategy == "" {
		return StrategyAdjacent
	}
	return e.Strategy
}

// Compute assembles a Record from messages, which must be sorted ascending
// by timestamp. It fails on an empty list and on any message without a
// timestamp, before running any sub-calculation.
func (e *Engine) Compute(messages []core.Message) (*Record, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyConversation
	}
	if err := validateTimestamps(messages); err != nil {
		return nil, err
	}

	responseTime, err := ResponseTime(messages, e.strategy())
	if err != nil {
		return nil, err
	}
	percent := automationPercent(messages)
	fm := Functions(messages)

	rec := &Record{
		TotalMessages:       len(messages),
		ResponseTimeSeconds: responseTime,
		AutomationRate:      formatPercent(percent),
		Category:            Classify(messages),
		FunctionMetrics:     fm,
		Quality:             Quality(messages),
		Duration:            conversationDuration(messages),
		Distribution:        distribution(messages),
	}
	rec.Performance = Performance{
		ResponseSpeed:        ResponseSpeedRating(responseTime),
		AutomationEfficiency: AutomationEfficiency(percent, fm.TotalCalls),
	}
	return rec, nil
}

func validateTimestamps(messages []core.Message) error {
	for i, m := range messages {
		if m.Timestamp.IsZero() {
			return fmt.Errorf("message %d: %w", i, ErrInvalidTimestamp)
		}
	}
	return nil
}

func conversationDuration(messages []core.Message) Duration {
	first := messages[0].Timestamp
	last := messages[len(messages)-1].Timestamp
	ms := last.Sub(first).Milliseconds()
	return Duration{
		Milliseconds: ms,
		Seconds:      floorDiv(ms, 1000),
		Minutes:      floorDiv(ms, 60*1000),
	}
}

func distribution(messages []core.Message) Distribution {
	var d Distribution
	for _, m := range messages {
		switch m.Role {
		case core.RoleAI:
			d.AI++
		case core.RoleUser:
			d.User++
		case core.RoleOwner:
			d.Owner++
		}
	}
	return d
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
