package metrics

import (
	"fmt"

	"github.com/sonnes/bellhop/core"
)

// ResponseStrategy selects how guest messages are paired with assistant replies.
type ResponseStrategy string

const (
	// StrategyAdjacent pairs a user message only with an AI message that
	// immediately follows it.
	StrategyAdjacent ResponseStrategy = "adjacent"
	// StrategyForwardScan pairs every user message with the next AI message
	// after it, skipping anything in between.
	StrategyForwardScan ResponseStrategy = "forward"
)

// ParseStrategy converts a flag value into a ResponseStrategy.
func ParseStrategy(s string) (ResponseStrategy, error) {
	switch ResponseStrategy(s) {
	case "", StrategyAdjacent:
		return StrategyAdjacent, nil
	case StrategyForwardScan:
		return StrategyForwardScan, nil
	default:
		return "", fmt.Errorf("unknown response strategy %q", s)
	}
}

// ResponseTime returns the average seconds between a user message and its
// answering AI message, rounded to two decimals. It returns 0 when no pair
// exists. Messages must be sorted ascending by timestamp.
func ResponseTime(messages []core.Message, strategy ResponseStrategy) (float64, error) {
	var pairs []pair
	switch strategy {
	case StrategyAdjacent, "":
		pairs = adjacentPairs(messages)
	case StrategyForwardScan:
		pairs = forwardPairs(messages)
	default:
		return 0, fmt.Errorf("unknown response strategy %q", strategy)
	}

	if len(pairs) == 0 {
		return 0, nil
	}

	var totalMs int64
	for _, p := range pairs {
		q, a := messages[p.question], messages[p.answer]
		if q.Timestamp.IsZero() {
			return 0, fmt.Errorf("message %d: %w", p.question, ErrInvalidTimestamp)
		}
		if a.Timestamp.IsZero() {
			return 0, fmt.Errorf("message %d: %w", p.answer, ErrInvalidTimestamp)
		}
		totalMs += a.Timestamp.Sub(q.Timestamp).Milliseconds()
	}

	avgMs := float64(totalMs) / float64(len(pairs))
	return round(avgMs/1000, 2), nil
}

// pair holds indexes of a user message and the AI message answering it.
type pair struct {
	question int
	answer   int
}

func adjacentPairs(messages []core.Message) []pair {
	var pairs []pair
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role == core.RoleUser && messages[i+1].Role == core.RoleAI {
			pairs = append(pairs, pair{question: i, answer: i + 1})
		}
	}
	return pairs
}

func forwardPairs(messages []core.Message) []pair {
	var pairs []pair
	for i := range messages {
		if messages[i].Role != core.RoleUser {
			continue
		}
		for j := i + 1; j < len(messages); j++ {
			if messages[j].Role == core.RoleAI {
				pairs = append(pairs, pair{question: i, answer: j})
				break
			}
		}
	}
	return pairs
}

// ResponseSpeedRating buckets an average response time in seconds.
func ResponseSpeedRating(seconds float64) string {
	switch {
	case seconds <= 2:
		return RatingExcellent
	case seconds <= 5:
		return RatingGood
	case seconds <= 10:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}
