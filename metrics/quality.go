package metrics

import (
	"strings"

	"github.com/sonnes/bellhop/core"
)

// Quality and speed rating labels.
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
)

var (
	positivePatterns = []string{"thank", "great", "good", "help", "perfect", "excellent"}
	negativePatterns = []string{"bad", "issue", "problem", "wrong", "error", "not working"}
)

// neutralScore is reported when no guest message matches any pattern.
const neutralScore = 50.0

// QualityScore is the sentiment-derived rating of a conversation.
type QualityScore struct {
	Score         float64 `json:"score"` // percentage, one decimal
	Rating        string  `json:"rating"`
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
}

// Quality scans guest messages for positive and negative phrases. Each
// pattern found in a message counts once for that message.
func Quality(messages []core.Message) QualityScore {
	var q QualityScore
	for _, m := range messages {
		if m.Role != core.RoleUser {
			continue
		}
		text := strings.ToLower(m.Text)
		q.PositiveCount += countPatterns(text, positivePatterns)
		q.NegativeCount += countPatterns(text, negativePatterns)
	}

	score := neutralScore
	if total := q.PositiveCount + q.NegativeCount; total > 0 {
		score = float64(q.PositiveCount) / float64(total) * 100
	}
	q.Score = round(score, 1)
	q.Rating = qualityRating(score)
	return q
}

func countPatterns(text string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

func qualityRating(score float64) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}
