package metrics

import (
	"strings"

	"github.com/sonnes/bellhop/core"
)

// Category is a coarse topic label for a whole conversation.
type Category string

const (
	CategoryBooking      Category = "Booking"
	CategorySupport      Category = "Support"
	CategoryInformation  Category = "Information"
	CategoryPayment      Category = "Payment"
	CategoryCancellation Category = "Cancellation"
	CategoryGeneral      Category = "General"
)

type categoryPattern struct {
	category  Category
	keywords  []string
	functions []string
}

// patterns is ordered: on equal scores the earlier category wins.
var patterns = []categoryPattern{
	{
		category:  CategoryBooking,
		keywords:  []string{"book", "reserve", "reservation", "stay", "night"},
		functions: []string{"booking", "check_availability", "reserve_room"},
	},
	{
		category:  CategorySupport,
		keywords:  []string{"help", "issue", "problem", "support", "assist"},
		functions: []string{"support_ticket", "resolve_issue"},
	},
	{
		category:  CategoryInformation,
		keywords:  []string{"info", "detail", "tell me about", "what is", "how"},
		functions: []string{"get_info", "fetch_details"},
	},
	{
		category:  CategoryPayment,
		keywords:  []string{"pay", "price", "cost", "rate", "charge"},
		functions: []string{"process_payment", "check_rates"},
	},
	{
		category:  CategoryCancellation,
		keywords:  []string{"cancel", "refund", "reschedule"},
		functions: []string{"cancel_booking", "process_refund"},
	},
}

// A matching function call counts double a keyword hit.
const (
	keywordWeight  = 1
	functionWeight = 2
)

// CategoryScore is the classifier score for one category.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// Scores returns the score of every category in declaration order.
func Scores(messages []core.Message) []CategoryScore {
	texts := make([]string, 0, len(messages))
	called := make(map[string]bool)
	for _, m := range messages {
		texts = append(texts, m.Text)
		if m.FunctionCall != nil {
			called[m.FunctionCall.Name] = true
		}
	}
	joined := strings.ToLower(strings.Join(texts, " "))

	scores := make([]CategoryScore, len(patterns))
	for i, p := range patterns {
		score := 0
		for _, kw := range p.keywords {
			if strings.Contains(joined, kw) {
				score += keywordWeight
			}
		}
		for _, fn := range p.functions {
			if called[fn] {
				score += functionWeight
			}
		}
		scores[i] = CategoryScore{Category: p.category, Score: score}
	}
	return scores
}

// Classify assigns exactly one category to the conversation. The highest
// score wins, earlier categories win ties, and a best score of zero yields
// CategoryGeneral.
func Classify(messages []core.Message) Category {
	best := CategoryScore{Category: CategoryGeneral}
	for _, s := range Scores(messages) {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Category
}
