package metrics

import (
	"sort"

	"github.com/sonnes/bellhop/core"
)

// FunctionMetrics summarizes function-call usage in a conversation.
type FunctionMetrics struct {
	TotalCalls          int      `json:"totalCalls"`
	UniqueFunctionCount int      `json:"uniqueFunctions"`
	FunctionsUsed       []string `json:"functionsUsed"` // sorted by name
}

// FunctionCount is the number of calls made to one function.
type FunctionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Functions counts function calls and the distinct function names used.
func Functions(messages []core.Message) FunctionMetrics {
	counts := countCalls(messages)
	fm := FunctionMetrics{FunctionsUsed: make([]string, 0, len(counts))}
	for name, n := range counts {
		fm.TotalCalls += n
		fm.FunctionsUsed = append(fm.FunctionsUsed, name)
	}
	sort.Strings(fm.FunctionsUsed)
	fm.UniqueFunctionCount = len(fm.FunctionsUsed)
	return fm
}

// TopFunctions returns up to n functions ordered by call count, most used
// first, with ties broken by name. A non-positive n returns all of them.
func TopFunctions(messages []core.Message, n int) []FunctionCount {
	counts := countCalls(messages)
	out := make([]FunctionCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, FunctionCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func countCalls(messages []core.Message) map[string]int {
	counts := make(map[string]int)
	for _, m := range messages {
		if m.FunctionCall != nil {
			counts[m.FunctionCall.Name]++
		}
	}
	return counts
}
