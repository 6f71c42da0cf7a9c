package rag

import "strings"

// Strategy picks how the answer context is built.
type Strategy int

const (
	// StrategyRetrieval answers from the most similar chunks.
	StrategyRetrieval Strategy = iota
	// StrategySummary answers from the full document text.
	StrategySummary
)

func (s Strategy) String() string {
	if s == StrategySummary {
		return "summary"
	}
	return "retrieval"
}

// summaryKeywords are matched as substrings, case-insensitively.
var summaryKeywords = []string{"summar", "overview", "tl;dr", "digest", "describe the document"}

// SelectStrategy classifies a question. Pure and total: every question
// maps to exactly one strategy, there is no failure mode.
func SelectStrategy(question string) Strategy {
	q := strings.ToLower(question)
	for _, keyword := range summaryKeywords {
		if strings.Contains(q, keyword) {
			return StrategySummary
		}
	}
	return StrategyRetrieval
}
