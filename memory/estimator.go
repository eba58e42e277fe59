package memory

import (
	"context"
	"unicode/utf8"
)

// Estimator is a tokenizer-free TokenCounter for environments without a
// provider connection (tests, local development, the example server). It
// charges one token per CharsPerToken characters of content plus a small
// per-message overhead for the role framing.
type Estimator struct {
	CharsPerToken    int
	PerMessageTokens int
}

func NewEstimator() *Estimator {
	return &Estimator{CharsPerToken: 4, PerMessageTokens: 3}
}

func (e *Estimator) CountTokens(_ context.Context, messages []PromptMessage) (int, error) {
	per := e.CharsPerToken
	if per <= 0 {
		per = 4
	}
	total := 0
	for _, msg := range messages {
		runes := utf8.RuneCountInString(msg.Content)
		total += (runes+per-1)/per + e.PerMessageTokens
	}
	return total, nil
}
