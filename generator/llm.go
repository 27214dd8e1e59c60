package generator

import (
	"context"
	"errors"
)

// ErrService marks any failure of the AI text service: network, quota, auth,
// or an empty completion. Callers retry within their own bounded budgets.
var ErrService = errors.New("ai service error")

// LLMClient abstracts the text service so it can be swapped or scripted in tests.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings carries the base configuration for a concrete client.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
