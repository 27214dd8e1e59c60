package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

const (
	// Budgets are per failure mode per run. Exhausting one keeps the last
	// draft instead of aborting: an imperfect post beats no post.
	maxGenerateAttempts = 3
	maxContinuations    = 3

	// How much of the draft the continuation prompt echoes back.
	continuationTail = 600
)

// Agent turns a chosen topic into a finished Post, regenerating on
// placeholder output and requesting continuations on truncated output.
type Agent struct {
	llm    LLMClient
	logger *slog.Logger
}

func NewAgent(llm LLMClient, logger *slog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// GeneratePost runs the generation loop for topic. It fails only when every
// generate attempt errors out and no draft exists at all.
func (a *Agent) GeneratePost(ctx context.Context, topic, category string) (Post, error) {
	body, genCalls, err := a.generate(ctx, topic, category)
	if err != nil {
		return Post{}, err
	}

	body, contCalls := a.extend(ctx, topic, body)

	post := PostProcess(body, topic)
	post.Attempts = genCalls + contCalls
	post.Verdict = Validate(body)
	return post, nil
}

// generate requests full drafts until one is free of placeholder markers or
// the attempt budget runs out. The last draft survives budget exhaustion.
func (a *Agent) generate(ctx context.Context, topic, category string) (string, int, error) {
	prompt := BuildPostPrompt(topic, category)
	calls := 0
	var draft string
	var lastErr error

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		calls++
		raw, err := a.llm.Complete(ctx, prompt)
		if err != nil {
			lastErr = err
			a.logger.Warn("generate attempt failed", "attempt", attempt, "err", err)
			continue
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			lastErr = fmt.Errorf("%w: empty completion", ErrService)
			a.logger.Warn("generate attempt returned empty body", "attempt", attempt)
			continue
		}
		draft = text
		if Validate(draft) != HasPlaceholder {
			return draft, calls, nil
		}
		a.logger.Warn("draft contains placeholder markers, regenerating", "attempt", attempt)
		prompt = BuildRetryPrompt(topic, category)
	}

	if draft == "" {
		return "", calls, fmt.Errorf("post generation failed after %d attempts: %w", calls, lastErr)
	}
	a.logger.Warn("placeholder budget exhausted, keeping last draft")
	return draft, calls, nil
}

// extend asks for continuations while the draft still looks truncated. After
// the budget is spent the draft is accepted as-is.
func (a *Agent) extend(ctx context.Context, topic, body string) (string, int) {
	calls := 0
	for attempt := 1; attempt <= maxContinuations; attempt++ {
		if Validate(body) != Truncated {
			return body, calls
		}
		a.logger.Warn("draft looks truncated, requesting continuation", "attempt", attempt)

		tail := body
		if len(tail) > continuationTail {
			tail = tail[len(tail)-continuationTail:]
		}
		calls++
		raw, err := a.llm.Complete(ctx, BuildContinuationPrompt(topic, tail))
		if err != nil {
			a.logger.Warn("continuation attempt failed", "attempt", attempt, "err", err)
			continue
		}
		if cont := strings.TrimSpace(raw); cont != "" {
			body = joinContinuation(body, cont)
		}
	}
	if Validate(body) == Truncated {
		a.logger.Warn("continuation budget exhausted, accepting draft as-is")
	}
	return body, calls
}

// joinContinuation splices a continuation onto the draft, dropping any echoed
// overlap of the existing tail at the start of the continuation.
func joinContinuation(body, cont string) string {
	limit := min(len(body), len(cont), continuationTail)
	for n := limit; n >= 20; n-- {
		if strings.HasSuffix(body, cont[:n]) {
			return body + cont[n:]
		}
	}
	switch {
	case strings.HasSuffix(body, "\n"):
		return body + cont
	case startsMidSentence(cont):
		return body + " " + cont
	default:
		return body + "\n\n" + cont
	}
}

// startsMidSentence reports whether the continuation reads like the rest of
// an unfinished sentence rather than a fresh block.
func startsMidSentence(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r) || strings.ContainsRune(",;:.)", r)
	}
	return false
}
