package topics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"auto_blog_email_publisher/generator"
)

const (
	// How many times the service is asked for a topic before the
	// deterministic fallback kicks in.
	maxTopicAttempts = 3

	// How many recent titles the topic prompt lists as off-limits.
	recentUsedLimit = 20
)

// Topic is one run's chosen subject.
type Topic struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Selector produces the topic for a run by rotating through Categories and
// asking the text service for a fresh title in the current one.
type Selector struct {
	llm       generator.LLMClient
	statePath string
	logger    *slog.Logger
	now       func() time.Time
}

func NewSelector(llm generator.LLMClient, statePath string, logger *slog.Logger) (*Selector, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if statePath == "" {
		return nil, fmt.Errorf("state path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{llm: llm, statePath: statePath, logger: logger, now: time.Now}, nil
}

// Choose picks a topic, records it in the rotation state, advances the
// category rotation, and persists the state before returning.
func (s *Selector) Choose(ctx context.Context) (Topic, error) {
	st, err := LoadState(s.statePath)
	if err != nil {
		return Topic{}, err
	}
	topic := s.propose(ctx, st)
	st.MarkUsed(topic.Title, topic.Category)
	st.Advance()
	if err := st.Save(s.statePath); err != nil {
		return Topic{}, err
	}
	return topic, nil
}

// Suggest picks a topic without touching the persisted state. Dry runs and
// the preview server use it so they never burn a rotation slot.
func (s *Selector) Suggest(ctx context.Context) (Topic, error) {
	st, err := LoadState(s.statePath)
	if err != nil {
		return Topic{}, err
	}
	return s.propose(ctx, st), nil
}

// propose asks the service for a title in the current category, retrying on
// malformed or already-used output. Exhausting the budget falls back to a
// deterministic title so the run always proceeds.
func (s *Selector) propose(ctx context.Context, st *State) Topic {
	category := st.Category()
	recent := st.Used
	if len(recent) > recentUsedLimit {
		recent = recent[len(recent)-recentUsedLimit:]
	}

	for attempt := 1; attempt <= maxTopicAttempts; attempt++ {
		raw, err := s.llm.Complete(ctx, generator.BuildTopicPrompt(category, recent))
		if err != nil {
			s.logger.Warn("topic attempt failed", "attempt", attempt, "err", err)
			continue
		}
		title := cleanTopicTitle(raw)
		if !plausibleTitle(title) {
			s.logger.Warn("topic attempt returned implausible title", "attempt", attempt, "title", title)
			continue
		}
		if st.HasUsed(title) {
			s.logger.Warn("topic already used, retrying", "attempt", attempt, "title", title)
			continue
		}
		return Topic{Title: title, Category: category}
	}

	fallback := fmt.Sprintf("%s trends and tooling (%s)", category, s.now().Format("2006-01-02"))
	s.logger.Warn("falling back to deterministic topic", "title", fallback)
	return Topic{Title: fallback, Category: category}
}

// cleanTopicTitle keeps only the first non-empty line and strips surrounding
// quotes and list markers the model sometimes adds.
func cleanTopicTitle(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, `"'`)
		return strings.TrimSpace(line)
	}
	return ""
}

// plausibleTitle applies the shape heuristics for a usable blog title.
func plausibleTitle(title string) bool {
	if len(title) <= 10 {
		return false
	}
	words := len(strings.Fields(title))
	return words >= 3 && words <= 20
}
