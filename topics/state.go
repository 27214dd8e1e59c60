package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Categories is the fixed rotation of topic areas, one per run, cycled in
// order.
var Categories = []string{
	"Programming Languages",
	"AI & Machine Learning",
	"System Design",
	"DevOps & Cloud",
	"Databases",
	"Security",
	"Performance Engineering",
	"Developer Tooling",
}

// State is the persisted rotation bookkeeping: which category comes next,
// which topics were already written about, and how often each category has
// run. It is read at the start of a run and rewritten once at the end.
type State struct {
	NextIndex int            `json:"next_index"`
	Used      []string       `json:"used_topics"`
	Counts    map[string]int `json:"category_counts"`
}

// LoadState reads the state file. A missing file yields a fresh zero state so
// the first run needs no setup.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{Counts: make(map[string]int)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading topic state: %w", err)
	}
	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parsing topic state %s: %w", path, err)
	}
	if st.Counts == nil {
		st.Counts = make(map[string]int)
	}
	st.NextIndex %= len(Categories)
	if st.NextIndex < 0 {
		st.NextIndex = 0
	}
	return st, nil
}

// Save rewrites the state file through a temp file and rename, so an
// interrupted run leaves the previous state intact. Best effort, not a
// transaction.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding topic state: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing topic state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing topic state: %w", err)
	}
	return nil
}

// Category returns the category scheduled for the current run.
func (s *State) Category() string {
	return Categories[s.NextIndex%len(Categories)]
}

// Advance rotates the category index forward by one, wrapping.
func (s *State) Advance() {
	s.NextIndex = (s.NextIndex + 1) % len(Categories)
}

// HasUsed reports whether topic was already selected in an earlier run.
// Comparison ignores case and surrounding whitespace.
func (s *State) HasUsed(topic string) bool {
	want := normalizeTopic(topic)
	for _, u := range s.Used {
		if normalizeTopic(u) == want {
			return true
		}
	}
	return false
}

// MarkUsed records the selection of topic under category.
func (s *State) MarkUsed(topic, category string) {
	s.Used = append(s.Used, topic)
	s.Counts[category]++
}

func normalizeTopic(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
