package generator

import "context"

// ScriptedLLM replays canned responses in order without calling any external
// model. Used by tests across packages; the last response repeats once the
// script runs out.
type ScriptedLLM struct {
	Responses []string
	Errs      []error
	Prompts   []Prompt
	calls     int
}

func (s *ScriptedLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.Errs) && s.Errs[i] != nil {
		return "", s.Errs[i]
	}
	if len(s.Responses) == 0 {
		return "", ErrService
	}
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	return s.Responses[i], nil
}

// Calls reports how many completions were requested.
func (s *ScriptedLLM) Calls() int { return s.calls }
