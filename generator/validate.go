package generator

import (
	"strings"
	"unicode/utf8"
)

// Verdict classifies a draft body.
type Verdict int

const (
	Clean Verdict = iota
	HasPlaceholder
	Truncated
)

func (v Verdict) String() string {
	switch v {
	case HasPlaceholder:
		return "placeholder"
	case Truncated:
		return "truncated"
	default:
		return "clean"
	}
}

// Models occasionally emit a bracketed stand-in instead of real content.
// Matched case-insensitively against the whole body.
var placeholderSentinels = []string{
	"[code block omitted]",
	"[code omitted]",
	"[example omitted]",
	"[content omitted]",
	"[insert code here]",
	"[insert example here]",
	"[placeholder]",
	"[todo]",
}

// A body whose last word is one of these likely stops mid-thought even when
// punctuation slipped in.
var danglingWords = map[string]bool{
	"and": true, "or": true, "but": true, "so": true, "because": true,
	"the": true, "a": true, "an": true, "to": true, "of": true,
	"in": true, "on": true, "with": true, "for": true, "as": true,
	"by": true, "from": true, "however": true, "although": true,
}

// Characters that can legitimately close a markdown article.
const terminalRunes = ".!?\"'`)]}*"

// Generations shorter than this are treated as cut off and sent through the
// continuation path.
const minBodyLength = 400

// Validate classifies a draft body. This is a best-effort string heuristic
// over model output, not a completeness proof.
func Validate(body string) Verdict {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return Truncated
	}

	lower := strings.ToLower(trimmed)
	for _, sentinel := range placeholderSentinels {
		if strings.Contains(lower, sentinel) {
			return HasPlaceholder
		}
	}

	if strings.Count(trimmed, "```")%2 == 1 {
		return Truncated
	}
	if len(trimmed) < minBodyLength {
		return Truncated
	}
	if last, _ := utf8.DecodeLastRuneInString(trimmed); !strings.ContainsRune(terminalRunes, last) {
		return Truncated
	}

	fields := strings.Fields(lower)
	last := strings.Trim(fields[len(fields)-1], terminalRunes+",;:")
	if danglingWords[last] {
		return Truncated
	}

	return Clean
}
