package generator

import (
	"fmt"
	"strings"
)

// Prompt is one request to the text service.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

const topicMaxTokens = 60

// BuildTopicPrompt asks for a single blog title within a category, steering
// away from titles that were already used.
func BuildTopicPrompt(category string, used []string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a content ideation assistant for a developer blog.\n")
	sb.WriteString(fmt.Sprintf("Generate ONE concise blog topic/title (6-12 words) in the area of: %s.\n", category))
	sb.WriteString("Do NOT return a list. Return only the title as plain text, no quotes, no bullets, no explanation.\n")
	sb.WriteString("Keep it original and specific.\n")
	if len(used) > 0 {
		sb.WriteString("Avoid anything close to these already covered topics:\n")
		for _, t := range used {
			sb.WriteString("- " + t + "\n")
		}
	}
	return Prompt{
		System:    "Respond with a single plain-text line.",
		User:      sb.String(),
		MaxTokens: topicMaxTokens,
	}
}

// BuildPostPrompt asks for the full article in markdown.
func BuildPostPrompt(topic, category string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a professional technical blog writer. Write a 700-900 word article in Markdown.\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Start with a level-1 heading holding the article title.\n")
	sb.WriteString("- Follow the title with a 2-3 sentence summary paragraph.\n")
	sb.WriteString("- Use level-2 headings for sections, with an introduction and a conclusion.\n")
	sb.WriteString("- Code examples go in fenced code blocks with a language label.\n")
	sb.WriteString("- Friendly, professional tone. Original and actionable.\n")
	if category != "" {
		sb.WriteString(fmt.Sprintf("- The article belongs to the %q category of the blog.\n", category))
	}

	user := fmt.Sprintf("Topic: %s\nWrite the complete article now.", topic)

	return Prompt{
		System: sb.String(),
		User:   user,
	}
}

// BuildRetryPrompt amends the full-post prompt after placeholder markers were
// found in a draft: every code block must be written out in full.
func BuildRetryPrompt(topic, category string) Prompt {
	p := BuildPostPrompt(topic, category)
	var sb strings.Builder
	sb.WriteString(p.System)
	sb.WriteString("- Never write placeholder markers such as \"[code omitted]\" or \"[insert example here]\".\n")
	sb.WriteString("- Every code block must contain complete, runnable code.\n")
	sb.WriteString("- Finish every sentence and close every code fence.\n")
	p.System = sb.String()
	return p
}

// BuildContinuationPrompt asks the service to pick up a draft that stopped
// mid-sentence or mid-block. tail is the final stretch of the draft.
func BuildContinuationPrompt(topic, tail string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are finishing an interrupted blog article draft.\n")
	sb.WriteString("Continue EXACTLY from where the draft stops. Do not repeat the draft, do not restart, do not add a new title.\n")
	sb.WriteString("Close any open code fence and bring the article to a proper conclusion.\n")

	user := fmt.Sprintf("Topic: %s\n\nThe draft currently ends with:\n...%s\n\nContinue from there.", topic, tail)

	return Prompt{
		System: sb.String(),
		User:   user,
	}
}
