package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, llm LLMClient) *Agent {
	t.Helper()
	agent, err := NewAgent(llm, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return agent
}

func TestGeneratePost_CleanFirstTry(t *testing.T) {
	t.Parallel()

	llm := &ScriptedLLM{Responses: []string{completeBody()}}
	agent := newTestAgent(t, llm)

	post, err := agent.GeneratePost(context.Background(), "Understanding Iterators", "Programming Languages")
	require.NoError(t, err)
	require.Equal(t, "Understanding Iterators", post.Title)
	require.Equal(t, Clean, post.Verdict)
	require.Equal(t, 1, post.Attempts)
	require.Equal(t, 1, llm.Calls())
}

func TestGeneratePost_PlaceholdersExhaustBudgetButKeepDraft(t *testing.T) {
	t.Parallel()

	flawed := completeBody() + "\n[Code block omitted]\n"
	llm := &ScriptedLLM{Responses: []string{flawed, flawed, flawed}}
	agent := newTestAgent(t, llm)

	post, err := agent.GeneratePost(context.Background(), "Understanding Iterators", "Programming Languages")
	require.NoError(t, err)
	require.NotEmpty(t, post.Markdown)
	require.Equal(t, HasPlaceholder, post.Verdict)
	require.Equal(t, 3, llm.Calls(), "generate budget is 3 attempts")

	// The amended prompt must forbid placeholders from the second attempt on.
	require.Contains(t, llm.Prompts[1].System, "placeholder")
}

func TestGeneratePost_TruncationGetsContinuation(t *testing.T) {
	t.Parallel()

	continuation := "items[i])\n}\n```\n\nAnd with that, the iterator story is complete."
	llm := &ScriptedLLM{Responses: []string{truncatedBody(), continuation}}
	agent := newTestAgent(t, llm)

	post, err := agent.GeneratePost(context.Background(), "Understanding Iterators", "Programming Languages")
	require.NoError(t, err)
	require.Equal(t, Clean, post.Verdict)
	require.Equal(t, 2, post.Attempts, "one generate plus one continuation")
	require.True(t, strings.HasSuffix(post.Markdown, "complete."))

	// The continuation request carries the tail of the draft.
	require.Contains(t, llm.Prompts[1].User, "fmt.Println(")
}

func TestGeneratePost_ContinuationBudgetExhausted(t *testing.T) {
	t.Parallel()

	// The model keeps echoing the same truncated tail, never finishing.
	llm := &ScriptedLLM{Responses: []string{truncatedBody(), "", "", ""}}
	agent := newTestAgent(t, llm)

	post, err := agent.GeneratePost(context.Background(), "Understanding Iterators", "Programming Languages")
	require.NoError(t, err, "exhaustion degrades, it does not abort")
	require.NotEmpty(t, post.Markdown)
	require.Equal(t, Truncated, post.Verdict)
	require.Equal(t, 4, llm.Calls(), "one generate plus three continuations, never more")
}

func TestGeneratePost_AllAttemptsFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	llm := &ScriptedLLM{Errs: []error{boom, boom, boom}}
	agent := newTestAgent(t, llm)

	_, err := agent.GeneratePost(context.Background(), "Understanding Iterators", "Programming Languages")
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, llm.Calls())
}

func TestJoinContinuation_DropsEchoedOverlap(t *testing.T) {
	t.Parallel()

	body := "The iterator pattern decouples traversal from storage"
	cont := "decouples traversal from storage, which keeps call sites simple."
	joined := joinContinuation(body, cont)
	require.Equal(t, "The iterator pattern decouples traversal from storage, which keeps call sites simple.", joined)
}

func TestJoinContinuation_MidSentenceJoin(t *testing.T) {
	t.Parallel()

	joined := joinContinuation("The pattern is", "useful in practice.")
	require.Equal(t, "The pattern is useful in practice.", joined)
}
