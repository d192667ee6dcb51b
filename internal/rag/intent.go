// ABOUTME: Intent classification for routing turns to the right answer flow
// ABOUTME: Labels are parsed from free-text model output by substring match, best-effort
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/uniqlabs/ragbot/internal/models"
)

// Intent labels a conversation turn.
type Intent string

const (
	IntentQuestion     Intent = "uniq_question"
	IntentVerification Intent = "verification_or_feedback"
	IntentCasual       Intent = "casual"
)

// intentHistoryTail is how many trailing messages of history the
// classifier sees, rendered inline rather than as chat history.
const intentHistoryTail = 6

const intentSystemPrompt = `You are an intent classifier for a knowledge-base chatbot.
Label the user's MESSAGE with exactly one of these labels and output nothing else:
- uniq_question: a new informational question about the knowledge base
- verification_or_feedback: the user asks whether a previous answer was correct, or gives feedback on it
- casual: greeting, thanks, small talk`

// classifyIntent labels the current question using a short inline tail of
// the conversation. Misclassification is expected and handled downstream;
// unrecognized output defaults to uniq_question.
func (e *Engine) classifyIntent(ctx context.Context, question string, history []models.Message) (Intent, error) {
	tail := history
	if len(tail) > intentHistoryTail {
		tail = tail[len(tail)-intentHistoryTail:]
	}

	var b strings.Builder
	b.WriteString("CONVERSATION:\n")
	for _, m := range tail {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), content)
	}
	fmt.Fprintf(&b, "\nMESSAGE:\n%s\n\nLabel:", question)

	out, err := e.completer.ChatComplete(ctx, intentSystemPrompt, b.String(), nil, 10, 0)
	if err != nil {
		return "", fmt.Errorf("classifying intent: %w", err)
	}

	return parseIntent(out), nil
}

// parseIntent maps free-text classifier output to a label.
func parseIntent(out string) Intent {
	out = strings.ToLower(out)
	switch {
	case strings.Contains(out, "verification") || strings.Contains(out, "feedback"):
		return IntentVerification
	case strings.Contains(out, "casual"):
		return IntentCasual
	default:
		return IntentQuestion
	}
}
