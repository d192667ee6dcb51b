// ABOUTME: Prompt templates for the answer, verification, and intent flows
// ABOUTME: All prompts force the literal fallback text when context is insufficient
package rag

import (
	"fmt"
	"strings"

	"github.com/uniqlabs/ragbot/internal/models"
)

// restrictedPrompt permits only greeting/identity/acknowledgement replies
// when no relevant context was retrieved, forcing the fallback otherwise.
func restrictedPrompt(question, fallback string) string {
	return fmt.Sprintf(`USER_MESSAGE:
%s

RULE:
- If USER_MESSAGE is greeting / thanks / acknowledgement
  OR asks your identity/name,
  reply naturally using SYSTEM PROMPT.
- Otherwise reply exactly:
%s`, question, fallback)
}

// contextPrompt instructs the model to answer strictly from CONTEXT.
func contextPrompt(context, question, fallback string) string {
	return fmt.Sprintf(`CONTEXT:
%s

QUESTION:
%s

RULES:
- Answer ONLY using CONTEXT.
- If answer not present, reply exactly:
%s`, context, question, fallback)
}

// verifyPrompt asks the model to confirm or correct a previous answer
// against freshly retrieved context.
func verifyPrompt(context, priorAnswer, fallback string) string {
	return fmt.Sprintf(`CONTEXT:
%s

PREVIOUS_ANSWER:
%s

RULES:
- Using ONLY CONTEXT, state whether PREVIOUS_ANSWER is correct.
- If it is wrong, give the corrected answer from CONTEXT.
- If CONTEXT is not enough to judge, reply exactly:
%s`, context, priorAnswer, fallback)
}

// buildContext concatenates hit texts in rank order, each followed by a
// blank separator line.
func buildContext(hits []models.SearchHit) string {
	var lines []string
	for _, h := range hits {
		lines = append(lines, h.Chunk.Text, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
