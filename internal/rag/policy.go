// ABOUTME: Generates the system persona prompt from JSON policy flags
// ABOUTME: Used when no bot rules file is present in the knowledge directory
package rag

import (
	"context"
	"encoding/json"
	"fmt"
)

const policySystemPrompt = "Generate a system prompt for a chatbot using the given JSON policy. Output only the system prompt text."

// policyFlags describes the assistant persona without hardcoding any
// instruction prose; the completion model turns it into a system prompt.
type policyFlags struct {
	AssistantName         string `json:"assistant_name"`
	Domain                string `json:"domain"`
	MustUseRAGContextOnly bool   `json:"must_use_rag_context_only"`
	AllowSmalltalk        bool   `json:"allow_smalltalk"`
	FallbackMessage       string `json:"fallback_message"`
	NoExternalLinks       bool   `json:"no_external_links"`
	ToneFillersAllowed    bool   `json:"tone_fillers_allowed"`
	KeepRepliesShort      bool   `json:"keep_replies_short"`
}

// BuildPolicyPrompt asks the completion gateway to produce a system
// persona from policy flags.
func BuildPolicyPrompt(ctx context.Context, completer Completer, fallback string) (string, error) {
	flags := policyFlags{
		AssistantName:         "UNIQ Assistant",
		Domain:                "UNIQ Technologies",
		MustUseRAGContextOnly: true,
		AllowSmalltalk:        true,
		FallbackMessage:       fallback,
		NoExternalLinks:       true,
		ToneFillersAllowed:    true,
		KeepRepliesShort:      true,
	}

	payload, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding policy flags: %w", err)
	}

	out, err := completer.ChatComplete(ctx, policySystemPrompt, string(payload), nil, 300, 0.2)
	if err != nil {
		return "", fmt.Errorf("generating policy prompt: %w", err)
	}
	return out, nil
}
