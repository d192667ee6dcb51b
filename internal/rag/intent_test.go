// ABOUTME: Tests for intent label parsing
// ABOUTME: Covers substring matching and the default label for noisy output

package rag

import "testing"

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want Intent
	}{
		{"exact question label", "uniq_question", IntentQuestion},
		{"exact verification label", "verification_or_feedback", IntentVerification},
		{"exact casual label", "casual", IntentCasual},
		{"verification with chatter", "Label: verification_or_feedback.", IntentVerification},
		{"feedback alone", "this looks like feedback", IntentVerification},
		{"uppercase casual", "CASUAL", IntentCasual},
		{"casual inside sentence", "The message is casual small talk.", IntentCasual},
		{"verification wins over casual", "casual verification", IntentVerification},
		{"empty defaults to question", "", IntentQuestion},
		{"garbage defaults to question", "I cannot classify this", IntentQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseIntent(tt.out); got != tt.want {
				t.Errorf("parseIntent(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}
