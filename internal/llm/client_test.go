// ABOUTME: Tests for the OpenAI-compatible language model client
// ABOUTME: Uses a local httptest server speaking the OpenAI wire format

package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/uniqlabs/ragbot/internal/models"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:    ts.URL,
		APIKey:     "test-key",
		ChatModel:  "test-chat",
		EmbedModel: "test-embed",
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("NewClient() error = nil, want error for missing base URL")
	}
}

func TestEmbedTexts_PreservesOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-embed" {
			t.Errorf("model = %q, want test-embed", req.Model)
		}

		// One distinct vector per input, in input order.
		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]interface{}{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i) + 1},
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	})

	client := newTestClient(t, mux)

	vecs, err := client.EmbedTexts(t.Context(), []string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len(vecs) = %d, want 3", len(vecs))
	}
	for i, vec := range vecs {
		if len(vec) != 1 || vec[0] != float32(i)+1 {
			t.Errorf("vecs[%d] = %v, want [%d]", i, vec, i+1)
		}
	}
}

func TestEmbedTexts_EmptyInput(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	}))

	vecs, err := client.EmbedTexts(t.Context(), nil)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if vecs != nil {
		t.Errorf("vecs = %v, want nil", vecs)
	}
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data": []map[string]interface{}{
				{"object": "embedding", "index": 0, "embedding": []float32{1}},
			},
		})
	})

	client := newTestClient(t, mux)

	if _, err := client.EmbedTexts(t.Context(), []string{"a", "b"}); err == nil {
		t.Error("EmbedTexts() error = nil, want count mismatch error")
	}
}

func TestChatComplete_FiltersHistory(t *testing.T) {
	var got chatRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": "  the answer \n"}},
			},
		})
	})

	client := newTestClient(t, mux)

	history := []models.Message{
		{Role: models.RoleUser, Content: "kept question"},
		{Role: models.RoleAssistant, Content: "   "},              // blank: dropped
		{Role: models.RoleSystem, Content: "sneaky instructions"}, // wrong role: dropped
		{Role: models.RoleAssistant, Content: " kept answer "},
	}

	out, err := client.ChatComplete(t.Context(), "system text", "current turn", history, 220, 0.2)
	if err != nil {
		t.Fatalf("ChatComplete() error = %v", err)
	}
	if out != "the answer" {
		t.Errorf("out = %q, want trimmed %q", out, "the answer")
	}

	wantMessages := []struct{ role, content string }{
		{"system", "system text"},
		{"user", "kept question"},
		{"assistant", "kept answer"},
		{"user", "current turn"},
	}
	if len(got.Messages) != len(wantMessages) {
		t.Fatalf("sent %d messages, want %d", len(got.Messages), len(wantMessages))
	}
	for i, want := range wantMessages {
		if got.Messages[i].Role != want.role || got.Messages[i].Content != want.content {
			t.Errorf("messages[%d] = %s/%q, want %s/%q",
				i, got.Messages[i].Role, got.Messages[i].Content, want.role, want.content)
		}
	}

	if got.MaxTokens != 220 {
		t.Errorf("max_tokens = %d, want 220", got.MaxTokens)
	}
	if got.Model != "test-chat" {
		t.Errorf("model = %q, want test-chat", got.Model)
	}
}

func TestChatComplete_NoChoices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	client := newTestClient(t, mux)

	if _, err := client.ChatComplete(t.Context(), "sys", "user", nil, 80, 0); err == nil {
		t.Error("ChatComplete() error = nil, want no-choices error")
	}
}
