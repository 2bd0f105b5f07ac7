package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotReq openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"insights":["a"],"suggestions":["b"]}`}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	text, err := client.Generate(context.Background(), "system instruction", "user message")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(text, "insights") {
		t.Errorf("unexpected response text %q", text)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("request carried %d messages, want 2", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "system instruction" {
		t.Errorf("first message = %+v, want the system instruction", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" {
		t.Errorf("second message role = %q, want user", gotReq.Messages[1].Role)
	}
	if gotReq.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", gotReq.Temperature)
	}
}

func TestOpenAIGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, MaxRetries: 1})

	_, err := client.Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error = %v, want it to mention status 500", err)
	}
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, MaxRetries: 1})

	_, err := client.Generate(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error = %v, want a no-choices error", err)
	}
}
