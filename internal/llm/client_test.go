package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["model"] != "gpt-4o" {
			t.Errorf("model = %v, want gpt-4o", req["model"])
		}
		if req["max_tokens"] != float64(DefaultMaxTokens) {
			t.Errorf("max_tokens = %v, want %d", req["max_tokens"], DefaultMaxTokens)
		}
		msgs, ok := req["messages"].([]any)
		if !ok || len(msgs) != 2 {
			t.Fatalf("messages = %v, want system+user pair", req["messages"])
		}

		fmt.Fprint(w, `{"choices":[{"message":{"content":"  a profile  "}}]}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	got, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "a profile" {
		t.Errorf("Complete() = %q, want trimmed text", got)
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Complete() expected error on 429")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("Complete() expected error for empty choices")
	}
}

func TestWithModel(t *testing.T) {
	c := NewClient("k", WithModel("gpt-4o-mini"))
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("Model() = %q, want gpt-4o-mini", c.Model())
	}

	// Empty model keeps the default
	c = NewClient("k", WithModel(""))
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want default", c.Model())
	}
}
