package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"google.golang.org/genai"
)

func TestGroqComplete(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-1" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello there  "}}]}`))
	}))
	defer srv.Close()

	c, err := NewGroq(GroqConfig{APIKey: "key-1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGroq failed: %v", err)
	}

	reply, err := c.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "sys"},
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got.Model != defaultGroqModel {
		t.Fatalf("expected default model, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hi" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestGroqCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewGroq(GroqConfig{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGroq failed: %v", err)
	}
	_, err = c.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "x"}})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestNewGroqRequiresKey(t *testing.T) {
	if _, err := NewGroq(GroqConfig{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestWithTimeoutAppliesDeadline(t *testing.T) {
	inner := CompleterFunc(func(ctx context.Context, _ []domain.Message) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected deadline on context")
		}
		<-ctx.Done()
		return "", ctx.Err()
	})

	c := WithTimeout(inner, 20*time.Millisecond)
	start := time.Now()
	_, err := c.Complete(context.Background(), nil)
	if !errors.Is(err, ErrProvider) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout not applied")
	}
}

func TestWithTimeoutKeepsCallerDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := ctx.Deadline()

	inner := CompleterFunc(func(ctx context.Context, _ []domain.Message) (string, error) {
		got, _ := ctx.Deadline()
		if !got.Equal(want) {
			t.Errorf("caller deadline replaced: got %v want %v", got, want)
		}
		return "ok", nil
	})
	if reply, err := WithTimeout(inner, time.Millisecond).Complete(ctx, nil); err != nil || reply != "ok" {
		t.Fatalf("unexpected result %q, %v", reply, err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Config{Name: "nope", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestToGeminiContents(t *testing.T) {
	system, contents := toGeminiContents([]domain.Message{
		{Role: domain.RoleSystem, Content: "be nice"},
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	})
	if system != "be nice" {
		t.Fatalf("unexpected system instruction %q", system)
	}
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) || contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("unexpected roles %q, %q", contents[0].Role, contents[1].Role)
	}
}
