package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestToolCallEventNeverNilArgs(t *testing.T) {
	ev := ToolCallEvent("c1", "f", nil)
	if ev.ToolCall == nil || ev.ToolCall.Args == nil {
		t.Fatalf("event = %+v, want non-nil args map", ev)
	}
	if len(ev.ToolCall.Args) != 0 {
		t.Errorf("args = %+v, want empty", ev.ToolCall.Args)
	}
}

func TestEventConstructors(t *testing.T) {
	if ev := ContentEvent("hi"); ev.Type != EventContent || ev.Text != "hi" {
		t.Errorf("ContentEvent = %+v", ev)
	}
	if ev := ThoughtEvent("s", "d"); ev.Type != EventThought || ev.Thought.Subject != "s" {
		t.Errorf("ThoughtEvent = %+v", ev)
	}
	if ev := FinishedEvent(FinishStop, nil); ev.Type != EventFinished || ev.Reason != FinishStop {
		t.Errorf("FinishedEvent = %+v", ev)
	}
	cause := errors.New("x")
	if ev := ErrorEvent(cause); ev.Type != EventError || ev.Err != cause {
		t.Errorf("ErrorEvent = %+v", ev)
	}
}

func TestResponseTextSkipsThoughts(t *testing.T) {
	r := &Response{Parts: []Part{
		{Text: "thinking...", Thought: true},
		TextPart("visible "),
		TextPart("answer"),
		FunctionCallPart("c", "f", nil),
	}}
	if got := r.Text(); got != "visible answer" {
		t.Errorf("Text = %q", got)
	}
}

func TestRegistryDispatch(t *testing.T) {
	called := false
	Register(AuthType("test-backend"), func(ctx context.Context, cfg AuthConfig) (ContentGenerator, error) {
		called = true
		return nil, &ConfigError{Backend: cfg.Type, Reason: "constructed"}
	})

	_, err := NewContentGenerator(context.Background(), AuthConfig{Type: "test-backend"})
	if !called {
		t.Error("registered constructor was not invoked")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Reason != "constructed" {
		t.Errorf("err = %v", err)
	}
}

func TestUnknownBackendListsRegistered(t *testing.T) {
	_, err := NewContentGenerator(context.Background(), AuthConfig{Type: "does-not-exist"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
	if !strings.Contains(err.Error(), "registered") {
		t.Errorf("error should name the registered backends: %v", err)
	}
}
