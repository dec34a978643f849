package openai

import (
	"reflect"
	"testing"
)

func assistantWithCalls(text string, ids ...string) ChatMessage {
	m := ChatMessage{Role: "assistant"}
	if text != "" {
		m.Content = text
	}
	for _, id := range ids {
		m.ToolCalls = append(m.ToolCalls, ToolCall{ID: id, Type: "function", Function: FunctionCall{Name: "f", Arguments: "{}"}})
	}
	return m
}

func toolResponse(id string) ChatMessage {
	return ChatMessage{Role: "tool", ToolCallID: id, Content: "ok"}
}

func TestCleanOrphanedToolCalls(t *testing.T) {
	tests := []struct {
		name string
		in   []ChatMessage
		want []string // resulting roles, in order
	}{
		{
			name: "matched pair kept",
			in:   []ChatMessage{assistantWithCalls("", "a"), toolResponse("a")},
			want: []string{"assistant", "tool"},
		},
		{
			name: "orphaned call without text drops the message",
			in:   []ChatMessage{assistantWithCalls("", "a")},
			want: []string{},
		},
		{
			name: "orphaned call with text keeps the text",
			in:   []ChatMessage{assistantWithCalls("let me check", "a")},
			want: []string{"assistant"},
		},
		{
			name: "orphaned response dropped",
			in:   []ChatMessage{toolResponse("ghost")},
			want: []string{},
		},
		{
			name: "partial orphan filters only the unmatched call",
			in:   []ChatMessage{assistantWithCalls("", "a", "b"), toolResponse("a")},
			want: []string{"assistant", "tool"},
		},
		{
			name: "unrelated roles untouched",
			in: []ChatMessage{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "hi"},
			},
			want: []string{"system", "user"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanOrphanedToolCalls(tt.in)
			roles := make([]string, 0, len(got))
			for _, m := range got {
				roles = append(roles, m.Role)
			}
			if !reflect.DeepEqual(roles, tt.want) {
				t.Errorf("roles = %v, want %v", roles, tt.want)
			}
		})
	}
}

func TestCleanFiltersUnmatchedCallFromPair(t *testing.T) {
	got := cleanOrphanedToolCalls([]ChatMessage{assistantWithCalls("", "a", "b"), toolResponse("a")})
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if len(got[0].ToolCalls) != 1 || got[0].ToolCalls[0].ID != "a" {
		t.Errorf("surviving calls = %+v, want only id a", got[0].ToolCalls)
	}
}

func TestCleanOrphanTextSurvivorDropsCalls(t *testing.T) {
	got := cleanOrphanedToolCalls([]ChatMessage{assistantWithCalls("thinking", "x")})
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if got[0].ToolCalls != nil {
		t.Errorf("ToolCalls = %+v, want nil", got[0].ToolCalls)
	}
	if got[0].Content != "thinking" {
		t.Errorf("Content = %v, want text preserved", got[0].Content)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	in := []ChatMessage{
		{Role: "user", Content: "hi"},
		assistantWithCalls("", "a", "b"),
		toolResponse("a"),
		toolResponse("ghost"),
		assistantWithCalls("", "orphan"),
	}
	once := cleanOrphanedToolCalls(in)
	twice := cleanOrphanedToolCalls(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("cleanup not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeConsecutiveAssistant(t *testing.T) {
	in := []ChatMessage{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "part one, "},
		{Role: "assistant", Content: "part two", ToolCalls: []ToolCall{{ID: "a"}}},
		{Role: "user", Content: "next"},
		{Role: "assistant", Content: "alone"},
	}
	got := mergeConsecutiveAssistant(in)
	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4", len(got))
	}
	if got[1].Content != "part one, part two" {
		t.Errorf("merged content = %v", got[1].Content)
	}
	if len(got[1].ToolCalls) != 1 {
		t.Errorf("merged tool calls = %+v", got[1].ToolCalls)
	}
	if got[3].Content != "alone" {
		t.Errorf("trailing assistant = %v", got[3].Content)
	}
}

func TestMergeEmptyTextBecomesNil(t *testing.T) {
	in := []ChatMessage{
		{Role: "assistant", Content: nil, ToolCalls: []ToolCall{{ID: "a"}}},
		{Role: "assistant", Content: "", ToolCalls: []ToolCall{{ID: "b"}}},
	}
	got := mergeConsecutiveAssistant(in)
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if got[0].Content != nil {
		t.Errorf("Content = %v, want nil for all-empty merge", got[0].Content)
	}
	if len(got[0].ToolCalls) != 2 {
		t.Errorf("ToolCalls = %+v, want both preserved in order", got[0].ToolCalls)
	}
}

func TestMergeIsAssociative(t *testing.T) {
	// Merging an already-merged list changes nothing, so any grouping of
	// adjacent merges lands on the same result.
	in := []ChatMessage{
		{Role: "assistant", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "assistant", Content: "c"},
	}
	once := mergeConsecutiveAssistant(in)
	twice := mergeConsecutiveAssistant(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not stable:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if len(once) != 1 || once[0].Content != "abc" {
		t.Errorf("merged = %+v, want single message abc", once)
	}
}
