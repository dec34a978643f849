package openai

import "testing"

func lastPart(t *testing.T, m ChatMessage) ContentPart {
	t.Helper()
	parts, ok := m.Content.([]ContentPart)
	if !ok || len(parts) == 0 {
		t.Fatalf("content not promoted to parts: %+v", m.Content)
	}
	return parts[len(parts)-1]
}

func TestApplyCacheControlTagsSystemAndLast(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
	}
	applyCacheControl(msgs)

	sys := lastPart(t, msgs[0])
	if sys.CacheControl == nil || sys.CacheControl.Type != "ephemeral" {
		t.Errorf("system part = %+v, want ephemeral marker", sys)
	}
	if sys.Text != "be brief" {
		t.Errorf("system text = %q, promotion lost content", sys.Text)
	}

	last := lastPart(t, msgs[3])
	if last.CacheControl == nil {
		t.Errorf("last message part = %+v, want ephemeral marker", last)
	}

	// middle turns stay untouched as plain strings
	if _, promoted := msgs[1].Content.([]ContentPart); promoted {
		t.Errorf("middle message promoted unnecessarily: %+v", msgs[1])
	}
}

func TestApplyCacheControlStructuredContent(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "user", Content: []ContentPart{
			{Type: "text", Text: "first"},
			{Type: "text", Text: "second"},
		}},
	}
	applyCacheControl(msgs)

	parts := msgs[0].Content.([]ContentPart)
	if parts[0].CacheControl != nil {
		t.Error("only the last part should carry the marker")
	}
	if parts[1].CacheControl == nil {
		t.Error("last part missing the marker")
	}
}

func TestApplyCacheControlSkipsEmpty(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "assistant", Content: nil, ToolCalls: []ToolCall{{ID: "a"}}},
	}
	applyCacheControl(msgs)
	if msgs[0].Content != nil {
		t.Errorf("empty content was promoted: %+v", msgs[0].Content)
	}

	applyCacheControl(nil)
}
