package assemble

import (
	"testing"

	"github.com/jg-phare/loom/pkg/genai"
	"github.com/jg-phare/loom/pkg/types"
)

func eventTypes(partials []*types.PartialAssistantMessage) []string {
	var out []string
	for _, p := range partials {
		switch ev := p.Event.(type) {
		case types.MessageStartEvent:
			out = append(out, ev.Type)
		case types.ContentBlockStartEvent:
			out = append(out, ev.Type)
		case types.ContentBlockDeltaEvent:
			out = append(out, ev.Type)
		case types.ContentBlockStopEvent:
			out = append(out, ev.Type)
		case types.MessageStopEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

func TestStreamingStrategyEventSequence(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", StreamingStrategy{IncludePartial: true}, c.emit)

	process(t, a, nil,
		genai.ContentEvent("Hi"),
		genai.ContentEvent(" there"),
		genai.FinishedEvent(genai.FinishStop, nil),
	)
	a.Finalize(nil)

	got := eventTypes(c.partials())
	want := []string{
		"message_start",
		"content_block_start",
		"content_block_delta",
		"content_block_delta",
		"content_block_stop",
		"message_stop",
	}
	if len(got) != len(want) {
		t.Fatalf("event sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event sequence = %v, want %v", got, want)
		}
	}

	// the finalized message still arrives alongside the partials
	if len(c.assistants()) != 1 {
		t.Errorf("assistant messages = %d, want 1", len(c.assistants()))
	}
}

func TestStreamingStrategyCarriesMessageID(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", StreamingStrategy{IncludePartial: true}, c.emit)

	process(t, a, nil, genai.ContentEvent("x"), genai.FinishedEvent(genai.FinishStop, nil))
	a.Finalize(nil)

	var startID string
	for _, p := range c.partials() {
		switch ev := p.Event.(type) {
		case types.MessageStartEvent:
			startID = ev.Message.ID
		case types.ContentBlockDeltaEvent:
			if ev.MessageID != startID {
				t.Errorf("delta message id = %q, want %q", ev.MessageID, startID)
			}
		case types.MessageStopEvent:
			if ev.MessageID != startID {
				t.Errorf("stop message id = %q, want %q", ev.MessageID, startID)
			}
		}
	}
	if startID == "" {
		t.Fatal("no message_start observed")
	}
}

func TestStreamingStrategySuppressedWithoutIncludePartial(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", StreamingStrategy{IncludePartial: false}, c.emit)

	process(t, a, nil, genai.ContentEvent("x"), genai.FinishedEvent(genai.FinishStop, nil))
	a.Finalize(nil)

	if got := c.partials(); len(got) != 0 {
		t.Errorf("got %d partials with IncludePartial off", len(got))
	}
	if len(c.assistants()) != 1 {
		t.Errorf("final message missing")
	}
}

func TestStreamingStrategySubagentSkipsMessageEnvelope(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", StreamingStrategy{IncludePartial: true}, c.emit)
	sub := "toolu_1"

	process(t, a, &sub, genai.ContentEvent("x"), genai.FinishedEvent(genai.FinishStop, nil))
	a.Finalize(&sub)

	for _, typ := range eventTypes(c.partials()) {
		if typ == "message_start" || typ == "message_stop" {
			t.Errorf("sub-agent context emitted %s", typ)
		}
	}
	// block-level events still flow for sub-agents
	found := false
	for _, typ := range eventTypes(c.partials()) {
		if typ == "content_block_delta" {
			found = true
		}
	}
	if !found {
		t.Error("sub-agent context emitted no block events")
	}
}

func TestStreamingStrategyToolUseBlock(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", StreamingStrategy{IncludePartial: true}, c.emit)

	process(t, a, nil,
		genai.ToolCallEvent("c1", "search", map[string]any{"q": "go"}),
		genai.FinishedEvent(genai.FinishStop, nil),
	)
	a.Finalize(nil)

	got := eventTypes(c.partials())
	want := []string{"message_start", "content_block_start", "content_block_stop", "message_stop"}
	if len(got) != len(want) {
		t.Fatalf("event sequence = %v, want %v (no deltas for tool use)", got, want)
	}

	for _, p := range c.partials() {
		if ev, ok := p.Event.(types.ContentBlockStartEvent); ok {
			if ev.ContentBlock.Type != "tool_use" || ev.ContentBlock.Name != "search" {
				t.Errorf("content_block_start = %+v", ev.ContentBlock)
			}
		}
	}
}

func TestBatchStrategyEmitsOnlyFinal(t *testing.T) {
	c := &capture{}
	a := New("s1", "m", BatchStrategy{}, c.emit)

	process(t, a, nil, genai.ContentEvent("x"), genai.FinishedEvent(genai.FinishStop, nil))
	a.Finalize(nil)

	if len(c.partials()) != 0 {
		t.Errorf("batch strategy leaked %d partials", len(c.partials()))
	}
	if len(c.assistants()) != 1 {
		t.Errorf("assistant messages = %d, want 1", len(c.assistants()))
	}
}
