package assemble

import (
	"errors"
	"testing"
	"time"

	"github.com/jg-phare/loom/pkg/types"
)

func TestResultBuilderSuccess(t *testing.T) {
	b := NewResultBuilder("s1")
	b.AddAPITime(150 * time.Millisecond)
	b.IncrementTurns()
	b.IncrementTurns()
	b.AttachUsage(types.Usage{InputTokens: 10, OutputTokens: 4})

	last := types.NewAssistantMessage(types.APIMessage{
		Content: []types.ContentBlock{
			{Type: "text", Text: "all "},
			{Type: "text", Text: "done"},
		},
	}, nil, "s1")

	msg := b.Success(nil, last)
	if msg.Subtype != types.ResultSubtypeSuccess || msg.IsError {
		t.Errorf("msg = %+v", msg)
	}
	if msg.Result != "all done" {
		t.Errorf("Result = %q, want text extracted from the last assistant", msg.Result)
	}
	if msg.NumTurns != 2 {
		t.Errorf("NumTurns = %d", msg.NumTurns)
	}
	if msg.DurationAPIMs != 150 {
		t.Errorf("DurationAPIMs = %d", msg.DurationAPIMs)
	}
	if msg.Usage.InputTokens != 10 {
		t.Errorf("Usage = %+v", msg.Usage)
	}
	if msg.PermissionDenials == nil || len(msg.PermissionDenials) != 0 {
		t.Errorf("PermissionDenials = %v, want present and empty", msg.PermissionDenials)
	}
}

func TestResultBuilderSuccessOverride(t *testing.T) {
	b := NewResultBuilder("s1")
	override := "forced summary"
	msg := b.Success(&override, nil)
	if msg.Result != "forced summary" {
		t.Errorf("Result = %q", msg.Result)
	}
}

func TestResultBuilderErrorDefaultsMessage(t *testing.T) {
	b := NewResultBuilder("s1")

	msg := b.Error("")
	if msg.ErrorMessage != "Unknown error" {
		t.Errorf("ErrorMessage = %q, want the default", msg.ErrorMessage)
	}
	if msg.Subtype != types.ResultSubtypeErrorDuringExecution || !msg.IsError {
		t.Errorf("msg = %+v", msg)
	}

	named := b.Error("backend exploded")
	if named.ErrorMessage != "backend exploded" {
		t.Errorf("ErrorMessage = %q", named.ErrorMessage)
	}
}

func TestResultBuilderDenials(t *testing.T) {
	b := NewResultBuilder("s1")

	b.ObserveToolResult(
		ToolCallRequestInfo{CallID: "c1", Name: "rm_rf", Args: map[string]any{"path": "/"}},
		ToolCallResponseInfo{CallID: "c1", ErrorType: ErrorTypeExecutionDenied},
	)
	b.ObserveToolResult(
		ToolCallRequestInfo{CallID: "c2", Name: "read_file"},
		ToolCallResponseInfo{CallID: "c2", Error: errors.New("not found")},
	)

	denials := b.Denials()
	if len(denials) != 1 {
		t.Fatalf("denials = %+v, want only the denied call", denials)
	}
	if denials[0].ToolName != "rm_rf" || denials[0].ToolUseID != "c1" {
		t.Errorf("denial = %+v", denials[0])
	}

	// denials ride on both result flavors
	if got := b.Success(nil, nil).PermissionDenials; len(got) != 1 {
		t.Errorf("success carries %d denials, want 1", len(got))
	}
	if got := b.Error("x").PermissionDenials; len(got) != 1 {
		t.Errorf("error carries %d denials, want 1", len(got))
	}
}

func TestSubagentErrorShape(t *testing.T) {
	b := NewResultBuilder("s1")
	b.ObserveToolResult(
		ToolCallRequestInfo{CallID: "c1", Name: "x"},
		ToolCallResponseInfo{CallID: "c1", ErrorType: ErrorTypeExecutionDenied},
	)

	msg := b.SubagentError("toolu_7", "")
	if msg.ParentToolUseID != "toolu_7" {
		t.Errorf("ParentToolUseID = %q", msg.ParentToolUseID)
	}
	if msg.ErrorMessage != "Unknown error" {
		t.Errorf("ErrorMessage = %q", msg.ErrorMessage)
	}
	if !msg.IsError || msg.Subtype != types.ResultSubtypeErrorDuringExecution {
		t.Errorf("msg = %+v", msg)
	}
}
