package session

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/jg-phare/loom/pkg/types"
)

func TestValidateSessionID(t *testing.T) {
	valid := []string{
		"a",
		"abc123",
		"550e8400-e29b-41d4-a716-446655440000",
		"snake_case_id",
	}
	for _, id := range valid {
		if err := ValidateSessionID(id); err != nil {
			t.Errorf("ValidateSessionID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{
		"",
		"../escape",
		"has/slash",
		"has.dot",
		"-leading-dash",
		"_leading-underscore",
		"white space",
	}
	for _, id := range invalid {
		if err := ValidateSessionID(id); err != ErrInvalidSessionID {
			t.Errorf("ValidateSessionID(%q) = %v, want ErrInvalidSessionID", id, err)
		}
	}
}

func TestSessionFile(t *testing.T) {
	got := SessionFile("/data", "abc")
	want := "/data/abc.jsonl"
	if got != want {
		t.Errorf("SessionFile = %q, want %q", got, want)
	}
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open session file: %v", err)
	}
	defer f.Close()

	var out []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("malformed line %q: %v", scanner.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestWriterAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "sess1")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.Append(types.NewUserMessage("one", "sess1")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.AppendSync(types.NewUserMessage("two", "sess1")); err != nil {
		t.Fatalf("AppendSync: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, SessionFile(dir, "sess1"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["type"] != "user" || lines[0]["session_id"] != "sess1" {
		t.Errorf("line 0 = %+v", lines[0])
	}
}

func TestWriterPreservesOrderUnderBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "burst")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	const n = 50
	for i := 0; i < n; i++ {
		msg := types.NewUserMessage(string(rune('a'+i%26)), "burst")
		if err := w.Append(msg); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, SessionFile(dir, "burst"))
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d", len(lines), n)
	}
	for i, line := range lines {
		message := line["message"].(map[string]any)
		want := string(rune('a' + i%26))
		if message["content"] != want {
			t.Fatalf("line %d content = %v, want %q", i, message["content"], want)
		}
	}
}

func TestWriterRejectsInvalidID(t *testing.T) {
	if _, err := NewWriter(t.TempDir(), "../bad"); err != ErrInvalidSessionID {
		t.Errorf("NewWriter = %v, want ErrInvalidSessionID", err)
	}
}

func TestWriterClosedAppend(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "closed")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	if err := w.Append(types.NewUserMessage("late", "closed")); err != ErrWriterClosed {
		t.Errorf("Append after Close = %v, want ErrWriterClosed", err)
	}
	if err := w.AppendSync(types.NewUserMessage("late", "closed")); err != ErrWriterClosed {
		t.Errorf("AppendSync after Close = %v, want ErrWriterClosed", err)
	}
}
