package openai

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// slotState accumulates fragments for one streaming tool-call slot index.
// A slot can carry several calls over the life of a stream when the backend
// reuses the index; finished ones move to completed.
type slotState struct {
	completed []ToolCall
	id        string
	name      string
	args      strings.Builder
	started   bool
}

// toolCallAccumulator reconstructs complete tool calls from indexed argument
// fragments. One instance lives on the generator and is reset at the start
// of every stream; it must never carry entries across streams.
type toolCallAccumulator struct {
	slots map[int]*slotState
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{slots: make(map[int]*slotState)}
}

// reset clears all slots. Called at stream start and after drain.
func (a *toolCallAccumulator) reset() {
	a.slots = make(map[int]*slotState)
}

// addDelta merges one incremental tool-call delta into its slot.
//
// The slot buffer restarts in two cases:
//   - a new tool name arrives for the slot, or
//   - the buffered arguments already parse as complete JSON and the incoming
//     fragment starts a new object.
//
// The second rule is a heuristic, not a guarantee: backends that emit
// back-to-back calls without a complete-JSON boundary can still mis-merge.
// It is kept as-is deliberately.
func (a *toolCallAccumulator) addDelta(d ToolCall) {
	s := a.slots[d.Index]
	if s == nil {
		s = &slotState{}
		a.slots[d.Index] = s
	}

	frag := d.Function.Arguments

	newName := d.Function.Name != "" && s.name != "" && d.Function.Name != s.name
	startsObject := strings.HasPrefix(strings.TrimSpace(frag), "{")
	bufComplete := s.args.Len() > 0 && json.Valid([]byte(s.args.String()))

	if s.started && (newName || (bufComplete && startsObject)) {
		s.rotate()
	}

	if d.ID != "" {
		s.id = d.ID
	}
	if d.Function.Name != "" {
		s.name = d.Function.Name
	}
	s.args.WriteString(frag)
	s.started = true
}

// rotate finishes the current call of the slot and starts a fresh buffer.
// The name is kept so a repeated call to the same tool without a new name
// delta stays attributed; the id belongs to the finished call only.
func (s *slotState) rotate() {
	if s.name != "" {
		s.completed = append(s.completed, s.snapshot())
	}
	s.id = ""
	s.args.Reset()
	s.started = false
}

func (s *slotState) snapshot() ToolCall {
	return ToolCall{
		ID:       s.id,
		Type:     "function",
		Function: FunctionCall{Name: s.name, Arguments: s.args.String()},
	}
}

// drain returns every finished call in slot-index order and clears the
// accumulator for reuse. A call is finished when it has a name; an absent id
// is synthesized from a timestamp plus a random suffix.
func (a *toolCallAccumulator) drain() []ToolCall {
	indices := make([]int, 0, len(a.slots))
	for idx := range a.slots {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var out []ToolCall
	for _, idx := range indices {
		s := a.slots[idx]
		calls := s.completed
		if s.started && s.name != "" {
			calls = append(calls, s.snapshot())
		}
		for _, c := range calls {
			if c.ID == "" {
				c.ID = synthesizeCallID()
			}
			out = append(out, c)
		}
	}

	a.reset()
	return out
}

func synthesizeCallID() string {
	return fmt.Sprintf("call_%d_%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

// parseCallArgs parses a reconstructed argument string. Malformed payloads
// recover to an empty object so the pipeline keeps going.
func parseCallArgs(raw string) (map[string]any, bool) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, true
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}, false
	}
	return args, true
}
