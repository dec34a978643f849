// Package assemble turns the canonical event stream into protocol messages:
// a per-context message state machine, pluggable emission strategies, and
// the final result message builder.
package assemble

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jg-phare/loom/pkg/types"
)

// BlockType is the content-block kind a message accumulates. All blocks of
// one finalized message share exactly one type.
type BlockType string

const (
	BlockNone     BlockType = ""
	BlockText     BlockType = "text"
	BlockThinking BlockType = "thinking"
	BlockToolUse  BlockType = "tool_use"
)

// MessageState accumulates one in-flight assistant message. It is created
// empty, mutated by exactly one task, and replaced with a fresh instance
// the moment it is finalized; finalized never resets on the same instance.
type MessageState struct {
	messageID string
	blocks    []types.ContentBlock
	open      map[int]bool
	usage     types.Usage
	started   bool
	finalized bool
	current   BlockType
	snapshot  *types.APIMessage
}

func newMessageState() *MessageState {
	return &MessageState{
		messageID: "msg_" + uuid.NewString(),
		open:      make(map[int]bool),
	}
}

// MessageID returns the id blocks of this message are attributed to.
func (st *MessageState) MessageID() string { return st.messageID }

// Started reports whether any event has landed in this state.
func (st *MessageState) Started() bool { return st.started }

// Finalized reports whether the state has been snapshotted.
func (st *MessageState) Finalized() bool { return st.finalized }

// CurrentBlockType returns the single block type this message holds.
func (st *MessageState) CurrentBlockType() BlockType { return st.current }

// lastOpenIndex returns the index of the last block when it is open and of
// the given type, or -1.
func (st *MessageState) lastOpenIndex(bt BlockType) int {
	idx := len(st.blocks) - 1
	if idx < 0 || !st.open[idx] || BlockType(st.blocks[idx].Type) != bt {
		return -1
	}
	return idx
}

// appendOpenBlock adds a new open block and returns its index.
func (st *MessageState) appendOpenBlock(block types.ContentBlock) int {
	idx := len(st.blocks)
	st.blocks = append(st.blocks, block)
	st.open[idx] = true
	st.current = BlockType(block.Type)
	return idx
}

// appendClosedBlock adds a block that is complete on arrival (tool use).
func (st *MessageState) appendClosedBlock(block types.ContentBlock) int {
	idx := len(st.blocks)
	st.blocks = append(st.blocks, block)
	st.current = BlockType(block.Type)
	return idx
}

// extend appends fragment text to the open block at idx. Open blocks are
// the only mutable ones.
func (st *MessageState) extend(idx int, bt BlockType, fragment string) error {
	if !st.open[idx] {
		return fmt.Errorf("assemble: block %d is closed", idx)
	}
	switch bt {
	case BlockText:
		st.blocks[idx].Text += fragment
	case BlockThinking:
		st.blocks[idx].Thinking += fragment
	default:
		return fmt.Errorf("assemble: cannot extend block type %q", bt)
	}
	return nil
}

// closeBlock marks a block immutable.
func (st *MessageState) closeBlock(idx int) { delete(st.open, idx) }

// openIndices returns the currently-open block indices in ascending order.
func (st *MessageState) openIndices() []int {
	out := make([]int, 0, len(st.open))
	for idx := range st.open {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// attachUsage replaces accumulated usage; later values win, nothing sums.
func (st *MessageState) attachUsage(u types.Usage) { st.usage = u }

// finalize closes all remaining open blocks in ascending index order and
// snapshots the message. Idempotent: a second call returns the same
// snapshot.
func (st *MessageState) finalize() *types.APIMessage {
	if st.finalized {
		return st.snapshot
	}
	for _, idx := range st.openIndices() {
		st.closeBlock(idx)
	}

	var stopReason *string
	for _, b := range st.blocks {
		if b.Type == string(BlockToolUse) {
			s := types.StopReasonToolUse
			stopReason = &s
			break
		}
	}

	st.finalized = true
	st.snapshot = &types.APIMessage{
		ID:         st.messageID,
		Type:       "message",
		Role:       "assistant",
		Content:    st.blocks,
		StopReason: stopReason,
		Usage:      st.usage,
	}
	return st.snapshot
}
