package assemble

import (
	"context"
	"fmt"
	"io"

	"github.com/jg-phare/loom/pkg/genai"
	"github.com/jg-phare/loom/pkg/types"
)

// Assembler converts canonical events into protocol messages. It owns one
// MessageState per conversation context: the main agent under the nil key,
// and one per running sub-agent keyed by its correlation id. Each context is
// mutated by a single logical task; independent contexts may run on
// independent tasks.
type Assembler struct {
	sessionID string
	model     string
	strategy  Strategy
	emit      Emitter
	contexts  map[string]*MessageState
}

// New creates an Assembler emitting through emit with the given strategy.
func New(sessionID, model string, strategy Strategy, emit Emitter) *Assembler {
	if strategy == nil {
		strategy = BatchStrategy{}
	}
	if emit == nil {
		emit = func(types.SDKMessage) {}
	}
	return &Assembler{
		sessionID: sessionID,
		model:     model,
		strategy:  strategy,
		emit:      emit,
		contexts:  make(map[string]*MessageState),
	}
}

func contextKey(parentToolUseID *string) string {
	if parentToolUseID == nil {
		return ""
	}
	return *parentToolUseID
}

func (a *Assembler) state(parentToolUseID *string) *MessageState {
	key := contextKey(parentToolUseID)
	st, ok := a.contexts[key]
	if !ok {
		st = newMessageState()
		a.contexts[key] = st
	}
	return st
}

func (a *Assembler) stepInfo(st *MessageState, parent *string) StepInfo {
	return StepInfo{
		MessageID: st.messageID,
		SessionID: a.sessionID,
		Parent:    parent,
		Model:     a.model,
		Usage:     st.usage,
	}
}

// Process applies one canonical event to the context identified by
// parentToolUseID (nil for the main agent). Processing completes, including
// any hook emission, before the caller pulls the next event.
func (a *Assembler) Process(parentToolUseID *string, ev genai.Event) error {
	switch ev.Type {
	case genai.EventContent:
		return a.appendFragment(parentToolUseID, BlockText, ev.Text)

	case genai.EventThought:
		return a.appendFragment(parentToolUseID, BlockThinking, formatThought(ev.Thought))

	case genai.EventToolCallRequest:
		return a.addToolUse(parentToolUseID, ev.ToolCall)

	case genai.EventFinished:
		a.finish(parentToolUseID, ev.Usage)
		return nil

	case genai.EventError:
		return ev.Err

	default:
		return fmt.Errorf("assemble: unknown event type %q", ev.Type)
	}
}

// appendFragment extends the last open block of the matching type, or opens
// a new one. A type change forces the current message to finalize first so
// a finalized message never mixes block types.
func (a *Assembler) appendFragment(parent *string, bt BlockType, fragment string) error {
	st := a.state(parent)
	if st.current != BlockNone && st.current != bt {
		a.finalizeState(parent)
		st = a.state(parent)
	}

	a.ensureStarted(st, parent)

	idx := st.lastOpenIndex(bt)
	if idx < 0 {
		block := types.ContentBlock{Type: string(bt)}
		idx = st.appendOpenBlock(block)
		info := a.stepInfo(st, parent)
		info.Index = idx
		info.Block = &st.blocks[idx]
		a.strategy.BlockCreated(info, a.emit)
	}

	if err := st.extend(idx, bt, fragment); err != nil {
		return err
	}

	info := a.stepInfo(st, parent)
	info.Index = idx
	info.Delta = blockDelta(bt, fragment)
	a.strategy.FragmentAppended(info, a.emit)
	return nil
}

// addToolUse opens and closes a tool-use block within the same step; tool
// calls are indivisible in the canonical stream.
func (a *Assembler) addToolUse(parent *string, call *genai.ToolCallRequest) error {
	if call == nil {
		return fmt.Errorf("assemble: tool call event without payload")
	}

	st := a.state(parent)
	if st.current != BlockNone && st.current != BlockToolUse {
		a.finalizeState(parent)
		st = a.state(parent)
	}

	a.ensureStarted(st, parent)

	block := types.ContentBlock{
		Type:  string(BlockToolUse),
		ID:    call.ID,
		Name:  call.Name,
		Input: call.Args,
	}
	idx := st.appendClosedBlock(block)

	info := a.stepInfo(st, parent)
	info.Index = idx
	info.Block = &st.blocks[idx]
	a.strategy.BlockCreated(info, a.emit)
	a.strategy.BlockClosed(info, a.emit)
	return nil
}

// finish attaches final usage and closes any still-open text or thinking
// block. Tool-use blocks are never left open.
func (a *Assembler) finish(parent *string, usage *genai.Usage) {
	st := a.state(parent)
	if usage != nil {
		st.attachUsage(types.Usage{
			InputTokens:       usage.InputTokens,
			OutputTokens:      usage.OutputTokens,
			CachedInputTokens: usage.CachedInputTokens,
			TotalTokens:       usage.TotalTokens,
		})
	}
	for _, idx := range st.openIndices() {
		st.closeBlock(idx)
		info := a.stepInfo(st, parent)
		info.Index = idx
		a.strategy.BlockClosed(info, a.emit)
	}
}

// Finalize snapshots and emits the context's current message, then replaces
// the state with a fresh one. An empty context emits nothing. Finalizing
// one context never affects another.
func (a *Assembler) Finalize(parentToolUseID *string) *types.AssistantMessage {
	return a.finalizeState(parentToolUseID)
}

func (a *Assembler) finalizeState(parent *string) *types.AssistantMessage {
	key := contextKey(parent)
	st, ok := a.contexts[key]
	if !ok || !st.started {
		return nil
	}

	for _, idx := range st.openIndices() {
		st.closeBlock(idx)
		info := a.stepInfo(st, parent)
		info.Index = idx
		a.strategy.BlockClosed(info, a.emit)
	}

	snapshot := st.finalize()
	snapshot.Model = a.model
	msg := types.NewAssistantMessage(*snapshot, parent, a.sessionID)
	a.emit(msg)

	info := a.stepInfo(st, parent)
	a.strategy.MessageStopped(info, a.emit)

	// destroyed on finalization: the context restarts from a fresh state
	a.contexts[key] = newMessageState()
	return msg
}

// Consume drains an event stream in lock step for one context, finalizing
// at end of stream. On cancellation the partially-built message stays open
// and is the caller's to finalize or discard.
func (a *Assembler) Consume(ctx context.Context, stream genai.EventStream, parentToolUseID *string) (*types.AssistantMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := stream.Next()
		if err == io.EOF {
			return a.Finalize(parentToolUseID), nil
		}
		if err != nil {
			return nil, err
		}
		if err := a.Process(parentToolUseID, ev); err != nil {
			return nil, err
		}
	}
}

func (a *Assembler) ensureStarted(st *MessageState, parent *string) {
	if st.started {
		return
	}
	st.started = true
	a.strategy.MessageStarted(a.stepInfo(st, parent), a.emit)
}

func blockDelta(bt BlockType, fragment string) *types.BlockDelta {
	switch bt {
	case BlockText:
		return &types.BlockDelta{Type: "text_delta", Text: fragment}
	case BlockThinking:
		return &types.BlockDelta{Type: "thinking_delta", Thinking: fragment}
	default:
		return nil
	}
}

// formatThought renders a thought event the way thinking blocks carry it:
// headline restored to its bold form, description appended.
func formatThought(t *genai.Thought) string {
	if t == nil {
		return ""
	}
	if t.Subject == "" {
		return t.Description
	}
	if t.Description == "" {
		return "**" + t.Subject + "**"
	}
	return "**" + t.Subject + "** " + t.Description
}
