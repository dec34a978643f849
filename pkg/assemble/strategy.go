package assemble

import "github.com/jg-phare/loom/pkg/types"

// Emitter receives finished protocol objects and partial stream events.
type Emitter func(types.SDKMessage)

// StepInfo is the context handed to strategy hooks at each accumulation
// step. Parent is nil for the main-agent context.
type StepInfo struct {
	MessageID string
	SessionID string
	Parent    *string
	Model     string
	Index     int
	Block     *types.ContentBlock
	Delta     *types.BlockDelta
	Usage     types.Usage
}

// Strategy customizes what surfaces while a message accumulates. The
// assembler always emits the finalized message itself; hooks only add (or
// skip) block-level partial events.
type Strategy interface {
	MessageStarted(info StepInfo, emit Emitter)
	BlockCreated(info StepInfo, emit Emitter)
	FragmentAppended(info StepInfo, emit Emitter)
	BlockClosed(info StepInfo, emit Emitter)
	MessageStopped(info StepInfo, emit Emitter)
}

// BatchStrategy surfaces nothing until finalization.
type BatchStrategy struct{}

func (BatchStrategy) MessageStarted(StepInfo, Emitter)   {}
func (BatchStrategy) BlockCreated(StepInfo, Emitter)     {}
func (BatchStrategy) FragmentAppended(StepInfo, Emitter) {}
func (BatchStrategy) BlockClosed(StepInfo, Emitter)      {}
func (BatchStrategy) MessageStopped(StepInfo, Emitter)   {}

// StreamingStrategy synthesizes partial protocol events for live rendering.
// Nothing is emitted unless IncludePartial is set. message_start and
// message_stop fire only for the main-agent context, never for sub-agents.
type StreamingStrategy struct {
	IncludePartial bool
}

func (s StreamingStrategy) MessageStarted(info StepInfo, emit Emitter) {
	if !s.IncludePartial || info.Parent != nil {
		return
	}
	emit(types.NewPartialAssistantMessage(types.MessageStartEvent{
		Type: "message_start",
		Message: types.APIMessage{
			ID:      info.MessageID,
			Type:    "message",
			Role:    "assistant",
			Model:   info.Model,
			Content: []types.ContentBlock{},
		},
	}, info.Parent, info.SessionID))
}

func (s StreamingStrategy) BlockCreated(info StepInfo, emit Emitter) {
	if !s.IncludePartial {
		return
	}
	emit(types.NewPartialAssistantMessage(types.ContentBlockStartEvent{
		Type:         "content_block_start",
		MessageID:    info.MessageID,
		Index:        info.Index,
		ContentBlock: *info.Block,
	}, info.Parent, info.SessionID))
}

func (s StreamingStrategy) FragmentAppended(info StepInfo, emit Emitter) {
	if !s.IncludePartial || info.Delta == nil {
		return
	}
	emit(types.NewPartialAssistantMessage(types.ContentBlockDeltaEvent{
		Type:      "content_block_delta",
		MessageID: info.MessageID,
		Index:     info.Index,
		Delta:     *info.Delta,
	}, info.Parent, info.SessionID))
}

func (s StreamingStrategy) BlockClosed(info StepInfo, emit Emitter) {
	if !s.IncludePartial {
		return
	}
	emit(types.NewPartialAssistantMessage(types.ContentBlockStopEvent{
		Type:      "content_block_stop",
		MessageID: info.MessageID,
		Index:     info.Index,
	}, info.Parent, info.SessionID))
}

func (s StreamingStrategy) MessageStopped(info StepInfo, emit Emitter) {
	if !s.IncludePartial || info.Parent != nil {
		return
	}
	emit(types.NewPartialAssistantMessage(types.MessageStopEvent{
		Type:      "message_stop",
		MessageID: info.MessageID,
	}, info.Parent, info.SessionID))
}
