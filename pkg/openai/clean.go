package openai

// cleanOrphanedToolCalls removes tool-call descriptors with no matching
// tool-response message and tool-response messages with no matching call.
//
// Two deterministic passes: the first filters against the full id sets, the
// second re-runs against the already-filtered sets, because a call removed
// in pass one may orphan a response pass one still considered valid. Each
// pass can only shrink the id sets, so two passes converge; the operation is
// idempotent on its own output.
func cleanOrphanedToolCalls(msgs []ChatMessage) []ChatMessage {
	return cleanPass(cleanPass(msgs))
}

func cleanPass(msgs []ChatMessage) []ChatMessage {
	callIDs := make(map[string]bool)
	responseIDs := make(map[string]bool)
	for _, m := range msgs {
		for _, tc := range m.ToolCalls {
			if tc.ID != "" {
				callIDs[tc.ID] = true
			}
		}
		if m.Role == "tool" && m.ToolCallID != "" {
			responseIDs[m.ToolCallID] = true
		}
	}

	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		switch {
		case m.Role == "assistant" && len(m.ToolCalls) > 0:
			kept := m.ToolCalls[:0:0]
			for _, tc := range m.ToolCalls {
				if responseIDs[tc.ID] {
					kept = append(kept, tc)
				}
			}
			if len(kept) > 0 {
				m.ToolCalls = kept
				out = append(out, m)
			} else if hasNonEmptyText(m.Content) {
				// the message survives on its text alone
				m.ToolCalls = nil
				out = append(out, m)
			}

		case m.Role == "tool":
			if callIDs[m.ToolCallID] {
				out = append(out, m)
			}

		default:
			out = append(out, m)
		}
	}
	return out
}

// mergeConsecutiveAssistant merges any run of adjacent assistant messages
// into one: text concatenated in order, tool-call lists concatenated in
// order, empty text becoming nil rather than "". Upstream turn segmentation
// may split one logical assistant turn; this undoes that.
func mergeConsecutiveAssistant(msgs []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != "assistant" || len(out) == 0 || out[len(out)-1].Role != "assistant" {
			out = append(out, m)
			continue
		}

		prev := &out[len(out)-1]
		merged := contentText(prev.Content) + contentText(m.Content)
		if merged == "" {
			prev.Content = nil
		} else {
			prev.Content = merged
		}
		prev.ToolCalls = append(prev.ToolCalls, m.ToolCalls...)
	}
	return out
}

func hasNonEmptyText(content any) bool {
	return contentText(content) != ""
}

// contentText extracts the plain text of a message body, tolerating the
// string, part-list, and nil shapes Content can take.
func contentText(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []ContentPart:
		var s string
		for _, p := range v {
			s += p.Text
		}
		return s
	default:
		return ""
	}
}
