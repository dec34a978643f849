package openai

// applyCacheControl tags the last content item of the system message and of
// the most recent message as cacheable. String content is promoted to
// structured parts first, since cache markers attach to parts.
func applyCacheControl(msgs []ChatMessage) {
	for i := range msgs {
		if msgs[i].Role == "system" {
			tagLastPart(&msgs[i])
			break
		}
	}
	if len(msgs) > 0 && msgs[len(msgs)-1].Role != "system" {
		tagLastPart(&msgs[len(msgs)-1])
	}
}

func tagLastPart(m *ChatMessage) {
	parts := promoteContent(m.Content)
	if len(parts) == 0 {
		return
	}
	parts[len(parts)-1].CacheControl = &CacheControl{Type: "ephemeral"}
	m.Content = parts
}

// promoteContent converts string content to a structured part list.
// Already-structured content is returned as-is; empty content yields nil.
func promoteContent(content any) []ContentPart {
	switch v := content.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []ContentPart{{Type: "text", Text: v}}
	case []ContentPart:
		return v
	default:
		return nil
	}
}
