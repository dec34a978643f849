package main

import (
	"fmt"
	"io"

	"github.com/jg-phare/loom/pkg/types"
)

// textRenderer prints a human-readable view of the message stream. Only
// assistant content and the terminal result surface; partial events and
// system messages stay silent.
type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) render(msg types.SDKMessage) {
	switch m := msg.(type) {
	case *types.AssistantMessage:
		for _, block := range m.Message.Content {
			switch block.Type {
			case "text":
				fmt.Fprintln(r.w, block.Text)
			case "tool_use":
				fmt.Fprintf(r.w, "[tool: %s]\n", block.Name)
			}
		}
	case *types.ResultMessage:
		if m.IsError {
			fmt.Fprintf(r.w, "error: %s\n", m.ErrorMessage)
		}
	}
}
