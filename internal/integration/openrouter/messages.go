package openrouter

import (
	"github.com/cloudwego/eino/schema"
	"github.com/futig/ai-workbench/internal/entity"
)

func toSchemaMessages(msgs []entity.ChatMessage) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case entity.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case entity.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
