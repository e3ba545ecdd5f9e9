package chat

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// ParseMessages reads the conversation from a chat request body. It never
// fails: malformed bodies and entries are ignored, yielding fewer (or no)
// messages. Content given as an array of parts is joined from its text
// parts
func ParseMessages(body []byte) []api.ChatMessage {
	if !gjson.ValidBytes(body) {
		return nil
	}
	msgs := gjson.GetBytes(body, "messages")
	if !msgs.IsArray() {
		return nil
	}

	var res []api.ChatMessage
	msgs.ForEach(func(_, m gjson.Result) bool {
		if !m.IsObject() {
			return true
		}
		role := api.Role(m.Get("role").String())
		if !role.IsValid() {
			return true
		}
		res = append(res, api.ChatMessage{
			Role:       role,
			Content:    messageContent(m.Get("content")),
			ToolCallID: m.Get("toolCallId").String(),
		})
		return true
	})
	return res
}

func messageContent(c gjson.Result) string {
	if !c.IsArray() {
		if c.Type == gjson.String {
			return c.String()
		}
		return ""
	}
	var parts []string
	c.ForEach(func(_, p gjson.Result) bool {
		if p.Get("type").String() == "text" {
			parts = append(parts, p.Get("text").String())
		}
		return true
	})
	return strings.Join(parts, "")
}
