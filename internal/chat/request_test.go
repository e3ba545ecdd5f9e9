package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

func TestParseMessages(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		msgs := chat.ParseMessages([]byte(`{"messages":[
			{"role":"user","content":"hi"},
			{"role":"assistant","content":"hello"},
			{"role":"tool","content":"{}","toolCallId":"call-1"}
		],"extra":true}`))
		assert.Equal(t, []api.ChatMessage{
			{Role: api.RoleUser, Content: "hi"},
			{Role: api.RoleAssistant, Content: "hello"},
			{Role: api.RoleTool, Content: "{}", ToolCallID: "call-1"},
		}, msgs)
	})

	t.Run("content_parts", func(t *testing.T) {
		msgs := chat.ParseMessages([]byte(`{"messages":[{"role":"user",
			"content":[{"type":"text","text":"a "},{"type":"image"},
			{"type":"text","text":"b"}]}]}`))
		assert.Len(t, msgs, 1)
		assert.Equal(t, "a b", msgs[0].Content)
	})

	t.Run("skips_bad_entries", func(t *testing.T) {
		msgs := chat.ParseMessages([]byte(`{"messages":[
			"text", 3, {"role":"robot","content":"x"},
			{"role":"user","content":42}, {"role":"user","content":"ok"}
		]}`))
		assert.Equal(t, []api.ChatMessage{
			{Role: api.RoleUser, Content: ""},
			{Role: api.RoleUser, Content: "ok"},
		}, msgs)
	})

	for _, body := range []string{
		"", "not json", "[]", `{"messages":"x"}`, `{"other":[]}`, `{`,
	} {
		assert.Empty(t, chat.ParseMessages([]byte(body)), body)
	}
}

func TestConfirmation(t *testing.T) {
	assert.Equal(t,
		"Got it! You want to: automatically trigger when x happens. "+
			"Let me create that workflow for you...",
		chat.Confirmation("When X happens"),
	)
	assert.Equal(t,
		"Got it! You want to: sync crm. Let me create that workflow for you...",
		chat.Confirmation("Sync CRM"),
	)
	assert.Equal(t,
		"Got it! You want to: whenever. Let me create that workflow for you...",
		chat.Confirmation("Whenever"),
	)
	assert.Equal(t,
		"Got it! Let me create that workflow for you...",
		chat.Confirmation(""),
	)
}

func TestFallbackGoal(t *testing.T) {
	assert.Equal(t, "your goal", chat.FallbackGoal(nil))
	assert.Equal(t, "your goal", chat.FallbackGoal([]api.ChatMessage{
		{Role: api.RoleUser, Content: "  "},
	}))
	assert.Equal(t, "Do it", chat.FallbackGoal([]api.ChatMessage{
		{Role: api.RoleUser, Content: "Do it"},
		{Role: api.RoleAssistant, Content: "ok"},
	}))
}
