package genai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// Ollama is a Model backed by a local Ollama server through langchaingo
type Ollama struct {
	llm llms.Model
}

var _ Model = (*Ollama)(nil)

// NewOllama creates an Ollama model for the configured server and model
func NewOllama(cfg config.ModelConfig) (*Ollama, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama LLM: %w", err)
	}
	return &Ollama{llm: llm}, nil
}

func (m *Ollama) Generate(ctx context.Context, req *Request) (*Response, error) {
	return m.generate(ctx, req, nil)
}

func (m *Ollama) Stream(
	ctx context.Context, req *Request, onText TextFunc,
) (*Response, error) {
	return m.generate(ctx, req, onText)
}

func (m *Ollama) generate(
	ctx context.Context, req *Request, onText TextFunc,
) (*Response, error) {
	msgs := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs,
			llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		)
	}
	for _, msg := range req.Messages {
		if role, ok := messageTypes[msg.Role]; ok {
			msgs = append(msgs, llms.TextParts(role, msg.Content))
		}
	}

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(toLLMTools(req.Tools)))
	}
	if onText != nil {
		opts = append(opts, llms.WithStreamingFunc(
			func(_ context.Context, chunk []byte) error {
				return onText(string(chunk))
			},
		))
	}

	resp, err := m.llm.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	res := &Response{Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		res.ToolCalls = append(res.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      api.ToolName(tc.FunctionCall.Name),
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return res, nil
}

var messageTypes = map[api.Role]llms.ChatMessageType{
	api.RoleUser:      llms.ChatMessageTypeHuman,
	api.RoleAssistant: llms.ChatMessageTypeAI,
	api.RoleSystem:    llms.ChatMessageTypeSystem,
}

func toLLMTools(specs []api.ToolSpec) []llms.Tool {
	res := make([]llms.Tool, 0, len(specs))
	for _, s := range specs {
		res = append(res, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        string(s.Name),
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return res
}
