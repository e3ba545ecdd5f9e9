package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// OpenAI is a Model backed by the OpenAI chat completions API
type OpenAI struct {
	client openai.Client
	model  string
}

var _ Model = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI model. Retries are disabled: a failed call
// falls through to the caller's offline behavior
func NewOpenAI(cfg config.ModelConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts,
			option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"),
		)
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Name,
	}
}

func (m *OpenAI) Generate(ctx context.Context, req *Request) (*Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.params(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return toResponse(resp.Choices[0].Message), nil
}

func (m *OpenAI) Stream(
	ctx context.Context, req *Request, onText TextFunc,
) (*Response, error) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, m.params(req))
	defer func() { _ = stream.Close() }()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onText(delta); err != nil {
				return nil, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if len(acc.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return toResponse(acc.Choices[0].Message), nil
}

func (m *OpenAI) params(req *Request) openai.ChatCompletionNewParams {
	msgs := make(
		[]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1,
	)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case api.RoleUser:
			msgs = append(msgs, openai.UserMessage(msg.Content))
		case api.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(msg.Content))
		case api.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	for _, t := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        string(t.Name),
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}
	return params
}

func toResponse(msg openai.ChatCompletionMessage) *Response {
	res := &Response{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		res.ToolCalls = append(res.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      api.ToolName(tc.Function.Name),
			Arguments: tc.Function.Arguments,
		})
	}
	return res
}
