// Package genai adapts external text-generation models to the narrow
// interface the assistant needs: one-shot generation and streamed
// conversation with tool affordances
package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

type (
	// Model is an external text-generation model
	Model interface {
		// Generate produces a complete response in one call
		Generate(context.Context, *Request) (*Response, error)

		// Stream produces a response incrementally, handing each text delta
		// to the provided function as it arrives. The returned Response
		// carries the accumulated text and any tool calls
		Stream(context.Context, *Request, TextFunc) (*Response, error)
	}

	// Request is a provider-neutral generation request
	Request struct {
		System    string
		Messages  []api.ChatMessage
		Tools     []api.ToolSpec
		MaxTokens int
	}

	// Response is a provider-neutral generation result
	Response struct {
		Text      string
		ToolCalls []ToolCall
	}

	// ToolCall is a tool invocation requested by the model
	ToolCall struct {
		ID        string
		Name      api.ToolName
		Arguments string
	}

	// TextFunc receives streamed text deltas. Returning an error aborts
	// the stream
	TextFunc func(delta string) error
)

var (
	ErrNoChoices           = errors.New("model returned no choices")
	ErrGenerate            = errors.New("model generation failed")
	ErrUnsupportedProvider = errors.New("unsupported model provider")
)

// New constructs the Model selected by the configuration
func New(cfg config.ModelConfig) (Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case config.ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// Prompt builds a request carrying a single user message
func Prompt(text string, maxTokens int) *Request {
	return &Request{
		Messages: []api.ChatMessage{
			{Role: api.RoleUser, Content: text},
		},
		MaxTokens: maxTokens,
	}
}
