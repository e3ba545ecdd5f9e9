package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

type (
	// Kind is the single-character prefix identifying a frame
	Kind byte

	// Frame is a decoded stream line
	Frame struct {
		Kind         Kind
		Text         string
		ToolCalls    []ToolCall
		FinishReason string
	}

	// ToolCall is a tool invocation as carried on the wire
	ToolCall struct {
		ToolCallID string          `json:"toolCallId"`
		ToolName   api.ToolName    `json:"toolName"`
		Args       json.RawMessage `json:"args"`
	}

	toolCallOut struct {
		ToolCallID string       `json:"toolCallId"`
		ToolName   api.ToolName `json:"toolName"`
		Args       any          `json:"args"`
	}

	toolCallsOut struct {
		ToolCalls []toolCallOut `json:"toolCalls"`
	}

	toolCallsIn struct {
		ToolCalls []ToolCall `json:"toolCalls"`
	}

	finish struct {
		FinishReason string `json:"finishReason"`
	}
)

const (
	KindText     Kind = '0'
	KindToolCall Kind = '2'
	KindFinish   Kind = 'd'

	FinishReasonStop = "stop"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownFrame   = errors.New("unknown frame kind")
)

var textEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeText escapes backslashes and double quotes, and nothing else
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// TextFrame encodes a text delta using the minimal escaping understood by
// existing consumers
func TextFrame(text string) []byte {
	return []byte(`0:"` + EscapeText(text) + "\"\n")
}

// DeltaFrame encodes model output as a text delta with full JSON string
// escaping, so that newlines and control characters survive the line
// protocol
func DeltaFrame(text string) ([]byte, error) {
	return prefixed(KindText, text)
}

// ToolCallFrame encodes a single tool invocation
func ToolCallFrame(id string, inv api.ToolInvocation) ([]byte, error) {
	return prefixed(KindToolCall, toolCallsOut{
		ToolCalls: []toolCallOut{{
			ToolCallID: id,
			ToolName:   inv.ToolName(),
			Args:       inv.Args(),
		}},
	})
}

// FinishFrame encodes the completion marker
func FinishFrame() []byte {
	return []byte(`d:{"finishReason":"` + FinishReasonStop + "\"}\n")
}

// ParseFrame decodes a single line, with or without its trailing newline
func ParseFrame(line []byte) (*Frame, error) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	if len(line) < 2 || line[1] != ':' {
		return nil, fmt.Errorf("%w: %q", ErrMalformedFrame, line)
	}

	res := &Frame{Kind: Kind(line[0])}
	payload := line[2:]
	switch res.Kind {
	case KindText:
		if err := json.Unmarshal(payload, &res.Text); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
		}
	case KindToolCall:
		var calls toolCallsIn
		if err := json.Unmarshal(payload, &calls); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
		}
		res.ToolCalls = calls.ToolCalls
	case KindFinish:
		var f finish
		if err := json.Unmarshal(payload, &f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
		}
		res.FinishReason = f.FinishReason
	default:
		return nil, fmt.Errorf("%w: %c", ErrUnknownFrame, res.Kind)
	}
	return res, nil
}

// Invocation decodes the tool call's arguments into its typed invocation
func (c ToolCall) Invocation() (api.ToolInvocation, error) {
	return api.ParseToolInvocation(c.ToolName, c.Args)
}

func prefixed(kind Kind, v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(kind))
	buf.WriteByte(':')

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
