package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

// MockModel is a scripted implementation of genai.Model for testing
type MockModel struct {
	reply     string
	deltas    []string
	toolCalls []genai.ToolCall
	err       error
	delay     time.Duration
	requests  []*genai.Request
	mu        sync.Mutex
}

var _ genai.Model = (*MockModel)(nil)

// NewMockModel creates a mock model that replies with an empty response
func NewMockModel() *MockModel {
	return &MockModel{}
}

// Generate records the request and returns the configured reply or error
func (m *MockModel) Generate(
	ctx context.Context, req *genai.Request,
) (*genai.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	reply, calls, failure, delay := m.reply, m.toolCalls, m.err, m.delay
	m.mu.Unlock()

	if err := util.Sleep(ctx, delay); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	return &genai.Response{Text: reply, ToolCalls: calls}, nil
}

// Stream records the request, hands each configured delta to fn and
// returns the accumulated text with the configured tool calls
func (m *MockModel) Stream(
	ctx context.Context, req *genai.Request, fn genai.TextFunc,
) (*genai.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	deltas, calls, failure, delay := m.deltas, m.toolCalls, m.err, m.delay
	m.mu.Unlock()

	if err := util.Sleep(ctx, delay); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	res := &genai.Response{ToolCalls: calls}
	for _, d := range deltas {
		if err := fn(d); err != nil {
			return nil, err
		}
		res.Text += d
	}
	return res, nil
}

// SetReply configures the text returned by Generate
func (m *MockModel) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetDeltas configures the text deltas produced by Stream
func (m *MockModel) SetDeltas(deltas ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deltas = deltas
}

// SetToolCalls configures the tool calls returned by both operations
func (m *MockModel) SetToolCalls(calls ...genai.ToolCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toolCalls = calls
}

// SetError configures the mock to fail every call
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay configures a pause before every response
func (m *MockModel) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests returns the requests received so far
func (m *MockModel) Requests() []*genai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*genai.Request, len(m.requests))
	copy(res, m.requests)
	return res
}
