package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

// Client talks to an Alan API server
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var (
	ErrChat        = errors.New("chat request failed")
	ErrGenerate    = errors.New("failed to generate workflow")
	ErrGetWorkflow = errors.New("failed to get workflow")
)

const (
	routeChat     = "/api/chat"
	routeGenerate = "/api/workflow/generate"
	routeWorkflow = "/api/workflow"
)

// NewClient creates a Client for the server at baseURL. A zero timeout
// leaves requests bounded only by their contexts
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat sends a conversation and hands each reply frame to fn as it
// arrives
func (c *Client) Chat(
	ctx context.Context, msgs []api.ChatMessage, fn stream.FrameFunc,
) error {
	resp, err := c.post(ctx, routeChat, api.ChatRequest{Messages: msgs})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChat, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(ErrChat, resp)
	}
	if err := stream.Read(resp.Body, fn); err != nil {
		return fmt.Errorf("%w: %w", ErrChat, err)
	}
	return nil
}

// Generate asks the workflow generation service for a blueprint
func (c *Client) Generate(
	ctx context.Context, goal string,
) (*api.WorkflowBlueprint, error) {
	resp, err := c.post(ctx, routeGenerate, api.GenerateRequest{
		Goal:    goal,
		Context: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ErrGenerate, resp)
	}
	return decodeBlueprint(ErrGenerate, resp.Body)
}

// Workflow retrieves a previously generated blueprint
func (c *Client) Workflow(
	ctx context.Context, id api.WorkflowID,
) (*api.WorkflowBlueprint, error) {
	req, err := http.NewRequestWithContext(
		ctx, "GET", c.url(routeWorkflow+"/"+string(id)), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetWorkflow, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetWorkflow, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ErrGetWorkflow, resp)
	}
	return decodeBlueprint(ErrGetWorkflow, resp.Body)
}

func (c *Client) post(
	ctx context.Context, route string, body any,
) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, "POST", c.url(route), bytes.NewBuffer(data),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) url(route string) string {
	return c.baseURL + route
}

func statusError(base error, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%w: status %d, body: %s",
		base, resp.StatusCode, string(body))
}

func decodeBlueprint(
	base error, r io.Reader,
) (*api.WorkflowBlueprint, error) {
	var res api.WorkflowBlueprint
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %w", base, err)
	}
	return &res, nil
}
