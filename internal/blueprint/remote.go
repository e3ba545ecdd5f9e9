package blueprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/log"
)

type (
	// Requester issues a synthesis request whose result is read later,
	// letting callers report progress once the request has been accepted
	Requester interface {
		Request(ctx context.Context, goal string) (Pending, error)
	}

	// Pending is an accepted synthesis request. Exactly one of Result or
	// Discard must be called to release it
	Pending interface {
		Result() (*api.WorkflowBlueprint, error)
		Discard()
	}

	// HTTPSynthesizer delegates synthesis to a workflow generation service
	HTTPSynthesizer struct {
		httpClient *http.Client
		endpoint   string
	}

	httpPending struct {
		resp  *http.Response
		start time.Time
	}
)

const generatePath = "/api/workflow/generate"

var (
	ErrSynthesis  = errors.New("workflow synthesis failed")
	ErrHTTPStatus = errors.New("generation service returned HTTP error")
)

var (
	_ Synthesizer = (*HTTPSynthesizer)(nil)
	_ Requester   = (*HTTPSynthesizer)(nil)
)

// NewHTTPSynthesizer creates a synthesizer for the generation service at
// baseURL. Every call is bounded by timeout
func NewHTTPSynthesizer(baseURL string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: strings.TrimSuffix(baseURL, "/") + generatePath,
	}
}

func (s *HTTPSynthesizer) Synthesize(
	ctx context.Context, goal string,
) (*api.WorkflowBlueprint, error) {
	pending, err := s.Request(ctx, goal)
	if err != nil {
		return nil, err
	}
	return pending.Result()
}

func (s *HTTPSynthesizer) Request(
	ctx context.Context, goal string,
) (Pending, error) {
	body, err := json.Marshal(api.GenerateRequest{
		Goal:    goal,
		Context: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, "POST", s.endpoint, bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "Alan-Assistant/1.0")

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	dur := time.Since(start)

	if err != nil {
		slog.Error("Generation request failed",
			slog.String("endpoint", s.endpoint),
			slog.Duration("duration", dur),
			log.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		slog.Error("Generation service error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(respBody)))
		return nil, fmt.Errorf("%w: %w: HTTP %d",
			ErrSynthesis, ErrHTTPStatus, resp.StatusCode)
	}

	return &httpPending{resp: resp, start: start}, nil
}

func (p *httpPending) Result() (*api.WorkflowBlueprint, error) {
	defer func() { _ = p.resp.Body.Close() }()

	var res api.WorkflowBlueprint
	if err := json.NewDecoder(p.resp.Body).Decode(&res); err != nil {
		slog.Error("Failed to decode blueprint",
			log.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	slog.Debug("Blueprint received",
		log.WorkflowID(res.WorkflowID),
		slog.Duration("duration", time.Since(p.start)))
	return &res, nil
}

func (p *httpPending) Discard() {
	_ = p.resp.Body.Close()
}
