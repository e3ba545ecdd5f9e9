package narrator_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/internal/narrator"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

type failingSynth struct{ err error }

var errBoom = errors.New("boom")

func (s failingSynth) Synthesize(
	context.Context, string,
) (*api.WorkflowBlueprint, error) {
	return nil, s.err
}

func collect(ch <-chan narrator.Update) []narrator.Update {
	var res []narrator.Update
	for u := range ch {
		res = append(res, u)
	}
	return res
}

func statuses(updates []narrator.Update) []string {
	var res []string
	for _, u := range updates {
		if u.Status != "" {
			res = append(res, u.Status)
		}
	}
	return res
}

func TestNarrateOffline(t *testing.T) {
	n := narrator.New(blueprint.NewChatCatalog(), true, 0)
	updates := collect(n.Narrate(context.Background(), "form to airtable"))

	assert.Len(t, updates, 5)
	assert.Equal(t, []string{
		narrator.StatusAnalyzing,
		narrator.StatusIdentifying,
		narrator.StatusDesigning,
		narrator.StatusGenerating,
	}, statuses(updates))

	last := updates[4]
	assert.True(t, last.IsTerminal())
	assert.NoError(t, last.Err)
	assert.Len(t, last.Blueprint.Steps, 2)
	for _, u := range updates[:4] {
		assert.False(t, u.IsTerminal())
	}
}

func TestNarratePacing(t *testing.T) {
	n := narrator.New(blueprint.NewChatCatalog(), true, 10*time.Millisecond)
	start := time.Now()
	updates := collect(n.Narrate(context.Background(), "goal"))
	assert.Len(t, updates, 5)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestNarrateFailure(t *testing.T) {
	n := narrator.New(failingSynth{err: errBoom}, true, 0)
	updates := collect(n.Narrate(context.Background(), "goal"))
	assert.Len(t, updates, 5)
	assert.ErrorIs(t, updates[4].Err, errBoom)
	assert.Nil(t, updates[4].Blueprint)
}

func TestNarrateCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := narrator.New(blueprint.NewChatCatalog(), true, time.Hour)
	ch := n.Narrate(ctx, "goal")

	first := <-ch
	assert.Equal(t, narrator.StatusAnalyzing, first.Status)
	cancel()

	for u := range ch {
		assert.False(t, u.IsTerminal())
	}
}

func TestNarrateConnected(t *testing.T) {
	t.Run("remote_success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				bp, _ := blueprint.NewPlannerCatalog().Synthesize(
					r.Context(), "newsletter",
				)
				_, _ = w.Write(mustJSON(t, bp))
			},
		))
		defer server.Close()

		synth := blueprint.NewHTTPSynthesizer(server.URL, time.Second)
		n := narrator.New(synth, false, time.Hour)
		updates := collect(n.Narrate(context.Background(), "newsletter"))

		assert.Len(t, updates, 3)
		assert.Equal(t, []string{
			narrator.StatusAnalyzing,
			narrator.StatusDesigning,
		}, statuses(updates))
		assert.Len(t, updates[2].Blueprint.Steps, 3)
	})

	t.Run("remote_failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		))
		defer server.Close()

		synth := blueprint.NewHTTPSynthesizer(server.URL, time.Second)
		n := narrator.New(synth, false, 0)
		updates := collect(n.Narrate(context.Background(), "goal"))

		assert.Len(t, updates, 2)
		assert.Equal(t, []string{narrator.StatusAnalyzing}, statuses(updates))
		assert.ErrorIs(t, updates[1].Err, blueprint.ErrHTTPStatus)
	})

	t.Run("plain_synthesizer", func(t *testing.T) {
		n := narrator.New(failingSynth{err: errBoom}, false, 0)
		updates := collect(n.Narrate(context.Background(), "goal"))
		assert.Len(t, updates, 2)
		assert.Equal(t, []string{narrator.StatusAnalyzing}, statuses(updates))
		assert.ErrorIs(t, updates[1].Err, errBoom)
	})

	t.Run("cancelled_after_accept", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p := &stubPending{}
		synth := &cancellingRequester{pending: p, cancel: cancel}
		ch := narrator.New(synth, false, 0).Narrate(ctx, "goal")

		first := <-ch
		assert.Equal(t, narrator.StatusAnalyzing, first.Status)
		assert.Empty(t, collect(ch))
		assert.True(t, p.discarded)
		assert.False(t, p.read)
	})
}

type (
	// cancellingRequester accepts every request, then cancels the
	// narration before its result can be delivered
	cancellingRequester struct {
		pending *stubPending
		cancel  context.CancelFunc
	}

	stubPending struct {
		read      bool
		discarded bool
	}
)

func (r *cancellingRequester) Synthesize(
	context.Context, string,
) (*api.WorkflowBlueprint, error) {
	return nil, errBoom
}

func (r *cancellingRequester) Request(
	context.Context, string,
) (blueprint.Pending, error) {
	r.cancel()
	return r.pending, nil
}

func (p *stubPending) Result() (*api.WorkflowBlueprint, error) {
	p.read = true
	return nil, errBoom
}

func (p *stubPending) Discard() {
	p.discarded = true
}
