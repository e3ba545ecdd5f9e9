package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LawrenceCirillo/Alan/internal/assert"
	"github.com/LawrenceCirillo/Alan/internal/assert/helpers"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/client"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

func TestChat(t *testing.T) {
	w := assert.New(t)
	env := helpers.NewTestServer(t, helpers.NewTestConfig(), nil)
	c := client.NewClient(env.HTTP.URL+"/", 5*time.Second)

	var frames []*stream.Frame
	err := c.Chat(context.Background(), []api.ChatMessage{
		{Role: api.RoleUser, Content: "Connect Airtable to Gmail"},
	}, func(f *stream.Frame) error {
		frames = append(frames, f)
		return nil
	})
	w.NoError(err)
	w.Require.Len(frames, 7)
	w.Equal(stream.KindFinish, frames[6].Kind)
}

func TestChatStopsOnCallbackError(t *testing.T) {
	w := assert.New(t)
	env := helpers.NewTestServer(t, helpers.NewTestConfig(), nil)
	c := client.NewClient(env.HTTP.URL, 5*time.Second)

	stop := errors.New("stop")
	count := 0
	err := c.Chat(context.Background(), nil, func(*stream.Frame) error {
		count++
		return stop
	})
	w.ErrorIs(err, client.ErrChat)
	w.ErrorIs(err, stop)
	w.Equal(1, count)
}

func TestGenerateAndGet(t *testing.T) {
	w := assert.New(t)
	env := helpers.NewTestServer(t, helpers.NewTestConfig(), nil)
	c := client.NewClient(env.HTTP.URL, 5*time.Second)
	ctx := context.Background()

	bp, err := c.Generate(ctx, "Add CRM contacts to an email sequence")
	w.Require.NoError(err)
	w.BlueprintValid(bp)
	w.Equal("hubspot", bp.Steps[0].Tool)

	got, err := c.Workflow(ctx, bp.WorkflowID)
	w.Require.NoError(err)
	w.Equal(bp, got)

	_, err = c.Workflow(ctx, "nope")
	w.ErrorIs(err, client.ErrGetWorkflow)
	w.Contains(err.Error(), "status 404")

	_, err = c.Generate(ctx, "")
	w.ErrorIs(err, client.ErrGenerate)
	w.Contains(err.Error(), "status 400")
}

func TestUnreachable(t *testing.T) {
	w := assert.New(t)
	c := client.NewClient("http://127.0.0.1:1", time.Second)

	_, err := c.Generate(context.Background(), "goal")
	w.ErrorIs(err, client.ErrGenerate)
}
